package ml

import (
	"math"

	"vitalrisk/patient"
)

// FeatureNames returns the feature schema: the fixed, ordered list of vital
// fields the scaler and classifier are trained against. The order is
// established once at training time and must be reused verbatim at inference;
// scaled values and learned weights are meaningless under any other order.
func FeatureNames() []string {
	return []string{
		"HeartRate",
		"SystolicBP",
		"DiastolicBP",
		"GlucoseLevel",
		"ActivityLevel",
		"SleepHours",
		"StressLevel",
	}
}

// FeatureVector projects a record onto the feature schema, in schema order.
func FeatureVector(r patient.VitalRecord) []float64 {
	return []float64{
		float64(r.HeartRate),
		float64(r.SystolicBP),
		float64(r.DiastolicBP),
		float64(r.GlucoseLevel),
		r.ActivityLevel,
		r.SleepHours,
		r.StressLevel,
	}
}

// vectorFromInput reorders a field→value mapping into schema order. Every
// schema field must be present with a real value; unknown extra fields are
// ignored. A NaN value counts as missing rather than flowing into the model.
func vectorFromInput(schema []string, vitals map[string]float64) ([]float64, error) {
	vec := make([]float64, len(schema))
	var missing []string
	for i, name := range schema {
		v, ok := vitals[name]
		if !ok || math.IsNaN(v) {
			missing = append(missing, name)
			continue
		}
		vec[i] = v
	}
	if len(missing) > 0 {
		return nil, &MissingFeatureError{Fields: missing}
	}
	return vec, nil
}
