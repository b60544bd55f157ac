package patient

// Risk thresholds used when labeling synthetic training data.
const (
	riskHeartRate  = 90
	riskSystolicBP = 130
	riskGlucose    = 150
	riskSleepHours = 5.0
	riskStress     = 7.0
)

// RiskLabel is the ground-truth rule used to label generated training data.
// The trained classifier only approximates this boundary; it is never used
// as the model's decision logic at inference time.
func RiskLabel(r VitalRecord) int {
	if r.HeartRate > riskHeartRate ||
		r.SystolicBP > riskSystolicBP ||
		r.GlucoseLevel > riskGlucose ||
		r.SleepHours < riskSleepHours ||
		r.StressLevel > riskStress {
		return 1
	}
	return 0
}
