package patient

import (
	"errors"
	"math/rand"
	"time"
)

const (
	noiseProbability = 0.15
	flipProbability  = 0.2
)

// CohortGenerator produces synthetic timestamped vital records for one
// patient. Given the same seeded source it generates identical cohorts.
type CohortGenerator struct {
	rng      *rand.Rand
	start    time.Time
	interval time.Duration
}

// NewCohortGenerator creates a generator backed by the given random source.
// A nil source falls back to a time-seeded one.
func NewCohortGenerator(rng *rand.Rand) *CohortGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &CohortGenerator{
		rng:      rng,
		start:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		interval: time.Hour,
	}
}

// Generate returns count labeled records for patientID. Each vital is drawn
// independently from its documented range, labeled by RiskLabel, then passed
// through noise injection.
func (g *CohortGenerator) Generate(count int, patientID string) ([]VitalRecord, error) {
	if count <= 0 {
		return nil, errors.New("count must be positive")
	}
	if patientID == "" {
		return nil, errors.New("patient id is required")
	}

	records := make([]VitalRecord, 0, count)
	for i := 0; i < count; i++ {
		r := VitalRecord{
			PatientID:     patientID,
			Timestamp:     g.start.Add(time.Duration(i) * g.interval),
			HeartRate:     g.intBetween(60, 100),
			SystolicBP:    g.intBetween(110, 140),
			DiastolicBP:   g.intBetween(70, 90),
			GlucoseLevel:  g.intBetween(80, 180),
			ActivityLevel: g.floatBetween(0.1, 10.0),
			SleepHours:    g.floatBetween(4.0, 9.0),
			StressLevel:   g.floatBetween(1.0, 10.0),
			HasRisk:       true,
		}
		r.Risk = RiskLabel(r)
		g.injectNoise(&r)
		records = append(records, r)
	}
	return records, nil
}

// injectNoise creates boundary-ambiguous samples near the labeling rule.
// With probability 0.15 a healthy record gets its heart rate or glucose
// pushed up, and only then may the label flip to 1 with probability 0.2.
// The perturb-then-flip order is load-bearing: flipping first would change
// the label distribution around the rule boundary.
func (g *CohortGenerator) injectNoise(r *VitalRecord) {
	if r.Risk != 0 || g.rng.Float64() >= noiseProbability {
		return
	}
	if g.rng.Float64() < 0.5 {
		r.HeartRate += g.intBetween(5, 10)
	} else {
		r.GlucoseLevel += g.intBetween(10, 30)
	}
	if g.rng.Float64() < flipProbability {
		r.Risk = 1
	}
}

func (g *CohortGenerator) intBetween(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

func (g *CohortGenerator) floatBetween(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}
