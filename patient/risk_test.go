package patient

import (
	"math/rand"
	"testing"
)

func TestRiskLabelMatchesRule(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		r := VitalRecord{
			HeartRate:     50 + rng.Intn(80),
			SystolicBP:    100 + rng.Intn(60),
			DiastolicBP:   60 + rng.Intn(40),
			GlucoseLevel:  70 + rng.Intn(130),
			ActivityLevel: rng.Float64() * 12,
			SleepHours:    3 + rng.Float64()*7,
			StressLevel:   rng.Float64() * 11,
		}
		want := 0
		if r.HeartRate > 90 || r.SystolicBP > 130 || r.GlucoseLevel > 150 ||
			r.SleepHours < 5.0 || r.StressLevel > 7.0 {
			want = 1
		}
		if got := RiskLabel(r); got != want {
			t.Fatalf("RiskLabel(%+v) = %d, want %d", r, got, want)
		}
	}
}

func TestRiskLabelBoundaries(t *testing.T) {
	base := VitalRecord{
		HeartRate:     70,
		SystolicBP:    115,
		DiastolicBP:   75,
		GlucoseLevel:  95,
		ActivityLevel: 6.0,
		SleepHours:    8.0,
		StressLevel:   2.5,
	}
	if RiskLabel(base) != 0 {
		t.Fatal("expected healthy baseline to be label 0")
	}

	cases := []struct {
		name   string
		mutate func(*VitalRecord)
		want   int
	}{
		{"heart rate at threshold", func(r *VitalRecord) { r.HeartRate = 90 }, 0},
		{"heart rate above threshold", func(r *VitalRecord) { r.HeartRate = 91 }, 1},
		{"systolic at threshold", func(r *VitalRecord) { r.SystolicBP = 130 }, 0},
		{"systolic above threshold", func(r *VitalRecord) { r.SystolicBP = 131 }, 1},
		{"glucose above threshold", func(r *VitalRecord) { r.GlucoseLevel = 151 }, 1},
		{"sleep at threshold", func(r *VitalRecord) { r.SleepHours = 5.0 }, 0},
		{"sleep below threshold", func(r *VitalRecord) { r.SleepHours = 4.9 }, 1},
		{"stress above threshold", func(r *VitalRecord) { r.StressLevel = 7.1 }, 1},
	}
	for _, tc := range cases {
		r := base
		tc.mutate(&r)
		if got := RiskLabel(r); got != tc.want {
			t.Fatalf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}
