package patient

import "time"

// TimestampLayout is the textual format used when records cross the tabular
// store boundary.
const TimestampLayout = time.RFC3339

// VitalRecord is one timestamped observation of a patient's vitals. Risk is
// only meaningful when HasRisk is true; inference-time queries carry no label.
type VitalRecord struct {
	PatientID     string
	Timestamp     time.Time
	HeartRate     int
	SystolicBP    int
	DiastolicBP   int
	GlucoseLevel  int
	ActivityLevel float64
	SleepHours    float64
	StressLevel   float64
	Risk          int
	HasRisk       bool
}
