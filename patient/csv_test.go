package patient

import (
	"bytes"
	"math/rand"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestCSVRoundTrip(t *testing.T) {
	records, err := NewCohortGenerator(rand.New(rand.NewSource(5))).Generate(50, "P010")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(records, got) {
		t.Fatal("round trip changed records")
	}
}

func TestCSVUnlabeledRow(t *testing.T) {
	record := VitalRecord{
		PatientID:     "P011",
		Timestamp:     time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		HeartRate:     72,
		SystolicBP:    118,
		DiastolicBP:   76,
		GlucoseLevel:  101,
		ActivityLevel: 4.5,
		SleepHours:    7.25,
		StressLevel:   3.0,
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, []VitalRecord{record}); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got[0].HasRisk {
		t.Fatal("expected unlabeled record to stay unlabeled")
	}
}

func TestCSVRejectsBadHeader(t *testing.T) {
	input := "patient_id,timestamp,HeartRate\nP001,2024-01-01T00:00:00Z,70\n"
	if _, err := ReadCSV(strings.NewReader(input)); err == nil {
		t.Fatal("expected error for truncated header")
	}
}

func TestCSVRejectsMalformedCell(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(Columns, ",") + "\n")
	buf.WriteString("P001,2024-01-01T00:00:00Z,abc,118,76,101,4.5,7.0,3.0,0\n")
	if _, err := ReadCSV(&buf); err == nil {
		t.Fatal("expected error for non-numeric heart rate")
	}
}

func TestSaveLoadCSV(t *testing.T) {
	records, err := NewCohortGenerator(rand.New(rand.NewSource(9))).Generate(20, "P012")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "cohort", "data.csv")
	if err := SaveCSV(path, records); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(records, got) {
		t.Fatal("file round trip changed records")
	}
}
