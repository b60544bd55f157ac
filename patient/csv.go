package patient

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Columns is the header row of the tabular store, in serialization order.
var Columns = []string{
	"patient_id",
	"timestamp",
	"HeartRate",
	"SystolicBP",
	"DiastolicBP",
	"GlucoseLevel",
	"ActivityLevel",
	"SleepHours",
	"StressLevel",
	"Risk",
}

// WriteCSV writes records as delimited rows with a header. Records without a
// label leave the Risk cell empty.
func WriteCSV(w io.Writer, records []VitalRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range records {
		risk := ""
		if r.HasRisk {
			risk = strconv.Itoa(r.Risk)
		}
		row := []string{
			r.PatientID,
			r.Timestamp.Format(TimestampLayout),
			strconv.Itoa(r.HeartRate),
			strconv.Itoa(r.SystolicBP),
			strconv.Itoa(r.DiastolicBP),
			strconv.Itoa(r.GlucoseLevel),
			strconv.FormatFloat(r.ActivityLevel, 'f', -1, 64),
			strconv.FormatFloat(r.SleepHours, 'f', -1, 64),
			strconv.FormatFloat(r.StressLevel, 'f', -1, 64),
			risk,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses rows written by WriteCSV. The header must match Columns.
func ReadCSV(r io.Reader) ([]VitalRecord, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(Columns) {
		return nil, fmt.Errorf("unexpected header width %d", len(header))
	}
	for i, name := range Columns {
		if header[i] != name {
			return nil, fmt.Errorf("unexpected column %q at position %d", header[i], i)
		}
	}

	var records []VitalRecord
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// SaveCSV writes records to path, creating parent directories as needed.
func SaveCSV(path string, records []VitalRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadCSV reads a cohort previously written by SaveCSV.
func LoadCSV(path string) ([]VitalRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

func parseRow(row []string) (VitalRecord, error) {
	var rec VitalRecord
	if len(row) != len(Columns) {
		return rec, fmt.Errorf("expected %d cells, got %d", len(Columns), len(row))
	}

	rec.PatientID = row[0]
	ts, err := time.Parse(TimestampLayout, row[1])
	if err != nil {
		return rec, fmt.Errorf("timestamp: %w", err)
	}
	rec.Timestamp = ts

	ints := []struct {
		cell string
		dst  *int
	}{
		{row[2], &rec.HeartRate},
		{row[3], &rec.SystolicBP},
		{row[4], &rec.DiastolicBP},
		{row[5], &rec.GlucoseLevel},
	}
	for i, field := range ints {
		v, err := strconv.Atoi(field.cell)
		if err != nil {
			return rec, fmt.Errorf("%s: %w", Columns[i+2], err)
		}
		*field.dst = v
	}

	floats := []struct {
		cell string
		dst  *float64
	}{
		{row[6], &rec.ActivityLevel},
		{row[7], &rec.SleepHours},
		{row[8], &rec.StressLevel},
	}
	for i, field := range floats {
		v, err := strconv.ParseFloat(field.cell, 64)
		if err != nil {
			return rec, fmt.Errorf("%s: %w", Columns[i+6], err)
		}
		*field.dst = v
	}

	if row[9] != "" {
		risk, err := strconv.Atoi(row[9])
		if err != nil || (risk != 0 && risk != 1) {
			return rec, fmt.Errorf("risk: invalid label %q", row[9])
		}
		rec.Risk = risk
		rec.HasRisk = true
	}
	return rec, nil
}
