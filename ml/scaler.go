package ml

import (
	"errors"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// StandardScaler holds the frozen per-feature mean and scale fitted on
// training data. The same fitted instance must be applied at inference;
// refitting on inference inputs corrupts predictions silently.
type StandardScaler struct {
	Features []string  `json:"features"`
	Means    []float64 `json:"means"`
	Scales   []float64 `json:"scales"`
}

// FitScaler computes the population mean and standard deviation of every
// schema column. NaN cells (missing training values) are excluded from the
// statistics; they are imputed with the column mean when transformed.
func FitScaler(features []string, vectors [][]float64) (*StandardScaler, error) {
	if len(features) == 0 {
		return nil, errors.New("features is empty")
	}
	if len(vectors) == 0 {
		return nil, errors.New("vectors is empty")
	}
	for i, vec := range vectors {
		if len(vec) != len(features) {
			return nil, fmt.Errorf("vector %d has %d values, schema has %d", i, len(vec), len(features))
		}
	}

	scaler := &StandardScaler{
		Features: append([]string(nil), features...),
		Means:    make([]float64, len(features)),
		Scales:   make([]float64, len(features)),
	}
	for col := range features {
		values := make([]float64, 0, len(vectors))
		for _, vec := range vectors {
			if math.IsNaN(vec[col]) {
				continue
			}
			values = append(values, vec[col])
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("column %s has no observed values", features[col])
		}
		mean, err := stats.Mean(values)
		if err != nil {
			return nil, err
		}
		scale, err := stats.StandardDeviationPopulation(values)
		if err != nil {
			return nil, err
		}
		scaler.Means[col] = mean
		scaler.Scales[col] = scale
	}
	return scaler, nil
}

// Transform scales one vector to (v - mean) / scale per feature. A constant
// training column (scale 0) maps to 0. NaN values are imputed with the
// training mean first, which also lands on 0 after scaling.
func (s *StandardScaler) Transform(vec []float64) ([]float64, error) {
	if len(vec) != len(s.Means) {
		return nil, fmt.Errorf("vector has %d values, scaler fitted on %d", len(vec), len(s.Means))
	}
	out := make([]float64, len(vec))
	for i, v := range vec {
		if math.IsNaN(v) {
			v = s.Means[i]
		}
		if s.Scales[i] == 0 {
			out[i] = 0
			continue
		}
		out[i] = (v - s.Means[i]) / s.Scales[i]
	}
	return out, nil
}

// TransformBatch scales every vector with the fitted parameters.
func (s *StandardScaler) TransformBatch(vectors [][]float64) ([][]float64, error) {
	out := make([][]float64, len(vectors))
	for i, vec := range vectors {
		scaled, err := s.Transform(vec)
		if err != nil {
			return nil, err
		}
		out[i] = scaled
	}
	return out, nil
}
