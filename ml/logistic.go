package ml

import (
	"errors"
	"math"
)

// Classifier is a binary model over scaled feature vectors.
type Classifier interface {
	Train(features [][]float64, labels []int) error
	Predict(features []float64) (label int, probability float64, err error)
}

// LogisticRegression is a binary classifier fitted by full-batch gradient
// descent. Training is deterministic: fixed epochs, zero-initialized weights,
// no randomness.
type LogisticRegression struct {
	Weights   []float64 `json:"weights"`
	Bias      float64   `json:"bias"`
	LearnRate float64   `json:"learn_rate"`
	Epochs    int       `json:"epochs"`
	L2        float64   `json:"l2"`
}

// NewLogisticRegression returns a model with the default hyperparameters.
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{
		LearnRate: 0.5,
		Epochs:    500,
		L2:        1e-4,
	}
}

func (m *LogisticRegression) Train(features [][]float64, labels []int) error {
	if len(features) == 0 || len(labels) == 0 {
		return errors.New("features or labels empty")
	}
	if len(features) != len(labels) {
		return errors.New("features and labels size mismatch")
	}
	dim := len(features[0])
	for _, vec := range features {
		if len(vec) != dim {
			return errors.New("inconsistent feature vector length")
		}
	}
	for _, y := range labels {
		if y != 0 && y != 1 {
			return errors.New("labels must be 0 or 1")
		}
	}
	if m.LearnRate <= 0 {
		m.LearnRate = 0.5
	}
	if m.Epochs <= 0 {
		m.Epochs = 500
	}

	m.Weights = make([]float64, dim)
	m.Bias = 0
	n := float64(len(features))
	gradW := make([]float64, dim)

	for epoch := 0; epoch < m.Epochs; epoch++ {
		for j := range gradW {
			gradW[j] = 0
		}
		gradB := 0.0
		for i, x := range features {
			residual := sigmoid(m.decision(x)) - float64(labels[i])
			for j, xj := range x {
				gradW[j] += residual * xj
			}
			gradB += residual
		}
		for j := range m.Weights {
			m.Weights[j] -= m.LearnRate * (gradW[j]/n + m.L2*m.Weights[j])
		}
		m.Bias -= m.LearnRate * gradB / n
	}
	return nil
}

// Predict returns the label and the positive-class probability.
func (m *LogisticRegression) Predict(features []float64) (int, float64, error) {
	if len(m.Weights) == 0 {
		return 0, 0, errors.New("model not trained")
	}
	if len(features) != len(m.Weights) {
		return 0, 0, errors.New("feature length mismatch")
	}
	p := sigmoid(m.decision(features))
	if p >= 0.5 {
		return 1, p, nil
	}
	return 0, p, nil
}

func (m *LogisticRegression) decision(x []float64) float64 {
	z := m.Bias
	for j, w := range m.Weights {
		z += w * x[j]
	}
	return z
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
