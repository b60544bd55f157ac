package ml

import (
	"encoding/json"
	"fmt"
	"time"
)

// ModelTypeLogistic tags bundles produced by the logistic regression trainer.
const ModelTypeLogistic = "logistic_regression"

// Bundle is the immutable artifact set produced by one training run:
// classifier, fitted scaler, and the feature schema they were trained
// against, plus training metadata. Retraining produces a new bundle; a
// bundle is never mutated after creation.
type Bundle struct {
	Version   string              `json:"version"`
	TrainedAt time.Time           `json:"trained_at"`
	ModelType string              `json:"model_type"`
	Schema    []string            `json:"schema"`
	Scaler    *StandardScaler     `json:"scaler"`
	Model     *LogisticRegression `json:"model"`
	TrainRows int                 `json:"train_rows"`
	TestRows  int                 `json:"test_rows"`
}

// Encode serializes the bundle as a single blob so that classifier, scaler
// and schema always load together; a mismatched trio cannot be assembled
// from partial writes.
func (b *Bundle) Encode() ([]byte, error) {
	return json.Marshal(b)
}

// DecodeBundle parses an encoded bundle and rejects unknown model types.
func DecodeBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	if b.ModelType != ModelTypeLogistic {
		return nil, fmt.Errorf("unsupported model type %q", b.ModelType)
	}
	return &b, nil
}
