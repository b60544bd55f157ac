package ml

// PredictionResult is the outcome of scoring one observation.
type PredictionResult struct {
	Label       int     `json:"label"`
	Probability float64 `json:"probability"`
}

// Engine scores single observations against one loaded bundle. The bundle is
// validated once at construction and held read-only afterwards, so a single
// engine may serve concurrent callers without locking.
type Engine struct {
	bundle *Bundle
}

// NewEngine validates the bundle's three artifacts and their agreement with
// each other. It returns *BundleNotFoundError when an artifact is absent and
// *SchemaError when the artifacts disagree on dimensionality.
func NewEngine(bundle *Bundle) (*Engine, error) {
	if bundle == nil {
		return nil, &BundleNotFoundError{Missing: "bundle"}
	}
	if bundle.Model == nil {
		return nil, &BundleNotFoundError{Ref: bundle.Version, Missing: "model"}
	}
	if bundle.Scaler == nil {
		return nil, &BundleNotFoundError{Ref: bundle.Version, Missing: "transformer"}
	}
	if len(bundle.Schema) == 0 {
		return nil, &BundleNotFoundError{Ref: bundle.Version, Missing: "schema"}
	}
	if len(bundle.Scaler.Means) != len(bundle.Schema) {
		return nil, &SchemaError{Reason: "scaler dimensionality does not match schema"}
	}
	if len(bundle.Model.Weights) != len(bundle.Schema) {
		return nil, &SchemaError{Reason: "model dimensionality does not match schema"}
	}
	return &Engine{bundle: bundle}, nil
}

// Bundle returns the loaded bundle.
func (e *Engine) Bundle() *Bundle {
	return e.bundle
}

// Score reorders the input fields into schema order, applies the fitted
// scaler from the bundle, and invokes the classifier. Absent schema fields
// raise *MissingFeatureError naming every missing field; unknown extra
// fields are ignored. Nothing is ever imputed at inference time.
func (e *Engine) Score(vitals map[string]float64) (PredictionResult, error) {
	vec, err := vectorFromInput(e.bundle.Schema, vitals)
	if err != nil {
		return PredictionResult{}, err
	}
	scaled, err := e.bundle.Scaler.Transform(vec)
	if err != nil {
		return PredictionResult{}, err
	}
	label, prob, err := e.bundle.Model.Predict(scaled)
	if err != nil {
		return PredictionResult{}, err
	}
	return PredictionResult{Label: label, Probability: prob}, nil
}
