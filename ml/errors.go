package ml

import (
	"fmt"
	"strings"
)

// SchemaError reports malformed or incomplete training data, or a bundle
// whose parts disagree with each other.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "schema: " + e.Reason
}

// InsufficientDataError reports a cohort that cannot be stratified: one of
// the splits would hold fewer than two examples of a class.
type InsufficientDataError struct {
	Class int
	Split string
	Count int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: class %d has %d rows in %s split, need at least 2", e.Class, e.Count, e.Split)
}

// BundleNotFoundError reports a missing bundle or a bundle missing one of its
// required artifacts.
type BundleNotFoundError struct {
	Ref     string
	Missing string
}

func (e *BundleNotFoundError) Error() string {
	if e.Ref == "" {
		return "bundle: missing " + e.Missing
	}
	return fmt.Sprintf("bundle %q: missing %s", e.Ref, e.Missing)
}

// MissingFeatureError names the schema fields absent from a scoring input.
// Inference never substitutes a default for an absent feature.
type MissingFeatureError struct {
	Fields []string
}

func (e *MissingFeatureError) Error() string {
	return "missing features: " + strings.Join(e.Fields, ", ")
}
