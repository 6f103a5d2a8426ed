// Package schema holds the three fixed Tealium data layer JSON Schemas
// (standard, ecommerce, hotels), the structural validator built on them,
// and the result types shared by every validation phase.
package schema

import (
	"fmt"
	"strings"
)

// URIPrefix namespaces schema identifiers.
const URIPrefix = "tealium://schema/"

// Schema identifiers.
const (
	Standard  = "standard"
	Ecommerce = "ecommerce"
	Hotels    = "hotels"
)

// IDs lists the known schema identifiers in a stable order.
var IDs = []string{Standard, Ecommerce, Hotels}

// URI returns the namespaced form of a bare identifier. Identifiers that
// already carry a scheme are returned unchanged.
func URI(id string) string {
	if strings.Contains(id, "://") {
		return id
	}
	return URIPrefix + id
}

// ValidationError is a blocking finding at a document location.
type ValidationError struct {
	Path     string `json:"path"                jsonschema:"description=Dot/bracket location in the document, / for the root"`
	Message  string `json:"message"`
	Value    any    `json:"value,omitempty"`
	Expected string `json:"expected,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationWarning is an advisory finding.
type ValidationWarning struct {
	Path       string `json:"path"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ValidationResult is the merged outcome of a validation run.
// IsValid holds iff Errors is empty.
type ValidationResult struct {
	IsValid     bool                `json:"isValid"`
	Errors      []ValidationError   `json:"errors"`
	Warnings    []ValidationWarning `json:"warnings"`
	Suggestions []string            `json:"suggestions"`
	Summary     string              `json:"summary"`
}

// NewResult returns a result with non-nil, empty lists.
func NewResult() *ValidationResult {
	return &ValidationResult{
		IsValid:     true,
		Errors:      []ValidationError{},
		Warnings:    []ValidationWarning{},
		Suggestions: []string{},
	}
}

// Settle recomputes IsValid from the error list.
func (r *ValidationResult) Settle() {
	r.IsValid = len(r.Errors) == 0
}
