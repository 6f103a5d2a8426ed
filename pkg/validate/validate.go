// Package validate is the validation entry point. It runs the schema
// validator, the business rules and the naming checker in sequence and
// merges their findings, with strict mode applied as a final pass.
package validate

import (
	"errors"
	"fmt"

	"github.com/rechedev9/tealium-mcp-server/pkg/datalayer"
	"github.com/rechedev9/tealium-mcp-server/pkg/naming"
	"github.com/rechedev9/tealium-mcp-server/pkg/rules"
	"github.com/rechedev9/tealium-mcp-server/pkg/schema"
)

// Options select the schema and strictness of a run.
type Options struct {
	// Schema is a bare id ("standard") or a tealium://schema/ URI.
	// Empty means standard.
	Schema string
	// Strict promotes every warning to an error.
	Strict bool
}

// Validate checks doc and returns the merged result. It never fails: input
// problems are reported as errors inside the result.
func Validate(doc datalayer.Value, opts Options) *schema.ValidationResult {
	id := opts.Schema
	if id == "" {
		id = schema.Standard
	}

	if err := datalayer.CheckDataLayer(doc); err != nil {
		r := schema.NewResult()
		r.Errors = append(r.Errors, schema.ValidationError{
			Path:     datalayer.RootPath,
			Message:  fmt.Sprintf("Invalid data layer: %v", err),
			Expected: "object",
		})
		return finish(r, opts.Strict)
	}

	if _, err := schema.Lookup(id); errors.Is(err, schema.ErrSchemaNotFound) {
		return schema.NotFoundResult(id)
	}

	r := schema.Validate(doc, id)
	found := rules.Validate(doc)

	r.Errors = append(r.Errors, found.Errors...)
	r.Warnings = append(r.Warnings, found.Warnings...)
	r.Warnings = append(r.Warnings, naming.Check(doc)...)
	r.Suggestions = append(r.Suggestions, found.Suggestions...)

	return finish(r, opts.Strict)
}

// finish applies strict mode and settles validity and summary.
func finish(r *schema.ValidationResult, strict bool) *schema.ValidationResult {
	if strict {
		Promote(r)
	}
	r.Settle()
	r.Summary = summarize(r, strict)
	return r
}

// Promote converts every warning into an error, carrying the warning's
// suggestion as the error's expected value, then clears the warnings.
func Promote(r *schema.ValidationResult) {
	for _, w := range r.Warnings {
		r.Errors = append(r.Errors, schema.ValidationError{
			Path:     w.Path,
			Message:  w.Message,
			Expected: w.Suggestion,
		})
	}
	r.Warnings = []schema.ValidationWarning{}
}

func summarize(r *schema.ValidationResult, strict bool) string {
	mode := ""
	if strict {
		mode = " (strict mode)"
	}
	if r.IsValid {
		if len(r.Warnings) == 0 {
			return "Data layer is valid" + mode
		}
		return fmt.Sprintf("Data layer is valid with %d warning(s)%s", len(r.Warnings), mode)
	}
	return fmt.Sprintf("Data layer is invalid: %d error(s), %d warning(s)%s", len(r.Errors), len(r.Warnings), mode)
}
