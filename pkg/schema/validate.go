package schema

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"sync"

	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rechedev9/tealium-mcp-server/pkg/datalayer"
)

// ErrSchemaNotFound is returned by Lookup for unknown identifiers.
var ErrSchemaNotFound = errors.New("schema not found")

var (
	compileOnce sync.Once
	compiled    map[string]*sjsonschema.Schema
	compileErr  error
	printer     = message.NewPrinter(language.English)
)

// compileAll compiles the fixed definitions once per process. The
// compiled schemas are read-only afterwards.
func compileAll() (map[string]*sjsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := sjsonschema.NewCompiler()
		c.AssertFormat()

		uris := make([]string, 0, len(Definitions))
		for uri := range Definitions {
			uris = append(uris, uri)
		}
		sort.Strings(uris)

		for _, uri := range uris {
			doc, err := sjsonschema.UnmarshalJSON(strings.NewReader(Definitions[uri]))
			if err != nil {
				compileErr = fmt.Errorf("unmarshal schema %s: %w", uri, err)
				return
			}
			if err := c.AddResource(uri, doc); err != nil {
				compileErr = fmt.Errorf("add schema resource %s: %w", uri, err)
				return
			}
		}

		out := make(map[string]*sjsonschema.Schema, len(uris))
		for _, uri := range uris {
			sch, err := c.Compile(uri)
			if err != nil {
				compileErr = fmt.Errorf("compile schema %s: %w", uri, err)
				return
			}
			out[uri] = sch
		}
		compiled = out
	})
	return compiled, compileErr
}

// Lookup returns the compiled schema for an identifier or URI.
func Lookup(id string) (*sjsonschema.Schema, error) {
	all, err := compileAll()
	if err != nil {
		return nil, err
	}
	sch, ok := all[URI(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, id)
	}
	return sch, nil
}

// NotFoundResult is the result reported for an unknown schema identifier.
func NotFoundResult(id string) *ValidationResult {
	r := NewResult()
	r.Errors = append(r.Errors, ValidationError{
		Path:    datalayer.RootPath,
		Message: fmt.Sprintf("Schema not found: %s", id),
	})
	r.Suggestions = append(r.Suggestions, "Use one of the available schemas: "+availableURIs())
	r.Settle()
	r.Summary = "Validation failed: unknown schema"
	return r
}

func availableURIs() string {
	out := make([]string, len(IDs))
	for i, id := range IDs {
		out[i] = URI(id)
	}
	return strings.Join(out, ", ")
}

// Validate checks doc against the schema identified by id and reports every
// violation. It never produces warnings; suggestions only for an unknown id.
func Validate(doc datalayer.Value, id string) *ValidationResult {
	sch, err := Lookup(id)
	if errors.Is(err, ErrSchemaNotFound) {
		return NotFoundResult(id)
	}
	r := NewResult()
	if err != nil {
		r.Errors = append(r.Errors, ValidationError{
			Path:    datalayer.RootPath,
			Message: err.Error(),
		})
		r.Settle()
		r.Summary = "Schema validation failed"
		return r
	}

	if err := sch.Validate(doc.Interface()); err != nil {
		var ve *sjsonschema.ValidationError
		if errors.As(err, &ve) {
			leaves := flattenValidationErrors(ve)
			sort.SliceStable(leaves, func(i, j int) bool {
				return documentOrderLess(doc, leaves[i], leaves[j])
			})
			for _, cause := range leaves {
				r.Errors = append(r.Errors, describe(doc, cause)...)
			}
		} else {
			r.Errors = append(r.Errors, ValidationError{
				Path:    datalayer.RootPath,
				Message: err.Error(),
			})
		}
	}

	r.Settle()
	if r.IsValid {
		r.Summary = "Schema validation passed"
	} else {
		r.Summary = fmt.Sprintf("Schema validation failed with %d error(s)", len(r.Errors))
	}
	return r
}

// flattenValidationErrors recursively collects all leaf validation errors.
func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}

// documentOrderLess orders violations by the position of their instance in
// the document, then by keyword path. The engine walks maps and reports
// causes in no particular order.
func documentOrderLess(doc datalayer.Value, a, b *sjsonschema.ValidationError) bool {
	pa, pb := positions(doc, a.InstanceLocation), positions(doc, b.InstanceLocation)
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if pa[i] != pb[i] {
			return pa[i] < pb[i]
		}
	}
	if len(pa) != len(pb) {
		return len(pa) < len(pb)
	}
	return strings.Join(a.ErrorKind.KeywordPath(), "/") < strings.Join(b.ErrorKind.KeywordPath(), "/")
}

// positions maps an instance location to field and item indexes.
func positions(doc datalayer.Value, loc []string) []int {
	out := make([]int, 0, len(loc))
	cur := doc
	for _, seg := range loc {
		idx := -1
		switch cur.Kind() {
		case datalayer.KindObject:
			for i, f := range cur.Fields() {
				if f.Key == seg {
					idx, cur = i, f.Value
					break
				}
			}
		case datalayer.KindArray:
			if _, err := fmt.Sscanf(seg, "%d", &idx); err == nil && idx >= 0 && idx < cur.Len() {
				cur = cur.Items()[idx]
			}
		}
		out = append(out, idx)
	}
	return out
}

// describe maps one engine violation to findings with readable messages.
// A required violation yields one finding per missing property.
func describe(doc datalayer.Value, ve *sjsonschema.ValidationError) []ValidationError {
	loc := ve.InstanceLocation
	path := datalayer.Locate(doc, loc)
	value := valueAt(doc, loc)

	switch k := ve.ErrorKind.(type) {
	case *kind.Required:
		out := make([]ValidationError, 0, len(k.Missing))
		for _, prop := range k.Missing {
			out = append(out, ValidationError{
				Path:     datalayer.Join(strings.TrimPrefix(path, datalayer.RootPath), prop),
				Message:  "Missing required property: " + prop,
				Expected: "required",
			})
		}
		return out
	case *kind.Type:
		want := strings.Join(k.Want, " or ")
		return []ValidationError{{
			Path:     path,
			Message:  fmt.Sprintf("Expected %s, got %s", want, k.Got),
			Value:    value,
			Expected: want,
		}}
	case *kind.Enum:
		opts := make([]string, len(k.Want))
		for i, w := range k.Want {
			opts[i] = fmt.Sprint(w)
		}
		list := strings.Join(opts, ", ")
		return []ValidationError{{
			Path:     path,
			Message:  "Value must be one of: " + list,
			Value:    value,
			Expected: list,
		}}
	case *kind.MinLength:
		return []ValidationError{{
			Path:     path,
			Message:  fmt.Sprintf("Must be at least %d character(s) long", k.Want),
			Value:    value,
			Expected: fmt.Sprintf("minLength %d", k.Want),
		}}
	case *kind.Pattern:
		return []ValidationError{{
			Path:     path,
			Message:  fmt.Sprintf("Value does not match required pattern %s", k.Want),
			Value:    value,
			Expected: k.Want,
		}}
	case *kind.Minimum:
		bound := ratString(k.Want)
		return []ValidationError{{
			Path:     path,
			Message:  "Must be greater than or equal to " + bound,
			Value:    value,
			Expected: ">= " + bound,
		}}
	case *kind.Maximum:
		bound := ratString(k.Want)
		return []ValidationError{{
			Path:     path,
			Message:  "Must be less than or equal to " + bound,
			Value:    value,
			Expected: "<= " + bound,
		}}
	case *kind.Format:
		msg := fmt.Sprintf("Must match format %q", k.Want)
		if k.Want == "date" {
			msg = "Invalid date format, expected YYYY-MM-DD"
		}
		return []ValidationError{{
			Path:     path,
			Message:  msg,
			Value:    value,
			Expected: k.Want,
		}}
	}
	return []ValidationError{{
		Path:    path,
		Message: ve.ErrorKind.LocalizedString(printer),
		Value:   value,
	}}
}

func ratString(r *big.Rat) string {
	if r == nil {
		return "?"
	}
	return r.RatString()
}

func valueAt(doc datalayer.Value, loc []string) any {
	cur := doc
	for _, seg := range loc {
		if cur.Kind() == datalayer.KindArray {
			var i int
			if _, err := fmt.Sscanf(seg, "%d", &i); err == nil && i >= 0 && i < len(cur.Items()) {
				cur = cur.Items()[i]
				continue
			}
			return nil
		}
		cur = cur.Field(seg)
	}
	if !cur.Exists() {
		return nil
	}
	return cur.Interface()
}
