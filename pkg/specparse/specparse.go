// Package specparse reads tracking specifications (the spreadsheets and
// JSON exports analytics teams hand to developers) into a list of
// variables, and builds an example data layer from them.
package specparse

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/rechedev9/tealium-mcp-server/pkg/datalayer"
)

// Formats accepted by Parse.
const (
	FormatAuto = "auto"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

var (
	// ErrContentRequired is returned for empty input.
	ErrContentRequired = errors.New("content is required")
	// ErrNoNameColumn is wrapped in a ParseError when a CSV header has no
	// variable name column.
	ErrNoNameColumn = errors.New("no variable name column in header")
	// ErrUnknownFormat is returned for a format other than auto, csv or json.
	ErrUnknownFormat = errors.New("unknown format")
)

// ParseError reports input that could not be parsed.
type ParseError struct {
	Format string
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s: line %d: %v", e.Format, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Variable is one row of a tracking specification.
type Variable struct {
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
	Example     string `json:"example,omitempty"`
}

// Path is the dotted location of the variable in a data layer.
func (v Variable) Path() string { return datalayer.Join(v.Category, v.Name) }

// Spec is a parsed tracking specification.
type Spec struct {
	Variables []Variable `json:"variables"`
}

// Parse reads content in the given format. Auto detects JSON by a leading
// '[' or '{' and falls back to CSV.
func Parse(content, format string) (*Spec, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentRequired
	}
	switch strings.ToLower(format) {
	case "", FormatAuto:
		if t := strings.TrimSpace(content); strings.HasPrefix(t, "[") || strings.HasPrefix(t, "{") {
			return parseJSON(content)
		}
		return parseCSV(content)
	case FormatCSV:
		return parseCSV(content)
	case FormatJSON:
		return parseJSON(content)
	}
	return nil, fmt.Errorf("%w %q: use csv, json or auto", ErrUnknownFormat, format)
}

// Column identifiers for the header alias table.
const (
	colName        = "name"
	colType        = "type"
	colDescription = "description"
	colRequired    = "required"
	colExample     = "example"
	colCategory    = "category"
)

// headerAliases maps normalized header cells to columns.
var headerAliases = map[string]string{
	"name":          colName,
	"variable":      colName,
	"variable name": colName,
	"variable_name": colName,
	"key":           colName,
	"field":         colName,

	"type":      colType,
	"data type": colType,
	"datatype":  colType,
	"data_type": colType,

	"description": colDescription,
	"desc":        colDescription,
	"definition":  colDescription,
	"notes":       colDescription,

	"required":    colRequired,
	"mandatory":   colRequired,
	"is required": colRequired,

	"example":       colExample,
	"sample":        colExample,
	"example value": colExample,
	"sample value":  colExample,

	"category": colCategory,
	"group":    colCategory,
	"object":   colCategory,
	"section":  colCategory,
}

var truthy = []string{"yes", "y", "true", "1", "x", "required"}

func parseCSV(content string) (*Spec, error) {
	r := csv.NewReader(strings.NewReader(content))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, csvError(err)
	}
	cols := map[string]int{}
	for i, cell := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff")))
		if col, ok := headerAliases[key]; ok {
			if _, seen := cols[col]; !seen {
				cols[col] = i
			}
		}
	}
	if _, ok := cols[colName]; !ok {
		return nil, &ParseError{Format: FormatCSV, Line: 1, Err: ErrNoNameColumn}
	}
	_, hasCategory := cols[colCategory]

	spec := &Spec{Variables: []Variable{}}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		cell := func(col string) string {
			i, ok := cols[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		name := cell(colName)
		if name == "" {
			continue
		}
		v := Variable{
			Name:        name,
			Category:    cell(colCategory),
			Type:        NormalizeType(cell(colType)),
			Description: cell(colDescription),
			Required:    lo.Contains(truthy, strings.ToLower(cell(colRequired))),
			Example:     cell(colExample),
		}
		if !hasCategory {
			v.Category, v.Name = splitName(name)
		}
		spec.Variables = append(spec.Variables, v)
	}
	return spec, nil
}

func csvError(err error) error {
	if err == io.EOF {
		return &ParseError{Format: FormatCSV, Err: errors.New("missing header row")}
	}
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Format: FormatCSV, Line: pe.Line, Err: pe.Err}
	}
	return &ParseError{Format: FormatCSV, Err: err}
}

// splitName splits "booking.bookingTotal" into category and name.
func splitName(name string) (string, string) {
	if i := strings.LastIndex(name, "."); i > 0 && i < len(name)-1 {
		return name[:i], name[i+1:]
	}
	return "", name
}

type jsonVariable struct {
	Name        string `json:"name"`
	Variable    string `json:"variable"`
	Category    string `json:"category"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    any    `json:"required"`
	Example     any    `json:"example"`
}

func parseJSON(content string) (*Spec, error) {
	data := []byte(content)
	var rows []jsonVariable

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapper struct {
			Variables []jsonVariable `json:"variables"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, jsonError(data, err)
		}
		if wrapper.Variables == nil {
			return nil, &ParseError{Format: FormatJSON, Err: errors.New(`expected an array or an object with a "variables" array`)}
		}
		rows = wrapper.Variables
	} else if err := json.Unmarshal(data, &rows); err != nil {
		return nil, jsonError(data, err)
	}

	spec := &Spec{Variables: []Variable{}}
	for _, row := range rows {
		name := strings.TrimSpace(lo.CoalesceOrEmpty(row.Name, row.Variable))
		if name == "" {
			continue
		}
		v := Variable{
			Name:        name,
			Category:    strings.TrimSpace(row.Category),
			Type:        NormalizeType(row.Type),
			Description: strings.TrimSpace(row.Description),
			Required:    jsonTruthy(row.Required),
			Example:     jsonExample(row.Example),
		}
		if v.Category == "" {
			v.Category, v.Name = splitName(name)
		}
		spec.Variables = append(spec.Variables, v)
	}
	return spec, nil
}

func jsonError(data []byte, err error) error {
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return &ParseError{Format: FormatJSON, Line: 1 + bytes.Count(data[:min(int(se.Offset), len(data))], []byte("\n")), Err: err}
	}
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		return &ParseError{Format: FormatJSON, Line: 1 + bytes.Count(data[:min(int(te.Offset), len(data))], []byte("\n")), Err: err}
	}
	return &ParseError{Format: FormatJSON, Err: err}
}

func jsonTruthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t == 1
	case string:
		return lo.Contains(truthy, strings.ToLower(strings.TrimSpace(t)))
	}
	return false
}

func jsonExample(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// NormalizeType maps spreadsheet type names onto string, number, boolean,
// array or object. Unknown names are kept lowercased; empty means string.
func NormalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	switch t {
	case "", "string", "str", "text", "date", "datetime":
		return datalayer.TypeString
	case "number", "int", "integer", "float", "double", "decimal", "numeric", "currency", "price":
		return datalayer.TypeNumber
	case "boolean", "bool", "flag":
		return datalayer.TypeBoolean
	case "array", "list", "string[]", "object[]", "array<string>":
		return "array"
	case "object", "map", "dict":
		return "object"
	}
	return t
}

// Categories returns the distinct categories in first-seen order; variables
// without a category are grouped under "".
func (s *Spec) Categories() []string {
	return lo.Uniq(lo.Map(s.Variables, func(v Variable, _ int) string { return v.Category }))
}

// Required returns the paths of required variables.
func (s *Spec) Required() []string {
	return lo.FilterMap(s.Variables, func(v Variable, _ int) (string, bool) { return v.Path(), v.Required })
}

// Skeleton builds an example data layer: one object per category in
// first-seen order, each variable holding its typed example or zero value.
func (s *Spec) Skeleton() datalayer.Value {
	var root []datalayer.Field
	for _, cat := range s.Categories() {
		vars := lo.Filter(s.Variables, func(v Variable, _ int) bool { return v.Category == cat })
		fields := lo.Map(vars, func(v Variable, _ int) datalayer.Field {
			return datalayer.F(v.Name, exampleValue(v))
		})
		if cat == "" {
			root = append(root, fields...)
			continue
		}
		root = append(root, datalayer.F(cat, datalayer.Object(fields...)))
	}
	return datalayer.Object(root...)
}

func exampleValue(v Variable) datalayer.Value {
	ex := v.Example
	switch v.Type {
	case datalayer.TypeNumber:
		if f, err := strconv.ParseFloat(ex, 64); err == nil {
			return datalayer.Number(f)
		}
		return datalayer.Number(0)
	case datalayer.TypeBoolean:
		if b, err := strconv.ParseBool(ex); err == nil {
			return datalayer.Bool(b)
		}
		return datalayer.Bool(false)
	case "array":
		if parsed, err := datalayer.Decode([]byte(ex)); err == nil && parsed.Kind() == datalayer.KindArray {
			return parsed
		}
		if ex == "" {
			return datalayer.Array()
		}
		items := lo.Map(strings.Split(ex, ","), func(s string, _ int) datalayer.Value {
			return datalayer.String(strings.TrimSpace(s))
		})
		return datalayer.Array(items...)
	case "object":
		if parsed, err := datalayer.Decode([]byte(ex)); err == nil && parsed.Kind() == datalayer.KindObject {
			return parsed
		}
		return datalayer.Object()
	}
	return datalayer.String(ex)
}
