// Package docs generates reference documentation for a data layer or for
// one of the fixed schemas, as Markdown or HTML.
package docs

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/rechedev9/tealium-mcp-server/pkg/datalayer"
	"github.com/rechedev9/tealium-mcp-server/pkg/schema"
)

// Output formats.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

var ErrUnsupportedFormat = errors.New("unsupported format")

// Options control rendering.
type Options struct {
	Title  string
	Format string
}

// Row documents one variable.
type Row struct {
	Path        string
	Type        string
	Required    bool
	Constraints string
	Example     string
	Description string
	Known       bool
}

// Section groups rows under a top-level object.
type Section struct {
	Object string
	Rows   []Row
}

// DataLayer documents the variables present in doc, grouped by top-level
// object in document order.
func DataLayer(doc datalayer.Value, opts Options) (string, error) {
	if err := datalayer.CheckDataLayer(doc); err != nil {
		return "", err
	}
	title := opts.Title
	if title == "" {
		title = "Data Layer Reference"
	}
	md := render(title, "", collectDataLayer(doc))
	return output(md, opts.Format)
}

// Schema documents the properties declared by the schema id, including
// required flags and constraints.
func Schema(id string, opts Options) (string, error) {
	raw, ok := schema.Document(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", schema.ErrSchemaNotFound, id)
	}
	doc, err := datalayer.Decode([]byte(raw))
	if err != nil {
		return "", fmt.Errorf("decode schema %s: %w", id, err)
	}
	title := opts.Title
	if title == "" {
		title = doc.Str("title")
	}
	intro := fmt.Sprintf("Schema `%s`.", schema.URI(id))
	if req := requiredList(doc); len(req) > 0 {
		intro += " Required top-level objects: " + strings.Join(req, ", ") + "."
	}
	md := render(title, intro, collectSchema(doc))
	return output(md, opts.Format)
}

func collectDataLayer(doc datalayer.Value) []Section {
	var sections []Section
	var loose []Row
	for _, f := range doc.Fields() {
		switch {
		case datalayer.IsRecord(f.Value):
			sections = append(sections, Section{Object: f.Key, Rows: leafRows(f.Key, f.Key, f.Value)})
		case datalayer.IsArray(f.Value):
			var rows []Row
			seen := map[string]bool{}
			for _, it := range f.Value.Items() {
				if !datalayer.IsRecord(it) {
					continue
				}
				for _, r := range leafRows(f.Key, f.Key+"[]", it) {
					if !seen[r.Path] {
						seen[r.Path] = true
						rows = append(rows, r)
					}
				}
			}
			if rows == nil {
				rows = []Row{valueRow(f.Key, f.Key, f.Key, f.Value)}
			}
			sections = append(sections, Section{Object: f.Key, Rows: rows})
		default:
			loose = append(loose, valueRow("", f.Key, f.Key, f.Value))
		}
	}
	if len(loose) > 0 {
		sections = append(sections, Section{Object: "", Rows: loose})
	}
	return sections
}

func leafRows(object, prefix string, obj datalayer.Value) []Row {
	var rows []Row
	for _, f := range obj.Fields() {
		path := prefix + "." + f.Key
		if datalayer.IsRecord(f.Value) && f.Value.Len() > 0 {
			rows = append(rows, leafRows(object, path, f.Value)...)
			continue
		}
		rows = append(rows, valueRow(object, f.Key, path, f.Value))
	}
	return rows
}

func valueRow(object, key, path string, v datalayer.Value) Row {
	r := Row{Path: path, Type: v.TypeName(), Example: v.Display()}
	if def, ok := datalayer.Lookup(datalayer.Join(dictionaryObject(object), key)); ok {
		r.Known = true
		r.Description = def.Description
		r.Required = def.Required
	}
	return r
}

func dictionaryObject(object string) string {
	if object == datalayer.ObjectProducts {
		return datalayer.ObjectProduct
	}
	return object
}

func collectSchema(doc datalayer.Value) []Section {
	defs := doc.Field("definitions")
	var sections []Section
	for _, prop := range doc.Field("properties").Fields() {
		node, prefix := resolve(defs, prop.Value), prop.Key
		if node.Str("type") == "array" {
			node, prefix = resolve(defs, node.Field("items")), prop.Key+"[]"
		}
		required := stringList(node.Field("required"))
		var rows []Row
		for _, f := range node.Field("properties").Fields() {
			r := Row{
				Path:        prefix + "." + f.Key,
				Type:        schemaType(f.Value),
				Required:    slices.Contains(required, f.Key),
				Constraints: constraints(f.Value),
			}
			if def, ok := datalayer.Lookup(datalayer.Join(dictionaryObject(prop.Key), f.Key)); ok {
				r.Known = true
				r.Description = def.Description
				r.Example = def.Example
			}
			rows = append(rows, r)
		}
		sections = append(sections, Section{Object: prop.Key, Rows: rows})
	}
	return sections
}

// resolve follows a local "#/definitions/x" reference.
func resolve(defs, node datalayer.Value) datalayer.Value {
	ref := node.Str("$ref")
	if name, ok := strings.CutPrefix(ref, "#/definitions/"); ok {
		return defs.Field(name)
	}
	return node
}

func requiredList(doc datalayer.Value) []string {
	return stringList(doc.Field("required"))
}

func stringList(v datalayer.Value) []string {
	var out []string
	for _, it := range v.Items() {
		if s, ok := it.AsString(); ok {
			out = append(out, s)
		}
	}
	return out
}

func schemaType(node datalayer.Value) string {
	t := node.Str("type")
	if t == "array" {
		if it := node.Get("items.type"); it.Exists() {
			s, _ := it.AsString()
			return s + "[]"
		}
	}
	return t
}

func constraints(node datalayer.Value) string {
	var parts []string
	if enum := node.Field("enum"); enum.Len() > 0 {
		parts = append(parts, "one of "+strings.Join(stringList(enum), ", "))
	}
	if p := node.Str("pattern"); p != "" {
		parts = append(parts, "pattern `"+p+"`")
	}
	if f := node.Str("format"); f != "" {
		parts = append(parts, "format "+f)
	}
	if n, ok := node.Field("minLength").AsNumber(); ok {
		parts = append(parts, "min length "+datalayer.FormatNumber(n))
	}
	if n, ok := node.Field("minimum").AsNumber(); ok {
		parts = append(parts, ">= "+datalayer.FormatNumber(n))
	}
	if n, ok := node.Field("maximum").AsNumber(); ok {
		parts = append(parts, "<= "+datalayer.FormatNumber(n))
	}
	return strings.Join(parts, "; ")
}

func render(title, intro string, sections []Section) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	if intro != "" {
		sb.WriteString(intro + "\n\n")
	}

	total, unknown := 0, 0
	for _, s := range sections {
		for _, r := range s.Rows {
			total++
			if !r.Known {
				unknown++
			}
		}
	}
	sb.WriteString(fmt.Sprintf("%d variable(s) in %d object(s).", total, len(sections)))
	if unknown > 0 {
		sb.WriteString(fmt.Sprintf(" %d variable(s) are not in the standard dictionary.", unknown))
	}
	sb.WriteString("\n\n")

	for _, s := range sections {
		heading := s.Object
		if heading == "" {
			heading = "Other variables"
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n", heading))
		sb.WriteString("| Variable | Type | Required | Constraints | Example | Description |\n")
		sb.WriteString("|----------|------|----------|-------------|---------|-------------|\n")
		for _, r := range s.Rows {
			req := ""
			if r.Required {
				req = "yes"
			}
			desc := r.Description
			if !r.Known {
				desc = "_Custom variable_"
			}
			sb.WriteString(fmt.Sprintf("| `%s` | %s | %s | %s | %s | %s |\n",
				r.Path, r.Type, req, cell(r.Constraints), cell(r.Example), cell(desc)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

func output(md, format string) (string, error) {
	switch strings.ToLower(format) {
	case "", FormatMarkdown, "md":
		return md, nil
	case FormatHTML:
		return HTML(md)
	}
	return "", fmt.Errorf("%w %q: use markdown or html", ErrUnsupportedFormat, format)
}

// HTML renders Markdown with GitHub-flavored tables.
func HTML(md string) (string, error) {
	conv := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := conv.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}
