package codegen

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/rechedev9/tealium-mcp-server/pkg/datalayer"
)

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// RootInterface is the name of the generated root type.
const RootInterface = "TealiumDataLayer"

// Interfaces returns one exported interface per top-level object (or array
// of objects) plus the root interface, in document order.
func Interfaces(doc datalayer.Value) string {
	var sb strings.Builder
	var root []string

	for _, f := range doc.Fields() {
		name := typeName(f.Key)
		optional := f.Key != datalayer.ObjectPage
		switch {
		case datalayer.IsRecord(f.Value):
			writeInterface(&sb, name, f.Key, f.Value.Fields())
			root = append(root, member(f.Key, name, optional))
		case isObjectArray(f.Value):
			item := name + "Item"
			writeInterface(&sb, item, f.Key, mergeFields(f.Value.Items()))
			root = append(root, member(f.Key, item+"[]", optional))
		default:
			root = append(root, member(f.Key, tsType(f.Value), true))
		}
	}

	sb.WriteString(fmt.Sprintf("export interface %s {\n", RootInterface))
	for _, m := range root {
		sb.WriteString("  " + m + "\n")
	}
	sb.WriteString("  [key: string]: unknown;\n")
	sb.WriteString("}\n")
	return sb.String()
}

func writeInterface(sb *strings.Builder, name, object string, fields []datalayer.Field) {
	sb.WriteString(fmt.Sprintf("export interface %s {\n", name))
	for _, f := range fields {
		required := false
		if v, ok := datalayer.Lookup(datalayer.Join(singular(object), f.Key)); ok {
			required = v.Required
		}
		if doc := describe(object, f.Key); doc != "" {
			sb.WriteString(fmt.Sprintf("  /** %s */\n", doc))
		}
		sb.WriteString("  " + member(f.Key, tsType(f.Value), !required) + "\n")
	}
	sb.WriteString("}\n\n")
}

func describe(object, key string) string {
	if v, ok := datalayer.Lookup(datalayer.Join(singular(object), key)); ok {
		return v.Description
	}
	return ""
}

// singular maps the products array onto the product dictionary entries.
func singular(object string) string {
	if object == datalayer.ObjectProducts {
		return datalayer.ObjectProduct
	}
	return object
}

func member(key, typ string, optional bool) string {
	if !identifier.MatchString(key) {
		key = fmt.Sprintf("%q", key)
	}
	if optional {
		return fmt.Sprintf("%s?: %s;", key, typ)
	}
	return fmt.Sprintf("%s: %s;", key, typ)
}

func isObjectArray(v datalayer.Value) bool {
	items := v.Items()
	return len(items) > 0 && lo.EveryBy(items, datalayer.IsRecord)
}

// mergeFields unions the fields of several objects, first occurrence wins.
func mergeFields(items []datalayer.Value) []datalayer.Field {
	var out []datalayer.Field
	seen := map[string]bool{}
	for _, it := range items {
		for _, f := range it.Fields() {
			if !seen[f.Key] {
				seen[f.Key] = true
				out = append(out, f)
			}
		}
	}
	return out
}

// tsType infers a TypeScript type from a value.
func tsType(v datalayer.Value) string {
	switch v.Kind() {
	case datalayer.KindString:
		return "string"
	case datalayer.KindNumber:
		return "number"
	case datalayer.KindBool:
		return "boolean"
	case datalayer.KindNull:
		return "null"
	case datalayer.KindArray:
		types := lo.Uniq(lo.Map(v.Items(), func(it datalayer.Value, _ int) string { return tsType(it) }))
		switch len(types) {
		case 0:
			return "unknown[]"
		case 1:
			if strings.ContainsAny(types[0], " |{") {
				return "Array<" + types[0] + ">"
			}
			return types[0] + "[]"
		}
		return "Array<" + strings.Join(types, " | ") + ">"
	case datalayer.KindObject:
		parts := lo.Map(v.Fields(), func(f datalayer.Field, _ int) string {
			return member(f.Key, tsType(f.Value), true)
		})
		if len(parts) == 0 {
			return "Record<string, unknown>"
		}
		return "{ " + strings.Join(parts, " ") + " }"
	}
	return "unknown"
}

// typeName turns a data layer key into an exported type name:
// "booking" -> "Booking", "page_info" -> "PageInfo".
func typeName(key string) string {
	var sb strings.Builder
	upper := true
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			sb.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		sb.WriteRune(r)
	}
	name := sb.String()
	if name == "" || unicode.IsDigit(rune(name[0])) {
		name = "T" + name
	}
	return name
}
