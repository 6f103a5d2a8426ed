// Package naming checks data layer variable names against the camelCase
// convention.
package naming

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/rechedev9/tealium-mcp-server/pkg/datalayer"
	"github.com/rechedev9/tealium-mcp-server/pkg/schema"
)

var camelCase = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)

// knownPrefixes are object names accepted verbatim.
var knownPrefixes = []string{
	"page", "user", "event", "product", "transaction",
	"search", "hotel", "room", "booking", "guest",
}

var reservedWords = []string{"undefined", "null", "true", "false", "function", "object"}

// Check walks every nested object (arrays are not entered) and returns one
// warning per violated rule per key. Order follows document order.
func Check(doc datalayer.Value) []schema.ValidationWarning {
	return checkObject(doc, "")
}

func checkObject(v datalayer.Value, parent string) []schema.ValidationWarning {
	var out []schema.ValidationWarning
	for _, f := range v.Fields() {
		path := datalayer.Join(parent, f.Key)
		out = append(out, checkKey(f.Key, path)...)
		if datalayer.IsRecord(f.Value) {
			out = append(out, checkObject(f.Value, path)...)
		}
	}
	return out
}

func checkKey(key, path string) []schema.ValidationWarning {
	var out []schema.ValidationWarning

	if !camelCase.MatchString(key) && !slices.Contains(knownPrefixes, key) {
		out = append(out, schema.ValidationWarning{
			Path:       path,
			Message:    fmt.Sprintf("Variable name %q is not camelCase", key),
			Suggestion: fmt.Sprintf("Consider renaming to %q", ToCamelCase(key)),
		})
	}

	if slices.Contains(reservedWords, strings.ToLower(key)) {
		out = append(out, schema.ValidationWarning{
			Path:       path,
			Message:    fmt.Sprintf("Variable name %q is a reserved word", key),
			Suggestion: "Use a descriptive name that is not a JavaScript keyword or literal",
		})
	}

	if len([]rune(key)) == 1 {
		out = append(out, schema.ValidationWarning{
			Path:       path,
			Message:    fmt.Sprintf("Variable name %q is too short", key),
			Suggestion: "Use a descriptive name of at least a few characters",
		})
	}

	if len(key) <= 3 && key != "id" && isAllUpper(key) {
		out = append(out, schema.ValidationWarning{
			Path:       path,
			Message:    fmt.Sprintf("Variable name %q looks like an abbreviation", key),
			Suggestion: "Spell abbreviations out or write them in camelCase (e.g. \"orderId\")",
		})
	}

	return out
}

// isAllUpper reports whether s has at least one letter and no lowercase letters.
func isAllUpper(s string) bool {
	hasUpper := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

// ToCamelCase is a best-effort rewrite: separators (-, _, whitespace) are
// dropped, the character after each separator is uppercased and the first
// character is lowercased.
func ToCamelCase(s string) string {
	var b strings.Builder
	upperNext := false
	first := true
	for _, r := range s {
		if r == '-' || r == '_' || unicode.IsSpace(r) {
			upperNext = !first
			continue
		}
		switch {
		case first:
			b.WriteRune(unicode.ToLower(r))
			first = false
		case upperNext:
			b.WriteRune(unicode.ToUpper(r))
		default:
			b.WriteRune(r)
		}
		upperNext = false
	}
	return b.String()
}
