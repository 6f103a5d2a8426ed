// Package report renders validation and debug results as Markdown. Every
// error, warning, suggestion, issue and recommendation in the input appears
// in the output.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rechedev9/tealium-mcp-server/pkg/diagnose"
	"github.com/rechedev9/tealium-mcp-server/pkg/schema"
)

// Validation renders a ValidationResult grouped by errors, warnings and
// suggestions.
func Validation(r *schema.ValidationResult) string {
	var sb strings.Builder

	sb.WriteString("# Data Layer Validation\n\n")
	if r.IsValid {
		sb.WriteString(fmt.Sprintf("✓ %s\n\n", r.Summary))
	} else {
		sb.WriteString(fmt.Sprintf("✗ %s\n\n", r.Summary))
	}

	if len(r.Errors) > 0 {
		sb.WriteString(fmt.Sprintf("## Errors (%d)\n\n", len(r.Errors)))
		for _, e := range r.Errors {
			writeError(&sb, e)
		}
		sb.WriteString("\n")
	}

	if len(r.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("## Warnings (%d)\n\n", len(r.Warnings)))
		for _, w := range r.Warnings {
			sb.WriteString(fmt.Sprintf("- `%s`: %s\n", w.Path, w.Message))
			if w.Suggestion != "" {
				sb.WriteString(fmt.Sprintf("  - Suggestion: %s\n", w.Suggestion))
			}
		}
		sb.WriteString("\n")
	}

	if len(r.Suggestions) > 0 {
		sb.WriteString("## Suggestions\n\n")
		for _, s := range r.Suggestions {
			sb.WriteString(fmt.Sprintf("- %s\n", s))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeError(sb *strings.Builder, e schema.ValidationError) {
	sb.WriteString(fmt.Sprintf("- `%s`: %s\n", e.Path, e.Message))
	if e.Value != nil {
		sb.WriteString(fmt.Sprintf("  - Value: `%s`\n", compact(e.Value)))
	}
	if e.Expected != "" {
		sb.WriteString(fmt.Sprintf("  - Expected: %s\n", e.Expected))
	}
}

// severityOrder is the rendering order of issue groups.
var severityOrder = []struct {
	sev   diagnose.Severity
	title string
	glyph string
}{
	{diagnose.SeverityError, "Errors", "✗"},
	{diagnose.SeverityWarning, "Warnings", "⚠"},
	{diagnose.SeverityInfo, "Info", "ℹ"},
}

// Debug renders a diagnose.Result grouped by severity.
func Debug(r *diagnose.Result) string {
	var sb strings.Builder

	sb.WriteString("# Data Layer Debug Report\n\n")
	sb.WriteString("| Severity | Count |\n")
	sb.WriteString("|----------|-------|\n")
	for _, g := range severityOrder {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", g.title, r.Count(g.sev)))
	}
	sb.WriteString("\n")

	if len(r.Issues) == 0 {
		sb.WriteString("✓ No issues found.\n\n")
	}
	for _, g := range severityOrder {
		if r.Count(g.sev) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n", g.title))
		for _, i := range r.Issues {
			if i.Severity != g.sev {
				continue
			}
			sb.WriteString(fmt.Sprintf("- %s `%s`: %s\n", g.glyph, i.Path, i.Issue))
			if i.Recommendation != "" {
				sb.WriteString(fmt.Sprintf("  - %s\n", i.Recommendation))
			}
		}
		sb.WriteString("\n")
	}

	if len(r.MissingVariables) > 0 {
		sb.WriteString("## Missing Variables\n\n")
		for _, m := range r.MissingVariables {
			sb.WriteString(fmt.Sprintf("- `%s`\n", m))
		}
		sb.WriteString("\n")
	}

	if len(r.TypeMismatches) > 0 {
		sb.WriteString("## Type Mismatches\n\n")
		sb.WriteString("| Path | Expected | Actual |\n")
		sb.WriteString("|------|----------|--------|\n")
		for _, m := range r.TypeMismatches {
			sb.WriteString(fmt.Sprintf("| `%s` | %s | %s |\n", m.Path, m.Expected, m.Actual))
		}
		sb.WriteString("\n")
	}

	if len(r.Recommendations) > 0 {
		sb.WriteString("## Recommendations\n\n")
		for i, rec := range r.Recommendations {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSON returns v indented, for the structured content block next to a report.
func JSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data), nil
}

func compact(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
