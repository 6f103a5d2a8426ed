package specparse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Markdown renders the specification as one variables table per category,
// followed by the example data layer.
func (s *Spec) Markdown() (string, error) {
	var sb strings.Builder

	cats := s.Categories()
	sb.WriteString("# Tracking Specification\n\n")
	sb.WriteString(fmt.Sprintf("%d variable(s) in %d group(s), %d required.\n\n", len(s.Variables), len(cats), len(s.Required())))

	for _, cat := range cats {
		title := cat
		if title == "" {
			title = "(root)"
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n", title))
		sb.WriteString("| Variable | Type | Required | Description | Example |\n")
		sb.WriteString("|----------|------|----------|-------------|---------|\n")
		for _, v := range s.Variables {
			if v.Category != cat {
				continue
			}
			req := ""
			if v.Required {
				req = "✓"
			}
			sb.WriteString(fmt.Sprintf("| `%s` | %s | %s | %s | %s |\n",
				v.Path(), v.Type, req, cellText(v.Description), cellText(v.Example)))
		}
		sb.WriteString("\n")
	}

	skeleton, err := s.Skeleton().MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("render skeleton: %w", err)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, skeleton, "", "  "); err != nil {
		return "", fmt.Errorf("indent skeleton: %w", err)
	}
	sb.WriteString("## Example Data Layer\n\n")
	sb.WriteString("```json\n")
	sb.Write(pretty.Bytes())
	sb.WriteString("\n```\n")

	return sb.String(), nil
}

// cellText escapes pipes and flattens newlines for a table cell.
func cellText(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
