package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/rechedev9/tealium-mcp-server/pkg/diagnose"
	"github.com/rechedev9/tealium-mcp-server/pkg/specparse"
)

// Status glyphs convey meaning without relying on color alone.
const (
	glyphPassed  = "✓"
	glyphFailed  = "✗"
	glyphWarning = "⚠"
)

var (
	colorGreen  = lipgloss.Color("42")
	colorRed    = lipgloss.Color("196")
	colorYellow = lipgloss.Color("214")
)

var (
	passedStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	failedStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	warningStyle = lipgloss.NewStyle().Foreground(colorYellow)
)

// statusLine prints one styled summary line.
func statusLine(w io.Writer, ok bool, warnings int, msg string) {
	switch {
	case !ok:
		fmt.Fprintln(w, failedStyle.Render(glyphFailed+" "+msg))
	case warnings > 0:
		fmt.Fprintln(w, warningStyle.Render(glyphWarning+" "+msg))
	default:
		fmt.Fprintln(w, passedStyle.Render(glyphPassed+" "+msg))
	}
}

// renderMarkdown converts Markdown to styled terminal output. Falls back to
// the raw input if rendering fails.
func renderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return md
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// writeMarkdown prints md, rendered for the terminal when render is set.
func writeMarkdown(w io.Writer, md string, render bool) {
	if render {
		md = renderMarkdown(md)
	}
	fmt.Fprint(w, md)
}

// specTable lists parsed variables.
func specTable(w io.Writer, spec *specparse.Spec) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Variable", "Type", "Required", "Description"})
	for i, v := range spec.Variables {
		req := ""
		if v.Required {
			req = glyphPassed
		}
		t.AppendRow(table.Row{i + 1, v.Path(), v.Type, req, v.Description})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d variable(s)", len(spec.Variables)), "", fmt.Sprintf("%d", len(spec.Required())), ""})
	t.Render()
}

// issueTable lists debug issues.
func issueTable(w io.Writer, r *diagnose.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Severity", "Path", "Issue", "Recommendation"})
	for _, is := range r.Issues {
		t.AppendRow(table.Row{string(is.Severity), is.Path, is.Issue, is.Recommendation})
	}
	t.Render()
}
