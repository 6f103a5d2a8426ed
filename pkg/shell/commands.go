package shell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rechedev9/tealium-mcp-server/pkg/datalayer"
	"github.com/rechedev9/tealium-mcp-server/pkg/diagnose"
	"github.com/rechedev9/tealium-mcp-server/pkg/report"
	"github.com/rechedev9/tealium-mcp-server/pkg/schema"
	"github.com/rechedev9/tealium-mcp-server/pkg/validate"
)

var errNoDataLayer = errors.New("no data layer loaded, use 'load FILE'")

// handleLoad reads a JSON or YAML data layer file.
func (s *Shell) handleLoad(parts []string) {
	if len(parts) < 2 {
		fmt.Fprintf(s.output, "Usage: load FILE\n")
		return
	}
	doc, err := datalayer.ReadFile(parts[1])
	if err != nil {
		fmt.Fprintf(s.output, "Error: %v\n", err)
		return
	}
	s.file, s.doc = parts[1], doc
	fmt.Fprintf(s.output, "Loaded %s (%d top-level key(s)).\n", parts[1], doc.Len())
	if err := datalayer.CheckDataLayer(doc); err != nil {
		fmt.Fprintf(s.output, "  ⚠ %v\n", err)
	}
}

// handleSchema prints or changes the active schema.
func (s *Shell) handleSchema(parts []string) {
	if len(parts) < 2 {
		fmt.Fprintf(s.output, "Schema: %s (available: %s)\n", s.schema, strings.Join(schema.IDs, ", "))
		return
	}
	if _, err := schema.Lookup(parts[1]); err != nil {
		fmt.Fprintf(s.output, "Error: %v\n", err)
		return
	}
	s.schema = parts[1]
	fmt.Fprintf(s.output, "Schema set to %s.\n", s.schema)
}

// handleStrict toggles strict mode.
func (s *Shell) handleStrict(parts []string) {
	if len(parts) < 2 {
		fmt.Fprintf(s.output, "Strict mode: %s\n", onOff(s.strict))
		return
	}
	switch parts[1] {
	case "on", "true":
		s.strict = true
	case "off", "false":
		s.strict = false
	default:
		fmt.Fprintf(s.output, "Usage: strict on|off\n")
		return
	}
	fmt.Fprintf(s.output, "Strict mode %s.\n", onOff(s.strict))
}

func (s *Shell) handleValidate() {
	if s.file == "" {
		fmt.Fprintf(s.output, "Error: %v\n", errNoDataLayer)
		return
	}
	r := validate.Validate(s.doc, validate.Options{Schema: s.schema, Strict: s.strict})
	fmt.Fprint(s.output, report.Validation(r))
}

// handleDebug diagnoses the loaded data layer. Checkpoints given on the
// command line replace the configured defaults.
func (s *Shell) handleDebug(checkpoints []string) {
	if s.file == "" {
		fmt.Fprintf(s.output, "Error: %v\n", errNoDataLayer)
		return
	}
	if len(checkpoints) == 0 {
		checkpoints = s.cfg.DefaultCheckpoints
	}
	r := diagnose.Diagnose(s.doc, diagnose.Options{
		Checkpoints: checkpoints,
		Custom:      s.cfg.CustomCheckpoints,
		Now:         s.now,
	})
	fmt.Fprint(s.output, report.Debug(r))
}

// handleShow prints the loaded data layer.
func (s *Shell) handleShow() {
	if s.file == "" {
		fmt.Fprintf(s.output, "Error: %v\n", errNoDataLayer)
		return
	}
	out, err := report.JSON(s.doc)
	if err != nil {
		fmt.Fprintf(s.output, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.output, "%s\n", out)
}

func (s *Shell) handleHelp() {
	fmt.Fprintf(s.output, `Commands:
  load FILE          Load a JSON or YAML data layer (l)
  schema [ID]        Show or set the schema: %s
  strict [on|off]    Show or toggle strict mode
  validate           Validate the loaded data layer (v)
  debug [CHECKPOINT] Diagnose the loaded data layer (d)
  show               Print the loaded data layer (s)
  help               Show this help (?)
  quit               Exit the shell (q)
`, strings.Join(schema.IDs, ", "))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
