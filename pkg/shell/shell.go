// Package shell implements the interactive REPL for working on one data
// layer file: load it, pick a schema, validate and debug.
package shell

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/rechedev9/tealium-mcp-server/pkg/config"
	"github.com/rechedev9/tealium-mcp-server/pkg/datalayer"
	"github.com/rechedev9/tealium-mcp-server/pkg/diagnose"
	"github.com/rechedev9/tealium-mcp-server/pkg/schema"
)

// Shell holds the session state.
type Shell struct {
	cfg    *config.Config
	output io.Writer
	now    func() time.Time

	file   string
	doc    datalayer.Value
	schema string
	strict bool
}

// New creates a shell seeded from cfg. A nil cfg uses config.Default.
func New(cfg *config.Config) *Shell {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Shell{
		cfg:    cfg,
		output: os.Stdout,
		now:    time.Now,
		schema: cfg.DefaultSchema,
		strict: cfg.StrictMode,
	}
}

var commands = []string{"load", "schema", "strict", "validate", "debug", "show", "help", "quit"}

func completer() *readline.PrefixCompleter {
	schemas := make([]readline.PrefixCompleterInterface, 0, len(schema.IDs))
	for _, id := range schema.IDs {
		schemas = append(schemas, readline.PcItem(id))
	}
	checkpoints := make([]readline.PrefixCompleterInterface, 0, len(diagnose.BuiltinCheckpoints))
	for _, name := range diagnose.BuiltinCheckpoints {
		checkpoints = append(checkpoints, readline.PcItem(name))
	}

	c := readline.NewPrefixCompleter()
	for _, cmd := range commands {
		switch cmd {
		case "schema":
			c.Children = append(c.Children, readline.PcItem(cmd, schemas...))
		case "strict":
			c.Children = append(c.Children, readline.PcItem(cmd, readline.PcItem("on"), readline.PcItem("off")))
		case "debug":
			c.Children = append(c.Children, readline.PcItem(cmd, checkpoints...))
		case "load":
			c.Children = append(c.Children, readline.PcItem(cmd, readline.PcItemDynamic(listDataFiles)))
		default:
			c.Children = append(c.Children, readline.PcItem(cmd))
		}
	}
	return c
}

// listDataFiles offers the JSON and YAML files of the working directory.
func listDataFiles(string) []string {
	var out []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, _ := filepath.Glob(pattern)
		out = append(out, matches...)
	}
	return out
}

// Run starts the interactive loop. It returns nil on quit, EOF or ^C.
func (s *Shell) Run() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.buildPrompt(),
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()
	s.output = rl.Stdout()

	fmt.Fprintf(s.output, "tealium shell, schema=%s strict=%v\n", s.schema, s.strict)
	fmt.Fprintf(s.output, "Type 'help' for available commands, 'load FILE' to start.\n\n")

	for {
		rl.SetPrompt(s.buildPrompt())
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				return nil
			}
			return err
		}
		if s.Exec(line) {
			return nil
		}
	}
}

// Exec runs one command line and reports whether the shell should exit.
func (s *Shell) Exec(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}

	switch parts[0] {
	case "load", "l":
		s.handleLoad(parts)
	case "schema":
		s.handleSchema(parts)
	case "strict":
		s.handleStrict(parts)
	case "validate", "v":
		s.handleValidate()
	case "debug", "d":
		s.handleDebug(parts[1:])
	case "show", "s":
		s.handleShow()
	case "help", "?":
		s.handleHelp()
	case "quit", "q", "exit":
		fmt.Fprintf(s.output, "Bye.\n")
		return true
	default:
		fmt.Fprintf(s.output, "Unknown command: %q. Type 'help' for available commands.\n", parts[0])
	}
	return false
}

// buildPrompt creates the prompt string: tealium[file | schema]>
func (s *Shell) buildPrompt() string {
	file := "-"
	if s.file != "" {
		file = filepath.Base(s.file)
	}
	mode := ""
	if s.strict {
		mode = " strict"
	}
	return fmt.Sprintf("tealium[%s | %s%s]> ", file, s.schema, mode)
}
