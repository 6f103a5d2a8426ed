package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/rechedev9/tealium-mcp-server/pkg/codegen"
	"github.com/rechedev9/tealium-mcp-server/pkg/config"
	"github.com/rechedev9/tealium-mcp-server/pkg/datalayer"
	"github.com/rechedev9/tealium-mcp-server/pkg/diagnose"
	"github.com/rechedev9/tealium-mcp-server/pkg/docs"
	tmcp "github.com/rechedev9/tealium-mcp-server/pkg/ecosystem/mcp"
	"github.com/rechedev9/tealium-mcp-server/pkg/logging"
	"github.com/rechedev9/tealium-mcp-server/pkg/report"
	"github.com/rechedev9/tealium-mcp-server/pkg/schema"
	"github.com/rechedev9/tealium-mcp-server/pkg/shell"
	"github.com/rechedev9/tealium-mcp-server/pkg/specparse"
	"github.com/rechedev9/tealium-mcp-server/pkg/validate"
)

// Version is set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	loadDotEnv(".env")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadDotEnv reads a .env file and sets any variables that aren't already
// set in the environment. Lines are KEY=VALUE (or KEY="VALUE"). Comments
// (#) and blanks are skipped.
func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.Trim(strings.TrimSpace(val), `"'`)
		if os.Getenv(key) == "" {
			os.Setenv(key, val)
		}
	}
}

var (
	configPath string
	logLevel   string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "tealium",
	Short:         "Validate, debug and document Tealium data layers",
	Long:          "tealium checks utag_data data layers against the standard, ecommerce and hotels schemas, diagnoses problems and generates tracking code and documentation.",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		level := cfg.LogLevel
		if logLevel != "" {
			level = logLevel
		}
		logging.SetDefault(logging.New(os.Stderr, level))
		return nil
	},
}

// --- validate ---

var (
	validateSchema string
	validateStrict bool
	validateJSON   bool
	validateRender bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [datalayer.json]",
	Short: "Validate a data layer against a schema, the business rules and naming conventions",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	doc, err := datalayer.ReadFile(args[0])
	if err != nil {
		return err
	}

	opts := validate.Options{Schema: cfg.DefaultSchema, Strict: cfg.StrictMode}
	if validateSchema != "" {
		opts.Schema = validateSchema
	}
	if cmd.Flags().Changed("strict") {
		opts.Strict = validateStrict
	}

	r := validate.Validate(doc, opts)
	logging.Debug("validated", "file", args[0], "schema", opts.Schema, "errors", len(r.Errors), "warnings", len(r.Warnings))

	out := cmd.OutOrStdout()
	if validateJSON {
		data, err := report.JSON(r)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, data)
	} else {
		writeMarkdown(out, report.Validation(r), validateRender)
		statusLine(out, r.IsValid, len(r.Warnings), r.Summary)
	}

	if !r.IsValid {
		return fmt.Errorf("validation failed with %d error(s)", len(r.Errors))
	}
	return nil
}

// --- debug ---

var (
	debugCheckpoints []string
	debugJSON        bool
	debugRender      bool
	debugTable       bool
)

var debugCmd = &cobra.Command{
	Use:   "debug [datalayer.json]",
	Short: "Diagnose a data layer and list issues by severity",
	Args:  cobra.ExactArgs(1),
	RunE:  runDebug,
}

func runDebug(cmd *cobra.Command, args []string) error {
	doc, err := datalayer.ReadFile(args[0])
	if err != nil {
		return err
	}

	checkpoints := cfg.DefaultCheckpoints
	if len(debugCheckpoints) > 0 {
		checkpoints = debugCheckpoints
	}
	r := diagnose.Diagnose(doc, diagnose.Options{
		Checkpoints: checkpoints,
		Custom:      cfg.CustomCheckpoints,
	})
	errs := r.Count(diagnose.SeverityError)
	logging.Debug("diagnosed", "file", args[0], "issues", len(r.Issues), "errors", errs)

	out := cmd.OutOrStdout()
	switch {
	case debugJSON:
		data, err := report.JSON(r)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, data)
	case debugTable:
		issueTable(out, r)
	default:
		writeMarkdown(out, report.Debug(r), debugRender)
	}

	if errs > 0 {
		return fmt.Errorf("debug found %d error(s)", errs)
	}
	return nil
}

// --- document ---

var (
	documentSchema string
	documentTitle  string
	documentFormat string
	documentRender bool
)

var documentCmd = &cobra.Command{
	Use:   "document [datalayer.json]",
	Short: "Generate reference documentation for a data layer or a schema",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDocument,
}

func runDocument(cmd *cobra.Command, args []string) error {
	opts := docs.Options{Title: documentTitle, Format: documentFormat}

	var (
		out string
		err error
	)
	switch {
	case len(args) == 1:
		doc, readErr := datalayer.ReadFile(args[0])
		if readErr != nil {
			return readErr
		}
		out, err = docs.DataLayer(doc, opts)
	case documentSchema != "":
		out, err = docs.Schema(documentSchema, opts)
	default:
		return errors.New("pass a data layer file or --schema")
	}
	if err != nil {
		return err
	}

	writeMarkdown(cmd.OutOrStdout(), out, documentRender && documentFormat == docs.FormatMarkdown)
	return nil
}

// --- generate ---

var (
	generateLanguage  string
	generateEventType string
	generateEventName string
)

var generateCmd = &cobra.Command{
	Use:   "generate [datalayer.json]",
	Short: "Generate the utag_data declaration and tracking call",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	doc, err := datalayer.ReadFile(args[0])
	if err != nil {
		return err
	}
	code, err := codegen.Generate(doc, codegen.Options{
		Language:  generateLanguage,
		EventType: generateEventType,
		EventName: generateEventName,
	})
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), code)
	return nil
}

// --- parse ---

var (
	parseFormat string
	parseTable  bool
	parseRender bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [spec.csv|spec.json]",
	Short: "Parse a tracking specification into a variable table and example data layer",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read spec: %w", err)
	}
	spec, err := specparse.Parse(string(data), parseFormat)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	if parseTable {
		specTable(out, spec)
		return nil
	}
	md, err := spec.Markdown()
	if err != nil {
		return err
	}
	writeMarkdown(out, md, parseRender)
	return nil
}

// --- schema ---

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Schema operations",
}

var schemaExportID string

var schemaExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a data layer schema or a result schema as JSON",
	Long:  "Export one of the data layer schemas (standard, ecommerce, hotels) or the validation-result / debug-result schemas.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		switch schemaExportID {
		case "validation-result":
			data, err = schema.GenerateResultJSONSchema()
		case "debug-result":
			data, err = diagnose.GenerateResultJSONSchema()
		default:
			doc, ok := schema.Document(schemaExportID)
			if !ok {
				return fmt.Errorf("%w: %s", schema.ErrSchemaNotFound, schemaExportID)
			}
			data = []byte(doc)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(data), "\n"))
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration file operations",
	// The file may not exist yet, so skip loading it.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Default()
		return nil
	},
}

var configForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default settings",
	Long:  "Write the default configuration to --config, or to $XDG_CONFIG_HOME/tealium-mcp/config.yaml when no path is given.",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.Path()
	}
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.Default().Save(path); err != nil {
		return err
	}
	logging.Debug("wrote config", "path", path)
	fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
	return nil
}

// --- shell ---

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive data layer shell",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.New(cfg).Run()
	},
}

// --- serve ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the MCP tools over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Info("serving MCP over stdio", "version", version, "schema", cfg.DefaultSchema)
		return server.ServeStdio(tmcp.NewServer(version, cfg, logging.Default()))
	},
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tealium %s (commit: %s)\n", version, commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/tealium-mcp/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Schema: standard, ecommerce, hotels (default from config)")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Treat warnings as errors")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Print the result as JSON")
	validateCmd.Flags().BoolVar(&validateRender, "render", false, "Render the report for the terminal")

	debugCmd.Flags().StringSliceVar(&debugCheckpoints, "checkpoint", nil, "Extra checks: ecommerce, products, loyalty, guest, search or a custom checkpoint")
	debugCmd.Flags().BoolVar(&debugJSON, "json", false, "Print the result as JSON")
	debugCmd.Flags().BoolVar(&debugRender, "render", false, "Render the report for the terminal")
	debugCmd.Flags().BoolVar(&debugTable, "table", false, "Print issues as a table")

	documentCmd.Flags().StringVar(&documentSchema, "schema", "", "Document a schema instead of a data layer")
	documentCmd.Flags().StringVar(&documentTitle, "title", "", "Document title")
	documentCmd.Flags().StringVar(&documentFormat, "format", docs.FormatMarkdown, "Output format: markdown or html")
	documentCmd.Flags().BoolVar(&documentRender, "render", false, "Render Markdown for the terminal")

	generateCmd.Flags().StringVar(&generateLanguage, "language", codegen.JavaScript, "Output language: javascript or typescript")
	generateCmd.Flags().StringVar(&generateEventType, "event-type", codegen.EventView, "Tracking call: view or link")
	generateCmd.Flags().StringVar(&generateEventName, "event-name", "", "tealium_event value (defaults to event.eventName)")

	parseCmd.Flags().StringVar(&parseFormat, "format", specparse.FormatAuto, "Input format: auto, csv or json")
	parseCmd.Flags().BoolVar(&parseTable, "table", false, "Print variables as a table")
	parseCmd.Flags().BoolVar(&parseRender, "render", false, "Render Markdown for the terminal")

	schemaExportCmd.Flags().StringVar(&schemaExportID, "id", schema.Standard, "Schema: standard, ecommerce, hotels, validation-result or debug-result")
	schemaCmd.AddCommand(schemaExportCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(documentCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
