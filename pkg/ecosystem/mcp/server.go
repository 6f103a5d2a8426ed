package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rechedev9/tealium-mcp-server/pkg/config"
	"github.com/rechedev9/tealium-mcp-server/pkg/logging"
	"github.com/rechedev9/tealium-mcp-server/pkg/schema"
)

// Tool names.
const (
	ToolValidate = "validate_data_layer"
	ToolDebug    = "debug_data_layer"
	ToolDocument = "document_data_layer"
	ToolGenerate = "generate_tracking_code"
	ToolParse    = "parse_tracking_spec"
)

// NewServer creates the MCP server with the data layer tools, resources and
// prompts registered. A nil cfg uses config.Default; a nil logger uses the
// process logger.
func NewServer(version string, cfg *config.Config, logger *logging.Logger) *server.MCPServer {
	h := NewHandlers(cfg, logger)

	s := server.NewMCPServer(
		"tealium-mcp",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	s.AddTool(
		mcp.NewTool(ToolValidate,
			mcp.WithDescription("Validate a Tealium data layer against a schema, the Tealium business rules and the naming conventions"),
			mcp.WithObject("dataLayer", mcp.Required(), mcp.Description("The data layer object (utag_data)")),
			mcp.WithString("schema", mcp.Description("Schema id or URI: standard, ecommerce, hotels (default from configuration)")),
			mcp.WithBoolean("strictMode", mcp.Description("Treat every warning as an error")),
		),
		h.HandleValidate,
	)

	s.AddTool(
		mcp.NewTool(ToolDebug,
			mcp.WithDescription("Diagnose a data layer: empty values, type mismatches, missing variables, event naming and booking funnel consistency"),
			mcp.WithAny("dataLayer", mcp.Required(), mcp.Description("The data layer to diagnose")),
			mcp.WithArray("checkpoints",
				mcp.Description("Extra targeted checks: ecommerce, products, loyalty, guest, search or a configured custom checkpoint"),
				mcp.WithStringItems(),
			),
		),
		h.HandleDebug,
	)

	s.AddTool(
		mcp.NewTool(ToolDocument,
			mcp.WithDescription("Generate reference documentation for a data layer or for one of the schemas"),
			mcp.WithObject("dataLayer", mcp.Description("The data layer to document")),
			mcp.WithString("schema", mcp.Description("Document a schema instead: standard, ecommerce or hotels")),
			mcp.WithString("title", mcp.Description("Document title")),
			mcp.WithString("format", mcp.Description("Output format"), mcp.Enum("markdown", "html")),
		),
		h.HandleDocument,
	)

	s.AddTool(
		mcp.NewTool(ToolGenerate,
			mcp.WithDescription("Generate the utag_data declaration and tracking call for a data layer"),
			mcp.WithObject("dataLayer", mcp.Required(), mcp.Description("Example data layer")),
			mcp.WithString("language", mcp.Description("Output language"), mcp.Enum("javascript", "typescript")),
			mcp.WithString("eventType", mcp.Description("Tracking call"), mcp.Enum("view", "link")),
			mcp.WithString("eventName", mcp.Description("tealium_event value (defaults to event.eventName)")),
		),
		h.HandleGenerate,
	)

	s.AddTool(
		mcp.NewTool(ToolParse,
			mcp.WithDescription("Parse a tracking specification (CSV or JSON) into a variable table and an example data layer"),
			mcp.WithString("content", mcp.Required(), mcp.Description("The specification text")),
			mcp.WithString("format", mcp.Description("Input format"), mcp.Enum("auto", "csv", "json")),
		),
		h.HandleParseSpec,
	)

	registerResources(s)
	registerPrompts(s)

	return s
}

const instructions = `Tools for Tealium data layers (utag_data).
Use ` + ToolValidate + ` to check a data layer against the ` + schema.Standard + `, ` + schema.Ecommerce + ` or ` + schema.Hotels + ` schema,
` + ToolDebug + ` to triage problems by severity, ` + ToolDocument + ` and ` + ToolGenerate + ` to produce
documentation and tracking code, and ` + ToolParse + ` to turn a tracking plan into an example data layer.
The schemas and the variable dictionary are available as resources.`
