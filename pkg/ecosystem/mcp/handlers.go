package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rechedev9/tealium-mcp-server/pkg/codegen"
	"github.com/rechedev9/tealium-mcp-server/pkg/config"
	"github.com/rechedev9/tealium-mcp-server/pkg/datalayer"
	"github.com/rechedev9/tealium-mcp-server/pkg/diagnose"
	"github.com/rechedev9/tealium-mcp-server/pkg/docs"
	"github.com/rechedev9/tealium-mcp-server/pkg/logging"
	"github.com/rechedev9/tealium-mcp-server/pkg/report"
	"github.com/rechedev9/tealium-mcp-server/pkg/specparse"
	"github.com/rechedev9/tealium-mcp-server/pkg/validate"
)

// Handlers implements the MCP tools over a fixed configuration.
type Handlers struct {
	cfg *config.Config
	log *logging.Logger
	now func() time.Time
}

// NewHandlers returns tool handlers. Nil arguments select the defaults.
func NewHandlers(cfg *config.Config, logger *logging.Logger) *Handlers {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handlers{cfg: cfg, log: logger, now: time.Now}
}

// HandleValidate implements the validate_data_layer tool.
func (h *Handlers) HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	doc, err := dataLayerArg(req)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	opts := validate.Options{
		Schema: req.GetString("schema", h.cfg.DefaultSchema),
		Strict: req.GetBool("strictMode", h.cfg.StrictMode),
	}
	r := validate.Validate(doc, opts)
	h.log.With("tool", ToolValidate).Timed("tool call", start,
		"schema", opts.Schema, "strict", opts.Strict,
		"errors", len(r.Errors), "warnings", len(r.Warnings))

	return reportResult(report.Validation(r), r, !r.IsValid)
}

// HandleDebug implements the debug_data_layer tool. Finding issues is a
// successful call; IsError is reserved for unusable arguments.
func (h *Handlers) HandleDebug(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	doc, err := dataLayerArg(req)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	checkpoints := req.GetStringSlice("checkpoints", h.cfg.DefaultCheckpoints)
	r := diagnose.Diagnose(doc, diagnose.Options{
		Checkpoints: checkpoints,
		Custom:      h.cfg.CustomCheckpoints,
		Now:         h.now,
	})
	h.log.With("tool", ToolDebug).Timed("tool call", start,
		"checkpoints", strings.Join(checkpoints, ","),
		"errors", r.Count(diagnose.SeverityError),
		"warnings", r.Count(diagnose.SeverityWarning))

	return reportResult(report.Debug(r), r, false)
}

// HandleDocument implements the document_data_layer tool.
func (h *Handlers) HandleDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := docs.Options{
		Title:  req.GetString("title", ""),
		Format: req.GetString("format", docs.FormatMarkdown),
	}

	var (
		out string
		err error
	)
	if _, ok := req.GetArguments()["dataLayer"]; ok {
		doc, argErr := dataLayerArg(req)
		if argErr != nil {
			return errorResult(argErr.Error()), nil
		}
		out, err = docs.DataLayer(doc, opts)
	} else if id := req.GetString("schema", ""); id != "" {
		out, err = docs.Schema(id, opts)
	} else {
		return errorResult("either dataLayer or schema argument is required"), nil
	}
	if err != nil {
		h.log.Warn("document failed", "tool", ToolDocument, "err", err)
		return errorResult(fmt.Sprintf("document: %s", err)), nil
	}
	return textResult(out), nil
}

// HandleGenerate implements the generate_tracking_code tool.
func (h *Handlers) HandleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := dataLayerArg(req)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	code, err := codegen.Generate(doc, codegen.Options{
		Language:  req.GetString("language", codegen.JavaScript),
		EventType: req.GetString("eventType", codegen.EventView),
		EventName: req.GetString("eventName", ""),
	})
	if err != nil {
		return errorResult(fmt.Sprintf("generate: %s", err)), nil
	}
	return textResult(code), nil
}

// HandleParseSpec implements the parse_tracking_spec tool.
func (h *Handlers) HandleParseSpec(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()
	content := req.GetString("content", "")
	format := req.GetString("format", specparse.FormatAuto)

	spec, err := specparse.Parse(content, format)
	if err != nil {
		var pe *specparse.ParseError
		switch {
		case errors.Is(err, specparse.ErrContentRequired):
			return errorResult("content argument is required"), nil
		case errors.As(err, &pe):
			h.log.Debug("spec rejected", "tool", ToolParse, "format", pe.Format, "line", pe.Line)
		}
		return errorResult(err.Error()), nil
	}

	md, err := spec.Markdown()
	if err != nil {
		return nil, fmt.Errorf("render spec: %w", err)
	}
	h.log.With("tool", ToolParse).Timed("tool call", start, "variables", len(spec.Variables))
	return textResult(md), nil
}

// dataLayerArg reads the dataLayer argument. Clients that send the data
// layer as a JSON string get it decoded in document order.
func dataLayerArg(req mcp.CallToolRequest) (datalayer.Value, error) {
	raw, ok := req.GetArguments()["dataLayer"]
	if !ok {
		return datalayer.Value{}, errors.New("dataLayer argument is required")
	}
	if s, ok := raw.(string); ok {
		trimmed := strings.TrimSpace(s)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			v, err := datalayer.Decode([]byte(trimmed))
			if err != nil {
				return datalayer.Value{}, fmt.Errorf("dataLayer is not valid JSON: %w", err)
			}
			return v, nil
		}
	}
	return datalayer.FromAny(raw), nil
}

// reportResult returns the Markdown report followed by the JSON result.
func reportResult(markdown string, v any, isError bool) (*mcp.CallToolResult, error) {
	data, err := report.JSON(v)
	if err != nil {
		return nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(markdown),
			mcp.NewTextContent(data),
		},
		IsError: isError,
	}, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(msg),
		},
		IsError: true,
	}
}
