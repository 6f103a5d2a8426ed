package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rechedev9/tealium-mcp-server/pkg/datalayer"
	"github.com/rechedev9/tealium-mcp-server/pkg/resources"
)

// Prompt names.
const (
	PromptAudit     = "audit_data_layer"
	PromptPlanHotel = "plan_hotel_tracking"
)

func registerResources(s *server.MCPServer) {
	for _, r := range resources.All() {
		s.AddResource(
			mcp.NewResource(r.URI, r.Name,
				mcp.WithResourceDescription(r.Description),
				mcp.WithMIMEType(r.MIMEType),
			),
			HandleReadResource,
		)
	}
}

// HandleReadResource serves every static resource by URI.
func HandleReadResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	r, body, err := resources.Read(req.Params.URI)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      r.URI,
			MIMEType: r.MIMEType,
			Text:     body,
		},
	}, nil
}

func registerPrompts(s *server.MCPServer) {
	s.AddPrompt(
		mcp.NewPrompt(PromptAudit,
			mcp.WithPromptDescription("Audit a data layer with the validate and debug tools and summarize the fixes"),
			mcp.WithArgument("dataLayer", mcp.RequiredArgument(), mcp.ArgumentDescription("The data layer as JSON")),
			mcp.WithArgument("schema", mcp.ArgumentDescription("Schema to validate against (default standard)")),
		),
		HandleAuditPrompt,
	)
	s.AddPrompt(
		mcp.NewPrompt(PromptPlanHotel,
			mcp.WithPromptDescription("Plan the hotel data layer variables for one page type"),
			mcp.WithArgument("pageType", mcp.RequiredArgument(), mcp.ArgumentDescription("home, search, hotel, room, checkout, booking or confirmation")),
		),
		HandlePlanHotelPrompt,
	)
}

// HandleAuditPrompt builds the audit_data_layer prompt.
func HandleAuditPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	dl := strings.TrimSpace(req.Params.Arguments["dataLayer"])
	if dl == "" {
		return nil, errors.New("dataLayer argument is required")
	}
	id := req.Params.Arguments["schema"]
	if id == "" {
		id = "standard"
	}

	var sb strings.Builder
	sb.WriteString("Audit the Tealium data layer below.\n\n")
	sb.WriteString(fmt.Sprintf("1. Call %s with schema %q.\n", ToolValidate, id))
	sb.WriteString(fmt.Sprintf("2. Call %s with the checkpoints that match the page.\n", ToolDebug))
	sb.WriteString("3. Summarize blocking errors first, then warnings, then the recommended fixes in priority order.\n\n")
	sb.WriteString("```json\n")
	sb.WriteString(dl)
	sb.WriteString("\n```\n")

	return mcp.NewGetPromptResult(
		"Data layer audit",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(sb.String())),
		},
	), nil
}

// pageObjects lists the objects a hotel page of each type should carry.
var pageObjects = map[string][]string{
	"home":         {datalayer.ObjectPage, datalayer.ObjectUser},
	"search":       {datalayer.ObjectPage, datalayer.ObjectUser, datalayer.ObjectSearch},
	"hotel":        {datalayer.ObjectPage, datalayer.ObjectUser, datalayer.ObjectHotel},
	"room":         {datalayer.ObjectPage, datalayer.ObjectUser, datalayer.ObjectHotel, datalayer.ObjectRoom},
	"checkout":     {datalayer.ObjectPage, datalayer.ObjectUser, datalayer.ObjectHotel, datalayer.ObjectRoom, datalayer.ObjectBooking, datalayer.ObjectGuest},
	"booking":      {datalayer.ObjectPage, datalayer.ObjectUser, datalayer.ObjectHotel, datalayer.ObjectRoom, datalayer.ObjectBooking, datalayer.ObjectGuest},
	"confirmation": {datalayer.ObjectPage, datalayer.ObjectUser, datalayer.ObjectEvent, datalayer.ObjectHotel, datalayer.ObjectRoom, datalayer.ObjectBooking, datalayer.ObjectGuest},
}

// HandlePlanHotelPrompt builds the plan_hotel_tracking prompt from the
// variable dictionary. Unknown page types get page and user only.
func HandlePlanHotelPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	pageType := strings.ToLower(strings.TrimSpace(req.Params.Arguments["pageType"]))
	if pageType == "" {
		return nil, errors.New("pageType argument is required")
	}
	objects, ok := pageObjects[pageType]
	if !ok {
		objects = []string{datalayer.ObjectPage, datalayer.ObjectUser}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Plan the Tealium data layer for a hotel %q page.\n\n", pageType))
	sb.WriteString("Expected variables:\n\n")
	for _, obj := range objects {
		for _, v := range datalayer.VariablesOf(obj) {
			flag := ""
			if v.Required {
				flag = " (required)"
			}
			sb.WriteString(fmt.Sprintf("- `%s` %s%s: %s, e.g. `%s`\n", v.Path(), v.Type, flag, v.Description, v.Example))
		}
	}
	sb.WriteString(fmt.Sprintf("\nSet page.pageType to %q. Draft an example data layer, then check it with %s using the hotels schema.\n", pageType, ToolValidate))

	return mcp.NewGetPromptResult(
		"Hotel tracking plan",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(sb.String())),
		},
	), nil
}
