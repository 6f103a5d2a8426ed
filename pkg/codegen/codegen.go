// Package codegen generates Tealium tracking snippets from an example data
// layer: a utag_data declaration with the matching utag.view or utag.link
// call, in JavaScript or TypeScript.
package codegen

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rechedev9/tealium-mcp-server/pkg/datalayer"
)

// Languages.
const (
	JavaScript = "javascript"
	TypeScript = "typescript"
)

// Event types.
const (
	EventView = "view"
	EventLink = "link"
)

var (
	ErrUnsupportedLanguage  = errors.New("unsupported language")
	ErrUnsupportedEventType = errors.New("unsupported event type")
)

// Options control generation. Empty values select javascript and view.
type Options struct {
	Language  string
	EventType string
	// EventName sets tealium_event; when empty event.eventName is used.
	EventName string
}

// Generate returns the tracking snippet for doc.
func Generate(doc datalayer.Value, opts Options) (string, error) {
	if err := datalayer.CheckDataLayer(doc); err != nil {
		return "", err
	}

	lang := strings.ToLower(opts.Language)
	switch lang {
	case "", "js", JavaScript:
		lang = JavaScript
	case "ts", TypeScript:
		lang = TypeScript
	default:
		return "", fmt.Errorf("%w %q: use javascript or typescript", ErrUnsupportedLanguage, opts.Language)
	}

	event := strings.ToLower(opts.EventType)
	switch event {
	case "":
		event = EventView
	case EventView, EventLink:
	default:
		return "", fmt.Errorf("%w %q: use view or link", ErrUnsupportedEventType, opts.EventType)
	}

	data := withTealiumEvent(doc, opts.EventName)
	literal, err := objectLiteral(data)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if lang == TypeScript {
		sb.WriteString(Interfaces(doc))
		sb.WriteString("\ndeclare const utag: {\n")
		sb.WriteString("  view(data: TealiumDataLayer, callback?: () => void): void;\n")
		sb.WriteString("  link(data: TealiumDataLayer, callback?: () => void): void;\n")
		sb.WriteString("};\n\n")
		sb.WriteString(fmt.Sprintf("const utag_data: TealiumDataLayer = %s;\n\n", literal))
	} else {
		sb.WriteString(fmt.Sprintf("var utag_data = %s;\n\n", literal))
	}

	if event == EventLink {
		sb.WriteString("utag.link(utag_data);\n")
	} else {
		sb.WriteString("utag.view(utag_data);\n")
	}
	return sb.String(), nil
}

// withTealiumEvent adds tealium_event at the root unless already present.
func withTealiumEvent(doc datalayer.Value, name string) datalayer.Value {
	if doc.Has("tealium_event") {
		return doc
	}
	if name == "" {
		name = doc.Str("event.eventName")
	}
	if name == "" {
		return doc
	}
	fields := append([]datalayer.Field{}, doc.Fields()...)
	fields = append(fields, datalayer.F("tealium_event", datalayer.String(name)))
	return datalayer.Object(fields...)
}

func objectLiteral(v datalayer.Value) (string, error) {
	raw, err := v.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("encode data layer: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return "", fmt.Errorf("indent data layer: %w", err)
	}
	return out.String(), nil
}
