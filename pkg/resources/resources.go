// Package resources holds the static documents served to MCP clients:
// the schemas, the result schemas, the best-practice guide and the
// variable dictionary.
package resources

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rechedev9/tealium-mcp-server/pkg/datalayer"
	"github.com/rechedev9/tealium-mcp-server/pkg/diagnose"
	"github.com/rechedev9/tealium-mcp-server/pkg/schema"
)

// ErrNotFound is returned by Read for unknown URIs.
var ErrNotFound = errors.New("resource not found")

// Resource is one readable document.
type Resource struct {
	URI         string
	Name        string
	Description string
	MIMEType    string
	read        func() (string, error)
}

// Read returns the document body.
func (r Resource) Read() (string, error) { return r.read() }

const (
	mimeJSON     = "application/json"
	mimeMarkdown = "text/markdown"
)

// DocsPrefix namespaces the Markdown documents.
const DocsPrefix = "tealium://docs/"

// All lists every resource in a stable order.
func All() []Resource {
	var out []Resource
	for _, id := range schema.IDs {
		out = append(out, Resource{
			URI:         schema.URI(id),
			Name:        id + " schema",
			Description: fmt.Sprintf("JSON Schema for the %s Tealium data layer", id),
			MIMEType:    mimeJSON,
			read: func() (string, error) {
				doc, _ := schema.Document(id)
				return doc, nil
			},
		})
	}
	out = append(out,
		Resource{
			URI:         schema.URIPrefix + "validation-result",
			Name:        "validation result schema",
			Description: "JSON Schema of the validate_data_layer structured output",
			MIMEType:    mimeJSON,
			read:        bytesToString(schema.GenerateResultJSONSchema),
		},
		Resource{
			URI:         schema.URIPrefix + "debug-result",
			Name:        "debug result schema",
			Description: "JSON Schema of the debug_data_layer structured output",
			MIMEType:    mimeJSON,
			read:        bytesToString(diagnose.GenerateResultJSONSchema),
		},
		Resource{
			URI:         DocsPrefix + "best-practices",
			Name:        "data layer best practices",
			Description: "Conventions for Tealium data layers on hotel and e-commerce sites",
			MIMEType:    mimeMarkdown,
			read:        func() (string, error) { return BestPractices, nil },
		},
		Resource{
			URI:         DocsPrefix + "variables",
			Name:        "variable dictionary",
			Description: "Every known data layer variable with type, requirement and example",
			MIMEType:    mimeMarkdown,
			read:        func() (string, error) { return VariableDictionary(), nil },
		},
	)
	return out
}

// Read returns the body of the resource at uri.
func Read(uri string) (Resource, string, error) {
	for _, r := range All() {
		if r.URI == uri {
			body, err := r.Read()
			if err != nil {
				return r, "", fmt.Errorf("read %s: %w", uri, err)
			}
			return r, body, nil
		}
	}
	return Resource{}, "", fmt.Errorf("%w: %s", ErrNotFound, uri)
}

func bytesToString(fn func() ([]byte, error)) func() (string, error) {
	return func() (string, error) {
		data, err := fn()
		return string(data), err
	}
}

// VariableDictionary renders the fixed dictionary as Markdown tables, one
// per object.
func VariableDictionary() string {
	var sb strings.Builder
	sb.WriteString("# Tealium Data Layer Variables\n\n")
	for _, obj := range datalayer.Objects {
		vars := datalayer.VariablesOf(obj)
		if len(vars) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n", obj))
		sb.WriteString("| Variable | Type | Required | Example | Description |\n")
		sb.WriteString("|----------|------|----------|---------|-------------|\n")
		for _, v := range vars {
			req := ""
			if v.Required {
				req = "yes"
			}
			sb.WriteString(fmt.Sprintf("| `%s` | %s | %s | `%s` | %s |\n", v.Path(), v.Type, req, v.Example, v.Description))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("`products` is an array of `product` objects.\n")
	return sb.String()
}

// BestPractices is the data layer guide served at tealium://docs/best-practices.
const BestPractices = `# Tealium Data Layer Best Practices

## Structure

- Declare ` + "`utag_data`" + ` before the utag.js loader so the view tag sees the complete data layer.
- Group variables into the standard objects: page, user, event, product/products, transaction, search, hotel, room, booking, guest.
- Always send ` + "`page.pageName`" + ` and ` + "`page.pageType`" + `.
- Use camelCase variable names. Avoid reserved words (undefined, null, true, false, function, object) and single-letter keys.

## Values

- Send numbers as numbers: ` + "`\"bookingTotal\": 199.5`" + `, not ` + "`\"199.50\"`" + `.
- Never send the strings "undefined", "null" or "NaN"; omit the variable instead.
- Use ISO codes: currency ISO 4217 (` + "`EUR`" + `), language ISO 639-1 (` + "`en`, `en-US`" + `), country ISO 3166-1 alpha-2.
- Dates are ` + "`YYYY-MM-DD`" + `.

## Privacy

- Never place email addresses, phone numbers or card numbers in the data layer.
- Use opaque identifiers for ` + "`user.userId`" + ` and ` + "`user.visitorId`" + `.

## Hotel bookings

- A booking page carries both ` + "`booking`" + ` and ` + "`hotel`" + ` objects.
- ` + "`bookingCheckOut`" + ` is after ` + "`bookingCheckIn`" + ` and ` + "`bookingNights`" + ` matches the stay length.
- ` + "`bookingCurrency`" + ` is always set and matches ` + "`page.currency`" + ` unless the property prices in another currency.
- Star ratings are between 1 and 5.

## Events

- Event names are lowercase snake_case or dot.notation (` + "`booking_complete`" + `, ` + "`search.submit`" + `).
- Set ` + "`event.eventCategory`" + ` so events group cleanly in reports.
- Fire ` + "`utag.view`" + ` for page views and ` + "`utag.link`" + ` for interactions.
`
