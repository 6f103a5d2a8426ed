package docs

import (
	"errors"
	"strings"
	"testing"

	"github.com/rechedev9/tealium-mcp-server/pkg/datalayer"
	"github.com/rechedev9/tealium-mcp-server/pkg/schema"
)

func TestDataLayer_Markdown(t *testing.T) {
	doc, err := datalayer.Decode([]byte(`{
		"page": {"pageName": "home", "customFlag": true},
		"products": [{"productId": "p1"}, {"productId": "p2", "productPrice": 5}],
		"tealium_event": "view"
	}`))
	if err != nil {
		t.Fatal(err)
	}
	out, err := DataLayer(doc, Options{Title: "Home page"})
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"# Home page",
		"## page",
		"| `page.pageName` | string | yes |",
		"| `page.customFlag` | boolean |",
		"_Custom variable_",
		"## products",
		"| `products[].productId` | string | yes |",
		"| `products[].productPrice` | number |",
		"## Other variables",
		"| `tealium_event` | string |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Count(out, "products[].productId") != 1 {
		t.Errorf("array item fields must be listed once:\n%s", out)
	}
}

func TestDataLayer_NotAnObject(t *testing.T) {
	_, err := DataLayer(datalayer.String("x"), Options{})
	if !errors.Is(err, datalayer.ErrNotObject) {
		t.Fatalf("expected ErrNotObject, got %v", err)
	}
}

func TestSchema(t *testing.T) {
	tests := []struct {
		id    string
		wants []string
	}{
		{schema.Standard, []string{"# Tealium standard data layer", "| `page.pageName` | string | yes | min length 1 |", "one of dev, staging, production"}},
		{schema.Ecommerce, []string{"| `products[].productId` | string | yes |", "| `product.productPrice` | number |  | >= 0 |"}},
		{"tealium://schema/hotels", []string{"Required top-level objects: page.", "| `hotel.hotelStarRating` | number |  | >= 1; <= 5 |", "| `hotel.hotelAmenities` | string[] |", "format date"}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			out, err := Schema(tt.id, Options{})
			if err != nil {
				t.Fatal(err)
			}
			for _, want := range tt.wants {
				if !strings.Contains(out, want) {
					t.Errorf("missing %q in:\n%s", want, out)
				}
			}
		})
	}

	if _, err := Schema("nope", Options{}); !errors.Is(err, schema.ErrSchemaNotFound) {
		t.Errorf("expected ErrSchemaNotFound, got %v", err)
	}
}

func TestHTML(t *testing.T) {
	out, err := Schema(schema.Standard, Options{Format: FormatHTML})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<table>") || !strings.Contains(out, "<h1>") {
		t.Errorf("expected an HTML table, got:\n%s", out)
	}

	if _, err := Schema(schema.Standard, Options{Format: "pdf"}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}
