package naming

import (
	"strings"
	"testing"

	"github.com/rechedev9/tealium-mcp-server/pkg/datalayer"
	"github.com/rechedev9/tealium-mcp-server/pkg/schema"
)

func warningsAt(ws []schema.ValidationWarning, path string) []schema.ValidationWarning {
	var out []schema.ValidationWarning
	for _, w := range ws {
		if w.Path == path {
			out = append(out, w)
		}
	}
	return out
}

func TestToCamelCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hotel_Name", "hotelName"},
		{"booking-total", "bookingTotal"},
		{"page name", "pageName"},
		{"_leading", "leading"},
		{"already", "already"},
		{"URL", "uRL"},
	}
	for _, tt := range tests {
		if got := ToCamelCase(tt.in); got != tt.want {
			t.Errorf("ToCamelCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCheck_NotCamelCase(t *testing.T) {
	doc := datalayer.Object(datalayer.F("hotel", datalayer.Object(
		datalayer.F("Hotel_Name", datalayer.String("Grand")),
	)))
	ws := Check(doc)

	if len(warningsAt(ws, "hotel")) != 0 {
		t.Errorf("known prefix must not be flagged: %v", warningsAt(ws, "hotel"))
	}
	got := warningsAt(ws, "hotel.Hotel_Name")
	if len(got) != 1 {
		t.Fatalf("expected one warning at hotel.Hotel_Name, got %v", got)
	}
	if !strings.Contains(got[0].Suggestion, `"hotelName"`) {
		t.Errorf("expected hotelName suggestion, got %q", got[0].Suggestion)
	}
}

func TestCheck_IndependentRules(t *testing.T) {
	doc := datalayer.Object(
		datalayer.F("X", datalayer.Number(1)),
		datalayer.F("null", datalayer.Number(1)),
		datalayer.F("ID", datalayer.String("a")),
		datalayer.F("id", datalayer.String("b")),
		datalayer.F("Object", datalayer.String("c")),
	)
	ws := Check(doc)

	// "X": not camelCase, too short, abbreviation.
	if n := len(warningsAt(ws, "X")); n != 3 {
		t.Errorf("expected 3 warnings for X, got %d: %v", n, warningsAt(ws, "X"))
	}
	// "null": camelCase but reserved.
	if got := warningsAt(ws, "null"); len(got) != 1 || !strings.Contains(got[0].Message, "reserved") {
		t.Errorf("expected a single reserved-word warning, got %v", got)
	}
	// "ID": not camelCase and abbreviation.
	if n := len(warningsAt(ws, "ID")); n != 2 {
		t.Errorf("expected 2 warnings for ID, got %d", n)
	}
	if n := len(warningsAt(ws, "id")); n != 0 {
		t.Errorf("expected no warnings for id, got %d", n)
	}
	// Reserved-word match is case-insensitive.
	if got := warningsAt(ws, "Object"); len(got) != 2 {
		t.Errorf("expected camelCase and reserved warnings for Object, got %v", got)
	}
}

func TestCheck_DoesNotEnterArrays(t *testing.T) {
	doc := datalayer.Object(
		datalayer.F("products", datalayer.Array(datalayer.Object(datalayer.F("Bad_Key", datalayer.String("x"))))),
		datalayer.F("page", datalayer.Object(datalayer.F("inner", datalayer.Object(datalayer.F("Deep_Key", datalayer.Null()))))),
	)
	ws := Check(doc)
	for _, w := range ws {
		if strings.Contains(w.Path, "Bad_Key") {
			t.Errorf("array contents must not be checked: %v", w)
		}
	}
	if len(warningsAt(ws, "page.inner.Deep_Key")) != 1 {
		t.Errorf("expected nested object key to be checked, got %v", ws)
	}
}
