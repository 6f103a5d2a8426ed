package report

import (
	"strings"
	"testing"

	"github.com/rechedev9/tealium-mcp-server/pkg/datalayer"
	"github.com/rechedev9/tealium-mcp-server/pkg/diagnose"
	"github.com/rechedev9/tealium-mcp-server/pkg/schema"
)

func TestValidation_Completeness(t *testing.T) {
	r := schema.NewResult()
	r.Errors = append(r.Errors,
		schema.ValidationError{Path: "page.pageName", Message: "Missing required property: pageName", Expected: "required"},
		schema.ValidationError{Path: "booking.bookingCheckOut", Message: "Check-out date must be after check-in date", Value: "2024-03-01"},
	)
	r.Warnings = append(r.Warnings, schema.ValidationWarning{Path: "page.currency", Message: "Currency \"usd\" is not an ISO 4217 code", Suggestion: "Use uppercase ISO 4217 codes"})
	r.Suggestions = append(r.Suggestions, "Add user.visitorId")
	r.Settle()
	r.Summary = "Data layer is invalid: 2 error(s), 1 warning(s)"

	out := Validation(r)
	for _, want := range []string{
		"## Errors (2)",
		"`page.pageName`: Missing required property: pageName",
		"Expected: required",
		"Value: `\"2024-03-01\"`",
		"## Warnings (1)",
		"Suggestion: Use uppercase ISO 4217 codes",
		"## Suggestions",
		"- Add user.visitorId",
		"✗ Data layer is invalid",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestValidation_Valid(t *testing.T) {
	r := schema.NewResult()
	r.Summary = "Data layer is valid"
	out := Validation(r)
	if !strings.Contains(out, "✓ Data layer is valid") {
		t.Errorf("unexpected report:\n%s", out)
	}
	if strings.Contains(out, "## Errors") || strings.Contains(out, "## Warnings") {
		t.Errorf("empty groups must be omitted:\n%s", out)
	}
}

func TestDebug_GroupedBySeverity(t *testing.T) {
	r := &diagnose.Result{
		Snapshot: datalayer.Object(),
		Issues: []diagnose.Issue{
			{Severity: diagnose.SeverityInfo, Path: "page.siteSection", Issue: "Null value"},
			{Severity: diagnose.SeverityError, Path: "hotel", Issue: "Booking present without a hotel object", Recommendation: "Include the hotel object"},
			{Severity: diagnose.SeverityWarning, Path: "user", Issue: "Missing user object"},
		},
		MissingVariables: []string{"user"},
		TypeMismatches:   []diagnose.TypeMismatch{{Path: "booking.bookingTotal", Expected: "number", Actual: "string"}},
		Recommendations:  []string{"Include the hotel object"},
	}
	out := Debug(r)

	errIdx := strings.Index(out, "## Errors")
	warnIdx := strings.Index(out, "## Warnings")
	infoIdx := strings.Index(out, "## Info")
	if errIdx < 0 || warnIdx < errIdx || infoIdx < warnIdx {
		t.Fatalf("groups out of order:\n%s", out)
	}
	for _, want := range []string{
		"`hotel`: Booking present without a hotel object",
		"`user`: Missing user object",
		"`page.siteSection`: Null value",
		"| `booking.bookingTotal` | number | string |",
		"1. Include the hotel object",
		"## Missing Variables",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
