package diagnose

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rechedev9/tealium-mcp-server/pkg/datalayer"
)

var fixedNow = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

func decode(t *testing.T, s string) datalayer.Value {
	t.Helper()
	v, err := datalayer.Decode([]byte(s))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func issuesAt(r *Result, path string) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Path == path {
			out = append(out, i)
		}
	}
	return out
}

func TestDiagnose_NotAnObject(t *testing.T) {
	for _, v := range []datalayer.Value{datalayer.String("x"), datalayer.Null(), datalayer.Array()} {
		r := Diagnose(v, Options{})
		if len(r.Issues) != 1 || r.Issues[0].Severity != SeverityError || r.Issues[0].Path != "/" {
			t.Fatalf("expected a single root error, got %+v", r.Issues)
		}
		if !datalayer.IsRecord(r.Snapshot) || r.Snapshot.Len() != 0 {
			t.Errorf("expected empty object snapshot, got %s", r.Snapshot.Display())
		}
		if len(r.Recommendations) != 1 {
			t.Errorf("expected one recommendation, got %v", r.Recommendations)
		}
	}
}

func TestDiagnose_SnapshotIsInput(t *testing.T) {
	doc := decode(t, `{"page":{"pageName":"home"}}`)
	r := Diagnose(doc, Options{Now: fixedNow})
	got, _ := json.Marshal(r.Snapshot)
	if string(got) != `{"page":{"pageName":"home"}}` {
		t.Errorf("snapshot changed: %s", got)
	}
}

func TestDiagnose_EmptyValues(t *testing.T) {
	r := Diagnose(decode(t, `{"page":{"pageName":"","siteSection":null},"user":{"visitorId":"v","tags":[]}}`), Options{Now: fixedNow})

	tests := []struct {
		path string
		sev  Severity
	}{
		{"page.pageName", SeverityWarning},
		{"page.siteSection", SeverityInfo},
		{"user.tags", SeverityInfo},
	}
	for _, tt := range tests {
		got := issuesAt(r, tt.path)
		if len(got) != 1 || got[0].Severity != tt.sev {
			t.Errorf("%s: expected one %s issue, got %+v", tt.path, tt.sev, got)
		}
	}
}

func TestDiagnose_TypeMismatches(t *testing.T) {
	doc := datalayer.Object(
		datalayer.F("page", datalayer.Object(datalayer.F("pageName", datalayer.Number(3)))),
		datalayer.F("user", datalayer.Object(
			datalayer.F("visitorId", datalayer.String("v")),
			datalayer.F("isLoggedIn", datalayer.String("true")),
		)),
		datalayer.F("booking", datalayer.Object(
			datalayer.F("bookingTotal", datalayer.Number(math.NaN())),
			datalayer.F("bookingNights", datalayer.Null()),
			datalayer.F("bookingCurrency", datalayer.String("EUR")),
		)),
		datalayer.F("hotel", datalayer.Object(datalayer.F("hotelCode", datalayer.String("H1")))),
	)
	r := Diagnose(doc, Options{Now: fixedNow})

	want := map[string]TypeMismatch{
		"page.pageName":        {Path: "page.pageName", Expected: "string", Actual: "number"},
		"user.isLoggedIn":      {Path: "user.isLoggedIn", Expected: "boolean", Actual: "string"},
		"booking.bookingTotal": {Path: "booking.bookingTotal", Expected: "number", Actual: "NaN"},
	}
	if len(r.TypeMismatches) != len(want) {
		t.Fatalf("expected %d mismatches, got %+v", len(want), r.TypeMismatches)
	}
	for _, m := range r.TypeMismatches {
		if w, ok := want[m.Path]; !ok || w != m {
			t.Errorf("unexpected mismatch %+v", m)
		}
	}
}

func TestDiagnose_MissingVariables(t *testing.T) {
	r := Diagnose(decode(t, `{"booking":{"bookingId":"B1"},"search":{}}`), Options{Now: fixedNow})

	for _, want := range []string{"page", "user", "user.visitorId", "hotel.hotelCode", "booking.bookingCurrency", "search.searchDestination"} {
		found := false
		for _, m := range r.MissingVariables {
			if m == want {
				found = true
			}
		}
		if !found {
			t.Errorf("expected %s in missing variables %v", want, r.MissingVariables)
		}
	}
	if got := issuesAt(r, "page"); len(got) != 1 || got[0].Severity != SeverityError {
		t.Errorf("expected page error, got %+v", got)
	}
	if got := issuesAt(r, "user"); len(got) != 1 || got[0].Severity != SeverityWarning {
		t.Errorf("expected user warning, got %+v", got)
	}
	if got := issuesAt(r, "search.searchDestination"); len(got) != 1 || got[0].Severity != SeverityInfo {
		t.Errorf("expected ambiguous search info, got %+v", got)
	}
}

func TestDiagnose_BookingWithoutHotel(t *testing.T) {
	r := Diagnose(decode(t, `{"page":{"pageName":"confirm","pageType":"confirmation"},"user":{"visitorId":"v"},"booking":{"bookingId":"B1","bookingCurrency":"EUR"}}`), Options{Now: fixedNow})
	got := issuesAt(r, "hotel")
	if len(got) != 1 || got[0].Severity != SeverityError {
		t.Fatalf("expected one error at hotel, got %+v", got)
	}
}

func TestDiagnose_BookingDates(t *testing.T) {
	r := Diagnose(decode(t, `{
		"page":{"pageName":"b","pageType":"booking"},
		"user":{"visitorId":"v"},
		"hotel":{"hotelCode":"H1"},
		"booking":{"bookingId":"B1","bookingCurrency":"EUR","bookingCheckIn":"2024-05-20","bookingCheckOut":"2024-05-18","bookingTotal":0,"bookingStatus":"pending"}
	}`), Options{Now: fixedNow})

	if got := issuesAt(r, "booking.bookingCheckIn"); len(got) != 1 || got[0].Severity != SeverityWarning {
		t.Errorf("expected past check-in warning, got %+v", got)
	}
	if got := issuesAt(r, "booking.bookingCheckOut"); len(got) != 1 || got[0].Severity != SeverityError {
		t.Errorf("expected reversed dates error, got %+v", got)
	}
	if got := issuesAt(r, "booking.bookingTotal"); len(got) != 1 || got[0].Severity != SeverityWarning {
		t.Errorf("expected zero total warning, got %+v", got)
	}

	completed := Diagnose(decode(t, `{"hotel":{"hotelCode":"H1"},"booking":{"bookingId":"B1","bookingCurrency":"EUR","bookingCheckIn":"2024-05-20","bookingStatus":"completed"}}`), Options{Now: fixedNow})
	if got := issuesAt(completed, "booking.bookingCheckIn"); len(got) != 0 {
		t.Errorf("completed bookings may have past check-in, got %+v", got)
	}
}

func TestDiagnose_EventNames(t *testing.T) {
	r := Diagnose(decode(t, `{"page":{"pageName":"a"},"event":{"eventName":"Add To Cart"}}`), Options{Now: fixedNow})
	got := issuesAt(r, "event.eventName")
	if len(got) != 2 {
		t.Fatalf("expected spaces and uppercase issues, got %+v", got)
	}
	if got[0].Severity != SeverityWarning || got[1].Severity != SeverityInfo {
		t.Errorf("unexpected severities %+v", got)
	}
}

func TestDiagnose_RecommendationsDeduplicated(t *testing.T) {
	r := Diagnose(decode(t, `{"page":{"pageName":"","pageType":"","siteSection":""},"user":{"visitorId":""}}`), Options{Now: fixedNow})
	seen := map[string]bool{}
	for _, rec := range r.Recommendations {
		if seen[rec] {
			t.Errorf("duplicate recommendation %q", rec)
		}
		seen[rec] = true
	}
	if r.Count(SeverityWarning) < 4 {
		t.Errorf("issues must not be deduplicated, got %+v", r.Issues)
	}
}

func TestDiagnose_CriticalRecommendation(t *testing.T) {
	doc := datalayer.Object(
		datalayer.F("page", datalayer.Object(
			datalayer.F("pageName", datalayer.Number(1)),
			datalayer.F("pageType", datalayer.Number(1)),
			datalayer.F("language", datalayer.Number(1)),
			datalayer.F("currency", datalayer.Number(1)),
		)),
		datalayer.F("user", datalayer.Object(
			datalayer.F("visitorId", datalayer.Number(1)),
			datalayer.F("userId", datalayer.Number(1)),
		)),
	)
	r := Diagnose(doc, Options{Now: fixedNow})
	if r.Count(SeverityError) <= criticalErrorThreshold {
		t.Fatalf("expected more than %d errors, got %d", criticalErrorThreshold, r.Count(SeverityError))
	}
	found := false
	for _, rec := range r.Recommendations {
		if strings.HasPrefix(rec, "Multiple critical errors") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected critical review recommendation in %v", r.Recommendations)
	}
}

func TestDiagnose_CurrencyReconcile(t *testing.T) {
	r := Diagnose(decode(t, `{"page":{"pageName":"a","pageType":"b","currency":"USD"},"hotel":{"hotelCode":"H"},"booking":{"bookingId":"1","bookingCurrency":"EUR"}}`), Options{Now: fixedNow})
	found := false
	for _, rec := range r.Recommendations {
		if strings.Contains(rec, "Reconcile") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected currency reconcile recommendation in %v", r.Recommendations)
	}
}

func TestCheckpoints(t *testing.T) {
	doc := decode(t, `{"page":{"pageName":"a"},"products":[{"productId":"p1"},{"productName":"x"}],"guest":{"loyaltyMember":true}}`)

	tests := []struct {
		name       string
		checkpoint string
		path       string
		sev        Severity
	}{
		{"products", "Ecommerce", "products[1].productId", SeverityError},
		{"loyalty", "LOYALTY", "guest.loyaltyTier", SeverityWarning},
		{"search", "search", "search.searchDestination", SeverityWarning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Diagnose(doc, Options{Checkpoints: []string{tt.checkpoint}, Now: fixedNow})
			got := issuesAt(r, tt.path)
			if len(got) == 0 || got[len(got)-1].Severity != tt.sev {
				t.Errorf("expected %s issue at %s, got %+v", tt.sev, tt.path, got)
			}
		})
	}

	base := Diagnose(doc, Options{Now: fixedNow})
	unknown := Diagnose(doc, Options{Checkpoints: []string{"does-not-exist"}, Now: fixedNow})
	if len(base.Issues) != len(unknown.Issues) {
		t.Errorf("unknown checkpoints must be ignored: %d vs %d issues", len(base.Issues), len(unknown.Issues))
	}
}

func TestCustomCheckpoint(t *testing.T) {
	custom := []CustomCheckpoint{
		{
			Name:           "positive-total",
			When:           `booking != nil`,
			Assert:         `booking.bookingTotal > 0`,
			Severity:       SeverityError,
			Path:           "booking.bookingTotal",
			Recommendation: "Send the final booking total",
		},
		{Name: "broken", Assert: `page.pageName +`},
	}

	r := Diagnose(decode(t, `{"booking":{"bookingTotal":-1}}`), Options{Checkpoints: []string{"Positive-Total"}, Custom: custom, Now: fixedNow})
	got := issuesAt(r, "booking.bookingTotal")
	if len(got) != 1 || got[0].Severity != SeverityError || got[0].Recommendation != "Send the final booking total" {
		t.Errorf("expected custom error issue, got %+v", got)
	}

	skipped := Diagnose(decode(t, `{"page":{"pageName":"a"}}`), Options{Checkpoints: []string{"positive-total"}, Custom: custom, Now: fixedNow})
	if got := issuesAt(skipped, "booking.bookingTotal"); len(got) != 0 {
		t.Errorf("when=false must skip the checkpoint, got %+v", got)
	}

	broken := Diagnose(decode(t, `{"page":{"pageName":"a"}}`), Options{Checkpoints: []string{"broken"}, Custom: custom, Now: fixedNow})
	if got := issuesAt(broken, "/"); len(got) != 1 || got[0].Severity != SeverityError {
		t.Errorf("expected compile failure as an error issue, got %+v", got)
	}
}

func TestGenerateResultJSONSchema(t *testing.T) {
	data, err := GenerateResultJSONSchema()
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	if doc["$id"] != "tealium://schema/debug-result" {
		t.Errorf("unexpected $id %v", doc["$id"])
	}
}

func TestDiagnose_MissingVariablesUnique(t *testing.T) {
	r := Diagnose(decode(t, `{"page":{"pageName":"a"},"search":{}}`), Options{Checkpoints: []string{"search"}, Now: fixedNow})
	seen := map[string]int{}
	for _, m := range r.MissingVariables {
		seen[m]++
	}
	for m, n := range seen {
		if n > 1 {
			t.Errorf("%s listed %d times in %v", m, n, r.MissingVariables)
		}
	}
	if seen["search.searchDestination"] != 1 {
		t.Errorf("expected search.searchDestination once, got %v", r.MissingVariables)
	}
}

func TestDiagnose_ObjectShapes(t *testing.T) {
	r := Diagnose(decode(t, `{
		"page": {"pageName": "checkout", "pageType": "checkout"},
		"user": {"visitorId": "v1"},
		"event": {"eventCategory": "cart"},
		"products": [{"productId": "p1"}, {"productName": "x"}],
		"transaction": {"transactionId": "T1", "transactionTotal": "12.50"}
	}`), Options{Now: fixedNow})

	for _, want := range []string{"event.eventName", "products[1].productId"} {
		found := false
		for _, m := range r.MissingVariables {
			if m == want {
				found = true
			}
		}
		if !found {
			t.Errorf("expected %s in missing variables %v", want, r.MissingVariables)
		}
	}

	found := false
	for _, rec := range r.Recommendations {
		if rec == "Send transaction.transactionTotal as number, not string" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected transactionTotal type recommendation in %v", r.Recommendations)
	}

	valid := Diagnose(decode(t, `{"page":{"pageName":"home"},"user":{"visitorId":"v1"},"hotel":{"hotelCode":"H1"}}`), Options{Now: fixedNow})
	if len(valid.MissingVariables) != 0 {
		t.Errorf("well-formed objects should not report missing variables, got %v", valid.MissingVariables)
	}
}
