// Package diagnose triages a data layer: empty values, type mismatches,
// missing variables, event naming, booking funnel consistency and
// caller-selected checkpoints. Unlike validation it describes problems by
// severity rather than judging schema conformance.
package diagnose

import (
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/rechedev9/tealium-mcp-server/pkg/datalayer"
)

// Severity grades an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is one diagnosed problem.
type Issue struct {
	Severity       Severity `json:"severity" jsonschema:"enum=error,enum=warning,enum=info"`
	Path           string   `json:"path"`
	Issue          string   `json:"issue"`
	Recommendation string   `json:"recommendation"`
}

// TypeMismatch records a value whose runtime type differs from the expected one.
type TypeMismatch struct {
	Path     string `json:"path"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// Result is the outcome of Diagnose. MissingVariables and Recommendations
// hold no duplicates; Issues are never deduplicated.
type Result struct {
	Snapshot         datalayer.Value `json:"snapshot"`
	Issues           []Issue         `json:"issues"`
	MissingVariables []string        `json:"missingVariables"`
	TypeMismatches   []TypeMismatch  `json:"typeMismatches"`
	Recommendations  []string        `json:"recommendations"`
}

// Count returns the number of issues with the given severity.
func (r *Result) Count(s Severity) int {
	return lo.CountBy(r.Issues, func(i Issue) bool { return i.Severity == s })
}

// Options tune a diagnosis run.
type Options struct {
	// Checkpoints name extra targeted checks; matching is case-insensitive
	// and unknown names are ignored.
	Checkpoints []string
	// Custom are expression checkpoints selectable by name.
	Custom []CustomCheckpoint
	// Now is the reference clock for date checks. Defaults to time.Now.
	Now func() time.Time
}

// criticalErrorThreshold is the error count above which a top-level review
// recommendation is added.
const criticalErrorThreshold = 5

// findings is the fold unit of every check.
type findings struct {
	issues          []Issue
	missing         []string
	mismatches      []TypeMismatch
	recommendations []string
}

func (f *findings) add(o findings) {
	f.issues = append(f.issues, o.issues...)
	f.missing = append(f.missing, o.missing...)
	f.mismatches = append(f.mismatches, o.mismatches...)
	f.recommendations = append(f.recommendations, o.recommendations...)
}

func (f *findings) issue(sev Severity, path, text, rec string) {
	f.issues = append(f.issues, Issue{Severity: sev, Path: path, Issue: text, Recommendation: rec})
}

// Diagnose runs every check over doc.
func Diagnose(doc datalayer.Value, opts Options) *Result {
	if err := datalayer.CheckDataLayer(doc); err != nil {
		rec := "Pass the data layer as a JSON object such as {\"page\": {...}}"
		return &Result{
			Snapshot: datalayer.Object(),
			Issues: []Issue{{
				Severity:       SeverityError,
				Path:           datalayer.RootPath,
				Issue:          fmt.Sprintf("Invalid data layer: %v", err),
				Recommendation: rec,
			}},
			MissingVariables: []string{},
			TypeMismatches:   []TypeMismatch{},
			Recommendations:  []string{rec},
		}
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	var all findings
	all.add(scanEmptyValues(doc))
	all.add(checkTypes(doc))
	all.add(inferMissing(doc))
	all.add(inferShapes(doc))
	all.add(checkEventNames(doc))
	all.add(checkBookingFunnel(doc, now()))
	all.add(runCheckpoints(doc, opts.Checkpoints, opts.Custom))

	recs := lo.Map(all.issues, func(i Issue, _ int) string { return i.Recommendation })
	recs = append(recs, all.recommendations...)
	recs = append(recs, aggregate(doc, all.issues)...)

	return &Result{
		Snapshot:         doc,
		Issues:           orEmpty(all.issues),
		MissingVariables: orEmpty(lo.Uniq(all.missing)),
		TypeMismatches:   orEmpty(all.mismatches),
		Recommendations:  lo.Uniq(lo.Compact(recs)),
	}
}

func aggregate(doc datalayer.Value, issues []Issue) []string {
	var recs []string
	errs := lo.CountBy(issues, func(i Issue) bool { return i.Severity == SeverityError })
	if errs > criticalErrorThreshold {
		recs = append(recs, "Multiple critical errors detected: review your data layer implementation before release")
	}
	if doc.Get("page.pageType").IsNullish() {
		recs = append(recs, "Add page.pageType so pages can be grouped by template")
	}
	bookingCur, pageCur := doc.Str("booking.bookingCurrency"), doc.Str("page.currency")
	if bookingCur != "" && pageCur != "" && bookingCur != pageCur {
		recs = append(recs, fmt.Sprintf("Reconcile booking.bookingCurrency (%s) with page.currency (%s)", bookingCur, pageCur))
	}
	return recs
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
