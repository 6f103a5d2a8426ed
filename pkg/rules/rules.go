// Package rules implements the Tealium business-rule checks: value hygiene,
// ISO code formats, PII detection, price typing and hotel booking
// consistency. Every check runs; findings are concatenated in rule order.
package rules

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rechedev9/tealium-mcp-server/pkg/datalayer"
	"github.com/rechedev9/tealium-mcp-server/pkg/schema"
)

var (
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	languagePattern = regexp.MustCompile(`^[a-z]{2}(-[A-Z]{2})?$`)
	isoDatePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	leadingNumber   = regexp.MustCompile(`^\s*[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`)
)

// Findings is the output of the business-rule validator.
type Findings struct {
	Errors      []schema.ValidationError
	Warnings    []schema.ValidationWarning
	Suggestions []string
}

func (f *Findings) add(o Findings) {
	f.Errors = append(f.Errors, o.Errors...)
	f.Warnings = append(f.Warnings, o.Warnings...)
	f.Suggestions = append(f.Suggestions, o.Suggestions...)
}

// priceFields hold monetary amounts that must be numbers.
var priceFields = []string{
	"product.productPrice",
	"transaction.transactionTotal",
	"booking.bookingTotal",
	"booking.bookingTaxes",
	"booking.bookingFees",
}

var dateFields = []string{
	"search.searchCheckIn",
	"search.searchCheckOut",
	"booking.bookingCheckIn",
	"booking.bookingCheckOut",
}

// Validate runs every business rule over doc. Callers only invoke it for
// documents satisfying datalayer.CheckDataLayer.
func Validate(doc datalayer.Value) Findings {
	var out Findings

	// R1: page.pageName present and non-empty
	out.add(checkPageName(doc))

	// R2: undefined sentinels and stringified nulls
	out.add(checkUndefined(doc))
	out.add(checkStringifiedNulls(doc))

	// R3, R4: ISO currency and language codes
	out.add(checkCurrency(doc))
	out.add(checkLanguage(doc))

	// R5: PII in string values
	out.add(checkPII(doc))

	// R6: prices sent as strings
	out.add(checkPriceTypes(doc))

	// R7: booking consistency
	if booking := doc.Field(datalayer.ObjectBooking); datalayer.IsRecord(booking) {
		out.add(checkBooking(booking))
	}

	// R8: hotel star rating range
	if hotel := doc.Field(datalayer.ObjectHotel); datalayer.IsRecord(hotel) {
		out.add(checkStarRating(hotel))
	}

	// R9: ISO date format
	out.add(checkDateFormats(doc))

	// R10: advisory suggestions
	out.add(suggest(doc))

	return out
}

func checkPageName(doc datalayer.Value) Findings {
	v := doc.Get("page.pageName")
	if s, ok := v.AsString(); v.IsNullish() || (ok && s == "") {
		e := schema.ValidationError{
			Path:     "page.pageName",
			Message:  "page.pageName is required and must not be empty",
			Expected: "non-empty string",
		}
		if v.Exists() {
			e.Value = v.Interface()
		}
		return Findings{Errors: []schema.ValidationError{e}}
	}
	return Findings{}
}

func checkUndefined(doc datalayer.Value) Findings {
	var out Findings
	walk(doc, "", "", func(path, _ string, v datalayer.Value) {
		if v.Kind() == datalayer.KindUndefined {
			out.Errors = append(out.Errors, schema.ValidationError{
				Path:     path,
				Message:  "Variable is undefined, this may cause tracking issues",
				Expected: "a defined value, or remove the field",
			})
		}
	})
	return out
}

func checkStringifiedNulls(doc datalayer.Value) Findings {
	var out Findings
	walk(doc, "", "", func(path, _ string, v datalayer.Value) {
		s, ok := v.AsString()
		if !ok {
			return
		}
		switch strings.ToLower(s) {
		case "undefined", "null", "nan":
			out.Errors = append(out.Errors, schema.ValidationError{
				Path:     path,
				Message:  fmt.Sprintf("Stringified null value %q: use a real null or remove the field", s),
				Value:    s,
				Expected: "null or field removal",
			})
		}
	})
	return out
}

func checkCurrency(doc datalayer.Value) Findings {
	v := doc.Get("page.currency")
	if v.IsNullish() {
		return Findings{}
	}
	if s, ok := v.AsString(); ok && currencyPattern.MatchString(s) {
		return Findings{}
	}
	return Findings{Warnings: []schema.ValidationWarning{{
		Path:       "page.currency",
		Message:    fmt.Sprintf("Currency %s is not an ISO 4217 code", v.Display()),
		Suggestion: "Use uppercase ISO 4217 codes such as USD, EUR or GBP",
	}}}
}

func checkLanguage(doc datalayer.Value) Findings {
	v := doc.Get("page.language")
	if v.IsNullish() {
		return Findings{}
	}
	if s, ok := v.AsString(); ok && languagePattern.MatchString(s) {
		return Findings{}
	}
	return Findings{Warnings: []schema.ValidationWarning{{
		Path:       "page.language",
		Message:    fmt.Sprintf("Language %s is not an ISO 639-1 code", v.Display()),
		Suggestion: `Use codes such as "en" or "en-US"`,
	}}}
}

func checkPriceTypes(doc datalayer.Value) Findings {
	var out Findings
	for _, path := range priceFields {
		s, ok := doc.Get(path).AsString()
		if !ok {
			continue
		}
		out.Warnings = append(out.Warnings, schema.ValidationWarning{
			Path:       path,
			Message:    fmt.Sprintf("Price %q is a string, numeric fields should be numbers", s),
			Suggestion: "Use a number: " + datalayer.FormatNumber(ParseAmount(s)),
		})
	}
	return out
}

// ParseAmount parses the leading number of s; non-numeric input yields 0.
func ParseAmount(s string) float64 {
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil {
		return 0
	}
	return f
}

func checkBooking(booking datalayer.Value) Findings {
	var out Findings

	checkIn, inOK := datalayer.ParseDate(booking.Field("bookingCheckIn"))
	checkOut, outOK := datalayer.ParseDate(booking.Field("bookingCheckOut"))
	if inOK && outOK {
		if !checkOut.After(checkIn) {
			out.Errors = append(out.Errors, schema.ValidationError{
				Path:     "booking.bookingCheckOut",
				Message:  "Check-out date must be after check-in date",
				Value:    booking.Field("bookingCheckOut").Interface(),
				Expected: "a date after " + checkIn.Format(datalayer.DateLayout),
			})
		} else if n, ok := booking.Field("bookingNights").AsNumber(); ok {
			want := Nights(checkIn, checkOut)
			if n != float64(want) {
				out.Warnings = append(out.Warnings, schema.ValidationWarning{
					Path:       "booking.bookingNights",
					Message:    fmt.Sprintf("bookingNights is %s but the stay is %d night(s)", datalayer.FormatNumber(n), want),
					Suggestion: fmt.Sprintf("Set bookingNights to %d", want),
				})
			}
		}
	}

	if s, _ := booking.Field("bookingCurrency").AsString(); s == "" {
		out.Errors = append(out.Errors, schema.ValidationError{
			Path:     "booking.bookingCurrency",
			Message:  "bookingCurrency is required when a booking is present",
			Expected: "ISO 4217 currency code",
		})
	}
	return out
}

// Nights is the number of calendar nights between two dates, rounded up.
func Nights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

func checkStarRating(hotel datalayer.Value) Findings {
	n, ok := hotel.Field("hotelStarRating").AsNumber()
	if !ok || (n >= 1 && n <= 5) {
		return Findings{}
	}
	return Findings{Warnings: []schema.ValidationWarning{{
		Path:       "hotel.hotelStarRating",
		Message:    fmt.Sprintf("Star rating %s is outside the 1-5 range", datalayer.FormatNumber(n)),
		Suggestion: "Use a rating between 1 and 5",
	}}}
}

func checkDateFormats(doc datalayer.Value) Findings {
	var out Findings
	for _, path := range dateFields {
		v := doc.Get(path)
		if v.IsNullish() {
			continue
		}
		if s, ok := v.AsString(); ok && isoDatePattern.MatchString(s) {
			continue
		}
		out.Warnings = append(out.Warnings, schema.ValidationWarning{
			Path:       path,
			Message:    fmt.Sprintf("Date %s is not in ISO format YYYY-MM-DD", v.Display()),
			Suggestion: "Use YYYY-MM-DD, for example 2024-03-10",
		})
	}
	return out
}

func suggest(doc datalayer.Value) Findings {
	var out Findings
	if doc.Get("user.visitorId").IsNullish() && doc.Get("user.userId").IsNullish() {
		out.Suggestions = append(out.Suggestions, "Add user.visitorId so visits can be stitched across sessions")
	}
	if event := doc.Field(datalayer.ObjectEvent); datalayer.IsRecord(event) && event.Str("eventCategory") == "" {
		out.Suggestions = append(out.Suggestions, "Add event.eventCategory to group events in reports")
	}
	return out
}

// walk visits every node below v (objects and arrays), passing the node's
// path and the nearest object key.
func walk(v datalayer.Value, path, key string, fn func(path, key string, v datalayer.Value)) {
	switch v.Kind() {
	case datalayer.KindObject:
		for _, f := range v.Fields() {
			p := datalayer.Join(path, f.Key)
			fn(p, f.Key, f.Value)
			walk(f.Value, p, f.Key, fn)
		}
	case datalayer.KindArray:
		for i, it := range v.Items() {
			p := datalayer.Index(path, i)
			fn(p, key, it)
			walk(it, p, key, fn)
		}
	}
}

// piiExemptKeys carry identifiers that legitimately look like PII.
var piiExemptKeys = []string{"userId", "visitorId", "bookingId", "transactionId"}

var piiPatterns = []struct {
	category string
	re       *regexp.Regexp
}{
	{"email address", regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)},
	{"phone number", regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`)},
	{"credit card number", regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`)},
}

func checkPII(doc datalayer.Value) Findings {
	var out Findings
	walk(doc, "", "", func(path, key string, v datalayer.Value) {
		s, ok := v.AsString()
		if !ok || slices.Contains(piiExemptKeys, key) {
			return
		}
		for _, p := range piiPatterns {
			if p.re.MatchString(s) {
				out.Warnings = append(out.Warnings, schema.ValidationWarning{
					Path:       path,
					Message:    fmt.Sprintf("Possible PII detected (%s)", p.category),
					Suggestion: "Remove or hash personal data before it reaches analytics",
				})
			}
		}
	})
	return out
}
