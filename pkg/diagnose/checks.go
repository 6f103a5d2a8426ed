package diagnose

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/rechedev9/tealium-mcp-server/pkg/datalayer"
)

// expectedTypes is the fixed table of paths checked for type mismatches.
var expectedTypes = []struct {
	path string
	typ  string
}{
	{"page.pageName", datalayer.TypeString},
	{"page.pageType", datalayer.TypeString},
	{"page.language", datalayer.TypeString},
	{"page.currency", datalayer.TypeString},
	{"user.visitorId", datalayer.TypeString},
	{"user.userId", datalayer.TypeString},
	{"user.isLoggedIn", datalayer.TypeBoolean},
	{"event.eventName", datalayer.TypeString},
	{"event.eventValue", datalayer.TypeNumber},
	{"product.productPrice", datalayer.TypeNumber},
	{"product.productQuantity", datalayer.TypeNumber},
	{"transaction.transactionTotal", datalayer.TypeNumber},
	{"search.searchAdults", datalayer.TypeNumber},
	{"hotel.hotelStarRating", datalayer.TypeNumber},
	{"booking.bookingTotal", datalayer.TypeNumber},
	{"booking.bookingNights", datalayer.TypeNumber},
	{"guest.loyaltyMember", datalayer.TypeBoolean},
}

// scanEmptyValues flags empty strings, nulls and empty arrays at any depth.
func scanEmptyValues(doc datalayer.Value) findings {
	var f findings
	var visit func(v datalayer.Value, path string)
	visit = func(v datalayer.Value, path string) {
		switch v.Kind() {
		case datalayer.KindObject:
			for _, fld := range v.Fields() {
				p := datalayer.Join(path, fld.Key)
				inspectEmpty(&f, fld.Value, p)
				visit(fld.Value, p)
			}
		case datalayer.KindArray:
			for i, it := range v.Items() {
				p := datalayer.Index(path, i)
				inspectEmpty(&f, it, p)
				visit(it, p)
			}
		}
	}
	visit(doc, "")
	return f
}

func inspectEmpty(f *findings, v datalayer.Value, path string) {
	switch v.Kind() {
	case datalayer.KindString:
		if s, _ := v.AsString(); s == "" {
			f.issue(SeverityWarning, path, "Empty string value",
				"Populate empty variables before the tag fires or omit them")
		}
	case datalayer.KindNull:
		f.issue(SeverityInfo, path, "Null value",
			"Confirm null values are intentional; omit variables that have no value")
	case datalayer.KindArray:
		if v.Len() == 0 {
			f.issue(SeverityInfo, path, "Empty array",
				"Omit empty arrays or populate them before the tag fires")
		}
	}
}

// checkTypes compares the fixed expected-type table against the document.
// Absent and null values are skipped.
func checkTypes(doc datalayer.Value) findings {
	var f findings
	for _, et := range expectedTypes {
		v := doc.Get(et.path)
		if v.IsNullish() || datalayer.MatchesType(v, et.typ) {
			continue
		}
		actual := v.TypeName()
		if v.Kind() == datalayer.KindNumber && et.typ == datalayer.TypeNumber {
			actual = "NaN"
		}
		f.mismatches = append(f.mismatches, TypeMismatch{Path: et.path, Expected: et.typ, Actual: actual})
		f.issue(SeverityError, et.path,
			fmt.Sprintf("Type mismatch: expected %s, got %s", et.typ, actual),
			fmt.Sprintf("Send %s as a %s", et.path, et.typ))
	}
	return f
}

// inferMissing applies the domain heuristics for absent variables.
func inferMissing(doc datalayer.Value) findings {
	var f findings

	if !doc.Has(datalayer.ObjectPage) {
		f.missing = append(f.missing, datalayer.ObjectPage)
		f.issue(SeverityError, datalayer.ObjectPage, "Missing page object",
			"Add a page object with at least pageName and pageType")
	}
	if !doc.Has(datalayer.ObjectUser) {
		f.missing = append(f.missing, datalayer.ObjectUser)
		f.issue(SeverityWarning, datalayer.ObjectUser, "Missing user object",
			"Add a user object with visitorId and login state")
	}
	if doc.Get("user.visitorId").IsNullish() && doc.Get("user.userId").IsNullish() {
		f.missing = append(f.missing, "user.visitorId")
		f.issue(SeverityWarning, "user.visitorId", "No visitor or user identifier",
			"Set user.visitorId (or user.userId for authenticated users)")
	}

	if datalayer.IsRecord(doc.Field(datalayer.ObjectBooking)) {
		if doc.Get("hotel.hotelCode").IsNullish() {
			f.missing = append(f.missing, "hotel.hotelCode")
			f.issue(SeverityWarning, "hotel.hotelCode", "Booking without hotel.hotelCode",
				"Add hotel.hotelCode so bookings can be attributed to a property")
		}
		if doc.Str("booking.bookingCurrency") == "" {
			f.missing = append(f.missing, "booking.bookingCurrency")
			f.issue(SeverityError, "booking.bookingCurrency", "Booking currency is empty or missing",
				"Set booking.bookingCurrency to an ISO 4217 code")
		}
	}

	if datalayer.IsRecord(doc.Field(datalayer.ObjectSearch)) &&
		doc.Str("search.searchDestination") == "" &&
		!doc.Has(datalayer.ObjectHotel) {
		f.missing = append(f.missing, "search.searchDestination")
		f.issue(SeverityInfo, "search.searchDestination", "Ambiguous search context: no destination and no hotel",
			"Add search.searchDestination or a hotel object to the search page")
	}
	return f
}

// inferShapes checks every recognized object present in doc against the
// variable dictionary. A missing required variable is recorded as missing;
// a mistyped one becomes a recommendation.
func inferShapes(doc datalayer.Value) findings {
	var f findings
	for _, obj := range datalayer.Objects {
		v := doc.Field(obj)
		if !v.Exists() || datalayer.IsObject(obj, v) {
			continue
		}
		f.shape(datalayer.CheckObject(obj, v))
	}
	if products := doc.Field(datalayer.ObjectProducts); products.Exists() {
		f.shape(datalayer.CheckProducts(products))
	}
	return f
}

func (f *findings) shape(err error) {
	var se *datalayer.ShapeError
	if !errors.As(err, &se) {
		return
	}
	if se.Got == "" {
		f.missing = append(f.missing, se.Path)
		f.recommendations = append(f.recommendations, fmt.Sprintf("Add %s, it is required on that object", se.Path))
		return
	}
	f.recommendations = append(f.recommendations, fmt.Sprintf("Send %s as %s, not %s", se.Path, se.Want, se.Got))
}

func checkEventNames(doc datalayer.Value) findings {
	var f findings
	event := doc.Field(datalayer.ObjectEvent)
	if !datalayer.IsRecord(event) {
		return f
	}
	if name, ok := event.Field("eventName").AsString(); ok {
		if strings.ContainsFunc(name, unicode.IsSpace) {
			f.issue(SeverityWarning, "event.eventName",
				fmt.Sprintf("Event name %q contains spaces", name),
				"Use snake_case or dot.notation for event names")
		}
		if strings.ContainsFunc(name, unicode.IsUpper) {
			f.issue(SeverityInfo, "event.eventName",
				fmt.Sprintf("Event name %q contains uppercase characters", name),
				"Use lowercase event names for consistent reporting")
		}
	}
	if event.Str("eventCategory") == "" {
		f.recommendations = append(f.recommendations, "Add event.eventCategory to group events in reports")
	}
	return f
}

// checkBookingFunnel cross-checks booking fields against the hotel context
// and the reference date.
func checkBookingFunnel(doc datalayer.Value, now time.Time) findings {
	var f findings
	booking := doc.Field(datalayer.ObjectBooking)
	if !datalayer.IsRecord(booking) {
		return f
	}

	if !booking.Field("bookingId").IsNullish() && !doc.Has(datalayer.ObjectHotel) {
		f.issue(SeverityError, datalayer.ObjectHotel, "Booking present without a hotel object",
			"Include the hotel object on booking pages")
	}

	checkIn, inOK := datalayer.ParseDate(booking.Field("bookingCheckIn"))
	checkOut, outOK := datalayer.ParseDate(booking.Field("bookingCheckOut"))
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if inOK && checkIn.Before(today) && booking.Str("bookingStatus") != "completed" {
		f.issue(SeverityWarning, "booking.bookingCheckIn",
			"Check-in date is in the past but the booking is not completed",
			"Verify bookingCheckIn and bookingStatus are populated from the live booking")
	}
	if inOK && outOK && checkOut.Before(checkIn) {
		f.issue(SeverityError, "booking.bookingCheckOut", "Check-out date is before check-in date",
			"Make sure bookingCheckIn and bookingCheckOut are not swapped")
	}
	if n, ok := booking.Field("bookingTotal").AsNumber(); ok && n == 0 {
		f.issue(SeverityWarning, "booking.bookingTotal", "Booking total is zero",
			"Confirm bookingTotal is populated after pricing is resolved")
	}
	return f
}
