package datalayer

// Type names used by the variable dictionary.
const (
	TypeString      = "string"
	TypeNumber      = "number"
	TypeBoolean     = "boolean"
	TypeStringArray = "string[]"
	TypeObjectArray = "object[]"
)

// Recognized top-level objects.
const (
	ObjectPage        = "page"
	ObjectUser        = "user"
	ObjectEvent       = "event"
	ObjectProduct     = "product"
	ObjectProducts    = "products"
	ObjectTransaction = "transaction"
	ObjectSearch      = "search"
	ObjectHotel       = "hotel"
	ObjectRoom        = "room"
	ObjectBooking     = "booking"
	ObjectGuest       = "guest"
)

// Variable describes one known data layer variable.
type Variable struct {
	Object      string
	Name        string
	Type        string
	Required    bool
	Description string
	Example     string
}

// Path returns the dotted path of the variable.
func (v Variable) Path() string { return Join(v.Object, v.Name) }

// Objects lists the recognized objects in documentation order. "products"
// is an array of product objects and has no entries of its own.
var Objects = []string{
	ObjectPage, ObjectUser, ObjectEvent, ObjectProduct, ObjectTransaction,
	ObjectSearch, ObjectHotel, ObjectRoom, ObjectBooking, ObjectGuest,
}

// Dictionary is the fixed catalogue of known variables.
var Dictionary = []Variable{
	{ObjectPage, "pageName", TypeString, true, "Unique, human-readable name of the page", "home:landing"},
	{ObjectPage, "pageType", TypeString, false, "Template type of the page (home, search, hotel, booking, ...)", "hotel"},
	{ObjectPage, "pageCategory", TypeString, false, "Content category of the page", "rooms"},
	{ObjectPage, "siteSection", TypeString, false, "Top-level site section", "hotels"},
	{ObjectPage, "language", TypeString, false, "Page language as ISO 639-1 code, optionally with region", "en-US"},
	{ObjectPage, "currency", TypeString, false, "Display currency as ISO 4217 code", "USD"},
	{ObjectPage, "country", TypeString, false, "Site country as ISO 3166-1 alpha-2 code", "US"},
	{ObjectPage, "environment", TypeString, false, "Deployment environment (dev, staging, production)", "production"},

	{ObjectUser, "visitorId", TypeString, false, "Anonymous visitor identifier", "v-123456"},
	{ObjectUser, "userId", TypeString, false, "Authenticated user identifier (never an email address)", "u-98765"},
	{ObjectUser, "isLoggedIn", TypeBoolean, false, "Whether the visitor is authenticated", "true"},
	{ObjectUser, "userType", TypeString, false, "Visitor classification (guest, registered, member)", "member"},
	{ObjectUser, "loyaltyTier", TypeString, false, "Loyalty programme tier of the user", "gold"},

	{ObjectEvent, "eventName", TypeString, true, "Event name in snake_case or dot.notation", "booking_complete"},
	{ObjectEvent, "eventCategory", TypeString, false, "Event category used for reporting", "booking"},
	{ObjectEvent, "eventAction", TypeString, false, "Action performed", "submit"},
	{ObjectEvent, "eventLabel", TypeString, false, "Free-form event label", "step 3"},
	{ObjectEvent, "eventValue", TypeNumber, false, "Numeric value attached to the event", "1"},

	{ObjectProduct, "productId", TypeString, true, "Product SKU or identifier", "SKU-001"},
	{ObjectProduct, "productName", TypeString, false, "Product display name", "Deluxe King Room"},
	{ObjectProduct, "productCategory", TypeString, false, "Product category", "rooms"},
	{ObjectProduct, "productBrand", TypeString, false, "Product brand", "Acme Hotels"},
	{ObjectProduct, "productVariant", TypeString, false, "Product variant", "sea view"},
	{ObjectProduct, "productPrice", TypeNumber, false, "Unit price as a number", "199.99"},
	{ObjectProduct, "productQuantity", TypeNumber, false, "Quantity as an integer", "1"},

	{ObjectTransaction, "transactionId", TypeString, true, "Order or transaction identifier", "T-1001"},
	{ObjectTransaction, "transactionTotal", TypeNumber, false, "Order total as a number", "399.98"},
	{ObjectTransaction, "transactionTax", TypeNumber, false, "Tax amount", "32.00"},
	{ObjectTransaction, "transactionShipping", TypeNumber, false, "Shipping amount", "0"},
	{ObjectTransaction, "transactionCurrency", TypeString, false, "Transaction currency as ISO 4217 code", "USD"},
	{ObjectTransaction, "paymentMethod", TypeString, false, "Payment method", "credit_card"},
	{ObjectTransaction, "couponCode", TypeString, false, "Applied coupon code", "SUMMER10"},

	{ObjectSearch, "searchTerm", TypeString, false, "Free-text search term", "beach resort"},
	{ObjectSearch, "searchDestination", TypeString, false, "Searched destination", "Barcelona"},
	{ObjectSearch, "searchCheckIn", TypeString, false, "Requested check-in date (YYYY-MM-DD)", "2024-03-10"},
	{ObjectSearch, "searchCheckOut", TypeString, false, "Requested check-out date (YYYY-MM-DD)", "2024-03-15"},
	{ObjectSearch, "searchAdults", TypeNumber, false, "Number of adults", "2"},
	{ObjectSearch, "searchChildren", TypeNumber, false, "Number of children", "0"},
	{ObjectSearch, "searchRooms", TypeNumber, false, "Number of rooms", "1"},
	{ObjectSearch, "searchResults", TypeNumber, false, "Number of results returned", "42"},

	{ObjectHotel, "hotelCode", TypeString, true, "Property code", "BCN01"},
	{ObjectHotel, "hotelName", TypeString, false, "Property name", "Hotel Barcelona Centre"},
	{ObjectHotel, "hotelCity", TypeString, false, "Property city", "Barcelona"},
	{ObjectHotel, "hotelCountry", TypeString, false, "Property country as ISO 3166-1 alpha-2 code", "ES"},
	{ObjectHotel, "hotelChain", TypeString, false, "Hotel chain", "Acme Hotels"},
	{ObjectHotel, "hotelBrand", TypeString, false, "Hotel brand", "Acme Premium"},
	{ObjectHotel, "hotelStarRating", TypeNumber, false, "Star rating between 1 and 5", "4"},
	{ObjectHotel, "hotelAmenities", TypeStringArray, false, "List of amenity codes", "[\"wifi\",\"pool\"]"},

	{ObjectRoom, "roomType", TypeString, false, "Room type", "double"},
	{ObjectRoom, "roomCode", TypeString, false, "Room code", "DBL-SV"},
	{ObjectRoom, "roomName", TypeString, false, "Room display name", "Double Sea View"},
	{ObjectRoom, "ratePlan", TypeString, false, "Rate plan code", "BAR"},
	{ObjectRoom, "roomRate", TypeNumber, false, "Nightly rate as a number", "149"},
	{ObjectRoom, "roomCount", TypeNumber, false, "Number of rooms booked", "1"},

	{ObjectBooking, "bookingId", TypeString, true, "Booking confirmation identifier", "BK-2024-0001"},
	{ObjectBooking, "bookingStatus", TypeString, false, "Booking status (pending, confirmed, cancelled, completed)", "confirmed"},
	{ObjectBooking, "bookingCheckIn", TypeString, false, "Check-in date (YYYY-MM-DD)", "2024-03-10"},
	{ObjectBooking, "bookingCheckOut", TypeString, false, "Check-out date (YYYY-MM-DD)", "2024-03-15"},
	{ObjectBooking, "bookingNights", TypeNumber, false, "Number of nights, equal to check-out minus check-in", "5"},
	{ObjectBooking, "bookingTotal", TypeNumber, false, "Booking total as a number", "745.00"},
	{ObjectBooking, "bookingTaxes", TypeNumber, false, "Taxes as a number", "74.50"},
	{ObjectBooking, "bookingFees", TypeNumber, false, "Fees as a number", "10.00"},
	{ObjectBooking, "bookingCurrency", TypeString, false, "Booking currency as ISO 4217 code", "EUR"},
	{ObjectBooking, "bookingGuests", TypeNumber, false, "Number of guests", "2"},
	{ObjectBooking, "paymentMethod", TypeString, false, "Payment method", "credit_card"},

	{ObjectGuest, "guestType", TypeString, false, "Guest classification (leisure, business, group)", "leisure"},
	{ObjectGuest, "guestCountry", TypeString, false, "Guest country as ISO 3166-1 alpha-2 code", "GB"},
	{ObjectGuest, "guestCount", TypeNumber, false, "Number of guests in the party", "2"},
	{ObjectGuest, "loyaltyMember", TypeBoolean, false, "Whether the guest belongs to the loyalty programme", "true"},
	{ObjectGuest, "loyaltyId", TypeString, false, "Loyalty programme identifier", "L-5555"},
	{ObjectGuest, "loyaltyTier", TypeString, false, "Loyalty tier", "gold"},
	{ObjectGuest, "loyaltyPoints", TypeNumber, false, "Loyalty point balance", "12000"},
}

// Lookup finds a dictionary entry by dotted path.
func Lookup(path string) (Variable, bool) {
	for _, v := range Dictionary {
		if v.Path() == path {
			return v, true
		}
	}
	return Variable{}, false
}

// VariablesOf returns the dictionary entries of one object.
func VariablesOf(object string) []Variable {
	var out []Variable
	for _, v := range Dictionary {
		if v.Object == object {
			out = append(out, v)
		}
	}
	return out
}
