package schema

// The schema documents are hand-authored constants. Common page/user/event
// definitions are repeated in each document so every schema is
// self-contained when served as a resource.

const standardSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "$id": "tealium://schema/standard",
  "title": "Tealium standard data layer",
  "type": "object",
  "required": ["page"],
  "properties": {
    "page": {
      "type": "object",
      "required": ["pageName"],
      "properties": {
        "pageName": {"type": "string", "minLength": 1},
        "pageType": {"type": "string", "enum": ["home", "category", "product", "search", "hotel", "room", "cart", "checkout", "booking", "confirmation", "account", "content", "error", "other"]},
        "pageCategory": {"type": "string"},
        "siteSection": {"type": "string"},
        "language": {"type": "string", "pattern": "^[a-z]{2}(-[A-Z]{2})?$"},
        "currency": {"type": "string", "pattern": "^[A-Z]{3}$"},
        "country": {"type": "string", "pattern": "^[A-Z]{2}$"},
        "environment": {"type": "string", "enum": ["dev", "staging", "production"]}
      }
    },
    "user": {
      "type": "object",
      "properties": {
        "visitorId": {"type": "string"},
        "userId": {"type": "string"},
        "isLoggedIn": {"type": "boolean"},
        "userType": {"type": "string", "enum": ["guest", "registered", "member"]},
        "loyaltyTier": {"type": "string"}
      }
    },
    "event": {
      "type": "object",
      "required": ["eventName"],
      "properties": {
        "eventName": {"type": "string", "minLength": 1},
        "eventCategory": {"type": "string"},
        "eventAction": {"type": "string"},
        "eventLabel": {"type": "string"},
        "eventValue": {"type": "number"}
      }
    }
  }
}`

const ecommerceSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "$id": "tealium://schema/ecommerce",
  "title": "Tealium e-commerce data layer",
  "type": "object",
  "required": ["page"],
  "definitions": {
    "product": {
      "type": "object",
      "required": ["productId"],
      "properties": {
        "productId": {"type": "string"},
        "productName": {"type": "string"},
        "productCategory": {"type": "string"},
        "productBrand": {"type": "string"},
        "productVariant": {"type": "string"},
        "productPrice": {"type": "number", "minimum": 0},
        "productQuantity": {"type": "integer", "minimum": 1}
      }
    }
  },
  "properties": {
    "page": {
      "type": "object",
      "required": ["pageName"],
      "properties": {
        "pageName": {"type": "string", "minLength": 1},
        "pageType": {"type": "string", "enum": ["home", "category", "product", "search", "cart", "checkout", "confirmation", "account", "content", "error", "other"]},
        "pageCategory": {"type": "string"},
        "siteSection": {"type": "string"},
        "language": {"type": "string", "pattern": "^[a-z]{2}(-[A-Z]{2})?$"},
        "currency": {"type": "string", "pattern": "^[A-Z]{3}$"},
        "country": {"type": "string", "pattern": "^[A-Z]{2}$"}
      }
    },
    "user": {
      "type": "object",
      "properties": {
        "visitorId": {"type": "string"},
        "userId": {"type": "string"},
        "isLoggedIn": {"type": "boolean"}
      }
    },
    "event": {
      "type": "object",
      "required": ["eventName"],
      "properties": {
        "eventName": {"type": "string", "minLength": 1},
        "eventCategory": {"type": "string"},
        "eventValue": {"type": "number"}
      }
    },
    "product": {"$ref": "#/definitions/product"},
    "products": {"type": "array", "items": {"$ref": "#/definitions/product"}},
    "transaction": {
      "type": "object",
      "required": ["transactionId", "transactionTotal"],
      "properties": {
        "transactionId": {"type": "string", "minLength": 1},
        "transactionTotal": {"type": "number", "minimum": 0},
        "transactionTax": {"type": "number", "minimum": 0},
        "transactionShipping": {"type": "number", "minimum": 0},
        "transactionCurrency": {"type": "string", "pattern": "^[A-Z]{3}$"},
        "paymentMethod": {"type": "string"},
        "couponCode": {"type": "string"}
      }
    }
  }
}`

const hotelsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "$id": "tealium://schema/hotels",
  "title": "Tealium hotel booking data layer",
  "type": "object",
  "required": ["page"],
  "properties": {
    "page": {
      "type": "object",
      "required": ["pageName"],
      "properties": {
        "pageName": {"type": "string", "minLength": 1},
        "pageType": {"type": "string", "enum": ["home", "search", "hotel", "room", "checkout", "booking", "confirmation", "account", "content", "error", "other"]},
        "siteSection": {"type": "string"},
        "language": {"type": "string", "pattern": "^[a-z]{2}(-[A-Z]{2})?$"},
        "currency": {"type": "string", "pattern": "^[A-Z]{3}$"},
        "country": {"type": "string", "pattern": "^[A-Z]{2}$"}
      }
    },
    "user": {
      "type": "object",
      "properties": {
        "visitorId": {"type": "string"},
        "userId": {"type": "string"},
        "isLoggedIn": {"type": "boolean"},
        "loyaltyTier": {"type": "string"}
      }
    },
    "event": {
      "type": "object",
      "required": ["eventName"],
      "properties": {
        "eventName": {"type": "string", "minLength": 1},
        "eventCategory": {"type": "string"}
      }
    },
    "search": {
      "type": "object",
      "properties": {
        "searchDestination": {"type": "string", "minLength": 1},
        "searchCheckIn": {"type": "string", "format": "date"},
        "searchCheckOut": {"type": "string", "format": "date"},
        "searchAdults": {"type": "integer", "minimum": 1},
        "searchChildren": {"type": "integer", "minimum": 0},
        "searchRooms": {"type": "integer", "minimum": 1},
        "searchResults": {"type": "integer", "minimum": 0}
      }
    },
    "hotel": {
      "type": "object",
      "required": ["hotelCode"],
      "properties": {
        "hotelCode": {"type": "string", "minLength": 1},
        "hotelName": {"type": "string"},
        "hotelCity": {"type": "string"},
        "hotelCountry": {"type": "string", "pattern": "^[A-Z]{2}$"},
        "hotelChain": {"type": "string"},
        "hotelBrand": {"type": "string"},
        "hotelStarRating": {"type": "number", "minimum": 1, "maximum": 5},
        "hotelAmenities": {"type": "array", "items": {"type": "string"}}
      }
    },
    "room": {
      "type": "object",
      "properties": {
        "roomType": {"type": "string"},
        "roomCode": {"type": "string"},
        "roomName": {"type": "string"},
        "ratePlan": {"type": "string"},
        "roomRate": {"type": "number", "minimum": 0},
        "roomCount": {"type": "integer", "minimum": 1}
      }
    },
    "booking": {
      "type": "object",
      "required": ["bookingId", "bookingCheckIn", "bookingCheckOut", "bookingTotal", "bookingCurrency"],
      "properties": {
        "bookingId": {"type": "string", "minLength": 1},
        "bookingStatus": {"type": "string", "enum": ["pending", "confirmed", "cancelled", "completed"]},
        "bookingCheckIn": {"type": "string", "format": "date"},
        "bookingCheckOut": {"type": "string", "format": "date"},
        "bookingNights": {"type": "integer", "minimum": 1},
        "bookingTotal": {"type": "number", "minimum": 0},
        "bookingTaxes": {"type": "number", "minimum": 0},
        "bookingFees": {"type": "number", "minimum": 0},
        "bookingCurrency": {"type": "string", "pattern": "^[A-Z]{3}$"},
        "bookingGuests": {"type": "integer", "minimum": 1},
        "paymentMethod": {"type": "string"}
      }
    },
    "guest": {
      "type": "object",
      "properties": {
        "guestType": {"type": "string", "enum": ["leisure", "business", "group"]},
        "guestCountry": {"type": "string", "pattern": "^[A-Z]{2}$"},
        "guestCount": {"type": "integer", "minimum": 1},
        "loyaltyMember": {"type": "boolean"},
        "loyaltyId": {"type": "string"},
        "loyaltyTier": {"type": "string"},
        "loyaltyPoints": {"type": "integer", "minimum": 0}
      }
    }
  }
}`

// Definitions maps schema URIs to their JSON documents.
var Definitions = map[string]string{
	URIPrefix + Standard:  standardSchema,
	URIPrefix + Ecommerce: ecommerceSchema,
	URIPrefix + Hotels:    hotelsSchema,
}

// Document returns the raw JSON of a schema by identifier or URI.
func Document(id string) (string, bool) {
	doc, ok := Definitions[URI(id)]
	return doc, ok
}
