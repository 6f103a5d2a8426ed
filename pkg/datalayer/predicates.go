package datalayer

import (
	"errors"
	"fmt"
)

// ErrNotObject is returned when a document is not a key/value record.
var ErrNotObject = errors.New("data layer must be an object")

// ShapeError describes the first structural mismatch found by a Check function.
type ShapeError struct {
	Path string
	Want string
	Got  string
}

func (e *ShapeError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("%s: missing required %s", Display(e.Path), e.Want)
	}
	return fmt.Sprintf("%s: expected %s, got %s", Display(e.Path), e.Want, e.Got)
}

// IsRecord reports whether v is an object. Null and arrays are not records.
func IsRecord(v Value) bool { return v.Kind() == KindObject }

// IsString reports whether v is a string.
func IsString(v Value) bool { return v.Kind() == KindString }

// IsNumber reports whether v is a number other than NaN.
func IsNumber(v Value) bool {
	_, ok := v.AsNumber()
	return ok
}

// IsBool reports whether v is a boolean.
func IsBool(v Value) bool { return v.Kind() == KindBool }

// IsArray reports whether v is an array.
func IsArray(v Value) bool { return v.Kind() == KindArray }

// IsStringArray reports whether v is an array holding only strings.
func IsStringArray(v Value) bool {
	if !IsArray(v) {
		return false
	}
	for _, it := range v.Items() {
		if !IsString(it) {
			return false
		}
	}
	return true
}

// MatchesType checks v against a dictionary type name.
func MatchesType(v Value, typ string) bool {
	switch typ {
	case TypeString:
		return IsString(v)
	case TypeNumber:
		return IsNumber(v)
	case TypeBoolean:
		return IsBool(v)
	case TypeStringArray:
		return IsStringArray(v)
	case TypeObjectArray:
		if !IsArray(v) {
			return false
		}
		for _, it := range v.Items() {
			if !IsRecord(it) {
				return false
			}
		}
		return true
	}
	return false
}

// CheckDataLayer is the minimal domain shape every checker requires.
func CheckDataLayer(v Value) error {
	if !IsRecord(v) {
		return fmt.Errorf("%w, got %s", ErrNotObject, v.TypeName())
	}
	return nil
}

// IsDataLayer reports whether v satisfies CheckDataLayer.
func IsDataLayer(v Value) bool { return CheckDataLayer(v) == nil }

// CheckObject validates a recognized object (page, booking, ...) against the
// dictionary: required variables present and every known variable, when set
// to something other than null, of the expected type.
func CheckObject(object string, v Value) error {
	return checkObjectAt(object, object, v)
}

func checkObjectAt(object, path string, v Value) error {
	if !IsRecord(v) {
		return &ShapeError{Path: path, Want: "object", Got: v.TypeName()}
	}
	for _, def := range VariablesOf(object) {
		field := v.Field(def.Name)
		fieldPath := Join(path, def.Name)
		if field.IsNullish() {
			if def.Required {
				return &ShapeError{Path: fieldPath, Want: def.Type}
			}
			continue
		}
		if !MatchesType(field, def.Type) {
			return &ShapeError{Path: fieldPath, Want: def.Type, Got: field.TypeName()}
		}
	}
	return nil
}

// CheckProducts validates a products array: every entry is a product.
func CheckProducts(v Value) error {
	if !IsArray(v) {
		return &ShapeError{Path: ObjectProducts, Want: "array", Got: v.TypeName()}
	}
	for i, it := range v.Items() {
		if err := checkObjectAt(ObjectProduct, Index(ObjectProducts, i), it); err != nil {
			return err
		}
	}
	return nil
}

// IsObject reports whether v is a valid instance of the named object: a
// record whose required variables are present and whose known variables
// carry their dictionary types. It never fails; use CheckObject for the
// reason.
func IsObject(object string, v Value) bool { return CheckObject(object, v) == nil }
