// Package datalayer models a Tealium data layer document as a closed set of
// JSON value kinds. Documents are decoded once at the boundary (JSON, YAML or
// an already-decoded Go value) and every checker pattern-matches on Kind.
//
// KindUndefined has no wire form: Decode, DecodeYAML and FromAny on plain Go
// values never produce it. It only appears in values built with Undefined,
// such as data layers assembled in code before they are serialized.
package datalayer

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindAbsent is the zero Value: the key does not exist.
	KindAbsent Kind = iota
	// KindUndefined is an explicit "undefined" sentinel held by a field.
	KindUndefined
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Field is one key/value pair of an object, in document order.
type Field struct {
	Key   string
	Value Value
}

// Value is an immutable data layer node.
type Value struct {
	kind   Kind
	b      bool
	n      float64
	s      string
	items  []Value
	fields []Field
}

// Null returns a JSON null.
func Null() Value { return Value{kind: KindNull} }

// Undefined returns the "undefined" sentinel.
func Undefined() Value { return Value{kind: KindUndefined} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a number. NaN is stored as-is and rejected by IsNumber.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps a list of values.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, items: items}
}

// Object builds an object from fields. A repeated key keeps its first
// position and its last value.
func Object(fields ...Field) Value {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		replaced := false
		for i := range out {
			if out[i].Key == f.Key {
				out[i].Value = f.Value
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, f)
		}
	}
	return Value{kind: KindObject, fields: out}
}

// F is shorthand for building a Field.
func F(key string, v Value) Field { return Field{Key: key, Value: v} }

// Kind reports the variant.
func (v Value) Kind() Kind { return v.kind }

// Exists reports whether the value is present at all.
func (v Value) Exists() bool { return v.kind != KindAbsent }

// IsNullish reports absent, undefined or null.
func (v Value) IsNullish() bool {
	return v.kind == KindAbsent || v.kind == KindUndefined || v.kind == KindNull
}

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the numeric payload. NaN is reported as not a number.
func (v Value) AsNumber() (float64, bool) {
	if v.kind != KindNumber || math.IsNaN(v.n) {
		return 0, false
	}
	return v.n, true
}

// AsString returns the string payload.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// Items returns array elements, or nil for non-arrays.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.items
}

// Fields returns object fields in document order, or nil for non-objects.
func (v Value) Fields() []Field {
	if v.kind != KindObject {
		return nil
	}
	return v.fields
}

// Keys returns object keys in document order.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.fields))
	for _, f := range v.Fields() {
		keys = append(keys, f.Key)
	}
	return keys
}

// Field returns the value stored under key. Missing keys and non-objects
// yield the absent Value.
func (v Value) Field(key string) Value {
	for _, f := range v.Fields() {
		if f.Key == key {
			return f.Value
		}
	}
	return Value{}
}

// Has reports whether an object holds key (even when it holds undefined).
func (v Value) Has(key string) bool {
	return v.Field(key).Exists()
}

// Get resolves a dotted path such as "booking.bookingTotal" or
// "products[0].productId".
func (v Value) Get(path string) Value {
	cur := v
	for _, seg := range splitPath(path) {
		if idx, ok := seg.index(); ok {
			items := cur.Items()
			if idx < 0 || idx >= len(items) {
				return Value{}
			}
			cur = items[idx]
			continue
		}
		cur = cur.Field(seg.name)
		if !cur.Exists() {
			return Value{}
		}
	}
	return cur
}

// Str returns the string at path, or "" when absent or not a string.
func (v Value) Str(path string) string {
	s, _ := v.Get(path).AsString()
	return s
}

// Len returns the number of array items or object fields.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.fields)
	case KindString:
		return len(v.s)
	}
	return 0
}

// TypeName is the runtime type name used in diagnostics: "string",
// "number", "boolean", "object", "array", "null" or "undefined".
func (v Value) TypeName() string {
	if v.kind == KindAbsent {
		return "undefined"
	}
	return v.kind.String()
}

// Display renders a short human-readable form of the value for messages.
func (v Value) Display() string {
	switch v.kind {
	case KindAbsent, KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return FormatNumber(v.n)
	case KindString:
		return strconv.Quote(v.s)
	}
	data, err := v.MarshalJSON()
	if err != nil {
		return v.kind.String()
	}
	return string(data)
}

// FormatNumber prints integers without a fractional part.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 0):
		if n > 0 {
			return "Infinity"
		}
		return "-Infinity"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Interface converts the value to plain Go values (map[string]any, []any,
// float64, string, bool, nil). Undefined object fields are dropped, matching
// JSON serialization.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.items))
		for i, it := range v.items {
			out[i] = it.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.fields))
		for _, f := range v.fields {
			if f.Value.kind == KindUndefined || f.Value.kind == KindAbsent {
				continue
			}
			out[f.Key] = f.Value.Interface()
		}
		return out
	}
	return nil
}

type segment struct {
	name string
	idx  int
	isIx bool
}

func (s segment) index() (int, bool) { return s.idx, s.isIx }

// splitPath turns "a.b[2].c" into a, b, [2], c.
func splitPath(path string) []segment {
	if path == "" || path == "/" {
		return nil
	}
	var segs []segment
	for _, part := range strings.Split(path, ".") {
		for part != "" {
			open := strings.IndexByte(part, '[')
			if open < 0 {
				segs = append(segs, segment{name: part})
				break
			}
			if open > 0 {
				segs = append(segs, segment{name: part[:open]})
			}
			end := strings.IndexByte(part[open:], ']')
			if end < 0 {
				segs = append(segs, segment{name: part[open:]})
				break
			}
			n, err := strconv.Atoi(part[open+1 : open+end])
			if err != nil {
				segs = append(segs, segment{name: part[open : open+end+1]})
			} else {
				segs = append(segs, segment{idx: n, isIx: true})
			}
			part = part[open+end+1:]
		}
	}
	return segs
}
