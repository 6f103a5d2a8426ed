package datalayer

import "time"

// DateLayout is the ISO calendar date layout of check-in and check-out
// variables.
const DateLayout = "2006-01-02"

// ParseDate reads a YYYY-MM-DD string value. Anything else reports false.
func ParseDate(v Value) (time.Time, bool) {
	s, ok := v.AsString()
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
