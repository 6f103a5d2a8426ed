package datalayer

import (
	"strconv"
	"strings"
)

// RootPath is how the document root is addressed in findings.
const RootPath = "/"

// Join appends an object key to a path.
func Join(parent, key string) string {
	if parent == "" || parent == RootPath {
		return key
	}
	return parent + "." + key
}

// Index appends an array index to a path.
func Index(parent string, i int) string {
	if parent == RootPath {
		parent = ""
	}
	return parent + "[" + strconv.Itoa(i) + "]"
}

// Display renders an internal path, using "/" for the root.
func Display(path string) string {
	if path == "" {
		return RootPath
	}
	return path
}

// Locate renders a list of location segments (such as a JSON-Schema
// instance location) as a dot/bracket path. A numeric segment becomes an
// index only when the node it addresses is an array in doc.
func Locate(doc Value, segments []string) string {
	var b strings.Builder
	cur := doc
	for _, seg := range segments {
		if cur.Kind() == KindArray {
			if i, err := strconv.Atoi(seg); err == nil {
				b.WriteString("[" + seg + "]")
				items := cur.Items()
				if i >= 0 && i < len(items) {
					cur = items[i]
				} else {
					cur = Value{}
				}
				continue
			}
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg)
		cur = cur.Field(seg)
	}
	return Display(b.String())
}
