package specparse

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_EmptyContent(t *testing.T) {
	for _, in := range []string{"", "   \n\t"} {
		_, err := Parse(in, FormatAuto)
		assert.ErrorIs(t, err, ErrContentRequired)
	}
}

func TestParse_CSVHeaderAliases(t *testing.T) {
	content := "Variable Name, Data Type ,Definition,Mandatory,Sample Value,Group\n" +
		"pageName,string,Page name,yes,home,page\n" +
		"bookingTotal,decimal,Total price,,199.5,booking\n" +
		",string,ignored row,,,page\n" +
		"isLoggedIn,bool,Login state,X,true,user\n"

	spec, err := Parse(content, FormatAuto)
	require.NoError(t, err)
	require.Len(t, spec.Variables, 3)

	assert.Equal(t, Variable{Name: "pageName", Category: "page", Type: "string", Description: "Page name", Required: true, Example: "home"}, spec.Variables[0])
	assert.Equal(t, "number", spec.Variables[1].Type)
	assert.False(t, spec.Variables[1].Required)
	assert.True(t, spec.Variables[2].Required)
	assert.Equal(t, []string{"page", "booking", "user"}, spec.Categories())
	assert.Equal(t, []string{"page.pageName", "user.isLoggedIn"}, spec.Required())
}

func TestParse_CSVDottedNames(t *testing.T) {
	spec, err := Parse("key,type\nbooking.bookingId,string\nvisitorId,string\n", FormatCSV)
	require.NoError(t, err)
	require.Len(t, spec.Variables, 2)
	assert.Equal(t, "booking", spec.Variables[0].Category)
	assert.Equal(t, "bookingId", spec.Variables[0].Name)
	assert.Equal(t, "", spec.Variables[1].Category)
}

func TestParse_CSVMissingNameColumn(t *testing.T) {
	_, err := Parse("type,description\nstring,foo\n", FormatCSV)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, FormatCSV, pe.Format)
	assert.Equal(t, 1, pe.Line)
	assert.ErrorIs(t, err, ErrNoNameColumn)
}

func TestParse_CSVMalformed(t *testing.T) {
	_, err := Parse("name,type\n\"unterminated,string\n", FormatCSV)
	var pe *ParseError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, FormatCSV, pe.Format)
}

func TestParse_JSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"array", `[{"name":"hotelCode","category":"hotel","type":"string","required":true,"example":"H123"},{"name":"hotel.hotelStarRating","type":"integer","example":4}]`},
		{"wrapped", `{"variables":[{"variable":"hotelCode","category":"hotel","required":"yes","example":"H123"},{"name":"hotel.hotelStarRating","type":"number","example":4}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse(tt.content, FormatAuto)
			require.NoError(t, err)
			require.Len(t, spec.Variables, 2)
			assert.Equal(t, "hotel.hotelCode", spec.Variables[0].Path())
			assert.True(t, spec.Variables[0].Required)
			assert.Equal(t, "hotel.hotelStarRating", spec.Variables[1].Path())
			assert.Equal(t, "number", spec.Variables[1].Type)
			assert.Equal(t, "4", spec.Variables[1].Example)
		})
	}
}

func TestParse_JSONErrors(t *testing.T) {
	_, err := Parse("[\n{\"name\": \"a\",}\n]", FormatJSON)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Line)

	_, err = Parse(`{"fields": []}`, FormatJSON)
	require.True(t, errors.As(err, &pe))

	_, err = Parse(`name,type`, "xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestSkeleton(t *testing.T) {
	spec := &Spec{Variables: []Variable{
		{Category: "page", Name: "pageName", Type: "string", Example: "home"},
		{Category: "booking", Name: "bookingTotal", Type: "number", Example: "199.5"},
		{Category: "booking", Name: "bookingNights", Type: "number"},
		{Category: "user", Name: "isLoggedIn", Type: "boolean", Example: "true"},
		{Category: "search", Name: "searchFilters", Type: "array", Example: "pool, spa"},
		{Name: "tealium_event", Type: "string"},
	}}
	data, err := json.Marshal(spec.Skeleton())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"page": {"pageName": "home"},
		"booking": {"bookingTotal": 199.5, "bookingNights": 0},
		"user": {"isLoggedIn": true},
		"search": {"searchFilters": ["pool", "spa"]},
		"tealium_event": ""
	}`, string(data))
}

func TestMarkdown(t *testing.T) {
	spec, err := Parse("name,type,required,description\npage.pageName,string,yes,Name | title\n", FormatCSV)
	require.NoError(t, err)
	out, err := spec.Markdown()
	require.NoError(t, err)
	assert.Contains(t, out, "## page")
	assert.Contains(t, out, "| `page.pageName` | string | ✓ | Name \\| title |")
	assert.Contains(t, out, "```json")
	assert.Contains(t, out, `"pageName": ""`)
}

func TestNormalizeType(t *testing.T) {
	tests := map[string]string{
		"":          "string",
		"Integer":   "number",
		" BOOL ":    "boolean",
		"object[]":  "array",
		"map":       "object",
		"timestamp": "timestamp",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeType(in), in)
	}
}
