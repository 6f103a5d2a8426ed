package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateResultJSONSchema produces a JSON Schema document describing the
// ValidationResult returned by the validate tool, using invopop/jsonschema.
func GenerateResultJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&ValidationResult{})
	s.ID = URIPrefix + "validation-result"
	s.Title = "Tealium data layer validation result"
	s.Description = "Merged output of schema, business-rule and naming validation"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result schema: %w", err)
	}
	return data, nil
}
