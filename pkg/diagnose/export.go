package diagnose

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"

	"github.com/rechedev9/tealium-mcp-server/pkg/datalayer"
	"github.com/rechedev9/tealium-mcp-server/pkg/schema"
)

var valueType = reflect.TypeOf(datalayer.Value{})

// GenerateResultJSONSchema produces a JSON Schema document describing the
// Result returned by the debug tool.
func GenerateResultJSONSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == valueType {
				return &jsonschema.Schema{
					Type:        "object",
					Description: "The data layer that was diagnosed",
				}
			}
			return nil
		},
	}

	s := r.Reflect(&Result{})
	s.ID = schema.URIPrefix + "debug-result"
	s.Title = "Tealium data layer debug result"
	s.Description = "Severity-graded issues, missing variables and type mismatches found in a data layer"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal debug result schema: %w", err)
	}
	return data, nil
}
