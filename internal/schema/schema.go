// Package schema publishes the JSON Schema of the analytics snapshot, so the
// data collector can validate what it produces before ingest.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"

	"github.com/rewired-gh/teamwrapped/internal/models"
)

var (
	histogramType       = reflect.TypeOf(models.Histogram{})
	momentType          = reflect.TypeOf(models.MomentType(0))
	captionPositionType = reflect.TypeOf(models.CaptionPosition(""))
)

// Snapshot returns the indented JSON Schema of models.Snapshot.
func Snapshot() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
		Mapper:                     mapType,
	}

	s := reflector.Reflect(&models.Snapshot{})
	s.Title = "teamwrapped analytics snapshot"

	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return out, nil
}

// mapType describes types whose JSON form differs from their Go shape.
func mapType(t reflect.Type) *jsonschema.Schema {
	switch t {
	case histogramType:
		return &jsonschema.Schema{
			Type:                 "object",
			Description:          "Occurrence counts by key, in ranking tie-break order",
			AdditionalProperties: &jsonschema.Schema{Type: "integer", Minimum: json.Number("0")},
		}
	case momentType:
		enum := make([]any, len(models.MomentTypes))
		for i, mt := range models.MomentTypes {
			enum[i] = mt.String()
		}
		return &jsonschema.Schema{
			Type:        "string",
			Enum:        enum,
			Description: "Unknown types are shown as other",
		}
	case captionPositionType:
		return &jsonschema.Schema{
			Type: "string",
			Enum: []any{string(models.CaptionTop), string(models.CaptionBottom)},
		}
	}
	return nil
}
