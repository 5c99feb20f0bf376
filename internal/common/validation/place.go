// Package validation checks incoming place selection events against a
// JSON schema. Only presence and primitive types are enforced; semantic
// address validation is out of scope.
package validation

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Summary flattens the errors into a single details string.
func (r *ValidationResult) Summary() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return strings.Join(parts, "; ")
}

var placeEventSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"name"},
	"properties": map[string]interface{}{
		"name":     map[string]interface{}{"type": "string", "minLength": 1},
		"place_id": map[string]interface{}{"type": "string"},
		"types": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
		"geometry": map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"location"},
			"properties": map[string]interface{}{
				"location": map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"lat", "lng"},
					"properties": map[string]interface{}{
						"lat": map[string]interface{}{"type": "number"},
						"lng": map[string]interface{}{"type": "number"},
					},
				},
			},
		},
		"address_components": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"long_name", "types"},
				"properties": map[string]interface{}{
					"long_name":  map[string]interface{}{"type": "string"},
					"short_name": map[string]interface{}{"type": "string"},
					"types": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "string"},
					},
				},
			},
		},
	},
}

var compiledPlaceEvent = mustCompile(placeEventSchema)

func mustCompile(schema map[string]interface{}) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		panic(err)
	}
	return s
}

// ValidatePlaceEvent validates a raw selection event body with detailed
// per-field errors.
func ValidatePlaceEvent(raw []byte) *ValidationResult {
	result, err := compiledPlaceEvent.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &ValidationResult{
			Valid:  false,
			Errors: []ValidationError{{Field: "(document)", Message: err.Error()}},
		}
	}

	if result.Valid() {
		return &ValidationResult{Valid: true}
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return &ValidationResult{Valid: false, Errors: errs}
}
