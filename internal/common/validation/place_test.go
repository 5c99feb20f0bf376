package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePlaceEvent(t *testing.T) {
	tests := []struct {
		name  string
		event string
		valid bool
	}{
		{
			name: "full record",
			event: `{
				"place_id": "ChIJLU7jZClu5kcR4PcOOO6p3I0",
				"name": "Eiffel Tower",
				"geometry": {"location": {"lat": 48.8584, "lng": 2.2945}},
				"address_components": [
					{"long_name": "Paris", "short_name": "Paris", "types": ["locality"]},
					{"long_name": "France", "short_name": "FR", "types": ["country"]}
				],
				"types": ["tourist_attraction"]
			}`,
			valid: true,
		},
		{
			name:  "name only",
			event: `{"name": "Somewhere"}`,
			valid: true,
		},
		{
			name:  "missing name",
			event: `{"place_id": "abc"}`,
			valid: false,
		},
		{
			name:  "empty name",
			event: `{"name": ""}`,
			valid: false,
		},
		{
			name:  "not json",
			event: `{{`,
			valid: false,
		},
		{
			name:  "lat is a string",
			event: `{"name": "X", "geometry": {"location": {"lat": "high", "lng": 2}}}`,
			valid: false,
		},
		{
			name:  "geometry without location",
			event: `{"name": "X", "geometry": {}}`,
			valid: false,
		},
		{
			name:  "component without long_name",
			event: `{"name": "X", "address_components": [{"short_name": "FR", "types": ["country"]}]}`,
			valid: false,
		},
		{
			name:  "place_id wrong type",
			event: `{"name": "X", "place_id": 42}`,
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidatePlaceEvent([]byte(tt.event))
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				assert.NotEmpty(t, result.Errors)
				assert.NotEmpty(t, result.Summary())
			}
		})
	}
}
