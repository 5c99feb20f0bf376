package places

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"place-intake/internal/models"
)

func component(name string, types ...string) models.AddressComponent {
	return models.AddressComponent{LongName: name, Types: types}
}

// ==========================
// City Extraction
// ==========================

func TestCity(t *testing.T) {
	tests := []struct {
		name       string
		components []models.AddressComponent
		expected   string
	}{
		{
			name: "locality present",
			components: []models.AddressComponent{
				component("Paris", "locality", "political"),
				component("France", "country"),
			},
			expected: "Paris",
		},
		{
			name: "admin area fallback",
			components: []models.AddressComponent{
				component("Île-de-France", "administrative_area_level_1"),
				component("France", "country"),
			},
			expected: "Île-de-France",
		},
		{
			name: "locality wins over later admin area",
			components: []models.AddressComponent{
				component("Kyoto", "locality"),
				component("Kyoto Prefecture", "administrative_area_level_1"),
			},
			expected: "Kyoto",
		},
		{
			name: "earlier admin area wins over later locality",
			components: []models.AddressComponent{
				component("Bavaria", "administrative_area_level_1"),
				component("Munich", "locality"),
			},
			expected: "Bavaria",
		},
		{
			name: "no matching component",
			components: []models.AddressComponent{
				component("France", "country"),
			},
			expected: "",
		},
		{
			name:       "no components",
			components: nil,
			expected:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, City(tt.components))
		})
	}
}

// ==========================
// Country Extraction
// ==========================

func TestCountry(t *testing.T) {
	tests := []struct {
		name       string
		components []models.AddressComponent
		expected   string
	}{
		{
			name: "country present",
			components: []models.AddressComponent{
				component("Paris", "locality"),
				component("France", "country", "political"),
			},
			expected: "France",
		},
		{
			name: "first country wins",
			components: []models.AddressComponent{
				component("France", "country"),
				component("Germany", "country"),
			},
			expected: "France",
		},
		{
			name: "no country component",
			components: []models.AddressComponent{
				component("Paris", "locality"),
			},
			expected: "",
		},
		{
			name:       "empty sequence",
			components: []models.AddressComponent{},
			expected:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Country(tt.components))
		})
	}
}
