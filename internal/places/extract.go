// Package places holds the pure field-extraction and identity helpers for
// selected place records.
package places

import "place-intake/internal/models"

// Address component type tags as emitted by the autocomplete widget.
const (
	TypeLocality   = "locality"
	TypeAdminArea1 = "administrative_area_level_1"
	TypeCountry    = "country"
)

// City returns the display name of the first address component tagged
// "locality" or "administrative_area_level_1", in component order. Returns
// "" when no component matches.
func City(components []models.AddressComponent) string {
	for _, c := range components {
		for _, t := range c.Types {
			if t == TypeLocality || t == TypeAdminArea1 {
				return c.LongName
			}
		}
	}
	return ""
}

// Country returns the display name of the first address component tagged
// "country", or "" when none is present.
func Country(components []models.AddressComponent) string {
	for _, c := range components {
		for _, t := range c.Types {
			if t == TypeCountry {
				return c.LongName
			}
		}
	}
	return ""
}
