// internal/models/place.go
package models

// AddressComponent is one sub-part of a place's formatted address, tagged
// with one or more category types ("locality", "country", ...).
type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name,omitempty"`
	Types     []string `json:"types"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Geometry struct {
	Location LatLng `json:"location"`
}

// Place is the record the autocomplete widget produces for a selection.
// Geometry is optional; selections without coordinates cannot be forwarded.
type Place struct {
	PlaceID           string             `json:"place_id,omitempty"`
	Name              string             `json:"name"`
	Geometry          *Geometry          `json:"geometry,omitempty"`
	AddressComponents []AddressComponent `json:"address_components,omitempty"`
	Types             []string           `json:"types,omitempty"`
}

// HasGeometry reports whether the record carries coordinate data.
func (p *Place) HasGeometry() bool {
	return p != nil && p.Geometry != nil
}

// PlacePayload is the record forwarded to the travel backend.
// Coordinates are [lat, lng], matching what the backend stores.
type PlacePayload struct {
	DestinationName string     `json:"destination_name"`
	City            string     `json:"city"`
	Country         string     `json:"country"`
	Coordinates     [2]float64 `json:"coordinates"`
	PlaceID         string     `json:"place_id,omitempty"`
}
