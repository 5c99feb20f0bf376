// internal/places/identity.go
package places

import (
	"strconv"

	"place-intake/internal/models"
)

// SelectionKey derives the deduplication identifier for a selected place.
// The widget's stable place id wins; records without one fall back to a
// name_lat_lng key. Two distinct places sharing name and coordinates will
// collide on the fallback key, which is acceptable for this use case.
//
// Records with neither a place id nor geometry cannot be keyed; callers
// must treat ok == false as a skip.
func SelectionKey(p *models.Place) (key string, ok bool) {
	if p == nil {
		return "", false
	}
	if p.PlaceID != "" {
		return p.PlaceID, true
	}
	if !p.HasGeometry() {
		return "", false
	}
	loc := p.Geometry.Location
	return p.Name + "_" + formatCoord(loc.Lat) + "_" + formatCoord(loc.Lng), true
}

// formatCoord renders a coordinate with the fewest digits that round-trip,
// so 1.0 becomes "1" and 48.8584 stays "48.8584".
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Payload builds the outgoing backend record for a place. Callers must
// have verified the place carries geometry.
func Payload(p *models.Place) models.PlacePayload {
	return models.PlacePayload{
		DestinationName: p.Name,
		City:            City(p.AddressComponents),
		Country:         Country(p.AddressComponents),
		Coordinates:     [2]float64{p.Geometry.Location.Lat, p.Geometry.Location.Lng},
		PlaceID:         p.PlaceID,
	}
}
