package world

import (
	"encoding/json"

	"github.com/mhagen/loreatlas/pkg/errors"
)

// document is the interchange envelope used by the file source and the
// scene server. A bare top-level array is also accepted.
type document struct {
	Locations []Location `json:"locations"`
}

// ParseLocations decodes a location document from JSON bytes.
// Both {"locations": [...]} and a bare [...] array are accepted.
// Tiers are normalized; structural validation is the caller's choice
// via [Validate].
func ParseLocations(data []byte) ([]Location, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		var bare []Location
		if err2 := json.Unmarshal(data, &bare); err2 != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "parse locations")
		}
		doc.Locations = bare
	}

	for i := range doc.Locations {
		t, err := ParseTier(string(doc.Locations[i].Tier))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLocation, err,
				"location %s", doc.Locations[i].ID)
		}
		doc.Locations[i].Tier = t
	}

	return doc.Locations, nil
}

// MarshalLocations encodes locations as a pretty-printed document.
func MarshalLocations(locs []Location) ([]byte, error) {
	return json.MarshalIndent(document{Locations: locs}, "", "  ")
}
