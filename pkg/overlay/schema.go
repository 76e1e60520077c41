package overlay

import "encoding/json"

// =============================================================================
// Persisted Schema
// =============================================================================

// record is the persisted shape, one record per map key. The schema has no
// version field: forward-incompatible changes are handled by tolerating
// missing fields on read, not by migration logic.
//
// Note the terrain flag is stored negated (disableProceduralTerrain) so the
// absent-key default of false keeps blending on.
type record struct {
	LocationPositions map[string]recordPoint `json:"locationPositions,omitempty"`
	Decorations       []recordDecoration     `json:"decorations,omitempty"`
	CustomRoads       []recordRoad           `json:"customRoads,omitempty"`
	MapSeed           uint64                 `json:"mapSeed,omitempty"`
	DisableTerrain    bool                   `json:"disableProceduralTerrain,omitempty"`
}

type recordPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type recordDecoration struct {
	ID   string  `json:"id"`
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
	Seed uint32  `json:"seed"`
}

type recordRoad struct {
	ID             string `json:"id"`
	FromLocationID string `json:"fromLocationId"`
	ToLocationID   string `json:"toLocationId"`
	Style          string `json:"style"`
}

// Encode serializes the state into the persisted schema.
func Encode(s *State) ([]byte, error) {
	r := record{
		MapSeed:        s.LayoutSeed,
		DisableTerrain: !s.BlendAutoTerrain,
	}

	if len(s.PositionOverrides) > 0 {
		r.LocationPositions = make(map[string]recordPoint, len(s.PositionOverrides))
		for id, p := range s.PositionOverrides {
			r.LocationPositions[id] = recordPoint{X: p.X, Y: p.Y}
		}
	}

	for _, d := range s.Decorations {
		r.Decorations = append(r.Decorations, recordDecoration{
			ID: d.ID, Type: d.Kind, X: d.X, Y: d.Y, Size: d.Size, Seed: d.Seed,
		})
	}

	for _, cr := range s.CustomRoads {
		r.CustomRoads = append(r.CustomRoads, recordRoad{
			ID:             cr.ID,
			FromLocationID: cr.FromLocationID,
			ToLocationID:   cr.ToLocationID,
			Style:          cr.Style,
		})
	}

	return json.MarshalIndent(r, "", "  ")
}

// Decode deserializes a persisted record. It never fails: corrupted or
// partially-shaped input degrades to safe defaults field by field, and
// completely unreadable input yields a fresh empty state.
func Decode(data []byte) *State {
	var r record
	if len(data) == 0 || json.Unmarshal(data, &r) != nil {
		return NewState()
	}

	s := &State{
		PositionOverrides: make(map[string]Point, len(r.LocationPositions)),
		LayoutSeed:        r.MapSeed,
		BlendAutoTerrain:  !r.DisableTerrain,
	}

	for id, p := range r.LocationPositions {
		if id == "" {
			continue
		}
		s.PositionOverrides[id] = Point{X: p.X, Y: p.Y}
	}

	for _, d := range r.Decorations {
		if d.ID == "" || !DecorationKinds[d.Type] {
			continue
		}
		s.Decorations = append(s.Decorations, Decoration{
			ID: d.ID, Kind: d.Type, X: d.X, Y: d.Y, Size: d.Size, Seed: d.Seed,
		})
	}

	for _, cr := range r.CustomRoads {
		if cr.ID == "" || cr.FromLocationID == "" || cr.ToLocationID == "" {
			continue
		}
		if cr.FromLocationID == cr.ToLocationID {
			continue
		}
		style := cr.Style
		if !RoadStyles[style] {
			style = StylePath
		}
		s.CustomRoads = append(s.CustomRoads, CustomRoad{
			ID:             cr.ID,
			FromLocationID: cr.FromLocationID,
			ToLocationID:   cr.ToLocationID,
			Style:          style,
		})
	}

	return s
}
