// Package overlay holds the user-authored edits layered over a generated
// map: position overrides, decorations, custom roads, the layout seed, and
// the terrain-blend flag.
//
// The overlay has a lifecycle independent of any single render pass: it is
// created empty on the first edit session, loaded from a [Store] on editor
// mount, mutated in memory while editing, and written back only on an
// explicit save. Two sessions against the same store silently overwrite
// each other's last write — there is no coordination.
package overlay

import (
	"github.com/google/uuid"
)

// =============================================================================
// Constants
// =============================================================================

// Decoration kinds. User-placed terrain dressing, never auto-generated.
const (
	KindTree  = "tree"
	KindRock  = "rock"
	KindLake  = "lake"
	KindHill  = "hill"
	KindShrub = "shrub"
)

// DecorationKinds is the set of valid decoration kinds.
var DecorationKinds = map[string]bool{
	KindTree:  true,
	KindRock:  true,
	KindLake:  true,
	KindHill:  true,
	KindShrub: true,
}

// Custom road styles. Style affects rendering weight, not geometry.
const (
	StyleMain  = "main"
	StylePath  = "path"
	StyleTrail = "trail"
)

// RoadStyles is the set of valid custom road styles.
var RoadStyles = map[string]bool{
	StyleMain:  true,
	StylePath:  true,
	StyleTrail: true,
}

// =============================================================================
// Types
// =============================================================================

// Point is a world-space position override.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Decoration is one user-placed terrain feature. Seed drives the
// instance's internal rendering variation.
type Decoration struct {
	ID   string  `json:"id"`
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
	Seed uint32  `json:"seed"`
}

// CustomRoad is one user-drawn road between two locations. Endpoints are
// location IDs, resolved to current positions at merge time.
type CustomRoad struct {
	ID             string `json:"id"`
	FromLocationID string `json:"from_location_id"`
	ToLocationID   string `json:"to_location_id"`
	Style          string `json:"style"`
}

// State is the in-memory override state for one map.
type State struct {
	// PositionOverrides is sparse: absence means "use generated position".
	PositionOverrides map[string]Point

	// Decorations are always shown.
	Decorations []Decoration

	// CustomRoads are rendered in addition to generated edges, never
	// deduplicated against them.
	CustomRoads []CustomRoad

	// LayoutSeed reshuffles every non-overridden node when bumped.
	LayoutSeed uint64

	// BlendAutoTerrain layers the drawing sink's own ambient terrain under
	// the decorations when true. When false only Decorations are shown.
	BlendAutoTerrain bool
}

// NewState returns an empty override state with terrain blending on, the
// state a first edit session starts from.
func NewState() *State {
	return &State{
		PositionOverrides: make(map[string]Point),
		BlendAutoTerrain:  true,
	}
}

// Clone returns a deep copy, used for undo-all snapshots.
func (s *State) Clone() *State {
	c := &State{
		PositionOverrides: make(map[string]Point, len(s.PositionOverrides)),
		Decorations:       append([]Decoration(nil), s.Decorations...),
		CustomRoads:       append([]CustomRoad(nil), s.CustomRoads...),
		LayoutSeed:        s.LayoutSeed,
		BlendAutoTerrain:  s.BlendAutoTerrain,
	}
	for k, v := range s.PositionOverrides {
		c.PositionOverrides[k] = v
	}
	return c
}

// SetOverride writes a position override for a location, creating the map
// if the state was decoded from a record without one.
func (s *State) SetOverride(locationID string, x, y float64) {
	if s.PositionOverrides == nil {
		s.PositionOverrides = make(map[string]Point)
	}
	s.PositionOverrides[locationID] = Point{X: x, Y: y}
}

// AddDecoration appends a new decoration with a fresh ID and returns it.
func (s *State) AddDecoration(kind string, x, y, size float64, seed uint32) Decoration {
	d := Decoration{
		ID:   uuid.NewString(),
		Kind: kind,
		X:    x,
		Y:    y,
		Size: size,
		Seed: seed,
	}
	s.Decorations = append(s.Decorations, d)
	return d
}

// AddRoad appends a custom road between two distinct locations and returns
// it. Self-loops are rejected and return false.
func (s *State) AddRoad(fromID, toID, style string) (CustomRoad, bool) {
	if fromID == toID || fromID == "" || toID == "" {
		return CustomRoad{}, false
	}
	r := CustomRoad{
		ID:             uuid.NewString(),
		FromLocationID: fromID,
		ToLocationID:   toID,
		Style:          style,
	}
	s.CustomRoads = append(s.CustomRoads, r)
	return r, true
}

// RemoveDecoration deletes a decoration by ID, reporting whether it existed.
func (s *State) RemoveDecoration(id string) bool {
	for i, d := range s.Decorations {
		if d.ID == id {
			s.Decorations = append(s.Decorations[:i], s.Decorations[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveRoad deletes a custom road by ID, reporting whether it existed.
func (s *State) RemoveRoad(id string) bool {
	for i, r := range s.CustomRoads {
		if r.ID == id {
			s.CustomRoads = append(s.CustomRoads[:i], s.CustomRoads[i+1:]...)
			return true
		}
	}
	return false
}
