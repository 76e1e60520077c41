// Package world defines the location records consumed by the layout engine.
//
// Locations form a containment hierarchy (country → province → city → town)
// plus standalone locations with no tier. The package owns parsing and
// validation of the interchange format; it never computes coordinates.
//
// The parent graph must be a forest. The layout engine does not validate
// acyclicity — callers loading records from untrusted sources should run
// [Validate] first.
package world

import (
	"slices"
	"strings"

	"github.com/mhagen/loreatlas/pkg/errors"
)

// =============================================================================
// Tier - Containment Hierarchy Level
// =============================================================================

// Tier is a location's level in the containment hierarchy.
// The empty string means standalone (no tier).
type Tier string

// Tiers, outermost first.
const (
	TierCountry  Tier = "country"
	TierProvince Tier = "province"
	TierCity     Tier = "city"
	TierTown     Tier = "town"
	TierNone     Tier = ""
)

// TierOrder lists the nested tiers outermost first. Standalone locations
// (TierNone) are placed after all tiered ones.
var TierOrder = []Tier{TierCountry, TierProvince, TierCity, TierTown}

// ParseTier normalizes and validates a tier string.
// An empty string is valid and means standalone.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TierCountry, TierProvince, TierCity, TierTown, TierNone:
		return t, nil
	}
	return TierNone, errors.New(errors.ErrCodeInvalidTier, "unknown tier: %q", s)
}

// Outer returns the tier one level outside t, or TierNone if t is the
// outermost tier or standalone.
func (t Tier) Outer() Tier {
	i := slices.Index(TierOrder, t)
	if i <= 0 {
		return TierNone
	}
	return TierOrder[i-1]
}

// =============================================================================
// Location - External Entity
// =============================================================================

// Location is one record from the data-layer collaborator.
// ID is the stable identity; everything except Tier and ParentID is
// pass-through as far as layout is concerned.
type Location struct {
	ID        string   `json:"id" bson:"id"`
	Name      string   `json:"name" bson:"name"`
	Tier      Tier     `json:"tier,omitempty" bson:"tier,omitempty"`
	ParentID  string   `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	Summary   string   `json:"summary,omitempty" bson:"summary,omitempty"`
	Overview  string   `json:"overview,omitempty" bson:"overview,omitempty"`
	Tags      string   `json:"tags,omitempty" bson:"tags,omitempty"`
	Residents []string `json:"residents,omitempty" bson:"residents,omitempty"`
}

// IsStandalone returns true if the location has no tier.
func (l *Location) IsStandalone() bool { return l.Tier == TierNone }

// =============================================================================
// Validation
// =============================================================================

// Validate checks a location list for structural problems: missing or
// duplicate IDs, unknown tiers, parent references pointing at an equal or
// inner tier, and parent cycles.
//
// The layout engine itself tolerates unresolvable parents (fallback ring
// placement), so Validate is advisory: it exists for callers that want to
// reject malformed data at the boundary instead of rendering a degraded map.
func Validate(locs []Location) error {
	byID := make(map[string]*Location, len(locs))
	for i := range locs {
		l := &locs[i]
		if l.ID == "" {
			return errors.New(errors.ErrCodeInvalidLocation, "location %q has no id", l.Name)
		}
		if _, dup := byID[l.ID]; dup {
			return errors.New(errors.ErrCodeInvalidLocation, "duplicate location id: %s", l.ID)
		}
		if _, err := ParseTier(string(l.Tier)); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidLocation, err, "location %s", l.ID)
		}
		byID[l.ID] = l
	}

	for i := range locs {
		l := &locs[i]
		if l.ParentID == "" {
			continue
		}
		parent, ok := byID[l.ParentID]
		if !ok {
			// Tolerated: the generator falls back to ring placement.
			continue
		}
		if !outerThan(parent.Tier, l.Tier) {
			return errors.New(errors.ErrCodeInvalidLocation,
				"location %s (%s) has parent %s (%s) of equal or inner tier",
				l.ID, l.Tier, parent.ID, parent.Tier)
		}
	}

	// Cycle check over parent links. Tier ordering already rules out cycles
	// among well-tiered nodes, so this only trips on corrupt data.
	for i := range locs {
		seen := map[string]bool{}
		for cur := &locs[i]; cur != nil && cur.ParentID != ""; cur = byID[cur.ParentID] {
			if seen[cur.ID] {
				return errors.New(errors.ErrCodeInvalidLocation, "parent cycle through %s", cur.ID)
			}
			seen[cur.ID] = true
		}
	}

	return nil
}

// outerThan reports whether a is strictly outside b in the tier hierarchy.
// Standalone locations are outside nothing.
func outerThan(a, b Tier) bool {
	ia := slices.Index(TierOrder, a)
	ib := slices.Index(TierOrder, b)
	if ia < 0 || ib < 0 {
		return false
	}
	return ia < ib
}

// ByID builds an id → location lookup map.
func ByID(locs []Location) map[string]*Location {
	m := make(map[string]*Location, len(locs))
	for i := range locs {
		m[locs[i].ID] = &locs[i]
	}
	return m
}
