package overlay

import "testing"

func TestNewState(t *testing.T) {
	s := NewState()
	if !s.BlendAutoTerrain {
		t.Error("fresh state should have terrain blending on")
	}
	if len(s.PositionOverrides) != 0 || len(s.Decorations) != 0 || len(s.CustomRoads) != 0 {
		t.Error("fresh state should be empty")
	}
}

func TestAddDecoration(t *testing.T) {
	s := NewState()
	d := s.AddDecoration(KindTree, 10, 20, 12, 99)
	if d.ID == "" {
		t.Error("decoration should get a fresh ID")
	}
	if d.Kind != KindTree || d.X != 10 || d.Y != 20 || d.Size != 12 || d.Seed != 99 {
		t.Errorf("unexpected decoration: %+v", d)
	}
	if len(s.Decorations) != 1 {
		t.Fatalf("state holds %d decorations, want 1", len(s.Decorations))
	}

	// IDs are unique per instance.
	d2 := s.AddDecoration(KindTree, 10, 20, 12, 99)
	if d2.ID == d.ID {
		t.Error("two decorations should not share an ID")
	}
}

func TestAddRoad(t *testing.T) {
	s := NewState()

	r, ok := s.AddRoad("a", "b", StyleMain)
	if !ok {
		t.Fatal("valid road rejected")
	}
	if r.FromLocationID != "a" || r.ToLocationID != "b" || r.Style != StyleMain {
		t.Errorf("unexpected road: %+v", r)
	}

	// Self-loops and empty endpoints are rejected without mutating state.
	if _, ok := s.AddRoad("a", "a", StylePath); ok {
		t.Error("self-loop road should be rejected")
	}
	if _, ok := s.AddRoad("", "b", StylePath); ok {
		t.Error("empty endpoint should be rejected")
	}
	if len(s.CustomRoads) != 1 {
		t.Errorf("state holds %d roads, want 1", len(s.CustomRoads))
	}
}

func TestRemove(t *testing.T) {
	s := NewState()
	d := s.AddDecoration(KindRock, 0, 0, 8, 1)
	r, _ := s.AddRoad("a", "b", StyleTrail)

	if !s.RemoveDecoration(d.ID) {
		t.Error("existing decoration should be removable")
	}
	if s.RemoveDecoration(d.ID) {
		t.Error("removing twice should report false")
	}
	if !s.RemoveRoad(r.ID) {
		t.Error("existing road should be removable")
	}
	if s.RemoveRoad("nope") {
		t.Error("unknown road id should report false")
	}
}

func TestClone(t *testing.T) {
	s := NewState()
	s.SetOverride("a", 1, 2)
	s.AddDecoration(KindLake, 5, 5, 20, 3)
	s.LayoutSeed = 42

	c := s.Clone()
	c.SetOverride("a", 9, 9)
	c.Decorations[0].X = 99

	if s.PositionOverrides["a"].X != 1 {
		t.Error("clone should not share the override map")
	}
	if s.Decorations[0].X != 5 {
		t.Error("clone should not share the decoration slice")
	}
	if c.LayoutSeed != 42 {
		t.Error("clone should carry the layout seed")
	}
}

func TestSetOverrideNilMap(t *testing.T) {
	// States decoded from records without positions have a non-nil map, but
	// a zero-value State does not; SetOverride must tolerate it.
	var s State
	s.SetOverride("a", 3, 4)
	if s.PositionOverrides["a"] != (Point{X: 3, Y: 4}) {
		t.Errorf("override not written: %+v", s.PositionOverrides)
	}
}
