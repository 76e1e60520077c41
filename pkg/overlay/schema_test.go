package overlay

import (
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := NewState()
	s.SetOverride("northshore", 640, 220)
	s.AddDecoration(KindTree, 100, 100, 14, 7)
	s.AddRoad("a", "b", StyleMain)
	s.LayoutSeed = 12345
	s.BlendAutoTerrain = false

	data, err := Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got := Decode(data)
	if got.PositionOverrides["northshore"] != (Point{X: 640, Y: 220}) {
		t.Errorf("override lost: %+v", got.PositionOverrides)
	}
	if len(got.Decorations) != 1 || got.Decorations[0].Kind != KindTree || got.Decorations[0].Seed != 7 {
		t.Errorf("decorations lost: %+v", got.Decorations)
	}
	if len(got.CustomRoads) != 1 || got.CustomRoads[0].Style != StyleMain {
		t.Errorf("roads lost: %+v", got.CustomRoads)
	}
	if got.LayoutSeed != 12345 {
		t.Errorf("seed lost: %d", got.LayoutSeed)
	}
	if got.BlendAutoTerrain {
		t.Error("terrain flag lost")
	}
}

func TestEncodeFieldNames(t *testing.T) {
	s := NewState()
	s.SetOverride("a", 1, 2)
	s.AddDecoration(KindRock, 0, 0, 8, 1)
	s.AddRoad("a", "b", StylePath)
	s.LayoutSeed = 9
	s.BlendAutoTerrain = false

	data, err := Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// The record schema is a wire contract; the terrain flag is persisted
	// negated so an absent key means blending on.
	for _, field := range []string{
		`"locationPositions"`, `"decorations"`, `"customRoads"`,
		`"mapSeed"`, `"disableProceduralTerrain"`,
		`"type"`, `"fromLocationId"`, `"toLocationId"`,
	} {
		if !strings.Contains(string(data), field) {
			t.Errorf("encoded record missing %s:\n%s", field, data)
		}
	}
}

func TestDecodeSafeDefaults(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		s := Decode(nil)
		if s == nil || !s.BlendAutoTerrain {
			t.Error("empty input should yield a fresh state")
		}
	})

	t.Run("corrupt json", func(t *testing.T) {
		s := Decode([]byte("{not json"))
		if s == nil || len(s.Decorations) != 0 {
			t.Error("corrupt input should yield a fresh state")
		}
	})

	t.Run("absent terrain flag keeps blending on", func(t *testing.T) {
		s := Decode([]byte(`{"mapSeed": 3}`))
		if !s.BlendAutoTerrain {
			t.Error("absent disableProceduralTerrain should mean blending on")
		}
		if s.LayoutSeed != 3 {
			t.Errorf("seed = %d, want 3", s.LayoutSeed)
		}
	})

	t.Run("invalid items are skipped field by field", func(t *testing.T) {
		data := []byte(`{
			"decorations": [
				{"id": "", "type": "tree", "x": 1, "y": 1},
				{"id": "d1", "type": "volcano", "x": 1, "y": 1},
				{"id": "d2", "type": "rock", "x": 2, "y": 2, "size": 8}
			],
			"customRoads": [
				{"id": "", "fromLocationId": "a", "toLocationId": "b"},
				{"id": "r1", "fromLocationId": "a", "toLocationId": "a"},
				{"id": "r2", "fromLocationId": "a", "toLocationId": ""},
				{"id": "r3", "fromLocationId": "a", "toLocationId": "b", "style": "superhighway"}
			],
			"locationPositions": {"": {"x": 1, "y": 1}, "ok": {"x": 5, "y": 6}}
		}`)

		s := Decode(data)
		if len(s.Decorations) != 1 || s.Decorations[0].ID != "d2" {
			t.Errorf("want only the valid decoration, got %+v", s.Decorations)
		}
		if len(s.CustomRoads) != 1 || s.CustomRoads[0].ID != "r3" {
			t.Fatalf("want only the valid road, got %+v", s.CustomRoads)
		}
		if s.CustomRoads[0].Style != StylePath {
			t.Errorf("unknown style should default to path, got %q", s.CustomRoads[0].Style)
		}
		if len(s.PositionOverrides) != 1 || s.PositionOverrides["ok"] != (Point{X: 5, Y: 6}) {
			t.Errorf("want only the keyed override, got %+v", s.PositionOverrides)
		}
	})
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := t.Context()
	store := NewMemoryStore()
	defer store.Close()

	// Missing key yields a fresh state, not an error.
	s, err := store.Load(ctx, "nope")
	if err != nil {
		t.Fatalf("Load missing: %v", err)
	}
	if !s.BlendAutoTerrain || len(s.Decorations) != 0 {
		t.Error("missing record should decode to a fresh state")
	}

	s.AddDecoration(KindHill, 3, 3, 10, 2)
	s.LayoutSeed = 77
	if err := store.Save(ctx, "mymap", s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx, "mymap")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.LayoutSeed != 77 || len(got.Decorations) != 1 {
		t.Errorf("round trip lost data: %+v", got)
	}

	if err := store.Delete(ctx, "mymap"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, _ = store.Load(ctx, "mymap")
	if len(got.Decorations) != 0 {
		t.Error("record should be gone after Delete")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := t.Context()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer store.Close()

	s := NewState()
	s.SetOverride("a", 1, 2)
	s.LayoutSeed = 5
	if err := store.Save(ctx, "default", s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx, "default")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.LayoutSeed != 5 || got.PositionOverrides["a"] != (Point{X: 1, Y: 2}) {
		t.Errorf("round trip lost data: %+v", got)
	}

	keys, err := store.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 1 || keys[0] != "default" {
		t.Errorf("Keys = %v, want [default]", keys)
	}

	// Path separators in keys must not escape the base directory.
	if err := store.Save(ctx, "../escape", s); err != nil {
		t.Fatalf("Save with hostile key: %v", err)
	}
	keys, _ = store.Keys()
	if len(keys) != 2 {
		t.Errorf("hostile key should be flattened into the base dir, keys = %v", keys)
	}

	if err := store.Delete(ctx, "missing"); err != nil {
		t.Errorf("deleting a missing record should not error: %v", err)
	}
}
