package editor

import (
	"context"
	"testing"

	apperrors "github.com/mhagen/loreatlas/pkg/errors"
	"github.com/mhagen/loreatlas/pkg/layout"
	"github.com/mhagen/loreatlas/pkg/overlay"
)

// testSession builds a session over two nodes with a 1:1 viewport, so
// display coordinates equal world coordinates and hit radii stay in pixels.
func testSession(st *overlay.State) *Session {
	nodes := []layout.Node{
		{ID: "n1", Name: "Northshore", X: 20, Y: 20},
		{ID: "n2", Name: "Midvale", X: 80, Y: 80},
	}
	s := NewSession(nodes, st, 100, 100)
	s.Viewport = Viewport{X: 0, Y: 0, W: 100, H: 100}
	return s
}

func TestNewSessionDefaults(t *testing.T) {
	s := testSession(nil)
	if s.Tool != ToolView {
		t.Errorf("initial tool %q, want view", s.Tool)
	}
	if s.DecorationKind != overlay.KindTree || s.RoadStyle != overlay.StylePath {
		t.Error("unexpected default tool parameters")
	}
	if s.Overlay == nil {
		t.Error("nil overlay should be replaced with a fresh state")
	}
	if s.Dirty() {
		t.Error("fresh session should not be dirty")
	}
}

func TestViewToolPans(t *testing.T) {
	s := testSession(nil)

	s.Handle(PointerDown{PX: 50, PY: 50})
	s.Handle(PointerMove{PX: 40, PY: 45})
	s.Handle(PointerUp{})

	if s.Viewport.X != 10 || s.Viewport.Y != 5 {
		t.Errorf("viewport at (%f, %f), want (10, 5)", s.Viewport.X, s.Viewport.Y)
	}
}

func TestModifierPansInAnyTool(t *testing.T) {
	s := testSession(nil)
	s.SetTool(ToolDecorate)

	s.Handle(PointerDown{PX: 50, PY: 50, Modifier: true})
	s.Handle(PointerMove{PX: 30, PY: 50})
	s.Handle(PointerUp{})

	if s.Viewport.X != 20 {
		t.Errorf("modifier pan moved viewport to %f, want 20", s.Viewport.X)
	}
	if len(s.Overlay.Decorations) != 0 {
		t.Error("modifier pan should not place decorations")
	}
}

func TestMoveToolWritesOverride(t *testing.T) {
	s := testSession(nil)
	s.SetTool(ToolMove)

	// Grab n1 slightly off-center; the offset is preserved through the drag.
	s.Handle(PointerDown{PX: 21, PY: 20})
	s.Handle(PointerMove{PX: 61, PY: 50})
	s.Handle(PointerUp{})

	p, ok := s.Overlay.PositionOverrides["n1"]
	if !ok {
		t.Fatal("drag should write a position override")
	}
	if p.X != 60 || p.Y != 50 {
		t.Errorf("override at (%f, %f), want (60, 50)", p.X, p.Y)
	}

	// The generated node is never mutated.
	if s.Nodes()[0].X != 20 {
		t.Error("generated position must stay untouched")
	}

	// NodePosition now resolves to the override.
	x, y, _ := s.NodePosition("n1")
	if x != 60 || y != 50 {
		t.Errorf("NodePosition = (%f, %f), want (60, 50)", x, y)
	}
}

func TestMoveToolMissesEmptySpace(t *testing.T) {
	s := testSession(nil)
	s.SetTool(ToolMove)

	s.Handle(PointerDown{PX: 50, PY: 50})
	s.Handle(PointerMove{PX: 60, PY: 60})

	if len(s.Overlay.PositionOverrides) != 0 {
		t.Error("pressing empty space should not start a drag")
	}
}

func TestDecorateTool(t *testing.T) {
	s := testSession(nil)
	s.SetTool(ToolDecorate)
	s.DecorationKind = overlay.KindRock
	s.DecorationSize = 18

	s.Handle(PointerDown{PX: 40, PY: 60})
	s.Handle(PointerMove{PX: 45, PY: 65}) // drag places nothing extra
	s.Handle(PointerUp{})
	s.Handle(PointerDown{PX: 70, PY: 10})

	if len(s.Overlay.Decorations) != 2 {
		t.Fatalf("placed %d decorations, want 2 (one per press)", len(s.Overlay.Decorations))
	}

	d := s.Overlay.Decorations[0]
	if d.Kind != overlay.KindRock || d.Size != 18 {
		t.Errorf("decoration should use the selected parameters: %+v", d)
	}
	if d.X != 40 || d.Y != 60 {
		t.Errorf("decoration at (%f, %f), want press point (40, 60)", d.X, d.Y)
	}
	if s.Overlay.Decorations[0].Seed == s.Overlay.Decorations[1].Seed {
		t.Error("instances should get distinct seeds")
	}
}

func TestRoadTool(t *testing.T) {
	s := testSession(nil)
	s.SetTool(ToolRoad)
	s.RoadStyle = overlay.StyleMain

	// First press selects the start.
	s.Handle(PointerDown{PX: 20, PY: 20})
	if s.PendingRoadID != "n1" {
		t.Fatalf("pending road start %q, want n1", s.PendingRoadID)
	}

	// Pressing empty space keeps the pending start.
	s.Handle(PointerDown{PX: 50, PY: 50})
	if s.PendingRoadID != "n1" {
		t.Error("missing a node should not clear the pending start")
	}

	// The same node twice commits nothing.
	s.Handle(PointerDown{PX: 20, PY: 20})
	if len(s.Overlay.CustomRoads) != 0 {
		t.Error("same node twice must not create a self-loop")
	}

	// A second distinct node commits the road and clears the pending state.
	s.Handle(PointerDown{PX: 80, PY: 80})
	if len(s.Overlay.CustomRoads) != 1 {
		t.Fatalf("committed %d roads, want 1", len(s.Overlay.CustomRoads))
	}
	r := s.Overlay.CustomRoads[0]
	if r.FromLocationID != "n1" || r.ToLocationID != "n2" || r.Style != overlay.StyleMain {
		t.Errorf("unexpected road: %+v", r)
	}
	if s.PendingRoadID != "" {
		t.Error("commit should clear the pending start")
	}
}

func TestDeleteTool(t *testing.T) {
	st := overlay.NewState()
	d := st.AddDecoration(overlay.KindTree, 40, 40, 10, 1)
	r, _ := st.AddRoad("n1", "n2", overlay.StylePath)

	s := testSession(st)
	s.SetTool(ToolDelete)

	// Hover over the decoration highlights it; press deletes it.
	s.Handle(PointerMove{PX: 40, PY: 40})
	if s.DeleteCandidate == nil || s.DeleteCandidate.Kind != CandidateDecoration || s.DeleteCandidate.ID != d.ID {
		t.Fatalf("candidate = %+v, want decoration %s", s.DeleteCandidate, d.ID)
	}
	s.Handle(PointerDown{PX: 40, PY: 40})
	if len(s.Overlay.Decorations) != 0 {
		t.Error("press should delete the highlighted decoration")
	}

	// The road's midpoint is on the n1–n2 segment.
	s.Handle(PointerMove{PX: 50, PY: 50})
	if s.DeleteCandidate == nil || s.DeleteCandidate.Kind != CandidateRoad || s.DeleteCandidate.ID != r.ID {
		t.Fatalf("candidate = %+v, want road %s", s.DeleteCandidate, r.ID)
	}
	s.Handle(PointerDown{PX: 50, PY: 50})
	if len(s.Overlay.CustomRoads) != 0 {
		t.Error("press should delete the highlighted road")
	}

	// Generated nodes are untouchable: hovering one yields no candidate,
	// and pressing does nothing.
	s.Handle(PointerMove{PX: 20, PY: 20})
	if s.DeleteCandidate != nil {
		t.Errorf("generated node must not be a delete candidate: %+v", s.DeleteCandidate)
	}
	s.Handle(PointerDown{PX: 20, PY: 20})
	if len(s.Nodes()) != 2 {
		t.Error("delete must never remove generated nodes")
	}
}

func TestSetToolClearsPendingState(t *testing.T) {
	s := testSession(nil)
	s.SetTool(ToolRoad)
	s.Handle(PointerDown{PX: 20, PY: 20})
	if s.PendingRoadID == "" {
		t.Fatal("setup failed: no pending road")
	}

	s.SetTool(ToolMove)
	if s.PendingRoadID != "" {
		t.Error("switching tools should clear the pending road")
	}
}

func TestKeyboardAffordances(t *testing.T) {
	s := testSession(nil)

	s.Handle(KeyPress{Key: KeyPanRight})
	if s.Viewport.X <= 0 {
		t.Error("pan-right key should move the viewport")
	}

	w := s.Viewport.W
	s.Handle(KeyPress{Key: KeyZoomIn})
	if s.Viewport.W >= w {
		t.Error("zoom-in key should shrink the window")
	}

	// Escape with a pending road clears it without requesting close.
	s.SetTool(ToolRoad)
	s.Handle(PointerDown{PX: 20, PY: 20})
	s.Handle(KeyPress{Key: KeyEscape})
	if s.PendingRoadID != "" {
		t.Error("escape should cancel the pending road")
	}
	if s.CloseRequested {
		t.Error("escape with pending state should not request close")
	}

	// Escape with nothing pending requests close.
	s.Handle(KeyPress{Key: KeyEscape})
	if !s.CloseRequested {
		t.Error("escape with nothing pending should request close")
	}
}

func TestInputFocusSuppressesKeys(t *testing.T) {
	s := testSession(nil)
	s.InputFocused = true

	s.Handle(KeyPress{Key: KeyPanRight})
	s.Handle(KeyPress{Key: KeyEscape})

	if s.Viewport.X != 0 || s.CloseRequested {
		t.Error("keys must be inert while a text input has focus")
	}
}

func TestUndoAllRestoresBaseline(t *testing.T) {
	st := overlay.NewState()
	st.AddDecoration(overlay.KindHill, 10, 10, 8, 1)
	s := testSession(st)

	s.SetTool(ToolDecorate)
	s.Handle(PointerDown{PX: 30, PY: 30})
	s.SetTool(ToolMove)
	s.Handle(PointerDown{PX: 20, PY: 20})
	s.Handle(PointerMove{PX: 60, PY: 60})
	s.Handle(PointerUp{})
	if !s.Dirty() {
		t.Fatal("setup failed: session should be dirty")
	}

	s.Handle(KeyPress{Key: KeyUndoAll})

	if s.Dirty() {
		t.Error("undo-all should restore the loaded state")
	}
	if len(s.Overlay.Decorations) != 1 {
		t.Errorf("undo-all kept %d decorations, want the 1 loaded", len(s.Overlay.Decorations))
	}
	if len(s.Overlay.PositionOverrides) != 0 {
		t.Error("undo-all should drop unsaved overrides")
	}
}

// failingStore errors on every write.
type failingStore struct{ overlay.Store }

func (failingStore) Save(ctx context.Context, key string, s *overlay.State) error {
	return apperrors.New(apperrors.ErrCodeStore, "disk full")
}

func TestSave(t *testing.T) {
	ctx := t.Context()

	t.Run("success updates baseline", func(t *testing.T) {
		s := testSession(nil)
		s.SetTool(ToolDecorate)
		s.Handle(PointerDown{PX: 30, PY: 30})
		if !s.Dirty() {
			t.Fatal("setup failed")
		}

		s.Save(ctx, overlay.NewMemoryStore(), "default")
		if s.Status != StatusSaved {
			t.Errorf("status %q, want saved", s.Status)
		}
		if s.Dirty() {
			t.Error("a saved session should not be dirty")
		}
	})

	t.Run("failure surfaces as status", func(t *testing.T) {
		s := testSession(nil)
		s.Save(ctx, failingStore{}, "default")
		if s.Status != StatusError {
			t.Errorf("status %q, want error", s.Status)
		}
		if s.StatusMessage == "" {
			t.Error("failed save should carry a message")
		}
	})
}
