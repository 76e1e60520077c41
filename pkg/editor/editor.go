// Package editor implements the interactive editing session over a
// generated map: tool modes, viewport pan/zoom, drag-to-reposition, and
// the commit logic that turns pointer gestures into override-state edits.
//
// The session is an explicit finite-state object with one transition
// method per event type. It knows nothing about terminals or pointers —
// the surface (internal/cli wraps it in bubbletea) feeds it display-space
// [Event] values and reads the state back to render.
package editor

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/mhagen/loreatlas/pkg/layout"
	"github.com/mhagen/loreatlas/pkg/overlay"
)

// =============================================================================
// Constants
// =============================================================================

// Tool is the exclusive interactive behavior currently active.
type Tool string

// Tool modes. Switching modes clears any in-progress multi-step action.
const (
	ToolView     Tool = "view"
	ToolMove     Tool = "move"
	ToolDecorate Tool = "decorate"
	ToolRoad     Tool = "road"
	ToolDelete   Tool = "delete"
)

// SaveStatus is the transient persistence indicator.
type SaveStatus string

// Save statuses. Error means the write failed and the user must save
// again; there is no automatic retry.
const (
	StatusIdle   SaveStatus = "idle"
	StatusSaving SaveStatus = "saving"
	StatusSaved  SaveStatus = "saved"
	StatusError  SaveStatus = "error"
)

// Candidate kinds for the delete tool. Only overlay items can be deleted;
// generated nodes and roads are untouchable.
const (
	CandidateDecoration = "decoration"
	CandidateRoad       = "road"
)

// Gesture tuning, in display-space units.
const (
	nodeHitRadiusPix  = 2.5
	decorHitRadiusPix = 2.5
	roadHitRadiusPix  = 1.5
	panStepPix        = 6.0

	wheelZoomIn  = 0.9
	wheelZoomOut = 1.1
	keyZoomIn    = 0.8
	keyZoomOut   = 1.25

	defaultDecorationSize = 12.0
)

// =============================================================================
// Session
// =============================================================================

// Candidate is the overlay item currently highlighted for deletion.
type Candidate struct {
	Kind string // CandidateDecoration or CandidateRoad
	ID   string
}

// dragState tracks an in-progress node drag: the world-space offset
// between the pointer and the node position at press time.
type dragState struct {
	nodeID     string
	offX, offY float64
}

// Session is the editor's full interactive state. It mutates only the
// override state, never the generated layout: overrides are merged back
// over the generated positions on every render.
type Session struct {
	Tool     Tool
	Viewport Viewport
	Overlay  *overlay.State

	// Selected parameters for the decorate and road tools.
	DecorationKind string
	DecorationSize float64
	RoadStyle      string

	// PendingRoadID is the road tool's selected start location, empty when
	// no road is in progress.
	PendingRoadID string

	// DeleteCandidate is the item highlighted under the pointer in delete
	// mode, nil when nothing is in range.
	DeleteCandidate *Candidate

	// Status reflects the last explicit save. StatusMessage carries the
	// user-facing error text when Status is StatusError.
	Status        SaveStatus
	StatusMessage string

	// InputFocused suppresses keyboard affordances while a text input has
	// focus.
	InputFocused bool

	// CloseRequested is set by escape when nothing was pending; the
	// surface decides what closing means.
	CloseRequested bool

	dispW, dispH float64
	nodes        []layout.Node
	nodeIndex    map[string]int

	drag         *dragState
	panning      bool
	modifierPan  bool
	lastPX       float64
	lastPY       float64
	baseline     *overlay.State
	seedFn       func() uint32
}

// NewSession starts an editing session over a generated node set and a
// loaded override state. The viewport starts fitted to the merged node
// positions.
func NewSession(nodes []layout.Node, st *overlay.State, dispW, dispH float64) *Session {
	if st == nil {
		st = overlay.NewState()
	}
	s := &Session{
		Tool:           ToolView,
		Overlay:        st,
		DecorationKind: overlay.KindTree,
		DecorationSize: defaultDecorationSize,
		RoadStyle:      overlay.StylePath,
		Status:         StatusIdle,
		dispW:          dispW,
		dispH:          dispH,
		baseline:       st.Clone(),
		seedFn:         rand.Uint32,
	}
	s.SetNodes(nodes)
	s.Viewport = FitViewport(nodes)
	return s
}

// SetNodes replaces the generated node set, e.g. after the location list
// changed or the layout seed was bumped. Overrides survive untouched.
func (s *Session) SetNodes(nodes []layout.Node) {
	s.nodes = nodes
	s.nodeIndex = make(map[string]int, len(nodes))
	for i, n := range nodes {
		s.nodeIndex[n.ID] = i
	}
}

// Nodes returns the current generated node set.
func (s *Session) Nodes() []layout.Node { return s.nodes }

// SetDisplaySize updates the display surface dimensions on resize.
func (s *Session) SetDisplaySize(w, h float64) {
	s.dispW, s.dispH = w, h
}

// NodePosition returns a node's effective position: the override if one
// exists, else the generated position.
func (s *Session) NodePosition(id string) (float64, float64, bool) {
	i, ok := s.nodeIndex[id]
	if !ok {
		return 0, 0, false
	}
	if p, ok := s.Overlay.PositionOverrides[id]; ok {
		return p.X, p.Y, true
	}
	return s.nodes[i].X, s.nodes[i].Y, true
}

// SetTool switches the active tool and clears any in-progress multi-step
// action: a pending road start, a drag, a pan, a delete candidate.
func (s *Session) SetTool(t Tool) {
	s.Tool = t
	s.PendingRoadID = ""
	s.DeleteCandidate = nil
	s.drag = nil
	s.panning = false
	s.modifierPan = false
}

// =============================================================================
// Event Transitions
// =============================================================================

// Handle dispatches one event to its transition.
func (s *Session) Handle(ev Event) {
	switch e := ev.(type) {
	case PointerDown:
		s.pointerDown(e)
	case PointerMove:
		s.pointerMove(e)
	case PointerUp:
		s.pointerUp(e)
	case Wheel:
		s.wheel(e)
	case KeyPress:
		s.keyPress(e)
	}
}

func (s *Session) pointerDown(e PointerDown) {
	// The pan modifier activates view behavior transiently in any tool.
	if e.Modifier || s.Tool == ToolView {
		s.panning = true
		s.modifierPan = e.Modifier
		s.lastPX, s.lastPY = e.PX, e.PY
		return
	}

	wx, wy := s.Viewport.ToWorld(e.PX, e.PY, s.dispW, s.dispH)

	switch s.Tool {
	case ToolMove:
		if id, ok := s.hitNode(wx, wy); ok {
			nx, ny, _ := s.NodePosition(id)
			s.drag = &dragState{nodeID: id, offX: wx - nx, offY: wy - ny}
		}

	case ToolDecorate:
		// Each press appends one decoration; drags place nothing extra.
		s.Overlay.AddDecoration(s.DecorationKind, wx, wy, s.DecorationSize, s.seedFn())

	case ToolRoad:
		id, ok := s.hitNode(wx, wy)
		if !ok {
			return
		}
		if s.PendingRoadID == "" {
			s.PendingRoadID = id
			return
		}
		if id == s.PendingRoadID {
			// Same node twice: no self-loop, nothing committed.
			return
		}
		s.Overlay.AddRoad(s.PendingRoadID, id, s.RoadStyle)
		s.PendingRoadID = ""

	case ToolDelete:
		if s.DeleteCandidate == nil {
			return
		}
		switch s.DeleteCandidate.Kind {
		case CandidateDecoration:
			s.Overlay.RemoveDecoration(s.DeleteCandidate.ID)
		case CandidateRoad:
			s.Overlay.RemoveRoad(s.DeleteCandidate.ID)
		}
		s.DeleteCandidate = nil
	}
}

func (s *Session) pointerMove(e PointerMove) {
	if s.panning {
		s.Viewport = s.Viewport.Panned(s.lastPX-e.PX, s.lastPY-e.PY, s.dispW, s.dispH)
		s.lastPX, s.lastPY = e.PX, e.PY
		return
	}

	wx, wy := s.Viewport.ToWorld(e.PX, e.PY, s.dispW, s.dispH)

	switch s.Tool {
	case ToolMove:
		if s.drag != nil {
			// Every frame writes the override; the generated position is
			// never mutated.
			s.Overlay.SetOverride(s.drag.nodeID, wx-s.drag.offX, wy-s.drag.offY)
		}

	case ToolDelete:
		s.DeleteCandidate = s.hitOverlayItem(wx, wy)
	}
}

func (s *Session) pointerUp(PointerUp) {
	s.drag = nil
	if s.panning {
		s.panning = false
		s.modifierPan = false
	}
}

func (s *Session) wheel(e Wheel) {
	factor := wheelZoomOut
	if e.Delta > 0 {
		factor = wheelZoomIn
	}
	s.Viewport = s.Viewport.ZoomedAt(factor, e.PX, e.PY, s.dispW, s.dispH)
}

func (s *Session) keyPress(e KeyPress) {
	if s.InputFocused {
		return
	}

	switch e.Key {
	case KeyZoomIn:
		s.Viewport = s.Viewport.Zoomed(keyZoomIn, s.dispW, s.dispH)
	case KeyZoomOut:
		s.Viewport = s.Viewport.Zoomed(keyZoomOut, s.dispW, s.dispH)
	case KeyPanLeft:
		s.Viewport = s.Viewport.Panned(-panStepPix, 0, s.dispW, s.dispH)
	case KeyPanRight:
		s.Viewport = s.Viewport.Panned(panStepPix, 0, s.dispW, s.dispH)
	case KeyPanUp:
		s.Viewport = s.Viewport.Panned(0, -panStepPix, s.dispW, s.dispH)
	case KeyPanDown:
		s.Viewport = s.Viewport.Panned(0, panStepPix, s.dispW, s.dispH)
	case KeyEscape:
		if s.PendingRoadID != "" || s.drag != nil {
			s.PendingRoadID = ""
			s.drag = nil
			return
		}
		s.CloseRequested = true
	case KeyUndoAll:
		s.Reset()
	}
}

// =============================================================================
// Persistence
// =============================================================================

// Save writes the override state through the store and updates the status
// flag. A failure surfaces as StatusError with a message; no exception
// propagates and no retry occurs — the user must save again.
func (s *Session) Save(ctx context.Context, store overlay.Store, key string) {
	s.Status = StatusSaving
	if err := store.Save(ctx, key, s.Overlay); err != nil {
		s.Status = StatusError
		s.StatusMessage = err.Error()
		return
	}
	s.Status = StatusSaved
	s.StatusMessage = ""
	s.baseline = s.Overlay.Clone()
}

// Reset discards all unsaved edits, restoring the state loaded at mount
// (or the last successful save).
func (s *Session) Reset() {
	s.Overlay = s.baseline.Clone()
	s.PendingRoadID = ""
	s.DeleteCandidate = nil
	s.drag = nil
}

// Dirty reports whether the session has unsaved edits.
func (s *Session) Dirty() bool {
	a, err1 := overlay.Encode(s.Overlay)
	b, err2 := overlay.Encode(s.baseline)
	if err1 != nil || err2 != nil {
		return true
	}
	return string(a) != string(b)
}

// =============================================================================
// Hit Testing
// =============================================================================

// hitRadiusWorld converts a display-space radius to world units at the
// current zoom.
func (s *Session) hitRadiusWorld(pix float64) float64 {
	w := s.dispW
	if w <= 0 {
		w = 1
	}
	return pix * s.Viewport.W / w
}

// hitNode finds the nearest node within the hit radius of a world point.
func (s *Session) hitNode(wx, wy float64) (string, bool) {
	radius := s.hitRadiusWorld(nodeHitRadiusPix)
	bestID := ""
	best := radius
	for _, n := range s.nodes {
		nx, ny, _ := s.NodePosition(n.ID)
		if d := math.Hypot(nx-wx, ny-wy); d <= best {
			best = d
			bestID = n.ID
		}
	}
	return bestID, bestID != ""
}

// hitOverlayItem finds the deletion candidate under a world point:
// decorations first, then custom roads by segment distance.
func (s *Session) hitOverlayItem(wx, wy float64) *Candidate {
	radius := s.hitRadiusWorld(decorHitRadiusPix)
	for i := len(s.Overlay.Decorations) - 1; i >= 0; i-- {
		d := s.Overlay.Decorations[i]
		if math.Hypot(d.X-wx, d.Y-wy) <= radius {
			return &Candidate{Kind: CandidateDecoration, ID: d.ID}
		}
	}

	roadRadius := s.hitRadiusWorld(roadHitRadiusPix)
	for i := len(s.Overlay.CustomRoads) - 1; i >= 0; i-- {
		r := s.Overlay.CustomRoads[i]
		x1, y1, ok1 := s.NodePosition(r.FromLocationID)
		x2, y2, ok2 := s.NodePosition(r.ToLocationID)
		if !ok1 || !ok2 {
			continue
		}
		if segmentDistance(wx, wy, x1, y1, x2, y2) <= roadRadius {
			return &Candidate{Kind: CandidateRoad, ID: r.ID}
		}
	}

	return nil
}

// segmentDistance is the distance from point p to segment ab.
func segmentDistance(px, py, ax, ay, bx, by float64) float64 {
	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px-ax, py-ay)
	}
	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(px-(ax+t*dx), py-(ay+t*dy))
}
