package editor

// Event is a display-space input event fed to the session. The bubbletea
// wrapper (or any other surface) translates its native events into these;
// the session itself never sees terminal or pointer APIs.
type Event interface{ isEvent() }

// PointerDown is a press at a display-space point. Modifier reports
// whether the pan modifier is held, which makes the press pan the viewport
// regardless of the selected tool.
type PointerDown struct {
	PX, PY   float64
	Modifier bool
}

// PointerMove is pointer movement at high frequency; each one performs an
// O(1) state update.
type PointerMove struct {
	PX, PY float64
}

// PointerUp ends a drag or pan.
type PointerUp struct {
	PX, PY float64
}

// Wheel is a zoom gesture toward the pointer. Delta > 0 zooms in.
type Wheel struct {
	PX, PY float64
	Delta  float64
}

// KeyPress is a controller-level keyboard affordance. Keys are the
// normalized names below.
type KeyPress struct {
	Key string
}

// Keyboard affordance names.
const (
	KeyZoomIn   = "zoom_in"
	KeyZoomOut  = "zoom_out"
	KeyPanLeft  = "pan_left"
	KeyPanRight = "pan_right"
	KeyPanUp    = "pan_up"
	KeyPanDown  = "pan_down"
	KeyEscape   = "escape"
	KeyUndoAll  = "undo_all"
)

func (PointerDown) isEvent() {}
func (PointerMove) isEvent() {}
func (PointerUp) isEvent()   {}
func (Wheel) isEvent()       {}
func (KeyPress) isEvent()    {}
