package editor

import "github.com/mhagen/loreatlas/pkg/layout"

// =============================================================================
// Viewport - World Window over the Display Surface
// =============================================================================

// Zoom clamp bounds on the viewport width. An attempted zoom outside the
// range is silently ignored.
const (
	MinExtent = 100.0
	MaxExtent = 8000.0
)

// fitMargin pads the fitted viewport around the node bounding box.
const fitMargin = 60.0

// Viewport is the rectangular world-space window currently mapped onto the
// fixed-size display surface.
type Viewport struct {
	X, Y float64 // world position of the top-left corner
	W, H float64 // world extent
}

// ToWorld maps a display-space point to world space. This is the single
// source of truth used by every tool.
func (v Viewport) ToWorld(px, py, dispW, dispH float64) (float64, float64) {
	if dispW <= 0 {
		dispW = 1
	}
	if dispH <= 0 {
		dispH = 1
	}
	return v.X + px/dispW*v.W, v.Y + py/dispH*v.H
}

// ToDisplay maps a world-space point back to display space, for hit
// highlighting and rendering.
func (v Viewport) ToDisplay(wx, wy, dispW, dispH float64) (float64, float64) {
	if v.W == 0 || v.H == 0 {
		return 0, 0
	}
	return (wx - v.X) / v.W * dispW, (wy - v.Y) / v.H * dispH
}

// Panned shifts the window by a display-space delta scaled to world units,
// so panning speed is resolution-independent.
func (v Viewport) Panned(dxPix, dyPix, dispW, dispH float64) Viewport {
	if dispW <= 0 {
		dispW = 1
	}
	if dispH <= 0 {
		dispH = 1
	}
	v.X += dxPix * v.W / dispW
	v.Y += dyPix * v.H / dispH
	return v
}

// ZoomedAt scales the window by factor, keeping the world point under the
// display-space point (px, py) fixed. A result outside the extent clamp is
// dropped: the unchanged viewport is returned and no error surfaces.
func (v Viewport) ZoomedAt(factor, px, py, dispW, dispH float64) Viewport {
	newW := v.W * factor
	newH := v.H * factor
	if newW < MinExtent || newW > MaxExtent {
		return v
	}

	wx, wy := v.ToWorld(px, py, dispW, dispH)
	if dispW <= 0 {
		dispW = 1
	}
	if dispH <= 0 {
		dispH = 1
	}

	return Viewport{
		X: wx - px/dispW*newW,
		Y: wy - py/dispH*newH,
		W: newW,
		H: newH,
	}
}

// Zoomed scales the window around its center, for keyboard zoom.
func (v Viewport) Zoomed(factor, dispW, dispH float64) Viewport {
	return v.ZoomedAt(factor, dispW/2, dispH/2, dispW, dispH)
}

// FitViewport frames the node set with a margin, preserving equal world
// extent per display axis. An empty node set yields the default window
// around the world center.
func FitViewport(nodes []layout.Node) Viewport {
	if len(nodes) == 0 {
		return Viewport{
			X: layout.CenterX - 500, Y: layout.CenterY - 500,
			W: 1000, H: 1000,
		}
	}

	minX, minY := nodes[0].X, nodes[0].Y
	maxX, maxY := nodes[0].X, nodes[0].Y
	for _, n := range nodes[1:] {
		minX = min(minX, n.X)
		minY = min(minY, n.Y)
		maxX = max(maxX, n.X)
		maxY = max(maxY, n.Y)
	}

	w := maxX - minX + 2*fitMargin
	h := maxY - minY + 2*fitMargin
	ext := max(max(w, h), MinExtent)

	cx := (minX + maxX) / 2
	cy := (minY + maxY) / 2
	return Viewport{X: cx - ext/2, Y: cy - ext/2, W: ext, H: ext}
}
