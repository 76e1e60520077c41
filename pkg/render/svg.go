package render

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"

	"github.com/mhagen/loreatlas/pkg/layout"
	"github.com/mhagen/loreatlas/pkg/scene"
	"github.com/mhagen/loreatlas/pkg/world"
)

// Node radii per tier, in world units.
var tierRadius = map[world.Tier]float64{
	world.TierCountry:  14,
	world.TierProvince: 10,
	world.TierCity:     7,
	world.TierTown:     5,
	world.TierNone:     8,
}

// Stroke widths per road style. Generated edges get the dashed base style.
var styleStroke = map[string]float64{
	"":      1.5,
	"main":  3.5,
	"path":  2.0,
	"trail": 1.0,
}

const svgMargin = 40.0

// SVGOption configures the SVG sink.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	showLabels bool
	background string
}

// WithLabels renders location names next to their nodes.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.showLabels = true } }

// WithBackground sets a background fill color (default transparent).
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// RenderSVG paints a merged scene as a self-contained SVG. The viewBox is
// fitted to the node and decoration bounds with a margin, so the output is
// stable for a given scene regardless of any editor viewport.
func RenderSVG(s scene.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	nodes := append([]scene.Node(nil), s.Nodes...)
	slices.SortFunc(nodes, func(a, b scene.Node) int {
		return cmp.Compare(a.ID, b.ID)
	})

	minX, minY, maxX, maxY := sceneBounds(s)
	w := maxX - minX + 2*svgMargin
	h := maxY - minY + 2*svgMargin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		minX-svgMargin, minY-svgMargin, w, h, w, h)

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			minX-svgMargin, minY-svgMargin, w, h, r.background)
	}

	pos := make(map[string][2]float64, len(nodes))
	for _, n := range nodes {
		pos[n.ID] = [2]float64{n.X, n.Y}
	}

	renderEdges(&buf, s.Edges, pos)
	renderDecorations(&buf, s.Decorations)
	renderNodes(&buf, nodes, r.showLabels)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func sceneBounds(s scene.Scene) (minX, minY, maxX, maxY float64) {
	minX, minY = layout.CenterX, layout.CenterY
	maxX, maxY = layout.CenterX, layout.CenterY
	first := true
	grow := func(x, y float64) {
		if first {
			minX, minY, maxX, maxY = x, y, x, y
			first = false
			return
		}
		minX = min(minX, x)
		minY = min(minY, y)
		maxX = max(maxX, x)
		maxY = max(maxY, y)
	}
	for _, n := range s.Nodes {
		grow(n.X, n.Y)
	}
	for _, d := range s.Decorations {
		grow(d.X, d.Y)
	}
	return minX, minY, maxX, maxY
}

func renderEdges(buf *bytes.Buffer, edges []scene.Edge, pos map[string][2]float64) {
	sorted := append([]scene.Edge(nil), edges...)
	slices.SortFunc(sorted, func(a, b scene.Edge) int {
		if c := cmp.Compare(a.FromID, b.FromID); c != 0 {
			return c
		}
		return cmp.Compare(a.ToID, b.ToID)
	})

	for _, e := range sorted {
		from, okF := pos[e.FromID]
		to, okT := pos[e.ToID]
		if !okF || !okT {
			continue
		}

		stroke, ok := styleStroke[e.Style]
		if !ok {
			stroke = styleStroke["path"]
		}
		dash := ""
		if e.Style == "" {
			dash = ` stroke-dasharray="6,4"`
		} else if e.Style == "trail" {
			dash = ` stroke-dasharray="2,3"`
		}

		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#8a7b5c" stroke-width="%.1f"%s/>`+"\n",
			from[0], from[1], to[0], to[1], stroke, dash)
	}
}

// Decoration glyph colors. Size and seeded jitter give instances their
// individual look without any stored geometry.
var kindFill = map[string]string{
	"tree":  "#3f7a39",
	"rock":  "#6e6a63",
	"lake":  "#4a7fa8",
	"hill":  "#7d8f55",
	"shrub": "#5d8a4a",
}

func renderDecorations(buf *bytes.Buffer, decorations []scene.Decoration) {
	for _, d := range decorations {
		fill, ok := kindFill[d.Kind]
		if !ok {
			fill = "#777777"
		}

		// Seeded variation: a small deterministic squash per instance.
		squash := 0.8 + layout.SeededRandom(d.Seed)*0.4
		rx := d.Size / 2
		ry := rx * squash

		fmt.Fprintf(buf, `  <ellipse cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f" fill="%s" opacity="0.85"/>`+"\n",
			d.X, d.Y, rx, ry, fill)
	}
}

func renderNodes(buf *bytes.Buffer, nodes []scene.Node, labels bool) {
	for _, n := range nodes {
		radius, ok := tierRadius[n.Tier]
		if !ok {
			radius = tierRadius[world.TierNone]
		}
		fmt.Fprintf(buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="#d8cdb4" stroke="#4a4336" stroke-width="1.5"/>`+"\n",
			n.X, n.Y, radius)
		if labels {
			fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="11" font-family="serif" fill="#2d2a22">%s</text>`+"\n",
				n.X+radius+3, n.Y+4, escapeText(n.Name))
		}
	}
}

func escapeText(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
