package render

import (
	"cmp"
	"slices"

	"github.com/mhagen/loreatlas/pkg/scene"
)

// RenderJSON serializes a scene through the sink contract with
// deterministic ordering: nodes by ID, edges by (from, to, style),
// decorations by ID order of placement (already stable).
func RenderJSON(s scene.Scene) ([]byte, error) {
	out := s
	out.Nodes = append([]scene.Node(nil), s.Nodes...)
	out.Edges = append([]scene.Edge(nil), s.Edges...)

	slices.SortFunc(out.Nodes, func(a, b scene.Node) int {
		return cmp.Compare(a.ID, b.ID)
	})
	slices.SortFunc(out.Edges, func(a, b scene.Edge) int {
		if c := cmp.Compare(a.FromID, b.FromID); c != 0 {
			return c
		}
		if c := cmp.Compare(a.ToID, b.ToID); c != 0 {
			return c
		}
		return cmp.Compare(a.Style, b.Style)
	})

	return scene.Marshal(out)
}
