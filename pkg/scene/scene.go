// Package scene combines a generated layout with the override state into
// the final node/edge/decoration set handed to a drawing sink.
//
// Merge is pure and holds no state of its own: it is re-run on every state
// change. The Scene type doubles as the serialization format of the
// rendering-sink contract.
package scene

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mhagen/loreatlas/pkg/layout"
	"github.com/mhagen/loreatlas/pkg/observability"
	"github.com/mhagen/loreatlas/pkg/overlay"
	"github.com/mhagen/loreatlas/pkg/world"
)

// =============================================================================
// Types - Rendering Sink Contract
// =============================================================================

// Node is a final positioned node: generated position unless overridden.
type Node struct {
	ID        string     `json:"id" bson:"id"`
	Name      string     `json:"name" bson:"name"`
	Tier      world.Tier `json:"tier,omitempty" bson:"tier,omitempty"`
	X         float64    `json:"x" bson:"x"`
	Y         float64    `json:"y" bson:"y"`
	Residents []string   `json:"residents,omitempty" bson:"residents,omitempty"`
}

// Edge is a final road. Style is empty for generated edges and one of the
// custom road styles otherwise; the sink maps style to stroke weight.
type Edge struct {
	FromID string `json:"from_id" bson:"from_id"`
	ToID   string `json:"to_id" bson:"to_id"`
	Style  string `json:"style,omitempty" bson:"style,omitempty"`
}

// Decoration mirrors overlay.Decoration in the sink contract.
type Decoration struct {
	Kind string  `json:"kind" bson:"kind"`
	X    float64 `json:"x" bson:"x"`
	Y    float64 `json:"y" bson:"y"`
	Size float64 `json:"size" bson:"size"`
	Seed uint32  `json:"seed" bson:"seed"`
}

// Scene is the merged result handed to the drawing sink.
type Scene struct {
	Nodes       []Node       `json:"nodes" bson:"nodes"`
	Edges       []Edge       `json:"edges" bson:"edges"`
	Decorations []Decoration `json:"decorations,omitempty" bson:"decorations,omitempty"`

	// BlendAutoTerrain is passed through for the sink: when true the sink
	// layers its own ambient terrain generation under the decorations.
	BlendAutoTerrain bool `json:"blend_auto_terrain" bson:"blend_auto_terrain"`

	// Seed is the layout seed the nodes were generated with.
	Seed uint64 `json:"seed,omitempty" bson:"seed,omitempty"`
}

// =============================================================================
// Merge Adapter
// =============================================================================

// Merge combines generated nodes and edges with the override state.
//
//   - A node's final position is its override if present, else the
//     generated position.
//   - The edge set is the generated edges plus the custom roads, with no
//     dedup between the two sources: a custom road parallel to a generated
//     one renders twice, in visually distinct styles.
//   - Custom roads whose endpoints are not in the node set are dropped —
//     there is no position to resolve them to.
func Merge(nodes []layout.Node, edges []layout.Edge, st *overlay.State) Scene {
	if st == nil {
		st = overlay.NewState()
	}

	out := Scene{
		Nodes:            make([]Node, 0, len(nodes)),
		Edges:            make([]Edge, 0, len(edges)+len(st.CustomRoads)),
		BlendAutoTerrain: st.BlendAutoTerrain,
		Seed:             st.LayoutSeed,
	}

	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		x, y := n.X, n.Y
		if p, ok := st.PositionOverrides[n.ID]; ok {
			x, y = p.X, p.Y
		}
		out.Nodes = append(out.Nodes, Node{
			ID:        n.ID,
			Name:      n.Name,
			Tier:      n.Tier,
			X:         x,
			Y:         y,
			Residents: n.Residents,
		})
		present[n.ID] = true
	}

	for _, e := range edges {
		out.Edges = append(out.Edges, Edge{FromID: e.FromID, ToID: e.ToID})
	}

	for _, r := range st.CustomRoads {
		if !present[r.FromLocationID] || !present[r.ToLocationID] {
			continue
		}
		out.Edges = append(out.Edges, Edge{
			FromID: r.FromLocationID,
			ToID:   r.ToLocationID,
			Style:  r.Style,
		})
	}

	for _, d := range st.Decorations {
		out.Decorations = append(out.Decorations, Decoration{
			Kind: d.Kind, X: d.X, Y: d.Y, Size: d.Size, Seed: d.Seed,
		})
	}

	return out
}

// Build runs the full generation pass for a location set and merges the
// overrides in: the one-call path used by the CLI and the scene server.
func Build(ctx context.Context, locs []world.Location, st *overlay.State) Scene {
	if st == nil {
		st = overlay.NewState()
	}

	observability.Layout().OnGenerateStart(ctx, len(locs))
	start := time.Now()
	nodes := layout.Generate(locs, layout.Options{Seed: st.LayoutSeed})
	observability.Layout().OnGenerateComplete(ctx, len(nodes), time.Since(start), nil)

	start = time.Now()
	edges := layout.BuildRoads(nodes, locs)
	observability.Layout().OnRoadsBuilt(ctx, len(edges), time.Since(start))

	return Merge(nodes, edges, st)
}

// Marshal serializes a scene to pretty-printed JSON.
func Marshal(s Scene) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Scene.
func Unmarshal(data []byte) (Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return Scene{}, err
	}
	return s, nil
}

// NodeByID returns the merged node with the given id, if present.
func (s *Scene) NodeByID(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}
