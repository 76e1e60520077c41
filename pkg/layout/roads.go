package layout

import (
	"math"
	"sort"

	"github.com/mhagen/loreatlas/pkg/world"
)

// =============================================================================
// Road Graph Builder
// =============================================================================

// Edge is an unordered road between two positioned nodes. Edges are never
// persisted; they are recomputed from the node set every time.
type Edge struct {
	FromID string `json:"from_id" bson:"from_id"`
	ToID   string `json:"to_id" bson:"to_id"`
}

// meshNeighbors controls how many nearest siblings each province connects
// to inside its country group.
const (
	meshSmallGroup     = 3 // groups of at most this size
	meshNeighborsSmall = 1
	meshNeighborsLarge = 2
)

// BuildRoads builds the road graph over positioned nodes:
//
//   - every node with a resolvable positioned parent gets an edge to that
//     parent, except the province→country transition, which is suppressed
//     (provinces connect to each other, not radially to the country);
//   - sibling provinces under the same country form a nearest-neighbor
//     mesh: nearest 1 for groups of ≤3, nearest 2 for larger groups.
//
// All edges are undirected and deduplicated; the graph is not necessarily
// connected or planar.
func BuildRoads(nodes []Node, locs []world.Location) []Edge {
	byID := world.ByID(locs)
	positioned := make(map[string]point, len(nodes))
	for _, n := range nodes {
		positioned[n.ID] = point{x: n.X, y: n.Y}
	}

	dedup := newEdgeSet()
	var edges []Edge

	// Parent-child edges, with the one suppressed tier transition.
	for _, n := range nodes {
		loc, ok := byID[n.ID]
		if !ok || loc.ParentID == "" {
			continue
		}
		parent, ok := byID[loc.ParentID]
		if !ok {
			continue
		}
		if _, ok := positioned[parent.ID]; !ok {
			continue
		}
		if loc.Tier == world.TierProvince && parent.Tier == world.TierCountry {
			continue
		}
		if dedup.add(n.ID, parent.ID) {
			edges = append(edges, Edge{FromID: n.ID, ToID: parent.ID})
		}
	}

	// Sibling-province mesh, grouped by parent country.
	for _, grp := range provinceGroups(nodes, byID) {
		if len(grp) < 2 {
			continue
		}
		wanted := meshNeighborsSmall
		if len(grp) > meshSmallGroup {
			wanted = meshNeighborsLarge
		}

		for _, id := range grp {
			p := positioned[id]
			neighbors := make([]string, 0, len(grp)-1)
			for _, other := range grp {
				if other != id {
					neighbors = append(neighbors, other)
				}
			}
			sort.SliceStable(neighbors, func(a, b int) bool {
				pa, pb := positioned[neighbors[a]], positioned[neighbors[b]]
				return dist2(p, pa) < dist2(p, pb)
			})

			for i := 0; i < wanted && i < len(neighbors); i++ {
				if dedup.add(id, neighbors[i]) {
					edges = append(edges, Edge{FromID: id, ToID: neighbors[i]})
				}
			}
		}
	}

	return edges
}

// provinceGroups collects positioned province IDs per parent country, in
// node order.
func provinceGroups(nodes []Node, byID map[string]*world.Location) [][]string {
	var groups [][]string
	index := make(map[string]int)

	for _, n := range nodes {
		loc, ok := byID[n.ID]
		if !ok || loc.Tier != world.TierProvince || loc.ParentID == "" {
			continue
		}
		parent, ok := byID[loc.ParentID]
		if !ok || parent.Tier != world.TierCountry {
			continue
		}
		gi, ok := index[parent.ID]
		if !ok {
			gi = len(groups)
			index[parent.ID] = gi
			groups = append(groups, nil)
		}
		groups[gi] = append(groups[gi], n.ID)
	}

	return groups
}

func dist2(a, b point) float64 {
	dx, dy := a.x-b.x, a.y-b.y
	return dx*dx + dy*dy
}

// edgeSet deduplicates undirected edges: {A,B} and {B,A} are the same edge.
type edgeSet struct {
	seen map[[2]string]struct{}
}

func newEdgeSet() *edgeSet {
	return &edgeSet{seen: make(map[[2]string]struct{})}
}

// add records the edge and reports whether it was new. Self-loops are
// rejected.
func (s *edgeSet) add(a, b string) bool {
	if a == b {
		return false
	}
	key := [2]string{a, b}
	if b < a {
		key = [2]string{b, a}
	}
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Distance returns the Euclidean distance between two nodes, exposed for
// sinks that want to scale stroke width by span.
func Distance(a, b Node) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
