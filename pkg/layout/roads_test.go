package layout

import (
	"fmt"
	"testing"

	"github.com/mhagen/loreatlas/pkg/world"
)

func hasEdge(edges []Edge, a, b string) bool {
	for _, e := range edges {
		if (e.FromID == a && e.ToID == b) || (e.FromID == b && e.ToID == a) {
			return true
		}
	}
	return false
}

func TestBuildRoadsParentEdges(t *testing.T) {
	locs := testWorld()
	nodes := Generate(locs, Options{})
	edges := BuildRoads(nodes, locs)

	// Cities and towns connect to their parents.
	if !hasEdge(edges, "northshore", "westmarch") {
		t.Error("missing city→province edge")
	}
	if !hasEdge(edges, "midvale", "westmarch") {
		t.Error("missing city→province edge")
	}
	if !hasEdge(edges, "milldale", "midvale") {
		t.Error("missing town→city edge")
	}

	// The province→country transition is suppressed.
	if hasEdge(edges, "westmarch", "ardenia") || hasEdge(edges, "eastvale", "ardenia") {
		t.Error("province→country edges should be suppressed")
	}

	// Orphans and standalone locations get no parent edge.
	for _, e := range edges {
		if e.FromID == "ghostmarch" || e.ToID == "ghostmarch" {
			t.Error("orphan should have no parent edge")
		}
		if e.FromID == "thewild" || e.ToID == "thewild" {
			t.Error("standalone should have no edge")
		}
	}
}

func TestBuildRoadsProvinceMesh(t *testing.T) {
	locs := testWorld()
	nodes := Generate(locs, Options{})
	edges := BuildRoads(nodes, locs)

	// Two sibling provinces: nearest-1 each way deduplicates to one edge.
	count := 0
	for _, e := range edges {
		if hasEdge([]Edge{e}, "westmarch", "eastvale") {
			count++
		}
	}
	if count != 1 {
		t.Errorf("sibling provinces should share exactly one mesh edge, got %d", count)
	}
}

func TestBuildRoadsLargeMesh(t *testing.T) {
	locs := []world.Location{
		{ID: "realm", Name: "Realm", Tier: world.TierCountry},
	}
	for i := 0; i < 5; i++ {
		locs = append(locs, world.Location{
			ID:       fmt.Sprintf("prov%d", i),
			Name:     fmt.Sprintf("Province %d", i),
			Tier:     world.TierProvince,
			ParentID: "realm",
		})
	}

	nodes := Generate(locs, Options{})
	edges := BuildRoads(nodes, locs)

	// No self-loops, no duplicates in either direction.
	seen := map[[2]string]bool{}
	for _, e := range edges {
		if e.FromID == e.ToID {
			t.Errorf("self-loop edge on %s", e.FromID)
		}
		key := [2]string{e.FromID, e.ToID}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if seen[key] {
			t.Errorf("duplicate edge %v", key)
		}
		seen[key] = true
	}

	// Groups larger than three connect to their two nearest siblings: at
	// least two incident mesh edges per province after dedup.
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("prov%d", i)
		incident := 0
		for _, e := range edges {
			if e.FromID == id || e.ToID == id {
				incident++
			}
		}
		if incident < 2 {
			t.Errorf("province %s has %d mesh edges, want at least 2", id, incident)
		}
	}
}

func TestBuildRoadsEmpty(t *testing.T) {
	if edges := BuildRoads(nil, nil); len(edges) != 0 {
		t.Errorf("no nodes should yield no edges, got %d", len(edges))
	}
}

func TestDistance(t *testing.T) {
	a := Node{X: 0, Y: 0}
	b := Node{X: 3, Y: 4}
	if d := Distance(a, b); d != 5 {
		t.Errorf("Distance = %f, want 5", d)
	}
}
