package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mhagen/loreatlas/pkg/scene"
	"github.com/mhagen/loreatlas/pkg/world"
)

func testScene() scene.Scene {
	return scene.Scene{
		Nodes: []scene.Node{
			{ID: "b", Name: "Westmarch", Tier: world.TierProvince, X: 600, Y: 300},
			{ID: "a", Name: "Ardenia & Sons", Tier: world.TierCountry, X: 500, Y: 240},
		},
		Edges: []scene.Edge{
			{FromID: "b", ToID: "a"},
			{FromID: "a", ToID: "b", Style: "main"},
		},
		Decorations: []scene.Decoration{
			{Kind: "tree", X: 550, Y: 260, Size: 12, Seed: 3},
		},
		BlendAutoTerrain: true,
	}
}

func TestRenderJSONDeterministic(t *testing.T) {
	s := testScene()
	a, err := RenderJSON(s)
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	b, _ := RenderJSON(s)
	if !bytes.Equal(a, b) {
		t.Error("same scene should serialize identically")
	}

	// Nodes are sorted by ID regardless of input order.
	if bytes.Index(a, []byte(`"id": "a"`)) > bytes.Index(a, []byte(`"id": "b"`)) {
		t.Error("nodes should be sorted by ID")
	}

	// Sorting must not mutate the caller's scene.
	if s.Nodes[0].ID != "b" {
		t.Error("RenderJSON should not reorder the input slice")
	}
}

func TestRenderSVG(t *testing.T) {
	s := testScene()
	out := string(RenderSVG(s, WithLabels()))

	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Error("output should be a self-contained SVG document")
	}
	if !strings.Contains(out, "</svg>") {
		t.Error("missing closing tag")
	}

	// Two nodes, one decoration, two edges.
	if n := strings.Count(out, "<circle"); n != 2 {
		t.Errorf("%d circles, want 2", n)
	}
	if n := strings.Count(out, "<ellipse"); n != 1 {
		t.Errorf("%d ellipses, want 1", n)
	}
	if n := strings.Count(out, "<line"); n != 2 {
		t.Errorf("%d lines, want 2", n)
	}

	// Labels are escaped.
	if !strings.Contains(out, "Ardenia &amp; Sons") {
		t.Error("label text should be XML-escaped")
	}

	// The generated edge is dashed; the main road is wider.
	if !strings.Contains(out, `stroke-dasharray="6,4"`) {
		t.Error("generated edges should be dashed")
	}
	if !strings.Contains(out, `stroke-width="3.5"`) {
		t.Error("main roads should use the heavy stroke")
	}

	// Determinism.
	if string(RenderSVG(s, WithLabels())) != out {
		t.Error("same scene should render identically")
	}
}

func TestRenderSVGBackground(t *testing.T) {
	out := string(RenderSVG(testScene(), WithBackground("#f4eeda")))
	if !strings.Contains(out, `fill="#f4eeda"`) {
		t.Error("background option should emit a fill rect")
	}
}

func TestToDOT(t *testing.T) {
	out := ToDOT(testScene())

	if !strings.HasPrefix(out, "graph roads {") {
		t.Error("DOT output should be an undirected graph")
	}
	if !strings.Contains(out, `"a" -- "b"`) || !strings.Contains(out, `"b" -- "a"`) {
		t.Error("both edges should appear")
	}
	if !strings.Contains(out, `[label="main"]`) {
		t.Error("styled edges should carry a label")
	}
	if !strings.Contains(out, "pos=") {
		t.Error("nodes should pin their computed positions")
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{FormatJSON, FormatSVG, FormatDOT}); err != nil {
		t.Errorf("all supported formats rejected: %v", err)
	}
	if err := ValidateFormats([]string{"png"}); err == nil {
		t.Error("unsupported format should be rejected")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("empty list should pass: %v", err)
	}
}
