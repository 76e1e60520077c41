package render

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/mhagen/loreatlas/pkg/errors"
	"github.com/mhagen/loreatlas/pkg/scene"
)

// ToDOT converts the scene's road graph to Graphviz DOT format, mainly
// useful for inspecting graph shape (connectivity, the province mesh)
// independent of the computed coordinates.
func ToDOT(s scene.Scene) string {
	var buf bytes.Buffer
	buf.WriteString("graph roads {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=cornsilk, fontsize=10];\n")
	buf.WriteString("\n")

	nodes := append([]scene.Node(nil), s.Nodes...)
	slices.SortFunc(nodes, func(a, b scene.Node) int {
		return cmp.Compare(a.ID, b.ID)
	})

	for _, n := range nodes {
		label := n.Name
		if n.Tier != "" {
			label = fmt.Sprintf("%s\n(%s)", n.Name, n.Tier)
		}
		// Pinned positions let neato reproduce the computed layout.
		fmt.Fprintf(&buf, "  %q [label=%q, pos=\"%.1f,%.1f!\"];\n", n.ID, label, n.X/72, -n.Y/72)
	}

	buf.WriteString("\n")
	edges := append([]scene.Edge(nil), s.Edges...)
	slices.SortFunc(edges, func(a, b scene.Edge) int {
		if c := cmp.Compare(a.FromID, b.FromID); c != 0 {
			return c
		}
		return cmp.Compare(a.ToID, b.ToID)
	})

	for _, e := range edges {
		attrs := ""
		if e.Style != "" {
			attrs = fmt.Sprintf(" [label=%q]", e.Style)
		}
		fmt.Fprintf(&buf, "  %q -- %q%s;\n", e.FromID, e.ToID, attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOTSVG renders a DOT graph to SVG using Graphviz.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render DOT")
	}
	return buf.Bytes(), nil
}

// Formats supported by the artifact writer.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
	FormatDOT:  true,
}

// ValidateFormats checks that all requested formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat,
				"invalid format: %q (must be one of: %s)", f, strings.Join([]string{FormatJSON, FormatSVG, FormatDOT}, ", "))
		}
	}
	return nil
}
