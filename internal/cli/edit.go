package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mhagen/loreatlas/pkg/editor"
	"github.com/mhagen/loreatlas/pkg/layout"
	"github.com/mhagen/loreatlas/pkg/overlay"
)

// newEditCmd creates the edit command: the interactive map editor.
func newEditCmd() *cobra.Command {
	var (
		locationsPath string
		mapKey        string
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Open the interactive map editor",
		Long: `Edit opens a full-screen editor over the generated map. Position
overrides, decorations, and custom roads are kept in an overlay merged
over the generated layout, and persisted only on an explicit save.

Tools: (v)iew pans, (m)ove drags nodes, (d)ecorate places terrain,
(r)oad draws roads between two nodes, (x) deletes overlay items.
Hold alt while dragging to pan from any tool. Press s to save.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			source, err := openSource(ctx, locationsPath, cfg)
			if err != nil {
				return err
			}
			defer source.Close(ctx)

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			locs, err := source.Load(ctx)
			if err != nil {
				return err
			}

			st, err := store.Load(ctx, mapKey)
			if err != nil {
				return err
			}
			if st.LayoutSeed == 0 {
				st.LayoutSeed = cfg.Seed
			}

			nodes := layout.Generate(locs, layout.Options{Seed: st.LayoutSeed})
			session := editor.NewSession(nodes, st, 80, 24)

			model := newEditorModel(ctx, session, store, mapKey)
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
			if _, err := p.Run(); err != nil {
				return err
			}

			logger.Info("Editor closed", "key", mapKey)
			return nil
		},
	}

	cmd.Flags().StringVarP(&locationsPath, "locations", "l", "", "locations JSON file (otherwise the configured mongo source)")
	cmd.Flags().StringVarP(&mapKey, "key", "k", "default", "map instance key for the overlay record")

	return cmd
}

// =============================================================================
// EditorModel - bubbletea wrapper around the editor session
// =============================================================================

// statusBarRows is the vertical space reserved below the map area.
const statusBarRows = 2

// Tier glyphs for the terminal map.
var tierGlyph = map[string]rune{
	"country":  '◉',
	"province": '◎',
	"city":     '○',
	"town":     '·',
	"":         '◇',
}

// Decoration glyphs.
var kindGlyph = map[string]rune{
	overlay.KindTree:  '♣',
	overlay.KindRock:  '▲',
	overlay.KindLake:  '≈',
	overlay.KindHill:  '∩',
	overlay.KindShrub: '"',
}

// decorationKindOrder cycles with the t key.
var decorationKindOrder = []string{
	overlay.KindTree, overlay.KindRock, overlay.KindLake, overlay.KindHill, overlay.KindShrub,
}

// roadStyleOrder cycles with the y key.
var roadStyleOrder = []string{overlay.StylePath, overlay.StyleMain, overlay.StyleTrail}

// EditorModel is the bubbletea model hosting an editor session.
type EditorModel struct {
	ctx     context.Context
	session *editor.Session
	store   overlay.Store
	mapKey  string

	width  int
	height int
}

func newEditorModel(ctx context.Context, s *editor.Session, store overlay.Store, mapKey string) EditorModel {
	return EditorModel{ctx: ctx, session: s, store: store, mapKey: mapKey, width: 80, height: 24}
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.session.SetDisplaySize(float64(m.mapWidth()), float64(m.mapHeight()))

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m EditorModel) mapWidth() int  { return m.width }
func (m EditorModel) mapHeight() int { return max(m.height-statusBarRows, 1) }

func (m EditorModel) handleMouse(msg tea.MouseMsg) {
	px, py := float64(msg.X), float64(msg.Y)
	if msg.Y >= m.mapHeight() {
		return
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.session.Handle(editor.Wheel{PX: px, PY: py, Delta: 1})
		return
	case tea.MouseButtonWheelDown:
		m.session.Handle(editor.Wheel{PX: px, PY: py, Delta: -1})
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.session.Handle(editor.PointerDown{PX: px, PY: py, Modifier: msg.Alt})
		}
	case tea.MouseActionMotion:
		m.session.Handle(editor.PointerMove{PX: px, PY: py})
	case tea.MouseActionRelease:
		m.session.Handle(editor.PointerUp{PX: px, PY: py})
	}
}

func (m EditorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	// Tool selection
	case "v":
		m.session.SetTool(editor.ToolView)
	case "m":
		m.session.SetTool(editor.ToolMove)
	case "d":
		m.session.SetTool(editor.ToolDecorate)
	case "r":
		m.session.SetTool(editor.ToolRoad)
	case "x":
		m.session.SetTool(editor.ToolDelete)

	// Tool parameters
	case "t":
		m.session.DecorationKind = cycle(decorationKindOrder, m.session.DecorationKind)
	case "y":
		m.session.RoadStyle = cycle(roadStyleOrder, m.session.RoadStyle)
	case "[":
		if m.session.DecorationSize > 4 {
			m.session.DecorationSize -= 2
		}
	case "]":
		m.session.DecorationSize += 2

	// Persistence
	case "s":
		m.session.Save(m.ctx, m.store, m.mapKey)

	// Controller-level affordances
	case "+", "=":
		m.session.Handle(editor.KeyPress{Key: editor.KeyZoomIn})
	case "-":
		m.session.Handle(editor.KeyPress{Key: editor.KeyZoomOut})
	case "left":
		m.session.Handle(editor.KeyPress{Key: editor.KeyPanLeft})
	case "right":
		m.session.Handle(editor.KeyPress{Key: editor.KeyPanRight})
	case "up":
		m.session.Handle(editor.KeyPress{Key: editor.KeyPanUp})
	case "down":
		m.session.Handle(editor.KeyPress{Key: editor.KeyPanDown})
	case "u":
		m.session.Handle(editor.KeyPress{Key: editor.KeyUndoAll})
	case "esc":
		m.session.Handle(editor.KeyPress{Key: editor.KeyEscape})
		if m.session.CloseRequested {
			return m, tea.Quit
		}
	}
	return m, nil
}

// cycle returns the element after cur, wrapping around.
func cycle(order []string, cur string) string {
	for i, v := range order {
		if v == cur {
			return order[(i+1)%len(order)]
		}
	}
	return order[0]
}

// =============================================================================
// View
// =============================================================================

func (m EditorModel) View() string {
	w, h := m.mapWidth(), m.mapHeight()
	grid := newCellGrid(w, h)

	s := m.session
	vp := s.Viewport
	dw, dh := float64(w), float64(h)

	// Roads first, as dim sampled dots, so markers draw over them.
	m.plotEdges(grid, dw, dh)

	for _, d := range s.Overlay.Decorations {
		x, y := vp.ToDisplay(d.X, d.Y, dw, dh)
		glyph := kindGlyph[d.Kind]
		style := &StyleSuccess
		if s.DeleteCandidate != nil && s.DeleteCandidate.Kind == editor.CandidateDecoration && s.DeleteCandidate.ID == d.ID {
			style = &StyleError
		}
		grid.set(int(x), int(y), glyph, style)
	}

	showLabels := vp.W < 600
	for _, n := range s.Nodes() {
		nx, ny, _ := s.NodePosition(n.ID)
		x, y := vp.ToDisplay(nx, ny, dw, dh)
		glyph := tierGlyph[string(n.Tier)]
		style := &StyleValue
		if s.PendingRoadID == n.ID {
			style = &StyleWarning
		}
		grid.set(int(x), int(y), glyph, style)
		if showLabels {
			grid.text(int(x)+2, int(y), truncate(n.Name, 12), &StyleDim)
		}
	}

	var b strings.Builder
	b.WriteString(grid.render())
	b.WriteString("\n")
	b.WriteString(m.statusBar())
	return b.String()
}

// plotEdges samples each custom road as dim dots. Generated edges are left
// to the drawing sink; the editor only needs the overlay items visible.
func (m EditorModel) plotEdges(grid *cellGrid, dw, dh float64) {
	s := m.session
	for _, r := range s.Overlay.CustomRoads {
		x1, y1, ok1 := s.NodePosition(r.FromLocationID)
		x2, y2, ok2 := s.NodePosition(r.ToLocationID)
		if !ok1 || !ok2 {
			continue
		}
		style := &StyleDim
		if s.DeleteCandidate != nil && s.DeleteCandidate.Kind == editor.CandidateRoad && s.DeleteCandidate.ID == r.ID {
			style = &StyleError
		}
		const samples = 24
		for i := 0; i <= samples; i++ {
			t := float64(i) / samples
			px, py := s.Viewport.ToDisplay(x1+(x2-x1)*t, y1+(y2-y1)*t, dw, dh)
			grid.set(int(px), int(py), '•', style)
		}
	}
}

func (m EditorModel) statusBar() string {
	s := m.session

	tool := fmt.Sprintf("[%s]", s.Tool)
	params := ""
	switch s.Tool {
	case editor.ToolDecorate:
		params = fmt.Sprintf(" %s size=%.0f", s.DecorationKind, s.DecorationSize)
	case editor.ToolRoad:
		params = " style=" + s.RoadStyle
		if s.PendingRoadID != "" {
			params += " from=" + s.PendingRoadID
		}
	}

	var save string
	switch s.Status {
	case editor.StatusSaved:
		save = StyleSuccess.Render("saved")
	case editor.StatusSaving:
		save = StyleWarning.Render("saving…")
	case editor.StatusError:
		save = StyleError.Render("save failed: " + s.StatusMessage)
	default:
		if s.Dirty() {
			save = StyleWarning.Render("unsaved edits")
		} else {
			save = StyleDim.Render("idle")
		}
	}

	line1 := StyleTitle.Render(tool) + StyleValue.Render(params) +
		StyleDim.Render(fmt.Sprintf("  view %.0f×%.0f  seed %d  ", s.Viewport.W, s.Viewport.H, s.Overlay.LayoutSeed)) + save
	line2 := StyleDim.Render("v/m/d/r/x tools  t kind  y style  s save  u undo-all  +/- zoom  arrows pan  q quit")
	return line1 + "\n" + line2
}

// =============================================================================
// CellGrid - character buffer for the map area
// =============================================================================

type cell struct {
	r     rune
	style *lipgloss.Style
}

type cellGrid struct {
	w, h  int
	cells []cell
}

func newCellGrid(w, h int) *cellGrid {
	g := &cellGrid{w: w, h: h, cells: make([]cell, w*h)}
	for i := range g.cells {
		g.cells[i].r = ' '
	}
	return g
}

func (g *cellGrid) set(x, y int, r rune, style *lipgloss.Style) {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		return
	}
	g.cells[y*g.w+x] = cell{r: r, style: style}
}

func (g *cellGrid) text(x, y int, s string, style *lipgloss.Style) {
	for i, r := range []rune(s) {
		g.set(x+i, y, r, style)
	}
}

// render joins the grid into styled lines, batching runs that share a style
// so escape sequences are not emitted per character.
func (g *cellGrid) render() string {
	var b strings.Builder
	for y := 0; y < g.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		var runStyle *lipgloss.Style
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runStyle != nil {
				b.WriteString(runStyle.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for x := 0; x < g.w; x++ {
			c := g.cells[y*g.w+x]
			if c.style != runStyle {
				flush()
				runStyle = c.style
			}
			run.WriteRune(c.r)
		}
		flush()
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
