package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhagen/loreatlas/pkg/layout"
	"github.com/mhagen/loreatlas/pkg/observability"
	"github.com/mhagen/loreatlas/pkg/overlay"
	"github.com/mhagen/loreatlas/pkg/render"
	"github.com/mhagen/loreatlas/pkg/scene"
	"github.com/mhagen/loreatlas/pkg/world"
)

// newGenerateCmd creates the generate command: compute a layout from a
// location source, merge the persisted overlay, and write scene artifacts.
func newGenerateCmd() *cobra.Command {
	var (
		locationsPath string
		mapKey        string
		outDir        string
		formats       []string
		seed          uint64
		noOverlay     bool
		validate      bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Compute the map layout and write scene artifacts",
		Long: `Generate loads the location records, computes deterministic positions and
the road graph, merges the persisted overlay for the map key, and writes
the scene in the requested formats.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if err := render.ValidateFormats(formats); err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			source, err := openSource(ctx, locationsPath, cfg)
			if err != nil {
				return err
			}
			defer source.Close(ctx)

			p := newProgress(logger)
			locs, err := source.Load(ctx)
			if err != nil {
				return err
			}
			if validate {
				if err := world.Validate(locs); err != nil {
					return err
				}
			}
			p.done(fmt.Sprintf("Loaded %d locations", len(locs)))

			st := overlay.NewState()
			if !noOverlay {
				store, err := openStore(ctx, cfg)
				if err != nil {
					return err
				}
				defer store.Close()
				st, err = store.Load(ctx, mapKey)
				if err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("seed") {
				st.LayoutSeed = seed
			} else if st.LayoutSeed == 0 {
				st.LayoutSeed = cfg.Seed
			}

			p = newProgress(logger)
			nodes := layout.Generate(locs, layout.Options{Seed: st.LayoutSeed})
			edges := layout.BuildRoads(nodes, locs)
			sc := scene.Merge(nodes, edges, st)
			p.done(fmt.Sprintf("Placed %d nodes, %d roads", len(sc.Nodes), len(sc.Edges)))

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return err
			}

			for _, format := range formats {
				start := time.Now()
				data, err := renderFormat(sc, format)
				observability.Render().OnRender(ctx, format, len(data), time.Since(start), err)
				if err != nil {
					return err
				}
				path := filepath.Join(outDir, "scene."+format)
				if err := os.WriteFile(path, data, 0644); err != nil {
					return err
				}
				logger.Info("Wrote artifact", "format", format, "path", path, "bytes", len(data))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&locationsPath, "locations", "l", "", "locations JSON file (otherwise the configured mongo source)")
	cmd.Flags().StringVarP(&mapKey, "key", "k", "default", "map instance key for the overlay record")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().StringSliceVarP(&formats, "formats", "f", []string{render.FormatJSON}, fmt.Sprintf("output formats (%s)", strings.Join([]string{render.FormatJSON, render.FormatSVG, render.FormatDOT}, ", ")))
	cmd.Flags().Uint64Var(&seed, "seed", 0, "layout seed (overrides the stored one)")
	cmd.Flags().BoolVar(&noOverlay, "no-overlay", false, "skip the persisted overlay, render the bare generated layout")
	cmd.Flags().BoolVar(&validate, "validate", false, "reject structurally invalid location data instead of degrading")

	return cmd
}

func renderFormat(sc scene.Scene, format string) ([]byte, error) {
	switch format {
	case render.FormatJSON:
		return render.RenderJSON(sc)
	case render.FormatSVG:
		return render.RenderSVG(sc, render.WithLabels()), nil
	case render.FormatDOT:
		return []byte(render.ToDOT(sc)), nil
	}
	return nil, fmt.Errorf("unhandled format: %s", format)
}
