package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhagen/loreatlas/pkg/overlay"
)

// newOverlayCmd creates the overlay command group for inspecting and
// deleting persisted override records.
func newOverlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overlay",
		Short: "Manage persisted map overlays",
	}

	cmd.AddCommand(newOverlayShowCmd())
	cmd.AddCommand(newOverlayListCmd())
	cmd.AddCommand(newOverlayClearCmd())

	return cmd
}

func newOverlayShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <key>",
		Short: "Print the persisted override record for a map key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			st, err := store.Load(ctx, args[0])
			if err != nil {
				return err
			}

			data, err := overlay.Encode(st)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newOverlayListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List map keys with persisted overlays (file backend only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			fs, ok := store.(*overlay.FileStore)
			if !ok {
				return fmt.Errorf("overlay list requires the file store backend")
			}

			keys, err := fs.Keys()
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), StyleDim.Render("no persisted overlays"))
				return nil
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}

func newOverlayClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <key>",
		Short: "Delete the persisted override record for a map key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(ctx, args[0]); err != nil {
				return err
			}
			loggerFromContext(ctx).Info("Overlay cleared", "key", args[0])
			return nil
		},
	}
}
