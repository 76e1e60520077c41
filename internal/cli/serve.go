package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhagen/loreatlas/internal/server"
)

// newServeCmd creates the serve command: run the scene HTTP server.
func newServeCmd() *cobra.Command {
	var (
		addr          string
		locationsPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the merged scene over HTTP",
		Long: `Serve runs a read-only HTTP API exposing the generated layout and the
merged scene (layout + persisted overlay) for external drawing sinks.`,
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

			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(source, store, logger).Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx)
			}()

			logger.Info("Scene server listening", "addr", addr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8460", "listen address")
	cmd.Flags().StringVarP(&locationsPath, "locations", "l", "", "locations JSON file (otherwise the configured mongo source)")

	return cmd
}
