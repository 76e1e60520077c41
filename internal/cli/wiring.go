package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mhagen/loreatlas/pkg/config"
	"github.com/mhagen/loreatlas/pkg/errors"
	"github.com/mhagen/loreatlas/pkg/overlay"
	"github.com/mhagen/loreatlas/pkg/world"
	filesource "github.com/mhagen/loreatlas/pkg/world/source/file"
	mongosource "github.com/mhagen/loreatlas/pkg/world/source/mongo"
)

// loadConfig resolves the --config flag and reads the TOML file.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// openSource builds the location source: an explicit --locations file wins,
// otherwise the configured MongoDB collection.
func openSource(ctx context.Context, locationsPath string, cfg config.Config) (world.Source, error) {
	if locationsPath != "" {
		return filesource.New(locationsPath), nil
	}
	if cfg.Mongo.URI != "" {
		return mongosource.New(ctx, mongosource.Config{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
	}
	return nil, errors.New(errors.ErrCodeInvalidSource,
		"no location source: pass --locations or configure [mongo] in the config file")
}

// openStore builds the overlay store from the configured backend.
func openStore(ctx context.Context, cfg config.Config) (overlay.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreRedis:
		return overlay.NewRedisStore(ctx, overlay.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	case config.StoreMemory:
		return overlay.NewMemoryStore(), nil
	default:
		return overlay.NewFileStore(cfg.Store.Dir)
	}
}
