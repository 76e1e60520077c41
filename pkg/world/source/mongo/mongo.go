// Package mongo provides a MongoDB-backed location source.
//
// The archive application stores its location records in a MongoDB
// collection; this source reads them in their natural (insertion) order,
// which the layout engine relies on for sibling spacing.
package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mhagen/loreatlas/pkg/errors"
	"github.com/mhagen/loreatlas/pkg/world"
)

// Config holds connection parameters for the location collection.
type Config struct {
	URI        string // e.g. "mongodb://localhost:27017"
	Database   string // e.g. "archive"
	Collection string // e.g. "locations"
}

// Source reads locations from a MongoDB collection. Read-only.
type Source struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// New connects to MongoDB and binds the location collection.
func New(ctx context.Context, cfg Config) (*Source, error) {
	if cfg.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo URI is required")
	}
	if cfg.Database == "" || cfg.Collection == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo database and collection are required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "connect to %s", cfg.URI)
	}

	return &Source{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Load fetches all location records in natural order.
func (s *Source) Load(ctx context.Context) ([]world.Location, error) {
	cur, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "find locations")
	}
	defer cur.Close(ctx)

	var locs []world.Location
	if err := cur.All(ctx, &locs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "decode locations")
	}

	for i := range locs {
		t, err := world.ParseTier(string(locs[i].Tier))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLocation, err, "location %s", locs[i].ID)
		}
		locs[i].Tier = t
	}

	return locs, nil
}

// Close disconnects the underlying client.
func (s *Source) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure Source implements world.Source.
var _ world.Source = (*Source)(nil)
