package world

import "context"

// Source is the data-layer collaborator: anything that can produce the
// ordered location list the layout engine reads. Implementations live in
// the source/ subpackages (file, mongo).
type Source interface {
	// Load returns the full location list. The order is significant:
	// sibling angular spacing follows input order.
	Load(ctx context.Context) ([]Location, error)

	// Close releases any underlying connections.
	Close(ctx context.Context) error
}
