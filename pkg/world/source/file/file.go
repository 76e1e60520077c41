// Package file provides a JSON-file location source for CLI usage.
package file

import (
	"context"
	"os"

	"github.com/mhagen/loreatlas/pkg/errors"
	"github.com/mhagen/loreatlas/pkg/world"
)

// Source reads locations from a JSON document on disk.
type Source struct {
	path string
}

// New creates a file source. The file is read on every Load call so an
// edited file is picked up without restarting.
func New(path string) *Source {
	return &Source{path: path}
}

// Load reads and parses the location document.
func (s *Source) Load(ctx context.Context) ([]world.Location, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "locations file %s", s.path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "read %s", s.path)
	}
	return world.ParseLocations(data)
}

// Close is a no-op for the file source.
func (s *Source) Close(ctx context.Context) error { return nil }

// Ensure Source implements world.Source.
var _ world.Source = (*Source)(nil)
