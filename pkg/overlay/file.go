package overlay

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mhagen/loreatlas/pkg/errors"
	"github.com/mhagen/loreatlas/pkg/observability"
)

// FileStore persists override records as JSON files in a config directory,
// one file per map key. This is the default backend for CLI usage: the
// "client-side" store scoped to one user profile.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-backed store.
// If baseDir is empty, defaults to ~/.config/loreatlas/overlays/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "loreatlas", "overlays")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create overlay dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// recordPath converts a map key to a file path. Path separators in keys
// are flattened so a key can never escape the base directory.
func (f *FileStore) recordPath(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(key)
	return filepath.Join(f.baseDir, safe+".json")
}

func (f *FileStore) Load(ctx context.Context, key string) (*State, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.recordPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			observability.Store().OnLoad(ctx, key, false)
			return NewState(), nil
		}
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read overlay %s", key)
	}

	observability.Store().OnLoad(ctx, key, true)
	return Decode(data), nil
}

func (f *FileStore) Save(ctx context.Context, key string, s *State) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := Encode(s)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encode overlay %s", key)
	}

	if err := os.WriteFile(f.recordPath(key), data, 0600); err != nil {
		observability.Store().OnSave(ctx, key, len(data), err)
		return errors.Wrap(errors.ErrCodeStore, err, "write overlay %s", key)
	}

	observability.Store().OnSave(ctx, key, len(data), nil)
	return nil
}

func (f *FileStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.recordPath(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStore, err, "remove overlay %s", key)
	}
	observability.Store().OnDelete(ctx, key)
	return nil
}

func (f *FileStore) Close() error { return nil }

// Keys lists the map keys with persisted records, for the overlay CLI.
func (f *FileStore) Keys() ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := os.ReadDir(f.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read overlay dir")
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	return keys, nil
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
