// Package draft persists in-progress worksheets so a calculation can be
// resumed later.
package draft

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iwvelando/gpa-calculator/internal/config"
	"github.com/iwvelando/gpa-calculator/pkg/constants"
)

// ErrNotFound is returned by a Store when a key has no value.
var ErrNotFound = errors.New("draft not found")

// Store is a small key/value store for serialized drafts.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open returns the Store selected by cfg. An empty backend means file.
func Open(cfg config.DraftConfig) (Store, error) {
	switch cfg.Backend {
	case constants.DraftBackendMemory:
		return NewMemoryStore(), nil

	case "", constants.DraftBackendFile:
		path := cfg.Path
		if path == "" {
			path = defaultPath("drafts.json")
		}
		return NewFileStore(path)

	case constants.DraftBackendSQLite:
		path := cfg.Path
		if path == "" {
			path = defaultPath("drafts.db")
		}
		return NewSQLiteStore(path)

	default:
		return nil, fmt.Errorf("unsupported draft backend: %s. Must be memory, file, or sqlite", cfg.Backend)
	}
}

// defaultPath places name in the draft directory under the user's home, or
// under the working directory when no home is available.
func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(constants.DefaultDraftDir, name)
	}
	return filepath.Join(home, constants.DefaultDraftDir, name)
}
