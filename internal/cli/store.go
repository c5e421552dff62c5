package cli

import (
	"github.com/mesh-intelligence/tangram/internal/sqlite"
	"github.com/mesh-intelligence/tangram/pkg/types"
)

// attachStore resolves the configuration and attaches a SQLite catalog
// store. The caller must defer store.Detach().
func attachStore() (*sqlite.Backend, types.Config, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, types.Config{}, err
	}
	store := sqlite.NewBackend()
	if err := store.Attach(cfg); err != nil {
		return nil, types.Config{}, systemError("attach catalog store: %w", err)
	}
	return store, cfg, nil
}
