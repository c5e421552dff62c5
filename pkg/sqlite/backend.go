// Package sqlite provides the public API for the SQLite catalog store.
// It exposes the factory while keeping the implementation internal.
package sqlite

import (
	"github.com/mesh-intelligence/tangram/internal/sqlite"
	"github.com/mesh-intelligence/tangram/pkg/types"
)

// NewBackend creates a new SQLite catalog store. The store is not
// attached; call Attach with a Config to initialize.
//
// Example:
//
//	store := sqlite.NewBackend()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".tangram-db",
//	})
//	defer store.Detach()
//	data, err := store.FetchShape(ctx, "square")
func NewBackend() types.CatalogStore {
	return sqlite.NewBackend()
}
