// Package sqlite implements the shape catalog store. JSONL files in the data
// directory are the source of truth; on Attach they are loaded into a fresh
// SQLite database that serves queries until Detach.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/tangram/pkg/types"
)

// dbFileName is the SQLite query cache rebuilt on every Attach.
const dbFileName = "catalog.db"

// Backend is the SQLite catalog store. It implements types.CatalogSource.
// Unlike the board, a Backend is safe for concurrent use.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	dataDir  string
	db       *sql.DB
}

// NewBackend creates a new catalog store. It is not attached; call Attach
// with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach initializes the store: creates DataDir if needed, builds the
// schema in a fresh database, loads the JSONL files and seeds the built-in
// shapes on first run. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// The database is a cache of the JSONL files; start from scratch.
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return err
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return fmt.Errorf("create schema: %w", err)
	}
	if err := initJSONLFiles(dataDir); err != nil {
		db.Close()
		return err
	}
	if err := loadAllJSONL(db, dataDir); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}
	if err := seedBuiltInShapes(db, dataDir); err != nil {
		db.Close()
		return fmt.Errorf("seed shapes: %w", err)
	}

	b.db = db
	b.config = config
	b.dataDir = dataDir
	b.attached = true
	return nil
}

// Detach closes the database. Detach is idempotent; after it, queries
// return ErrStoreDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// DataDir returns the directory holding the JSONL files.
func (b *Backend) DataDir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dataDir
}

func createSchema(db *sql.DB) error {
	for _, ddl := range append(append([]string{}, schemaDDL...), indexDDL...) {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}

// newUUID generates a UUID v7 for record IDs.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
