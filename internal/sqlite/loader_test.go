package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tangram/pkg/types"
)

func TestLoader_SkipsBadRecords(t *testing.T) {
	dir := t.TempDir()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	b := NewBackend()
	require.NoError(t, b.Attach(cfg))
	require.NoError(t, b.Detach())

	// A malformed line, a pose for an unknown shape and a duplicate
	// ordinal are all dropped on load.
	f, err := os.OpenFile(filepath.Join(dir, posesFile), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("garbage\n" +
		`{"pose_id":"p1","shape_id":"ghost","catalog_group":"square","ordinal":0,"x":0,"y":0,"rotation":0,"flipped":false}` + "\n" +
		`{"pose_id":"p2","shape_id":"square","catalog_group":"square","ordinal":0,"x":9,"y":9,"rotation":0,"flipped":false}` + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	b2 := NewBackend()
	require.NoError(t, b2.Attach(cfg))
	defer b2.Detach()

	got, err := b2.FetchShape(context.Background(), ShapeSquare)
	require.NoError(t, err)
	assert.Equal(t, &builtInShapes[0], got)
}

func TestLoader_EmptyFilesLoadNothing(t *testing.T) {
	b, _ := setupBackend(t)
	db := b.db

	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()
	assert.NoError(t, insertRecords(tx, "shapes", []string{"shape_id", "name", "created_at"}, nil))
}
