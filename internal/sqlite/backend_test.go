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

// setupBackend attaches a store in a fresh temp directory and detaches it
// when the test ends.
func setupBackend(t *testing.T) (*Backend, string) {
	t.Helper()
	dir := t.TempDir()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	t.Cleanup(func() { b.Detach() })
	return b, dir
}

func pose(x, y, rot float64) types.Pose {
	return types.Pose{Position: types.Point{X: x, Y: y}, Rotation: rot}
}

func arrowShape() *types.ShapeData {
	return &types.ShapeData{
		ShapeID: "arrow",
		Name:    "Arrow",
		Poses: [types.GroupCount][]types.Pose{
			types.GroupLargeTriangles: {pose(0, 2, 0), pose(-2, 0, 90)},
			types.GroupSmallTriangles: {pose(2, 1, 270), pose(0, -1, 180)},
			types.GroupMediumTriangle: {pose(1, -1, 315)},
			types.GroupSquare:         {pose(0.5, 0.5, 45)},
			types.GroupParallelogram:  {{Position: types.Point{X: -1, Y: -2}, Rotation: 0, Flipped: true}},
		},
		Solutions: []types.Solution{
			{0, 1, 0, 1, 0, 0, 0},
			{1, 0, 1, 0, 0, 0, 0},
		},
	}
}

func TestBackend_Attach(t *testing.T) {
	b, dir := setupBackend(t)

	for _, name := range []string{dbFileName, shapesFile, posesFile, solutionsFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "%s should exist", name)
	}
	assert.Equal(t, dir, b.DataDir())

	err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir})
	assert.ErrorIs(t, err, types.ErrAlreadyAttached)
}

func TestBackend_AttachInvalidConfig(t *testing.T) {
	b := NewBackend()
	assert.ErrorIs(t, b.Attach(types.Config{DataDir: t.TempDir()}), types.ErrBackendEmpty)
	assert.ErrorIs(t, b.Attach(types.Config{Backend: "postgres"}), types.ErrBackendUnknown)
}

func TestBackend_Detach(t *testing.T) {
	b, _ := setupBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach(), "detach is idempotent")

	_, err := b.FetchShape(ctx, ShapeSquare)
	assert.ErrorIs(t, err, types.ErrDataLoad)
	assert.ErrorIs(t, err, types.ErrStoreDetached)

	_, err = b.ListShapes(ctx)
	assert.ErrorIs(t, err, types.ErrStoreDetached)

	assert.ErrorIs(t, b.ImportShape(ctx, arrowShape()), types.ErrStoreDetached)
}

func TestBackend_FetchShapeNotFound(t *testing.T) {
	b, _ := setupBackend(t)
	_, err := b.FetchShape(context.Background(), "dragon")
	assert.ErrorIs(t, err, types.ErrDataLoad)
}

func TestBackend_ImportShape(t *testing.T) {
	b, _ := setupBackend(t)
	ctx := context.Background()

	require.NoError(t, b.ImportShape(ctx, arrowShape()))

	ids, err := b.ListShapes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"arrow", ShapeSquare}, ids)

	got, err := b.FetchShape(ctx, "arrow")
	require.NoError(t, err)
	assert.Equal(t, arrowShape(), got)

	err = b.ImportShape(ctx, arrowShape())
	assert.ErrorIs(t, err, types.ErrShapeExists)
}

func TestBackend_ImportShapeRequiresID(t *testing.T) {
	b, _ := setupBackend(t)
	data := arrowShape()
	data.ShapeID = ""
	assert.ErrorIs(t, b.ImportShape(context.Background(), data), types.ErrDataFormat)
	assert.ErrorIs(t, b.ImportShape(context.Background(), nil), types.ErrDataFormat)
}

func TestBackend_ImportedShapeSurvivesReattach(t *testing.T) {
	dir := t.TempDir()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dir}
	ctx := context.Background()

	b := NewBackend()
	require.NoError(t, b.Attach(cfg))
	require.NoError(t, b.ImportShape(ctx, arrowShape()))
	require.NoError(t, b.Detach())

	b2 := NewBackend()
	require.NoError(t, b2.Attach(cfg))
	defer b2.Detach()

	ids, err := b2.ListShapes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"arrow", ShapeSquare}, ids, "JSONL reload without reseeding")

	got, err := b2.FetchShape(ctx, "arrow")
	require.NoError(t, err)
	assert.Equal(t, arrowShape(), got)
}

func TestBackend_FetchShapeOrdinalGap(t *testing.T) {
	b, _ := setupBackend(t)
	_, err := b.db.Exec("DELETE FROM poses WHERE shape_id = ? AND catalog_group = ? AND ordinal = 0",
		ShapeSquare, types.GroupLargeTriangles.String())
	require.NoError(t, err)

	_, err = b.FetchShape(context.Background(), ShapeSquare)
	assert.ErrorIs(t, err, types.ErrDataFormat)
}

func TestBackend_FetchShapeShortSolution(t *testing.T) {
	b, _ := setupBackend(t)
	_, err := b.db.Exec("UPDATE solutions SET indexes = '[0,1]' WHERE shape_id = ? AND ordinal = 0", ShapeSquare)
	require.NoError(t, err)

	_, err = b.FetchShape(context.Background(), ShapeSquare)
	assert.ErrorIs(t, err, types.ErrDataFormat)
}

func TestBackend_ConcurrentFetch(t *testing.T) {
	b, _ := setupBackend(t)
	ctx := context.Background()

	errs := make(chan error, 8)
	for range 8 {
		go func() {
			_, err := b.FetchShape(ctx, ShapeSquare)
			errs <- err
		}()
	}
	for range 8 {
		assert.NoError(t, <-errs)
	}
}
