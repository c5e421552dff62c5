// Shape queries and import.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mesh-intelligence/tangram/pkg/types"
)

// FetchShape returns the raw pose lists and solutions of shapeID. Returns
// an error wrapping types.ErrDataLoad when the shape does not exist and
// types.ErrDataFormat when its stored rows cannot form a catalog (gaps in
// pose ordinals, solutions without one index per slot). Index bounds are
// checked by the catalog at load time.
func (b *Backend) FetchShape(ctx context.Context, shapeID string) (*types.ShapeData, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, fmt.Errorf("%w: %w", types.ErrDataLoad, types.ErrStoreDetached)
	}

	data := &types.ShapeData{ShapeID: shapeID}
	err := b.db.QueryRowContext(ctx, "SELECT name FROM shapes WHERE shape_id = ?", shapeID).Scan(&data.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: shape %q not found", types.ErrDataLoad, shapeID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: querying shape %q: %w", types.ErrDataLoad, shapeID, err)
	}

	if err := b.fetchPoses(ctx, data); err != nil {
		return nil, err
	}
	if err := b.fetchSolutions(ctx, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (b *Backend) fetchPoses(ctx context.Context, data *types.ShapeData) error {
	rows, err := b.db.QueryContext(ctx,
		"SELECT catalog_group, ordinal, x, y, rotation, flipped FROM poses WHERE shape_id = ? ORDER BY catalog_group, ordinal",
		data.ShapeID,
	)
	if err != nil {
		return fmt.Errorf("%w: querying poses for %q: %w", types.ErrDataLoad, data.ShapeID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			groupName string
			ordinal   int
			p         types.Pose
		)
		if err := rows.Scan(&groupName, &ordinal, &p.Position.X, &p.Position.Y, &p.Rotation, &p.Flipped); err != nil {
			return fmt.Errorf("%w: scanning pose for %q: %w", types.ErrDataLoad, data.ShapeID, err)
		}
		g, err := types.ParseCatalogGroup(groupName)
		if err != nil {
			return err
		}
		if ordinal != len(data.Poses[g]) {
			return fmt.Errorf("%w: shape %q: %s pose ordinal %d, want %d",
				types.ErrDataFormat, data.ShapeID, g, ordinal, len(data.Poses[g]))
		}
		data.Poses[g] = append(data.Poses[g], p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterating poses for %q: %w", types.ErrDataLoad, data.ShapeID, err)
	}
	return nil
}

func (b *Backend) fetchSolutions(ctx context.Context, data *types.ShapeData) error {
	rows, err := b.db.QueryContext(ctx,
		"SELECT ordinal, indexes FROM solutions WHERE shape_id = ? ORDER BY ordinal",
		data.ShapeID,
	)
	if err != nil {
		return fmt.Errorf("%w: querying solutions for %q: %w", types.ErrDataLoad, data.ShapeID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ordinal int
			raw     string
			indexes []int
		)
		if err := rows.Scan(&ordinal, &raw); err != nil {
			return fmt.Errorf("%w: scanning solution for %q: %w", types.ErrDataLoad, data.ShapeID, err)
		}
		if err := json.Unmarshal([]byte(raw), &indexes); err != nil {
			return fmt.Errorf("%w: shape %q solution %d: %v", types.ErrDataFormat, data.ShapeID, ordinal, err)
		}
		if len(indexes) != types.SlotCount {
			return fmt.Errorf("%w: shape %q solution %d has %d indexes, want %d",
				types.ErrDataFormat, data.ShapeID, ordinal, len(indexes), types.SlotCount)
		}
		var sol types.Solution
		copy(sol[:], indexes)
		data.Solutions = append(data.Solutions, sol)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterating solutions for %q: %w", types.ErrDataLoad, data.ShapeID, err)
	}
	return nil
}

// ListShapes returns every stored shape ID, sorted.
func (b *Backend) ListShapes(ctx context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := b.db.QueryContext(ctx, "SELECT shape_id FROM shapes ORDER BY shape_id")
	if err != nil {
		return nil, fmt.Errorf("listing shapes: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning shape: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ImportShape stores a new shape and persists the catalog JSONL files.
// Returns ErrShapeExists if the ID is taken. The data is stored as given;
// callers validate it with catalog.Load first.
func (b *Backend) ImportShape(ctx context.Context, data *types.ShapeData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if data == nil || data.ShapeID == "" {
		return fmt.Errorf("%w: shape ID must not be empty", types.ErrDataFormat)
	}

	var count int
	if err := b.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM shapes WHERE shape_id = ?", data.ShapeID).Scan(&count); err != nil {
		return fmt.Errorf("checking shape %q: %w", data.ShapeID, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %q", types.ErrShapeExists, data.ShapeID)
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning import transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertShape(ctx, tx, data, time.Now().UTC()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import transaction: %w", err)
	}
	return persistCatalogJSONL(b.db, b.dataDir)
}

// insertShape writes one shape with its poses and solutions inside tx.
func insertShape(ctx context.Context, tx *sql.Tx, data *types.ShapeData, now time.Time) error {
	name := data.Name
	if name == "" {
		name = data.ShapeID
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO shapes (shape_id, name, created_at) VALUES (?, ?, ?)",
		data.ShapeID, name, now.Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("inserting shape %q: %w", data.ShapeID, err)
	}

	for g, list := range data.Poses {
		group := types.CatalogGroup(g)
		for i, p := range list {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO poses (pose_id, shape_id, catalog_group, ordinal, x, y, rotation, flipped) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
				newUUID(), data.ShapeID, group.String(), i, p.Position.X, p.Position.Y, p.Rotation, p.Flipped,
			); err != nil {
				return fmt.Errorf("inserting %s pose %d of %q: %w", group, i, data.ShapeID, err)
			}
		}
	}

	for i, sol := range data.Solutions {
		indexes, err := json.Marshal(sol[:])
		if err != nil {
			return fmt.Errorf("marshaling solution %d of %q: %w", i, data.ShapeID, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO solutions (solution_id, shape_id, ordinal, indexes) VALUES (?, ?, ?, ?)",
			newUUID(), data.ShapeID, i, string(indexes),
		); err != nil {
			return fmt.Errorf("inserting solution %d of %q: %w", i, data.ShapeID, err)
		}
	}
	return nil
}

// persistCatalogJSONL rewrites the three catalog JSONL files from the
// database.
func persistCatalogJSONL(db *sql.DB, dataDir string) error {
	shapes, err := queryRecords(db,
		"SELECT shape_id, name, created_at FROM shapes ORDER BY created_at, shape_id",
		func(rows *sql.Rows) (shapeJSON, error) {
			var r shapeJSON
			err := rows.Scan(&r.ShapeID, &r.Name, &r.CreatedAt)
			return r, err
		})
	if err != nil {
		return fmt.Errorf("querying shapes for JSONL: %w", err)
	}
	if err := writeJSONL(filepath.Join(dataDir, shapesFile), shapes); err != nil {
		return fmt.Errorf("writing %s: %w", shapesFile, err)
	}

	poses, err := queryRecords(db,
		"SELECT pose_id, shape_id, catalog_group, ordinal, x, y, rotation, flipped FROM poses ORDER BY shape_id, catalog_group, ordinal",
		func(rows *sql.Rows) (poseJSON, error) {
			var r poseJSON
			err := rows.Scan(&r.PoseID, &r.ShapeID, &r.CatalogGroup, &r.Ordinal, &r.X, &r.Y, &r.Rotation, &r.Flipped)
			return r, err
		})
	if err != nil {
		return fmt.Errorf("querying poses for JSONL: %w", err)
	}
	if err := writeJSONL(filepath.Join(dataDir, posesFile), poses); err != nil {
		return fmt.Errorf("writing %s: %w", posesFile, err)
	}

	solutions, err := queryRecords(db,
		"SELECT solution_id, shape_id, ordinal, indexes FROM solutions ORDER BY shape_id, ordinal",
		func(rows *sql.Rows) (solutionJSON, error) {
			var (
				r   solutionJSON
				raw string
			)
			if err := rows.Scan(&r.SolutionID, &r.ShapeID, &r.Ordinal, &raw); err != nil {
				return r, err
			}
			err := json.Unmarshal([]byte(raw), &r.Indexes)
			return r, err
		})
	if err != nil {
		return fmt.Errorf("querying solutions for JSONL: %w", err)
	}
	if err := writeJSONL(filepath.Join(dataDir, solutionsFile), solutions); err != nil {
		return fmt.Errorf("writing %s: %w", solutionsFile, err)
	}
	return nil
}

// queryRecords runs query and scans every row with scan.
func queryRecords[T any](db *sql.DB, query string, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
