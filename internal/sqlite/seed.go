// Built-in shape seeding on first attach.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mesh-intelligence/tangram/pkg/types"
)

// ShapeSquare is the ID of the built-in square shape.
const ShapeSquare = "square"

// builtInShapes are seeded when shapes.jsonl is empty on startup.
//
// The square is the classic 4x4 arrangement centred on the origin. Either
// large triangle fits either large hole and either small triangle fits
// either small hole, giving four solutions over the same pose lists.
var builtInShapes = []types.ShapeData{
	{
		ShapeID: ShapeSquare,
		Name:    "Square",
		Poses: [types.GroupCount][]types.Pose{
			types.GroupLargeTriangles: {
				{Position: types.Point{X: 0, Y: 1.333}, Rotation: 0},
				{Position: types.Point{X: -1.333, Y: 0}, Rotation: 90},
			},
			types.GroupSmallTriangles: {
				{Position: types.Point{X: 1.667, Y: 1}, Rotation: 270},
				{Position: types.Point{X: 0, Y: -0.667}, Rotation: 180},
			},
			types.GroupMediumTriangle: {
				{Position: types.Point{X: 1.333, Y: -1.333}, Rotation: 315},
			},
			types.GroupSquare: {
				{Position: types.Point{X: 1, Y: 0}, Rotation: 45},
			},
			types.GroupParallelogram: {
				{Position: types.Point{X: -0.5, Y: -1.5}, Rotation: 0},
			},
		},
		Solutions: []types.Solution{
			{0, 1, 0, 1, 0, 0, 0},
			{1, 0, 0, 1, 0, 0, 0},
			{0, 1, 1, 0, 0, 0, 0},
			{1, 0, 1, 0, 0, 0, 0},
		},
	},
}

// seedBuiltInShapes inserts the built-in shapes if the shapes table is
// empty (first run) and persists them to JSONL.
func seedBuiltInShapes(db *sql.DB, dataDir string) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM shapes").Scan(&count); err != nil {
		return fmt.Errorf("counting shapes: %w", err)
	}
	if count > 0 {
		return nil
	}

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for i := range builtInShapes {
		if err := insertShape(ctx, tx, &builtInShapes[i], now); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed transaction: %w", err)
	}
	return persistCatalogJSONL(db, dataDir)
}
