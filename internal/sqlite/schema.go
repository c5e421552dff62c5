// Package sqlite implements the SQLite-backed shape catalog store.
// This file holds the schema DDL.
package sqlite

// Schema DDL for the catalog tables.
const (
	createShapes = `CREATE TABLE shapes (
    shape_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createPoses = `CREATE TABLE poses (
    pose_id TEXT PRIMARY KEY,
    shape_id TEXT NOT NULL,
    catalog_group TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    x REAL NOT NULL,
    y REAL NOT NULL,
    rotation REAL NOT NULL,
    flipped INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (shape_id) REFERENCES shapes(shape_id) ON DELETE CASCADE
);`

	createSolutions = `CREATE TABLE solutions (
    solution_id TEXT PRIMARY KEY,
    shape_id TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    indexes TEXT NOT NULL,
    FOREIGN KEY (shape_id) REFERENCES shapes(shape_id) ON DELETE CASCADE
);`
)

// Index DDL. The unique indexes keep catalog order unambiguous.
const (
	idxPosesOrder     = `CREATE UNIQUE INDEX idx_poses_order ON poses(shape_id, catalog_group, ordinal);`
	idxSolutionsOrder = `CREATE UNIQUE INDEX idx_solutions_order ON solutions(shape_id, ordinal);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createShapes,
	createPoses,
	createSolutions,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxPosesOrder,
	idxSolutionsOrder,
}
