// JSONL loading into SQLite on attach.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// jsonlTableMapping maps JSONL files to their SQLite tables and columns.
// Shapes load first; poses and solutions reference them.
var jsonlTableMapping = []struct {
	file    string
	table   string
	columns []string
}{
	{shapesFile, "shapes", []string{"shape_id", "name", "created_at"}},
	{posesFile, "poses", []string{"pose_id", "shape_id", "catalog_group", "ordinal", "x", "y", "rotation", "flipped"}},
	{solutionsFile, "solutions", []string{"solution_id", "shape_id", "ordinal", "indexes"}},
}

// loadAllJSONL reads each JSONL file from dataDir and inserts its records
// into the matching table. Loading is transactional: either every file
// loads or the database stays empty. Malformed lines and records that
// violate constraints are skipped; unknown fields are ignored.
func loadAllJSONL(db *sql.DB, dataDir string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, mapping := range jsonlTableMapping {
		records, err := readJSONL(filepath.Join(dataDir, mapping.file))
		if err != nil {
			return fmt.Errorf("reading %s: %w", mapping.file, err)
		}
		if len(records) == 0 {
			continue
		}
		if err := insertRecords(tx, mapping.table, mapping.columns, records); err != nil {
			return fmt.Errorf("loading %s into %s: %w", mapping.file, mapping.table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertRecords inserts parsed JSONL records into table. Only the listed
// columns are extracted. Array and object values (solution indexes) are
// stored as their JSON text.
func insertRecords(tx *sql.Tx, table string, columns []string, records []json.RawMessage) error {
	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", "),
	)

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var obj map[string]any
		if err := json.Unmarshal(rec, &obj); err != nil {
			continue
		}

		args := make([]any, len(columns))
		for i, col := range columns {
			switch v := obj[col].(type) {
			case map[string]any, []any:
				b, err := json.Marshal(v)
				if err != nil {
					continue
				}
				args[i] = string(b)
			default:
				args[i] = v
			}
		}

		if _, err := stmt.Exec(args...); err != nil {
			// Duplicate ordinals, missing shapes, NULL columns.
			continue
		}
	}
	return nil
}
