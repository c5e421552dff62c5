package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tangram/internal/catalog"
	"github.com/mesh-intelligence/tangram/pkg/types"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import a shape asset into the catalog store",
		Long: `Import reads a shape asset as JSON, validates it, and stores it.

The asset holds a shape_id, an optional name, five pose lists ordered
large_triangles, small_triangles, medium_triangle, square, parallelogram,
and a list of solutions, each seven catalog indexes ordered by slot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readShapeFile(args[0])
			if err != nil {
				return err
			}
			if _, err := catalog.Load(data, types.Point{}); err != nil {
				return err
			}

			store, _, err := attachStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			if err := store.ImportShape(cmd.Context(), data); err != nil {
				return err
			}
			if flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"shape_id":  data.ShapeID,
					"solutions": len(data.Solutions),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported shape %s (%d solutions)\n", data.ShapeID, len(data.Solutions))
			return nil
		},
	}
}

// readShapeFile decodes a shape asset. Decode failures wrap
// types.ErrDataFormat.
func readShapeFile(path string) (*types.ShapeData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", types.ErrDataLoad, path, err)
	}
	var data types.ShapeData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", types.ErrDataFormat, path, err)
	}
	return &data, nil
}
