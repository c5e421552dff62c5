package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/tangram/internal/catalog"
	"github.com/mesh-intelligence/tangram/pkg/types"
)

// checkConcurrency bounds the number of shapes validated at once.
const checkConcurrency = 4

// checkResult is the outcome of validating one stored shape.
type checkResult struct {
	ShapeID   string `json:"shape_id"`
	Solutions int    `json:"solutions,omitempty"`
	Error     string `json:"error,omitempty"`
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate every shape in the catalog store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := attachStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			results, err := checkShapes(cmd.Context(), store, cfg.BoardOffset)
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Error != "" {
					failed++
				}
			}
			if flags.jsonMode {
				if err := writeJSON(cmd.OutOrStdout(), results); err != nil {
					return err
				}
			} else {
				for _, r := range results {
					if r.Error != "" {
						fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %s\n", r.ShapeID, r.Error)
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "ok   %s (%d solutions)\n", r.ShapeID, r.Solutions)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d shapes failed validation", failed, len(results))
			}
			return nil
		},
	}
}

// checkShapes fetches and builds every shape's catalog concurrently. A
// shape that fails to load is reported in its result; only listing
// failures abort the check.
func checkShapes(ctx context.Context, source types.CatalogSource, offset types.Point) ([]checkResult, error) {
	ids, err := source.ListShapes(ctx)
	if err != nil {
		return nil, systemError("list shapes: %w", err)
	}

	results := make([]checkResult, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(checkConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			results[i] = checkShape(gctx, source, id, offset)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func checkShape(ctx context.Context, source types.CatalogSource, id string, offset types.Point) checkResult {
	r := checkResult{ShapeID: id}
	data, err := source.FetchShape(ctx, id)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	cat, err := catalog.Load(data, offset)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.Solutions = cat.SolutionCount()
	return r
}
