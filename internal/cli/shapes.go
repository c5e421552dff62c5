package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tangram/internal/catalog"
	"github.com/mesh-intelligence/tangram/pkg/types"
)

func newShapesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shapes",
		Short: "List the shapes in the catalog store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := attachStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			ids, err := store.ListShapes(cmd.Context())
			if err != nil {
				return systemError("list shapes: %w", err)
			}
			if flags.jsonMode {
				if ids == nil {
					ids = []string{}
				}
				return writeJSON(cmd.OutOrStdout(), ids)
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

// shapeSummary is the show command's view of one shape.
type shapeSummary struct {
	ShapeID   string                  `json:"shape_id"`
	Name      string                  `json:"name"`
	Poses     map[string][]types.Pose `json:"poses"`
	Solutions []types.Solution        `json:"solutions"`
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <shape>",
		Short: "Show a shape's pose catalog and solutions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := attachStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			data, err := store.FetchShape(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cat, err := catalog.Load(data, cfg.BoardOffset)
			if err != nil {
				return err
			}

			summary := shapeSummary{
				ShapeID: cat.ShapeID(),
				Name:    cat.Name(),
				Poses:   make(map[string][]types.Pose, types.GroupCount),
			}
			for g := types.CatalogGroup(0); g < types.GroupCount; g++ {
				summary.Poses[g.String()] = cat.PosesFor(g)
			}
			for i := range cat.SolutionCount() {
				summary.Solutions = append(summary.Solutions, cat.Solution(i))
			}
			if flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), summary)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", summary.Name, summary.ShapeID)
			for g := types.CatalogGroup(0); g < types.GroupCount; g++ {
				fmt.Fprintf(out, "  %s:\n", g)
				for i, p := range summary.Poses[g.String()] {
					fmt.Fprintf(out, "    [%d] %s\n", i, formatPose(p))
				}
			}
			fmt.Fprintf(out, "  solutions: %d\n", len(summary.Solutions))
			for i, sol := range summary.Solutions {
				fmt.Fprintf(out, "    [%d] %v\n", i, sol)
			}
			return nil
		},
	}
}

func formatPose(p types.Pose) string {
	s := fmt.Sprintf("(%.3f, %.3f) %.1f°", p.Position.X, p.Position.Y, p.Rotation)
	if p.Flipped {
		s += " flipped"
	}
	return s
}
