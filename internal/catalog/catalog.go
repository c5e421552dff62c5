package catalog

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/mesh-intelligence/tangram/pkg/types"
)

// validate checks ShapeData struct tags. The validator caches struct
// metadata, so one instance serves every load.
var validate = validator.New()

// Catalog is the loaded, immutable pose catalog and solution table for one
// shape. Positions are already in the board frame and rotations are
// normalized into [0, 360).
type Catalog struct {
	shapeID   string
	name      string
	poses     [types.GroupCount][]types.Pose
	solutions []types.Solution
}

// Load builds a Catalog from raw shape data. Every pose is translated by
// offset and normalized once here, never per query. Every solution index is
// checked against its group's pose list; any violation returns an error
// wrapping types.ErrDataFormat and no catalog.
func Load(data *types.ShapeData, offset types.Point) (*Catalog, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: nil shape data", types.ErrDataFormat)
	}
	if err := validate.Struct(data); err != nil {
		return nil, fmt.Errorf("%w: shape %q: %v", types.ErrDataFormat, data.ShapeID, err)
	}
	for i, sol := range data.Solutions {
		for _, s := range types.AllSlots() {
			n := len(data.Poses[s.Group()])
			if idx := sol[s]; idx < 0 || idx >= n {
				return nil, fmt.Errorf("%w: shape %q solution %d: %s index %d out of range [0,%d)",
					types.ErrDataFormat, data.ShapeID, i, s, idx, n)
			}
		}
	}

	c := &Catalog{
		shapeID:   data.ShapeID,
		name:      data.Name,
		solutions: slices.Clone(data.Solutions),
	}
	for g, list := range data.Poses {
		poses := make([]types.Pose, len(list))
		for i, p := range list {
			poses[i] = p.Translated(offset).Normalized()
		}
		c.poses[g] = poses
	}
	return c, nil
}

// ShapeID returns the ID of the shape this catalog was loaded from.
func (c *Catalog) ShapeID() string { return c.shapeID }

// Name returns the shape's display name, falling back to its ID.
func (c *Catalog) Name() string {
	if c.name == "" {
		return c.shapeID
	}
	return c.name
}

// PosesFor returns a copy of the ordered canonical poses of group g.
func (c *Catalog) PosesFor(g types.CatalogGroup) []types.Pose {
	if !g.Valid() {
		return nil
	}
	return slices.Clone(c.poses[g])
}

// Pose returns canonical pose index of group g. The index must be in range;
// solution indexes are checked at load time.
func (c *Catalog) Pose(g types.CatalogGroup, index int) types.Pose {
	return c.poses[g][index]
}

// SolutionCount returns the number of solutions in the table.
func (c *Catalog) SolutionCount() int { return len(c.solutions) }

// Solution returns solution i.
func (c *Catalog) Solution(i int) types.Solution { return c.solutions[i] }

// Index returns the catalog index solution i assigns to slot s.
func (c *Catalog) Index(i int, s types.Slot) int {
	return c.solutions[i].Index(s)
}

// SlotPose resolves the canonical pose solution i assigns to slot s.
func (c *Catalog) SlotPose(i int, s types.Slot) types.Pose {
	return c.poses[s.Group()][c.Index(i, s)]
}
