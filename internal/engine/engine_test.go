package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tangram/internal/catalog"
	"github.com/mesh-intelligence/tangram/pkg/types"
)

func pose(x, y, rot float64) types.Pose {
	return types.Pose{Position: types.Point{X: x, Y: y}, Rotation: rot}
}

// testShape has two large and two small triangle poses whose slot A and
// slot B assignments swap between solutions, and one pose for every other
// group.
func testShape() *types.ShapeData {
	return &types.ShapeData{
		ShapeID: "test",
		Poses: [types.GroupCount][]types.Pose{
			types.GroupLargeTriangles: {pose(0, 2, 0), pose(-2, 0, 90)},
			types.GroupSmallTriangles: {pose(2, 1, 270), pose(0, -1, 180)},
			types.GroupMediumTriangle: {pose(1, -1, 315)},
			types.GroupSquare:         {pose(0, 0, 0)},
			types.GroupParallelogram:  {pose(-1, -2, 0)},
		},
		Solutions: []types.Solution{
			{0, 1, 0, 1, 0, 0, 0},
			{1, 0, 0, 1, 0, 0, 0},
			{0, 1, 1, 0, 0, 0, 0},
			{1, 0, 1, 0, 0, 0, 0},
		},
	}
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load(testShape(), types.Point{})
	require.NoError(t, err)
	return cat
}
