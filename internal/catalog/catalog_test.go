package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tangram/pkg/types"
)

func pose(x, y, rot float64) types.Pose {
	return types.Pose{Position: types.Point{X: x, Y: y}, Rotation: rot}
}

func testShape() *types.ShapeData {
	return &types.ShapeData{
		ShapeID: "test",
		Name:    "Test Shape",
		Poses: [types.GroupCount][]types.Pose{
			types.GroupLargeTriangles: {pose(0, 2, 0), pose(-2, 0, 90)},
			types.GroupSmallTriangles: {pose(2, 1, 270), pose(0, -1, 180)},
			types.GroupMediumTriangle: {pose(1, -1, 315)},
			types.GroupSquare:         {pose(0, 0, 45)},
			types.GroupParallelogram:  {pose(-1, -2, 0)},
		},
		Solutions: []types.Solution{
			{0, 1, 0, 1, 0, 0, 0},
			{1, 0, 0, 1, 0, 0, 0},
		},
	}
}

func TestLoad(t *testing.T) {
	cat, err := Load(testShape(), types.Point{})
	require.NoError(t, err)

	assert.Equal(t, "test", cat.ShapeID())
	assert.Equal(t, "Test Shape", cat.Name())
	assert.Equal(t, 2, cat.SolutionCount())
	assert.Equal(t, types.Solution{1, 0, 0, 1, 0, 0, 0}, cat.Solution(1))
	assert.Equal(t, 1, cat.Index(0, types.SlotLargeTriangleB))
	assert.Equal(t, pose(-2, 0, 90), cat.SlotPose(0, types.SlotLargeTriangleB))
	assert.Equal(t, pose(0, -1, 180), cat.Pose(types.GroupSmallTriangles, 1))
	assert.Len(t, cat.PosesFor(types.GroupLargeTriangles), 2)
	assert.Nil(t, cat.PosesFor(types.CatalogGroup(9)))
}

func TestLoadAppliesOffsetOnce(t *testing.T) {
	cat, err := Load(testShape(), types.Point{X: 10, Y: 5})
	require.NoError(t, err)

	assert.Equal(t, types.Point{X: 10, Y: 7}, cat.Pose(types.GroupLargeTriangles, 0).Position)
	assert.Equal(t, types.Point{X: 9, Y: 3}, cat.SlotPose(1, types.SlotParallelogram).Position)
}

func TestLoadNormalizesRotations(t *testing.T) {
	data := testShape()
	data.Poses[types.GroupMediumTriangle][0].Rotation = -45
	data.Poses[types.GroupSquare][0].Rotation = 405

	cat, err := Load(data, types.Point{})
	require.NoError(t, err)
	assert.InDelta(t, 315, cat.Pose(types.GroupMediumTriangle, 0).Rotation, 1e-9)
	assert.InDelta(t, 45, cat.Pose(types.GroupSquare, 0).Rotation, 1e-9)
}

func TestLoadIsolatedFromInput(t *testing.T) {
	data := testShape()
	cat, err := Load(data, types.Point{})
	require.NoError(t, err)

	data.Poses[types.GroupSquare][0] = pose(99, 99, 0)
	data.Solutions[0][types.SlotLargeTriangleA] = 1
	assert.Equal(t, pose(0, 0, 45), cat.Pose(types.GroupSquare, 0))
	assert.Equal(t, 0, cat.Index(0, types.SlotLargeTriangleA))

	got := cat.PosesFor(types.GroupSquare)
	got[0] = pose(1, 1, 1)
	assert.Equal(t, pose(0, 0, 45), cat.Pose(types.GroupSquare, 0))
}

func TestLoadNameFallsBackToID(t *testing.T) {
	data := testShape()
	data.Name = ""
	cat, err := Load(data, types.Point{})
	require.NoError(t, err)
	assert.Equal(t, "test", cat.Name())
}

func TestLoadRejectsMalformedData(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.ShapeData) *types.ShapeData
	}{
		{"nil data", func(*types.ShapeData) *types.ShapeData { return nil }},
		{"missing shape id", func(d *types.ShapeData) *types.ShapeData {
			d.ShapeID = ""
			return d
		}},
		{"no solutions", func(d *types.ShapeData) *types.ShapeData {
			d.Solutions = nil
			return d
		}},
		{"negative index", func(d *types.ShapeData) *types.ShapeData {
			d.Solutions[0][types.SlotMediumTriangle] = -1
			return d
		}},
		{"index past pose list", func(d *types.ShapeData) *types.ShapeData {
			d.Solutions[1][types.SlotSquare] = 1
			return d
		}},
		{"empty group", func(d *types.ShapeData) *types.ShapeData {
			d.Poses[types.GroupParallelogram] = nil
			return d
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := Load(tt.mutate(testShape()), types.Point{})
			assert.ErrorIs(t, err, types.ErrDataFormat)
			assert.Nil(t, cat)
		})
	}
}
