package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tangram/pkg/types"
)

func TestBoardStateCompletesOnce(t *testing.T) {
	fired := 0
	b := NewBoardState(func() { fired++ })

	for _, s := range types.AllSlots() {
		require.False(t, b.IsComplete())
		require.True(t, b.OnDocked(s))
	}
	assert.True(t, b.IsComplete())
	assert.Equal(t, 1, fired)

	require.True(t, b.OnUndocked(types.SlotSquare))
	assert.False(t, b.IsComplete())
	require.True(t, b.OnDocked(types.SlotSquare))
	assert.True(t, b.IsComplete())
	assert.Equal(t, 1, fired, "completion is signalled once per round")
}

func TestBoardStateResetRearms(t *testing.T) {
	fired := 0
	b := NewBoardState(func() { fired++ })
	for _, s := range types.AllSlots() {
		b.OnDocked(s)
	}
	b.Reset()
	assert.Equal(t, 0, b.DockedCount())
	for _, s := range types.AllSlots() {
		b.OnDocked(s)
	}
	assert.Equal(t, 2, fired)
}

func TestBoardStateIdempotent(t *testing.T) {
	b := NewBoardState(nil)
	assert.True(t, b.OnDocked(types.SlotParallelogram))
	assert.False(t, b.OnDocked(types.SlotParallelogram))
	assert.Equal(t, 1, b.DockedCount())
	assert.True(t, b.IsDocked(types.SlotParallelogram))

	assert.True(t, b.OnUndocked(types.SlotParallelogram))
	assert.False(t, b.OnUndocked(types.SlotParallelogram))
	assert.Equal(t, 0, b.DockedCount())
}

func TestSolveRoundThroughMatcher(t *testing.T) {
	cat := testCatalog(t)
	n := NewNarrowing(cat)
	m := NewMatcher(n, types.DefaultTolerance())
	fired := 0
	state := NewBoardState(func() { fired++ })

	// Dock every slot at its first admissible pose, nudged.
	for _, s := range types.AllSlots() {
		cands := n.AdmissiblePoses(s)
		require.NotEmpty(t, cands, "slot %s", s)
		live := cands[0].Pose.Translated(types.Point{X: 0.05, Y: -0.05}).Rotated(3)
		_, ok := m.TryDock(s, live)
		require.True(t, ok, "slot %s", s)
		state.OnDocked(s)
	}
	assert.Equal(t, 1, fired)
	assert.Len(t, n.Reachable(), 1)
}
