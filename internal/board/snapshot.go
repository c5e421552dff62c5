package board

import "github.com/mesh-intelligence/tangram/pkg/types"

// PieceState is one slot's view in a Snapshot.
type PieceState struct {
	Slot   types.Slot `json:"slot"`
	Pose   types.Pose `json:"pose"`
	Docked bool       `json:"docked"`
}

// Snapshot is a read-only copy of the board for presentation code.
type Snapshot struct {
	RoundID   string       `json:"round_id"`
	ShapeID   string       `json:"shape_id"`
	Complete  bool         `json:"complete"`
	Reachable []int        `json:"reachable"`
	Pieces    []PieceState `json:"pieces"`
}

// Snapshot copies the current round's state. Before the first round it
// returns an empty snapshot with no pieces.
func (b *Board) Snapshot() Snapshot {
	r := b.round
	if r == nil {
		return Snapshot{}
	}
	snap := Snapshot{
		RoundID:   r.id,
		ShapeID:   r.cat.ShapeID(),
		Complete:  r.state.IsComplete(),
		Reachable: r.narrowing.Reachable(),
		Pieces:    make([]PieceState, 0, types.SlotCount),
	}
	for _, s := range types.AllSlots() {
		snap.Pieces = append(snap.Pieces, PieceState{
			Slot:   s,
			Pose:   r.poses[s],
			Docked: r.state.IsDocked(s),
		})
	}
	return snap
}
