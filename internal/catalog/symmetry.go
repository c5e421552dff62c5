package catalog

import "github.com/mesh-intelligence/tangram/pkg/types"

// pairedSlotTurn is the rotation applied to a paired triangle slot: slot B
// is the same hole approached from a reference piece turned a quarter.
const pairedSlotTurn = -90

// Expand returns every pose a piece in slot s may occupy for the canonical
// catalog pose p. The result always holds new values; p is never modified.
//
//	triangle, slot A or medium    p
//	large/small triangle, slot B  p rotated -90
//	square                        p rotated 0, 90, 180, 270
//	parallelogram                 p rotated 0, 180
func Expand(s types.Slot, p types.Pose) []types.Pose {
	switch s.PieceType() {
	case types.PieceSquare:
		return []types.Pose{p.Rotated(0), p.Rotated(90), p.Rotated(180), p.Rotated(270)}
	case types.PieceParallelogram:
		return []types.Pose{p.Rotated(0), p.Rotated(180)}
	case types.PieceLargeTriangle, types.PieceSmallTriangle:
		if s.Paired() {
			return []types.Pose{p.Rotated(pairedSlotTurn)}
		}
		return []types.Pose{p.Rotated(0)}
	default:
		return []types.Pose{p.Rotated(0)}
	}
}
