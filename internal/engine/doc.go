// Package engine implements solution-space narrowing for a tangram board:
// the reachable solution set maintained as slots dock and undock, the
// tolerance matcher that snaps live poses onto admissible catalog poses,
// and the per-slot board state with edge-triggered completion.
//
// Nothing in this package locks; every operation runs to completion
// synchronously and callers serialize access.
package engine
