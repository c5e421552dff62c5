package engine

import (
	"slices"

	"github.com/mesh-intelligence/tangram/internal/catalog"
	"github.com/mesh-intelligence/tangram/pkg/types"
)

// Candidate is one admissible pose for a slot together with the catalog
// index of the canonical pose it was expanded from.
type Candidate struct {
	Pose  types.Pose
	Index int
}

// Narrowing owns the reachable solution set of one round: the solution
// indexes consistent with every docked slot's catalog index. It is the only
// writer of that set.
type Narrowing struct {
	cat       *catalog.Catalog
	reachable []int
	docked    [types.SlotCount]bool
	index     [types.SlotCount]int
}

// NewNarrowing returns a Narrowing over cat with every solution reachable.
func NewNarrowing(cat *catalog.Catalog) *Narrowing {
	n := &Narrowing{cat: cat}
	n.Reset()
	return n
}

// Reset frees every slot and makes every solution reachable again.
func (n *Narrowing) Reset() {
	n.docked = [types.SlotCount]bool{}
	n.index = [types.SlotCount]int{}
	n.reachable = n.fullRange()
}

// Catalog returns the catalog this narrowing reads from.
func (n *Narrowing) Catalog() *catalog.Catalog { return n.cat }

// Reachable returns a copy of the reachable solution indexes, ascending.
func (n *Narrowing) Reachable() []int {
	return slices.Clone(n.reachable)
}

// IsDocked reports whether slot s is docked.
func (n *Narrowing) IsDocked(s types.Slot) bool {
	s.MustValid()
	return n.docked[s]
}

// DockedIndex returns the catalog index slot s is docked at, and whether it
// is docked.
func (n *Narrowing) DockedIndex(s types.Slot) (int, bool) {
	s.MustValid()
	return n.index[s], n.docked[s]
}

// AdmissiblePoses returns the candidate poses slot s may dock at given the
// current reachable set. Solutions are visited in ascending order; each
// canonical catalog pose is expanded once even when several reachable
// solutions reference it.
func (n *Narrowing) AdmissiblePoses(s types.Slot) []Candidate {
	s.MustValid()
	g := s.Group()
	seen := make(map[int]bool, len(n.reachable))
	var out []Candidate
	for _, sol := range n.reachable {
		idx := n.cat.Index(sol, s)
		if seen[idx] {
			continue
		}
		seen[idx] = true
		for _, p := range catalog.Expand(s, n.cat.Pose(g, idx)) {
			out = append(out, Candidate{Pose: p, Index: idx})
		}
	}
	return out
}

// Dock records slot s at catalog index and keeps only the reachable
// solutions that assign index to s. Returns false, changing nothing, when
// s is already docked.
func (n *Narrowing) Dock(s types.Slot, index int) bool {
	s.MustValid()
	if n.docked[s] {
		return false
	}
	n.docked[s] = true
	n.index[s] = index
	n.reachable = n.narrow(n.reachable, s, index)
	return true
}

// Undock frees slot s and rebuilds the reachable set from the full
// solution range by replaying every slot that is still docked. The
// solutions excluded by s alone are not tracked, so the set is never
// patched in place. Returns false when s is already free.
func (n *Narrowing) Undock(s types.Slot) bool {
	s.MustValid()
	if !n.docked[s] {
		return false
	}
	n.docked[s] = false
	n.index[s] = 0
	n.recompute()
	return true
}

// recompute rebuilds the reachable set from the full range.
func (n *Narrowing) recompute() {
	set := n.fullRange()
	for _, s := range types.AllSlots() {
		if n.docked[s] {
			set = n.narrow(set, s, n.index[s])
		}
	}
	n.reachable = set
}

// narrow returns the members of set whose entry for s equals index. The
// result is a new slice.
func (n *Narrowing) narrow(set []int, s types.Slot, index int) []int {
	out := make([]int, 0, len(set))
	for _, sol := range set {
		if n.cat.Index(sol, s) == index {
			out = append(out, sol)
		}
	}
	return out
}

func (n *Narrowing) fullRange() []int {
	set := make([]int, n.cat.SolutionCount())
	for i := range set {
		set[i] = i
	}
	return set
}
