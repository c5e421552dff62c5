package engine

import "github.com/mesh-intelligence/tangram/pkg/types"

// BoardState tracks which slots are docked and signals completion once per
// round, on the transition to all seven slots docked.
type BoardState struct {
	docked     [types.SlotCount]bool
	count      int
	notified   bool
	onComplete func()
}

// NewBoardState returns an empty BoardState. onComplete may be nil.
func NewBoardState(onComplete func()) *BoardState {
	return &BoardState{onComplete: onComplete}
}

// Reset frees every slot and re-arms the completion signal.
func (b *BoardState) Reset() {
	b.docked = [types.SlotCount]bool{}
	b.count = 0
	b.notified = false
}

// OnDocked marks slot s docked. Returns false if it already was. The
// completion callback runs at most once per round, when the count reaches
// SlotCount.
func (b *BoardState) OnDocked(s types.Slot) bool {
	s.MustValid()
	if b.docked[s] {
		return false
	}
	b.docked[s] = true
	b.count++
	if b.count == types.SlotCount && !b.notified {
		b.notified = true
		if b.onComplete != nil {
			b.onComplete()
		}
	}
	return true
}

// OnUndocked marks slot s free. Returns false if it already was.
func (b *BoardState) OnUndocked(s types.Slot) bool {
	s.MustValid()
	if !b.docked[s] {
		return false
	}
	b.docked[s] = false
	b.count--
	return true
}

// IsDocked reports whether slot s is docked.
func (b *BoardState) IsDocked(s types.Slot) bool {
	s.MustValid()
	return b.docked[s]
}

// DockedCount returns the number of docked slots.
func (b *BoardState) DockedCount() int { return b.count }

// IsComplete reports whether all seven slots are docked.
func (b *BoardState) IsComplete() bool { return b.count == types.SlotCount }
