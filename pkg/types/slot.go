// Slot identities, piece types and catalog groups.
package types

import (
	"fmt"
	"strings"
)

// Slot identifies one of the seven fixed pieces on the board.
type Slot int

// The seven board slots, in catalog solution order.
const (
	SlotLargeTriangleA Slot = iota
	SlotLargeTriangleB
	SlotSmallTriangleA
	SlotSmallTriangleB
	SlotMediumTriangle
	SlotSquare
	SlotParallelogram
)

// SlotCount is the number of pieces on a board.
const SlotCount = 7

// PieceType is the geometric kind of a piece.
type PieceType int

// Piece types.
const (
	PieceLargeTriangle PieceType = iota
	PieceSmallTriangle
	PieceMediumTriangle
	PieceSquare
	PieceParallelogram
)

// CatalogGroup names a pose list shared by one or more slots.
type CatalogGroup int

// Catalog groups. The large triangles share one list, as do the small
// triangles.
const (
	GroupLargeTriangles CatalogGroup = iota
	GroupSmallTriangles
	GroupMediumTriangle
	GroupSquare
	GroupParallelogram
)

// GroupCount is the number of catalog groups in a shape.
const GroupCount = 5

type slotInfo struct {
	name   string
	piece  PieceType
	group  CatalogGroup
	paired bool
}

// slots is the fixed slot table; it is never modified at runtime.
var slots = [SlotCount]slotInfo{
	SlotLargeTriangleA: {"large-triangle-a", PieceLargeTriangle, GroupLargeTriangles, false},
	SlotLargeTriangleB: {"large-triangle-b", PieceLargeTriangle, GroupLargeTriangles, true},
	SlotSmallTriangleA: {"small-triangle-a", PieceSmallTriangle, GroupSmallTriangles, false},
	SlotSmallTriangleB: {"small-triangle-b", PieceSmallTriangle, GroupSmallTriangles, true},
	SlotMediumTriangle: {"medium-triangle", PieceMediumTriangle, GroupMediumTriangle, false},
	SlotSquare:         {"square", PieceSquare, GroupSquare, false},
	SlotParallelogram:  {"parallelogram", PieceParallelogram, GroupParallelogram, false},
}

var groupNames = [GroupCount]string{
	GroupLargeTriangles: "large_triangles",
	GroupSmallTriangles: "small_triangles",
	GroupMediumTriangle: "medium_triangle",
	GroupSquare:         "square",
	GroupParallelogram:  "parallelogram",
}

var pieceNames = [...]string{
	PieceLargeTriangle:  "large triangle",
	PieceSmallTriangle:  "small triangle",
	PieceMediumTriangle: "medium triangle",
	PieceSquare:         "square",
	PieceParallelogram:  "parallelogram",
}

// AllSlots returns the seven slots in order.
func AllSlots() []Slot {
	out := make([]Slot, SlotCount)
	for i := range out {
		out[i] = Slot(i)
	}
	return out
}

// Valid reports whether s is one of the seven known slots.
func (s Slot) Valid() bool {
	return s >= 0 && int(s) < SlotCount
}

// MustValid panics with an error wrapping ErrInvalidSlot when s is not a
// known slot. Per-slot operations call it on entry.
func (s Slot) MustValid() {
	if !s.Valid() {
		panic(fmt.Errorf("%w: %d", ErrInvalidSlot, int(s)))
	}
}

// String returns the slot's canonical name, e.g. "large-triangle-b".
func (s Slot) String() string {
	if !s.Valid() {
		return fmt.Sprintf("slot(%d)", int(s))
	}
	return slots[s].name
}

// PieceType returns the geometric kind of the piece in slot s.
func (s Slot) PieceType() PieceType {
	s.MustValid()
	return slots[s].piece
}

// Group returns the catalog group slot s draws its poses from.
func (s Slot) Group() CatalogGroup {
	s.MustValid()
	return slots[s].group
}

// Paired reports whether s is the second slot of a shared catalog group
// (LargeTriangleB, SmallTriangleB).
func (s Slot) Paired() bool {
	s.MustValid()
	return slots[s].paired
}

// MarshalText encodes the slot by name.
func (s Slot) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSlot, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a slot name accepted by ParseSlot.
func (s *Slot) UnmarshalText(text []byte) error {
	v, err := ParseSlot(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSlot resolves a slot name. Matching ignores case and accepts "_"
// in place of "-". Returns ErrInvalidSlot for unknown names.
func ParseSlot(name string) (Slot, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for i, info := range slots {
		if info.name == n {
			return Slot(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, name)
}

// String returns the piece type's display name.
func (p PieceType) String() string {
	if p < 0 || int(p) >= len(pieceNames) {
		return fmt.Sprintf("piece(%d)", int(p))
	}
	return pieceNames[p]
}

// Valid reports whether g is a known catalog group.
func (g CatalogGroup) Valid() bool {
	return g >= 0 && int(g) < GroupCount
}

// String returns the group's storage name, e.g. "small_triangles".
func (g CatalogGroup) String() string {
	if !g.Valid() {
		return fmt.Sprintf("group(%d)", int(g))
	}
	return groupNames[g]
}

// ParseCatalogGroup resolves a storage name produced by CatalogGroup.String.
func ParseCatalogGroup(name string) (CatalogGroup, error) {
	for i, n := range groupNames {
		if n == name {
			return CatalogGroup(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown catalog group %q", ErrDataFormat, name)
}
