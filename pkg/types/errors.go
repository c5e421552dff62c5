package types

import "errors"

// Catalog data errors. ErrDataLoad means the shape asset could not be
// obtained; ErrDataFormat means it was obtained but is malformed and must
// never be installed.
var (
	ErrDataLoad   = errors.New("shape data unavailable")
	ErrDataFormat = errors.New("malformed shape data")
)

// ErrInvalidSlot is the panic value (wrapped) for per-slot operations
// called with an unknown slot, and the error returned when parsing an
// unknown slot name.
var ErrInvalidSlot = errors.New("invalid slot")

// Board errors.
var (
	ErrNoRound        = errors.New("no round in progress")
	ErrLoadInProgress = errors.New("shape load in progress")
)

// Catalog store errors.
var (
	ErrStoreDetached   = errors.New("catalog store is detached")
	ErrAlreadyAttached = errors.New("catalog store is already attached")
	ErrShapeExists     = errors.New("shape already exists")
)
