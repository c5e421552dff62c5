// Raw shape assets and the interface that resolves them.
package types

import "context"

// Solution assigns each slot an index into its catalog group's pose list.
type Solution [SlotCount]int

// Index returns the catalog index the solution assigns to slot s.
func (sol Solution) Index(s Slot) int {
	s.MustValid()
	return sol[s]
}

// ShapeData is the raw asset for one target shape: five ordered pose lists
// (indexed by CatalogGroup) and the complete solutions referencing them.
// Positions are shape-local; the board offset is applied by the catalog.
type ShapeData struct {
	ShapeID   string             `json:"shape_id" validate:"required"`
	Name      string             `json:"name,omitempty"`
	Poses     [GroupCount][]Pose `json:"poses"`
	Solutions []Solution         `json:"solutions" validate:"required,min=1,dive,dive,gte=0"`
}

// CatalogSource resolves shape assets by ID. Implementations return an
// error wrapping ErrDataLoad when no asset exists for the ID.
type CatalogSource interface {
	// FetchShape returns the raw pose lists and solution table for shapeID.
	FetchShape(ctx context.Context, shapeID string) (*ShapeData, error)

	// ListShapes returns the IDs of every available shape, sorted.
	ListShapes(ctx context.Context) ([]string, error)
}

// CatalogStore is a CatalogSource with a lifecycle and write access.
type CatalogStore interface {
	CatalogSource

	// Attach connects the store to the backend described by config.
	// Returns ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	Detach() error

	// ImportShape stores a new shape. Returns ErrShapeExists if the ID is
	// taken.
	ImportShape(ctx context.Context, data *ShapeData) error
}
