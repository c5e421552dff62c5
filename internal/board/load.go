package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mesh-intelligence/tangram/internal/catalog"
	"github.com/mesh-intelligence/tangram/internal/metrics"
	"github.com/mesh-intelligence/tangram/pkg/types"
)

// PendingLoad is a shape load running in the background. The board keeps
// serving its current round until the result is installed.
type PendingLoad struct {
	shapeID string
	done    chan struct{}
	cat     *catalog.Catalog
	err     error
}

// Load starts fetching and building the catalog for shapeID. Nothing is
// installed; pass the result of Wait to Install, or call StartRound.
// Cancelling ctx abandons the load.
func (b *Board) Load(ctx context.Context, shapeID string) *PendingLoad {
	p := &PendingLoad{shapeID: shapeID, done: make(chan struct{})}
	source, offset, m := b.source, b.cfg.BoardOffset, b.metrics
	go func() {
		defer close(p.done)
		start := time.Now()
		p.cat, p.err = loadCatalog(ctx, source, shapeID, offset)
		m.ObserveLoad(time.Since(start))
	}()
	return p
}

// ShapeID returns the shape being loaded.
func (p *PendingLoad) ShapeID() string { return p.shapeID }

// Done is closed when the load has finished, successfully or not.
func (p *PendingLoad) Done() <-chan struct{} { return p.done }

// Wait blocks until the load finishes or ctx is done.
func (p *PendingLoad) Wait(ctx context.Context) (*catalog.Catalog, error) {
	select {
	case <-p.done:
		return p.cat, p.err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: shape %q: %w", types.ErrDataLoad, p.shapeID, ctx.Err())
	}
}

// StartRound loads shapeID and installs it as a new round. On failure the
// previous round, if any, stays active and the error wraps
// types.ErrDataLoad or types.ErrDataFormat. The load is attempted once.
func (b *Board) StartRound(ctx context.Context, shapeID string) error {
	return b.Commit(ctx, b.Load(ctx, shapeID))
}

// Commit waits for p and installs its catalog as a new round. A failed or
// abandoned load leaves the current round untouched and returns its error.
// Callers that must keep serving the current round while p runs wait on
// p.Done before calling Commit.
func (b *Board) Commit(ctx context.Context, p *PendingLoad) error {
	cat, err := p.Wait(ctx)
	if err != nil {
		b.metrics.Round(metrics.RoundFailed)
		b.logger.Warn("shape load failed",
			slog.String("shape", p.shapeID),
			slog.String("error", err.Error()),
		)
		return err
	}
	b.Install(cat)
	return nil
}

func loadCatalog(ctx context.Context, source types.CatalogSource, shapeID string, offset types.Point) (*catalog.Catalog, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: shape %q: no catalog source", types.ErrDataLoad, shapeID)
	}
	data, err := source.FetchShape(ctx, shapeID)
	if err != nil {
		if errors.Is(err, types.ErrDataLoad) || errors.Is(err, types.ErrDataFormat) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: shape %q: %w", types.ErrDataLoad, shapeID, err)
	}
	return catalog.Load(data, offset)
}
