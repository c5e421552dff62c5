// Package board is the session facade collaborators drive: it loads shape
// catalogs, installs rounds atomically, and routes piece poses through the
// narrowing engine.
package board

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/tangram/internal/catalog"
	"github.com/mesh-intelligence/tangram/internal/engine"
	"github.com/mesh-intelligence/tangram/internal/metrics"
	"github.com/mesh-intelligence/tangram/pkg/types"
)

// RoundSummary is handed to the completion callback when a round finishes.
type RoundSummary struct {
	RoundID   string        `json:"round_id"`
	ShapeID   string        `json:"shape_id"`
	Attempts  int           `json:"attempts"`
	Duration  time.Duration `json:"duration"`
	Completed time.Time     `json:"completed"`
}

// Option configures a Board.
type Option func(*Board)

// WithConfig sets tolerances and layout offsets. Zero tolerances take the
// defaults.
func WithConfig(cfg types.Config) Option {
	return func(b *Board) { b.cfg = cfg.WithDefaults() }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Board) { b.logger = l }
}

// WithMetrics sets the Prometheus instruments.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Board) { b.metrics = m }
}

// WithCompletion sets the callback invoked exactly once per completed round.
func WithCompletion(fn func(RoundSummary)) Option {
	return func(b *Board) { b.onComplete = fn }
}

// Board is one player's tangram table. A Board is constructed explicitly
// and passed to collaborators; it is not safe for concurrent use and must
// not be driven while a load it started is being installed.
type Board struct {
	source     types.CatalogSource
	cfg        types.Config
	logger     *slog.Logger
	metrics    *metrics.Metrics
	onComplete func(RoundSummary)

	// round is nil until the first successful install.
	round *round
}

// round is the complete per-round state. It is built whole by Install and
// swapped in with a single assignment.
type round struct {
	id        string
	cat       *catalog.Catalog
	narrowing *engine.Narrowing
	matcher   *engine.Matcher
	state     *engine.BoardState
	poses     [types.SlotCount]types.Pose
	started   time.Time
	attempts  int
	finished  bool
}

// New returns a Board resolving shapes from source.
func New(source types.CatalogSource, opts ...Option) *Board {
	b := &Board{
		source: source,
		cfg:    types.Config{Backend: types.BackendSQLite}.WithDefaults(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Config returns the board's effective configuration.
func (b *Board) Config() types.Config { return b.cfg }

// Install replaces the catalog, narrowing engine and board state with a
// fresh round over cat in one step, and lays the pieces out in the tray.
func (b *Board) Install(cat *catalog.Catalog) {
	r := &round{
		id:      newRoundID(),
		cat:     cat,
		started: time.Now(),
	}
	r.narrowing = engine.NewNarrowing(cat)
	r.matcher = engine.NewMatcher(r.narrowing, b.cfg.Tolerance)
	r.state = engine.NewBoardState(func() { b.complete(r) })
	for _, s := range types.AllSlots() {
		r.poses[s] = b.trayPose(cat, s)
	}
	b.round = r

	b.metrics.Round(metrics.RoundStarted)
	b.metrics.Reachable(cat.SolutionCount())
	b.logger.Info("round started",
		slog.String("round_id", r.id),
		slog.String("shape", cat.ShapeID()),
		slog.Int("solutions", cat.SolutionCount()),
	)
}

// trayPose is the starting pose of slot s: solution 0's pose for the slot,
// with the slot's first symmetry expansion, moved from the board frame into
// the tray.
func (b *Board) trayPose(cat *catalog.Catalog, s types.Slot) types.Pose {
	p := catalog.Expand(s, cat.SlotPose(0, s))[0]
	shift := types.Point{
		X: b.cfg.TrayOffset.X - b.cfg.BoardOffset.X,
		Y: b.cfg.TrayOffset.Y - b.cfg.BoardOffset.Y,
	}
	return p.Translated(shift)
}

// TrySetPiecePose offers a live pose for slot s, typically when a drag
// ends. If it lies within tolerance of an admissible pose the piece snaps
// to that pose, docks, and true is returned. Otherwise the piece keeps the
// live pose. Returns false without changes when no round is active, the
// round is complete, or the slot is already docked.
func (b *Board) TrySetPiecePose(s types.Slot, live types.Pose) bool {
	s.MustValid()
	r := b.round
	if r == nil || r.finished || r.state.IsDocked(s) {
		return false
	}
	r.attempts++

	snapped, ok := r.matcher.TryDock(s, live)
	r.poses[s] = snapped
	b.metrics.DockAttempt(ok)
	if !ok {
		b.logger.Debug("piece not docked",
			slog.String("round_id", r.id),
			slog.String("slot", s.String()),
		)
		return false
	}

	reachable := len(r.narrowing.Reachable())
	b.metrics.Reachable(reachable)
	b.logger.Debug("piece docked",
		slog.String("round_id", r.id),
		slog.String("slot", s.String()),
		slog.Int("reachable", reachable),
	)
	r.state.OnDocked(s)
	return true
}

// ReleasePiece undocks slot s, typically when the player picks the piece
// up again. Returns whether the slot was docked.
func (b *Board) ReleasePiece(s types.Slot) bool {
	s.MustValid()
	r := b.round
	if r == nil || r.finished {
		return false
	}
	if !r.matcher.TryUndock(s) {
		return false
	}
	r.state.OnUndocked(s)

	reachable := len(r.narrowing.Reachable())
	b.metrics.Undock()
	b.metrics.Reachable(reachable)
	b.logger.Debug("piece released",
		slog.String("round_id", r.id),
		slog.String("slot", s.String()),
		slog.Int("reachable", reachable),
	)
	return true
}

// MovePiece sets the live pose of a free slot without attempting to dock,
// as a drag in progress does. Returns false when the slot is docked or no
// round is active.
func (b *Board) MovePiece(s types.Slot, live types.Pose) bool {
	s.MustValid()
	r := b.round
	if r == nil || r.finished || r.state.IsDocked(s) {
		return false
	}
	r.poses[s] = live
	return true
}

// IsPieceDocked reports whether slot s is docked in the current round.
func (b *Board) IsPieceDocked(s types.Slot) bool {
	s.MustValid()
	if b.round == nil {
		return false
	}
	return b.round.state.IsDocked(s)
}

// IsRoundComplete reports whether every slot of the current round is
// docked.
func (b *Board) IsRoundComplete() bool {
	return b.round != nil && b.round.state.IsComplete()
}

// PiecePose returns the current pose of slot s and false when no round is
// active.
func (b *Board) PiecePose(s types.Slot) (types.Pose, bool) {
	s.MustValid()
	if b.round == nil {
		return types.Pose{}, false
	}
	return b.round.poses[s], true
}

// Admissible returns the poses slot s could currently dock at.
func (b *Board) Admissible(s types.Slot) []types.Pose {
	s.MustValid()
	if b.round == nil {
		return nil
	}
	cands := b.round.narrowing.AdmissiblePoses(s)
	out := make([]types.Pose, len(cands))
	for i, c := range cands {
		out[i] = c.Pose
	}
	return out
}

// Reachable returns the reachable solution indexes of the current round.
func (b *Board) Reachable() []int {
	if b.round == nil {
		return nil
	}
	return b.round.narrowing.Reachable()
}

// RoundID returns the current round's ID, or "" before the first round.
func (b *Board) RoundID() string {
	if b.round == nil {
		return ""
	}
	return b.round.id
}

// ShapeID returns the current round's shape, or "" before the first round.
func (b *Board) ShapeID() string {
	if b.round == nil {
		return ""
	}
	return b.round.cat.ShapeID()
}

// complete runs once per round from BoardState's edge trigger.
func (b *Board) complete(r *round) {
	r.finished = true
	now := time.Now()
	summary := RoundSummary{
		RoundID:   r.id,
		ShapeID:   r.cat.ShapeID(),
		Attempts:  r.attempts,
		Duration:  now.Sub(r.started),
		Completed: now,
	}
	b.metrics.Round(metrics.RoundCompleted)
	b.logger.Info("round complete",
		slog.String("round_id", r.id),
		slog.String("shape", summary.ShapeID),
		slog.Int("attempts", summary.Attempts),
		slog.Duration("duration", summary.Duration),
	)
	if b.onComplete != nil {
		b.onComplete(summary)
	}
}

// newRoundID generates a UUID v7 round ID.
func newRoundID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
