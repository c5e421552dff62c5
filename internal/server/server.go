// Package server exposes a Board over HTTP for browser and remote front
// ends. It is an input collaborator: it parses requests, serializes access
// to the board, and renders snapshots. No matching logic lives here.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mesh-intelligence/tangram/internal/board"
	"github.com/mesh-intelligence/tangram/pkg/types"
)

// Server routes HTTP requests to one Board.
type Server struct {
	// mu serializes every board call.
	mu sync.Mutex
	// loading is set while a new round's shape loads. Piece input is
	// refused until it clears; reads keep seeing the current round.
	loading atomic.Bool
	board   *board.Board
	shapes  types.CatalogSource
	logger  *slog.Logger
	router  *gin.Engine
}

// New builds a Server. gatherer backs GET /metrics and may be nil to
// disable the endpoint.
func New(b *board.Board, shapes types.CatalogSource, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{board: b, shapes: shapes, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests())

	r.GET("/shapes", s.listShapes)
	r.POST("/rounds", s.startRound)
	r.GET("/board", s.getBoard)
	r.PUT("/pieces/:slot", s.placePiece)
	r.DELETE("/pieces/:slot", s.releasePiece)
	r.GET("/pieces/:slot/admissible", s.admissible)
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

type startRoundRequest struct {
	Shape string `json:"shape" binding:"required"`
}

type placeRequest struct {
	Pose types.Pose `json:"pose"`
	// Drop docks the piece; false only moves it.
	Drop *bool `json:"drop,omitempty"`
}

type placeResponse struct {
	Slot     types.Slot `json:"slot"`
	Docked   bool       `json:"docked"`
	Pose     types.Pose `json:"pose"`
	Complete bool       `json:"complete"`
}

func (s *Server) listShapes(c *gin.Context) {
	ids, err := s.shapes.ListShapes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"shapes": ids})
}

func (s *Server) startRound(c *gin.Context) {
	var req startRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !s.loading.CompareAndSwap(false, true) {
		c.JSON(http.StatusConflict, gin.H{"error": types.ErrLoadInProgress.Error()})
		return
	}
	defer s.loading.Store(false)

	ctx := c.Request.Context()
	s.mu.Lock()
	pending := s.board.Load(ctx, req.Shape)
	s.mu.Unlock()

	select {
	case <-pending.Done():
	case <-ctx.Done():
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.board.Commit(ctx, pending); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, types.ErrDataFormat):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, types.ErrDataLoad):
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, s.board.Snapshot())
}

func (s *Server) getBoard(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.board.RoundID() == "" {
		c.JSON(http.StatusConflict, gin.H{"error": types.ErrNoRound.Error()})
		return
	}
	c.JSON(http.StatusOK, s.board.Snapshot())
}

func (s *Server) placePiece(c *gin.Context) {
	slot, ok := slotParam(c)
	if !ok {
		return
	}
	var req placeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if s.refuseWhileLoading(c) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.board.RoundID() == "" {
		c.JSON(http.StatusConflict, gin.H{"error": types.ErrNoRound.Error()})
		return
	}

	var docked bool
	if req.Drop == nil || *req.Drop {
		docked = s.board.TrySetPiecePose(slot, req.Pose)
	} else {
		s.board.MovePiece(slot, req.Pose)
	}
	pose, _ := s.board.PiecePose(slot)
	c.JSON(http.StatusOK, placeResponse{
		Slot:     slot,
		Docked:   docked,
		Pose:     pose,
		Complete: s.board.IsRoundComplete(),
	})
}

func (s *Server) releasePiece(c *gin.Context) {
	slot, ok := slotParam(c)
	if !ok || s.refuseWhileLoading(c) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"slot": slot, "released": s.board.ReleasePiece(slot)})
}

func (s *Server) admissible(c *gin.Context) {
	slot, ok := slotParam(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	poses := s.board.Admissible(slot)
	if poses == nil {
		poses = []types.Pose{}
	}
	c.JSON(http.StatusOK, gin.H{"slot": slot, "poses": poses})
}

// refuseWhileLoading writes a 409 and returns true when a shape load is
// in flight.
func (s *Server) refuseWhileLoading(c *gin.Context) bool {
	if !s.loading.Load() {
		return false
	}
	c.JSON(http.StatusConflict, gin.H{"error": types.ErrLoadInProgress.Error()})
	return true
}

// slotParam parses the :slot path parameter, writing a 400 on failure.
func slotParam(c *gin.Context) (types.Slot, bool) {
	slot, err := types.ParseSlot(c.Param("slot"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, false
	}
	return slot, true
}

// logRequests logs each request with slog at debug level.
func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}
