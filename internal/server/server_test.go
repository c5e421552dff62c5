package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tangram/internal/board"
	"github.com/mesh-intelligence/tangram/internal/metrics"
	"github.com/mesh-intelligence/tangram/pkg/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func pose(x, y, rot float64) types.Pose {
	return types.Pose{Position: types.Point{X: x, Y: y}, Rotation: rot}
}

type memSource map[string]*types.ShapeData

func (m memSource) FetchShape(_ context.Context, id string) (*types.ShapeData, error) {
	if d, ok := m[id]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: shape %q not found", types.ErrDataLoad, id)
}

func (m memSource) ListShapes(context.Context) ([]string, error) {
	return []string{"bad", "square"}, nil
}

func testSource() memSource {
	square := &types.ShapeData{
		ShapeID: "square",
		Poses: [types.GroupCount][]types.Pose{
			types.GroupLargeTriangles: {pose(0, 2, 0), pose(-2, 0, 90)},
			types.GroupSmallTriangles: {pose(2, 1, 270), pose(0, -1, 180)},
			types.GroupMediumTriangle: {pose(1, -1, 315)},
			types.GroupSquare:         {pose(0, 0, 0)},
			types.GroupParallelogram:  {pose(-1, -2, 0)},
		},
		Solutions: []types.Solution{
			{0, 1, 0, 1, 0, 0, 0},
			{1, 0, 0, 1, 0, 0, 0},
		},
	}
	bad := &types.ShapeData{ShapeID: "bad", Solutions: []types.Solution{{0, 0, 0, 0, 0, 0, 0}}}
	return memSource{"square": square, "bad": bad}
}

func newTestServer(t *testing.T) (*Server, *prometheus.Registry) {
	t.Helper()
	src := testSource()
	reg := prometheus.NewRegistry()
	b := board.New(src, board.WithMetrics(metrics.New(reg)))
	return New(b, src, reg, nil), reg
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestListShapes(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s, http.MethodGet, "/shapes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"shapes":["bad","square"]}`, w.Body.String())
}

func TestStartRound(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/board", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, s, http.MethodPost, "/rounds", `{"shape":"square"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	snap := decode[board.Snapshot](t, w)
	assert.Equal(t, "square", snap.ShapeID)
	assert.Len(t, snap.Pieces, types.SlotCount)
	assert.Equal(t, []int{0, 1}, snap.Reachable)

	w = do(t, s, http.MethodGet, "/board", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, snap.RoundID, decode[board.Snapshot](t, w).RoundID)
}

func TestStartRoundErrors(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing shape field", `{}`, http.StatusBadRequest},
		{"invalid json", `{`, http.StatusBadRequest},
		{"unknown shape", `{"shape":"dragon"}`, http.StatusNotFound},
		{"malformed shape", `{"shape":"bad"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/rounds", tt.body)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestPlaceAndReleasePiece(t *testing.T) {
	s, _ := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/rounds", `{"shape":"square"}`).Code)

	w := do(t, s, http.MethodPut, "/pieces/square", `{"pose":{"position":{"x":0.1,"y":0.1},"rotation":268}}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[placeResponse](t, w)
	assert.True(t, resp.Docked)
	assert.Equal(t, types.SlotSquare, resp.Slot)
	assert.InDelta(t, 270, resp.Pose.Rotation, 1e-9)
	assert.Equal(t, types.Point{}, resp.Pose.Position)
	assert.False(t, resp.Complete)

	w = do(t, s, http.MethodDelete, "/pieces/square", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"slot":"square","released":true}`, w.Body.String())

	w = do(t, s, http.MethodDelete, "/pieces/square", "")
	assert.JSONEq(t, `{"slot":"square","released":false}`, w.Body.String())
}

func TestMovePieceWithoutDrop(t *testing.T) {
	s, _ := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/rounds", `{"shape":"square"}`).Code)

	w := do(t, s, http.MethodPut, "/pieces/square", `{"pose":{"position":{"x":0,"y":0},"rotation":0},"drop":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[placeResponse](t, w)
	assert.False(t, resp.Docked, "moving never docks")
	assert.Equal(t, pose(0, 0, 0), resp.Pose)
}

func TestPieceRequestErrors(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodPut, "/pieces/square", `{"pose":{"rotation":0}}`)
	assert.Equal(t, http.StatusConflict, w.Code, "no round yet")

	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/rounds", `{"shape":"square"}`).Code)
	w = do(t, s, http.MethodPut, "/pieces/hexagon", `{"pose":{"rotation":0}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), types.ErrInvalidSlot.Error())

	w = do(t, s, http.MethodDelete, "/pieces/hexagon", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmissible(t *testing.T) {
	s, _ := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/rounds", `{"shape":"square"}`).Code)

	w := do(t, s, http.MethodGet, "/pieces/square/admissible", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Poses []types.Pose `json:"poses"`
	}](t, w)
	assert.Len(t, resp.Poses, 4)
}

func TestCompleteRoundOverHTTP(t *testing.T) {
	s, _ := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/rounds", `{"shape":"square"}`).Code)

	var last placeResponse
	for _, slot := range types.AllSlots() {
		w := do(t, s, http.MethodGet, "/pieces/"+slot.String()+"/admissible", "")
		poses := decode[struct {
			Poses []types.Pose `json:"poses"`
		}](t, w).Poses
		require.NotEmpty(t, poses)
		body, err := json.Marshal(placeRequest{Pose: poses[0]})
		require.NoError(t, err)
		w = do(t, s, http.MethodPut, "/pieces/"+slot.String(), string(body))
		last = decode[placeResponse](t, w)
		require.True(t, last.Docked, slot.String())
	}
	assert.True(t, last.Complete)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/rounds", `{"shape":"square"}`).Code)

	w := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `tangram_rounds_total{event="started"} 1`))
}

func TestNoMetricsEndpointWithoutGatherer(t *testing.T) {
	b := board.New(testSource())
	s := New(b, testSource(), nil, nil)
	w := do(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// gatedSource holds FetchShape until gate closes.
type gatedSource struct {
	memSource
	gate chan struct{}
}

func (g gatedSource) FetchShape(ctx context.Context, id string) (*types.ShapeData, error) {
	select {
	case <-g.gate:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return g.memSource.FetchShape(ctx, id)
}

func TestPieceInputRefusedWhileLoading(t *testing.T) {
	src := gatedSource{memSource: testSource(), gate: make(chan struct{})}
	s := New(board.New(src), src, nil, nil)

	done := make(chan *httptest.ResponseRecorder)
	go func() {
		done <- do(t, s, http.MethodPost, "/rounds", `{"shape":"square"}`)
	}()
	require.Eventually(t, s.loading.Load, 5*time.Second, time.Millisecond)

	w := do(t, s, http.MethodPut, "/pieces/square", `{"pose":{"rotation":0}}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), types.ErrLoadInProgress.Error())

	w = do(t, s, http.MethodPost, "/rounds", `{"shape":"square"}`)
	assert.Equal(t, http.StatusConflict, w.Code, "one load at a time")

	w = do(t, s, http.MethodGet, "/board", "")
	assert.Equal(t, http.StatusConflict, w.Code, "reads are served while loading")

	close(src.gate)
	select {
	case w = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("round did not start")
	}
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.False(t, s.loading.Load())
}
