package api

import (
	"bytes"
	"context"
	"cvrp-route-service/internal/api/dto"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/ports"
	"cvrp-route-service/internal/services"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type memoryProblems map[string]*domain.Problem

func (m memoryProblems) ListProblems(ctx context.Context) ([]*domain.Problem, error) {
	out := make([]*domain.Problem, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m memoryProblems) GetProblem(ctx context.Context, name string) (*domain.Problem, error) {
	p, ok := m[name]
	if !ok {
		return nil, ports.ErrProblemNotFound
	}
	return p, nil
}

type memorySolutions struct {
	mu sync.Mutex
	m  map[string]*domain.Solution
}

func (s *memorySolutions) SaveSolution(ctx context.Context, sol *domain.Solution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sol.ID] = sol
	return nil
}

func (s *memorySolutions) GetSolution(ctx context.Context, id string) (*domain.Solution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sol, ok := s.m[id]
	if !ok {
		return nil, ports.ErrSolutionNotFound
	}
	return sol, nil
}

func triangle() *domain.Problem {
	return &domain.Problem{
		Name:        "triangle",
		Coordinates: []domain.Coordinates{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 0, Y: 4}},
		Demands:     []float64{0, 4, 5},
		Capacity:    10,
		Depot:       0,
	}
}

func newTestRouter(limiter *rate.Limiter) (http.Handler, *memorySolutions) {
	sols := &memorySolutions{m: map[string]*domain.Solution{}}
	return NewRouter(Deps{
		Problems:  memoryProblems{"triangle": triangle()},
		Solutions: sols,
		Limiter:   limiter,
	}), sols
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(nil)

	rec := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","algorithms":["nearest_neighbour","savings"]}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(t, h, http.MethodPost, "/health", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	h, _ := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/problems/missing", nil)
	req.Header.Set("X-Request-ID", "abc-456")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"problem not found","request_id":"abc-456"}`, rec.Body.String())
}

func TestProblems(t *testing.T) {
	h, _ := newTestRouter(nil)

	rec := do(t, h, http.MethodGet, "/problems", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list dto.ListProblemsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Problems, 1)
	assert.Equal(t, dto.ProblemSummaryResponse{
		Name:        "triangle",
		Dimension:   3,
		Customers:   2,
		Capacity:    10,
		Depot:       0,
		TotalDemand: 9,
	}, list.Problems[0])

	rec = do(t, h, http.MethodGet, "/problems/triangle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var one dto.ProblemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &one))
	require.Len(t, one.Nodes, 3)
	assert.Equal(t, dto.NodeResponse{Index: 2, X: 0, Y: 4, Demand: 5}, one.Nodes[2])

	rec = do(t, h, http.MethodGet, "/problems/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateAndFetchSolution(t *testing.T) {
	h, sols := newTestRouter(nil)

	rec := do(t, h, http.MethodPost, "/solutions", dto.SolveRequest{Problem: "triangle"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created dto.SolutionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "triangle", created.Problem)
	assert.Equal(t, string(services.SavingsAlgorithm), created.Algorithm)
	assert.Equal(t, 1, created.Vehicles)
	assert.InDelta(t, 12.0, created.TotalDistance, 1e-9)
	assert.Len(t, sols.m, 1)

	rec = do(t, h, http.MethodGet, "/solutions/"+created.SolutionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched dto.SolutionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, created.Routes, fetched.Routes)
	assert.Equal(t, created.SolutionID, fetched.SolutionID)

	rec = do(t, h, http.MethodGet, "/solutions/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateInlineSolution(t *testing.T) {
	h, _ := newTestRouter(nil)

	body := dto.SolveRequest{
		Algorithm: "nn",
		Inline: &dto.InlineProblemRequest{
			Name:     "tiny",
			Capacity: 5,
			Nodes: []dto.NodeRequest{
				{X: 0, Y: 0},
				{X: 3, Y: 0, Demand: 4},
				{X: 0, Y: 4, Demand: 5},
			},
		},
	}

	rec := do(t, h, http.MethodPost, "/solutions", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var res dto.SolutionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "tiny", res.Problem)
	assert.Equal(t, string(services.NearestNeighbourAlgorithm), res.Algorithm)
	assert.Equal(t, [][]int{{0, 1, 0}, {0, 2, 0}}, res.Routes)
	assert.InDelta(t, 14.0, res.TotalDistance, 1e-9)
}

func TestCreateSolutionErrors(t *testing.T) {
	h, _ := newTestRouter(nil)

	overweight := &dto.InlineProblemRequest{
		Capacity: 10,
		Nodes:    []dto.NodeRequest{{X: 0, Y: 0}, {X: 1, Y: 1, Demand: 11}},
	}
	badDepot := &dto.InlineProblemRequest{
		Capacity: 10,
		Depot:    5,
		Nodes:    []dto.NodeRequest{{X: 0, Y: 0}},
	}

	cases := []struct {
		name string
		body any
		want int
	}{
		{"invalid json", "{", http.StatusBadRequest},
		{"unknown field", `{"problem":"triangle","trucks":3}`, http.StatusBadRequest},
		{"trailing data", `{"problem":"triangle"}{}`, http.StatusBadRequest},
		{"neither source", dto.SolveRequest{}, http.StatusBadRequest},
		{"both sources", dto.SolveRequest{Problem: "triangle", Inline: overweight}, http.StatusBadRequest},
		{"unknown algorithm", dto.SolveRequest{Problem: "triangle", Algorithm: "tabu"}, http.StatusBadRequest},
		{"unknown problem", dto.SolveRequest{Problem: "square"}, http.StatusNotFound},
		{"infeasible demand", dto.SolveRequest{Inline: overweight}, http.StatusUnprocessableEntity},
		{"malformed inline", dto.SolveRequest{Inline: badDepot}, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/solutions", tc.body)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}

	rec := do(t, h, http.MethodGet, "/solutions", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestRateLimit(t *testing.T) {
	h, _ := newTestRouter(rate.NewLimiter(0, 1))

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/problems", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, http.MethodGet, "/problems", nil).Code)

	// Liveness and metrics stay reachable.
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/metrics", nil).Code)
}

func TestCreateSolutionRejectsOversizedProblems(t *testing.T) {
	h := NewRouter(Deps{
		Problems:  memoryProblems{"triangle": triangle()},
		Solutions: &memorySolutions{m: map[string]*domain.Solution{}},
		MaxNodes:  2,
	})

	inline := &dto.InlineProblemRequest{
		Capacity: 10,
		Nodes:    []dto.NodeRequest{{X: 0, Y: 0}, {X: 1, Y: 0, Demand: 1}, {X: 2, Y: 0, Demand: 1}},
	}
	rec := do(t, h, http.MethodPost, "/solutions", dto.SolveRequest{Inline: inline})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "exceeds limit of 2")

	rec = do(t, h, http.MethodPost, "/solutions", dto.SolveRequest{Problem: "triangle"})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())

	inline.Nodes = inline.Nodes[:2]
	rec = do(t, h, http.MethodPost, "/solutions", dto.SolveRequest{Inline: inline})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}
