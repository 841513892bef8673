// internal/server/handlers_test.go
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"decision-assistant/internal/common/config"
	"decision-assistant/internal/common/logger"
	"decision-assistant/internal/engine"
	"decision-assistant/internal/models"
	"decision-assistant/internal/store"
)

// ==========================
// Test Helper Functions
// ==========================

// fakeStore is an in-memory DecisionStore.
type fakeStore struct {
	records map[string]*models.DecisionRecord
	order   []string
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*models.DecisionRecord)}
}

func (f *fakeStore) Save(ctx context.Context, rec *models.DecisionRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.records[rec.ID] = rec
	f.order = append(f.order, rec.ID)
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*models.DecisionRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return rec, nil
}

func (f *fakeStore) ListRecent(ctx context.Context, limit int) ([]*models.DecisionRecord, error) {
	var out []*models.DecisionRecord
	for i := len(f.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.records[f.order[i]])
	}
	return out, nil
}

func newTestServer(t *testing.T, mutate func(opts *Options)) (*Server, *fakeStore) {
	fs := newFakeStore()
	opts := Options{
		Config: config.ServerConfig{Address: ":0", RequestTimeout: 5000},
		Engine: engine.NewDefault(),
		Store:  fs,
		Logger: logger.NewTestLogger(t),
	}
	if mutate != nil {
		mutate(&opts)
	}
	return New(opts), fs
}

func validIntakeBody(mutate func(m map[string]interface{})) *bytes.Reader {
	m := map[string]interface{}{
		"projectName":         "Checkout Revamp",
		"objective":           "Reduce cart abandonment with a rebuilt checkout flow",
		"teamSize":            6,
		"durationWeeks":       12,
		"estimatedCostUsd":    250000,
		"customerImpact":      5,
		"strategicAlignment":  4,
		"technicalComplexity": 3,
		"deliveryRisk":        2,
		"complianceRisk":      2,
		"dependenciesCount":   3,
		"hasExecSponsor":      true,
	}
	if mutate != nil {
		mutate(m)
	}
	payload, _ := json.Marshal(m)
	return bytes.NewReader(payload)
}

func doRequest(t *testing.T, s *Server, method, path string, body *bytes.Reader) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeRecord(t *testing.T, rr *httptest.ResponseRecorder) *models.DecisionRecord {
	t.Helper()
	var rec models.DecisionRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	return &rec
}

// ==========================
// Create Decision Tests
// ==========================

func TestHandleCreateDecision_Success(t *testing.T) {
	s, fs := newTestServer(t, nil)

	rr := doRequest(t, s, http.MethodPost, "/api/v1/decisions", validIntakeBody(nil))

	require.Equal(t, http.StatusOK, rr.Code)
	rec := decodeRecord(t, rr)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, models.DecisionGo, rec.Output.Decision)
	assert.GreaterOrEqual(t, rec.Output.Score, 70)
	assert.NotEmpty(t, rec.Output.Rationale)
	assert.NotEmpty(t, rec.Output.RecommendedNextSteps)
	assert.Len(t, rec.Output.Guardrails, 3)
	assert.Contains(t, fs.records, rec.ID)
}

func TestHandleCreateDecision_SchemaViolationReturns422(t *testing.T) {
	s, _ := newTestServer(t, nil)

	body := validIntakeBody(func(m map[string]interface{}) {
		delete(m, "objective")
		m["unknownField"] = true
	})
	rr := doRequest(t, s, http.MethodPost, "/api/v1/decisions", body)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var failure struct {
		Error  string `json:"error"`
		Fields []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &failure))
	assert.Equal(t, "intake validation failed", failure.Error)
	assert.NotEmpty(t, failure.Fields)
}

func TestHandleCreateDecision_MalformedJSONReturns4xx(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rr := doRequest(t, s, http.MethodPost, "/api/v1/decisions", bytes.NewReader([]byte("{not json")))

	assert.GreaterOrEqual(t, rr.Code, 400)
	assert.Less(t, rr.Code, 500)
}

func TestHandleCreateDecision_StoreFailureReturns500(t *testing.T) {
	s, fs := newTestServer(t, nil)
	fs.saveErr = errors.New("disk full")

	rr := doRequest(t, s, http.MethodPost, "/api/v1/decisions", validIntakeBody(nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHandleCreateDecision_CacheHitSkipsReevaluation(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	s, fs := newTestServer(t, func(opts *Options) {
		opts.Cache = store.NewResultCache(client, time.Minute, logger.NewTestLogger(t))
	})

	first := doRequest(t, s, http.MethodPost, "/api/v1/decisions", validIntakeBody(nil))
	require.Equal(t, http.StatusOK, first.Code)
	firstRec := decodeRecord(t, first)

	second := doRequest(t, s, http.MethodPost, "/api/v1/decisions", validIntakeBody(nil))
	require.Equal(t, http.StatusOK, second.Code)
	secondRec := decodeRecord(t, second)

	// Same record comes back; no second row was stored.
	assert.Equal(t, firstRec.ID, secondRec.ID)
	assert.Len(t, fs.records, 1)
}

func TestHandleCreateDecision_NoGoPath(t *testing.T) {
	s, _ := newTestServer(t, nil)

	body := validIntakeBody(func(m map[string]interface{}) {
		m["customerImpact"] = 1
		m["strategicAlignment"] = 1
		m["technicalComplexity"] = 5
		m["deliveryRisk"] = 5
		m["complianceRisk"] = 5
		m["dependenciesCount"] = 15
		m["durationWeeks"] = 52
		m["teamSize"] = 50
		m["estimatedCostUsd"] = 5000000
		m["hasExecSponsor"] = false
	})
	rr := doRequest(t, s, http.MethodPost, "/api/v1/decisions", body)

	require.Equal(t, http.StatusOK, rr.Code)
	rec := decodeRecord(t, rr)
	assert.Equal(t, models.DecisionNoGo, rec.Output.Decision)
	assert.Less(t, rec.Output.Score, 45)
}

// ==========================
// Get / List Tests
// ==========================

func TestHandleGetDecision_Success(t *testing.T) {
	s, _ := newTestServer(t, nil)

	created := decodeRecord(t, doRequest(t, s, http.MethodPost, "/api/v1/decisions", validIntakeBody(nil)))
	rr := doRequest(t, s, http.MethodGet, "/api/v1/decisions/"+created.ID, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	got := decodeRecord(t, rr)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Output, got.Output)
}

func TestHandleGetDecision_NotFound(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rr := doRequest(t, s, http.MethodGet, "/api/v1/decisions/6f1f9a06-6d3b-4b47-9a3e-0f12a1c2b3d4", nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleGetDecision_InvalidIDIsNotFound(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rr := doRequest(t, s, http.MethodGet, "/api/v1/decisions/not-a-uuid", nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleListDecisions(t *testing.T) {
	s, _ := newTestServer(t, nil)

	for i := 0; i < 3; i++ {
		body := validIntakeBody(func(m map[string]interface{}) {
			m["projectName"] = fmt.Sprintf("Project %d", i)
		})
		require.Equal(t, http.StatusOK, doRequest(t, s, http.MethodPost, "/api/v1/decisions", body).Code)
	}

	rr := doRequest(t, s, http.MethodGet, "/api/v1/decisions?limit=2", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Decisions []*models.DecisionRecord `json:"decisions"`
		Count     int                      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Decisions, 2)
	assert.Equal(t, "Project 2", resp.Decisions[0].Intake.ProjectName)
}

func TestHandleListDecisions_Empty(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rr := doRequest(t, s, http.MethodGet, "/api/v1/decisions", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Decisions []*models.DecisionRecord `json:"decisions"`
		Count     int                      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
	assert.NotNil(t, resp.Decisions)
}

// ==========================
// Search / Health Tests
// ==========================

func TestHandleSearchDecisions_UnavailableWithoutIndex(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rr := doRequest(t, s, http.MethodGet, "/api/v1/decisions/search?q=checkout", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestHandleHealthz(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rr := doRequest(t, s, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"healthy"`)
}

func TestHandleReadyz_ReadyByDefault(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rr := doRequest(t, s, http.MethodGet, "/readyz", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHandleReadyz_NotReadyOnProbeFailure(t *testing.T) {
	s, _ := newTestServer(t, func(opts *Options) {
		opts.Readiness = func(ctx context.Context) error {
			return errors.New("postgres: connection refused")
		}
	})

	rr := doRequest(t, s, http.MethodGet, "/readyz", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "not ready")
}

func TestRouting_IndexPageServed(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rr := doRequest(t, s, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<form")
}

func TestRouting_MethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rr := doRequest(t, s, http.MethodDelete, "/api/v1/decisions", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
