package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atvirokodosprendimai/loginwatch/internal/core/usecase"
)

type exclusionsStub []string

func (e exclusionsStub) Entries() []string { return e }

type statsStub usecase.DispatcherMetrics

func (s statsStub) Metrics() usecase.DispatcherMetrics { return usecase.DispatcherMetrics(s) }

func newTestRouter(exclusions exclusionsStub, stats statsStub) http.Handler {
	return NewHandler(exclusions, stats, "edge-1").Router()
}

func doGet(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := doGet(t, newTestRouter(nil, statsStub{}), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestListExclusions(t *testing.T) {
	rec := doGet(t, newTestRouter(exclusionsStub{"10.0.0.1", "192.0.2.7"}, statsStub{}), "/v1/exclusions")

	require.Equal(t, http.StatusOK, rec.Code)
	var body exclusionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, []string{"10.0.0.1", "192.0.2.7"}, body.Entries)
}

func TestListExclusionsEmpty(t *testing.T) {
	rec := doGet(t, newTestRouter(nil, statsStub{}), "/v1/exclusions")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":0,"entries":[]}`, rec.Body.String())
}

func TestStats(t *testing.T) {
	rec := doGet(t, newTestRouter(nil, statsStub{LinesTotal: 5, SkippedTotal: 2, DeliveredTotal: 2, DeliveryFailedTotal: 1}), "/v1/stats")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "edge-1", body["host"])
	assert.EqualValues(t, 5, body["lines_total"])
	assert.EqualValues(t, 2, body["skipped_total"])
	assert.EqualValues(t, 2, body["delivered_total"])
	assert.EqualValues(t, 1, body["delivery_failed_total"])
	assert.EqualValues(t, 0, body["suppressed_total"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := doGet(t, newTestRouter(nil, statsStub{}), "/metrics")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "go_goroutines"))
}

func TestUnknownRoute(t *testing.T) {
	rec := doGet(t, newTestRouter(nil, statsStub{}), "/v1/kv")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
