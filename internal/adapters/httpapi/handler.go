// Package httpapi serves the operator status endpoints.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atvirokodosprendimai/loginwatch/internal/core/usecase"
	"github.com/atvirokodosprendimai/loginwatch/internal/logging"
)

type exclusionLister interface {
	Entries() []string
}

type statsSource interface {
	Metrics() usecase.DispatcherMetrics
}

type Handler struct {
	exclusions exclusionLister
	stats      statsSource
	hostLabel  string
}

func NewHandler(exclusions exclusionLister, stats statsSource, hostLabel string) *Handler {
	return &Handler{exclusions: exclusions, stats: stats, hostLabel: hostLabel}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.healthz)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/v1/exclusions", h.listExclusions)
	r.Get("/v1/stats", h.getStats)

	return r
}

type exclusionsResponse struct {
	Count   int      `json:"count"`
	Entries []string `json:"entries"`
}

type statsResponse struct {
	Host string `json:"host"`
	usecase.DispatcherMetrics
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) listExclusions(w http.ResponseWriter, _ *http.Request) {
	entries := h.exclusions.Entries()
	if entries == nil {
		entries = []string{}
	}
	writeJSON(w, http.StatusOK, exclusionsResponse{Count: len(entries), Entries: entries})
}

func (h *Handler) getStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statsResponse{Host: h.hostLabel, DispatcherMetrics: h.stats.Metrics()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		logging.Error().Err(err).Msg("encode json response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		logging.Warn().Err(err).Msg("write response")
	}
}

