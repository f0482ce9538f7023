package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"urlinfo/internal/api"
	"urlinfo/internal/domain"
	"urlinfo/internal/ports"
	"urlinfo/internal/services/screening"
	"urlinfo/internal/services/stats"
)

const (
	urlinfoPrefix  = "/urlinfo/1/"
	requestTimeout = 10 * time.Second
	pingTimeout    = 2 * time.Second
)

var _ api.StrictServerInterface = (*Server)(nil)

type Server struct {
	screener ports.Screener
	stats    *stats.Service
	gatherer prometheus.Gatherer
	store    ports.Pinger
	logger   *slog.Logger
}

// New wires the HTTP surface. gatherer and store may be nil; /metrics is
// then not mounted and /health skips the store check.
func New(screener ports.Screener, counters *stats.Service, gatherer prometheus.Gatherer, store ports.Pinger, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if counters == nil {
		counters = stats.New()
	}
	return &Server{screener: screener, stats: counters, gatherer: gatherer, store: store, logger: logger}
}

// Routes returns a chi.Router with the lookup, health, stats and metrics
// endpoints.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	// Lookup targets span several path segments; routed directly.
	r.Get(urlinfoPrefix+"*", s.getURLInfo)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	api.HandlerFromMux(api.NewStrictHandler(s, nil), r)
	return r
}

func (s *Server) getURLInfo(w http.ResponseWriter, r *http.Request) {
	req := screening.ParseTarget(targetFromRequest(r))
	v, err := s.screener.Screen(r.Context(), req)
	if err != nil {
		var rej *domain.Rejection
		if errors.As(err, &rej) {
			writeJSON(w, http.StatusBadRequest, newRejection(rej))
			return
		}
		s.logger.Error("screen failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, api.Error{Error: "processing_error", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, newVerdict(v))
}

// targetFromRequest returns everything after the route prefix still percent
// encoded, so decoding happens once, inside the pipeline.
func targetFromRequest(r *http.Request) string {
	target := strings.TrimPrefix(r.URL.EscapedPath(), urlinfoPrefix)
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	return target
}

func (s *Server) GetHealth(ctx context.Context, _ api.GetHealthRequestObject) (api.GetHealthResponseObject, error) {
	resp := api.Health{
		Status:        "healthy",
		StartTime:     s.stats.StartTime().UTC(),
		UptimeSeconds: int64(s.stats.Uptime().Seconds()),
	}
	if s.store != nil {
		ctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		store := "ok"
		if err := s.store.Ping(ctx); err != nil {
			s.logger.Warn("reference store unreachable", "error", err)
			resp.Status = "degraded"
			store = "unavailable"
		}
		resp.Store = &store
	}
	return api.GetHealth200JSONResponse(resp), nil
}

func (s *Server) GetStats(_ context.Context, _ api.GetStatsRequestObject) (api.GetStatsResponseObject, error) {
	return api.GetStats200JSONResponse(newStats(s.stats.Snapshot())), nil
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
