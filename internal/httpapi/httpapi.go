package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mkovac/erpsync/internal/application/service"
	"github.com/mkovac/erpsync/internal/domain"
	"github.com/mkovac/erpsync/internal/observability"
)

//go:generate mockgen -source internal/httpapi/httpapi.go -destination=internal/httpapi/httpapi_mock_test.go -package=httpapi

type SyncService interface {
	SyncWithStats(ctx context.Context, token string, order *domain.Order) (domain.Outcome, service.SyncStats, error)
	StatusByReference(ctx context.Context, reference string) (*domain.SyncRecord, service.LookupStats, error)
}

type Server struct {
	service SyncService
	router  chi.Router
	logger  *zap.Logger
	metrics observability.Metrics
}

func New(svc SyncService, logger *zap.Logger, metrics observability.Metrics) *Server {
	s := &Server{
		service: svc,
		router:  chi.NewRouter(),
		logger:  logger,
		metrics: metrics,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Post("/sync", s.syncOrder)
	s.router.Get("/sync/{reference}", s.syncStatus)
	s.router.Get("/healthz", s.healthz)
	if m, ok := s.metrics.(*observability.Inmem); ok {
		s.router.Get("/debug/metrics", debugMetrics(m))
	}
}

type syncResponse struct {
	Success       bool   `json:"success"`
	RemoteOrderID int64  `json:"remote_order_id,omitempty"`
	Created       bool   `json:"created,omitempty"`
	Coalesced     bool   `json:"coalesced,omitempty"`
	Error         string `json:"error,omitempty"`
}

func (s *Server) syncOrder(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}

	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	var order domain.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		s.logger.Error("bad order document", zap.Error(err))
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	outcome, st, err := s.service.SyncWithStats(r.Context(), token, &order)

	observability.AppendServerTiming(w, "sync", st.TotalMs, st.Result)

	if err != nil {
		s.logger.Error("sync failed",
			zap.String("reference", order.Reference()),
			zap.Error(err),
		)
		writeStatusJSON(w, syncErrorStatus(err), syncResponse{Success: false, Error: err.Error()})
		return
	}

	writeStatusJSON(w, http.StatusOK, syncResponse{
		Success:       true,
		RemoteOrderID: outcome.RemoteOrderID,
		Created:       outcome.Created,
		Coalesced:     st.Coalesced,
	})
}

func (s *Server) syncStatus(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	if reference == "" {
		http.Error(w, "reference required", http.StatusBadRequest)
		return
	}
	if !strings.HasPrefix(reference, "#") {
		reference = "#" + reference
	}

	rec, st, err := s.service.StatusByReference(r.Context(), reference)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "no sync record for this reference", http.StatusNotFound)
			return
		}
		http.Error(w, "lookup failed", http.StatusInternalServerError)
		return
	}

	observability.AppendServerTiming(w, "cache", st.CacheMs, "")
	observability.AppendServerTiming(w, "db", st.DBMs, "")
	observability.AppendServerTiming(w, "source", 0, string(st.Source))
	w.Header().Set("X-Source", string(st.Source))
	observability.SetIfPos(w, "X-Cache-Time", st.CacheMs)
	observability.SetIfPos(w, "X-DB-Time", st.DBMs)

	writeStatusJSON(w, http.StatusOK, rec)
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func debugMetrics(m *observability.Inmem) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		last, hits, misses, coalesced := m.Snapshot()
		writeStatusJSON(w, http.StatusOK, map[string]any{
			"recent":       last,
			"cache_hits":   hits,
			"cache_misses": misses,
			"coalesced":    coalesced,
		})
	}
}

// syncErrorStatus maps engine failures onto HTTP statuses. Validation trouble
// is the caller's fault; everything else reflects the remote conversation.
func syncErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingNumber),
		errors.Is(err, domain.ErrNoLineItems),
		errors.Is(err, domain.ErrMissingSKU),
		errors.Is(err, domain.ErrBadQuantity),
		errors.Is(err, domain.ErrBadPrice):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}

func writeStatusJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	handler := ServerTimingApp(s.metrics)(s.router)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	return srv.ListenAndServe()
}

func (s *Server) Handler() http.Handler { return s.router }
