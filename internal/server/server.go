package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/kinobi/internal/handler"
	"github.com/dukerupert/kinobi/internal/metrics"
	"github.com/dukerupert/kinobi/internal/middleware"
	"github.com/dukerupert/kinobi/internal/store"
)

// Config holds router settings.
type Config struct {
	AppVersion string
	// RateLimit is requests per minute per client IP on /api/. Zero disables it.
	RateLimit int
	// Now overrides the clock, for tests.
	Now func() time.Time
}

type Server struct {
	tenderH      *handler.TenderHandler
	choreH       *handler.ChoreHandler
	historyH     *handler.HistoryHandler
	configH      *handler.ConfigHandler
	leaderboardH *handler.LeaderboardHandler
	metrics      *metrics.Metrics
	rateLimiter  *middleware.RateLimiter
	cfg          Config
	logger       *slog.Logger
}

func New(st store.InstanceStore, m *metrics.Metrics, cfg Config, logger *slog.Logger) *Server {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		tenderH:      handler.NewTenderHandler(st, logger.With("component", "tender"), now),
		choreH:       handler.NewChoreHandler(st, logger.With("component", "chore"), now),
		historyH:     handler.NewHistoryHandler(st, m, logger.With("component", "history"), now),
		configH:      handler.NewConfigHandler(st, logger.With("component", "config"), now),
		leaderboardH: handler.NewLeaderboardHandler(st, logger.With("component", "leaderboard"), now),
		metrics:      m,
		rateLimiter:  middleware.NewRateLimiter(cfg.RateLimit, time.Minute),
		cfg:          cfg,
		logger:       logger,
	}
}

// RateLimiter returns the /api/ limiter so the caller can sweep it.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	outerMux.HandleFunc("GET /health", s.healthHandler)
	if s.metrics != nil {
		outerMux.Handle("GET /metrics", s.metrics.Handler())
	}

	apiMux := http.NewServeMux()
	s.registerAPIRoutes(apiMux)

	outerMux.Handle("/api/", s.rateLimiter.Middleware(apiMux))

	h := middleware.Metrics(s.metrics)(outerMux)
	return middleware.RequestLogger(s.logger.With("component", "http"))(h)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) registerAPIRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/{syncId}/tenders", s.tenderH.List)
	mux.HandleFunc("POST /api/{syncId}/tenders", s.tenderH.Create)
	mux.HandleFunc("PUT /api/{syncId}/tenders/{id}", s.tenderH.Update)
	mux.HandleFunc("DELETE /api/{syncId}/tenders/{id}", s.tenderH.Delete)

	mux.HandleFunc("GET /api/{syncId}/chores", s.choreH.List)
	mux.HandleFunc("POST /api/{syncId}/chores", s.choreH.Create)
	mux.HandleFunc("PUT /api/{syncId}/chores/reorder", s.choreH.Reorder)
	mux.HandleFunc("PUT /api/{syncId}/chores/{id}", s.choreH.Update)
	mux.HandleFunc("DELETE /api/{syncId}/chores/{id}", s.choreH.Delete)
	mux.HandleFunc("GET /api/{syncId}/due-states", s.choreH.DueStates)

	mux.HandleFunc("GET /api/{syncId}/history", s.historyH.List)
	mux.HandleFunc("DELETE /api/{syncId}/history/{id}", s.historyH.Delete)
	mux.HandleFunc("POST /api/{syncId}/tend", s.historyH.Tend)
	mux.HandleFunc("GET /api/{syncId}/last-tended", s.historyH.LastTended)

	mux.HandleFunc("GET /api/{syncId}/config", s.configH.Get)
	mux.HandleFunc("PUT /api/{syncId}/config", s.configH.Replace)

	mux.HandleFunc("GET /api/{syncId}/leaderboard", s.leaderboardH.Get)

	mux.HandleFunc("GET /api/{syncId}/app-version", handler.Version(s.cfg.AppVersion))

	// Anything else under /api/, including a known path with the wrong method.
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "API endpoint not found or method not allowed."})
	})
}
