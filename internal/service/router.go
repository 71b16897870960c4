package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/splitproof/splitproof/internal/auth"
	"github.com/splitproof/splitproof/internal/middleware"
)

// RouterConfig carries the dependencies the HTTP router needs.
type RouterConfig struct {
	AuthService    *AuthService
	SettleService  *SettleService
	JWTManager     *auth.JWTManager
	Metrics        *middleware.HTTPMetrics
	AllowedOrigins []string
}

// NewRouter builds the HTTP routing table. Settlement computation is
// open; stored runs and account endpoints require a bearer token.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/register", cfg.AuthService.Register)
		r.Post("/auth/login", cfg.AuthService.Login)

		r.Post("/settle", cfg.SettleService.Settle)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(cfg.JWTManager))

			r.Get("/auth/me", cfg.AuthService.Me)

			r.Post("/runs", cfg.SettleService.CreateRun)
			r.Get("/runs", cfg.SettleService.ListRuns)
			r.Get("/runs/{runID}", cfg.SettleService.GetRun)
			r.Get("/runs/{runID}/summary", cfg.SettleService.GetRunSummary)
			r.Delete("/runs/{runID}", cfg.SettleService.DeleteRun)
		})
	})

	return r
}
