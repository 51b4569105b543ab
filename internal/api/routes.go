// Route registration and go-chi router setup.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matiasleandrokruk/agentgate/internal/api/handlers"
	apmiddleware "github.com/matiasleandrokruk/agentgate/internal/api/middleware"
	"github.com/matiasleandrokruk/agentgate/internal/infra/config"
)

// NewRouter wires the HTTP surface around the query service.
//
// /health and / are always public. The query endpoints (/run, /tools, /runs)
// require a Bearer JWT only when an auth secret is configured; deployments
// behind a trusted gateway run without one.
func NewRouter(cfg *config.Config, service handlers.QueryService) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", handlers.Health)
	r.Get("/", handlers.Root)

	runHandler := handlers.NewRunHandler(service)
	toolsHandler := handlers.NewToolsHandler(service)
	runsHandler := handlers.NewRunsHandler(service)

	r.Group(func(r chi.Router) {
		if secret := cfg.Auth.JWTSecret; secret != "" {
			r.Use(apmiddleware.Auth([]byte(secret)))
		}

		r.Post("/run", runHandler.RunQuery)     // POST /run
		r.Get("/tools", toolsHandler.ListTools) // GET /tools
		r.Route("/runs", func(r chi.Router) {
			r.Get("/", runsHandler.ListRuns)   // GET /runs
			r.Get("/{id}", runsHandler.GetRun) // GET /runs/{id}
		})
	})

	return r
}
