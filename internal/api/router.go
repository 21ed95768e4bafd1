package api

import (
	"context"
	"log/slog"
	"net/http"
	"trip-planner-service/internal/api/handlers"
	"trip-planner-service/internal/platform/metrics"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Deps are the collaborators the HTTP layer needs. Handlers stay unaware of
// concrete adapters.
type Deps struct {
	Planner *services.TripPlanner
	Repo    ports.TripRepository
	// Ping checks storage for /health; nil reports liveness only.
	Ping        func(ctx context.Context) error
	Logger      *slog.Logger
	CORSOrigins []string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	trips := handlers.NewTripHandler(deps.Planner, deps.Repo)
	health := &handlers.HealthHandler{Ping: deps.Ping}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware(logger))
	r.Use(loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", health.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", trips.List)
		r.Post("/calculate", trips.Calculate)
		r.Get("/{id}", trips.Get)
		r.Get("/{id}/route", trips.Route)
		r.Get("/{id}/logs", trips.Logs)
		r.Patch("/{id}/status", trips.UpdateStatus)
	})

	return r
}
