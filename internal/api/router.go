// Package api provides the HTTP API layer for the conflict engine.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"meetsched/internal/api/handlers"
	"meetsched/internal/api/middleware"
	"meetsched/internal/api/response"
	"meetsched/internal/config"
	"meetsched/internal/logging"
	"meetsched/internal/schedule"
)

// Router wires the middleware stack and API routes.
type Router struct {
	config *config.Config
	mux    *chi.Mux
}

// NewRouter creates the API router over the resolver and meeting store.
func NewRouter(cfg *config.Config, resolver *schedule.Resolver, store handlers.MeetingStore, logger logging.Logger) *Router {
	r := &Router{
		config: cfg,
		mux:    chi.NewRouter(),
	}
	r.setupMiddleware(logger)
	r.setupRoutes(resolver, store)
	return r
}

// Handler returns the HTTP handler.
func (r *Router) Handler() http.Handler {
	return r.mux
}

func (r *Router) setupMiddleware(logger logging.Logger) {
	r.mux.Use(chimiddleware.Recoverer)
	r.mux.Use(chimiddleware.Timeout(30 * time.Second))
	r.mux.Use(middleware.NewLoggingMiddleware(logger).Handler())
	r.mux.Use(chimiddleware.RequestSize(1 * 1024 * 1024))
	r.mux.Use(chimiddleware.Heartbeat("/ping"))
}

func (r *Router) setupRoutes(resolver *schedule.Resolver, store handlers.MeetingStore) {
	healthHandler := handlers.NewHealthHandler(r.config)
	r.mux.Get("/health", healthHandler.Handle)

	conflictHandler := handlers.NewConflictHandler(resolver)
	meetingHandler := handlers.NewMeetingHandler(store, handlers.DefaultMeetingHandlerConfig())

	r.mux.Route("/api/v1", func(rtr chi.Router) {
		rtr.Get("/health", healthHandler.Handle)

		rtr.Route("/conflicts", func(conflictRouter chi.Router) {
			conflictRouter.Post("/analyze", conflictHandler.Analyze)
			conflictRouter.Post("/resolve", conflictHandler.Resolve)
		})

		rtr.Route("/meetings", func(meetingRouter chi.Router) {
			meetingRouter.Get("/", meetingHandler.List)
			meetingRouter.Post("/", meetingHandler.Create)
			meetingRouter.Get("/{id}", meetingHandler.Get)
			meetingRouter.Put("/{id}", meetingHandler.Update)
			meetingRouter.Delete("/{id}", meetingHandler.Delete)
		})
	})

	r.mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.WriteNotFound(w, "Endpoint not found", "The requested resource does not exist")
	})
	r.mux.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.WriteError(w, http.StatusMethodNotAllowed, response.ErrorCodeMethodNotAllowed,
			"Method not allowed", "The HTTP method is not supported for this endpoint")
	})
}
