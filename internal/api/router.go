package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/arpankumarde/neevtrace/internal/api/handlers"
)

// Service is the full surface the router exposes.
type Service interface {
	handlers.Logistics
	handlers.Knowledge
	HasKnowledge() bool
}

type Info struct {
	Name    string
	Version string
	// DocumentHosts restricts knowledge document URLs; empty allows any
	// public host.
	DocumentHosts []string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// The knowledge routes are only mounted when the service has a knowledge base.
func NewRouter(svc Service, info Info) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(tracing)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	agents := &handlers.AgentHandler{Svc: svc}

	r.Get("/health", handlers.Health)
	r.Get("/version", handlers.Version(info.Name, info.Version))

	r.Post("/co2-estimate", agents.CO2Estimate)
	r.Post("/route-optimizer", agents.RouteOptimizer)
	r.Post("/logistic-recommender", agents.LogisticRecommender)

	if svc.HasKnowledge() {
		kb := &handlers.KnowledgeHandler{Svc: svc, AllowedHosts: info.DocumentHosts}
		r.Route("/knowledge-base", func(r chi.Router) {
			r.Post("/query", kb.Query)
			r.Post("/documents", kb.LoadDocuments)
		})
	}

	return r
}
