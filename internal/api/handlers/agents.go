package handlers

import (
	"context"
	"net/http"

	"github.com/arpankumarde/neevtrace/internal/api/dto"
	"github.com/arpankumarde/neevtrace/internal/domain"
)

// Logistics is what the agent endpoints need from the service layer.
type Logistics interface {
	EstimateCO2(ctx context.Context, query string) (domain.CO2Estimate, error)
	OptimizeRoute(ctx context.Context, query string) (domain.RouteOptimization, error)
	RecommendBid(ctx context.Context, query string) (domain.LogisticRecommendation, error)
}

type AgentHandler struct {
	Svc Logistics
}

func (h *AgentHandler) CO2Estimate(w http.ResponseWriter, r *http.Request) {
	query, ok := decodeQuery(w, r)
	if !ok {
		return
	}

	est, err := h.Svc.EstimateCO2(r.Context(), query)
	if err != nil {
		writeServiceError(w, r, "co2-estimate", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewCO2EstimateResponse(est))
}

func (h *AgentHandler) RouteOptimizer(w http.ResponseWriter, r *http.Request) {
	query, ok := decodeQuery(w, r)
	if !ok {
		return
	}

	opt, err := h.Svc.OptimizeRoute(r.Context(), query)
	if err != nil {
		writeServiceError(w, r, "route-optimizer", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewRouteOptimizationResponse(opt))
}

func (h *AgentHandler) LogisticRecommender(w http.ResponseWriter, r *http.Request) {
	query, ok := decodeQuery(w, r)
	if !ok {
		return
	}

	rec, err := h.Svc.RecommendBid(r.Context(), query)
	if err != nil {
		writeServiceError(w, r, "logistic-recommender", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewLogisticRecommendationResponse(rec))
}
