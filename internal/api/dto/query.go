package dto

import "github.com/arpankumarde/neevtrace/internal/domain"

// QueryRequest is the body of every agent endpoint. Query is a pointer so a
// missing field can be told apart from an empty one.
type QueryRequest struct {
	Query *string `json:"query"`
}

type CO2EstimateResponse struct {
	Estimate float64 `json:"estimate"`
	Unit     string  `json:"unit"`
}

type RouteOptimizationResponse struct {
	Pros     string  `json:"pros"`
	Cons     string  `json:"cons"`
	Estimate float64 `json:"estimate"`
	Unit     string  `json:"unit"`
}

type LogisticRecommendationResponse struct {
	ShortestBidID     string `json:"shortestBidId"`
	ShortestBidReason string `json:"shortestBidReason"`
	OptimalBidID      string `json:"optimalBidId"`
	OptimalBidReason  string `json:"optimalBidReason"`
}

func NewCO2EstimateResponse(e domain.CO2Estimate) CO2EstimateResponse {
	return CO2EstimateResponse{Estimate: e.Estimate, Unit: e.Unit}
}

func NewRouteOptimizationResponse(r domain.RouteOptimization) RouteOptimizationResponse {
	return RouteOptimizationResponse{Pros: r.Pros, Cons: r.Cons, Estimate: r.Estimate, Unit: r.Unit}
}

func NewLogisticRecommendationResponse(r domain.LogisticRecommendation) LogisticRecommendationResponse {
	return LogisticRecommendationResponse{
		ShortestBidID:     r.ShortestBidID,
		ShortestBidReason: r.ShortestBidReason,
		OptimalBidID:      r.OptimalBidID,
		OptimalBidReason:  r.OptimalBidReason,
	}
}
