package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidEstimate = errors.New("invalid estimate")

// CO2Estimate is the carbon footprint of a single shipment description.
// Unit is whatever CO2e mass unit the agent reported (e.g. "kg CO2e").
type CO2Estimate struct {
	Estimate float64 `json:"estimate"`
	Unit     string  `json:"unit"`
}

// RouteOptimization pairs a route assessment with its CO2e estimate.
type RouteOptimization struct {
	Pros     string  `json:"pros"`
	Cons     string  `json:"cons"`
	Estimate float64 `json:"estimate"`
	Unit     string  `json:"unit"`
}

// LogisticRecommendation names the shortest and the most optimal bid out of
// the set of bids submitted for one shipment.
type LogisticRecommendation struct {
	ShortestBidID     string `json:"shortestBidId"`
	ShortestBidReason string `json:"shortestBidReason"`
	OptimalBidID      string `json:"optimalBidId"`
	OptimalBidReason  string `json:"optimalBidReason"`
}

func (e CO2Estimate) Validate() error {
	return validateEstimate(e.Estimate, e.Unit)
}

func (r RouteOptimization) Validate() error {
	return validateEstimate(r.Estimate, r.Unit)
}

func (r LogisticRecommendation) Validate() error {
	if strings.TrimSpace(r.ShortestBidID) == "" {
		return errors.New("recommendation: shortestBidId is empty")
	}
	if strings.TrimSpace(r.OptimalBidID) == "" {
		return errors.New("recommendation: optimalBidId is empty")
	}
	return nil
}

// Any non-empty unit is accepted; the prompt constrains it to CO2e.
func validateEstimate(v float64, unit string) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %v is not finite", ErrInvalidEstimate, v)
	}
	if v < 0 {
		return fmt.Errorf("%w: %v is negative", ErrInvalidEstimate, v)
	}
	if strings.TrimSpace(unit) == "" {
		return fmt.Errorf("%w: unit is empty", ErrInvalidEstimate)
	}
	return nil
}
