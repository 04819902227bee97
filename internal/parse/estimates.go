package parse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/arpankumarde/neevtrace/internal/domain"
)

// ParseCO2Estimate reads "estimate=<float> unit='<text>'".
func ParseCO2Estimate(s string) (domain.CO2Estimate, error) {
	v, err := Fields(s, "estimate", "unit")
	if err != nil {
		return domain.CO2Estimate{}, err
	}

	estimate, err := number("estimate", v[0])
	if err != nil {
		return domain.CO2Estimate{}, err
	}

	return domain.CO2Estimate{Estimate: estimate, Unit: v[1]}, nil
}

// ParseRouteOptimization reads "pros='..' cons='..' estimate=<float> unit='..'".
func ParseRouteOptimization(s string) (domain.RouteOptimization, error) {
	v, err := Fields(s, "pros", "cons", "estimate", "unit")
	if err != nil {
		return domain.RouteOptimization{}, err
	}

	estimate, err := number("estimate", v[2])
	if err != nil {
		return domain.RouteOptimization{}, err
	}

	return domain.RouteOptimization{
		Pros:     v[0],
		Cons:     v[1],
		Estimate: estimate,
		Unit:     v[3],
	}, nil
}

func ParseLogisticRecommendation(s string) (domain.LogisticRecommendation, error) {
	v, err := Fields(s, "shortestBidId", "shortestBidReason", "optimalBidId", "optimalBidReason")
	if err != nil {
		return domain.LogisticRecommendation{}, err
	}

	return domain.LogisticRecommendation{
		ShortestBidID:     v[0],
		ShortestBidReason: v[1],
		OptimalBidID:      v[2],
		OptimalBidReason:  v[3],
	}, nil
}

func number(field, raw string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &NumberError{Field: field, Value: raw, Err: err}
	}
	return f, nil
}

// DecodeCO2Estimate decodes the structured form, requiring every field.
func DecodeCO2Estimate(raw []byte) (domain.CO2Estimate, error) {
	var v struct {
		Estimate *float64 `json:"estimate"`
		Unit     *string  `json:"unit"`
	}
	if err := decodeStrict(raw, &v); err != nil {
		return domain.CO2Estimate{}, err
	}
	if v.Estimate == nil {
		return domain.CO2Estimate{}, &MissingFieldError{Field: "estimate"}
	}
	if v.Unit == nil {
		return domain.CO2Estimate{}, &MissingFieldError{Field: "unit"}
	}
	return domain.CO2Estimate{Estimate: *v.Estimate, Unit: *v.Unit}, nil
}

func DecodeRouteOptimization(raw []byte) (domain.RouteOptimization, error) {
	var v struct {
		Pros     *string  `json:"pros"`
		Cons     *string  `json:"cons"`
		Estimate *float64 `json:"estimate"`
		Unit     *string  `json:"unit"`
	}
	if err := decodeStrict(raw, &v); err != nil {
		return domain.RouteOptimization{}, err
	}
	switch {
	case v.Pros == nil:
		return domain.RouteOptimization{}, &MissingFieldError{Field: "pros"}
	case v.Cons == nil:
		return domain.RouteOptimization{}, &MissingFieldError{Field: "cons"}
	case v.Estimate == nil:
		return domain.RouteOptimization{}, &MissingFieldError{Field: "estimate"}
	case v.Unit == nil:
		return domain.RouteOptimization{}, &MissingFieldError{Field: "unit"}
	}
	return domain.RouteOptimization{
		Pros:     *v.Pros,
		Cons:     *v.Cons,
		Estimate: *v.Estimate,
		Unit:     *v.Unit,
	}, nil
}

func DecodeLogisticRecommendation(raw []byte) (domain.LogisticRecommendation, error) {
	var v struct {
		ShortestBidID     *string `json:"shortestBidId"`
		ShortestBidReason *string `json:"shortestBidReason"`
		OptimalBidID      *string `json:"optimalBidId"`
		OptimalBidReason  *string `json:"optimalBidReason"`
	}
	if err := decodeStrict(raw, &v); err != nil {
		return domain.LogisticRecommendation{}, err
	}
	switch {
	case v.ShortestBidID == nil:
		return domain.LogisticRecommendation{}, &MissingFieldError{Field: "shortestBidId"}
	case v.ShortestBidReason == nil:
		return domain.LogisticRecommendation{}, &MissingFieldError{Field: "shortestBidReason"}
	case v.OptimalBidID == nil:
		return domain.LogisticRecommendation{}, &MissingFieldError{Field: "optimalBidId"}
	case v.OptimalBidReason == nil:
		return domain.LogisticRecommendation{}, &MissingFieldError{Field: "optimalBidReason"}
	}
	return domain.LogisticRecommendation{
		ShortestBidID:     *v.ShortestBidID,
		ShortestBidReason: *v.ShortestBidReason,
		OptimalBidID:      *v.OptimalBidID,
		OptimalBidReason:  *v.OptimalBidReason,
	}, nil
}

func decodeStrict(raw []byte, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return fmt.Errorf("parse: structured output is not a JSON object")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse: decode structured output: %w", err)
	}
	return nil
}
