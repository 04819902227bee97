package ports

import "context"

// Distance and travel duration between two locations.
type DistanceResult struct {
	DistanceMeters  int `json:"distance_meters"`
	DurationSeconds int `json:"duration_seconds"`
}

// Contract for retrieving road distance and duration between two addresses.
// Agents reach it through the route distance tool.
type DistanceProvider interface {
	GetDistance(ctx context.Context, origin string, destination string) (DistanceResult, error)
}
