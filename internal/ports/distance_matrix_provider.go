package ports

import "context"

// DistanceMatrixProvider is implemented by providers that can answer one
// origin against many destinations in a single upstream call. The
// road_distances tool prefers it when available.
type DistanceMatrixProvider interface {
	DistanceProvider
	GetDistances(ctx context.Context, origin string, destinations []string) (map[string]DistanceResult, error)
}
