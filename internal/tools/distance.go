package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arpankumarde/neevtrace/internal/agent"
	"github.com/arpankumarde/neevtrace/internal/ports"
)

// RoadDistance reports truck road distance and drive time between two places.
type RoadDistance struct {
	provider ports.DistanceProvider
}

func NewRoadDistance(p ports.DistanceProvider) *RoadDistance {
	return &RoadDistance{provider: p}
}

func (t *RoadDistance) Spec() ports.ToolSpec {
	return ports.ToolSpec{
		Name:        "road_distance",
		Description: "Get the road distance in kilometres and driving time in hours between two places.",
		Parameters: agent.ObjectParams(
			stringParam("origin", "Origin city or address"),
			stringParam("destination", "Destination city or address"),
		),
	}
}

func (t *RoadDistance) Call(ctx context.Context, args json.RawMessage) (string, error) {
	var origin, destination string
	if err := decodeArgs(args, map[string]*string{"origin": &origin, "destination": &destination}); err != nil {
		return "", err
	}

	r, err := t.provider.GetDistance(ctx, origin, destination)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s -> %s: %.1f km, about %.1f hours by road",
		origin, destination,
		float64(r.DistanceMeters)/1000,
		float64(r.DurationSeconds)/3600,
	), nil
}

// RoadDistances compares one origin against several destinations in a single
// lookup when the provider supports matrix requests.
type RoadDistances struct {
	provider ports.DistanceProvider
}

func NewRoadDistances(p ports.DistanceProvider) *RoadDistances {
	return &RoadDistances{provider: p}
}

func (t *RoadDistances) Spec() ports.ToolSpec {
	return ports.ToolSpec{
		Name:        "road_distances",
		Description: "Get road distances from one origin to several destinations. Destinations are separated by semicolons.",
		Parameters: agent.ObjectParams(
			stringParam("origin", "Origin city or address"),
			stringParam("destinations", "Destinations separated by ';'"),
		),
	}
}

func (t *RoadDistances) Call(ctx context.Context, args json.RawMessage) (string, error) {
	var origin, list string
	if err := decodeArgs(args, map[string]*string{"origin": &origin, "destinations": &list}); err != nil {
		return "", err
	}

	var destinations []string
	for _, d := range strings.Split(list, ";") {
		if d = strings.TrimSpace(d); d != "" {
			destinations = append(destinations, d)
		}
	}
	if len(destinations) == 0 {
		return "", fmt.Errorf("destinations is empty")
	}

	results := make(map[string]ports.DistanceResult, len(destinations))
	if mp, ok := t.provider.(ports.DistanceMatrixProvider); ok {
		m, err := mp.GetDistances(ctx, origin, destinations)
		if err != nil {
			return "", err
		}
		results = m
	} else {
		for _, d := range destinations {
			r, err := t.provider.GetDistance(ctx, origin, d)
			if err != nil {
				return "", fmt.Errorf("%s -> %s: %w", origin, d, err)
			}
			results[d] = r
		}
	}

	var b strings.Builder
	for _, d := range destinations {
		r, ok := results[d]
		if !ok {
			fmt.Fprintf(&b, "%s -> %s: no route found\n", origin, d)
			continue
		}
		fmt.Fprintf(&b, "%s -> %s: %.1f km, about %.1f hours by road\n",
			origin, d, float64(r.DistanceMeters)/1000, float64(r.DurationSeconds)/3600)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
