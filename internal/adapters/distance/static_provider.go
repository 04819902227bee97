package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/arpankumarde/neevtrace/internal/ports"
)

// Leg is a known road distance between two places, usable in either direction.
type Leg struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Meters  int    `json:"meters"`
	Seconds int    `json:"seconds"`
}

// LoadLegs reads a JSON array of legs.
func LoadLegs(path string) ([]Leg, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load legs: read %q: %w", path, err)
	}

	var legs []Leg
	if err := json.Unmarshal(data, &legs); err != nil {
		return nil, fmt.Errorf("load legs: decode %q: %w", path, err)
	}
	for i, l := range legs {
		if normalize(l.From) == "" || normalize(l.To) == "" || l.Meters <= 0 {
			return nil, fmt.Errorf("load legs: %q: entry %d is incomplete", path, i)
		}
	}
	return legs, nil
}

// StaticProvider answers from a fixed table of legs. It backs the maps tool
// when no ORS key is configured and in tests.
type StaticProvider struct {
	legs map[string]ports.DistanceResult
}

func NewStaticProvider(legs []Leg) *StaticProvider {
	m := make(map[string]ports.DistanceResult, 2*len(legs))
	for _, l := range legs {
		r := ports.DistanceResult{DistanceMeters: l.Meters, DurationSeconds: l.Seconds}
		m[legKey(l.From, l.To)] = r
		m[legKey(l.To, l.From)] = r
	}
	return &StaticProvider{legs: m}
}

func legKey(from, to string) string {
	return normalize(from) + "|" + normalize(to)
}

func (p *StaticProvider) GetDistance(ctx context.Context, origin, destination string) (ports.DistanceResult, error) {
	r, ok := p.legs[legKey(origin, destination)]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("no known leg %q -> %q", origin, destination)
	}
	return r, nil
}
