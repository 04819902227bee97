package distance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/arpankumarde/neevtrace/internal/domain"
	"github.com/arpankumarde/neevtrace/internal/platform/httpx"
	"github.com/arpankumarde/neevtrace/internal/platform/obs"
	"github.com/arpankumarde/neevtrace/internal/ports"
)

// DistanceCache persists origin->destination results between runs.
type DistanceCache interface {
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]ports.DistanceResult, error)
	PutMany(ctx context.Context, origin string, results map[string]ports.DistanceResult) error
}

// GeocodeCache persists address->coordinate lookups.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, coords map[string]domain.Coordinates) error
}

// ORSClient answers road distance questions for the maps tool using
// OpenRouteService geocoding and matrix endpoints. Both lookups are cached
// when caches are supplied. Safe for concurrent use.
type ORSClient struct {
	http          *httpx.Client
	apiKey        string
	baseURL       string
	profile       string
	country       string
	distanceCache DistanceCache
	geocodeCache  GeocodeCache
}

type Option func(*ORSClient)

func WithBaseURL(u string) Option {
	return func(o *ORSClient) { o.baseURL = strings.TrimRight(u, "/") }
}

// WithProfile selects the ORS routing profile, e.g. "driving-hgv" for trucks.
func WithProfile(p string) Option {
	return func(o *ORSClient) { o.profile = p }
}

// WithCountry restricts geocoding to an ISO country code.
func WithCountry(code string) Option {
	return func(o *ORSClient) { o.country = code }
}

func WithCaches(d DistanceCache, g GeocodeCache) Option {
	return func(o *ORSClient) {
		o.distanceCache = d
		o.geocodeCache = g
	}
}

func WithHTTPClient(c *httpx.Client) Option {
	return func(o *ORSClient) { o.http = c }
}

func NewORSClient(apiKey string, opts ...Option) (*ORSClient, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	o := &ORSClient{
		http:    httpx.New(10 * time.Second),
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		profile: "driving-hgv",
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// normalize collapses whitespace so cache keys are stable.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (o *ORSClient) GetDistance(ctx context.Context, origin, destination string) (ports.DistanceResult, error) {
	normOrigin, normDestination := normalize(origin), normalize(destination)
	if normOrigin == "" || normDestination == "" {
		return ports.DistanceResult{}, errors.New("ors distance: origin and destination must be non-empty")
	}
	if normOrigin == normDestination {
		return ports.DistanceResult{}, nil
	}

	results, err := o.GetDistances(ctx, normOrigin, []string{normDestination})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("ors distance %q -> %q: %w", normOrigin, normDestination, err)
	}

	result, ok := results[normDestination]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("ors distance: no result for %q -> %q", origin, destination)
	}
	return result, nil
}

// GetDistances returns results keyed by normalized destination. Cached pairs
// are served from the distance cache and only misses reach ORS, in a single
// matrix call.
func (o *ORSClient) GetDistances(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "ors.GetDistances")(&err)

	normOrigin := normalize(origin)
	if normOrigin == "" {
		return nil, errors.New("origin must be non-empty")
	}

	seen := make(map[string]struct{}, len(destinations))
	destList := make([]string, 0, len(destinations))
	for _, d := range destinations {
		nd := normalize(d)
		if nd == "" || nd == normOrigin {
			continue
		}
		if _, ok := seen[nd]; ok {
			continue
		}
		seen[nd] = struct{}{}
		destList = append(destList, nd)
	}
	if len(destList) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	out := make(map[string]ports.DistanceResult, len(destList))
	if o.distanceCache != nil {
		hits, err := o.distanceCache.GetMany(ctx, normOrigin, destList)
		if err != nil {
			return nil, fmt.Errorf("read distance cache: %w", err)
		}
		for k, v := range hits {
			out[k] = v
		}
	}

	misses := make([]string, 0, len(destList))
	for _, d := range destList {
		if _, ok := out[d]; !ok {
			misses = append(misses, d)
		}
	}
	if len(misses) == 0 {
		return out, nil
	}

	coords, err := o.resolve(ctx, append([]string{normOrigin}, misses...))
	if err != nil {
		return nil, err
	}

	destCoords := make([]domain.Coordinates, len(misses))
	for i, d := range misses {
		destCoords[i] = coords[d]
	}

	fetched, err := o.fetchMatrixRow(ctx, coords[normOrigin], misses, destCoords)
	if err != nil {
		return nil, fmt.Errorf("fetch matrix row: %w", err)
	}

	if o.distanceCache != nil {
		if err := o.distanceCache.PutMany(ctx, normOrigin, fetched); err != nil {
			log.Warn().Err(err).Str("origin", normOrigin).Msg("distance cache write failed")
		}
	}

	for k, v := range fetched {
		out[k] = v
	}
	return out, nil
}

// resolve returns coordinates for every address, consulting the geocode cache
// before ORS.
func (o *ORSClient) resolve(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	coords := make(map[string]domain.Coordinates, len(addresses))
	if o.geocodeCache != nil {
		hits, err := o.geocodeCache.GetMany(ctx, addresses)
		if err != nil {
			return nil, fmt.Errorf("read geocode cache: %w", err)
		}
		for k, v := range hits {
			coords[k] = v
		}
	}

	var misses []string
	for _, a := range addresses {
		if _, ok := coords[a]; !ok {
			misses = append(misses, a)
		}
	}
	if len(misses) == 0 {
		return coords, nil
	}

	fresh, err := o.geocodeMany(ctx, misses)
	if err != nil {
		return nil, fmt.Errorf("geocode: %w", err)
	}
	if o.geocodeCache != nil {
		if err := o.geocodeCache.PutMany(ctx, fresh); err != nil {
			log.Warn().Err(err).Int("addresses", len(fresh)).Msg("geocode cache write failed")
		}
	}

	for k, v := range fresh {
		coords[k] = v
	}
	for _, a := range addresses {
		if _, ok := coords[a]; !ok {
			return nil, fmt.Errorf("missing coordinate for %q", a)
		}
	}
	return coords, nil
}
