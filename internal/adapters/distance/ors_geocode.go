package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/arpankumarde/neevtrace/internal/domain"
	"github.com/arpankumarde/neevtrace/internal/platform/obs"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label string `json:"label"`
		} `json:"properties"`
	} `json:"features"`
}

// Geocode resolves a single place name, using the cache when present.
func (o *ORSClient) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	norm := normalize(address)
	if norm == "" {
		return domain.Coordinates{}, errors.New("geocode: address must be non-empty")
	}

	coords, err := o.resolve(ctx, []string{norm})
	if err != nil {
		return domain.Coordinates{}, err
	}
	return coords[norm], nil
}

// geocodeMany resolves addresses one by one via /geocode/search.
func (o *ORSClient) geocodeMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.geocodeMany")(&err)

	endpoint := o.baseURL + "/geocode/search"
	out := make(map[string]domain.Coordinates, len(addresses))

	for _, a := range addresses {
		if _, done := out[a]; done {
			continue
		}

		c, err := o.geocodeOne(ctx, endpoint, a)
		if err != nil {
			return nil, err
		}
		out[a] = c
	}
	return out, nil
}

func (o *ORSClient) geocodeOne(ctx context.Context, endpoint, address string) (domain.Coordinates, error) {
	resp, err := o.http.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", address)
		q.Set("size", "1")
		if o.country != "" {
			q.Set("boundary.country", o.country)
		}
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("no geocode results for %q", address)
	}

	c := decoded.Features[0].Geometry.Coordinates
	if len(c) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format for %q", address)
	}
	return domain.Coordinates{Lon: c[0], Lat: c[1]}, nil
}
