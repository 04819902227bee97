package distance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/arpankumarde/neevtrace/internal/domain"
	"github.com/arpankumarde/neevtrace/internal/platform/httpx"
	"github.com/arpankumarde/neevtrace/internal/ports"
)

type memDistanceCache struct {
	mu sync.Mutex
	m  map[string]ports.DistanceResult
}

func (c *memDistanceCache) GetMany(ctx context.Context, origin string, dests []string) (map[string]ports.DistanceResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]ports.DistanceResult{}
	for _, d := range dests {
		if r, ok := c.m[origin+"|"+d]; ok {
			out[d] = r
		}
	}
	return out, nil
}

func (c *memDistanceCache) PutMany(ctx context.Context, origin string, results map[string]ports.DistanceResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for d, r := range results {
		c.m[origin+"|"+d] = r
	}
	return nil
}

type memGeocodeCache struct {
	mu sync.Mutex
	m  map[string]domain.Coordinates
}

func (c *memGeocodeCache) GetMany(ctx context.Context, addrs []string) (map[string]domain.Coordinates, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]domain.Coordinates{}
	for _, a := range addrs {
		if v, ok := c.m[a]; ok {
			out[a] = v
		}
	}
	return out, nil
}

func (c *memGeocodeCache) PutMany(ctx context.Context, coords map[string]domain.Coordinates) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range coords {
		c.m[k] = v
	}
	return nil
}

func fakeORS(t *testing.T, geocodes, matrices *atomic.Int32) *httptest.Server {
	t.Helper()
	places := map[string][]float64{
		"Mumbai": {72.8777, 19.0760},
		"Pune":   {73.8567, 18.5204},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/geocode/search", func(w http.ResponseWriter, r *http.Request) {
		geocodes.Add(1)
		if r.Header.Get("Authorization") != "key" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		c, ok := places[r.URL.Query().Get("text")]
		if !ok {
			w.Write([]byte(`{"features":[]}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"features": []any{map[string]any{"geometry": map[string]any{"coordinates": c}}},
		})
	})
	mux.HandleFunc("/v2/matrix/driving-hgv", func(w http.ResponseWriter, r *http.Request) {
		matrices.Add(1)
		w.Write([]byte(`{"distances":[[148213.4]],"durations":[[10830.6]]}`))
	})
	return httptest.NewServer(mux)
}

func TestORSClient_GetDistanceUsesCaches(t *testing.T) {
	var geocodes, matrices atomic.Int32
	srv := fakeORS(t, &geocodes, &matrices)
	defer srv.Close()

	hc := httpx.New(5 * time.Second)
	hc.Backoff = time.Millisecond

	dc := &memDistanceCache{m: map[string]ports.DistanceResult{}}
	gc := &memGeocodeCache{m: map[string]domain.Coordinates{}}
	o, err := NewORSClient("key", WithBaseURL(srv.URL), WithHTTPClient(hc), WithCaches(dc, gc))
	if err != nil {
		t.Fatalf("NewORSClient: %v", err)
	}

	for i := 0; i < 2; i++ {
		got, err := o.GetDistance(context.Background(), " Mumbai ", "Pune")
		if err != nil {
			t.Fatalf("GetDistance: %v", err)
		}
		if got.DistanceMeters != 148213 || got.DurationSeconds != 10831 {
			t.Fatalf("got %+v, want 148213m 10831s", got)
		}
	}

	if n := geocodes.Load(); n != 2 {
		t.Fatalf("geocode calls = %d, want 2", n)
	}
	if n := matrices.Load(); n != 1 {
		t.Fatalf("matrix calls = %d, want 1", n)
	}
}

func TestORSClient_UnknownPlace(t *testing.T) {
	var geocodes, matrices atomic.Int32
	srv := fakeORS(t, &geocodes, &matrices)
	defer srv.Close()

	o, err := NewORSClient("key", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewORSClient: %v", err)
	}

	if _, err := o.GetDistance(context.Background(), "Mumbai", "Atlantis"); err == nil {
		t.Fatal("expected error for unknown place")
	}
	if n := matrices.Load(); n != 0 {
		t.Fatalf("matrix calls = %d, want 0", n)
	}
}

func TestStaticProvider_IsSymmetric(t *testing.T) {
	p := NewStaticProvider([]Leg{{From: "Delhi", To: "Jaipur", Meters: 281000, Seconds: 17000}})

	got, err := p.GetDistance(context.Background(), "Jaipur", "Delhi")
	if err != nil {
		t.Fatalf("GetDistance: %v", err)
	}
	if got.DistanceMeters != 281000 {
		t.Fatalf("meters = %d, want 281000", got.DistanceMeters)
	}
	if _, err := p.GetDistance(context.Background(), "Delhi", "Agra"); err == nil {
		t.Fatal("expected error for unknown leg")
	}
}

func TestLoadLegs(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "legs.json")
	if err := os.WriteFile(good, []byte(`[{"from":"Mumbai","to":"Pune","meters":148213,"seconds":10831}]`), 0o600); err != nil {
		t.Fatal(err)
	}

	legs, err := LoadLegs(good)
	if err != nil {
		t.Fatalf("LoadLegs: %v", err)
	}
	if len(legs) != 1 || legs[0].Seconds != 10831 {
		t.Fatalf("legs = %+v", legs)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`[{"from":"Mumbai","meters":10}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadLegs(bad); err == nil {
		t.Fatal("expected error for leg without destination")
	}
}

func TestLoadLegs_SeedFile(t *testing.T) {
	legs, err := LoadLegs("../../../data/seeds/road_legs.json")
	if err != nil {
		t.Fatalf("LoadLegs: %v", err)
	}
	if len(legs) == 0 {
		t.Fatal("seed table is empty")
	}
}
