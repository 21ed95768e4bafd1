package distance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeORS struct {
	coords map[string][]float64
	// meters and seconds keyed by destination longitude
	routes map[float64][2]float64

	geocodeHits atomic.Int64
	matrixHits  atomic.Int64
	failFirst   atomic.Int64
	lastProfile atomic.Value
}

func (f *fakeORS) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/geocode/search", func(w http.ResponseWriter, r *http.Request) {
		f.geocodeHits.Add(1)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "US", r.URL.Query().Get("boundary.country"))

		c, ok := f.coords[r.URL.Query().Get("text")]
		features := []map[string]any{}
		if ok {
			features = append(features, map[string]any{"geometry": map[string]any{"coordinates": c}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"features": features})
	})

	mux.HandleFunc("/v2/matrix/", func(w http.ResponseWriter, r *http.Request) {
		f.matrixHits.Add(1)
		f.lastProfile.Store(r.URL.Path)
		if f.failFirst.Load() > 0 {
			f.failFirst.Add(-1)
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}

		var req matrixQuery
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		dist := make([]*float64, 0, len(req.Destinations))
		dur := make([]*float64, 0, len(req.Destinations))
		for _, idx := range req.Destinations {
			route := f.routes[req.Locations[idx][0]]
			m, s := route[0], route[1]
			dist = append(dist, &m)
			dur = append(dur, &s)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"distances": [][]*float64{dist},
			"durations": [][]*float64{dur},
		})
	})

	return mux
}

type memDistanceCache struct {
	mu sync.Mutex
	m  map[string]ports.DistanceResult
}

func (c *memDistanceCache) GetMany(_ context.Context, origin string, dests []string) (map[string]ports.DistanceResult, error) {
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

func (c *memDistanceCache) PutMany(_ context.Context, origin string, results map[string]ports.DistanceResult) error {
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

func (c *memGeocodeCache) GetMany(_ context.Context, addrs []string) (map[string]domain.Coordinates, error) {
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

func (c *memGeocodeCache) PutMany(_ context.Context, results map[string]domain.Coordinates) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range results {
		c.m[k] = v
	}
	return nil
}

func newFakeORS() *fakeORS {
	return &fakeORS{
		coords: map[string][]float64{
			"Dallas, TX":  {-96.797, 32.7767},
			"Phoenix, AZ": {-112.074, 33.4484},
			"Austin, TX":  {-97.7431, 30.2672},
		},
		routes: map[float64][2]float64{
			-112.074: {1609344, 54000}, // 1000 mi, 15h
			-97.7431: {313822, 11700},
		},
	}
}

func TestORSProviderGetDistance(t *testing.T) {
	fake := newFakeORS()
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	dc := &memDistanceCache{m: map[string]ports.DistanceResult{}}
	gc := &memGeocodeCache{m: map[string]domain.Coordinates{}}

	p, err := NewORSProvider("test-key", dc, gc, WithBaseURL(srv.URL), WithRateLimit(0))
	require.NoError(t, err)

	ctx := context.Background()
	got, err := p.GetDistance(ctx, "  Dallas,   TX ", "Phoenix, AZ")
	require.NoError(t, err)
	assert.InDelta(t, 1000, got.Miles, 0.01)
	assert.InDelta(t, 15, got.Hours, 1e-9)
	assert.Equal(t, "/v2/matrix/driving-hgv", fake.lastProfile.Load())

	assert.EqualValues(t, 1, fake.matrixHits.Load())
	assert.EqualValues(t, 2, fake.geocodeHits.Load())

	// Second lookup is served from the distance cache.
	again, err := p.GetDistance(ctx, "Dallas, TX", "Phoenix, AZ")
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.EqualValues(t, 1, fake.matrixHits.Load())

	// A new destination reuses the cached origin coordinates.
	_, err = p.GetDistance(ctx, "Dallas, TX", "Austin, TX")
	require.NoError(t, err)
	assert.EqualValues(t, 3, fake.geocodeHits.Load())
}

func TestORSProviderSameEndpoints(t *testing.T) {
	p, err := NewORSProvider("test-key", nil, nil, WithBaseURL("http://127.0.0.1:0"), WithRateLimit(0))
	require.NoError(t, err)

	got, err := p.GetDistance(context.Background(), "Dallas, TX", "Dallas,  TX")
	require.NoError(t, err)
	assert.Zero(t, got.Miles)
}

func TestORSProviderRetriesTransientFailures(t *testing.T) {
	fake := newFakeORS()
	fake.failFirst.Store(1)
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	p, err := NewORSProvider("test-key", nil, nil, WithBaseURL(srv.URL), WithRateLimit(0))
	require.NoError(t, err)

	got, err := p.GetDistance(context.Background(), "Dallas, TX", "Phoenix, AZ")
	require.NoError(t, err)
	assert.InDelta(t, 1000, got.Miles, 0.01)
	assert.EqualValues(t, 2, fake.matrixHits.Load())
}

func TestORSProviderErrors(t *testing.T) {
	fake := newFakeORS()
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	p, err := NewORSProvider("test-key", nil, nil, WithBaseURL(srv.URL), WithRateLimit(0))
	require.NoError(t, err)

	_, err = p.GetDistance(context.Background(), "Atlantis", "Phoenix, AZ")
	assert.ErrorContains(t, err, "no geocode results")

	_, err = p.GetDistance(context.Background(), "", "Phoenix, AZ")
	assert.Error(t, err)

	_, err = NewORSProvider(" ", nil, nil)
	assert.Error(t, err)
}

func TestORSProviderGeocode(t *testing.T) {
	fake := newFakeORS()
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	gc := &memGeocodeCache{m: map[string]domain.Coordinates{}}
	p, err := NewORSProvider("test-key", nil, gc, WithBaseURL(srv.URL), WithRateLimit(0))
	require.NoError(t, err)

	c, err := p.Geocode(context.Background(), "Phoenix, AZ")
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{Lon: -112.074, Lat: 33.4484}, c)

	_, err = p.Geocode(context.Background(), "Phoenix, AZ")
	require.NoError(t, err)
	assert.EqualValues(t, 1, fake.geocodeHits.Load())
}

func TestMockDistanceProvider(t *testing.T) {
	p := NewMockDistanceProvider([]MockPair{{From: "A", To: "B", Miles: 120, Hours: 2}})

	r, err := p.GetDistance(context.Background(), "A", "B")
	require.NoError(t, err)
	assert.Equal(t, ports.DistanceResult{Miles: 120, Hours: 2}, r)

	_, err = p.GetDistance(context.Background(), "B", "A")
	assert.Error(t, err)
	assert.EqualValues(t, 2, p.Calls())
}
