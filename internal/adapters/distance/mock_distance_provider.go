package distance

import (
	"context"
	"fmt"
	"sync/atomic"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

type MockPair struct {
	From, To string
	Miles    float64
	Hours    float64
}

// MockDistanceProvider serves fixed pairs and errors for anything else.
type MockDistanceProvider struct {
	m     map[string]ports.DistanceResult
	calls atomic.Int64
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = ports.DistanceResult{Miles: p.Miles, Hours: p.Hours}
	}
	return &MockDistanceProvider{m: m}
}

func (p *MockDistanceProvider) GetDistance(ctx context.Context, origin, destination string) (ports.DistanceResult, error) {
	p.calls.Add(1)

	if err := ctx.Err(); err != nil {
		return ports.DistanceResult{}, err
	}

	r, ok := p.m[origin+"|"+destination]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("missing pair %q -> %q", origin, destination)
	}

	return r, nil
}

// Calls reports how many lookups were attempted.
func (p *MockDistanceProvider) Calls() int64 {
	return p.calls.Load()
}

// MockGeocoder resolves from a fixed table and errors for unknown locations.
type MockGeocoder map[string]domain.Coordinates

func (g MockGeocoder) Geocode(ctx context.Context, location string) (domain.Coordinates, error) {
	c, ok := g[location]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("no coordinates for %q", location)
	}
	return c, nil
}
