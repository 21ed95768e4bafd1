package services

import (
	"context"
	"errors"
	"testing"
	"time"
	"trip-planner-service/internal/adapters/distance"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackDistance(t *testing.T) {
	rules := domain.DefaultRules()

	tests := []struct {
		origin, destination string
		want                float64
	}{
		{"New York, NY", "Los Angeles, CA", 2800},
		{"CHICAGO", "Miami Beach, FL", 1200},
		{"Dallas, TX", "Phoenix, AZ", 1000},
		{"Seattle, WA", "Portland, OR", 175},
		{"Los Angeles, CA", "New York, NY", 850},
		{"Boise, ID", "Omaha, NE", 850},
	}

	for _, tt := range tests {
		got := FallbackDistance(rules, tt.origin, tt.destination)
		assert.Equal(t, tt.want, got.Miles, "%s -> %s", tt.origin, tt.destination)
		assert.InDelta(t, tt.want/55, got.Hours, 1e-12)
	}
}

type slowProvider struct{}

func (slowProvider) GetDistance(ctx context.Context, _, _ string) (ports.DistanceResult, error) {
	<-ctx.Done()
	return ports.DistanceResult{}, ctx.Err()
}

func TestResolveTripDistance(t *testing.T) {
	rules := domain.DefaultRules()
	ctx := context.Background()

	t.Run("provider legs are summed", func(t *testing.T) {
		p := distance.NewMockDistanceProvider([]distance.MockPair{
			{From: "Fort Worth, TX", To: "Dallas, TX", Miles: 32, Hours: 0.6},
			{From: "Dallas, TX", To: "Phoenix, AZ", Miles: 1065, Hours: 15.5},
		})

		est := ResolveTripDistance(ctx, p, rules, time.Second, "Fort Worth, TX", "Dallas, TX", "Phoenix, AZ")
		assert.Equal(t, 1097.0, est.Miles)
		assert.InDelta(t, 16.1, est.Hours, 1e-9)
		assert.Equal(t, domain.DistanceFromProvider, est.Source)
		assert.Empty(t, est.Failures)
	})

	t.Run("deadhead skipped when origin is pickup", func(t *testing.T) {
		p := distance.NewMockDistanceProvider([]distance.MockPair{
			{From: "Dallas, TX", To: "Phoenix, AZ", Miles: 1065, Hours: 15.5},
		})

		est := ResolveTripDistance(ctx, p, rules, time.Second, " dallas,  TX", "Dallas, TX", "Phoenix, AZ")
		assert.Equal(t, 1065.0, est.Miles)
		assert.Equal(t, domain.DistanceFromProvider, est.Source)
		assert.EqualValues(t, 1, p.Calls())
	})

	t.Run("failed loaded leg falls back", func(t *testing.T) {
		p := distance.NewMockDistanceProvider([]distance.MockPair{
			{From: "Fort Worth, TX", To: "Dallas, TX", Miles: 32, Hours: 0.6},
		})

		est := ResolveTripDistance(ctx, p, rules, time.Second, "Fort Worth, TX", "Dallas, TX", "Phoenix, AZ")
		assert.Equal(t, 1032.0, est.Miles)
		assert.Equal(t, domain.DistanceFromFallback, est.Source)
		require.Len(t, est.Failures, 1)

		var lookupErr *LookupError
		require.True(t, errors.As(est.Failures[0], &lookupErr))
		assert.Equal(t, "Dallas, TX", lookupErr.Origin)
		assert.Equal(t, "Phoenix, AZ", lookupErr.Destination)
	})

	t.Run("failed deadhead leg contributes nothing", func(t *testing.T) {
		p := distance.NewMockDistanceProvider([]distance.MockPair{
			{From: "Dallas, TX", To: "Phoenix, AZ", Miles: 1065, Hours: 15.5},
		})

		est := ResolveTripDistance(ctx, p, rules, time.Second, "Austin, TX", "Dallas, TX", "Phoenix, AZ")
		assert.Equal(t, 1065.0, est.Miles)
		assert.Equal(t, domain.DistanceFromFallback, est.Source)
	})

	t.Run("no provider", func(t *testing.T) {
		est := ResolveTripDistance(ctx, nil, rules, time.Second, "New York, NY", "New York, NY", "Los Angeles, CA")
		assert.Equal(t, 2800.0, est.Miles)
		assert.Equal(t, domain.DistanceFromFallback, est.Source)
		assert.ErrorIs(t, est.Failures[0], errNoProvider)
	})

	t.Run("lookups time out", func(t *testing.T) {
		start := time.Now()
		est := ResolveTripDistance(ctx, slowProvider{}, rules, 20*time.Millisecond, "A", "B", "C")
		assert.Less(t, time.Since(start), 2*time.Second)

		assert.Equal(t, 850.0, est.Miles)
		require.Len(t, est.Failures, 2)
		assert.ErrorIs(t, est.Failures[0], context.DeadlineExceeded)
	})

	t.Run("non-positive provider distance falls back", func(t *testing.T) {
		p := distance.NewMockDistanceProvider([]distance.MockPair{
			{From: "Seattle, WA", To: "Portland, OR", Miles: 0},
		})

		est := ResolveTripDistance(ctx, p, rules, time.Second, "Seattle, WA", "Seattle, WA", "Portland, OR")
		assert.Equal(t, 175.0, est.Miles)
		assert.Equal(t, domain.DistanceFromFallback, est.Source)
	})

	t.Run("missing provider hours derive from miles", func(t *testing.T) {
		p := distance.NewMockDistanceProvider([]distance.MockPair{
			{From: "A", To: "B", Miles: 110},
		})

		est := ResolveTripDistance(ctx, p, rules, time.Second, "A", "A", "B")
		assert.InDelta(t, 2.0, est.Hours, 1e-12)
	})
}

func TestEnrichStops(t *testing.T) {
	rules := domain.DefaultRules()
	plan, err := EstimateTrip(rules, 0, 1500)
	require.NoError(t, err)

	stops := SequenceStops(rules, "Fort Worth, TX", "Dallas, TX", "Phoenix, AZ", plan)

	geocoder := distance.MockGeocoder{
		"Fort Worth, TX": {Lon: -97.33, Lat: 32.75},
		"Phoenix, AZ":    {Lon: -112.07, Lat: 33.45},
	}

	got := EnrichStops(context.Background(), geocoder, stops)
	require.Len(t, got, len(stops))

	byType := map[domain.StopType]domain.Coordinates{}
	for _, s := range got {
		switch s.Type {
		case domain.StopFuel, domain.StopRest:
			assert.True(t, s.Coordinates.IsZero(), "stop %q", s.Label)
		default:
			byType[s.Type] = s.Coordinates
		}
	}

	assert.Equal(t, domain.Coordinates{Lon: -97.33, Lat: 32.75}, byType[domain.StopStart])
	// Pickup lookup fails and stays zero.
	assert.True(t, byType[domain.StopPickup].IsZero())
	assert.Equal(t, domain.Coordinates{Lon: -112.07, Lat: 33.45}, byType[domain.StopDropoff])
	assert.Equal(t, byType[domain.StopDropoff], byType[domain.StopEnd])

	// Input is not modified.
	assert.True(t, stops[0].Coordinates.IsZero())

	// A nil geocoder is a no-op.
	assert.Equal(t, stops, EnrichStops(context.Background(), nil, stops))
}
