package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// Driving distance and travel duration between two locations.
type DistanceResult struct {
	Miles float64
	Hours float64
}

// Contract for retrieving travel distance and duration between locations.
// Implementations return an error when the lookup is unavailable; callers
// substitute a deterministic fallback.
type DistanceProvider interface {
	// Return travel distance and estimated duration between two locations.
	GetDistance(ctx context.Context, origin string, destination string) (DistanceResult, error)
}

// Geocoder resolves a free-text location to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (domain.Coordinates, error)
}
