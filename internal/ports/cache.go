package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// DistanceCache stores origin->destination results. Keys are expected to be
// normalized by the caller.
type DistanceCache interface {
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]DistanceResult, error)
	PutMany(ctx context.Context, origin string, results map[string]DistanceResult) error
}

// GeocodeCache stores address->coordinate mappings.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
