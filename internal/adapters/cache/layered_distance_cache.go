package cache

import (
	"context"
	"errors"
	"trip-planner-service/internal/ports"
)

// LayeredDistanceCache consults caches in order (fastest first). Hits found in
// a later layer are copied into the earlier ones. Writes go to every layer.
type LayeredDistanceCache struct {
	layers []ports.DistanceCache
}

func NewLayeredDistanceCache(layers ...ports.DistanceCache) *LayeredDistanceCache {
	return &LayeredDistanceCache{layers: layers}
}

func (l *LayeredDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (map[string]ports.DistanceResult, error) {
	out := make(map[string]ports.DistanceResult, len(destinations))
	missing := destinations

	var errs []error
	for i, layer := range l.layers {
		if len(missing) == 0 {
			break
		}

		hits, err := layer.GetMany(ctx, origin, missing)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if len(hits) > 0 && i > 0 {
			for _, upper := range l.layers[:i] {
				if err := upper.PutMany(ctx, origin, hits); err != nil {
					errs = append(errs, err)
				}
			}
		}

		next := make([]string, 0, len(missing))
		for _, d := range missing {
			if r, ok := hits[d]; ok {
				out[d] = r
				continue
			}
			next = append(next, d)
		}
		missing = next
	}

	// Fails only when every layer errored and nothing was found.
	if len(out) == 0 && len(errs) == len(l.layers) && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func (l *LayeredDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) error {
	var errs []error
	for _, layer := range l.layers {
		if err := layer.PutMany(ctx, origin, results); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
