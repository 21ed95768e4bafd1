package services

import (
	"context"
	"log/slog"
	"slices"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/logging"
	"trip-planner-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

const geocodeConcurrency = 3

// EnrichStops returns a copy of stops with coordinates for the start, pickup
// and dropoff stops. The end stop reuses the dropoff coordinates. Fuel and
// rest stops have no fixed place and stay zero, as does any stop whose lookup
// fails. Failures are logged, never returned.
func EnrichStops(ctx context.Context, geocoder ports.Geocoder, stops []domain.RouteStop) []domain.RouteStop {
	out := slices.Clone(stops)
	if geocoder == nil {
		return out
	}

	var targets []int
	for i, s := range out {
		switch s.Type {
		case domain.StopStart, domain.StopPickup, domain.StopDropoff:
			targets = append(targets, i)
		}
	}

	coords := make([]domain.Coordinates, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(geocodeConcurrency)
	for j, i := range targets {
		label := out[i].Label
		g.Go(func() error {
			c, err := geocoder.Geocode(gctx, label)
			if err != nil {
				logging.FromContext(ctx).Warn("geocode failed, leaving stop without coordinates",
					slog.String("location", label),
					slog.String("error", err.Error()))
				return nil
			}
			coords[j] = c
			return nil
		})
	}
	_ = g.Wait()

	var dropoff domain.Coordinates
	for j, i := range targets {
		out[i].Coordinates = coords[j]
		if out[i].Type == domain.StopDropoff {
			dropoff = coords[j]
		}
	}
	for i := range out {
		if out[i].Type == domain.StopEnd {
			out[i].Coordinates = dropoff
		}
	}

	return out
}
