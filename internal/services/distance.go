package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/logging"
	"trip-planner-service/internal/platform/metrics"
	"trip-planner-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

const defaultFallbackMiles = 850

// namedRoutes are rough road distances for common lanes, matched by
// case-insensitive substring on both ends.
var namedRoutes = []struct {
	from, to string
	miles    float64
}{
	{"new york", "los angeles", 2800},
	{"chicago", "miami", 1200},
	{"dallas", "phoenix", 1000},
	{"seattle", "portland", 175},
}

// LookupError reports a failed external distance lookup. It is logged and
// absorbed by the fallback, never returned to API callers.
type LookupError struct {
	Origin      string
	Destination string
	Err         error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("distance lookup %q -> %q: %v", e.Origin, e.Destination, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// DistanceEstimate is the resolved trip distance.
type DistanceEstimate struct {
	Miles  float64
	Hours  float64
	Source domain.DistanceSource
	// Failures holds the absorbed lookup errors, one per failed leg.
	Failures []error
}

func matchNamedRoute(origin, destination string) (float64, bool) {
	o := strings.ToLower(origin)
	d := strings.ToLower(destination)
	for _, r := range namedRoutes {
		if strings.Contains(o, r.from) && strings.Contains(d, r.to) {
			return r.miles, true
		}
	}
	return 0, false
}

// FallbackDistance estimates a leg without any external service: a named
// route when one matches, otherwise a fixed default.
func FallbackDistance(rules domain.HOSRuleSet, origin, destination string) ports.DistanceResult {
	miles, ok := matchNamedRoute(origin, destination)
	if !ok {
		miles = defaultFallbackMiles
	}
	return ports.DistanceResult{Miles: miles, Hours: miles / rules.AverageSpeedMPH}
}

func sameLocation(a, b string) bool {
	return strings.EqualFold(strings.Join(strings.Fields(a), " "), strings.Join(strings.Fields(b), " "))
}

type tripLeg struct {
	from, to string
	deadhead bool
}

// ResolveTripDistance sums the deadhead leg (origin to pickup) and the loaded
// leg (pickup to dropoff). The deadhead leg is skipped when origin and pickup
// are the same place.
//
// Each leg is looked up with its own timeout. A failed or non-positive result
// falls back: the loaded leg to FallbackDistance, the deadhead leg to a named
// route or zero. A nil provider resolves every leg by fallback.
func ResolveTripDistance(
	ctx context.Context,
	provider ports.DistanceProvider,
	rules domain.HOSRuleSet,
	timeout time.Duration,
	origin, pickup, dropoff string,
) DistanceEstimate {
	legs := []tripLeg{{from: pickup, to: dropoff}}
	if !sameLocation(origin, pickup) {
		legs = append(legs, tripLeg{from: origin, to: pickup, deadhead: true})
	}

	results := make([]ports.DistanceResult, len(legs))
	failures := make([]error, len(legs))

	g, gctx := errgroup.WithContext(ctx)
	for i, leg := range legs {
		g.Go(func() error {
			r, err := lookupLeg(gctx, provider, rules, timeout, leg)
			if err != nil {
				failures[i] = err
				r = fallbackLeg(rules, leg)
			}
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()

	est := DistanceEstimate{Source: domain.DistanceFromProvider}
	for i, r := range results {
		est.Miles += r.Miles
		est.Hours += r.Hours

		if failures[i] == nil {
			metrics.DistanceLookups.WithLabelValues(string(domain.DistanceFromProvider)).Inc()
			continue
		}
		metrics.DistanceLookups.WithLabelValues(string(domain.DistanceFromFallback)).Inc()
		est.Source = domain.DistanceFromFallback
		est.Failures = append(est.Failures, failures[i])

		var lookupErr *LookupError
		if provider != nil && errors.As(failures[i], &lookupErr) {
			logging.FromContext(ctx).Warn("distance lookup failed, using fallback",
				slog.String("origin", lookupErr.Origin),
				slog.String("destination", lookupErr.Destination),
				slog.Bool("deadhead", legs[i].deadhead),
				slog.String("error", lookupErr.Err.Error()))
		}
	}

	return est
}

var errNoProvider = errors.New("no distance provider configured")

func lookupLeg(
	ctx context.Context,
	provider ports.DistanceProvider,
	rules domain.HOSRuleSet,
	timeout time.Duration,
	leg tripLeg,
) (ports.DistanceResult, error) {
	if provider == nil {
		return ports.DistanceResult{}, &LookupError{Origin: leg.from, Destination: leg.to, Err: errNoProvider}
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	r, err := provider.GetDistance(ctx, leg.from, leg.to)
	if err != nil {
		return ports.DistanceResult{}, &LookupError{Origin: leg.from, Destination: leg.to, Err: err}
	}
	if !(r.Miles > 0) || math.IsInf(r.Miles, 0) {
		return ports.DistanceResult{}, &LookupError{
			Origin:      leg.from,
			Destination: leg.to,
			Err:         fmt.Errorf("non-positive distance %v", r.Miles),
		}
	}
	if !(r.Hours > 0) || math.IsInf(r.Hours, 0) {
		r.Hours = r.Miles / rules.AverageSpeedMPH
	}
	return r, nil
}

func fallbackLeg(rules domain.HOSRuleSet, leg tripLeg) ports.DistanceResult {
	if !leg.deadhead {
		return FallbackDistance(rules, leg.from, leg.to)
	}
	if miles, ok := matchNamedRoute(leg.from, leg.to); ok {
		return ports.DistanceResult{Miles: miles, Hours: miles / rules.AverageSpeedMPH}
	}
	return ports.DistanceResult{}
}
