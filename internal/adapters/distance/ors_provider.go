package distance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/logging"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.openrouteservice.org"
	// heavy goods vehicle routing
	defaultProfile = "driving-hgv"

	metersToMiles = 0.000621371
)

// ORSProvider implements ports.DistanceProvider and ports.Geocoder using
// OpenRouteService.
//
// It coordinates:
//   - Address normalization
//   - Geocode and distance caching (any ports cache implementation)
//   - Client-side rate limiting
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type ORSProvider struct {
	session       *http.Client
	apiKey        string
	baseURL       string
	profile       string
	limiter       *rate.Limiter
	distanceCache ports.DistanceCache
	geocodeCache  ports.GeocodeCache
}

type Option func(*ORSProvider)

func WithBaseURL(u string) Option {
	return func(o *ORSProvider) { o.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *ORSProvider) { o.session = c }
}

// WithRateLimit caps outgoing requests per second. Zero or less disables the limiter.
func WithRateLimit(perSecond float64) Option {
	return func(o *ORSProvider) {
		if perSecond <= 0 {
			o.limiter = nil
			return
		}
		o.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// NewORSProvider builds a provider. Either cache may be nil.
func NewORSProvider(
	apiKey string,
	distanceCache ports.DistanceCache,
	geocodeCache ports.GeocodeCache,
	opts ...Option,
) (*ORSProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	provider := &ORSProvider{
		session:       &http.Client{Timeout: 10 * time.Second},
		apiKey:        apiKey,
		baseURL:       defaultBaseURL,
		profile:       defaultProfile,
		limiter:       rate.NewLimiter(rate.Limit(0.6), 1),
		distanceCache: distanceCache,
		geocodeCache:  geocodeCache,
	}
	for _, opt := range opts {
		opt(provider)
	}

	return provider, nil
}

// Normalize collapses whitespace so equivalent addresses share cache keys.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// GetDistance delegates to the batched path to reuse caching and matrix logic.
func (o *ORSProvider) GetDistance(
	ctx context.Context,
	origin string,
	destination string,
) (ports.DistanceResult, error) {
	normOrigin := Normalize(origin)
	if normOrigin == "" {
		return ports.DistanceResult{}, errors.New("get ORS distance: origin must be non-empty")
	}

	normDestination := Normalize(destination)
	if normDestination == "" {
		return ports.DistanceResult{}, errors.New("get ORS distance: destination must be non-empty")
	}

	if normOrigin == normDestination {
		return ports.DistanceResult{}, nil
	}

	results, err := o.GetDistances(ctx, normOrigin, []string{normDestination})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf(
			"get distances %q -> %q: %w",
			normOrigin, normDestination, err,
		)
	}

	result, ok := results[normDestination]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("no distance result for %q -> %q", origin, destination)
	}

	return result, nil
}

// Geocode resolves one location, consulting the geocode cache first.
func (o *ORSProvider) Geocode(ctx context.Context, location string) (domain.Coordinates, error) {
	norm := Normalize(location)
	if norm == "" {
		return domain.Coordinates{}, errors.New("geocode: location must be non-empty")
	}

	coords, err := o.resolveCoordinates(ctx, []string{norm})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", norm, err)
	}

	c, ok := coords[norm]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: no coordinates", norm)
	}
	return c, nil
}

// GetDistances computes distances from a single origin to many destinations.
// Destinations equal to the origin are skipped.
func (o *ORSProvider) GetDistances(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "ors.GetDistances")(&err)

	normOrigin := Normalize(origin)
	if normOrigin == "" {
		return nil, errors.New("origin must be non-empty")
	}

	seen := make(map[string]struct{}, len(destinations))
	destList := make([]string, 0, len(destinations))
	for _, d := range destinations {
		nd := Normalize(d)
		if nd == "" || nd == normOrigin {
			continue
		}
		if _, ok := seen[nd]; ok {
			continue
		}

		seen[nd] = struct{}{}
		destList = append(destList, nd)
	}

	if len(destList) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	destinationHits := make(map[string]ports.DistanceResult)
	// Check the distance cache before issuing external API calls.
	if o.distanceCache != nil {
		hits, err := o.distanceCache.GetMany(ctx, normOrigin, destList)
		if err != nil {
			logging.LogError(logging.FromContext(ctx), "distance cache read failed", err,
				slog.String("component", "ors"))
		} else {
			destinationHits = hits
		}
	}

	destinationMisses := make([]string, 0, len(destList))
	for _, d := range destList {
		if _, ok := destinationHits[d]; !ok {
			destinationMisses = append(destinationMisses, d)
		}
	}

	if len(destinationMisses) == 0 {
		return destinationHits, nil
	}

	needed := make([]string, 0, 1+len(destinationMisses))
	needed = append(needed, normOrigin)
	needed = append(needed, destinationMisses...)

	coords, err := o.resolveCoordinates(ctx, needed)
	if err != nil {
		return nil, fmt.Errorf("retrieving coordinates: %w", err)
	}

	originCoord, ok := coords[normOrigin]
	if !ok {
		return nil, fmt.Errorf("missing coordinate for origin %q", normOrigin)
	}

	destinationCoords := make([]domain.Coordinates, 0, len(destinationMisses))
	for _, d := range destinationMisses {
		coord, ok := coords[d]
		if !ok {
			return nil, fmt.Errorf("missing coordinate for destination %q", d)
		}
		destinationCoords = append(destinationCoords, coord)
	}

	// Fetch a single origin->many matrix row for all cache misses.
	fetched, err := o.fetchMatrixRow(ctx, originCoord, destinationMisses, destinationCoords)
	if err != nil {
		return nil, fmt.Errorf("fetching matrix row: %w", err)
	}

	var missing []string
	for _, d := range destinationMisses {
		if _, ok := fetched[d]; !ok {
			missing = append(missing, d)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf(
			"ORS matrix service did not return the following destinations: %s",
			strings.Join(missing, ", "),
		)
	}

	if o.distanceCache != nil {
		if err := o.distanceCache.PutMany(ctx, normOrigin, fetched); err != nil {
			logging.LogError(logging.FromContext(ctx), "distance cache write failed", err,
				slog.String("component", "ors"))
		}
	}

	out := make(map[string]ports.DistanceResult, len(destinationHits)+len(fetched))
	for k, v := range destinationHits {
		out[k] = v
	}
	for k, v := range fetched {
		out[k] = v
	}

	return out, nil
}

// resolveCoordinates looks up normalized addresses in the geocode cache and
// geocodes the misses, writing fresh results back.
func (o *ORSProvider) resolveCoordinates(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	hits := make(map[string]domain.Coordinates)
	if o.geocodeCache != nil {
		cached, err := o.geocodeCache.GetMany(ctx, addresses)
		if err != nil {
			logging.LogError(logging.FromContext(ctx), "geocode cache read failed", err,
				slog.String("component", "ors"))
		} else {
			hits = cached
		}
	}

	misses := make([]string, 0, len(addresses))
	for _, a := range addresses {
		if _, ok := hits[a]; !ok {
			misses = append(misses, a)
		}
	}
	if len(misses) == 0 {
		return hits, nil
	}

	fresh, err := o.geocodeMany(ctx, misses)
	if err != nil {
		return nil, err
	}

	if o.geocodeCache != nil && len(fresh) > 0 {
		if err := o.geocodeCache.PutMany(ctx, fresh); err != nil {
			logging.LogError(logging.FromContext(ctx), "geocode cache write failed", err,
				slog.String("component", "ors"))
		}
	}

	out := make(map[string]domain.Coordinates, len(hits)+len(fresh))
	for k, v := range hits {
		out[k] = v
	}
	for k, v := range fresh {
		out[k] = v
	}
	return out, nil
}
