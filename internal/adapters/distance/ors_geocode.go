package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// geocodeMany resolves addresses one by one using OpenRouteService
// (/geocode/search), restricted to the US. Duplicates are looked up once.
func (o *ORSProvider) geocodeMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.geocodeMany")(&err)

	endpoint := o.baseURL + "/geocode/search"

	out := make(map[string]domain.Coordinates, len(addresses))
	for _, a := range addresses {
		norm := Normalize(a)
		if _, ok := out[norm]; ok {
			continue
		}

		c, err := o.geocodeOne(ctx, endpoint, norm)
		if err != nil {
			return nil, err
		}
		out[norm] = c
	}

	return out, nil
}

func (o *ORSProvider) geocodeOne(ctx context.Context, endpoint, address string) (domain.Coordinates, error) {
	resp, err := o.doWithRetry(ctx, "geocode", func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", address)
		q.Set("boundary.country", "US")
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode request for %q: %w", address, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("no geocode results for %q", address)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format for %q", address)
	}

	return domain.Coordinates{Lon: coords[0], Lat: coords[1]}, nil
}
