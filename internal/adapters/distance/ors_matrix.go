package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// matrixQuery asks for one row of the ORS matrix: location 0 is the origin,
// every other location is a destination.
type matrixQuery struct {
	Locations    [][]float64 `json:"locations"`
	Sources      []int       `json:"sources"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
	Units        string      `json:"units"`
}

func newMatrixQuery(origin domain.Coordinates, dests []domain.Coordinates) matrixQuery {
	q := matrixQuery{
		Locations:    [][]float64{origin.CoordsToList()},
		Sources:      []int{0},
		Destinations: make([]int, len(dests)),
		Metrics:      []string{"distance", "duration"},
		Units:        "m",
	}
	for i, c := range dests {
		q.Locations = append(q.Locations, c.CoordsToList())
		q.Destinations[i] = i + 1
	}
	return q
}

// matrixReply holds meters and seconds; unroutable cells come back null.
type matrixReply struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// row returns the single source row, checked against the n destinations asked for.
func (r matrixReply) row(n int) (meters, seconds []*float64, err error) {
	if len(r.Distances) != 1 || len(r.Durations) != 1 {
		return nil, nil, fmt.Errorf("want 1 source row, got %d distance and %d duration rows",
			len(r.Distances), len(r.Durations))
	}
	meters, seconds = r.Distances[0], r.Durations[0]
	if len(meters) != n || len(seconds) != n {
		return nil, nil, fmt.Errorf("want %d cells per row, got %d distances and %d durations",
			n, len(meters), len(seconds))
	}
	return meters, seconds, nil
}

func toDistance(meters, seconds *float64) (ports.DistanceResult, bool) {
	if meters == nil || seconds == nil {
		return ports.DistanceResult{}, false
	}
	return ports.DistanceResult{Miles: *meters * metersToMiles, Hours: *seconds / 3600}, true
}

// fetchMatrixRow looks up origin -> dests[i] for every i in one matrix call.
// names[i] labels dests[i] in the result and in errors.
func (o *ORSProvider) fetchMatrixRow(
	ctx context.Context,
	origin domain.Coordinates,
	names []string,
	dests []domain.Coordinates,
) (_ map[string]ports.DistanceResult, err error) {
	if len(names) != len(dests) {
		return nil, fmt.Errorf("matrix row: %d names for %d coordinates", len(names), len(dests))
	}
	if len(dests) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}
	defer obs.Time(ctx, "ors.matrix")(&err)

	payload, err := json.Marshal(newMatrixQuery(origin, dests))
	if err != nil {
		return nil, fmt.Errorf("encode matrix query: %w", err)
	}

	url := o.baseURL + "/v2/matrix/" + o.profile
	resp, err := o.doWithRetry(ctx, "matrix", func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, url, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("matrix call: %w", err)
	}
	defer resp.Body.Close()

	var reply matrixReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("decode matrix reply: %w", err)
	}
	meters, seconds, err := reply.row(len(dests))
	if err != nil {
		return nil, err
	}

	out := make(map[string]ports.DistanceResult, len(names))
	for i, name := range names {
		res, ok := toDistance(meters[i], seconds[i])
		if !ok {
			return nil, fmt.Errorf("no route to %q", name)
		}
		out[name] = res
	}
	return out, nil
}
