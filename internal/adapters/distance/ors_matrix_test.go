package distance

import (
	"testing"
	"trip-planner-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrixQuery(t *testing.T) {
	q := newMatrixQuery(
		domain.Coordinates{Lon: -96.8, Lat: 32.8},
		[]domain.Coordinates{{Lon: -112.1, Lat: 33.4}, {Lon: -97.7, Lat: 30.3}},
	)

	assert.Equal(t, [][]float64{{-96.8, 32.8}, {-112.1, 33.4}, {-97.7, 30.3}}, q.Locations)
	assert.Equal(t, []int{0}, q.Sources)
	assert.Equal(t, []int{1, 2}, q.Destinations)
	assert.Equal(t, "m", q.Units)
}

func TestMatrixReplyRow(t *testing.T) {
	m, s := 1609.344, 60.0

	meters, seconds, err := matrixReply{
		Distances: [][]*float64{{&m, nil}},
		Durations: [][]*float64{{&s, nil}},
	}.row(2)
	require.NoError(t, err)

	res, ok := toDistance(meters[0], seconds[0])
	require.True(t, ok)
	assert.InDelta(t, 1, res.Miles, 1e-6)
	assert.InDelta(t, 1.0/60, res.Hours, 1e-9)

	_, ok = toDistance(meters[1], seconds[1])
	assert.False(t, ok)

	_, _, err = matrixReply{}.row(1)
	assert.ErrorContains(t, err, "want 1 source row")

	_, _, err = matrixReply{
		Distances: [][]*float64{{&m}},
		Durations: [][]*float64{{&s}},
	}.row(3)
	assert.ErrorContains(t, err, "want 3 cells per row")
}
