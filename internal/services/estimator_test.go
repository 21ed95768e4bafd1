package services

import (
	"math"
	"testing"
	"trip-planner-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateTripScenarios(t *testing.T) {
	rules := domain.DefaultRules()

	t.Run("850 miles with 25.5h used", func(t *testing.T) {
		plan, err := EstimateTrip(rules, 25.5, 850)
		require.NoError(t, err)

		s := plan.Summary()
		assert.Equal(t, 15.45, s.EstimatedDriveTime)
		assert.Equal(t, 0, s.FuelStops)
		assert.Equal(t, 1, s.RestStops)
		assert.Equal(t, 19.2, s.TotalTripTime)
		assert.Equal(t, 2, s.DaysNeeded)
		assert.Equal(t, 44.5, s.RemainingCycleHours)
		assert.True(t, s.Feasible)
		assert.Equal(t, 850.0, s.TotalDistance)

		// Unrounded values stay in the plan.
		assert.InDelta(t, 850.0/55, plan.DriveTime, 1e-12)
	})

	t.Run("2800 miles with 60h used", func(t *testing.T) {
		plan, err := EstimateTrip(rules, 60, 2800)
		require.NoError(t, err)

		s := plan.Summary()
		assert.Equal(t, 50.91, s.EstimatedDriveTime)
		assert.Equal(t, 2, s.FuelStops)
		assert.Equal(t, 6, s.RestStops)
		assert.Equal(t, 10.0, s.RemainingCycleHours)
		assert.False(t, s.Feasible)
		assert.Equal(t, 5, s.DaysNeeded)
	})
}

func TestEstimateTripStopCounts(t *testing.T) {
	rules := domain.DefaultRules()

	tests := []struct {
		miles     float64
		wantFuel  int
		wantRests int
	}{
		{1, 0, 0},
		{440, 0, 0}, // exactly 8h of driving
		{441, 0, 1},
		{850, 0, 1},
		{1000, 0, 2},
		{1001, 1, 2},
		{1500, 1, 3},
		{2000, 1, 4},
		{2800, 2, 6},
		{10000, 9, 22},
	}

	for _, tt := range tests {
		plan, err := EstimateTrip(rules, 0, tt.miles)
		require.NoError(t, err)

		assert.Equal(t, tt.wantFuel, plan.FuelStops, "fuel stops for %v mi", tt.miles)
		assert.Equal(t, tt.wantRests, plan.RestStops, "rest stops for %v mi", tt.miles)

		wantFuel := max(0, int(math.Ceil(tt.miles/1000))-1)
		wantRest := max(0, int(math.Ceil(plan.DriveTime/8))-1)
		assert.Equal(t, wantFuel, plan.FuelStops)
		assert.Equal(t, wantRest, plan.RestStops)
	}
}

func TestEstimateTripFeasibility(t *testing.T) {
	rules := domain.DefaultRules()

	for _, used := range []float64{0, 10, 25.5, 50.8, 50.9, 60, 70} {
		plan, err := EstimateTrip(rules, used, 850)
		require.NoError(t, err)
		assert.Equal(t, (70-used) >= plan.TotalTripTime, plan.Feasible, "cycle used %v", used)
		assert.InDelta(t, 70-used, plan.RemainingCycleHours, 1e-12)
	}

	plan, err := EstimateTrip(rules, 70, 850)
	require.NoError(t, err)
	assert.False(t, plan.Feasible)
	assert.Zero(t, plan.RemainingCycleHours)
}

func TestEstimateTripRejectsInvalidInput(t *testing.T) {
	rules := domain.DefaultRules()

	_, err := EstimateTrip(rules, 10, 0)
	assert.True(t, domain.IsValidationError(err))

	_, err = EstimateTrip(rules, 71, 100)
	assert.True(t, domain.IsValidationError(err))

	_, err = EstimateTrip(rules, -1, 100)
	assert.True(t, domain.IsValidationError(err))

	_, err = EstimateTrip(rules, 10, 1e300)
	var ve *domain.ValidationError
	if assert.ErrorAs(t, err, &ve) {
		assert.Equal(t, "distance_miles", ve.Field)
	}
}

func TestStopCountsSaturate(t *testing.T) {
	assert.Equal(t, maxCount-1, segmentsMinusOne(1e300, 1000))
	assert.Equal(t, maxCount-1, segmentsMinusOne(math.Inf(1), 8))
	assert.Equal(t, 0, segmentsMinusOne(math.NaN(), 8))
	assert.Equal(t, 0, segmentsMinusOne(999, 1000))
	assert.Equal(t, 1, segmentsMinusOne(1001, 1000))

	assert.Equal(t, maxCount, ceilCount(1e300))
	assert.Equal(t, 0, ceilCount(-3))
	assert.Equal(t, 2, ceilCount(1.2))
}
