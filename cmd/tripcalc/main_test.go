package main

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	ve := &domain.ValidationError{Field: "distance_miles", Reason: "must be at most 20000"}
	assert.Equal(t, 2, exitCode(ve))
	assert.Equal(t, 2, exitCode(fmt.Errorf("plan trip: %w", ve)))
	assert.Equal(t, 1, exitCode(errors.New("database is locked")))
}

func TestRenderNumbersSegmentsPerDay(t *testing.T) {
	planner := &services.TripPlanner{
		Rules: domain.DefaultRules(),
		Repo:  repositories.NewMemoryTripRepository(),
		Now:   func() time.Time { return time.Date(2026, 5, 4, 15, 30, 0, 0, time.UTC) },
		NewID: func() string { return "cli" },
	}
	miles := 850.0
	trip, err := planner.PlanTrip(context.Background(), services.PlanTripRequest{
		CurrentLocation: "Dallas, TX",
		PickupLocation:  "Oklahoma City, OK",
		DropoffLocation: "Denver, CO",
		CycleUsedHours:  25.5,
		DistanceMiles:   &miles,
	})
	require.NoError(t, err)

	out := render(trip)
	require.Len(t, out.Logs, 2)
	for _, l := range out.Logs {
		require.NotEmpty(t, l.Segments)
		for j, s := range l.Segments {
			assert.Equal(t, j, s.Sequence)
		}
		assert.Equal(t, "24:00", l.Segments[len(l.Segments)-1].End)
	}
}
