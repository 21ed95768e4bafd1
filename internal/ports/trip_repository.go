package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// Port: a boundary for storing and retrieving calculated trips.
type TripRepository interface {
	// Persist a trip with its stops and daily logs in one unit of work.
	SaveTrip(ctx context.Context, trip *domain.TripRecord) error
	// Load a trip with stops and logs. Returns domain.ErrTripNotFound when absent.
	GetTrip(ctx context.Context, id string) (*domain.TripRecord, error)
	// List trip headers, newest first. Stops and logs are not loaded.
	ListTrips(ctx context.Context, limit int) ([]*domain.TripRecord, error)
	UpdateStatus(ctx context.Context, id string, status domain.TripStatus) error
}
