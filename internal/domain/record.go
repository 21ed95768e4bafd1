package domain

import "time"

// TripStatus is the lifecycle state of a stored trip.
type TripStatus string

const (
	TripPlanned    TripStatus = "planned"
	TripInProgress TripStatus = "in_progress"
	TripCompleted  TripStatus = "completed"
	TripCancelled  TripStatus = "cancelled"
)

func (s TripStatus) Valid() bool {
	switch s {
	case TripPlanned, TripInProgress, TripCompleted, TripCancelled:
		return true
	}
	return false
}

// DistanceSource records where the trip distance came from.
type DistanceSource string

const (
	DistanceFromRequest  DistanceSource = "request"
	DistanceFromProvider DistanceSource = "provider"
	DistanceFromFallback DistanceSource = "fallback"
)

// TripRecord is the persisted aggregate for one calculated trip.
type TripRecord struct {
	ID              string
	Status          TripStatus
	CreatedAt       time.Time
	CurrentLocation string
	PickupLocation  string
	DropoffLocation string
	CycleUsedHours  float64
	StartDate       time.Time
	DistanceSource  DistanceSource
	Summary         TripSummary
	Stops           []RouteStop
	Logs            []DailyLog
}
