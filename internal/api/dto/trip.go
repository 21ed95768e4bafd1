package dto

import (
	"time"
	"trip-planner-service/internal/domain"
)

type CalculateTripRequest struct {
	CurrentLocation string `json:"current_location" validate:"required"`
	PickupLocation  string `json:"pickup_location" validate:"required"`
	DropoffLocation string `json:"dropoff_location" validate:"required"`
	// Pointer so that an explicit 0 is distinguishable from a missing field.
	CurrentCycleUsed *float64 `json:"current_cycle_used" validate:"required,gte=0"`
	DistanceMiles    *float64 `json:"distance_miles" validate:"omitempty,gt=0,lte=20000"`
	StartDate        string   `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	DriverName       string   `json:"driver_name" validate:"omitempty,max=100"`
	CarrierName      string   `json:"carrier_name" validate:"omitempty,max=100"`
	VehicleNumber    string   `json:"vehicle_number" validate:"omitempty,max=32"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=planned in_progress completed cancelled"`
}

type RoutePointResponse struct {
	Type            string  `json:"type"`
	Label           string  `json:"label"`
	Sequence        int     `json:"sequence"`
	DurationMinutes int     `json:"duration_minutes"`
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
}

type DutySegmentResponse struct {
	Sequence int       `json:"sequence"`
	Status   string    `json:"status"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Location string    `json:"location"`
	Hours    float64   `json:"hours"`
}

type DailyLogResponse struct {
	Date          string                `json:"date"`
	DayIndex      int                   `json:"day_index"`
	DriverName    string                `json:"driver_name"`
	CarrierName   string                `json:"carrier_name"`
	VehicleNumber string                `json:"vehicle_number"`
	TotalMiles    float64               `json:"total_miles"`
	DrivingHours  float64               `json:"driving_hours"`
	OnDutyHours   float64               `json:"on_duty_hours"`
	OffDutyHours  float64               `json:"off_duty_hours"`
	CycleHours    float64               `json:"cycle_hours"`
	Segments      []DutySegmentResponse `json:"segments"`
	Warning       *domain.CycleWarning  `json:"warning,omitempty"`
}

// TripResponse is the full trip view returned by calculate and get.
type TripResponse struct {
	TripID          string                `json:"trip_id"`
	Status          string                `json:"status"`
	CreatedAt       time.Time             `json:"created_at"`
	CurrentLocation string                `json:"current_location"`
	PickupLocation  string                `json:"pickup_location"`
	DropoffLocation string                `json:"dropoff_location"`
	CycleUsed       float64               `json:"current_cycle_used"`
	StartDate       string                `json:"start_date"`
	DistanceSource  string                `json:"distance_source"`
	Summary         domain.TripSummary    `json:"summary"`
	Message         string                `json:"message"`
	RoutePoints     []RoutePointResponse  `json:"route_points"`
	ELDLogsNeeded   int                   `json:"eld_logs_needed"`
	Logs            []DailyLogResponse    `json:"logs"`
	Warnings        []domain.CycleWarning `json:"warnings"`
}

type TripHeaderResponse struct {
	TripID          string             `json:"trip_id"`
	Status          string             `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
	CurrentLocation string             `json:"current_location"`
	PickupLocation  string             `json:"pickup_location"`
	DropoffLocation string             `json:"dropoff_location"`
	Summary         domain.TripSummary `json:"summary"`
	Message         string             `json:"message"`
}

type ListTripsResponse struct {
	Trips []TripHeaderResponse `json:"trips"`
}

type RouteResponse struct {
	TripID      string               `json:"trip_id"`
	RoutePoints []RoutePointResponse `json:"route_points"`
}

type LogsResponse struct {
	TripID   string                `json:"trip_id"`
	Logs     []DailyLogResponse    `json:"logs"`
	Warnings []domain.CycleWarning `json:"warnings"`
}

type StatusResponse struct {
	TripID string `json:"trip_id"`
	Status string `json:"status"`
}
