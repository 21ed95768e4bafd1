package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// TripParameters is the immutable input to a trip calculation.
type TripParameters struct {
	CurrentLocation string
	PickupLocation  string
	DropoffLocation string
	CycleUsedHours  float64
	DistanceMiles   float64
	StartDate       time.Time
}

// Validate checks the numeric inputs against the rule set. Locations are
// checked separately because distance-only callers may omit them.
func (p TripParameters) Validate(rules HOSRuleSet) error {
	if err := p.ValidateCycleUsed(rules); err != nil {
		return err
	}
	if math.IsNaN(p.DistanceMiles) || math.IsInf(p.DistanceMiles, 0) || p.DistanceMiles <= 0 {
		return &ValidationError{
			Field:  "distance_miles",
			Reason: fmt.Sprintf("must be a positive number, got %v", p.DistanceMiles),
		}
	}
	if p.DistanceMiles > rules.MaxTripMiles {
		return &ValidationError{
			Field:  "distance_miles",
			Reason: fmt.Sprintf("must be at most %v, got %v", rules.MaxTripMiles, p.DistanceMiles),
		}
	}
	return nil
}

// ValidateCycleUsed checks the hours already used in the current cycle.
func (p TripParameters) ValidateCycleUsed(rules HOSRuleSet) error {
	if math.IsNaN(p.CycleUsedHours) || p.CycleUsedHours < 0 || p.CycleUsedHours > rules.MaxCycleOnDuty {
		return &ValidationError{
			Field:  "current_cycle_used",
			Reason: fmt.Sprintf("must be between 0 and %v hours, got %v", rules.MaxCycleOnDuty, p.CycleUsedHours),
		}
	}
	return nil
}

// ValidateLocations requires the three trip locations to be non-blank.
func (p TripParameters) ValidateLocations() error {
	fields := []struct {
		name  string
		value string
	}{
		{"current_location", p.CurrentLocation},
		{"pickup_location", p.PickupLocation},
		{"dropoff_location", p.DropoffLocation},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.name, Reason: "must not be empty"}
		}
	}
	return nil
}

// TripPlan holds the estimator's aggregate figures. Values are unrounded;
// use Summary for display.
type TripPlan struct {
	DistanceMiles       float64
	CycleUsedHours      float64
	DriveTime           float64
	FuelStops           int
	RestStops           int
	FuelTime            float64
	RestTime            float64
	StopTime            float64
	AdminOverhead       float64
	TotalTripTime       float64
	DaysNeeded          int
	RemainingCycleHours float64
	Feasible            bool
}

// TripSummary is the reporting view of a TripPlan, rounded to two decimals.
type TripSummary struct {
	TotalDistance       float64 `json:"total_distance"`
	EstimatedDriveTime  float64 `json:"estimated_drive_time"`
	TotalTripTime       float64 `json:"total_trip_time"`
	FuelStops           int     `json:"fuel_stops"`
	RestStops           int     `json:"rest_stops"`
	DaysNeeded          int     `json:"days_needed"`
	Feasible            bool    `json:"feasible"`
	RemainingCycleHours float64 `json:"remaining_cycle_hours"`
}

func (p TripPlan) Summary() TripSummary {
	return TripSummary{
		TotalDistance:       Round2(p.DistanceMiles),
		EstimatedDriveTime:  Round2(p.DriveTime),
		TotalTripTime:       Round2(p.TotalTripTime),
		FuelStops:           p.FuelStops,
		RestStops:           p.RestStops,
		DaysNeeded:          p.DaysNeeded,
		Feasible:            p.Feasible,
		RemainingCycleHours: Round2(p.RemainingCycleHours),
	}
}

// Message is the user-facing outcome line, including the infeasibility warning.
func (s TripSummary) Message() string {
	msg := fmt.Sprintf("Trip calculated successfully. %d days needed.", s.DaysNeeded)
	if s.Feasible {
		return msg + " Trip is feasible with current cycle."
	}
	return msg + " Warning: Trip may exceed current cycle limits."
}
