package domain

import (
	"fmt"
	"math"
	"time"
)

// HOSRuleSet holds the Hours-of-Service limits and trip assumptions used by the
// estimator and the scheduler. All durations are in hours.
//
// A rule set is loaded once per deployment and passed by value; nothing mutates
// it after Validate succeeds.
type HOSRuleSet struct {
	MaxDailyDriving       float64 `yaml:"max_daily_driving"`
	MaxDailyOnDuty        float64 `yaml:"max_daily_on_duty"`
	MaxCycleOnDuty        float64 `yaml:"max_cycle_on_duty"`
	CycleDays             int     `yaml:"cycle_days"`
	MinOffDuty            float64 `yaml:"min_off_duty"`
	MaxDrivingBeforeBreak float64 `yaml:"max_driving_before_break"`
	MandatoryBreak        float64 `yaml:"mandatory_break"`

	FuelStopIntervalMiles float64 `yaml:"fuel_stop_interval_miles"`
	FuelStopDuration      float64 `yaml:"fuel_stop_duration"`
	AverageSpeedMPH       float64 `yaml:"average_speed_mph"`
	PickupDuration        float64 `yaml:"pickup_duration"`
	DropoffDuration       float64 `yaml:"dropoff_duration"`

	PreTrip   float64 `yaml:"pre_trip"`
	PostTrip  float64 `yaml:"post_trip"`
	Paperwork float64 `yaml:"paperwork"`

	// DayStart is the clock time (hours after midnight) at which each duty day begins.
	DayStart float64 `yaml:"day_start"`

	// MaxTripMiles bounds the distance a single request may plan.
	MaxTripMiles float64 `yaml:"max_trip_miles"`
}

// tripMilesCeiling keeps every derived stop and day count far inside int range.
const tripMilesCeiling = 1_000_000

// DefaultRules returns the property-carrying 70-hour/8-day rule set.
func DefaultRules() HOSRuleSet {
	return HOSRuleSet{
		MaxDailyDriving:       11,
		MaxDailyOnDuty:        14,
		MaxCycleOnDuty:        70,
		CycleDays:             8,
		MinOffDuty:            10,
		MaxDrivingBeforeBreak: 8,
		MandatoryBreak:        0.5,
		FuelStopIntervalMiles: 1000,
		FuelStopDuration:      0.5,
		AverageSpeedMPH:       55,
		PickupDuration:        1,
		DropoffDuration:       1,
		PreTrip:               0.5,
		PostTrip:              0.5,
		Paperwork:             0.25,
		DayStart:              6,
		MaxTripMiles:          20000,
	}
}

// AdminOverhead is the fixed administrative time charged once per trip.
func (r HOSRuleSet) AdminOverhead() float64 {
	return r.PreTrip + r.PostTrip + r.Paperwork
}

// Validate rejects rule sets that would make the estimator divide by zero or
// the scheduler unable to make progress.
func (r HOSRuleSet) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"max_daily_driving", r.MaxDailyDriving},
		{"max_daily_on_duty", r.MaxDailyOnDuty},
		{"max_cycle_on_duty", r.MaxCycleOnDuty},
		{"min_off_duty", r.MinOffDuty},
		{"max_driving_before_break", r.MaxDrivingBeforeBreak},
		{"fuel_stop_interval_miles", r.FuelStopIntervalMiles},
		{"average_speed_mph", r.AverageSpeedMPH},
		{"max_trip_miles", r.MaxTripMiles},
	}
	for _, p := range positive {
		if !(p.v > 0) || math.IsInf(p.v, 0) {
			return fmt.Errorf("%w: %s must be a positive finite number, got %v", ErrInvalidRuleSet, p.name, p.v)
		}
	}

	nonNegative := []struct {
		name string
		v    float64
	}{
		{"mandatory_break", r.MandatoryBreak},
		{"fuel_stop_duration", r.FuelStopDuration},
		{"pickup_duration", r.PickupDuration},
		{"dropoff_duration", r.DropoffDuration},
		{"pre_trip", r.PreTrip},
		{"post_trip", r.PostTrip},
		{"paperwork", r.Paperwork},
		{"day_start", r.DayStart},
	}
	for _, n := range nonNegative {
		if n.v < 0 || math.IsNaN(n.v) || math.IsInf(n.v, 0) {
			return fmt.Errorf("%w: %s must be a non-negative finite number, got %v", ErrInvalidRuleSet, n.name, n.v)
		}
	}

	if r.MaxTripMiles > tripMilesCeiling {
		return fmt.Errorf("%w: max_trip_miles must not exceed %d, got %v", ErrInvalidRuleSet, tripMilesCeiling, r.MaxTripMiles)
	}
	if r.CycleDays < 1 {
		return fmt.Errorf("%w: cycle_days must be at least 1, got %d", ErrInvalidRuleSet, r.CycleDays)
	}
	if r.MaxDailyDriving > r.MaxDailyOnDuty {
		return fmt.Errorf("%w: max_daily_driving (%v) exceeds max_daily_on_duty (%v)", ErrInvalidRuleSet, r.MaxDailyDriving, r.MaxDailyOnDuty)
	}
	if r.MaxDailyOnDuty+r.MinOffDuty > 24 {
		return fmt.Errorf("%w: max_daily_on_duty + min_off_duty must fit in 24h", ErrInvalidRuleSet)
	}
	if r.DayStart+r.MaxDailyOnDuty > 24 {
		return fmt.Errorf("%w: duty window starting at %vh overruns midnight", ErrInvalidRuleSet, r.DayStart)
	}

	// The largest indivisible task scheduled after the pre-trip inspection must
	// still leave room in a fresh duty day.
	largest := math.Max(r.PickupDuration, math.Max(r.DropoffDuration, r.FuelStopDuration))
	largest = math.Max(largest, math.Max(r.PostTrip, math.Max(r.Paperwork, r.MandatoryBreak)))
	if r.PreTrip+largest >= r.MaxDailyOnDuty {
		return fmt.Errorf("%w: pre_trip plus a %vh stop leaves no duty time for driving", ErrInvalidRuleSet, largest)
	}

	return nil
}

// HoursToDuration converts fractional hours to a duration rounded to the second.
func HoursToDuration(h float64) time.Duration {
	return time.Duration(math.Round(h*3600)) * time.Second
}
