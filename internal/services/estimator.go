package services

import (
	"fmt"
	"math"
	"trip-planner-service/internal/domain"
)

// EstimateTrip converts a distance and the driver's used cycle hours into the
// aggregate trip figures and a feasibility verdict.
//
// Stop counts use "segments minus one": a trip that fits in one tank or one
// uninterrupted driving block needs no stop. Within the rule set's
// max_trip_miles an oversized trip is reported infeasible, not rejected.
func EstimateTrip(rules domain.HOSRuleSet, cycleUsedHours float64, distanceMiles float64) (domain.TripPlan, error) {
	params := domain.TripParameters{CycleUsedHours: cycleUsedHours, DistanceMiles: distanceMiles}
	if err := params.Validate(rules); err != nil {
		return domain.TripPlan{}, fmt.Errorf("estimate trip: %w", err)
	}

	driveTime := distanceMiles / rules.AverageSpeedMPH

	fuelStops := segmentsMinusOne(distanceMiles, rules.FuelStopIntervalMiles)
	restStops := segmentsMinusOne(driveTime, rules.MaxDrivingBeforeBreak)

	fuelTime := float64(fuelStops) * rules.FuelStopDuration
	restTime := float64(restStops) * rules.MandatoryBreak
	stopTime := rules.PickupDuration + rules.DropoffDuration
	admin := rules.AdminOverhead()

	total := driveTime + fuelTime + stopTime + restTime + admin
	remaining := rules.MaxCycleOnDuty - cycleUsedHours

	return domain.TripPlan{
		DistanceMiles:       distanceMiles,
		CycleUsedHours:      cycleUsedHours,
		DriveTime:           driveTime,
		FuelStops:           fuelStops,
		RestStops:           restStops,
		FuelTime:            fuelTime,
		RestTime:            restTime,
		StopTime:            stopTime,
		AdminOverhead:       admin,
		TotalTripTime:       total,
		DaysNeeded:          ceilCount(total / rules.MaxDailyOnDuty),
		RemainingCycleHours: remaining,
		Feasible:            remaining >= total,
	}, nil
}

// maxCount is where derived counts saturate.
const maxCount = math.MaxInt32

func segmentsMinusOne(amount, interval float64) int {
	return max(0, ceilCount(amount/interval)-1)
}

// ceilCount rounds v up to an int, clamped to [0, maxCount].
func ceilCount(v float64) int {
	c := math.Ceil(v)
	switch {
	case math.IsNaN(c) || c <= 0:
		return 0
	case c >= maxCount:
		return maxCount
	}
	return int(c)
}
