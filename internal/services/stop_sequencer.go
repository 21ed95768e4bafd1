package services

import (
	"fmt"
	"math"
	"trip-planner-service/internal/domain"
)

const tripCompleteLabel = "Trip Complete"

// SequenceStops expands the plan's stop counts into the ordered stop list:
// start, pickup, fuel stops, rest stops, dropoff, end.
// Coordinates are left zero for a later enrichment step.
func SequenceStops(rules domain.HOSRuleSet, origin, pickup, dropoff string, plan domain.TripPlan) []domain.RouteStop {
	stops := make([]domain.RouteStop, 0, 4+plan.FuelStops+plan.RestStops)

	add := func(t domain.StopType, label string, hours float64) {
		stops = append(stops, domain.RouteStop{
			Type:            t,
			Label:           label,
			Sequence:        len(stops),
			DurationMinutes: hoursToMinutes(hours),
		})
	}

	add(domain.StopStart, origin, 0)
	add(domain.StopPickup, pickup, rules.PickupDuration)
	for i := 1; i <= plan.FuelStops; i++ {
		add(domain.StopFuel, fmt.Sprintf("Fuel Stop %d", i), rules.FuelStopDuration)
	}
	for i := 1; i <= plan.RestStops; i++ {
		add(domain.StopRest, fmt.Sprintf("Rest Stop %d", i), rules.MandatoryBreak)
	}
	add(domain.StopDropoff, dropoff, rules.DropoffDuration)
	add(domain.StopEnd, tripCompleteLabel, 0)

	return stops
}

func hoursToMinutes(h float64) int {
	return int(math.Round(h * 60))
}
