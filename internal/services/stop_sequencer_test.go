package services

import (
	"testing"
	"trip-planner-service/internal/domain"
)

func TestSequenceStops(t *testing.T) {
	rules := domain.DefaultRules()

	plan, err := EstimateTrip(rules, 0, 2800)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stops := SequenceStops(rules, "Chicago, IL", "Gary, IN", "Los Angeles, CA", plan)

	want := 4 + plan.FuelStops + plan.RestStops
	if len(stops) != want {
		t.Fatalf("expected %d stops, got %d", want, len(stops))
	}

	for i, s := range stops {
		if s.Sequence != i {
			t.Fatalf("stop %d has sequence %d", i, s.Sequence)
		}
		if !s.Type.Valid() {
			t.Fatalf("stop %d has unknown type %q", i, s.Type)
		}
	}

	if stops[0].Type != domain.StopStart || stops[0].Label != "Chicago, IL" || stops[0].DurationMinutes != 0 {
		t.Fatalf("unexpected start stop: %+v", stops[0])
	}
	if stops[1].Type != domain.StopPickup || stops[1].Label != "Gary, IN" || stops[1].DurationMinutes != 60 {
		t.Fatalf("unexpected pickup stop: %+v", stops[1])
	}
	if stops[2].Type != domain.StopFuel || stops[2].Label != "Fuel Stop 1" || stops[2].DurationMinutes != 30 {
		t.Fatalf("unexpected first fuel stop: %+v", stops[2])
	}
	if stops[3].Label != "Fuel Stop 2" {
		t.Fatalf("expected Fuel Stop 2, got %q", stops[3].Label)
	}
	if stops[4].Type != domain.StopRest || stops[4].Label != "Rest Stop 1" || stops[4].DurationMinutes != 30 {
		t.Fatalf("unexpected first rest stop: %+v", stops[4])
	}

	last := len(stops) - 1
	if stops[last-1].Type != domain.StopDropoff || stops[last-1].Label != "Los Angeles, CA" || stops[last-1].DurationMinutes != 60 {
		t.Fatalf("unexpected dropoff stop: %+v", stops[last-1])
	}
	if stops[last].Type != domain.StopEnd || stops[last].Label != "Trip Complete" || stops[last].DurationMinutes != 0 {
		t.Fatalf("unexpected end stop: %+v", stops[last])
	}
}

func TestSequenceStopsShortTrip(t *testing.T) {
	rules := domain.DefaultRules()

	plan, err := EstimateTrip(rules, 0, 120)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stops := SequenceStops(rules, "A", "B", "C", plan)
	if len(stops) != 4 {
		t.Fatalf("expected 4 stops, got %d", len(stops))
	}

	types := []domain.StopType{domain.StopStart, domain.StopPickup, domain.StopDropoff, domain.StopEnd}
	for i, want := range types {
		if stops[i].Type != want {
			t.Fatalf("stop %d: type = %q, want %q", i, stops[i].Type, want)
		}
	}
}
