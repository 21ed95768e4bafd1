package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/logging"
	"trip-planner-service/internal/platform/metrics"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"

	"github.com/google/uuid"
)

const defaultLookupTimeout = 10 * time.Second

// TripPlanner runs a full trip calculation and stores the result.
// Distance and Geocoder are optional; without them distances come from the
// fallback and stops carry no coordinates.
type TripPlanner struct {
	Rules         domain.HOSRuleSet
	Repo          ports.TripRepository
	Distance      ports.DistanceProvider
	Geocoder      ports.Geocoder
	LookupTimeout time.Duration

	// Now and NewID default to the wall clock and random UUIDs.
	Now   func() time.Time
	NewID func() string
}

type PlanTripRequest struct {
	CurrentLocation string
	PickupLocation  string
	DropoffLocation string
	CycleUsedHours  float64
	// DistanceMiles, when set, is used as-is and skips distance lookups.
	DistanceMiles *float64
	// StartDate is the calendar day of duty day 1; zero means today (UTC).
	StartDate     time.Time
	DriverName    string
	CarrierName   string
	VehicleNumber string
}

// PlanTrip validates the request, resolves the distance, estimates the trip,
// sequences its stops, schedules the daily logs and persists the record.
// Infeasible trips are still planned and saved; the summary carries the verdict.
func (p *TripPlanner) PlanTrip(ctx context.Context, req PlanTripRequest) (_ *domain.TripRecord, err error) {
	defer obs.Time(ctx, "trips.PlanTrip")(&err)

	if p.Repo == nil {
		return nil, errors.New("plan trip: repository is nil")
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	newID := uuid.NewString
	if p.NewID != nil {
		newID = p.NewID
	}

	params := domain.TripParameters{
		CurrentLocation: strings.TrimSpace(req.CurrentLocation),
		PickupLocation:  strings.TrimSpace(req.PickupLocation),
		DropoffLocation: strings.TrimSpace(req.DropoffLocation),
		CycleUsedHours:  req.CycleUsedHours,
		StartDate:       req.StartDate,
	}
	if params.StartDate.IsZero() {
		params.StartDate = now().UTC()
	}

	if err := params.ValidateLocations(); err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}
	if err := params.ValidateCycleUsed(p.Rules); err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	source := domain.DistanceFromRequest
	if req.DistanceMiles != nil {
		params.DistanceMiles = *req.DistanceMiles
	} else {
		timeout := p.LookupTimeout
		if timeout <= 0 {
			timeout = defaultLookupTimeout
		}
		est := ResolveTripDistance(ctx, p.Distance, p.Rules, timeout,
			params.CurrentLocation, params.PickupLocation, params.DropoffLocation)
		params.DistanceMiles = est.Miles
		source = est.Source
	}

	plan, err := EstimateTrip(p.Rules, params.CycleUsedHours, params.DistanceMiles)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	stops := SequenceStops(p.Rules, params.CurrentLocation, params.PickupLocation, params.DropoffLocation, plan)

	logs, err := ScheduleDutyCycle(p.Rules, ScheduleRequest{
		Plan:            plan,
		StartDate:       params.StartDate,
		PickupLocation:  params.PickupLocation,
		DropoffLocation: params.DropoffLocation,
		DriverName:      req.DriverName,
		CarrierName:     req.CarrierName,
		VehicleNumber:   req.VehicleNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	stops = EnrichStops(ctx, p.Geocoder, stops)

	trip := &domain.TripRecord{
		ID:              newID(),
		Status:          domain.TripPlanned,
		CreatedAt:       now().UTC().Truncate(time.Microsecond),
		CurrentLocation: params.CurrentLocation,
		PickupLocation:  params.PickupLocation,
		DropoffLocation: params.DropoffLocation,
		CycleUsedHours:  params.CycleUsedHours,
		StartDate:       logs[0].Date,
		DistanceSource:  source,
		Summary:         plan.Summary(),
		Stops:           stops,
		Logs:            logs,
	}

	if err := p.Repo.SaveTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("plan trip: save trip: %w", err)
	}

	metrics.TripsCalculated.WithLabelValues(strconv.FormatBool(plan.Feasible)).Inc()
	metrics.TripDays.Observe(float64(len(logs)))

	logging.LogOperation(logging.FromContext(ctx), "trip_calculated",
		slog.String("trip_id", trip.ID),
		slog.Float64("distance_miles", trip.Summary.TotalDistance),
		slog.String("distance_source", string(source)),
		slog.Int("days_needed", plan.DaysNeeded),
		slog.Int("daily_logs", len(logs)),
		slog.Bool("feasible", plan.Feasible),
		slog.Int("cycle_warnings", len(CycleWarnings(logs))))

	return trip, nil
}
