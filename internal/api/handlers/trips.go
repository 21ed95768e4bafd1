package handlers

import (
	"net/http"
	"strconv"
	"time"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// TripHandler exposes trip calculation and retrieval endpoints.
type TripHandler struct {
	Planner  *services.TripPlanner
	Repo     ports.TripRepository
	validate *validator.Validate
}

func NewTripHandler(planner *services.TripPlanner, repo ports.TripRepository) *TripHandler {
	return &TripHandler{
		Planner:  planner,
		Repo:     repo,
		validate: newValidator(),
	}
}

// Calculate plans a trip from the request body and stores it.
func (h *TripHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req dto.CalculateTripRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	var start time.Time
	if req.StartDate != "" {
		d, err := time.Parse(time.DateOnly, req.StartDate)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "start_date must be a date formatted YYYY-MM-DD")
			return
		}
		start = d
	}

	trip, err := h.Planner.PlanTrip(r.Context(), services.PlanTripRequest{
		CurrentLocation: req.CurrentLocation,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		CycleUsedHours:  *req.CurrentCycleUsed,
		DistanceMiles:   req.DistanceMiles,
		StartDate:       start,
		DriverName:      req.DriverName,
		CarrierName:     req.CarrierName,
		VehicleNumber:   req.VehicleNumber,
	})
	if err != nil {
		writeServiceError(w, r, "calculate trip", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toTripResponse(trip))
}

func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxListLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(maxListLimit))
			return
		}
		limit = n
	}

	trips, err := h.Repo.ListTrips(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, "list trips", err)
		return
	}

	res := dto.ListTripsResponse{Trips: make([]dto.TripHeaderResponse, 0, len(trips))}
	for _, t := range trips {
		res.Trips = append(res.Trips, dto.TripHeaderResponse{
			TripID:          t.ID,
			Status:          string(t.Status),
			CreatedAt:       t.CreatedAt,
			CurrentLocation: t.CurrentLocation,
			PickupLocation:  t.PickupLocation,
			DropoffLocation: t.DropoffLocation,
			Summary:         t.Summary,
			Message:         t.Summary.Message(),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.loadTrip(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, toTripResponse(trip))
}

func (h *TripHandler) Route(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.loadTrip(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, dto.RouteResponse{
		TripID:      trip.ID,
		RoutePoints: toRoutePoints(trip.Stops),
	})
}

func (h *TripHandler) Logs(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.loadTrip(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, dto.LogsResponse{
		TripID:   trip.ID,
		Logs:     toDailyLogs(trip.Logs),
		Warnings: warnings(trip.Logs),
	})
}

func (h *TripHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Repo.UpdateStatus(r.Context(), id, domain.TripStatus(req.Status)); err != nil {
		writeServiceError(w, r, "update trip status", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.StatusResponse{TripID: id, Status: req.Status})
}

func (h *TripHandler) loadTrip(w http.ResponseWriter, r *http.Request) (*domain.TripRecord, bool) {
	trip, err := h.Repo.GetTrip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "get trip", err)
		return nil, false
	}
	return trip, true
}

func toTripResponse(t *domain.TripRecord) dto.TripResponse {
	return dto.TripResponse{
		TripID:          t.ID,
		Status:          string(t.Status),
		CreatedAt:       t.CreatedAt,
		CurrentLocation: t.CurrentLocation,
		PickupLocation:  t.PickupLocation,
		DropoffLocation: t.DropoffLocation,
		CycleUsed:       t.CycleUsedHours,
		StartDate:       t.StartDate.Format(time.DateOnly),
		DistanceSource:  string(t.DistanceSource),
		Summary:         t.Summary,
		Message:         t.Summary.Message(),
		RoutePoints:     toRoutePoints(t.Stops),
		ELDLogsNeeded:   len(t.Logs),
		Logs:            toDailyLogs(t.Logs),
		Warnings:        warnings(t.Logs),
	}
}

func toRoutePoints(stops []domain.RouteStop) []dto.RoutePointResponse {
	out := make([]dto.RoutePointResponse, 0, len(stops))
	for _, s := range stops {
		out = append(out, dto.RoutePointResponse{
			Type:            string(s.Type),
			Label:           s.Label,
			Sequence:        s.Sequence,
			DurationMinutes: s.DurationMinutes,
			Lat:             s.Coordinates.Lat,
			Lon:             s.Coordinates.Lon,
		})
	}
	return out
}

func toDailyLogs(logs []domain.DailyLog) []dto.DailyLogResponse {
	out := make([]dto.DailyLogResponse, 0, len(logs))
	for _, l := range logs {
		segs := make([]dto.DutySegmentResponse, 0, len(l.Segments))
		for _, s := range l.Segments {
			segs = append(segs, dto.DutySegmentResponse{
				Sequence: s.Sequence,
				Status:   string(s.Status),
				Start:    s.Start,
				End:      s.End,
				Location: s.Location,
				Hours:    domain.Round2(s.Hours()),
			})
		}

		out = append(out, dto.DailyLogResponse{
			Date:          l.Date.Format(time.DateOnly),
			DayIndex:      l.DayIndex,
			DriverName:    l.DriverName,
			CarrierName:   l.CarrierName,
			VehicleNumber: l.VehicleNumber,
			TotalMiles:    l.TotalMiles,
			DrivingHours:  domain.Round2(l.DrivingHours()),
			OnDutyHours:   domain.Round2(l.OnDutyHours()),
			OffDutyHours:  domain.Round2(l.OffDutyHours()),
			CycleHours:    l.CycleHours,
			Segments:      segs,
			Warning:       l.Warning,
		})
	}
	return out
}

func warnings(logs []domain.DailyLog) []domain.CycleWarning {
	w := services.CycleWarnings(logs)
	if w == nil {
		return []domain.CycleWarning{}
	}
	return w
}
