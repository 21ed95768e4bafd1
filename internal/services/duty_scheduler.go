package services

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"
	"trip-planner-service/internal/domain"
)

// eps absorbs float noise when comparing accumulated hours.
const eps = 1e-9

const (
	defaultDriverName    = "Driver"
	defaultCarrierName   = "Carrier"
	defaultVehicleNumber = "V001"
)

// ScheduleRequest carries what the duty-cycle scheduler needs beyond the rules.
type ScheduleRequest struct {
	Plan            domain.TripPlan
	StartDate       time.Time
	PickupLocation  string
	DropoffLocation string
	DriverName      string
	CarrierName     string
	VehicleNumber   string
}

type dutyTask struct {
	hours    float64
	location string
}

// driveEvent is a stop that falls due once cumulative trip driving reaches mark.
type driveEvent struct {
	mark   float64
	task   dutyTask
	isRest bool
}

// ScheduleDutyCycle partitions the plan's drive time into calendar days of
// duty-status segments.
//
// Day 1 opens with a pre-trip inspection at rules.DayStart and handles the
// pickup; the last day closes with dropoff, post-trip inspection and
// paperwork. Later days open with another inspection when a break absorbed by
// the overnight rest left room for it in plan.TotalTripTime; otherwise duty
// starts directly at rules.DayStart. Driving is cut at fuel and rest marks (multiples of the fuel
// range and the break threshold in cumulative driving hours) and at the daily
// driving and on-duty limits. Days continue past plan.DaysNeeded while drive
// time remains. Every log spans midnight to midnight with the remainder off duty.
//
// The schedule is produced whether or not the plan is feasible. The rolling
// cycle window is audited per day and breaches are attached as warnings.
func ScheduleDutyCycle(rules domain.HOSRuleSet, req ScheduleRequest) ([]domain.DailyLog, error) {
	plan := req.Plan
	if math.IsNaN(plan.DriveTime) || math.IsInf(plan.DriveTime, 0) || plan.DriveTime < 0 {
		return nil, fmt.Errorf("schedule duty cycle: drive time must be a non-negative finite number, got %v", plan.DriveTime)
	}
	if req.StartDate.IsZero() {
		return nil, errors.New("schedule duty cycle: start date must be set")
	}

	events := driveEvents(rules, plan)

	pending := []dutyTask{{rules.PickupDuration, "Pickup: " + req.PickupLocation}}
	finals := []dutyTask{
		{rules.DropoffDuration, "Dropoff: " + req.DropoffLocation},
		{rules.PostTrip, "Post-trip inspection"},
		{rules.Paperwork, "Paperwork"},
	}
	finalsQueued := false

	remaining := plan.DriveTime
	driven := 0.0
	// slack is on-duty time the estimate charged but the schedule has not
	// spent. Later days get a pre-trip inspection only out of slack, so the
	// schedule never exceeds plan.TotalTripTime.
	slack := 0.0
	preTrip := dutyTask{rules.PreTrip, "Pre-trip inspection"}

	y, m, d := req.StartDate.Date()
	firstDay := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	logs := make([]domain.DailyLog, 0, plan.DaysNeeded)

	for dayIndex := 1; ; dayIndex++ {
		day := newDutyDay(rules, firstDay.AddDate(0, 0, dayIndex-1))

		// A break that fell due as the previous day closed is covered by the
		// overnight rest. Its time becomes slack.
		for len(events) > 0 && events[0].isRest && events[0].mark <= driven+eps && dayIndex > 1 {
			slack += events[0].task.hours
			events = events[1:]
		}

		day.offDutyUntil(rules.DayStart)
		switch {
		case dayIndex == 1:
			day.work(preTrip)
		case slack+eps >= rules.PreTrip:
			day.work(preTrip)
			slack -= rules.PreTrip
		}
		progressed := false

	dayLoop:
		for {
			for len(pending) > 0 {
				if !day.fits(pending[0].hours) {
					break dayLoop
				}
				day.work(pending[0])
				pending = pending[1:]
				progressed = true
			}

			if remaining <= eps {
				if finalsQueued {
					break
				}
				pending = append(pending, finals...)
				finalsQueued = true
				continue
			}

			if len(events) > 0 && events[0].mark <= driven+eps {
				if !day.fits(events[0].task.hours) {
					break
				}
				day.work(events[0].task)
				events = events[1:]
				progressed = true
				continue
			}

			chunk := math.Min(remaining, day.driveLeft())
			if len(events) > 0 {
				chunk = math.Min(chunk, events[0].mark-driven)
			}
			if chunk <= eps {
				break
			}
			day.drive(chunk)
			driven += chunk
			remaining -= chunk
			progressed = true
		}

		day.offDutyUntil(24)

		if n := len(logs); n > 0 {
			if err := checkRestBetween(rules, logs[n-1], day); err != nil {
				return nil, fmt.Errorf("schedule duty cycle: day %d: %w", dayIndex, err)
			}
		}

		logs = append(logs, domain.DailyLog{
			Date:          day.date,
			DayIndex:      dayIndex,
			DriverName:    withDefault(req.DriverName, defaultDriverName),
			CarrierName:   withDefault(req.CarrierName, defaultCarrierName),
			VehicleNumber: withDefault(req.VehicleNumber, defaultVehicleNumber),
			TotalMiles:    domain.Round2(day.driven * rules.AverageSpeedMPH),
			Segments:      day.segments,
		})

		if remaining <= eps && finalsQueued && len(pending) == 0 {
			break
		}
		if !progressed {
			return nil, fmt.Errorf("schedule duty cycle: day %d: no duty time left after the pre-trip inspection", dayIndex)
		}
	}

	AuditCycle(rules, plan.CycleUsedHours, logs)

	return logs, nil
}

// driveEvents lays out fuel and rest stops by cumulative driving hours.
// Ties put the fuel stop first.
func driveEvents(rules domain.HOSRuleSet, plan domain.TripPlan) []driveEvent {
	fuelEvery := rules.FuelStopIntervalMiles / rules.AverageSpeedMPH

	events := make([]driveEvent, 0, plan.FuelStops+plan.RestStops)
	for k := 1; k <= plan.FuelStops; k++ {
		events = append(events, driveEvent{
			mark: float64(k) * fuelEvery,
			task: dutyTask{rules.FuelStopDuration, fmt.Sprintf("Fuel Stop %d", k)},
		})
	}
	for k := 1; k <= plan.RestStops; k++ {
		events = append(events, driveEvent{
			mark:   float64(k) * rules.MaxDrivingBeforeBreak,
			task:   dutyTask{rules.MandatoryBreak, fmt.Sprintf("Rest Stop %d", k)},
			isRest: true,
		})
	}

	slices.SortStableFunc(events, func(a, b driveEvent) int {
		switch {
		case a.mark < b.mark:
			return -1
		case a.mark > b.mark:
			return 1
		case !a.isRest && b.isRest:
			return -1
		case a.isRest && !b.isRest:
			return 1
		}
		return 0
	})

	return events
}

// checkRestBetween verifies the off-duty gap between two consecutive duty periods.
func checkRestBetween(rules domain.HOSRuleSet, prev domain.DailyLog, cur *dutyDay) error {
	lastEnd, ok := lastOnDutyEnd(prev.Segments)
	if !ok {
		return nil
	}
	firstStart, ok := firstOnDutyStart(cur.segments)
	if !ok {
		return nil
	}
	gap := firstStart.Sub(lastEnd).Hours()
	if gap+eps < rules.MinOffDuty {
		return fmt.Errorf("only %.2fh off duty before the duty period, need %vh", gap, rules.MinOffDuty)
	}
	return nil
}

func lastOnDutyEnd(segs []domain.DutySegment) (time.Time, bool) {
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i].Status.OnDuty() {
			return segs[i].End, true
		}
	}
	return time.Time{}, false
}

func firstOnDutyStart(segs []domain.DutySegment) (time.Time, bool) {
	for _, s := range segs {
		if s.Status.OnDuty() {
			return s.Start, true
		}
	}
	return time.Time{}, false
}

func withDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// dutyDay tracks the clock and the running duty totals of the day being built.
type dutyDay struct {
	rules    domain.HOSRuleSet
	date     time.Time
	clock    float64
	onDuty   float64
	driven   float64
	segments []domain.DutySegment
}

func newDutyDay(rules domain.HOSRuleSet, date time.Time) *dutyDay {
	return &dutyDay{rules: rules, date: date}
}

func (d *dutyDay) fits(hours float64) bool {
	return d.onDuty+hours <= d.rules.MaxDailyOnDuty+eps
}

func (d *dutyDay) driveLeft() float64 {
	return math.Min(d.rules.MaxDailyDriving-d.driven, d.rules.MaxDailyOnDuty-d.onDuty)
}

func (d *dutyDay) work(t dutyTask) {
	d.onDuty += t.hours
	d.emit(domain.StatusOnDutyNotDriving, t.hours, t.location)
}

func (d *dutyDay) drive(hours float64) {
	d.onDuty += hours
	d.driven += hours
	d.emit(domain.StatusDriving, hours, "Driving")
}

func (d *dutyDay) offDutyUntil(clock float64) {
	d.emit(domain.StatusOffDuty, clock-d.clock, "Off duty")
}

// emit appends a segment starting at the current clock. Consecutive segments
// of the same status and location are merged. Timestamps are whole seconds;
// a segment that rounds to zero length advances the clock but is not logged.
func (d *dutyDay) emit(status domain.DutyStatus, hours float64, location string) {
	if hours <= eps {
		return
	}
	start, end := d.at(d.clock), d.at(d.clock+hours)
	d.clock += hours

	if !end.After(start) {
		return
	}

	if n := len(d.segments); n > 0 && d.segments[n-1].Status == status && d.segments[n-1].Location == location {
		d.segments[n-1].End = end
		return
	}

	d.segments = append(d.segments, domain.DutySegment{
		Status:   status,
		Start:    start,
		End:      end,
		Location: location,
		Sequence: len(d.segments),
	})
}

func (d *dutyDay) at(clock float64) time.Time {
	return d.date.Add(domain.HoursToDuration(clock))
}
