package domain

import (
	"fmt"
	"time"
)

// DutyStatus is an ELD duty status.
type DutyStatus string

const (
	StatusOffDuty          DutyStatus = "off_duty"
	StatusSleeper          DutyStatus = "sleeper"
	StatusDriving          DutyStatus = "driving"
	StatusOnDutyNotDriving DutyStatus = "on_duty_not_driving"
)

// Valid reports whether s is one of the four ELD statuses.
func (s DutyStatus) Valid() bool {
	switch s {
	case StatusOffDuty, StatusSleeper, StatusDriving, StatusOnDutyNotDriving:
		return true
	}
	return false
}

// OnDuty reports whether time in this status counts against duty limits.
func (s DutyStatus) OnDuty() bool {
	return s == StatusDriving || s == StatusOnDutyNotDriving
}

// DutySegment is one contiguous status interval within a day. End is always after Start.
type DutySegment struct {
	Status   DutyStatus
	Start    time.Time
	End      time.Time
	Location string
	Sequence int
}

func (s DutySegment) Hours() float64 {
	return s.End.Sub(s.Start).Hours()
}

// CycleWarning marks a generated day on which the rolling cycle window
// exceeds its on-duty limit. It is data, not an error.
type CycleWarning struct {
	DayIndex    int       `json:"day_index"`
	Date        time.Time `json:"date"`
	WindowHours float64   `json:"window_hours"`
	Limit       float64   `json:"limit"`
}

func (w CycleWarning) String() string {
	return fmt.Sprintf(
		"day %d (%s): %.2fh on duty in the rolling window exceeds the %.0fh limit",
		w.DayIndex, w.Date.Format(time.DateOnly), w.WindowHours, w.Limit,
	)
}

// DailyLog is the ELD record for one calendar day of the trip.
type DailyLog struct {
	Date          time.Time
	DayIndex      int
	DriverName    string
	CarrierName   string
	VehicleNumber string
	TotalMiles    float64
	Segments      []DutySegment
	// CycleHours is the rolling-window on-duty total at the end of the day.
	CycleHours float64
	Warning    *CycleWarning
}

func (l DailyLog) DrivingHours() float64 {
	return l.sumHours(func(s DutyStatus) bool { return s == StatusDriving })
}

// OnDutyHours sums driving and on-duty-not-driving time.
func (l DailyLog) OnDutyHours() float64 {
	return l.sumHours(DutyStatus.OnDuty)
}

func (l DailyLog) OffDutyHours() float64 {
	return l.sumHours(func(s DutyStatus) bool { return !s.OnDuty() })
}

func (l DailyLog) sumHours(match func(DutyStatus) bool) float64 {
	total := 0.0
	for _, s := range l.Segments {
		if match(s.Status) {
			total += s.Hours()
		}
	}
	return total
}
