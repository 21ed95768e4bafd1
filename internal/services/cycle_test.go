package services

import (
	"testing"
	"time"
	"trip-planner-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onDutyLog(day int, hours float64) domain.DailyLog {
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day-1)
	start := date.Add(6 * time.Hour)
	return domain.DailyLog{
		Date:     date,
		DayIndex: day,
		Segments: []domain.DutySegment{
			{Status: domain.StatusOffDuty, Start: date, End: start, Location: "Off duty"},
			{Status: domain.StatusDriving, Start: start, End: start.Add(domain.HoursToDuration(hours)), Location: "Driving", Sequence: 1},
		},
	}
}

func TestAuditCycleRollingWindow(t *testing.T) {
	rules := domain.DefaultRules()

	logs := make([]domain.DailyLog, 9)
	for i := range logs {
		logs[i] = onDutyLog(i+1, 5)
	}

	AuditCycle(rules, 60, logs)

	wantHours := []float64{65, 70, 75, 80, 85, 90, 95, 40, 40}
	for i, l := range logs {
		assert.Equal(t, wantHours[i], l.CycleHours, "day %d", l.DayIndex)
	}

	// Exactly at the limit is allowed.
	assert.Nil(t, logs[1].Warning)

	warnings := CycleWarnings(logs)
	require.Len(t, warnings, 5)
	assert.Equal(t, 3, warnings[0].DayIndex)
	assert.Equal(t, 75.0, warnings[0].WindowHours)
	assert.Equal(t, 70.0, warnings[0].Limit)
	assert.Equal(t, 7, warnings[4].DayIndex)
}

func TestAuditCycleClearsStaleWarnings(t *testing.T) {
	rules := domain.DefaultRules()

	logs := []domain.DailyLog{onDutyLog(1, 12)}
	AuditCycle(rules, 65, logs)
	require.NotNil(t, logs[0].Warning)

	AuditCycle(rules, 0, logs)
	assert.Nil(t, logs[0].Warning)
	assert.Empty(t, CycleWarnings(logs))
}

func TestAuditCycleShortWindow(t *testing.T) {
	rules := domain.DefaultRules()
	rules.CycleDays = 1

	logs := []domain.DailyLog{onDutyLog(1, 10), onDutyLog(2, 10)}
	AuditCycle(rules, 69, logs)

	// With a one-day window prior usage never counts.
	assert.Equal(t, 10.0, logs[0].CycleHours)
	assert.Equal(t, 10.0, logs[1].CycleHours)
	assert.Empty(t, CycleWarnings(logs))
}
