package services

import "trip-planner-service/internal/domain"

// AuditCycle recomputes the rolling cycle window at the end of every day and
// attaches a CycleWarning to each day whose window exceeds the limit.
//
// Hours used before the trip are attributed to the day before day 1, so they
// leave the window once the trip has run rules.CycleDays-1 days.
func AuditCycle(rules domain.HOSRuleSet, cycleUsedHours float64, logs []domain.DailyLog) {
	for i := range logs {
		window := 0.0
		if i+1 < rules.CycleDays {
			window += cycleUsedHours
		}
		for j := max(0, i-rules.CycleDays+1); j <= i; j++ {
			window += logs[j].OnDutyHours()
		}

		logs[i].CycleHours = domain.Round2(window)
		logs[i].Warning = nil
		// Compare the reported figure: segment times are whole seconds, so the
		// raw sum can sit a fraction of a second above an exactly-full cycle.
		if logs[i].CycleHours > rules.MaxCycleOnDuty {
			logs[i].Warning = &domain.CycleWarning{
				DayIndex:    logs[i].DayIndex,
				Date:        logs[i].Date,
				WindowHours: logs[i].CycleHours,
				Limit:       rules.MaxCycleOnDuty,
			}
		}
	}
}

// CycleWarnings collects the per-day warnings in day order.
func CycleWarnings(logs []domain.DailyLog) []domain.CycleWarning {
	var out []domain.CycleWarning
	for _, l := range logs {
		if l.Warning != nil {
			out = append(out, *l.Warning)
		}
	}
	return out
}
