package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRulesAreValid(t *testing.T) {
	rules := DefaultRules()
	require.NoError(t, rules.Validate())
	assert.InDelta(t, 1.25, rules.AdminOverhead(), 1e-9)
}

func TestRuleSetValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *HOSRuleSet)
	}{
		{"zero average speed", func(r *HOSRuleSet) { r.AverageSpeedMPH = 0 }},
		{"NaN average speed", func(r *HOSRuleSet) { r.AverageSpeedMPH = math.NaN() }},
		{"zero fuel interval", func(r *HOSRuleSet) { r.FuelStopIntervalMiles = 0 }},
		{"zero break threshold", func(r *HOSRuleSet) { r.MaxDrivingBeforeBreak = 0 }},
		{"negative pickup", func(r *HOSRuleSet) { r.PickupDuration = -1 }},
		{"driving above on-duty", func(r *HOSRuleSet) { r.MaxDailyDriving = 15 }},
		{"rest does not fit the day", func(r *HOSRuleSet) { r.MinOffDuty = 11 }},
		{"duty window crosses midnight", func(r *HOSRuleSet) { r.DayStart = 12 }},
		{"no cycle days", func(r *HOSRuleSet) { r.CycleDays = 0 }},
		{"zero trip limit", func(r *HOSRuleSet) { r.MaxTripMiles = 0 }},
		{"trip limit above ceiling", func(r *HOSRuleSet) { r.MaxTripMiles = 1e12 }},
		{"stop longer than the duty day", func(r *HOSRuleSet) { r.DropoffDuration = 14 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := DefaultRules()
			tt.mutate(&rules)
			err := rules.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRuleSet)
		})
	}
}

func TestHoursToDuration(t *testing.T) {
	assert.Equal(t, "15h27m16s", HoursToDuration(850.0/55).String())
	assert.Equal(t, "30m0s", HoursToDuration(0.5).String())
}
