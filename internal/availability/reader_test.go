package availability

import (
	"errors"
	"math"
	"testing"

	"github.com/Freeeeeet/agenda/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slotTimes(slots []model.TimeSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Time)
	}
	return out
}

func morningRule() *model.WeeklyScheduleRule {
	return &model.WeeklyScheduleRule{ID: 1, Weekday: 2, StartTime: "08:00", EndTime: "12:00", SlotIntervalMinutes: 30}
}

func TestGenerateCandidateSlots_Morning(t *testing.T) {
	slots, closing, err := GenerateCandidateSlots(morningRule())
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"08:00", "08:30", "09:00", "09:30", "10:00", "10:30", "11:00", "11:30"},
		slotTimes(slots))
	assert.Equal(t, 720, closing)
	for _, s := range slots {
		assert.False(t, s.Occupied)
		assert.False(t, s.Unavailable)
	}
}

func TestGenerateCandidateSlots_StrictlyIncreasingBelowEnd(t *testing.T) {
	rules := []model.WeeklyScheduleRule{
		{StartTime: "08:00", EndTime: "12:10", SlotIntervalMinutes: 30},
		{StartTime: "09:00", EndTime: "09:01", SlotIntervalMinutes: 45},
		{StartTime: "00:00", EndTime: "24:00", SlotIntervalMinutes: 7},
		{StartTime: "13:15:00", EndTime: "18:00:00", SlotIntervalMinutes: 20},
	}
	for _, rule := range rules {
		rule := rule
		slots, closing, err := GenerateCandidateSlots(&rule)
		require.NoError(t, err)
		require.NotEmpty(t, slots)

		end, _ := ParseClock(rule.EndTime)
		for i, s := range slots {
			assert.Less(t, s.Minute, end)
			if i > 0 {
				assert.Equal(t, rule.SlotIntervalMinutes, s.Minute-slots[i-1].Minute)
			}
		}
		assert.Equal(t, slots[len(slots)-1].Minute+rule.SlotIntervalMinutes, closing)
	}
}

func TestGenerateCandidateSlots_ClosingFromSpacing(t *testing.T) {
	// последний слот 12:00, граница 12:30 - позже номинального конца
	rule := &model.WeeklyScheduleRule{StartTime: "08:00", EndTime: "12:10", SlotIntervalMinutes: 30}
	slots, closing, err := GenerateCandidateSlots(rule)
	require.NoError(t, err)
	assert.Equal(t, "12:00", slots[len(slots)-1].Time)
	assert.Equal(t, 750, closing)
}

func TestGenerateCandidateSlots_NoRule(t *testing.T) {
	slots, closing, err := GenerateCandidateSlots(nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.Zero(t, closing)
}

func TestGenerateCandidateSlots_Invalid(t *testing.T) {
	rules := []*model.WeeklyScheduleRule{
		{ID: 7, Weekday: 1, StartTime: "12:00", EndTime: "08:00", SlotIntervalMinutes: 30},
		{ID: 8, Weekday: 1, StartTime: "08:00", EndTime: "08:00", SlotIntervalMinutes: 30},
		{ID: 9, Weekday: 1, StartTime: "08:00", EndTime: "12:00", SlotIntervalMinutes: 0},
		{ID: 10, Weekday: 1, StartTime: "08:00", EndTime: "12:00", SlotIntervalMinutes: -15},
		{ID: 11, Weekday: 9, StartTime: "08:00", EndTime: "12:00", SlotIntervalMinutes: 30},
		{ID: 12, Weekday: 1, StartTime: "oito", EndTime: "12:00", SlotIntervalMinutes: 30},
		{ID: 13, Weekday: 1, StartTime: "08:00", EndTime: "12:00", SlotIntervalMinutes: MinutesPerDay + 1},
		{ID: 14, Weekday: 1, StartTime: "08:00", EndTime: "12:00", SlotIntervalMinutes: math.MaxInt - 100},
	}
	for _, rule := range rules {
		_, _, err := GenerateCandidateSlots(rule)
		var invalid *InvalidScheduleError
		require.True(t, errors.As(err, &invalid), "rule %d", rule.ID)
		assert.Equal(t, rule.ID, invalid.RuleID)
		assert.Equal(t, rule.Weekday, invalid.Weekday)
	}
}

func TestGenerateCandidateSlots_WholeDayInterval(t *testing.T) {
	rule := &model.WeeklyScheduleRule{Weekday: 1, StartTime: "08:00", EndTime: "12:00", SlotIntervalMinutes: MinutesPerDay}
	slots, closing, err := GenerateCandidateSlots(rule)
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00"}, slotTimes(slots))
	assert.Equal(t, 480+MinutesPerDay, closing)
}

func TestInferClosingBoundary(t *testing.T) {
	assert.Zero(t, InferClosingBoundary(nil))
	assert.Equal(t, 630, InferClosingBoundary([]model.TimeSlot{{Minute: 600}}))
	assert.Equal(t, 720, InferClosingBoundary([]model.TimeSlot{{Minute: 600}, {Minute: 640}, {Minute: 680}}))
	assert.Equal(t, 630, InferClosingBoundary([]model.TimeSlot{{Minute: 600}, {Minute: 600}}))
}

func TestRuleForWeekday(t *testing.T) {
	rules := []model.WeeklyScheduleRule{
		{ID: 1, Weekday: 1},
		{ID: 2, Weekday: 2},
		{ID: 3, Weekday: 2},
	}

	rule, dups := RuleForWeekday(rules, 2)
	require.NotNil(t, rule)
	assert.Equal(t, int64(2), rule.ID)
	assert.Equal(t, 1, dups)

	rule, dups = RuleForWeekday(rules, 0)
	assert.Nil(t, rule)
	assert.Zero(t, dups)

	// возвращается копия
	rule, _ = RuleForWeekday(rules, 1)
	rule.StartTime = "changed"
	assert.Empty(t, rules[0].StartTime)
}
