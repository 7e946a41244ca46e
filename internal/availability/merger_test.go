package availability

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/agenda/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tuesday   = civil.Date{Year: 2026, Month: time.March, Day: 10}
	wednesday = civil.Date{Year: 2026, Month: time.March, Day: 11}
)

func candidates(t *testing.T) []model.TimeSlot {
	t.Helper()
	slots, _, err := GenerateCandidateSlots(morningRule())
	require.NoError(t, err)
	return slots
}

func flagsAt(slots []model.TimeSlot, hhmm string) model.TimeSlot {
	for _, s := range slots {
		if s.Time == hhmm {
			return s
		}
	}
	return model.TimeSlot{}
}

func TestMergeExclusions_AppointmentCoversDuration(t *testing.T) {
	appts := []model.Appointment{
		{ID: 1, Date: tuesday, Time: "09:00", Service: model.Service{DurationMinutes: 60}},
	}

	merged, errs := MergeExclusions(candidates(t), appts, nil, tuesday)
	require.Empty(t, errs)

	assert.True(t, flagsAt(merged, "09:00").Occupied)
	assert.True(t, flagsAt(merged, "09:30").Occupied)
	assert.False(t, flagsAt(merged, "10:00").Occupied)
	assert.False(t, flagsAt(merged, "08:30").Occupied)
}

func TestMergeExclusions_AppointmentOtherDateOrCanceled(t *testing.T) {
	appts := []model.Appointment{
		{ID: 1, Date: wednesday, Time: "09:00", Service: model.Service{DurationMinutes: 60}},
		{ID: 2, Date: tuesday, Time: "10:00", Service: model.Service{DurationMinutes: 30}, Status: model.AppointmentStatusCanceled},
	}

	merged, errs := MergeExclusions(candidates(t), appts, nil, tuesday)
	require.Empty(t, errs)
	for _, s := range merged {
		assert.False(t, s.Occupied, s.Time)
	}
}

func TestMergeExclusions_ZeroDurationOccupiesStartOnly(t *testing.T) {
	appts := []model.Appointment{{ID: 1, Date: tuesday, Time: "10:00"}}

	merged, _ := MergeExclusions(candidates(t), appts, nil, tuesday)
	assert.True(t, flagsAt(merged, "10:00").Occupied)
	assert.False(t, flagsAt(merged, "10:30").Occupied)
}

func TestMergeExclusions_RecurringBlackout(t *testing.T) {
	blackouts := []model.BlackoutWindow{{ID: 3, StartTime: "10:00", EndTime: "10:30"}}

	for _, date := range []civil.Date{tuesday, wednesday} {
		merged, errs := MergeExclusions(candidates(t), nil, blackouts, date)
		require.Empty(t, errs)
		assert.True(t, flagsAt(merged, "10:00").Unavailable)
		assert.False(t, flagsAt(merged, "10:30").Unavailable)
		assert.False(t, flagsAt(merged, "09:30").Unavailable)
	}
}

func TestMergeExclusions_DatedBlackout(t *testing.T) {
	date := wednesday
	blackouts := []model.BlackoutWindow{{ID: 4, StartTime: "08:00", EndTime: "09:00", Date: &date}}

	merged, _ := MergeExclusions(candidates(t), nil, blackouts, tuesday)
	assert.False(t, flagsAt(merged, "08:00").Unavailable)

	merged, _ = MergeExclusions(candidates(t), nil, blackouts, wednesday)
	assert.True(t, flagsAt(merged, "08:00").Unavailable)
	assert.True(t, flagsAt(merged, "08:30").Unavailable)
	assert.False(t, flagsAt(merged, "09:00").Unavailable)
}

func TestMergeExclusions_BothFlags(t *testing.T) {
	appts := []model.Appointment{{ID: 1, Date: tuesday, Time: "11:00", Service: model.Service{DurationMinutes: 30}}}
	blackouts := []model.BlackoutWindow{{ID: 2, StartTime: "11:00", EndTime: "12:00"}}

	merged, _ := MergeExclusions(candidates(t), appts, blackouts, tuesday)
	slot := flagsAt(merged, "11:00")
	assert.True(t, slot.Occupied)
	assert.True(t, slot.Unavailable)
	assert.False(t, slot.Selectable())
}

func TestMergeExclusions_MalformedRecordsSkipped(t *testing.T) {
	appts := []model.Appointment{
		{ID: 10, Date: tuesday, Time: "nove horas", Service: model.Service{DurationMinutes: 60}},
		{ID: 11, Date: tuesday, Time: "08:00", Service: model.Service{DurationMinutes: 30}},
	}
	blackouts := []model.BlackoutWindow{
		{ID: 20, StartTime: "10:00", EndTime: "??"},
		{ID: 21, StartTime: "11:00", EndTime: "10:00"},
		{ID: 22, StartTime: "11:30", EndTime: "12:00"},
	}

	merged, errs := MergeExclusions(candidates(t), appts, blackouts, tuesday)
	require.Len(t, errs, 3)

	ids := make([]int64, 0, len(errs))
	for _, err := range errs {
		var malformed *MalformedRecordError
		require.True(t, errors.As(err, &malformed))
		ids = append(ids, malformed.ID)
	}
	assert.ElementsMatch(t, []int64{10, 20, 21}, ids)

	assert.True(t, flagsAt(merged, "08:00").Occupied)
	assert.False(t, flagsAt(merged, "09:00").Occupied)
	assert.False(t, flagsAt(merged, "10:00").Unavailable)
	assert.True(t, flagsAt(merged, "11:30").Unavailable)
}

func TestMergeExclusions_PreservesOrderAndInputs(t *testing.T) {
	input := []model.TimeSlot{
		{Minute: 660, Time: "11:00"},
		{Minute: 480, Time: "08:00"},
		{Minute: 600, Time: "10:00", Unavailable: true},
	}
	snapshot := append([]model.TimeSlot(nil), input...)
	appts := []model.Appointment{{ID: 1, Date: tuesday, Time: "08:00", Service: model.Service{DurationMinutes: 30}}}

	merged, _ := MergeExclusions(input, appts, nil, tuesday)

	assert.Equal(t, snapshot, input)
	assert.Equal(t, []string{"11:00", "08:00", "10:00"}, slotTimes(merged))
	assert.True(t, merged[1].Occupied)
	assert.True(t, merged[2].Unavailable)
}

func TestMergeExclusions_Idempotent(t *testing.T) {
	appts := []model.Appointment{{ID: 1, Date: tuesday, Time: "09:00", Service: model.Service{DurationMinutes: 45}}}
	blackouts := []model.BlackoutWindow{{ID: 2, StartTime: "10:15", EndTime: "11:00"}}

	first, _ := MergeExclusions(candidates(t), appts, blackouts, tuesday)
	second, _ := MergeExclusions(candidates(t), appts, blackouts, tuesday)
	again, _ := MergeExclusions(first, appts, blackouts, tuesday)

	assert.Equal(t, first, second)
	assert.Equal(t, first, again)
}

func TestMergeExclusions_Empty(t *testing.T) {
	merged, errs := MergeExclusions(nil, nil, nil, tuesday)
	assert.Empty(t, merged)
	assert.Empty(t, errs)
}
