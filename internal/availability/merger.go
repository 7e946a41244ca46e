package availability

import (
	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/agenda/internal/model"
)

// interval - полуоткрытый промежуток [start, end) в минутах
type interval struct {
	start int
	end   int
}

func (iv interval) contains(minute int) bool {
	return iv.start <= minute && minute < iv.end
}

// MergeExclusions отмечает слоты, занятые записями или попадающие в окна блокировки.
// Возвращает новый список в том же порядке; входные данные не изменяются.
// Записи с неразборчивым временем пропускаются и возвращаются как *MalformedRecordError.
func MergeExclusions(
	slots []model.TimeSlot,
	appointments []model.Appointment,
	blackouts []model.BlackoutWindow,
	date civil.Date,
) ([]model.TimeSlot, []error) {
	occupied, apptErrs := appointmentIntervals(appointments, date)
	unavailable, blackoutErrs := blackoutIntervals(blackouts, date)

	merged := make([]model.TimeSlot, len(slots))
	for i, slot := range slots {
		merged[i] = slot
		if !slot.Occupied && anyContains(occupied, slot.Minute) {
			merged[i].Occupied = true
		}
		if !slot.Unavailable && anyContains(unavailable, slot.Minute) {
			merged[i].Unavailable = true
		}
	}

	return merged, append(apptErrs, blackoutErrs...)
}

func appointmentIntervals(appointments []model.Appointment, date civil.Date) ([]interval, []error) {
	var (
		intervals []interval
		errs      []error
	)

	for i := range appointments {
		appt := &appointments[i]
		if appt.Date != date || appt.Canceled() {
			continue
		}

		start, err := ParseClock(appt.Time)
		if err != nil {
			errs = append(errs, &MalformedRecordError{Kind: RecordAppointment, ID: appt.ID, Value: appt.Time, Err: err})
			continue
		}

		// запись без длительности занимает только свою минуту
		duration := appt.Service.DurationMinutes
		if duration <= 0 {
			duration = 1
		}
		intervals = append(intervals, interval{start: start, end: start + duration})
	}

	return intervals, errs
}

func blackoutIntervals(blackouts []model.BlackoutWindow, date civil.Date) ([]interval, []error) {
	var (
		intervals []interval
		errs      []error
	)

	for i := range blackouts {
		window := &blackouts[i]
		if !window.AppliesTo(date) {
			continue
		}

		start, err := ParseClock(window.StartTime)
		if err != nil {
			errs = append(errs, &MalformedRecordError{Kind: RecordBlackout, ID: window.ID, Value: window.StartTime, Err: err})
			continue
		}
		end, err := ParseClock(window.EndTime)
		if err != nil {
			errs = append(errs, &MalformedRecordError{Kind: RecordBlackout, ID: window.ID, Value: window.EndTime, Err: err})
			continue
		}
		if start >= end {
			errs = append(errs, &MalformedRecordError{
				Kind:  RecordBlackout,
				ID:    window.ID,
				Value: window.StartTime + "-" + window.EndTime,
				Err:   errEmptyWindow,
			})
			continue
		}

		intervals = append(intervals, interval{start: start, end: end})
	}

	return intervals, errs
}

func anyContains(intervals []interval, minute int) bool {
	for _, iv := range intervals {
		if iv.contains(minute) {
			return true
		}
	}
	return false
}
