package availability

import (
	"errors"
	"fmt"
)

// InvalidScheduleError - правило недели, из которого нельзя построить слоты.
// Ошибка касается только своего дня недели.
type InvalidScheduleError struct {
	RuleID  int64
	Weekday int
	Reason  string
}

func (e *InvalidScheduleError) Error() string {
	return fmt.Sprintf("invalid schedule rule %d (weekday %d): %s", e.RuleID, e.Weekday, e.Reason)
}

// RecordKind - тип записи, которую не удалось разобрать
type RecordKind string

const (
	RecordAppointment RecordKind = "appointment"
	RecordBlackout    RecordKind = "blackout"
	RecordSlot        RecordKind = "slot"
)

// MalformedRecordError - запись с неразборчивым временем или датой.
// Такие записи пропускаются, расчёт продолжается.
type MalformedRecordError struct {
	Kind  RecordKind
	ID    int64
	Value string
	Err   error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed %s record %d (%q): %v", e.Kind, e.ID, e.Value, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

var errEmptyWindow = errors.New("window start is not before its end")
