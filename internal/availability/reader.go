package availability

import (
	"github.com/Freeeeeet/agenda/internal/model"
)

// DefaultSlotIntervalMinutes используется, когда шаг нельзя вывести из списка слотов
const DefaultSlotIntervalMinutes = 30

// ValidateRule проверяет правило недели
func ValidateRule(rule *model.WeeklyScheduleRule) error {
	_, _, err := ruleBounds(rule)
	return err
}

func ruleBounds(rule *model.WeeklyScheduleRule) (start, end int, err error) {
	invalid := func(reason string) error {
		return &InvalidScheduleError{RuleID: rule.ID, Weekday: rule.Weekday, Reason: reason}
	}

	if rule.Weekday < 0 || rule.Weekday > 6 {
		return 0, 0, invalid("weekday out of range")
	}
	if rule.SlotIntervalMinutes <= 0 {
		return 0, 0, invalid("slot interval must be positive")
	}
	if rule.SlotIntervalMinutes > MinutesPerDay {
		return 0, 0, invalid("slot interval longer than a day")
	}

	start, err = ParseClock(rule.StartTime)
	if err != nil {
		return 0, 0, invalid(err.Error())
	}
	end, err = ParseClock(rule.EndTime)
	if err != nil {
		return 0, 0, invalid(err.Error())
	}
	if start >= end {
		return 0, 0, invalid("start time must be before end time")
	}

	return start, end, nil
}

// GenerateCandidateSlots строит слоты дня по правилу недели.
// Второе значение - граница закрытия: последний слот плюс шаг.
// nil-правило означает выходной: пустой список без ошибки.
func GenerateCandidateSlots(rule *model.WeeklyScheduleRule) ([]model.TimeSlot, int, error) {
	if rule == nil {
		return nil, 0, nil
	}

	start, end, err := ruleBounds(rule)
	if err != nil {
		return nil, 0, err
	}

	step := rule.SlotIntervalMinutes
	slots := make([]model.TimeSlot, 0, (end-start+step-1)/step)
	for m := start; m < end; m += step {
		slots = append(slots, model.TimeSlot{Minute: m, Time: FormatClock(m)})
	}

	return slots, slots[len(slots)-1].Minute + step, nil
}

// InferClosingBoundary выводит границу закрытия из шага между последними слотами.
// Для одного слота шаг считается равным 30 минутам.
func InferClosingBoundary(slots []model.TimeSlot) int {
	if len(slots) == 0 {
		return 0
	}

	last := slots[len(slots)-1].Minute
	if len(slots) == 1 {
		return last + DefaultSlotIntervalMinutes
	}

	step := last - slots[len(slots)-2].Minute
	if step <= 0 {
		step = DefaultSlotIntervalMinutes
	}
	return last + step
}

// RuleForWeekday возвращает первое правило для дня недели и число лишних дублей
func RuleForWeekday(rules []model.WeeklyScheduleRule, weekday int) (*model.WeeklyScheduleRule, int) {
	var found *model.WeeklyScheduleRule
	duplicates := 0

	for i := range rules {
		if rules[i].Weekday != weekday {
			continue
		}
		if found == nil {
			rule := rules[i]
			found = &rule
			continue
		}
		duplicates++
	}

	return found, duplicates
}
