package availability

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/agenda/internal/model"
)

// DayStatus различает причины пустого списка слотов
type DayStatus string

const (
	DayClosed      DayStatus = "closed"
	DayFullyBooked DayStatus = "fully_booked"
	DayAvailable   DayStatus = "available"
	DayFailed      DayStatus = "failed"
)

// Classify определяет статус дня по правилу и итоговым слотам
func Classify(rule *model.WeeklyScheduleRule, bookable []model.TimeSlot) DayStatus {
	switch {
	case len(bookable) > 0:
		return DayAvailable
	case rule == nil:
		return DayClosed
	default:
		return DayFullyBooked
	}
}

// DayInput - сырые данные для расчёта одного дня на стороне клиента
type DayInput struct {
	Date            civil.Date
	Rule            *model.WeeklyScheduleRule
	Appointments    []model.Appointment
	Blackouts       []model.BlackoutWindow
	ServiceDuration int
	Now             BusinessTime
}

// DayResult - результат расчёта дня
type DayResult struct {
	Status          DayStatus
	Slots           []model.TimeSlot // вся сетка дня с отметками
	Bookable        []model.TimeSlot
	ClosingBoundary int
	Skipped         []error // пропущенные записи, *MalformedRecordError
}

// ComputeDay проводит правило через генерацию, наложение исключений и фильтр
func ComputeDay(in DayInput) (*DayResult, error) {
	candidates, closing, err := GenerateCandidateSlots(in.Rule)
	if err != nil {
		return &DayResult{Status: DayFailed}, err
	}

	merged, skipped := MergeExclusions(candidates, in.Appointments, in.Blackouts, in.Date)
	bookable := FilterBookable(merged, closing, in.ServiceDuration, in.Date, in.Now)

	return &DayResult{
		Status:          Classify(in.Rule, bookable),
		Slots:           merged,
		Bookable:        bookable,
		ClosingBoundary: closing,
		Skipped:         skipped,
	}, nil
}

// ServerDayInput - слоты, уже размеченные сервером
type ServerDayInput struct {
	Date            civil.Date
	Rule            *model.WeeklyScheduleRule
	Slots           []model.TimeSlot
	ServiceDuration int
	Now             BusinessTime
}

// ComputeServerDay применяет только фильтр: шаг и граница закрытия
// выводятся из расстояния между слотами
func ComputeServerDay(in ServerDayInput) *DayResult {
	slots := make([]model.TimeSlot, len(in.Slots))
	copy(slots, in.Slots)
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Minute < slots[j].Minute
	})

	closing := InferClosingBoundary(slots)
	bookable := FilterBookable(slots, closing, in.ServiceDuration, in.Date, in.Now)

	return &DayResult{
		Status:          Classify(in.Rule, bookable),
		Slots:           slots,
		Bookable:        bookable,
		ClosingBoundary: closing,
	}
}
