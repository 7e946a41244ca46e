package formatting

import (
	"github.com/Freeeeeet/agenda/internal/availability"
	"github.com/Freeeeeet/agenda/internal/model"
)

// StatusDisplay представляет отображение статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetDayStatusDisplay возвращает emoji и текст для статуса дня
func GetDayStatusDisplay(status availability.DayStatus) StatusDisplay {
	displays := map[availability.DayStatus]StatusDisplay{
		availability.DayAvailable:   {"🟢", "Horários disponíveis"},
		availability.DayFullyBooked: {"🔴", "Lotado: todos os horários estão ocupados"},
		availability.DayClosed:      {"⚫️", "Fechado neste dia"},
		availability.DayFailed:      {"⚠️", "Não foi possível carregar os horários"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Desconhecido"}
}

// GetAppointmentStatusDisplay возвращает emoji и текст для статуса записи
func GetAppointmentStatusDisplay(status model.AppointmentStatus) StatusDisplay {
	displays := map[model.AppointmentStatus]StatusDisplay{
		model.AppointmentStatusScheduled: {"⏳", "Agendado"},
		model.AppointmentStatusConfirmed: {"✅", "Confirmado"},
		model.AppointmentStatusCompleted: {"✔️", "Concluído"},
		model.AppointmentStatusCanceled:  {"❌", "Cancelado"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", string(status)}
}

// GetSlotDisplay возвращает emoji и текст для слота сетки
func GetSlotDisplay(slot model.TimeSlot) StatusDisplay {
	switch {
	case slot.Occupied && slot.Unavailable:
		return StatusDisplay{"⛔️", "Ocupado e bloqueado"}
	case slot.Occupied:
		return StatusDisplay{"🔴", "Ocupado"}
	case slot.Unavailable:
		return StatusDisplay{"⚫️", "Indisponível"}
	default:
		return StatusDisplay{"🟢", "Livre"}
	}
}
