package keyboard

import (
	"strings"

	"cloud.google.com/go/civil"
	"github.com/go-telegram/bot/models"
)

// Префиксы callback data экрана дня
const (
	PrefixDay     = "day:"     // day:2026-03-10
	PrefixRefresh = "refresh:" // refresh:2026-03-10
	PrefixGrid    = "grid:"    // grid:2026-03-10
	PrefixWeek    = "week:"    // week:2026-03-10
	PrefixSlot    = "slot:"    // slot:2026-03-10|09:30
	Noop          = "noop"
)

// DayData формирует callback data с датой
func DayData(prefix string, date civil.Date) string {
	return prefix + date.String()
}

// SlotData формирует callback data выбранного слота
func SlotData(date civil.Date, hhmm string) string {
	return PrefixSlot + date.String() + "|" + hhmm
}

// ParseDayData извлекает дату из callback data с префиксом
func ParseDayData(data, prefix string) (civil.Date, bool) {
	if !strings.HasPrefix(data, prefix) {
		return civil.Date{}, false
	}
	date, err := civil.ParseDate(strings.TrimPrefix(data, prefix))
	if err != nil {
		return civil.Date{}, false
	}
	return date, true
}

// ParseSlotData извлекает дату и время слота
func ParseSlotData(data string) (civil.Date, string, bool) {
	rest, ok := strings.CutPrefix(data, PrefixSlot)
	if !ok {
		return civil.Date{}, "", false
	}
	datePart, hhmm, ok := strings.Cut(rest, "|")
	if !ok {
		return civil.Date{}, "", false
	}
	date, err := civil.ParseDate(datePart)
	if err != nil {
		return civil.Date{}, "", false
	}
	return date, hhmm, true
}

// DayNavigationRow создаёт ряд "предыдущий день / обновить / следующий день".
// Кнопка назад скрыта, если предыдущий день раньше minDate.
func DayNavigationRow(date, minDate civil.Date) []models.InlineKeyboardButton {
	row := make([]models.InlineKeyboardButton, 0, 3)
	prev := date.AddDays(-1)
	if !prev.Before(minDate) {
		row = append(row, Button("◀️", DayData(PrefixDay, prev)))
	} else {
		row = append(row, Button(" ", Noop))
	}
	row = append(row,
		Button("🔄", DayData(PrefixRefresh, date)),
		Button("▶️", DayData(PrefixDay, date.AddDays(1))),
	)
	return row
}

// DayExtrasRow создаёт ряд "сетка дня / неделя"
func DayExtrasRow(date civil.Date) []models.InlineKeyboardButton {
	return []models.InlineKeyboardButton{
		Button("🖼 Grade do dia", DayData(PrefixGrid, date)),
		Button("📅 Semana", DayData(PrefixWeek, date)),
	}
}
