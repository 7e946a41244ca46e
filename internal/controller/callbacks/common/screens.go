package common

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/agenda/internal/availability"
	"github.com/Freeeeeet/agenda/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/agenda/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/agenda/internal/service"
	"github.com/go-telegram/bot/models"
)

const (
	slotsPerRow  = 4
	slotsPerPage = 6 * slotsPerRow
)

// RenderDay формирует экран выбора времени на дату.
// Кнопки слотов разбиты на страницы по slotsPerPage, page начинается с 0.
func RenderDay(day *service.Day, today civil.Date, page int) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	status := formatting.GetDayStatusDisplay(day.Status)

	fmt.Fprintf(&sb, "📅 <b>%s</b>\n", formatting.FormatLongDate(day.Date))
	if day.Rule != nil {
		fmt.Fprintf(&sb, "🕘 Funcionamento: %s, a cada %s\n",
			formatting.FormatTimeRange(day.Rule.StartTime, day.Rule.EndTime),
			formatting.FormatDuration(ruleInterval(day)))
	}
	fmt.Fprintf(&sb, "\n%s %s\n", status.Emoji, status.Text)

	kb := keyboard.NewBuilder()
	if day.Status == availability.DayAvailable {
		fmt.Fprintf(&sb, "\nEscolha um horário (%d %s):", len(day.Bookable), formatting.PluralizeSlots(len(day.Bookable)))

		totalPages := keyboard.PageCount(len(day.Bookable), slotsPerPage)
		page = min(max(page, 0), totalPages-1)
		from := page * slotsPerPage
		to := min(from+slotsPerPage, len(day.Bookable))

		buttons := make([]models.InlineKeyboardButton, 0, to-from)
		for _, slot := range day.Bookable[from:to] {
			buttons = append(buttons, keyboard.Button(slot.Time, keyboard.SlotData(day.Date, slot.Time)))
		}
		kb.Grid(buttons, slotsPerRow)
		kb.AddPagination(keyboard.PagePrefix(day.Date), page, totalPages)
	}

	kb.Row(keyboard.DayNavigationRow(day.Date, today)...)
	kb.Row(keyboard.DayExtrasRow(day.Date)...)

	return sb.String(), kb.Build()
}

// RenderWeek формирует сводку по дням с кнопкой перехода на каждый день
func RenderWeek(days []*service.Day) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString("📅 <b>Próximos dias</b>\n\n")

	kb := keyboard.NewBuilder()
	buttons := make([]models.InlineKeyboardButton, 0, len(days))
	for _, day := range days {
		if day == nil {
			continue
		}
		status := formatting.GetDayStatusDisplay(day.Status)
		label := formatting.FormatDateWithWeekday(day.Date)

		switch day.Status {
		case availability.DayAvailable:
			fmt.Fprintf(&sb, "%s %s: %d %s\n", status.Emoji, label, len(day.Bookable), formatting.PluralizeSlots(len(day.Bookable)))
		case availability.DayClosed:
			fmt.Fprintf(&sb, "%s %s: fechado\n", status.Emoji, label)
		case availability.DayFullyBooked:
			fmt.Fprintf(&sb, "%s %s: lotado\n", status.Emoji, label)
		default:
			fmt.Fprintf(&sb, "%s %s: erro ao carregar\n", status.Emoji, label)
		}

		buttons = append(buttons, keyboard.Button(label, keyboard.DayData(keyboard.PrefixDay, day.Date)))
	}
	kb.Grid(buttons, 2)

	return sb.String(), kb.Build()
}

// ruleInterval - шаг сетки; для правила без шага используется шаг по умолчанию
func ruleInterval(day *service.Day) int {
	if day.Rule.SlotIntervalMinutes > 0 {
		return day.Rule.SlotIntervalMinutes
	}
	return availability.DefaultSlotIntervalMinutes
}
