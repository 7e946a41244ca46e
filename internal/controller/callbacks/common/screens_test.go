package common

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/agenda/internal/availability"
	"github.com/Freeeeeet/agenda/internal/backend"
	"github.com/Freeeeeet/agenda/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/agenda/internal/model"
	"github.com/Freeeeeet/agenda/internal/service"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tuesday = civil.Date{Year: 2026, Month: time.March, Day: 10}

func TestRenderDay_Available(t *testing.T) {
	day := &service.Day{
		Date:   tuesday,
		Status: availability.DayAvailable,
		Rule:   &model.WeeklyScheduleRule{Weekday: 2, StartTime: "09:00", EndTime: "12:00", SlotIntervalMinutes: 30},
		Bookable: []model.TimeSlot{
			{Minute: 540, Time: "09:00"},
			{Minute: 570, Time: "09:30"},
			{Minute: 600, Time: "10:00"},
			{Minute: 630, Time: "10:30"},
			{Minute: 660, Time: "11:00"},
		},
	}

	text, kb := RenderDay(day, tuesday, 0)

	assert.Contains(t, text, "09:00-12:00")
	assert.Contains(t, text, "5 horários")
	require.Len(t, kb.InlineKeyboard, 4)
	assert.Len(t, kb.InlineKeyboard[0], 4)
	assert.Len(t, kb.InlineKeyboard[1], 1)
	assert.Equal(t, "slot:2026-03-10|11:00", kb.InlineKeyboard[1][0].CallbackData)

	// на сегодняшней дате нельзя уйти назад
	assert.Equal(t, keyboard.Noop, kb.InlineKeyboard[2][0].CallbackData)
}

func TestRenderDay_ClosedVsFullyBooked(t *testing.T) {
	closed, kb := RenderDay(&service.Day{Date: tuesday, Status: availability.DayClosed}, tuesday.AddDays(-3), 0)
	assert.Contains(t, closed, "Fechado")
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "day:2026-03-09", kb.InlineKeyboard[0][0].CallbackData)

	full, _ := RenderDay(&service.Day{
		Date:   tuesday,
		Status: availability.DayFullyBooked,
		Rule:   &model.WeeklyScheduleRule{StartTime: "09:00", EndTime: "10:00"},
	}, tuesday, 0)
	assert.Contains(t, full, "Lotado")
	assert.Contains(t, full, "a cada 30 min")
}

func fiveMinuteDay() *service.Day {
	bookable := make([]model.TimeSlot, 0, 125)
	for m := 8 * 60; m+5 <= 18*60 && len(bookable) < 125; m += 5 {
		bookable = append(bookable, model.TimeSlot{Minute: m, Time: availability.FormatClock(m)})
	}
	return &service.Day{
		Date:     tuesday,
		Status:   availability.DayAvailable,
		Rule:     &model.WeeklyScheduleRule{Weekday: 2, StartTime: "08:00", EndTime: "18:00", SlotIntervalMinutes: 5},
		Bookable: bookable,
	}
}

func countButtons(kb *models.InlineKeyboardMarkup) int {
	n := 0
	for _, row := range kb.InlineKeyboard {
		n += len(row)
	}
	return n
}

func TestRenderDay_PaginatesLongDays(t *testing.T) {
	day := fiveMinuteDay()
	require.Len(t, day.Bookable, 120)

	text, kb := RenderDay(day, tuesday, 0)
	assert.Contains(t, text, "120 horários")
	// 6 рядов слотов, пагинация, навигация, доп. кнопки
	require.Len(t, kb.InlineKeyboard, 9)
	assert.Equal(t, "slot:2026-03-10|08:00", kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "slot:2026-03-10|09:55", kb.InlineKeyboard[5][3].CallbackData)
	assert.Equal(t, "📄 1/5", kb.InlineKeyboard[6][0].Text)
	assert.Equal(t, "page:2026-03-10|1", kb.InlineKeyboard[6][1].CallbackData)
	assert.LessOrEqual(t, countButtons(kb), 100)

	_, kb = RenderDay(day, tuesday, 4)
	assert.Equal(t, "slot:2026-03-10|16:00", kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "slot:2026-03-10|17:55", kb.InlineKeyboard[5][3].CallbackData)
	assert.Equal(t, "page:2026-03-10|3", kb.InlineKeyboard[6][0].CallbackData)
	assert.Equal(t, "📄 5/5", kb.InlineKeyboard[6][1].Text)

	// страница за пределами списка показывает последнюю
	_, clamped := RenderDay(day, tuesday, 99)
	assert.Equal(t, kb, clamped)
}

func TestRenderWeek(t *testing.T) {
	days := []*service.Day{
		{Date: tuesday, Status: availability.DayAvailable, Bookable: []model.TimeSlot{{Time: "09:00"}}},
		{Date: tuesday.AddDays(1), Status: availability.DayFullyBooked},
		{Date: tuesday.AddDays(5), Status: availability.DayClosed},
		{Date: tuesday.AddDays(6), Status: availability.DayFailed},
	}

	text, kb := RenderWeek(days)

	assert.Contains(t, text, "ter, 10/03: 1 horário\n")
	assert.Contains(t, text, "lotado")
	assert.Contains(t, text, "fechado")
	assert.Contains(t, text, "erro ao carregar")
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "day:2026-03-11", kb.InlineKeyboard[0][1].CallbackData)
}

func TestErrorMessage(t *testing.T) {
	assert.Contains(t, ErrorMessage(backend.ErrNoToken), "/token")
	assert.Contains(t, ErrorMessage(&backend.StatusError{Op: "list rules", Status: 401}), "Token inválido")
	assert.Contains(t, ErrorMessage(&backend.ServerError{Op: "list rules", Status: 502}), "servidor")
	assert.Contains(t, ErrorMessage(&backend.NetworkError{Op: "list rules", Err: errors.New("dial")}), "servidor")
	assert.Contains(t, ErrorMessage(fmt.Errorf("save rule: %w", service.ErrDuplicateWeekday)), "Já existe")
	assert.Contains(t, ErrorMessage(ErrNoCompany), "/empresa")
	assert.Equal(t, "❌ Ocorreu um erro", ErrorMessage(errors.New("other")))
}

func TestIsMessageNotModifiedError(t *testing.T) {
	assert.False(t, IsMessageNotModifiedError(nil))
	assert.True(t, IsMessageNotModifiedError(errors.New("bad request, Bad Request: message is not modified")))
}
