package handlers

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/agenda/internal/availability"
	"github.com/Freeeeeet/agenda/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/agenda/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

var (
	errUsage   = errors.New("wrong command usage")
	errBadDate = errors.New("invalid date")
)

// MatchCommand сопоставляет сообщение с командой /name, в том числе /name@bot и /name с аргументами
func MatchCommand(name string) bot.MatchFunc {
	return func(update *models.Update) bool {
		if update.Message == nil {
			return false
		}
		cmd, _ := splitCommand(update.Message.Text)
		return cmd == name
	}
}

// splitCommand возвращает имя команды без "/" и "@bot" и её аргументы
func splitCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil
	}
	cmd := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(cmd, '@'); at >= 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd), fields[1:]
}

// commandArgs возвращает аргументы команды
func commandArgs(text string) []string {
	_, args := splitCommand(text)
	return args
}

// parseDateArg разбирает дату: "hoje", "amanha", "AAAA-MM-DD", "DD/MM" или "DD/MM/AAAA".
// Пустая строка означает today.
func parseDateArg(s string, today civil.Date) (civil.Date, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hoje":
		return today, nil
	case "amanha", "amanhã":
		return today.AddDays(1), nil
	}

	if d, err := civil.ParseDate(s); err == nil {
		return d, nil
	}

	parts := strings.Split(s, "/")
	if len(parts) < 2 || len(parts) > 3 {
		return civil.Date{}, fmt.Errorf("%w: %q", errBadDate, s)
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return civil.Date{}, fmt.Errorf("%w: %q", errBadDate, s)
		}
		nums[i] = n
	}
	year := today.Year
	if len(nums) == 3 {
		year = nums[2]
	}
	d := civil.Date{Year: year, Month: time.Month(nums[1]), Day: nums[0]}
	if !d.IsValid() {
		return civil.Date{}, fmt.Errorf("%w: %q", errBadDate, s)
	}
	// "DD/MM" без года в прошлом означает следующий год
	if len(nums) == 2 && d.Before(today) {
		d.Year++
	}
	return d, nil
}

// parseRuleArgs разбирает "<dia> <inicio> <fim> [intervalo]"
func parseRuleArgs(companyID int64, args []string) (*model.WeeklyScheduleRule, error) {
	if len(args) < 3 || len(args) > 4 {
		return nil, errUsage
	}
	weekday, ok := formatting.ParseWeekday(strings.ToLower(args[0]))
	if !ok {
		return nil, fmt.Errorf("%w: unknown weekday %q", errUsage, args[0])
	}

	rule := &model.WeeklyScheduleRule{
		CompanyID:           companyID,
		Weekday:             weekday,
		StartTime:           args[1],
		EndTime:             args[2],
		SlotIntervalMinutes: availability.DefaultSlotIntervalMinutes,
	}
	if len(args) == 4 {
		interval, err := strconv.Atoi(args[3])
		if err != nil {
			return nil, fmt.Errorf("%w: interval %q", errUsage, args[3])
		}
		rule.SlotIntervalMinutes = interval
	}
	return rule, nil
}

// parseBlackoutArgs разбирает "<HH:MM-HH:MM> [data] [motivo...]"
func parseBlackoutArgs(companyID int64, args []string, today civil.Date) (*model.BlackoutWindow, error) {
	if len(args) == 0 {
		return nil, errUsage
	}
	start, end, err := availability.ParseRange(args[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}

	window := &model.BlackoutWindow{
		CompanyID: companyID,
		StartTime: availability.FormatClock(start),
		EndTime:   availability.FormatClock(end),
	}

	rest := args[1:]
	if len(rest) > 0 && looksLikeDate(rest[0]) {
		date, err := parseDateArg(rest[0], today)
		if err != nil {
			return nil, err
		}
		window.Date = &date
		rest = rest[1:]
	}
	window.Reason = strings.Join(rest, " ")
	return window, nil
}

func looksLikeDate(s string) bool {
	if s == "hoje" || s == "amanha" || s == "amanhã" {
		return true
	}
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9' && strings.ContainsAny(s, "-/")
}

// formatRule форматирует правило для списка /grade
func formatRule(rule model.WeeklyScheduleRule) string {
	interval := rule.SlotIntervalMinutes
	if interval <= 0 {
		interval = availability.DefaultSlotIntervalMinutes
	}
	return fmt.Sprintf("• <b>%s</b>: %s, a cada %s",
		formatting.GetWeekdayName(rule.Weekday),
		formatting.FormatTimeRange(rule.StartTime, rule.EndTime),
		formatting.FormatDuration(interval))
}

// formatBlackout форматирует окно блокировки для списка /bloqueios
func formatBlackout(window model.BlackoutWindow) string {
	when := "todos os dias"
	if window.Date != nil {
		when = formatting.FormatDate(*window.Date)
	}
	line := fmt.Sprintf("• #%d %s, %s", window.ID, formatting.FormatTimeRange(window.StartTime, window.EndTime), when)
	if window.Reason != "" {
		line += " (" + html.EscapeString(window.Reason) + ")"
	}
	return line
}

// formatAppointment форматирует запись для списка /agenda
func formatAppointment(a model.Appointment) string {
	status := formatting.GetAppointmentStatusDisplay(a.Status)
	name := a.Service.Name
	if name == "" {
		name = "Serviço"
	}
	return fmt.Sprintf("%s <b>%s</b> %s (%s, %s)",
		status.Emoji,
		a.Time,
		html.EscapeString(name),
		formatting.FormatDuration(a.Service.DurationMinutes),
		formatting.FormatPrice(a.Service.Cost))
}
