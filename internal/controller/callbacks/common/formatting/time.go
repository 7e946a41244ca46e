package formatting

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// FormatDate форматирует дату как "10/03/2026"
func FormatDate(d civil.Date) string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

// FormatDateWithWeekday форматирует дату с днём недели: "ter, 10/03"
func FormatDateWithWeekday(d civil.Date) string {
	weekday := int(d.In(time.UTC).Weekday())
	return fmt.Sprintf("%s, %02d/%02d", GetWeekdayShortName(weekday), d.Day, int(d.Month))
}

// FormatLongDate форматирует дату полностью: "terça-feira, 10 de março de 2026"
func FormatLongDate(d civil.Date) string {
	weekday := int(d.In(time.UTC).Weekday())
	return fmt.Sprintf("%s, %d de %s de %d", GetWeekdayName(weekday), d.Day, GetMonthName(d.Month), d.Year)
}

// FormatTimeRange форматирует диапазон времени
func FormatTimeRange(start, end string) string {
	return fmt.Sprintf("%s-%s", start, end)
}

// FormatDuration форматирует длительность в минутах
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%02d", hours, mins)
}

// GetWeekdayName возвращает название дня недели
func GetWeekdayName(weekday int) string {
	names := []string{
		"domingo",
		"segunda-feira",
		"terça-feira",
		"quarta-feira",
		"quinta-feira",
		"sexta-feira",
		"sábado",
	}
	if weekday >= 0 && weekday < len(names) {
		return names[weekday]
	}
	return "desconhecido"
}

// GetWeekdayShortName возвращает краткое название дня недели
func GetWeekdayShortName(weekday int) string {
	names := []string{"dom", "seg", "ter", "qua", "qui", "sex", "sáb"}
	if weekday >= 0 && weekday < len(names) {
		return names[weekday]
	}
	return "?"
}

// ParseWeekday разбирает день недели: число 0-6 или сокращение ("seg", "sab")
func ParseWeekday(s string) (int, bool) {
	aliases := map[string]int{
		"0": 0, "dom": 0, "domingo": 0,
		"1": 1, "seg": 1, "segunda": 1,
		"2": 2, "ter": 2, "terca": 2, "terça": 2,
		"3": 3, "qua": 3, "quarta": 3,
		"4": 4, "qui": 4, "quinta": 4,
		"5": 5, "sex": 5, "sexta": 5,
		"6": 6, "sab": 6, "sáb": 6, "sabado": 6, "sábado": 6,
	}
	weekday, ok := aliases[s]
	return weekday, ok
}

// GetMonthName возвращает название месяца
func GetMonthName(month time.Month) string {
	names := map[time.Month]string{
		time.January:   "janeiro",
		time.February:  "fevereiro",
		time.March:     "março",
		time.April:     "abril",
		time.May:       "maio",
		time.June:      "junho",
		time.July:      "julho",
		time.August:    "agosto",
		time.September: "setembro",
		time.October:   "outubro",
		time.November:  "novembro",
		time.December:  "dezembro",
	}
	return names[month]
}
