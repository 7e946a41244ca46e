package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

const (
	MinutesPerDay = 24 * 60

	// DefaultBusinessOffsetMinutes - фиксированный часовой пояс бизнеса (UTC-3)
	DefaultBusinessOffsetMinutes = -180
)

// ParseClock разбирает "HH:MM" или "HH:MM:SS" в минуты от полуночи.
// "24:00" допускается как конец дня.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid clock %q: expected HH:MM", s)
	}

	hours, err := parseClockPart(parts[0], 24)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: hours: %w", s, err)
	}
	minutes, err := parseClockPart(parts[1], 59)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: minutes: %w", s, err)
	}
	if len(parts) == 3 {
		if _, err := parseClockPart(parts[2], 59); err != nil {
			return 0, fmt.Errorf("invalid clock %q: seconds: %w", s, err)
		}
	}

	total := hours*60 + minutes
	if total > MinutesPerDay {
		return 0, fmt.Errorf("invalid clock %q: past end of day", s)
	}
	return total, nil
}

func parseClockPart(s string, limit int) (int, error) {
	if len(s) == 0 || len(s) > 2 {
		return 0, fmt.Errorf("bad length")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > limit {
		return 0, fmt.Errorf("%d out of range", v)
	}
	return v, nil
}

// FormatClock форматирует минуты от полуночи как "HH:MM"
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseRange разбирает строку вида "HH:MM-HH:MM"
func ParseRange(s string) (start, end int, err error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid range %q: expected HH:MM-HH:MM", s)
	}
	if start, err = ParseClock(parts[0]); err != nil {
		return 0, 0, err
	}
	if end, err = ParseClock(parts[1]); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// BusinessTime - "сейчас" в часовом поясе бизнеса
type BusinessTime struct {
	Date   civil.Date
	Minute int
}

// BusinessNow переводит момент времени в фиксированное смещение бизнеса.
// Часовой пояс устройства не учитывается.
func BusinessNow(now time.Time, offsetMinutes int) BusinessTime {
	local := now.In(time.FixedZone("business", offsetMinutes*60))
	return BusinessTime{
		Date:   civil.DateOf(local),
		Minute: local.Hour()*60 + local.Minute(),
	}
}

// WeekdayOf возвращает день недели даты (0 = воскресенье)
func WeekdayOf(date civil.Date) int {
	return int(date.In(time.UTC).Weekday())
}
