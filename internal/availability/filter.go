package availability

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/agenda/internal/model"
)

// FilterBookable оставляет слоты, доступные для записи:
//  1. без отметок occupied/unavailable;
//  2. услуга заканчивается не позже границы закрытия;
//  3. для сегодняшней даты - строго позже текущей минуты бизнеса.
//
// Результат отсортирован по времени.
func FilterBookable(
	slots []model.TimeSlot,
	closingBoundary int,
	serviceDuration int,
	date civil.Date,
	now BusinessTime,
) []model.TimeSlot {
	if serviceDuration < 0 {
		serviceDuration = 0
	}
	today := date == now.Date

	bookable := make([]model.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if !slot.Selectable() {
			continue
		}
		if slot.Minute+serviceDuration > closingBoundary {
			continue
		}
		if today && slot.Minute <= now.Minute {
			continue
		}
		bookable = append(bookable, slot)
	}

	sort.SliceStable(bookable, func(i, j int) bool {
		return bookable[i].Minute < bookable[j].Minute
	})

	return bookable
}
