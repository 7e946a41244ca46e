package model

import "cloud.google.com/go/civil"

// BlackoutWindow - период, в который запись невозможна.
// Date == nil означает ежедневное повторение.
type BlackoutWindow struct {
	ID        int64       `json:"id"`
	CompanyID int64       `json:"company_id"`
	StartTime string      `json:"start_time"`
	EndTime   string      `json:"end_time"`
	Reason    string      `json:"reason,omitempty"`
	Date      *civil.Date `json:"date"`
}

// Recurring возвращает true для окна без конкретной даты
func (b *BlackoutWindow) Recurring() bool {
	return b.Date == nil
}

// AppliesTo проверяет, действует ли окно в указанную дату
func (b *BlackoutWindow) AppliesTo(date civil.Date) bool {
	return b.Date == nil || *b.Date == date
}
