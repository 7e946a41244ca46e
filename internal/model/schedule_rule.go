package model

// WeeklyScheduleRule описывает рабочие часы компании в один день недели
type WeeklyScheduleRule struct {
	ID                  int64  `json:"id"`
	CompanyID           int64  `json:"company_id"`
	Weekday             int    `json:"weekday"` // 0 = воскресенье ... 6 = суббота
	StartTime           string `json:"start_time"`
	EndTime             string `json:"end_time"`
	SlotIntervalMinutes int    `json:"slot_interval_minutes"`
}
