package model

// TimeSlot - вычисляемый слот дня, нигде не сохраняется
type TimeSlot struct {
	Minute      int    `json:"-"`
	Time        string `json:"horario"`
	Occupied    bool   `json:"ocupado"`
	Unavailable bool   `json:"indisponivel"`
}

// Selectable возвращает true, если слот не занят и не заблокирован
func (s TimeSlot) Selectable() bool {
	return !s.Occupied && !s.Unavailable
}
