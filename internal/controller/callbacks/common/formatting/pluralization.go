package formatting

// PluralizeSlots возвращает "horário" или "horários"
func PluralizeSlots(count int) string {
	if count == 1 {
		return "horário"
	}
	return "horários"
}

// PluralizeAppointments возвращает "agendamento" или "agendamentos"
func PluralizeAppointments(count int) string {
	if count == 1 {
		return "agendamento"
	}
	return "agendamentos"
}
