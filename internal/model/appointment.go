package model

import "cloud.google.com/go/civil"

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "agendado"
	AppointmentStatusConfirmed AppointmentStatus = "confirmado"
	AppointmentStatusCompleted AppointmentStatus = "concluido"
	AppointmentStatusCanceled  AppointmentStatus = "cancelado"
)

// Service - услуга, на которую записан клиент
type Service struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	Cost            float64 `json:"cost"`
}

// Appointment занимает [Time, Time+Service.DurationMinutes) в день Date
type Appointment struct {
	ID        int64             `json:"id"`
	Date      civil.Date        `json:"date"`
	Time      string            `json:"time"`
	Service   Service           `json:"service"`
	ClientID  int64             `json:"client_id"`
	CompanyID int64             `json:"company_id"`
	Status    AppointmentStatus `json:"status"`
}

// Canceled возвращает true, если запись отменена и не занимает время
func (a *Appointment) Canceled() bool {
	return a.Status == AppointmentStatusCanceled
}
