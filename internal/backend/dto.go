package backend

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/agenda/internal/availability"
	"github.com/Freeeeeet/agenda/internal/model"
)

// Формат JSON сервера: имена полей на португальском

type ruleDTO struct {
	ID        int64  `json:"id,omitempty"`
	EmpresaID int64  `json:"empresaId,omitempty"`
	DiaSemana int    `json:"diaSemana"`
	Inicio    string `json:"inicio"`
	Fim       string `json:"fim"`
	Intervalo int    `json:"intervalo"`
}

type blackoutDTO struct {
	ID        int64   `json:"id,omitempty"`
	EmpresaID int64   `json:"empresaId,omitempty"`
	Motivo    *string `json:"motivo"`
	Horario   string  `json:"horario"`
	Data      *string `json:"data"`
}

type serviceDTO struct {
	ID      int64   `json:"id"`
	Nome    string  `json:"nome"`
	Duracao int     `json:"duracao"`
	Valor   float64 `json:"valor"`
}

type appointmentDTO struct {
	ID        int64      `json:"id"`
	Data      string     `json:"data"`
	Horario   string     `json:"horario"`
	Servico   serviceDTO `json:"servico"`
	ClienteID int64      `json:"clienteId"`
	EmpresaID int64      `json:"empresaId"`
	Status    string     `json:"status"`
}

type slotDTO struct {
	Horario      string `json:"horario"`
	Ocupado      bool   `json:"ocupado"`
	Indisponivel bool   `json:"indisponivel"`
}

// ParseISODate разбирает дату "YYYY-MM-DD", отбрасывая время после "T"
func ParseISODate(s string) (civil.Date, error) {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	d, err := civil.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

func (d ruleDTO) toModel(companyID int64) model.WeeklyScheduleRule {
	if d.EmpresaID != 0 {
		companyID = d.EmpresaID
	}
	return model.WeeklyScheduleRule{
		ID:                  d.ID,
		CompanyID:           companyID,
		Weekday:             d.DiaSemana,
		StartTime:           d.Inicio,
		EndTime:             d.Fim,
		SlotIntervalMinutes: d.Intervalo,
	}
}

func ruleFromModel(r *model.WeeklyScheduleRule) ruleDTO {
	return ruleDTO{
		EmpresaID: r.CompanyID,
		DiaSemana: r.Weekday,
		Inicio:    r.StartTime,
		Fim:       r.EndTime,
		Intervalo: r.SlotIntervalMinutes,
	}
}

func (d blackoutDTO) toModel(companyID int64) (model.BlackoutWindow, error) {
	start, end, err := availability.ParseRange(d.Horario)
	if err != nil {
		return model.BlackoutWindow{}, &availability.MalformedRecordError{
			Kind: availability.RecordBlackout, ID: d.ID, Value: d.Horario, Err: err,
		}
	}

	if d.EmpresaID != 0 {
		companyID = d.EmpresaID
	}
	window := model.BlackoutWindow{
		ID:        d.ID,
		CompanyID: companyID,
		StartTime: availability.FormatClock(start),
		EndTime:   availability.FormatClock(end),
	}
	if d.Motivo != nil {
		window.Reason = *d.Motivo
	}

	if d.Data != nil && *d.Data != "" {
		date, err := ParseISODate(*d.Data)
		if err != nil {
			return model.BlackoutWindow{}, &availability.MalformedRecordError{
				Kind: availability.RecordBlackout, ID: d.ID, Value: *d.Data, Err: err,
			}
		}
		window.Date = &date
	}

	return window, nil
}

func blackoutFromModel(b *model.BlackoutWindow) blackoutDTO {
	dto := blackoutDTO{
		EmpresaID: b.CompanyID,
		Horario:   b.StartTime + "-" + b.EndTime,
	}
	if b.Reason != "" {
		reason := b.Reason
		dto.Motivo = &reason
	}
	if b.Date != nil {
		date := b.Date.String()
		dto.Data = &date
	}
	return dto
}

func (d appointmentDTO) toModel() (model.Appointment, error) {
	date, err := ParseISODate(d.Data)
	if err != nil {
		return model.Appointment{}, &availability.MalformedRecordError{
			Kind: availability.RecordAppointment, ID: d.ID, Value: d.Data, Err: err,
		}
	}

	return model.Appointment{
		ID:   d.ID,
		Date: date,
		Time: d.Horario,
		Service: model.Service{
			ID:              d.Servico.ID,
			Name:            d.Servico.Nome,
			DurationMinutes: d.Servico.Duracao,
			Cost:            d.Servico.Valor,
		},
		ClientID:  d.ClienteID,
		CompanyID: d.EmpresaID,
		Status:    model.AppointmentStatus(strings.ToLower(d.Status)),
	}, nil
}

func (d slotDTO) toModel() (model.TimeSlot, error) {
	minute, err := availability.ParseClock(d.Horario)
	if err != nil {
		return model.TimeSlot{}, &availability.MalformedRecordError{
			Kind: availability.RecordSlot, Value: d.Horario, Err: err,
		}
	}
	return model.TimeSlot{
		Minute:      minute,
		Time:        availability.FormatClock(minute),
		Occupied:    d.Ocupado,
		Unavailable: d.Indisponivel,
	}, nil
}
