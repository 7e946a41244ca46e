package backend

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/agenda/internal/model"
	"go.uber.org/zap"
)

const (
	appointmentsPath = "/agendamentos"
	serverSlotsPath  = "/horarios-disponiveis"
)

// ListAppointments возвращает записи компании на дату. 404 - пустой список.
func (c *Client) ListAppointments(ctx context.Context, companyID int64, date civil.Date) ([]model.Appointment, error) {
	var dtos []appointmentDTO
	if ok, err := c.getList(ctx, "list appointments", appointmentsPath, companyDateQuery(companyID, date), &dtos, true); err != nil || !ok {
		return nil, err
	}

	appts := make([]model.Appointment, 0, len(dtos))
	for _, d := range dtos {
		appt, err := d.toModel()
		if err != nil {
			c.logger.Warn("Skipping malformed appointment", zap.Int64("company_id", companyID), zap.Error(err))
			continue
		}
		appts = append(appts, appt)
	}
	return appts, nil
}

// ListServerSlots возвращает слоты дня, уже размеченные сервером. 404 - пустой список.
func (c *Client) ListServerSlots(ctx context.Context, companyID int64, date civil.Date) ([]model.TimeSlot, error) {
	var dtos []slotDTO
	if ok, err := c.getList(ctx, "list server slots", serverSlotsPath, companyDateQuery(companyID, date), &dtos, true); err != nil || !ok {
		return nil, err
	}

	slots := make([]model.TimeSlot, 0, len(dtos))
	for _, d := range dtos {
		slot, err := d.toModel()
		if err != nil {
			c.logger.Warn("Skipping malformed server slot", zap.Int64("company_id", companyID), zap.Error(err))
			continue
		}
		slots = append(slots, slot)
	}
	return slots, nil
}
