package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/agenda/internal/availability"
	"github.com/Freeeeeet/agenda/internal/backend"
	"github.com/Freeeeeet/agenda/internal/model"
	"github.com/Freeeeeet/agenda/internal/service"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	defaultServiceDuration = 30
	maxServiceDuration     = 24 * 60
)

// AvailabilityProvider - расчёт слотов для HTTP ручек
type AvailabilityProvider interface {
	LoadDay(ctx context.Context, req service.DayRequest) (*service.Day, error)
	LoadRange(ctx context.Context, req service.RangeRequest) []*service.Day
	BusinessNow() availability.BusinessTime
}

// RuleResponse - правило, по которому построен день
type RuleResponse struct {
	ID        int64  `json:"id"`
	Inicio    string `json:"inicio"`
	Fim       string `json:"fim"`
	Intervalo int    `json:"intervalo"`
}

// DayResponse - слоты одного дня
type DayResponse struct {
	Date       string           `json:"data"`
	Weekday    int              `json:"diaSemana"`
	Status     string           `json:"status"`
	Source     string           `json:"fonte"`
	Rule       *RuleResponse    `json:"grade,omitempty"`
	Slots      []model.TimeSlot `json:"horarios"`
	Bookable   []model.TimeSlot `json:"disponiveis"`
	Fechamento string           `json:"fechamento,omitempty"`
	Error      string           `json:"erro,omitempty"`
}

// WeekResponse - несколько дней подряд
type WeekResponse struct {
	Inicio string        `json:"inicio"`
	Days   []DayResponse `json:"dias"`
}

type AvailabilityHandler struct {
	svc    AvailabilityProvider
	days   int
	logger *zap.Logger
}

// NewAvailabilityHandler создаёт ручки доступности; days - длина /semana
func NewAvailabilityHandler(svc AvailabilityProvider, days int, logger *zap.Logger) *AvailabilityHandler {
	if days <= 0 {
		days = 7
	}
	return &AvailabilityHandler{
		svc:    svc,
		days:   days,
		logger: logger,
	}
}

// GetDay - GET /v1/empresas/{empresaId}/disponibilidade?data=&duracao=
func (h *AvailabilityHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	companyID, duration, ok := h.parseCommon(w, r)
	if !ok {
		return
	}
	date, ok := h.parseDate(w, r, "data")
	if !ok {
		return
	}

	day, err := h.svc.LoadDay(r.Context(), service.DayRequest{
		CompanyID:              companyID,
		Date:                   date,
		ServiceDurationMinutes: duration,
	})
	if err != nil {
		status, code, message := errorStatus(err)
		h.logger.Warn("Day request failed",
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.Int64("company_id", companyID),
			zap.String("date", date.String()),
			zap.Error(err))
		WriteError(w, status, code, message)
		return
	}

	WriteJSON(w, http.StatusOK, toDayResponse(day))
}

// GetWeek - GET /v1/empresas/{empresaId}/disponibilidade/semana?inicio=&duracao=
// Ошибка одного дня отдаётся в поле erro этого дня.
func (h *AvailabilityHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	companyID, duration, ok := h.parseCommon(w, r)
	if !ok {
		return
	}
	from, ok := h.parseDate(w, r, "inicio")
	if !ok {
		return
	}

	days := h.svc.LoadRange(r.Context(), service.RangeRequest{
		CompanyID:              companyID,
		From:                   from,
		Days:                   h.days,
		ServiceDurationMinutes: duration,
	})

	resp := WeekResponse{
		Inicio: from.String(),
		Days:   make([]DayResponse, 0, len(days)),
	}
	for _, day := range days {
		if day != nil {
			resp.Days = append(resp.Days, toDayResponse(day))
		}
	}
	WriteJSON(w, http.StatusOK, resp)
}

// Health - GET /healthz
func Health(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AvailabilityHandler) parseCommon(w http.ResponseWriter, r *http.Request) (int64, int, bool) {
	companyID, err := strconv.ParseInt(mux.Vars(r)["empresaId"], 10, 64)
	if err != nil || companyID <= 0 {
		WriteError(w, http.StatusBadRequest, ErrBadRequest, "empresaId must be a positive integer")
		return 0, 0, false
	}

	duration := defaultServiceDuration
	if raw := r.URL.Query().Get("duracao"); raw != "" {
		duration, err = strconv.Atoi(raw)
		if err != nil || duration <= 0 || duration > maxServiceDuration {
			WriteError(w, http.StatusBadRequest, ErrBadRequest, fmt.Sprintf("duracao must be between 1 and %d minutes", maxServiceDuration))
			return 0, 0, false
		}
	}
	return companyID, duration, true
}

// parseDate читает дату из параметра; без параметра - сегодня по времени бизнеса
func (h *AvailabilityHandler) parseDate(w http.ResponseWriter, r *http.Request, param string) (civil.Date, bool) {
	today := h.svc.BusinessNow().Date

	raw := r.URL.Query().Get(param)
	if raw == "" {
		return today, true
	}
	date, err := backend.ParseISODate(raw)
	if err != nil {
		WriteError(w, http.StatusBadRequest, ErrBadRequest, param+" must be YYYY-MM-DD")
		return civil.Date{}, false
	}
	if date.Before(today) {
		WriteError(w, http.StatusBadRequest, ErrBadRequest, param+" is in the past")
		return civil.Date{}, false
	}
	return date, true
}

// errorStatus сопоставляет ошибку загрузки с HTTP ответом
func errorStatus(err error) (int, string, string) {
	var (
		statusErr   *backend.StatusError
		scheduleErr *availability.InvalidScheduleError
	)
	switch {
	case errors.Is(err, backend.ErrNoToken):
		return http.StatusUnauthorized, ErrUnauthorized, "missing bearer token"
	case errors.As(err, &statusErr) && (statusErr.Status == http.StatusUnauthorized || statusErr.Status == http.StatusForbidden):
		return http.StatusUnauthorized, ErrUnauthorized, "token rejected by upstream API"
	case backend.IsNotFound(err):
		return http.StatusNotFound, ErrNotFound, "company schedule not found"
	case backend.IsTransient(err):
		return http.StatusBadGateway, ErrUpstream, "upstream API unavailable"
	case errors.As(err, &scheduleErr):
		return http.StatusUnprocessableEntity, ErrSchedule, scheduleErr.Error()
	default:
		return http.StatusInternalServerError, ErrInternal, "an unexpected error occurred"
	}
}

func toDayResponse(day *service.Day) DayResponse {
	resp := DayResponse{
		Date:     day.Date.String(),
		Weekday:  day.Weekday,
		Status:   string(day.Status),
		Source:   string(day.Source),
		Slots:    nonNil(day.Slots),
		Bookable: nonNil(day.Bookable),
	}
	if day.Rule != nil {
		resp.Rule = &RuleResponse{
			ID:        day.Rule.ID,
			Inicio:    day.Rule.StartTime,
			Fim:       day.Rule.EndTime,
			Intervalo: day.Rule.SlotIntervalMinutes,
		}
	}
	if day.ClosingBoundary > 0 {
		resp.Fechamento = availability.FormatClock(day.ClosingBoundary)
	}
	if day.Err != nil {
		_, code, _ := errorStatus(day.Err)
		resp.Error = code
	}
	return resp
}

func nonNil(slots []model.TimeSlot) []model.TimeSlot {
	if slots == nil {
		return []model.TimeSlot{}
	}
	return slots
}
