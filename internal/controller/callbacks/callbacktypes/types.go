package callbacktypes

import (
	"github.com/Freeeeeet/agenda/internal/controller/state"
	"github.com/Freeeeeet/agenda/internal/service"
	"go.uber.org/zap"
)

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	Availability *service.AvailabilityService
	Schedule     *service.ScheduleService
	State        *state.Manager
	Logger       *zap.Logger

	// Сколько дней вперёд загружать в кеш сессии
	PrefetchDays int
}
