package handlers

import (
	"github.com/Freeeeeet/agenda/internal/controller/state"
	"github.com/Freeeeeet/agenda/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	availability *service.AvailabilityService
	schedule     *service.ScheduleService
	stateManager *state.Manager
	prefetchDays int
	logger       *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	availabilityService *service.AvailabilityService,
	scheduleService *service.ScheduleService,
	stateManager *state.Manager,
	prefetchDays int,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		availability: availabilityService,
		schedule:     scheduleService,
		stateManager: stateManager,
		prefetchDays: prefetchDays,
		logger:       logger,
	}
}
