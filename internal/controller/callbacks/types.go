package callbacks

import (
	"context"

	"github.com/Freeeeeet/agenda/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/agenda/internal/controller/state"
	"github.com/Freeeeeet/agenda/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Handler обертка для callbacktypes.Handler с методами
type Handler struct {
	*callbacktypes.Handler
}

// NewHandler создаёт новый callback handler
func NewHandler(
	availabilityService *service.AvailabilityService,
	scheduleService *service.ScheduleService,
	stateManager *state.Manager,
	prefetchDays int,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Handler: &callbacktypes.Handler{
			Availability: availabilityService,
			Schedule:     scheduleService,
			State:        stateManager,
			Logger:       logger,
			PrefetchDays: prefetchDays,
		},
	}
}

// HandleCallbackQuery обрабатывает все callback queries
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery
	h.Logger.Debug("Callback received",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID),
	)

	Route(ctx, b, callback, h.Handler)
}
