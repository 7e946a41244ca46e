package booking

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/agenda/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/agenda/internal/controller/callbacks/common"
	"github.com/Freeeeeet/agenda/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/agenda/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// LoadWeek загружает days дней начиная с from в кеш сессии.
// Даты в прошлом сдвигаются на today.
func LoadWeek(ctx context.Context, session *service.Session, from, today civil.Date, days int) []*service.Day {
	if from.Before(today) {
		from = today
	}
	return session.Prefetch(ctx, from, days)
}

// HandleWeek показывает сводку по ближайшим дням
func HandleWeek(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	from, ok := keyboard.ParseDayData(callback.Data, keyboard.PrefixWeek)
	if !ok {
		hc.AnswerError(common.ErrInvalidFormat)
		return
	}

	session, err := hc.RequireSession()
	if err != nil {
		hc.AnswerError(err)
		return
	}

	days := LoadWeek(hc.Ctx, session, from, h.Availability.BusinessNow().Date, h.PrefetchDays)
	text, kb := common.RenderWeek(days)
	if err := hc.EditMessage(text, kb); err != nil {
		h.Logger.Error("Failed to edit week message",
			zap.Int64("chat_id", hc.ChatID),
			zap.Error(err))
	}
	hc.Answer("")
}
