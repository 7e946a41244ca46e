package booking

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/agenda/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/agenda/internal/controller/callbacks/common"
	"github.com/Freeeeeet/agenda/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/agenda/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/agenda/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleSlot подтверждает выбор времени. День загружается заново,
// чтобы не предложить слот, занятый после открытия экрана.
func HandleSlot(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	date, hhmm, ok := keyboard.ParseSlotData(callback.Data)
	if !ok {
		hc.AnswerError(common.ErrInvalidFormat)
		return
	}

	session, err := hc.RequireSession()
	if err != nil {
		hc.AnswerError(err)
		return
	}

	day, err := LoadDay(hc.Ctx, session, date, true)
	if day == nil {
		hc.Answer("")
		return
	}
	if err != nil {
		hc.AnswerError(err)
		return
	}

	if !IsBookable(day, hhmm) {
		h.Logger.Info("Selected slot is no longer bookable",
			zap.Int64("chat_id", hc.ChatID),
			zap.String("date", date.String()),
			zap.String("time", hhmm))

		text, kb := common.RenderDay(day, h.Availability.BusinessNow().Date, 0)
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to edit day message", zap.Error(err))
		}
		hc.AnswerAlert("😕 Este horário não está mais disponível. Escolha outro.")
		return
	}

	hc.AnswerAlert(fmt.Sprintf(
		"✅ %s às %s está livre para um serviço de %s.",
		formatting.FormatDateWithWeekday(date),
		hhmm,
		formatting.FormatDuration(session.ServiceDuration()),
	))
}

// IsBookable проверяет, что время есть среди доступных слотов дня
func IsBookable(day *service.Day, hhmm string) bool {
	for _, slot := range day.Bookable {
		if slot.Time == hhmm {
			return true
		}
	}
	return false
}
