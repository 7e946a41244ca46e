package booking

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/agenda/internal/availability"
	"github.com/Freeeeeet/agenda/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/agenda/internal/controller/callbacks/common"
	"github.com/Freeeeeet/agenda/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/agenda/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/agenda/internal/dayimage"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleGrid отправляет картинку с сеткой дня
func HandleGrid(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	date, ok := keyboard.ParseDayData(callback.Data, keyboard.PrefixGrid)
	if !ok {
		hc.AnswerError(common.ErrInvalidFormat)
		return
	}

	session, err := hc.RequireSession()
	if err != nil {
		hc.AnswerError(err)
		return
	}

	day, err := LoadDay(hc.Ctx, session, date, false)
	if day == nil {
		hc.Answer("")
		return
	}
	if err != nil {
		hc.AnswerError(err)
		return
	}
	if day.Status == availability.DayClosed {
		hc.AnswerAlert(formatting.GetDayStatusDisplay(day.Status).Text)
		return
	}

	png, err := dayimage.Render(formatting.FormatDateWithWeekday(date), day.Slots, day.Bookable)
	if err != nil {
		h.Logger.Error("Failed to render day grid",
			zap.String("date", date.String()),
			zap.Error(err))
		hc.AnswerError(err)
		return
	}

	caption := fmt.Sprintf("🖼 <b>%s</b>", formatting.FormatLongDate(date))
	if err := hc.SendPhoto(fmt.Sprintf("grade-%s.png", date), png, caption); err != nil {
		h.Logger.Error("Failed to send day grid",
			zap.Int64("chat_id", hc.ChatID),
			zap.Error(err))
		hc.AnswerError(err)
		return
	}
	hc.Answer("")
}
