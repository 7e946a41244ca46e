package booking

import (
	"context"
	"errors"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/agenda/internal/availability"
	"github.com/Freeeeeet/agenda/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/agenda/internal/controller/callbacks/common"
	"github.com/Freeeeeet/agenda/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/agenda/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// LoadDay возвращает день из кеша сессии или загружает его заново.
// Ошибка загрузки превращается в день со статусом DayFailed,
// устаревший ответ возвращает service.ErrSuperseded.
func LoadDay(ctx context.Context, session *service.Session, date civil.Date, fresh bool) (*service.Day, error) {
	if !fresh {
		if day, ok := session.Cached(date); ok {
			return day, nil
		}
	}

	day, err := session.SelectDate(ctx, date)
	if errors.Is(err, service.ErrSuperseded) || errors.Is(err, service.ErrSessionClosed) {
		return nil, err
	}
	if err != nil && day == nil {
		day = &service.Day{
			Date:    date,
			Weekday: availability.WeekdayOf(date),
			Status:  availability.DayFailed,
			Err:     err,
		}
	}
	return day, err
}

// HandleDay показывает выбранный день
func HandleDay(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	showDay(common.NewHandlerContext(ctx, b, callback, h), keyboard.PrefixDay, false)
}

// HandleRefresh перезагружает день, минуя кеш
func HandleRefresh(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	showDay(common.NewHandlerContext(ctx, b, callback, h), keyboard.PrefixRefresh, true)
}

// HandlePage листает кнопки слотов дня; день берётся из кеша сессии
func HandlePage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	date, page, ok := keyboard.ParsePageData(callback.Data)
	if !ok {
		hc.AnswerError(common.ErrInvalidFormat)
		return
	}
	renderDay(hc, date, page, false)
}

func showDay(hc *common.HandlerContext, prefix string, fresh bool) {
	date, ok := keyboard.ParseDayData(hc.Callback.Data, prefix)
	if !ok {
		hc.AnswerError(common.ErrInvalidFormat)
		return
	}
	renderDay(hc, date, 0, fresh)
}

func renderDay(hc *common.HandlerContext, date civil.Date, page int, fresh bool) {
	today := hc.Handler.Availability.BusinessNow().Date
	if date.Before(today) {
		hc.AnswerError(common.ErrPastDate)
		return
	}

	session, err := hc.RequireSession()
	if err != nil {
		hc.AnswerError(err)
		return
	}

	day, err := LoadDay(hc.Ctx, session, date, fresh)
	if day == nil {
		// выбрана другая дата, этот ответ больше не нужен
		hc.Answer("")
		return
	}

	text, kb := common.RenderDay(day, today, page)
	if editErr := hc.EditMessage(text, kb); editErr != nil {
		hc.Handler.Logger.Error("Failed to edit day message",
			zap.Int64("chat_id", hc.ChatID),
			zap.String("date", date.String()),
			zap.Error(editErr))
	}

	if err != nil {
		hc.AnswerError(err)
		return
	}
	hc.Answer("")
}
