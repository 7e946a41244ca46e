package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/agenda/internal/controller/callbacks/booking"
	"github.com/Freeeeeet/agenda/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/agenda/internal/controller/callbacks/common"
	"github.com/Freeeeeet/agenda/internal/controller/callbacks/common/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Route направляет callback в соответствующий обработчик
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	switch {
	case data == keyboard.Noop:
		// No operation - просто подтверждаем callback
		common.AnswerCallback(ctx, b, callback.ID, "")

	// ===== Экран дня =====
	case strings.HasPrefix(data, keyboard.PrefixDay):
		booking.HandleDay(ctx, b, callback, h)
	case strings.HasPrefix(data, keyboard.PrefixPage):
		booking.HandlePage(ctx, b, callback, h)
	case strings.HasPrefix(data, keyboard.PrefixRefresh):
		booking.HandleRefresh(ctx, b, callback, h)
	case strings.HasPrefix(data, keyboard.PrefixGrid):
		booking.HandleGrid(ctx, b, callback, h)
	case strings.HasPrefix(data, keyboard.PrefixWeek):
		booking.HandleWeek(ctx, b, callback, h)
	case strings.HasPrefix(data, keyboard.PrefixSlot):
		booking.HandleSlot(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback data",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		common.AnswerCallback(ctx, b, callback.ID, "❓ Ação desconhecida")
	}
}
