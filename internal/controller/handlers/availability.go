package handlers

import (
	"context"
	"errors"

	"github.com/Freeeeeet/agenda/internal/controller/callbacks/booking"
	"github.com/Freeeeeet/agenda/internal/controller/callbacks/common"
	"github.com/Freeeeeet/agenda/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleSlots обрабатывает команду /horarios [data]
func (h *Handlers) HandleSlots(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	session, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}

	today := h.availability.BusinessNow().Date
	var arg string
	if args := commandArgs(update.Message.Text); len(args) > 0 {
		arg = args[0]
	}
	date, err := parseDateArg(arg, today)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Data inválida. Use AAAA-MM-DD ou DD/MM")
		return
	}
	if date.Before(today) {
		h.sendError(ctx, b, chatID, common.ErrorMessage(common.ErrPastDate))
		return
	}

	day, err := booking.LoadDay(h.chatContext(ctx, chatID), session, date, true)
	if day == nil {
		if !errors.Is(err, service.ErrSuperseded) {
			h.replyError(ctx, b, chatID, "Failed to load day", err)
		}
		return
	}

	text, kb := common.RenderDay(day, today, 0)
	h.sendWithKeyboard(ctx, b, chatID, text, kb)
	if err != nil {
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
	}
}

// HandleWeek обрабатывает команду /semana
func (h *Handlers) HandleWeek(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	session, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}

	today := h.availability.BusinessNow().Date
	days := booking.LoadWeek(h.chatContext(ctx, chatID), session, today, today, h.prefetchDays)

	failed := 0
	for _, day := range days {
		if day != nil && day.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		h.logger.Warn("Some days failed to load",
			zap.Int64("chat_id", chatID),
			zap.Int("failed", failed),
			zap.Int("days", len(days)))
	}

	text, kb := common.RenderWeek(days)
	h.sendWithKeyboard(ctx, b, chatID, text, kb)
}
