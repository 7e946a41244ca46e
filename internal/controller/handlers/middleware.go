package handlers

import (
	"context"

	"github.com/Freeeeeet/agenda/internal/backend"
	"github.com/Freeeeeet/agenda/internal/controller/callbacks/common"
	"github.com/Freeeeeet/agenda/internal/controller/state"
	"github.com/Freeeeeet/agenda/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// chatContext добавляет в контекст токен чата для запросов к API
func (h *Handlers) chatContext(ctx context.Context, chatID int64) context.Context {
	if token := h.stateManager.Profile(chatID).Token; token != "" {
		return backend.ContextWithToken(ctx, token)
	}
	return ctx
}

// requireCompany проверяет что компания выбрана
// Возвращает профиль и true если OK
func (h *Handlers) requireCompany(ctx context.Context, b *bot.Bot, update *models.Update) (state.Profile, bool) {
	chatID := update.Message.Chat.ID
	profile := h.stateManager.Profile(chatID)
	if profile.CompanyID == 0 {
		h.sendError(ctx, b, chatID, common.ErrorMessage(common.ErrNoCompany))
		return profile, false
	}
	return profile, true
}

// requireSession возвращает сессию экрана записи чата
func (h *Handlers) requireSession(ctx context.Context, b *bot.Bot, update *models.Update) (*service.Session, bool) {
	chatID := update.Message.Chat.ID
	session, ok := h.stateManager.Session(chatID)
	if !ok {
		h.sendError(ctx, b, chatID, common.ErrorMessage(common.ErrNoCompany))
		return nil, false
	}
	return session, true
}

// replyError логирует ошибку и отправляет пользователю её описание
func (h *Handlers) replyError(ctx context.Context, b *bot.Bot, chatID int64, msg string, err error) {
	h.logger.Error(msg,
		zap.Int64("chat_id", chatID),
		zap.Error(err))
	h.sendError(ctx, b, chatID, common.ErrorMessage(err))
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err))
	}
}

// sendMessage отправляет HTML сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	h.sendWithKeyboard(ctx, b, chatID, text, nil)
}

// sendWithKeyboard отправляет HTML сообщение с inline клавиатурой
func (h *Handlers) sendWithKeyboard(ctx context.Context, b *bot.Bot, chatID int64, text string, kb *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}
