package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/agenda/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/agenda/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 <b>Comandos</b>\n\n" +
	"<b>Configuração</b>\n" +
	"/token - Informar o token de acesso\n" +
	"/empresa - Escolher a empresa\n" +
	"/servico - Duração do serviço em minutos\n\n" +
	"<b>Horários</b>\n" +
	"/horarios [data] - Horários livres do dia\n" +
	"/semana - Resumo dos próximos dias\n\n" +
	"<b>Para empresas</b>\n" +
	"/grade - Grade semanal\n" +
	"/grade_definir &lt;dia&gt; &lt;início&gt; &lt;fim&gt; [intervalo]\n" +
	"/grade_remover &lt;dia&gt;\n" +
	"/bloqueios - Bloqueios de horário\n" +
	"/bloquear &lt;HH:MM-HH:MM&gt; [data] [motivo]\n" +
	"/desbloquear &lt;id&gt;\n" +
	"/agenda [data] - Agendamentos do dia\n\n" +
	"/cancel - Cancelar a operação atual"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	name := "!"
	if update.Message.From != nil && update.Message.From.FirstName != "" {
		name = ", " + update.Message.From.FirstName + "!"
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf(
		"👋 Olá%s\n\n"+
			"Aqui você consulta os horários livres para agendamento.\n\n"+
			"1. Envie seu token com /token\n"+
			"2. Escolha a empresa com /empresa\n"+
			"3. Veja os horários com /horarios\n\n"+
			"Todos os comandos: /help",
		name,
	))
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	if h.stateManager.GetState(chatID) == state.StateNone {
		h.sendMessage(ctx, b, chatID, "❌ Nenhuma operação em andamento.")
		return
	}

	h.stateManager.ClearState(chatID)
	h.sendMessage(ctx, b, chatID, "✅ Operação cancelada.\n\nUse /help para ver os comandos.")
}

// HandleToken обрабатывает команду /token [token]
func (h *Handlers) HandleToken(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) == 0 {
		h.stateManager.SetState(update.Message.Chat.ID, state.StateAwaitingToken)
		h.sendMessage(ctx, b, update.Message.Chat.ID, "🔑 Envie o token de acesso da API.\n\n/cancel para cancelar")
		return
	}
	h.saveToken(ctx, b, update.Message, args[0])
}

func (h *Handlers) saveToken(ctx context.Context, b *bot.Bot, msg *models.Message, token string) {
	chatID := msg.Chat.ID
	h.stateManager.SetToken(chatID, strings.TrimSpace(token))
	h.stateManager.ClearState(chatID)

	// токен не должен оставаться в истории чата
	if _, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: msg.ID}); err != nil {
		h.logger.Warn("Failed to delete token message",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	h.logger.Info("Chat token updated", zap.Int64("chat_id", chatID))
	h.sendMessage(ctx, b, chatID, "✅ Token salvo. Agora escolha a empresa com /empresa")
}

// HandleCompany обрабатывает команду /empresa [id]
func (h *Handlers) HandleCompany(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) == 0 {
		h.stateManager.SetState(update.Message.Chat.ID, state.StateAwaitingCompany)
		h.sendMessage(ctx, b, update.Message.Chat.ID, "🏢 Envie o número da empresa.\n\n/cancel para cancelar")
		return
	}
	h.saveCompany(ctx, b, update.Message.Chat.ID, args[0])
}

func (h *Handlers) saveCompany(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	companyID, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || companyID <= 0 {
		h.sendError(ctx, b, chatID, "❌ Número de empresa inválido. Exemplo: /empresa 42")
		return
	}

	h.stateManager.SetCompany(chatID, companyID)
	h.stateManager.ClearState(chatID)
	h.logger.Info("Chat company selected",
		zap.Int64("chat_id", chatID),
		zap.Int64("company_id", companyID))

	profile := h.stateManager.Profile(chatID)
	h.sendMessage(ctx, b, chatID, fmt.Sprintf(
		"✅ Empresa #%d selecionada.\nDuração do serviço: %s (altere com /servico)\n\nVeja os horários com /horarios",
		companyID, formatting.FormatDuration(profile.ServiceDuration)))
}

// HandleServiceDuration обрабатывает команду /servico [minutos]
func (h *Handlers) HandleServiceDuration(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) == 0 {
		h.stateManager.SetState(update.Message.Chat.ID, state.StateAwaitingDuration)
		h.sendMessage(ctx, b, update.Message.Chat.ID, "⏱ Envie a duração do serviço em minutos (ex.: 45).\n\n/cancel para cancelar")
		return
	}
	h.saveDuration(ctx, b, update.Message.Chat.ID, args[0])
}

func (h *Handlers) saveDuration(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	minutes, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || minutes <= 0 || minutes > 24*60 {
		h.sendError(ctx, b, chatID, "❌ Duração inválida. Informe minutos entre 1 e 1440")
		return
	}

	h.stateManager.SetServiceDuration(chatID, minutes)
	h.stateManager.ClearState(chatID)
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Duração do serviço: %s", formatting.FormatDuration(minutes)))
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния чата
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Незнакомые команды сюда тоже попадают
	if strings.HasPrefix(update.Message.Text, "/") {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❓ Comando desconhecido. Use /help")
		return
	}

	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	switch h.stateManager.GetState(chatID) {
	case state.StateAwaitingToken:
		h.saveToken(ctx, b, update.Message, text)
	case state.StateAwaitingCompany:
		h.saveCompany(ctx, b, chatID, text)
	case state.StateAwaitingDuration:
		h.saveDuration(ctx, b, chatID, text)
	case state.StateAwaitingBlackout:
		profile := h.stateManager.Profile(chatID)
		h.createBlackout(h.chatContext(ctx, chatID), b, chatID, profile.CompanyID, strings.Fields(text))
	default:
		h.logger.Debug("Ignoring text message without dialog",
			zap.Int64("chat_id", chatID))
	}
}
