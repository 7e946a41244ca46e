package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/agenda/internal/controller/callbacks/common"
	"github.com/Freeeeeet/agenda/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/agenda/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandleRules обрабатывает команду /grade - недельная сетка компании
func (h *Handlers) HandleRules(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	profile, ok := h.requireCompany(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	rules, err := h.schedule.ListRules(h.chatContext(ctx, chatID), profile.CompanyID)
	if err != nil {
		h.replyError(ctx, b, chatID, "Failed to list rules", err)
		return
	}

	if len(rules) == 0 {
		h.sendMessage(ctx, b, chatID, "🗓 Nenhuma grade cadastrada.\n\nCadastre com /grade_definir seg 08:00 17:00 30")
		return
	}

	lines := make([]string, 0, len(rules))
	for _, rule := range rules {
		lines = append(lines, formatRule(rule))
	}
	h.sendMessage(ctx, b, chatID, "🗓 <b>Grade semanal</b>\n\n"+strings.Join(lines, "\n"))
}

// HandleSetRule обрабатывает команду /grade_definir <dia> <inicio> <fim> [intervalo]
func (h *Handlers) HandleSetRule(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	profile, ok := h.requireCompany(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	rule, err := parseRuleArgs(profile.CompanyID, commandArgs(update.Message.Text))
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Uso: /grade_definir <dia> <início> <fim> [intervalo]\nExemplo: /grade_definir seg 08:00 17:00 30")
		return
	}

	saved, err := h.schedule.SaveRule(h.chatContext(ctx, chatID), rule)
	if err != nil {
		h.replyError(ctx, b, chatID, "Failed to save rule", err)
		return
	}
	h.invalidateSession(chatID)

	h.sendMessage(ctx, b, chatID, "✅ Grade salva:\n"+formatRule(*saved))
}

// HandleDeleteRule обрабатывает команду /grade_remover <dia>
func (h *Handlers) HandleDeleteRule(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	profile, ok := h.requireCompany(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendError(ctx, b, chatID, "❌ Uso: /grade_remover <dia>\nExemplo: /grade_remover sab")
		return
	}
	weekday, ok := formatting.ParseWeekday(strings.ToLower(args[0]))
	if !ok {
		h.sendError(ctx, b, chatID, "❌ Dia da semana inválido. Use dom, seg, ter, qua, qui, sex ou sab")
		return
	}

	if err := h.schedule.DeleteRuleForWeekday(h.chatContext(ctx, chatID), profile.CompanyID, weekday); err != nil {
		h.replyError(ctx, b, chatID, "Failed to delete rule", err)
		return
	}
	h.invalidateSession(chatID)

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Grade de %s removida. O dia passa a ficar fechado.", formatting.GetWeekdayName(weekday)))
}

// HandleBlackouts обрабатывает команду /bloqueios
func (h *Handlers) HandleBlackouts(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	profile, ok := h.requireCompany(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	windows, err := h.schedule.ListBlackouts(h.chatContext(ctx, chatID), profile.CompanyID)
	if err != nil {
		h.replyError(ctx, b, chatID, "Failed to list blackouts", err)
		return
	}

	if len(windows) == 0 {
		h.sendMessage(ctx, b, chatID, "🚫 Nenhum bloqueio cadastrado.\n\nBloqueie com /bloquear 12:00-13:00 almoço")
		return
	}

	lines := make([]string, 0, len(windows))
	for _, window := range windows {
		lines = append(lines, formatBlackout(window))
	}
	h.sendMessage(ctx, b, chatID, "🚫 <b>Bloqueios</b>\n\n"+strings.Join(lines, "\n")+"\n\nRemover: /desbloquear &lt;id&gt;")
}

// HandleCreateBlackout обрабатывает команду /bloquear <HH:MM-HH:MM> [data] [motivo]
func (h *Handlers) HandleCreateBlackout(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	profile, ok := h.requireCompany(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) == 0 {
		h.stateManager.SetState(chatID, state.StateAwaitingBlackout)
		h.sendMessage(ctx, b, chatID, "🚫 Envie o intervalo a bloquear: HH:MM-HH:MM [data] [motivo]\n\n/cancel para cancelar")
		return
	}
	h.createBlackout(h.chatContext(ctx, chatID), b, chatID, profile.CompanyID, args)
}

func (h *Handlers) createBlackout(ctx context.Context, b *bot.Bot, chatID, companyID int64, args []string) {
	if companyID == 0 {
		h.stateManager.ClearState(chatID)
		h.sendError(ctx, b, chatID, common.ErrorMessage(common.ErrNoCompany))
		return
	}

	today := h.availability.BusinessNow().Date
	window, err := parseBlackoutArgs(companyID, args, today)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Formato: HH:MM-HH:MM [data] [motivo]\nExemplo: 12:00-13:00 2026-03-10 almoço")
		return
	}

	created, err := h.schedule.CreateBlackout(ctx, window)
	if err != nil {
		h.replyError(ctx, b, chatID, "Failed to create blackout", err)
		return
	}
	h.stateManager.ClearState(chatID)
	h.invalidateSession(chatID)

	h.sendMessage(ctx, b, chatID, "✅ Bloqueio criado:\n"+formatBlackout(*created))
}

// HandleDeleteBlackout обрабатывает команду /desbloquear <id>
func (h *Handlers) HandleDeleteBlackout(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	profile, ok := h.requireCompany(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	var windowID int64
	if len(args) == 1 {
		windowID, _ = strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	}
	if windowID <= 0 {
		h.sendError(ctx, b, chatID, "❌ Uso: /desbloquear <id>. Veja os ids em /bloqueios")
		return
	}

	if err := h.schedule.DeleteBlackout(h.chatContext(ctx, chatID), profile.CompanyID, windowID); err != nil {
		h.replyError(ctx, b, chatID, "Failed to delete blackout", err)
		return
	}
	h.invalidateSession(chatID)

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Bloqueio #%d removido.", windowID))
}

// HandleAgenda обрабатывает команду /agenda [data] - записи дня
func (h *Handlers) HandleAgenda(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	profile, ok := h.requireCompany(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	var arg string
	if args := commandArgs(update.Message.Text); len(args) > 0 {
		arg = args[0]
	}
	date, err := parseDateArg(arg, h.availability.BusinessNow().Date)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Data inválida. Use AAAA-MM-DD ou DD/MM")
		return
	}

	appointments, err := h.schedule.ListAppointments(h.chatContext(ctx, chatID), profile.CompanyID, date)
	if err != nil {
		h.replyError(ctx, b, chatID, "Failed to list appointments", err)
		return
	}

	header := fmt.Sprintf("📋 <b>%s</b>\n", formatting.FormatLongDate(date))
	if len(appointments) == 0 {
		h.sendMessage(ctx, b, chatID, header+"\nNenhum agendamento.")
		return
	}

	var (
		sb     strings.Builder
		active int
		total  float64
	)
	for _, a := range appointments {
		sb.WriteString(formatAppointment(a))
		sb.WriteByte('\n')
		if !a.Canceled() {
			active++
			total += a.Service.Cost
		}
	}
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("%s%d %s, total %s\n\n%s",
		header, active, formatting.PluralizeAppointments(active), formatting.FormatPrice(total), sb.String()))
}

// invalidateSession сбрасывает кеш дней после изменения расписания
func (h *Handlers) invalidateSession(chatID int64) {
	if session, ok := h.stateManager.Session(chatID); ok {
		session.Invalidate()
	}
}

