package controller

import (
	"context"

	"github.com/Freeeeeet/agenda/internal/controller/callbacks"
	"github.com/Freeeeeet/agenda/internal/controller/handlers"
	"github.com/Freeeeeet/agenda/internal/controller/state"
	"github.com/Freeeeeet/agenda/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	availabilityService *service.AvailabilityService,
	scheduleService *service.ScheduleService,
	stateManager *state.Manager,
	prefetchDays int,
	logger *zap.Logger,
) *BotController {
	// Создаём обработчики команд
	cmdHandlers := handlers.NewHandlers(
		availabilityService,
		scheduleService,
		stateManager,
		prefetchDays,
		logger,
	)

	// Создаём callback handler с зависимостями
	callbackHandler := callbacks.NewHandler(
		availabilityService,
		scheduleService,
		stateManager,
		prefetchDays,
		logger,
	)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	commands := map[string]bot.HandlerFunc{
		"start":   c.handlers.HandleStart,
		"help":    c.handlers.HandleHelp,
		"cancel":  c.handlers.HandleCancel,
		"token":   c.handlers.HandleToken,
		"empresa": c.handlers.HandleCompany,
		"servico": c.handlers.HandleServiceDuration,

		"horarios": c.handlers.HandleSlots,
		"semana":   c.handlers.HandleWeek,

		// Команды для компании
		"grade":         c.handlers.HandleRules,
		"grade_definir": c.handlers.HandleSetRule,
		"grade_remover": c.handlers.HandleDeleteRule,
		"bloqueios":     c.handlers.HandleBlackouts,
		"bloquear":      c.handlers.HandleCreateBlackout,
		"desbloquear":   c.handlers.HandleDeleteBlackout,
		"agenda":        c.handlers.HandleAgenda,
	}
	for name, handler := range commands {
		c.bot.RegisterHandlerMatchFunc(handlers.MatchCommand(name), handler)
	}

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// HandleTextMessage - текст вне команд (ответы в диалогах).
// Подключается через bot.WithDefaultHandler.
func (c *BotController) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	c.handlers.HandleTextMessage(ctx, b, update)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Começar"},
		{Command: "help", Description: "❓ Ajuda"},
		{Command: "token", Description: "🔑 Informar token de acesso"},
		{Command: "empresa", Description: "🏢 Escolher empresa"},
		{Command: "servico", Description: "⏱ Duração do serviço"},
		{Command: "horarios", Description: "📅 Horários livres do dia"},
		{Command: "semana", Description: "🗓 Resumo dos próximos dias"},
		{Command: "grade", Description: "🕘 Grade semanal (empresa)"},
		{Command: "bloqueios", Description: "🚫 Bloqueios (empresa)"},
		{Command: "agenda", Description: "📋 Agendamentos do dia (empresa)"},
		{Command: "cancel", Description: "✖️ Cancelar operação"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
