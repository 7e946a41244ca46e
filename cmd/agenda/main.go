package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/agenda/internal/api"
	"github.com/Freeeeeet/agenda/internal/app"
	"github.com/Freeeeeet/agenda/internal/backend"
	"github.com/Freeeeeet/agenda/internal/config"
	"github.com/Freeeeeet/agenda/internal/controller"
	"github.com/Freeeeeet/agenda/internal/controller/state"
	"github.com/Freeeeeet/agenda/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	source, err := service.ParseSource(cfg.AvailabilitySource)
	if err != nil {
		logger.Fatal("Invalid availability source", zap.Error(err))
	}

	logger.Info("Starting agenda",
		zap.String("environment", cfg.Environment),
		zap.String("api_base_url", cfg.APIBaseURL),
		zap.String("source", string(source)),
		zap.Int("utc_offset_minutes", cfg.BusinessOffsetMinutes),
		zap.Bool("bot_enabled", cfg.TelegramToken != ""))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := backend.NewClient(backend.Config{
		BaseURL:       cfg.APIBaseURL,
		Timeout:       cfg.APITimeout,
		RatePerSecond: cfg.APIRatePerSecond,
		Burst:         cfg.APIBurst,
	}, backend.NewFileTokenStore(cfg.TokenFile), logger)

	availabilityService := service.NewAvailabilityService(client, service.AvailabilityOptions{
		Source:        source,
		OffsetMinutes: cfg.BusinessOffsetMinutes,
	}, logger)
	scheduleService := service.NewScheduleService(client, logger)

	g, gctx := errgroup.WithContext(ctx)

	if cfg.TelegramToken != "" {
		stateManager := state.NewManager(func(companyID int64, duration int) *service.Session {
			return service.NewSession(availabilityService, companyID, duration, logger)
		})

		scheduler := app.NewScheduler(stateManager, cfg.SessionIdleTTL, cfg.SessionSweepInterval, logger)
		scheduler.Start(gctx)
		defer scheduler.Stop()

		var botController *controller.BotController
		b, err := bot.New(cfg.TelegramToken, bot.WithDefaultHandler(
			func(ctx context.Context, b *bot.Bot, update *models.Update) {
				botController.HandleTextMessage(ctx, b, update)
			},
		))
		if err != nil {
			logger.Fatal("Failed to create bot", zap.Error(err))
		}

		botController = controller.NewBotController(b, availabilityService, scheduleService, stateManager, cfg.PrefetchDays, logger)
		if err := botController.RegisterHandlers(ctx); err != nil {
			logger.Warn("Bot commands menu not set", zap.Error(err))
		}

		g.Go(func() error {
			return botController.Start(gctx)
		})
	}

	if cfg.HTTPAddr != "" {
		server := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           api.NewRouter(api.NewAvailabilityHandler(availabilityService, cfg.PrefetchDays, logger), logger),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Stopped with error", zap.Error(err))
		return
	}
	logger.Info("Stopped")
}
