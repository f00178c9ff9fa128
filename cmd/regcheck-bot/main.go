package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"regcheck-bot/internal/api"
	"regcheck-bot/internal/api/handlers"
	"regcheck-bot/internal/bot"
	"regcheck-bot/internal/repository"
	"regcheck-bot/internal/service"
	"regcheck-bot/internal/telegram"
	"regcheck-bot/pkg/config"
	"regcheck-bot/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting registration check bot")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize repositories
	markerRepo, err := repository.NewMarkerRepository(cfg.Storage.ChecksDir, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize receipt markers", zap.Error(err))
	}
	actionLog := repository.NewActionLogRepository(cfg.Storage.LogFile, appLogger)

	// Initialize services
	extractor := service.NewExtractorService(appLogger)
	dedup := service.NewDedupService(markerRepo, appLogger)
	sessions := service.NewSessionStore(appLogger)

	messages, err := bot.LoadMessages()
	if err != nil {
		appLogger.Fatal("Failed to load messages", zap.Error(err))
	}

	client, err := telegram.NewClient(cfg.Bot.Token, cfg.Bot.Debug, cfg.Bot.MaxFileSize, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize Telegram client", zap.Error(err))
	}

	controller := bot.NewController(client, extractor, dedup, actionLog, sessions, messages, bot.Options{
		OwnerID:     cfg.Bot.OwnerID,
		TermsPath:   cfg.Storage.TermsPath,
		WorkDir:     cfg.Storage.WorkDir,
		MaxFileSize: cfg.Bot.MaxFileSize,
	}, appLogger)

	// in-flight events finish on shutdown even though ctx is cancelled
	dispatcher := bot.NewDispatcher(context.WithoutCancel(ctx), controller.Handle, cfg.Bot.Workers, appLogger)
	receiver := telegram.NewReceiver(client, dispatcher, cfg.Bot.PollTimeout, appLogger)

	// Setup router
	var webhookHandler *handlers.WebhookHandler
	if cfg.Bot.UsesWebhook() {
		webhookHandler = handlers.NewWebhookHandler(receiver, appLogger)
	}

	var app *fiber.App
	if cfg.Server.Enabled || cfg.Bot.UsesWebhook() {
		app = api.SetupRouter(&cfg.Server, handlers.NewHealthHandler(sessions), webhookHandler, cfg.Bot.WebhookSecret, appLogger)

		go func() {
			addr := ":" + cfg.Server.Port
			appLogger.Info("Server starting", zap.String("address", addr))
			if err := app.Listen(addr); err != nil {
				appLogger.Fatal("Server failed", zap.Error(err))
			}
		}()
	}

	// Receive updates until interrupted
	if cfg.Bot.UsesWebhook() {
		if err := receiver.RegisterWebhook(cfg.Bot.WebhookURL, cfg.Bot.WebhookSecret); err != nil {
			appLogger.Fatal("Failed to register webhook", zap.Error(err))
		}
		<-ctx.Done()
	} else if err := receiver.Poll(ctx); err != nil {
		appLogger.Error("Polling failed", zap.Error(err))
		stop()
	}

	appLogger.Info("Shutting down")

	if app != nil {
		if err := app.Shutdown(); err != nil {
			appLogger.Error("Server shutdown error", zap.Error(err))
		}
	}
	dispatcher.Close()
	if err := controller.Close(); err != nil {
		appLogger.Error("Failed to release pending sessions", zap.Error(err))
	}
}
