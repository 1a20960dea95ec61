package main

import (
	"context"

	"m5cup/internal/application"
	"m5cup/internal/delivery/telegram"
	"m5cup/internal/repository"
	"m5cup/internal/verifier"
	"m5cup/pkg/config"
	"m5cup/pkg/logger"
	"m5cup/pkg/services"
	"m5cup/pkg/sheets"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Config{}
	if err := config.ReadEnvConfig(&cfg); err != nil {
		panic(err)
	}

	log := logger.NewLogger(&logger.Config{Level: cfg.LogLevel})

	db, err := repository.NewPostgresDB(&cfg.Repo)
	if err != nil {
		log.Error("failed to init db: %s", err.Error())
		return
	}
	defer db.Close()

	log.Info("Running migrations...")
	if err := repository.RunMigrations(db); err != nil {
		log.Error("failed to run migrations: %s", err.Error())
		return
	}
	log.Info("Migrations applied successfully")

	repos := repository.NewRepository(db)

	// Seed reviewers from the environment; duplicates are fine.
	for _, id := range cfg.AdminUserIDs {
		if _, err := repos.Admin.AddAdmin(id, ""); err != nil {
			log.Error("failed to seed admin %d: %s", id, err.Error())
			return
		}
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Error("failed to create telegram bot: %s", err.Error())
		return
	}

	var sheetsClient sheets.Client
	if cfg.GoogleCredentialsPath != "" {
		sheetsClient, err = sheets.NewGoogleClient(cfg.GoogleCredentialsPath)
		if err != nil {
			log.Error("failed to init google sheets: %s", err.Error())
			return
		}
	}

	membership := verifier.NewTelegramClient(api, cfg.ChannelID)
	checker := verifier.New(membership, cfg.VerifyTimeout, log)

	svcs := application.NewService(repos, checker, sheetsClient, application.Options{
		Channel:    cfg.ChannelID,
		OwnerEmail: cfg.GoogleOwnerEmail,
		SessionTTL: cfg.SessionTTL,
	}, log)

	bot := telegram.NewBot(api, svcs, log)
	svcs.BindSender(bot)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := service.NewManager(log)
	manager.AddService(bot)

	if err := manager.Run(ctx); err != nil {
		log.Error("run error: %s", err.Error())
		return
	}
	log.Info("Bot Stopped")
}
