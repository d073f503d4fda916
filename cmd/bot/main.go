package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sealbound/pactkeeper/internal/ai"
	"github.com/sealbound/pactkeeper/internal/bot"
	"github.com/sealbound/pactkeeper/internal/bot/handlers"
	"github.com/sealbound/pactkeeper/internal/config"
	"github.com/sealbound/pactkeeper/internal/database"
	"github.com/sealbound/pactkeeper/internal/notify"
	"github.com/sealbound/pactkeeper/internal/repository"
	"github.com/sealbound/pactkeeper/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DatabaseURI == "" {
		log.Fatal("DATABASE_URI is required")
	}
	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	var aiClient *ai.Client
	if cfg.AIAPIKey != "" {
		aiClient = ai.New(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
		log.Printf("AI client initialized (model: %s)", cfg.AIModel)
	} else {
		log.Println("AI client not configured, free-text drafting disabled")
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("Failed to create Telegram API: %v", err)
	}

	repos := &handlers.Repositories{
		User:      repository.NewUserRepository(db),
		Settings:  repository.NewUserSettingsRepository(db),
		Category:  repository.NewCategoryRepository(db),
		Contract:  repository.NewContractRepository(db),
		Condition: repository.NewConditionRepository(db),
		Reminder:  repository.NewReminderRepository(db),
	}

	sched := scheduler.New(
		repos.Contract,
		repos.Condition,
		repos.Reminder,
		repos.Settings,
		notify.NewTelegramDispatcher(api),
	)
	sched.SetInterval(cfg.ScanInterval)
	go sched.Start(ctx)

	b := bot.New(api, repos, aiClient, sched)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		cancel()
	}()

	log.Println("Starting bot...")
	if err := b.Start(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Bot error: %v", err)
	}
}
