package main

import (
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/abelzeko/aquarium-bot/internal/api"
	"github.com/abelzeko/aquarium-bot/internal/config"
	"github.com/abelzeko/aquarium-bot/internal/integration"
	"github.com/abelzeko/aquarium-bot/internal/integration/openai"
	"github.com/abelzeko/aquarium-bot/internal/metrics"
	"github.com/abelzeko/aquarium-bot/internal/repository"
	"github.com/abelzeko/aquarium-bot/internal/usecases"
)

func main() {
	// Configure logging
	log.SetOutput(os.Stdout)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Starting Aquarium Bot...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		go func() {
			log.Printf("Serving metrics on %s/metrics", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Metrics server stopped: %v", err)
			}
		}()
	}

	// Free text falls back to the help message without an API key
	openAIService, err := openai.NewOpenAIService(cfg.OpenAIAPIKey)
	if err != nil {
		log.Printf("Natural language queries disabled: %v", err)
		openAIService = nil
	}

	// Initialize repository
	repo, err := repository.NewSQLiteAquariumRepository()
	if err != nil {
		log.Fatalf("Failed to initialize repository: %v", err)
	}
	defer repo.Close()

	aquarium := usecases.NewAquariumUseCase(repo, openAIService, m)
	maintenance := usecases.NewMaintenanceUseCase(repo)
	library := usecases.NewLibraryUseCase(repo, integration.NewArticleRenderer())

	telegramBot, err := api.NewTelegramBot(cfg.TelegramToken, aquarium, maintenance, library, m)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram bot: %v", err)
	}

	// Set up the maintenance reminder sweep
	c := cron.New()
	_, err = c.AddFunc(cfg.ReminderSchedule, func() {
		telegramBot.SendReminders(time.Now())
	})
	if err != nil {
		log.Fatalf("Failed to set up cron job: %v", err)
	}
	c.Start()
	defer c.Stop()
	log.Printf("Maintenance reminders scheduled with '%s'", cfg.ReminderSchedule)

	// Start the bot
	telegramBot.Start()
}
