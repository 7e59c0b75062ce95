package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	api "voice-journal/cmd/api"
	authRepo "voice-journal/internal/auth/repository"
	authUsecase "voice-journal/internal/auth/usecase"
	journalRepo "voice-journal/internal/journal/repository"
	journalUsecase "voice-journal/internal/journal/usecase"
	"voice-journal/internal/notification"
	taskRepo "voice-journal/internal/task/repository"
	"voice-journal/internal/task/scheduler"
	taskUsecase "voice-journal/internal/task/usecase"
	"voice-journal/pkg/chroma"
	"voice-journal/pkg/config"
	"voice-journal/pkg/database"
	"voice-journal/pkg/fcm"
	"voice-journal/pkg/gemini"
	"voice-journal/pkg/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg := config.Load()

	// Initialize repositories (dependency injection)
	var (
		taskRepository  taskRepo.TaskRepository
		fcmTokenRepo    authRepo.FCMTokenRepository
		entryRepository journalRepo.EntryRepository
	)
	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgresConnection(cfg)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		if taskRepository, err = taskRepo.NewGormTaskRepository(db); err != nil {
			log.Fatal("Failed to migrate tasks:", err)
		}
		if fcmTokenRepo, err = authRepo.NewFCMTokenRepository(db); err != nil {
			log.Fatal("Failed to migrate device tokens:", err)
		}
		if entryRepository, err = journalRepo.NewGormEntryRepository(db); err != nil {
			log.Fatal("Failed to migrate journal entries:", err)
		}
	} else {
		log.Printf("[WARN] DATABASE_URL not configured, data is kept in memory only")
		taskRepository = taskRepo.NewMemoryTaskRepository()
		fcmTokenRepo = authRepo.NewMemoryFCMTokenRepository()
		entryRepository = journalRepo.NewMemoryEntryRepository()
	}

	// Notification channels
	var channels []notification.Channel
	if cfg.TelegramToken != "" {
		tg, err := telegram.NewClient(cfg.TelegramToken)
		if err != nil {
			log.Printf("[WARN] Failed to initialize Telegram client (chat reminders disabled): %v", err)
		} else {
			channels = append(channels, notification.NewTelegramChannel(tg))
		}
	}
	if cfg.FirebaseCredentials != "" {
		fcmClient, err := fcm.NewClient(ctx, cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize FCM client (push notifications disabled): %v", err)
		} else {
			channels = append(channels, notification.NewPushChannel(fcmClient, fcmTokenRepo))
		}
	}

	notifService, err := notification.NewService(channels...)
	if err != nil {
		log.Fatal("Reminders cannot be delivered: ", err)
	}

	if cfg.GoogleProjectID != "" {
		publisher, err := notification.NewEventPublisher(ctx, cfg.GoogleProjectID, cfg.GooglePubSubTopic, cfg.GoogleCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize Pub/Sub publisher (reminder events disabled): %v", err)
		} else {
			defer publisher.Close()
			notifService.AddListener(publisher)
		}
	}

	// Reminder scheduler
	scanner := scheduler.NewScanner(taskRepository, notifService)
	reminderScheduler, err := scheduler.NewReminderScheduler(scanner, cfg.ReminderInterval, cfg.Location)
	if err != nil {
		log.Fatal(err)
	}
	if err := reminderScheduler.Start(); err != nil {
		log.Fatal(err)
	}

	// Semantic search over journal entries (optional)
	var vectorSearch journalUsecase.VectorSearchService
	if cfg.ChromaURL != "" || cfg.ChromaAPIKey != "" {
		chromaClient, err := chroma.NewChromaClient(ctx, cfg)
		if err != nil {
			log.Printf("[WARN] Failed to initialize Chroma client: %v. Journal search falls back to keywords.", err)
		} else {
			defer chromaClient.Close()
			vectorSearch = chromaClient
		}
	}

	// Initialize use cases (dependency injection)
	authUc := authUsecase.NewAuthUsecase(fcmTokenRepo, cfg.JWTSecret, cfg.JWTAccessExpiry)
	taskUc := taskUsecase.NewTaskUsecase(taskRepository, cfg.Location)
	journalUc := journalUsecase.NewJournalUsecase(entryRepository, vectorSearch)
	settings := api.LoadSettingsStore(cfg.SettingsFile)
	if cfg.GeminiAPIKey != "" {
		geminiService := gemini.NewGeminiService(cfg.GeminiAPIKey)
		geminiService.SetConfigSource(settings.GenerationConfig)
		journalUc.SetClassifier(geminiService)
	}

	handler := api.NewHandler(authUc, taskUc, journalUc, reminderScheduler, settings)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler.Router(),
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	// Let an in-flight scan finish before the process exits
	reminderScheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
