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

	api "daystart-backend/cmd/api"
	authdomain "daystart-backend/internal/auth/domain"
	authRepo "daystart-backend/internal/auth/repository"
	authUsecase "daystart-backend/internal/auth/usecase"
	briefingUsecase "daystart-backend/internal/briefing/usecase"
	calendarUsecase "daystart-backend/internal/calendar/usecase"
	focusdomain "daystart-backend/internal/focus/domain"
	focusRepo "daystart-backend/internal/focus/repository"
	focusUsecase "daystart-backend/internal/focus/usecase"
	"daystart-backend/internal/notification"
	notificationdomain "daystart-backend/internal/notification/domain"
	notificationRepo "daystart-backend/internal/notification/repository"
	taskdomain "daystart-backend/internal/task/domain"
	taskRepo "daystart-backend/internal/task/repository"
	taskUsecase "daystart-backend/internal/task/usecase"
	"daystart-backend/pkg/ai"
	"daystart-backend/pkg/config"
	"daystart-backend/pkg/database"
	"daystart-backend/pkg/fcm"
	"daystart-backend/pkg/google"
	"daystart-backend/pkg/scheduler"
	"daystart-backend/pkg/sse"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg := config.Load()
	loc := cfg.Location()

	// Initialize database
	db, err := database.NewConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&taskdomain.Task{}, &authdomain.Connection{}, &focusdomain.PomodoroSession{}, &notificationdomain.DeviceToken{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	taskRepository := taskRepo.NewGormTaskRepository(db)
	connectionRepository := authRepo.NewConnectionRepository(db)
	sessionRepository := focusRepo.NewSessionRepository(db)
	deviceRepository := notificationRepo.NewDeviceTokenRepository(db)

	// Notifications fan out to SSE streams and, when configured, FCM
	sseManager := sse.NewManager()
	notifService := notification.NewService(sseManager)
	if cfg.FirebaseCredentials != "" {
		fcmClient, err := fcm.NewClient(ctx, cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize FCM client (push notifications disabled): %v", err)
		} else {
			notifService.SetPush(deviceRepository, fcmClient, cfg.AppURL)
			log.Println("[FCM] Push notifications enabled")
		}
	} else {
		log.Println("[FCM] No Firebase credentials configured, push disabled")
	}

	// Google connections
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		log.Println("[WARN] GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET not set, calendar connections will fail")
	}
	oauthClient := google.NewOAuthClient(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.RedirectURL())
	connectionUc := authUsecase.NewConnectionUsecase(connectionRepository, oauthClient, cfg.SessionSecret)

	// Tasks only show for connected accounts (or no account)
	taskUc := taskUsecase.NewTaskUsecase(taskRepository, loc)
	taskUc.SetAccountLister(connectionUc)

	calendarUc := calendarUsecase.NewCalendarUsecase(connectionUc, google.NewCalendarService(), taskUc, loc)

	focusUc := focusUsecase.NewFocusUsecase(taskUc, sessionRepository, loc)
	focusUc.SetNotifier(notifService)

	// AI service with dynamic config getters for runtime updates
	settings := api.NewRuntimeSettings(cfg)
	aiRouter := ai.NewBriefingService(ctx, ai.Config{
		GetProvider:      settings.Provider,
		GeminiAPIKey:     cfg.GeminiAPIKey,
		GetGeminiModel:   settings.GeminiModel,
		GetOllamaBaseURL: settings.OllamaBaseURL,
		GetOllamaModel:   settings.OllamaModel,
	})
	log.Printf("[AI] Briefing service initialized with provider: %s (gemini configured: %t)", settings.Provider(), aiRouter.HasGemini())

	briefingUc := briefingUsecase.NewBriefingUsecase(calendarUc, taskUc, aiRouter, loc)
	briefingUc.SetNotifier(notifService)

	// Periodic jobs: nightly commitment prompt and due-task reminders
	sched := scheduler.New(loc)
	if err := notification.NewJobs(notifService, taskRepository, cfg.NightlyPromptTime, loc).Register(sched); err != nil {
		log.Printf("[WARN] Notification jobs disabled: %v", err)
	}
	sched.Start()

	// Initialize HTTP handler
	handler := api.NewHandler(cfg, api.Usecases{
		Tasks:       taskUc,
		Connections: connectionUc,
		Calendar:    calendarUc,
		Focus:       focusUc,
		Briefing:    briefingUc,
	}, notifService, sseManager, api.NewSettingsHandler(settings, aiRouter.Ollama(), aiRouter.HasGemini()))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	sched.Stop()
	notifService.Wait()
}
