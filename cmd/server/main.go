package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parentuni/internal/catalog"
	"parentuni/internal/config"
	"parentuni/internal/database"
	"parentuni/internal/handlers"
	"parentuni/internal/repository"
	"parentuni/internal/scheduler"
	"parentuni/internal/security"
	"parentuni/internal/service"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Build the course catalog
	cat := catalog.MustDefault()
	log.Printf("Course catalog loaded: %d modules, %d lessons", len(cat.Modules), cat.TotalLessons())

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	stateRepo := repository.NewStateRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	// Initialize services
	stateService := service.NewStateService(cat, stateRepo)
	authService := service.NewAuthService(userRepo, stateService, cfg.SessionDuration)
	quizService := service.NewQuizService(cat, stateService)
	noteService := service.NewNoteService(noteRepo)
	backupService := service.NewBackupService(cat, stateService, noteRepo)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.EmailSender, "Universidade de Pais", cfg.OAuthRedirectBaseURL, os.Getenv("EMAIL_DEBUG") == "true")
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	oauthProviders := map[string]handlers.OAuthProvider{
		"google": {
			Name:  "google",
			Label: "Google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
		"facebook": {
			Name:  "facebook",
			Label: "Facebook",
			Config: &oauth2.Config{
				ClientID:     cfg.FacebookClientID,
				ClientSecret: cfg.FacebookClientSecret,
				Endpoint:     facebook.Endpoint,
				Scopes:       []string{"email", "public_profile"},
			},
			UserInfoURL: "https://graph.facebook.com/me?fields=id,name,email",
		},
	}

	// Initialize handlers
	csrf := security.NewCSRFGenerator(cfg.CSRFSecret)
	authLimiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(authService, csrf, authLimiter)
	authHandler := handlers.NewAuthHandler(authService, emailService, csrf, oauthProviders, cfg.OAuthRedirectBaseURL)
	stateHandler := handlers.NewStateHandler(cat, stateService)
	courseHandler := handlers.NewCourseHandler(cat, stateService)
	quizHandler := handlers.NewQuizHandler(cat, quizService)
	noteHandler := handlers.NewNoteHandler(noteService)
	backupHandler := handlers.NewBackupHandler(backupService)
	contactHandler := handlers.NewContactHandler(emailService)

	// Setup routes
	mux := http.NewServeMux()

	// Static files (the single page app)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticFilesPath))))

	// Public routes
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/session", authHandler.Session)
	mux.HandleFunc("GET /api/auth/providers", authHandler.Providers)
	mux.HandleFunc("GET /auth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", authHandler.OAuthCallback)
	mux.HandleFunc("POST /api/contact", middleware.RateLimit(contactHandler.Send))

	// Account
	mux.HandleFunc("DELETE /api/account", middleware.CSRFProtect(middleware.RequireAuth(authHandler.DeleteAccount)))

	// Application state
	mux.HandleFunc("GET /api/state", middleware.RequireAuth(stateHandler.GetState))
	mux.HandleFunc("PATCH /api/state", middleware.CSRFProtect(middleware.RequireAuth(stateHandler.UpdateState)))
	mux.HandleFunc("POST /api/state/navigate", middleware.CSRFProtect(middleware.RequireAuth(stateHandler.Navigate)))
	mux.HandleFunc("POST /api/state/bookmark", middleware.CSRFProtect(middleware.RequireAuth(stateHandler.ToggleBookmark)))
	mux.HandleFunc("POST /api/state/time-spent", middleware.CSRFProtect(middleware.RequireAuth(stateHandler.AddTimeSpent)))
	mux.HandleFunc("POST /api/state/reset-progress", middleware.CSRFProtect(middleware.RequireAuth(stateHandler.ResetProgress)))
	mux.HandleFunc("POST /api/state/clear", middleware.CSRFProtect(middleware.RequireAuth(stateHandler.ClearAll)))

	// Course catalog with per-user progress
	mux.HandleFunc("GET /api/course", middleware.RequireAuth(courseHandler.GetCourse))
	mux.HandleFunc("GET /api/course/{module}", middleware.RequireAuth(courseHandler.GetModule))

	// Quiz stepper
	mux.HandleFunc("GET /api/quiz/{module}/{lesson}", middleware.RequireAuth(quizHandler.GetQuiz))
	mux.HandleFunc("POST /api/quiz/{module}/{lesson}/start", middleware.CSRFProtect(middleware.RequireAuth(quizHandler.Start)))
	mux.HandleFunc("POST /api/quiz/{module}/{lesson}/answer", middleware.CSRFProtect(middleware.RequireAuth(quizHandler.Answer)))
	mux.HandleFunc("POST /api/quiz/{module}/{lesson}/next", middleware.CSRFProtect(middleware.RequireAuth(quizHandler.Next)))
	mux.HandleFunc("POST /api/quiz/{module}/{lesson}/retake", middleware.CSRFProtect(middleware.RequireAuth(quizHandler.Retake)))
	mux.HandleFunc("POST /api/quiz/{module}/{lesson}/complete", middleware.CSRFProtect(middleware.RequireAuth(quizHandler.Complete)))
	mux.HandleFunc("GET /api/quiz/{module}/{lesson}/results", middleware.RequireAuth(quizHandler.Results))

	// Notes
	mux.HandleFunc("GET /api/notes", middleware.RequireAuth(noteHandler.List))
	mux.HandleFunc("POST /api/notes", middleware.CSRFProtect(middleware.RequireAuth(noteHandler.Create)))
	mux.HandleFunc("PUT /api/notes/{id}", middleware.CSRFProtect(middleware.RequireAuth(noteHandler.Update)))
	mux.HandleFunc("DELETE /api/notes/{id}", middleware.CSRFProtect(middleware.RequireAuth(noteHandler.Delete)))
	mux.HandleFunc("POST /api/notes/{id}/favorite", middleware.CSRFProtect(middleware.RequireAuth(noteHandler.ToggleFavorite)))
	mux.HandleFunc("POST /api/notes/emotion-log", middleware.CSRFProtect(middleware.RequireAuth(noteHandler.CreateEmotionLog)))
	mux.HandleFunc("GET /api/notes/export", middleware.RequireAuth(noteHandler.Export))
	mux.HandleFunc("DELETE /api/notes", middleware.CSRFProtect(middleware.RequireAuth(noteHandler.DeleteAll)))

	// Backup
	mux.HandleFunc("GET /api/backup/export", middleware.RequireAuth(backupHandler.Export))
	mux.HandleFunc("POST /api/backup/import", middleware.CSRFProtect(middleware.RequireAuth(backupHandler.Import)))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Background jobs: autosave sweep + daily study reminders
	jobs := scheduler.New(cat, stateService, userRepo, emailService, cfg.AutosaveInterval, cfg.ReminderHour)
	if err := jobs.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer jobs.Stop()

	// Start background session cleanup
	go cleanupExpiredSessions(authService)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	// Final save pass so nothing active is left behind
	stateService.AutosaveActive()
	log.Println("Shutdown complete")
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		} else {
			log.Println("Expired sessions cleaned up")
		}
	}
}
