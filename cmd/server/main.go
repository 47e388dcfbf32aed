package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rupmejs/CareRemote-sub000/internal/config"
	"github.com/Rupmejs/CareRemote-sub000/internal/database"
	"github.com/Rupmejs/CareRemote-sub000/internal/handlers"
	"github.com/Rupmejs/CareRemote-sub000/internal/imagestore"
	"github.com/Rupmejs/CareRemote-sub000/internal/relay"
	"github.com/Rupmejs/CareRemote-sub000/internal/repository"
	"github.com/Rupmejs/CareRemote-sub000/internal/security"
	"github.com/Rupmejs/CareRemote-sub000/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
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

	// Profile photo storage
	images, err := imagestore.New(cfg.ImageStorePath)
	if err != nil {
		log.Fatalf("Failed to initialize image store: %v", err)
	}

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	chatRepo := repository.NewChatRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	widgetRepo := repository.NewWidgetRepository(db)

	// Live chat relay
	hub := relay.NewHub()
	go hub.Run()

	// Match notification emails; disabled when SES_FROM_EMAIL is unset
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Initialize services
	authService := service.NewAuthService(accountRepo, cfg.SessionDuration)
	profileService := service.NewProfileService(profileRepo)
	chatService := service.NewChatService(chatRepo, hub)
	matchService := service.NewMatchService(profileRepo, matchRepo, chatRepo, emailService)
	dashboardService := service.NewDashboardService(widgetRepo)

	// Initialize handlers
	csrf := security.NewCSRFGenerator(cfg.CSRFSecret)
	rateLimiter := security.NewRateLimiter(20, time.Minute)
	middleware := handlers.NewMiddleware(authService, csrf, rateLimiter)
	authHandler := handlers.NewAuthHandler(authService, csrf, cfg)
	profileHandler := handlers.NewProfileHandler(profileService, images)
	chatHandler := handlers.NewChatHandler(chatService, matchService, hub)
	matchHandler := handlers.NewMatchHandler(matchService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /logout", authHandler.Logout)
	mux.HandleFunc("GET /auth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", authHandler.OAuthCallback)

	// Account routes
	mux.HandleFunc("GET /me", middleware.RequireAuth(authHandler.Me))

	// Profile routes
	mux.HandleFunc("GET /profile", middleware.RequireAuth(profileHandler.GetProfile))
	mux.HandleFunc("PUT /profile", middleware.RequireAuth(middleware.CSRFProtect(profileHandler.UpdateProfile)))
	mux.HandleFunc("GET /profiles/search", middleware.RequireAuth(profileHandler.SearchProfile))
	mux.HandleFunc("POST /profile/images", middleware.RequireAuth(middleware.CSRFProtect(profileHandler.UploadImage)))
	mux.HandleFunc("GET /profile/images/{ref}", middleware.RequireAuth(profileHandler.GetImage))

	// Match routes
	mux.HandleFunc("GET /matches", middleware.RequireAuth(matchHandler.Matches))
	mux.HandleFunc("GET /matches/candidates", middleware.RequireAuth(matchHandler.Candidates))
	mux.HandleFunc("POST /matches/swipe", middleware.RequireAuth(middleware.CSRFProtect(matchHandler.Swipe)))

	// Chat routes
	mux.HandleFunc("GET /chat/{roomId}/messages", middleware.RequireAuth(chatHandler.GetMessages))
	mux.HandleFunc("POST /chat/{roomId}/messages", middleware.RequireAuth(middleware.CSRFProtect(chatHandler.SendMessage)))
	mux.HandleFunc("GET /chat/{roomId}/preview", middleware.RequireAuth(chatHandler.GetPreview))
	mux.HandleFunc("GET /ws/chat/{roomId}", middleware.RequireAuth(chatHandler.Subscribe))

	// Dashboard routes
	mux.HandleFunc("GET /dashboard/widgets", middleware.RequireAuth(dashboardHandler.GetWidgets))
	mux.HandleFunc("POST /dashboard/widgets", middleware.RequireAuth(middleware.CSRFProtect(dashboardHandler.ToggleWidget)))
	mux.HandleFunc("PUT /dashboard/widgets/{id}", middleware.RequireAuth(middleware.CSRFProtect(dashboardHandler.UpdateWidget)))
	mux.HandleFunc("DELETE /dashboard/widgets/{id}", middleware.RequireAuth(middleware.CSRFProtect(dashboardHandler.DeleteWidget)))
	mux.HandleFunc("GET /dashboard/layout", middleware.RequireAuth(dashboardHandler.GetLayout))

	// Legacy pre-login widget routes
	mux.HandleFunc("GET /legacy/widgets", dashboardHandler.GetLegacyWidgets)
	mux.HandleFunc("POST /legacy/widgets", dashboardHandler.AddLegacyWidget)
	mux.HandleFunc("DELETE /legacy/widgets/{id}", dashboardHandler.DeleteLegacyWidget)

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background session cleanup
	go cleanupExpiredSessions(authService)

	// Graceful shutdown
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
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
