package main

import (
	"log"
	"time"

	"lawyer_app_go/config"
	"lawyer_app_go/db"
	"lawyer_app_go/handlers"
	"lawyer_app_go/middleware"
	"lawyer_app_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := config.ValidateSessionSecret(cfg.SessionSecret, cfg.Environment); err != nil {
		log.Fatalf("Invalid session secret: %v", err)
	}

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Public routes (no authentication required)
	e.GET("/auth/google/login", handlers.GoogleLoginHandler)
	e.GET("/auth/google/callback", handlers.GoogleCallbackHandler)

	// Protected routes
	protected := e.Group("")
	protected.Use(middleware.RequireAuth())
	protected.Use(middleware.AuditContext())
	{
		protected.POST("/logout", handlers.LogoutHandler)
		protected.GET("/api/me", handlers.GetCurrentUserHandler)

		protected.GET("/api/cases/load", handlers.LoadCasesHandler)
		protected.POST("/api/cases/save", handlers.SaveCasesHandler)
		protected.GET("/api/cases/export", handlers.ExportCasesHandler)
		protected.GET("/api/cases/:id/statement", handlers.StatementPDFHandler)
		protected.POST("/api/cases/:id/statement/email", handlers.EmailStatementHandler)
		protected.GET("/api/audit", handlers.ListAuditLogsHandler)
	}

	// Start background cleanup job (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			removed, err := services.CleanupExpiredSessions(db.DB)
			if err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
