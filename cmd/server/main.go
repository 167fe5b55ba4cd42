package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mkgstf/DocRP-Backend/internal/config"
	"github.com/mkgstf/DocRP-Backend/internal/db"
	"github.com/mkgstf/DocRP-Backend/internal/email"
	"github.com/mkgstf/DocRP-Backend/internal/jobs"
	"github.com/mkgstf/DocRP-Backend/internal/metrics"
	"github.com/mkgstf/DocRP-Backend/internal/server"
)

func main() {
	// Load .env if present, real env vars win
	godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Seed the medicine/diagnosis catalogs when a seed file is configured
	if cfg.SeedFile != "" {
		catalog, err := cfg.LoadSeedCatalog()
		if err != nil {
			log.Fatalf("Failed to load seed catalog: %v", err)
		}
		if err := database.SeedCatalog(ctx, catalog); err != nil {
			log.Fatalf("Failed to seed catalog: %v", err)
		}
		log.Printf("Seed catalog loaded from %s", cfg.SeedFile)
	}

	metrics.Init(database)

	notifier := email.NewNotifier(cfg)

	// Background reminder sweeper
	sweeper := jobs.NewReminderSweeper(database, notifier, cfg.ReminderInterval, cfg.ReminderLead)
	go sweeper.Start(ctx)

	srv := server.New(cfg)
	srv.RegisterRoutes(database, notifier)

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
