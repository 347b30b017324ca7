package main

import (
	"log"
	"os"
	"time"

	"github.com/dashforge/api/internal/config"
	"github.com/dashforge/api/internal/database"
	"github.com/dashforge/api/internal/mailer"
	"github.com/dashforge/api/internal/password"
	"github.com/dashforge/api/internal/server"
	"github.com/dashforge/api/internal/token"
	"github.com/dashforge/api/internal/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.ValidateJWTSecret(); err != nil {
		log.Fatal("❌ JWT Configuration Error: ", err)
	}
	log.Println("✅ JWT secret validated")

	requiredEnvVars := map[string]string{
		"DB_HOST":     os.Getenv("DB_HOST"),
		"DB_NAME":     os.Getenv("DB_NAME"),
		"DB_USER":     os.Getenv("DB_USER"),
		"DB_PASSWORD": os.Getenv("DB_PASSWORD"),
	}

	for key, value := range requiredEnvVars {
		if value == "" {
			log.Fatalf("❌ Required environment variable %s is not set", key)
		}
	}

	// ========== DATABASE SETUP ==========
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("❌ Database connection failed: ", err)
	}
	database.DB = db

	if err := database.Migrate(db); err != nil {
		log.Fatal("❌ Migration failed: ", err)
	}
	log.Println("✅ Database migrated successfully")

	// ========== MAIL ==========
	mailer.Init(cfg)

	// ========== BACKGROUND MAINTENANCE ==========
	// Hourly sweep: expired OTP rows and expired refresh tokens. Both
	// operations are idempotent and safe to run while requests are in
	// flight.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if n, err := password.CleanupExpiredOtps(database.DB); err != nil {
				log.Printf("⚠️  OTP cleanup failed: %v", err)
			} else if n > 0 {
				log.Printf("🧹 Cleaned up %d expired OTPs", n)
			}

			if n, err := token.PurgeExpired(database.DB, time.Now()); err != nil {
				log.Printf("⚠️  Refresh token sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("🧹 Cleaned up %d expired refresh tokens", n)
			}
		}
	}()

	// ========== START SERVER ==========
	app := server.New()

	log.Printf("🚀 DashForge API starting on %s", cfg.ServerAddr)
	log.Printf("🔐 JWT Authentication: Enabled")

	if err := app.Listen(cfg.ServerAddr); err != nil {
		log.Fatal("❌ Failed to start server: ", err)
	}
}
