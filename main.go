package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"vetclinic-server/internal/config"
	"vetclinic-server/internal/mailer"
	"vetclinic-server/internal/models"
	"vetclinic-server/internal/notifier"
	"vetclinic-server/internal/routes"
	"vetclinic-server/internal/services"
	"vetclinic-server/internal/utils"
)

func main() {
	// Load environment variables; a missing .env is fine, defaults apply.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database connection
	db, err := models.InitDB(models.DatabaseConfig{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
	})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	// Seed the first admin login on a fresh database.
	if err := models.EnsureDefaultAdmin(db, "admin", "admin123"); err != nil {
		log.Fatalf("Error seeding admin account: %v", err)
	}

	// Route errors to the log file and error_logs table.
	if err := utils.SetupErrorLog(db, cfg.ErrorLogFile); err != nil {
		log.Fatalf("Error opening error log: %v", err)
	}

	// Initialize Gin router
	router := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Start the background reminder scanner
	n := notifier.New(
		services.NewReminderService(db),
		services.NewInventoryService(db),
		mailer.New(cfg.SMTP),
		time.Duration(cfg.ReminderScanSeconds)*time.Second,
	)
	n.Start()
	defer n.Stop()

	// Set up routes - passing DB and config to let routes.go create the handlers
	routes.SetupRoutes(router, db, cfg, n)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	fmt.Printf("Server running on port %s\n", cfg.Port)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
