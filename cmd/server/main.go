package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/stackit-dev/stackit/backend/internal/router"
	"github.com/stackit-dev/stackit/backend/pkg/cache"
	"github.com/stackit-dev/stackit/backend/pkg/config"
	"github.com/stackit-dev/stackit/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Redis cache (optional, degrades to no-cache)
	cache.InitRedis(cfg.RedisAddr)
	defer cache.CloseRedis()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo, cfg.MongoDBName)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
