package router

import (
	"log"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/stackit-dev/stackit/backend/internal/handlers"
	"github.com/stackit-dev/stackit/backend/internal/middleware"
	"github.com/stackit-dev/stackit/backend/internal/models"
	"github.com/stackit-dev/stackit/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, mongoDBName string) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	mongoDB := mgClient.Database(mongoDBName)
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	questionRepo := repositories.NewMongoQuestionRepository(mongoDB)
	answerRepo := repositories.NewMongoAnswerRepository(mongoDB)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(userRepo)
	questionHandler := handlers.NewQuestionHandler(questionRepo, userRepo)
	answerHandler := handlers.NewAnswerHandler(answerRepo, questionRepo, userRepo, notificationRepo)
	userHandler := handlers.NewUserHandler(userRepo, questionRepo, answerRepo)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)

	// --- Unprotected routes ---
	authGroup := e.Group("/api/auth")
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	public := e.Group("/api")
	questionHandler.RegisterPublicQuestionRoutes(public)
	answerHandler.RegisterPublicAnswerRoutes(public)
	userHandler.RegisterPublicUserRoutes(public)
	log.Println("Public browse routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to mutating routes.")

	authHandler.RegisterMeRoute(api)
	questionHandler.RegisterQuestionRoutes(api)
	answerHandler.RegisterAnswerRoutes(api)
	userHandler.RegisterUserRoutes(api)
	notificationHandler.RegisterNotificationRoutes(api)

	log.Println("All routes configured.")
}
