package main

import (
	"log"
	"os"

	"quizforge/config"
	"quizforge/handlers"
	"quizforge/llm"
	"quizforge/logger"
	"quizforge/models"
	"quizforge/routes"
	"quizforge/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	appLog, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer appLog.Sync()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		appLog.Fatal("Failed to connect to database", "error", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Quiz{},
		&models.Question{},
		&models.QuizAttempt{},
	)
	if err != nil {
		appLog.Fatal("Failed to migrate database", "error", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// External generation service
	llmClient, err := llm.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	if err != nil {
		appLog.Fatal("Failed to initialize generation client", "error", err)
	}

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret)
	quizService := services.NewQuizService(db, llmClient, appLog, cfg.MinQuestions, cfg.MaxQuestions)
	attemptService := services.NewAttemptService(db)
	sessionStore := services.NewRedisSessionStore(redisClient)
	sessionService := services.NewSessionService(db, sessionStore, attemptService, appLog)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	quizHandler := handlers.NewQuizHandler(quizService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	attemptHandler := handlers.NewAttemptHandler(attemptService)

	// Setup Gin router
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	// Setup routes
	routes.SetupRoutes(router, authHandler, quizHandler, sessionHandler, attemptHandler, cfg.JWTSecret)

	// Start server
	appLog.Info("Server starting", "port", cfg.Port)
	if err := router.Run(cfg.BindAddress + ":" + cfg.Port); err != nil {
		appLog.Fatal("Failed to start server", "error", err)
	}
}
