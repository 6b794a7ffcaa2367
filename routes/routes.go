package routes

import (
	"net/http"

	"quizforge/handlers"
	"quizforge/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	quizHandler *handlers.QuizHandler,
	sessionHandler *handlers.SessionHandler,
	attemptHandler *handlers.AttemptHandler,
	jwtSecret string,
) {
	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Quiz creation works anonymously; an authenticated caller
		// becomes the quiz owner.
		api.POST("/quizzes", middleware.OptionalAuthMiddleware(jwtSecret), quizHandler.CreateQuiz)
		api.GET("/quizzes/:id", quizHandler.GetQuizByID)

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			protected.GET("/auth/profile", authHandler.GetProfile)

			// Attempt sessions
			quizzes := protected.Group("/quizzes")
			{
				quizzes.POST("/:id/session", sessionHandler.StartSession)
				quizzes.GET("/:id/session", sessionHandler.GetSession)
				quizzes.POST("/:id/answer", sessionHandler.SelectOption)
				quizzes.POST("/:id/submit", attemptHandler.SubmitAttempt)
			}

			// Attempt history
			history := protected.Group("/history")
			{
				history.GET("", attemptHandler.GetHistory)
				history.GET("/:attemptId", attemptHandler.GetAttempt)
			}
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
