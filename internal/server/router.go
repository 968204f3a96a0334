package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/calmly/calmly-backend/internal/handlers"
	"github.com/calmly/calmly-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler     *handlers.AuthHandler
	AuthMiddleware  *middleware.AuthMiddleware
	UserHandler     *handlers.UserHandler
	MoodHandler     *handlers.MoodHandler
	JournalHandler  *handlers.JournalHandler
	ResourceHandler *handlers.ResourceHandler
	GameHandler     *handlers.GameHandler
	InsightHandler  *handlers.InsightHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("calmly-backend"))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/auth/register", cfg.AuthHandler.Register)
	router.POST("/auth/login", cfg.AuthHandler.Login)
	router.GET("/resources", cfg.ResourceHandler.List)
	router.GET("/resources/recommend", cfg.ResourceHandler.Recommend)
	router.GET("/resources/:resource_id", cfg.ResourceHandler.Get)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/auth/logout", cfg.AuthHandler.Logout)
	// Users
	protected.GET("/users", cfg.UserHandler.List)
	protected.GET("/users/:user_id", cfg.UserHandler.Get)
	protected.PUT("/users/:user_id", cfg.UserHandler.Update)
	protected.DELETE("/users/:user_id", cfg.UserHandler.Delete)
	// Moods
	protected.POST("/users/:user_id/moods", cfg.MoodHandler.Create)
	protected.GET("/users/:user_id/moods", cfg.MoodHandler.List)
	protected.GET("/users/:user_id/moods/:mood_id", cfg.MoodHandler.Get)
	protected.PUT("/users/:user_id/moods/:mood_id", cfg.MoodHandler.Update)
	protected.DELETE("/users/:user_id/moods/:mood_id", cfg.MoodHandler.Delete)
	// Journals
	protected.POST("/users/:user_id/moods/:mood_id/journals", cfg.JournalHandler.Create)
	protected.GET("/users/:user_id/moods/:mood_id/journals", cfg.JournalHandler.List)
	protected.GET("/users/:user_id/moods/:mood_id/journals/:journal_id", cfg.JournalHandler.Get)
	protected.PUT("/users/:user_id/moods/:mood_id/journals/:journal_id", cfg.JournalHandler.Update)
	protected.DELETE("/users/:user_id/moods/:mood_id/journals/:journal_id", cfg.JournalHandler.Delete)
	// Game sessions
	protected.POST("/users/:user_id/games", cfg.GameHandler.Create)
	protected.GET("/users/:user_id/games", cfg.GameHandler.List)
	protected.GET("/users/:user_id/games/:game_id", cfg.GameHandler.Get)
	// Resources (mutations)
	protected.POST("/resources", cfg.ResourceHandler.Create)
	protected.DELETE("/resources/:resource_id", cfg.ResourceHandler.Delete)
	// Insights
	protected.GET("/users/:user_id/insights", cfg.InsightHandler.Get)

	return router
}
