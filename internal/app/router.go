package app

import (
	"github.com/gin-gonic/gin"

	"github.com/calmly/calmly-backend/internal/server"
)

func wireRouter(h Handlers, m Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:     h.Auth,
		AuthMiddleware:  m.Auth,
		UserHandler:     h.User,
		MoodHandler:     h.Mood,
		JournalHandler:  h.Journal,
		ResourceHandler: h.Resource,
		GameHandler:     h.Game,
		InsightHandler:  h.Insight,
	})
}
