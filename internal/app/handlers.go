package app

import (
	"github.com/calmly/calmly-backend/internal/handlers"
	"github.com/calmly/calmly-backend/internal/platform/logger"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	User     *handlers.UserHandler
	Mood     *handlers.MoodHandler
	Journal  *handlers.JournalHandler
	Resource *handlers.ResourceHandler
	Game     *handlers.GameHandler
	Insight  *handlers.InsightHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:     handlers.NewAuthHandler(s.Auth),
		User:     handlers.NewUserHandler(s.User),
		Mood:     handlers.NewMoodHandler(s.Mood),
		Journal:  handlers.NewJournalHandler(s.Journal),
		Resource: handlers.NewResourceHandler(s.Resource),
		Game:     handlers.NewGameHandler(s.Game),
		Insight:  handlers.NewInsightHandler(s.Insight),
	}
}
