package app

import (
	"gorm.io/gorm"

	"github.com/calmly/calmly-backend/internal/jobs"
	"github.com/calmly/calmly-backend/internal/platform/gemini"
	"github.com/calmly/calmly-backend/internal/platform/logger"
	"github.com/calmly/calmly-backend/internal/services"
)

type Services struct {
	Auth     services.AuthService
	User     services.UserService
	Mood     services.MoodService
	Journal  services.JournalService
	Resource services.ResourceService
	Game     services.GameService

	Aggregator services.AggregatorService
	AI         services.AIClient
	Insight    services.InsightService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, dispatcher *jobs.Dispatcher) Services {
	log.Info("Wiring services...")

	aggregator := services.NewAggregatorService(log, r.Mood, r.Journal)
	ai := services.NewAIClient(log, gemini.New(log))

	return Services{
		Auth:       services.NewAuthService(db, log, r.User, r.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		User:       services.NewUserService(db, log, r.User),
		Mood:       services.NewMoodService(db, log, r.Mood),
		Journal:    services.NewJournalService(db, log, r.Mood, r.Journal),
		Resource:   services.NewResourceService(db, log, r.Resource),
		Game:       services.NewGameService(db, log, r.Game),
		Aggregator: aggregator,
		AI:         ai,
		Insight:    services.NewInsightService(db, log, r.Insight, aggregator, ai, dispatcher, cfg.InsightFreshness, cfg.AnalysisDays),
	}
}
