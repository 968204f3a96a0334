package app

import (
	"gorm.io/gorm"

	"github.com/calmly/calmly-backend/internal/platform/logger"
	"github.com/calmly/calmly-backend/internal/repos"
)

type Repos struct {
	User      repos.UserRepo
	UserToken repos.UserTokenRepo
	Mood      repos.MoodRepo
	Journal   repos.JournalRepo
	Insight   repos.InsightRepo
	Resource  repos.ResourceRepo
	Game      repos.GameSessionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      repos.NewUserRepo(db, log),
		UserToken: repos.NewUserTokenRepo(db, log),
		Mood:      repos.NewMoodRepo(db, log),
		Journal:   repos.NewJournalRepo(db, log),
		Insight:   repos.NewInsightRepo(db, log),
		Resource:  repos.NewResourceRepo(db, log),
		Game:      repos.NewGameSessionRepo(db, log),
	}
}
