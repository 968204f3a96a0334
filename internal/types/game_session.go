package types

import (
	"time"

	"github.com/google/uuid"
)

// GameSession records one play of a calming mini-game (breathing pacer,
// focus puzzle). Sessions are append-only: created and read, never edited.
type GameSession struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	GameType        string    `gorm:"not null;column:game_type" json:"game_type"`
	Score           int       `gorm:"column:score" json:"score"`
	DurationSeconds int       `gorm:"column:duration_seconds" json:"duration_seconds"`
	Date            time.Time `gorm:"index;not null;column:date" json:"date"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
}

func (GameSession) TableName() string {
	return "game_session"
}
