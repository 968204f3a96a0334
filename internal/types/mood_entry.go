package types

import (
	"time"

	"github.com/google/uuid"
)

// MoodEntry is one logged mood for a user. The mood value is conventionally
// 0-10 but the range is not enforced at this layer.
type MoodEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	Mood       int       `gorm:"not null;column:mood" json:"mood"`
	Commentary string    `gorm:"column:commentary" json:"commentary"`
	Date       time.Time `gorm:"index;not null;column:date" json:"date"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (MoodEntry) TableName() string {
	return "mood_entry"
}
