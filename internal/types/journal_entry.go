package types

import (
	"time"

	"github.com/google/uuid"
)

// JournalEntry belongs to exactly one MoodEntry. The owning mood must exist
// at creation time; orphaned journals cannot be created.
type JournalEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MoodID    uuid.UUID `gorm:"type:uuid;index;not null;column:mood_id" json:"mood_id"`
	Title     string    `gorm:"not null;column:title" json:"title"`
	Content   string    `gorm:"type:text;column:content" json:"content"`
	Date      time.Time `gorm:"index;not null;column:date" json:"date"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (JournalEntry) TableName() string {
	return "journal_entry"
}
