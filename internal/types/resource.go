package types

import (
	"time"

	"github.com/google/uuid"
)

// Resource is one entry in the wellness resource catalogue (breathing
// exercises, music, articles). MoodTags is a comma-separated list of moods
// the resource is recommended for.
type Resource struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string    `gorm:"not null;column:title" json:"title"`
	Type            string    `gorm:"not null;column:type" json:"type"`
	URL             string    `gorm:"column:url" json:"url,omitempty"`
	DurationSeconds int       `gorm:"column:duration_seconds" json:"duration_seconds,omitempty"`
	Tags            string    `gorm:"column:tags" json:"tags,omitempty"`
	MoodTags        string    `gorm:"column:mood_tags" json:"mood_tags,omitempty"`
	Description     string    `gorm:"type:text;column:description" json:"description,omitempty"`
	Public          bool      `gorm:"not null;default:true;column:public" json:"public"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
}

func (Resource) TableName() string {
	return "resource"
}
