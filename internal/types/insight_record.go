package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Insight generation lifecycle states. Completed and failed are re-enterable:
// the next stale or forced read moves the record back to generating.
const (
	InsightStatusGenerating = "generating"
	InsightStatusCompleted  = "completed"
	InsightStatusFailed     = "failed"
)

// InsightRecord holds the per-user AI insight lifecycle. At most one record
// exists per user; regeneration mutates it in place.
type InsightRecord struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null;column:user_id" json:"user_id"`
	Status              string         `gorm:"not null;column:status" json:"status"`
	InsightsJSON        datatypes.JSON `gorm:"column:insights_json" json:"insights_json"`
	GeneratedAt         *time.Time     `gorm:"column:generated_at" json:"generated_at"`
	AnalysisPeriodStart time.Time      `gorm:"column:analysis_period_start" json:"analysis_period_start"`
	AnalysisPeriodEnd   time.Time      `gorm:"column:analysis_period_end" json:"analysis_period_end"`
	CreatedAt           time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null" json:"updated_at"`
}

func (InsightRecord) TableName() string {
	return "insight_record"
}
