package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calmly/calmly-backend/internal/platform/logger"
	"github.com/calmly/calmly-backend/internal/types"
)

type InsightRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.InsightRecord, error)
	Create(ctx context.Context, tx *gorm.DB, record *types.InsightRecord) error
	UpdateFields(ctx context.Context, tx *gorm.DB, userID uuid.UUID, updates map[string]any) error
}

type insightRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInsightRepo(db *gorm.DB, baseLog *logger.Logger) InsightRepo {
	return &insightRepo{db: db, log: baseLog.With("repo", "InsightRepo")}
}

func (ir *insightRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return ir.db
}

func (ir *insightRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.InsightRecord, error) {
	var record types.InsightRecord
	err := ir.conn(tx).WithContext(ctx).Where("user_id = ?", userID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (ir *insightRepo) Create(ctx context.Context, tx *gorm.DB, record *types.InsightRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return ir.conn(tx).WithContext(ctx).Create(record).Error
}

// UpdateFields mutates the single per-user record in place. Regeneration
// never creates a second record for a user.
func (ir *insightRepo) UpdateFields(ctx context.Context, tx *gorm.DB, userID uuid.UUID, updates map[string]any) error {
	return ir.conn(tx).WithContext(ctx).
		Model(&types.InsightRecord{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
}
