package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calmly/calmly-backend/internal/platform/logger"
	"github.com/calmly/calmly-backend/internal/types"
)

type MoodRepo interface {
	Create(ctx context.Context, tx *gorm.DB, mood *types.MoodEntry) error
	GetByID(ctx context.Context, tx *gorm.DB, userID, moodID uuid.UUID) (*types.MoodEntry, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.MoodEntry, error)
	ListByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.MoodEntry, error)
	Update(ctx context.Context, tx *gorm.DB, mood *types.MoodEntry) error
	Delete(ctx context.Context, tx *gorm.DB, userID, moodID uuid.UUID) (bool, error)
}

type moodRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMoodRepo(db *gorm.DB, baseLog *logger.Logger) MoodRepo {
	return &moodRepo{db: db, log: baseLog.With("repo", "MoodRepo")}
}

func (mr *moodRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return mr.db
}

func (mr *moodRepo) Create(ctx context.Context, tx *gorm.DB, mood *types.MoodEntry) error {
	if mood.ID == uuid.Nil {
		mood.ID = uuid.New()
	}
	if mood.Date.IsZero() {
		mood.Date = time.Now().UTC()
	}
	return mr.conn(tx).WithContext(ctx).Create(mood).Error
}

func (mr *moodRepo) GetByID(ctx context.Context, tx *gorm.DB, userID, moodID uuid.UUID) (*types.MoodEntry, error) {
	var mood types.MoodEntry
	err := mr.conn(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", moodID, userID).
		First(&mood).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mood, nil
}

func (mr *moodRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.MoodEntry, error) {
	var results []*types.MoodEntry
	if err := mr.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListByUserSince returns moods at or after the cutoff, oldest first. The
// aggregator depends on the ascending order for its trend split.
func (mr *moodRepo) ListByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.MoodEntry, error) {
	var results []*types.MoodEntry
	if err := mr.conn(tx).WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *moodRepo) Update(ctx context.Context, tx *gorm.DB, mood *types.MoodEntry) error {
	return mr.conn(tx).WithContext(ctx).Save(mood).Error
}

func (mr *moodRepo) Delete(ctx context.Context, tx *gorm.DB, userID, moodID uuid.UUID) (bool, error) {
	res := mr.conn(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", moodID, userID).
		Delete(&types.MoodEntry{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
