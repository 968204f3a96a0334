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

type JournalRepo interface {
	Create(ctx context.Context, tx *gorm.DB, journal *types.JournalEntry) error
	GetByID(ctx context.Context, tx *gorm.DB, moodID, journalID uuid.UUID) (*types.JournalEntry, error)
	ListByMood(ctx context.Context, tx *gorm.DB, moodID uuid.UUID) ([]*types.JournalEntry, error)
	ListByMoodIDs(ctx context.Context, tx *gorm.DB, moodIDs []uuid.UUID) ([]*types.JournalEntry, error)
	Update(ctx context.Context, tx *gorm.DB, journal *types.JournalEntry) error
	Delete(ctx context.Context, tx *gorm.DB, moodID, journalID uuid.UUID) (bool, error)
}

type journalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJournalRepo(db *gorm.DB, baseLog *logger.Logger) JournalRepo {
	return &journalRepo{db: db, log: baseLog.With("repo", "JournalRepo")}
}

func (jr *journalRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return jr.db
}

func (jr *journalRepo) Create(ctx context.Context, tx *gorm.DB, journal *types.JournalEntry) error {
	if journal.ID == uuid.Nil {
		journal.ID = uuid.New()
	}
	if journal.Date.IsZero() {
		journal.Date = time.Now().UTC()
	}
	return jr.conn(tx).WithContext(ctx).Create(journal).Error
}

func (jr *journalRepo) GetByID(ctx context.Context, tx *gorm.DB, moodID, journalID uuid.UUID) (*types.JournalEntry, error) {
	var journal types.JournalEntry
	err := jr.conn(tx).WithContext(ctx).
		Where("id = ? AND mood_id = ?", journalID, moodID).
		First(&journal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &journal, nil
}

func (jr *journalRepo) ListByMood(ctx context.Context, tx *gorm.DB, moodID uuid.UUID) ([]*types.JournalEntry, error) {
	var results []*types.JournalEntry
	if err := jr.conn(tx).WithContext(ctx).
		Where("mood_id = ?", moodID).
		Order("date asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListByMoodIDs is the batched lookup the aggregator uses to avoid one
// query per mood.
func (jr *journalRepo) ListByMoodIDs(ctx context.Context, tx *gorm.DB, moodIDs []uuid.UUID) ([]*types.JournalEntry, error) {
	var results []*types.JournalEntry
	if len(moodIDs) == 0 {
		return results, nil
	}
	if err := jr.conn(tx).WithContext(ctx).
		Where("mood_id IN ?", moodIDs).
		Order("date asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (jr *journalRepo) Update(ctx context.Context, tx *gorm.DB, journal *types.JournalEntry) error {
	return jr.conn(tx).WithContext(ctx).Save(journal).Error
}

func (jr *journalRepo) Delete(ctx context.Context, tx *gorm.DB, moodID, journalID uuid.UUID) (bool, error) {
	res := jr.conn(tx).WithContext(ctx).
		Where("id = ? AND mood_id = ?", journalID, moodID).
		Delete(&types.JournalEntry{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
