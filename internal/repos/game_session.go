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

type GameSessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, session *types.GameSession) error
	GetByID(ctx context.Context, tx *gorm.DB, userID, sessionID uuid.UUID) (*types.GameSession, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.GameSession, error)
}

type gameSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGameSessionRepo(db *gorm.DB, baseLog *logger.Logger) GameSessionRepo {
	return &gameSessionRepo{db: db, log: baseLog.With("repo", "GameSessionRepo")}
}

func (gr *gameSessionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return gr.db
}

func (gr *gameSessionRepo) Create(ctx context.Context, tx *gorm.DB, session *types.GameSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.Date.IsZero() {
		session.Date = time.Now().UTC()
	}
	return gr.conn(tx).WithContext(ctx).Create(session).Error
}

func (gr *gameSessionRepo) GetByID(ctx context.Context, tx *gorm.DB, userID, sessionID uuid.UUID) (*types.GameSession, error) {
	var session types.GameSession
	err := gr.conn(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (gr *gameSessionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.GameSession, error) {
	var results []*types.GameSession
	if err := gr.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
