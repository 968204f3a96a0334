package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calmly/calmly-backend/internal/platform/apierr"
	"github.com/calmly/calmly-backend/internal/platform/logger"
	"github.com/calmly/calmly-backend/internal/repos"
	"github.com/calmly/calmly-backend/internal/types"
)

// GameInput leaves score and duration untagged so a zero score binds cleanly.
type GameInput struct {
	GameType        string `json:"game_type" binding:"required"`
	Score           int    `json:"score"`
	DurationSeconds int    `json:"duration_seconds"`
}

// GameService is the session log for the calming mini-games. Sessions are
// create-and-read only; there is no update or delete surface.
type GameService interface {
	Create(ctx context.Context, userID uuid.UUID, input GameInput) (*types.GameSession, error)
	List(ctx context.Context, userID uuid.UUID) ([]*types.GameSession, error)
	Get(ctx context.Context, userID, sessionID uuid.UUID) (*types.GameSession, error)
}

type gameService struct {
	db       *gorm.DB
	log      *logger.Logger
	gameRepo repos.GameSessionRepo
}

func NewGameService(db *gorm.DB, log *logger.Logger, gameRepo repos.GameSessionRepo) GameService {
	return &gameService{db: db, log: log.With("service", "GameService"), gameRepo: gameRepo}
}

func (gs *gameService) Create(ctx context.Context, userID uuid.UUID, input GameInput) (*types.GameSession, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, err
	}
	session := &types.GameSession{
		UserID:          userID,
		GameType:        input.GameType,
		Score:           input.Score,
		DurationSeconds: input.DurationSeconds,
	}
	if err := gs.gameRepo.Create(ctx, nil, session); err != nil {
		return nil, fmt.Errorf("create game session: %w", err)
	}
	return session, nil
}

func (gs *gameService) List(ctx context.Context, userID uuid.UUID) ([]*types.GameSession, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, err
	}
	return gs.gameRepo.ListByUser(ctx, nil, userID)
}

func (gs *gameService) Get(ctx context.Context, userID, sessionID uuid.UUID) (*types.GameSession, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, err
	}
	session, err := gs.gameRepo.GetByID(ctx, nil, userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load game session: %w", err)
	}
	if session == nil {
		return nil, apierr.New(http.StatusNotFound, "game_session_not_found", errors.New("game session not found"))
	}
	return session, nil
}
