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

// MoodInput uses a pointer for the mood value so a logged 0 (the lowest
// point of the 0-10 convention) survives binding; "required" on a plain
// int would reject it as a missing field.
type MoodInput struct {
	Mood       *int   `json:"mood" binding:"required"`
	Commentary string `json:"commentary"`
}

type MoodService interface {
	Create(ctx context.Context, userID uuid.UUID, input MoodInput) (*types.MoodEntry, error)
	List(ctx context.Context, userID uuid.UUID) ([]*types.MoodEntry, error)
	Get(ctx context.Context, userID, moodID uuid.UUID) (*types.MoodEntry, error)
	Update(ctx context.Context, userID, moodID uuid.UUID, input MoodInput) (*types.MoodEntry, error)
	Delete(ctx context.Context, userID, moodID uuid.UUID) error
}

type moodService struct {
	db       *gorm.DB
	log      *logger.Logger
	moodRepo repos.MoodRepo
}

func NewMoodService(db *gorm.DB, log *logger.Logger, moodRepo repos.MoodRepo) MoodService {
	return &moodService{db: db, log: log.With("service", "MoodService"), moodRepo: moodRepo}
}

func (ms *moodService) Create(ctx context.Context, userID uuid.UUID, input MoodInput) (*types.MoodEntry, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, err
	}
	mood := &types.MoodEntry{
		UserID:     userID,
		Mood:       *input.Mood,
		Commentary: input.Commentary,
	}
	if err := ms.moodRepo.Create(ctx, nil, mood); err != nil {
		return nil, fmt.Errorf("create mood: %w", err)
	}
	return mood, nil
}

func (ms *moodService) List(ctx context.Context, userID uuid.UUID) ([]*types.MoodEntry, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, err
	}
	return ms.moodRepo.ListByUser(ctx, nil, userID)
}

func (ms *moodService) Get(ctx context.Context, userID, moodID uuid.UUID) (*types.MoodEntry, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, err
	}
	mood, err := ms.moodRepo.GetByID(ctx, nil, userID, moodID)
	if err != nil {
		return nil, fmt.Errorf("load mood: %w", err)
	}
	if mood == nil {
		return nil, apierr.New(http.StatusNotFound, "mood_not_found", errors.New("mood entry not found"))
	}
	return mood, nil
}

func (ms *moodService) Update(ctx context.Context, userID, moodID uuid.UUID, input MoodInput) (*types.MoodEntry, error) {
	mood, err := ms.Get(ctx, userID, moodID)
	if err != nil {
		return nil, err
	}
	mood.Mood = *input.Mood
	mood.Commentary = input.Commentary
	if err := ms.moodRepo.Update(ctx, nil, mood); err != nil {
		return nil, fmt.Errorf("update mood: %w", err)
	}
	return mood, nil
}

func (ms *moodService) Delete(ctx context.Context, userID, moodID uuid.UUID) error {
	if err := requireSelf(ctx, userID); err != nil {
		return err
	}
	deleted, err := ms.moodRepo.Delete(ctx, nil, userID, moodID)
	if err != nil {
		return fmt.Errorf("delete mood: %w", err)
	}
	if !deleted {
		return apierr.New(http.StatusNotFound, "mood_not_found", errors.New("mood entry not found"))
	}
	return nil
}
