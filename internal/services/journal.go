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

// JournalInput uses a pointer for the title so an empty string is a valid
// submitted title rather than a binding failure.
type JournalInput struct {
	Title   *string `json:"title" binding:"required"`
	Content string  `json:"content"`
}

type JournalService interface {
	Create(ctx context.Context, userID, moodID uuid.UUID, input JournalInput) (*types.JournalEntry, error)
	List(ctx context.Context, userID, moodID uuid.UUID) ([]*types.JournalEntry, error)
	Get(ctx context.Context, userID, moodID, journalID uuid.UUID) (*types.JournalEntry, error)
	Update(ctx context.Context, userID, moodID, journalID uuid.UUID, input JournalInput) (*types.JournalEntry, error)
	Delete(ctx context.Context, userID, moodID, journalID uuid.UUID) error
}

type journalService struct {
	db          *gorm.DB
	log         *logger.Logger
	moodRepo    repos.MoodRepo
	journalRepo repos.JournalRepo
}

func NewJournalService(db *gorm.DB, log *logger.Logger, moodRepo repos.MoodRepo, journalRepo repos.JournalRepo) JournalService {
	return &journalService{
		db:          db,
		log:         log.With("service", "JournalService"),
		moodRepo:    moodRepo,
		journalRepo: journalRepo,
	}
}

// requireMood enforces the ownership chain: the mood must exist and belong
// to the requesting user before any journal under it can be touched. A
// journal is never created against a missing mood.
func (js *journalService) requireMood(ctx context.Context, userID, moodID uuid.UUID) error {
	if err := requireSelf(ctx, userID); err != nil {
		return err
	}
	mood, err := js.moodRepo.GetByID(ctx, nil, userID, moodID)
	if err != nil {
		return fmt.Errorf("load mood: %w", err)
	}
	if mood == nil {
		return apierr.New(http.StatusNotFound, "mood_not_found", errors.New("mood entry not found"))
	}
	return nil
}

func (js *journalService) Create(ctx context.Context, userID, moodID uuid.UUID, input JournalInput) (*types.JournalEntry, error) {
	if err := js.requireMood(ctx, userID, moodID); err != nil {
		return nil, err
	}
	journal := &types.JournalEntry{
		MoodID:  moodID,
		Title:   *input.Title,
		Content: input.Content,
	}
	if err := js.journalRepo.Create(ctx, nil, journal); err != nil {
		return nil, fmt.Errorf("create journal: %w", err)
	}
	return journal, nil
}

func (js *journalService) List(ctx context.Context, userID, moodID uuid.UUID) ([]*types.JournalEntry, error) {
	if err := js.requireMood(ctx, userID, moodID); err != nil {
		return nil, err
	}
	return js.journalRepo.ListByMood(ctx, nil, moodID)
}

func (js *journalService) Get(ctx context.Context, userID, moodID, journalID uuid.UUID) (*types.JournalEntry, error) {
	if err := js.requireMood(ctx, userID, moodID); err != nil {
		return nil, err
	}
	journal, err := js.journalRepo.GetByID(ctx, nil, moodID, journalID)
	if err != nil {
		return nil, fmt.Errorf("load journal: %w", err)
	}
	if journal == nil {
		return nil, apierr.New(http.StatusNotFound, "journal_not_found", errors.New("journal entry not found"))
	}
	return journal, nil
}

func (js *journalService) Update(ctx context.Context, userID, moodID, journalID uuid.UUID, input JournalInput) (*types.JournalEntry, error) {
	journal, err := js.Get(ctx, userID, moodID, journalID)
	if err != nil {
		return nil, err
	}
	journal.Title = *input.Title
	journal.Content = input.Content
	if err := js.journalRepo.Update(ctx, nil, journal); err != nil {
		return nil, fmt.Errorf("update journal: %w", err)
	}
	return journal, nil
}

func (js *journalService) Delete(ctx context.Context, userID, moodID, journalID uuid.UUID) error {
	if err := js.requireMood(ctx, userID, moodID); err != nil {
		return err
	}
	deleted, err := js.journalRepo.Delete(ctx, nil, moodID, journalID)
	if err != nil {
		return fmt.Errorf("delete journal: %w", err)
	}
	if !deleted {
		return apierr.New(http.StatusNotFound, "journal_not_found", errors.New("journal entry not found"))
	}
	return nil
}
