package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/calmly/calmly-backend/internal/jobs"
	"github.com/calmly/calmly-backend/internal/platform/apierr"
	"github.com/calmly/calmly-backend/internal/platform/logger"
	"github.com/calmly/calmly-backend/internal/repos"
	"github.com/calmly/calmly-backend/internal/requestdata"
	"github.com/calmly/calmly-backend/internal/types"
)

const generatingMessage = "Generating your insights... This may take a few moments."

// InsightsResponse is the read-path contract: callers only ever see
// "completed" or "generating"; a failed record regenerates silently.
type InsightsResponse struct {
	Status              string                `json:"status"`
	Message             string                `json:"message,omitempty"`
	Insights            *types.InsightPayload `json:"insights,omitempty"`
	GeneratedAt         *time.Time            `json:"generated_at"`
	AnalysisPeriodStart time.Time             `json:"analysis_period_start"`
	AnalysisPeriodEnd   time.Time             `json:"analysis_period_end"`
}

type InsightService interface {
	GetInsights(ctx context.Context, userID uuid.UUID) (*InsightsResponse, error)
}

type insightService struct {
	db           *gorm.DB
	log          *logger.Logger
	insightRepo  repos.InsightRepo
	aggregator   AggregatorService
	ai           AIClient
	dispatcher   *jobs.Dispatcher
	freshness    time.Duration
	analysisDays int
	now          func() time.Time
}

func NewInsightService(
	db *gorm.DB,
	log *logger.Logger,
	insightRepo repos.InsightRepo,
	aggregator AggregatorService,
	ai AIClient,
	dispatcher *jobs.Dispatcher,
	freshness time.Duration,
	analysisDays int,
) InsightService {
	return &insightService{
		db:           db,
		log:          log.With("service", "InsightService"),
		insightRepo:  insightRepo,
		aggregator:   aggregator,
		ai:           ai,
		dispatcher:   dispatcher,
		freshness:    freshness,
		analysisDays: analysisDays,
		now:          time.Now,
	}
}

// GetInsights is the freshness state machine. A fresh completed record is
// returned as-is; anything else (absent, failed, stale, in-flight, or a
// stored payload that no longer parses) re-enters generating and schedules
// a background run.
func (is *insightService) GetInsights(ctx context.Context, userID uuid.UUID) (*InsightsResponse, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID != userID {
		return nil, apierr.New(http.StatusForbidden, "forbidden", errors.New("you can only access your own insights"))
	}

	record, err := is.insightRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load insight record: %w", err)
	}

	if record != nil && record.Status == types.InsightStatusCompleted && is.isFresh(record.GeneratedAt) {
		var payload types.InsightPayload
		if err := json.Unmarshal(record.InsightsJSON, &payload); err == nil {
			return &InsightsResponse{
				Status:              types.InsightStatusCompleted,
				Insights:            &payload,
				GeneratedAt:         record.GeneratedAt,
				AnalysisPeriodStart: record.AnalysisPeriodStart,
				AnalysisPeriodEnd:   record.AnalysisPeriodEnd,
			}, nil
		}
		// Stored payload is unreadable: treat as stale and regenerate
		// instead of surfacing a parse error.
		is.log.Warn("Stored insight payload is not valid JSON, regenerating", "user_id", userID)
	}

	now := is.now().UTC()
	periodStart := now.AddDate(0, 0, -is.analysisDays)
	periodEnd := now

	if record == nil {
		record = &types.InsightRecord{
			UserID:              userID,
			Status:              types.InsightStatusGenerating,
			InsightsJSON:        datatypes.JSON([]byte("{}")),
			AnalysisPeriodStart: periodStart,
			AnalysisPeriodEnd:   periodEnd,
		}
		if err := is.insightRepo.Create(ctx, nil, record); err != nil {
			return nil, fmt.Errorf("create insight record: %w", err)
		}
	} else {
		updates := map[string]any{"status": types.InsightStatusGenerating}
		if record.Status == types.InsightStatusFailed {
			updates["analysis_period_start"] = periodStart
			updates["analysis_period_end"] = periodEnd
			record.AnalysisPeriodStart = periodStart
			record.AnalysisPeriodEnd = periodEnd
		}
		if err := is.insightRepo.UpdateFields(ctx, nil, userID, updates); err != nil {
			return nil, fmt.Errorf("mark insight record generating: %w", err)
		}
	}

	is.dispatcher.Submit("insights:"+userID.String(), func(taskCtx context.Context) error {
		return is.runGeneration(taskCtx, userID)
	})

	return &InsightsResponse{
		Status:              types.InsightStatusGenerating,
		Message:             generatingMessage,
		GeneratedAt:         nil,
		AnalysisPeriodStart: record.AnalysisPeriodStart,
		AnalysisPeriodEnd:   record.AnalysisPeriodEnd,
	}, nil
}

func (is *insightService) isFresh(generatedAt *time.Time) bool {
	if generatedAt == nil {
		return false
	}
	return is.now().UTC().Sub(*generatedAt) < is.freshness
}

// runGeneration is the background task body. It runs on the dispatcher's
// context with the service's own storage handle; by the time it executes,
// the triggering request has already returned.
func (is *insightService) runGeneration(ctx context.Context, userID uuid.UUID) error {
	log := is.log.With("user_id", userID.String())
	log.Info("Starting insight generation")

	now := is.now().UTC()

	// Re-affirm generating. The record usually exists by now, but a crash
	// between request and task could have lost it.
	record, err := is.insightRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return fmt.Errorf("load insight record: %w", err)
	}
	if record == nil {
		record = &types.InsightRecord{
			UserID:              userID,
			Status:              types.InsightStatusGenerating,
			InsightsJSON:        datatypes.JSON([]byte("{}")),
			AnalysisPeriodStart: now.AddDate(0, 0, -is.analysisDays),
			AnalysisPeriodEnd:   now,
		}
		if err := is.insightRepo.Create(ctx, nil, record); err != nil {
			return fmt.Errorf("create insight record: %w", err)
		}
	} else if err := is.insightRepo.UpdateFields(ctx, nil, userID, map[string]any{
		"status": types.InsightStatusGenerating,
	}); err != nil {
		return fmt.Errorf("mark insight record generating: %w", err)
	}

	summary, err := is.aggregator.Aggregate(ctx, userID, is.analysisDays)
	if err != nil {
		is.markFailed(ctx, log, userID, err)
		return err
	}

	payload, err := is.ai.GenerateInsights(ctx, summary)
	if err != nil {
		is.markFailed(ctx, log, userID, err)
		return err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		is.markFailed(ctx, log, userID, err)
		return fmt.Errorf("marshal insight payload: %w", err)
	}

	generatedAt := is.now().UTC()
	if err := is.insightRepo.UpdateFields(ctx, nil, userID, map[string]any{
		"status":                types.InsightStatusCompleted,
		"insights_json":         datatypes.JSON(data),
		"generated_at":          generatedAt,
		"analysis_period_start": summary.PeriodStart,
		"analysis_period_end":   summary.PeriodEnd,
	}); err != nil {
		return fmt.Errorf("persist completed insight: %w", err)
	}

	log.Info("Insight generation completed", "period_start", summary.PeriodStart, "period_end", summary.PeriodEnd)
	return nil
}

// markFailed writes the failed state with an error-shaped payload. The
// write is best-effort: if it also fails, only the original error matters.
func (is *insightService) markFailed(ctx context.Context, log *logger.Logger, userID uuid.UUID, cause error) {
	log.Error("Insight generation failed", "error", cause)

	errorPayload := map[string]any{
		"error":    true,
		"message":  fmt.Sprintf("Failed to generate insights: %v", cause),
		"overview": "We encountered an issue generating your insights. Please try again later.",
		"patterns": []any{},
		"themes":   []any{},
		"personalized_message": "We're having trouble generating insights right now. " +
			"Please try refreshing in a moment.",
		"key_insights": []any{},
	}
	data, err := json.Marshal(errorPayload)
	if err != nil {
		log.Warn("Could not marshal error payload", "error", err)
		return
	}
	if err := is.insightRepo.UpdateFields(ctx, nil, userID, map[string]any{
		"status":        types.InsightStatusFailed,
		"insights_json": datatypes.JSON(data),
	}); err != nil {
		log.Warn("Could not persist failed insight state", "error", err)
	}
}
