package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/calmly/calmly-backend/internal/jobs"
	"github.com/calmly/calmly-backend/internal/platform/apierr"
	"github.com/calmly/calmly-backend/internal/repos"
	"github.com/calmly/calmly-backend/internal/requestdata"
	"github.com/calmly/calmly-backend/internal/types"
)

type stubAI struct {
	payload *types.InsightPayload
	err     error
	gate    chan struct{}
	calls   int32
}

func (s *stubAI) GenerateInsights(ctx context.Context, summary *AggregateSummary) (*types.InsightPayload, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.gate != nil {
		<-s.gate
	}
	return s.payload, s.err
}

var insightTestNow = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

func newInsightHarness(t *testing.T, ai AIClient) (*insightService, *gorm.DB, uuid.UUID, context.Context) {
	t.Helper()
	db := testDB(t)
	log := testLogger(t)

	moodRepo := repos.NewMoodRepo(db, log)
	journalRepo := repos.NewJournalRepo(db, log)
	insightRepo := repos.NewInsightRepo(db, log)

	aggregator := NewAggregatorService(log, moodRepo, journalRepo).(*aggregatorService)
	aggregator.now = func() time.Time { return insightTestNow }

	dispatcher := jobs.NewDispatcher(log)
	t.Cleanup(dispatcher.Shutdown)

	svc := NewInsightService(db, log, insightRepo, aggregator, ai, dispatcher, 24*time.Hour, 30).(*insightService)
	svc.now = func() time.Time { return insightTestNow }

	userID := uuid.New()
	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})
	return svc, db, userID, ctx
}

func insightRecordFor(t *testing.T, db *gorm.DB, userID uuid.UUID) *types.InsightRecord {
	t.Helper()
	var record types.InsightRecord
	if err := db.Where("user_id = ?", userID).First(&record).Error; err != nil {
		t.Fatalf("load insight record: %v", err)
	}
	return &record
}

func insightRecordCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&types.InsightRecord{}).Count(&n).Error; err != nil {
		t.Fatalf("count insight records: %v", err)
	}
	return n
}

func waitForStatus(t *testing.T, db *gorm.DB, userID uuid.UUID, status string) *types.InsightRecord {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		record := insightRecordFor(t, db, userID)
		if record.Status == status {
			return record
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("record never reached status %q", status)
	return nil
}

func TestGetInsightsRejectsOtherUsers(t *testing.T) {
	svc, _, _, ctx := newInsightHarness(t, &stubAI{})

	_, err := svc.GetInsights(ctx, uuid.New())
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != 403 {
		t.Fatalf("want 403 apierr, got %v", err)
	}
}

func TestGetInsightsFirstReadCreatesGenerating(t *testing.T) {
	gate := make(chan struct{})
	ai := &stubAI{payload: startingJourneyPayload(), gate: gate}
	svc, db, userID, ctx := newInsightHarness(t, ai)

	resp, err := svc.GetInsights(ctx, userID)
	if err != nil {
		t.Fatalf("get insights: %v", err)
	}
	if resp.Status != types.InsightStatusGenerating {
		t.Fatalf("status: want generating got %q", resp.Status)
	}
	if resp.Message != generatingMessage {
		t.Fatalf("message: got %q", resp.Message)
	}
	if resp.Insights != nil {
		t.Fatalf("generating response must not carry a payload")
	}

	// A second read while generation is in flight reuses the same record.
	resp, err = svc.GetInsights(ctx, userID)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if resp.Status != types.InsightStatusGenerating {
		t.Fatalf("second status: want generating got %q", resp.Status)
	}
	if n := insightRecordCount(t, db); n != 1 {
		t.Fatalf("record count: want 1 got %d", n)
	}

	close(gate)
	waitForStatus(t, db, userID, types.InsightStatusCompleted)
	if n := insightRecordCount(t, db); n != 1 {
		t.Fatalf("record count after completion: want 1 got %d", n)
	}
}

func TestGetInsightsReturnsFreshCompleted(t *testing.T) {
	ai := &stubAI{}
	svc, db, userID, ctx := newInsightHarness(t, ai)

	payload, _ := json.Marshal(startingJourneyPayload())
	generatedAt := insightTestNow.Add(-time.Hour)
	record := &types.InsightRecord{
		ID:                  uuid.New(),
		UserID:              userID,
		Status:              types.InsightStatusCompleted,
		InsightsJSON:        datatypes.JSON(payload),
		GeneratedAt:         &generatedAt,
		AnalysisPeriodStart: insightTestNow.AddDate(0, 0, -30),
		AnalysisPeriodEnd:   insightTestNow,
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("seed record: %v", err)
	}

	resp, err := svc.GetInsights(ctx, userID)
	if err != nil {
		t.Fatalf("get insights: %v", err)
	}
	if resp.Status != types.InsightStatusCompleted {
		t.Fatalf("status: want completed got %q", resp.Status)
	}
	if resp.Insights == nil || !strings.Contains(resp.Insights.Overview, "starting your wellness journey") {
		t.Fatalf("cached payload not returned: %+v", resp.Insights)
	}
	if atomic.LoadInt32(&ai.calls) != 0 {
		t.Fatalf("fresh cached read must not call the model")
	}
}

func TestGetInsightsFreshnessBoundary(t *testing.T) {
	cases := []struct {
		name       string
		age        time.Duration
		wantStatus string
	}{
		{"one second inside window", 24*time.Hour - time.Second, types.InsightStatusCompleted},
		{"one second past window", 24*time.Hour + time.Second, types.InsightStatusGenerating},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ai := &stubAI{payload: startingJourneyPayload()}
			svc, db, userID, ctx := newInsightHarness(t, ai)

			payload, _ := json.Marshal(startingJourneyPayload())
			generatedAt := insightTestNow.Add(-tc.age)
			record := &types.InsightRecord{
				ID:                  uuid.New(),
				UserID:              userID,
				Status:              types.InsightStatusCompleted,
				InsightsJSON:        datatypes.JSON(payload),
				GeneratedAt:         &generatedAt,
				AnalysisPeriodStart: insightTestNow.AddDate(0, 0, -30),
				AnalysisPeriodEnd:   insightTestNow,
			}
			if err := db.Create(record).Error; err != nil {
				t.Fatalf("seed record: %v", err)
			}

			resp, err := svc.GetInsights(ctx, userID)
			if err != nil {
				t.Fatalf("get insights: %v", err)
			}
			if resp.Status != tc.wantStatus {
				t.Fatalf("status: want %q got %q", tc.wantStatus, resp.Status)
			}
			if tc.wantStatus == types.InsightStatusCompleted && atomic.LoadInt32(&ai.calls) != 0 {
				t.Fatalf("a record inside the window must be served from cache")
			}
		})
	}
}

func TestGetInsightsRegeneratesStale(t *testing.T) {
	gate := make(chan struct{})
	ai := &stubAI{payload: startingJourneyPayload(), gate: gate}
	svc, db, userID, ctx := newInsightHarness(t, ai)

	payload, _ := json.Marshal(startingJourneyPayload())
	generatedAt := insightTestNow.Add(-25 * time.Hour)
	record := &types.InsightRecord{
		ID:                  uuid.New(),
		UserID:              userID,
		Status:              types.InsightStatusCompleted,
		InsightsJSON:        datatypes.JSON(payload),
		GeneratedAt:         &generatedAt,
		AnalysisPeriodStart: insightTestNow.AddDate(0, 0, -31),
		AnalysisPeriodEnd:   insightTestNow.AddDate(0, 0, -1),
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("seed record: %v", err)
	}

	resp, err := svc.GetInsights(ctx, userID)
	if err != nil {
		t.Fatalf("get insights: %v", err)
	}
	if resp.Status != types.InsightStatusGenerating {
		t.Fatalf("stale record must regenerate, got status %q", resp.Status)
	}
	close(gate)
	waitForStatus(t, db, userID, types.InsightStatusCompleted)
}

func TestGetInsightsRegeneratesUnparseablePayload(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	ai := &stubAI{payload: startingJourneyPayload(), gate: gate}
	svc, db, userID, ctx := newInsightHarness(t, ai)

	generatedAt := insightTestNow.Add(-time.Hour)
	record := &types.InsightRecord{
		ID:                  uuid.New(),
		UserID:              userID,
		Status:              types.InsightStatusCompleted,
		InsightsJSON:        datatypes.JSON([]byte("not json at all")),
		GeneratedAt:         &generatedAt,
		AnalysisPeriodStart: insightTestNow.AddDate(0, 0, -30),
		AnalysisPeriodEnd:   insightTestNow,
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("seed record: %v", err)
	}

	resp, err := svc.GetInsights(ctx, userID)
	if err != nil {
		t.Fatalf("get insights: %v", err)
	}
	if resp.Status != types.InsightStatusGenerating {
		t.Fatalf("unreadable payload must regenerate, got status %q", resp.Status)
	}
}

func TestGetInsightsFailedRecordResetsWindow(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	ai := &stubAI{payload: startingJourneyPayload(), gate: gate}
	svc, db, userID, ctx := newInsightHarness(t, ai)

	record := &types.InsightRecord{
		ID:                  uuid.New(),
		UserID:              userID,
		Status:              types.InsightStatusFailed,
		InsightsJSON:        datatypes.JSON([]byte(`{"error":true}`)),
		AnalysisPeriodStart: insightTestNow.AddDate(0, 0, -90),
		AnalysisPeriodEnd:   insightTestNow.AddDate(0, 0, -60),
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("seed record: %v", err)
	}

	resp, err := svc.GetInsights(ctx, userID)
	if err != nil {
		t.Fatalf("get insights: %v", err)
	}
	if resp.Status != types.InsightStatusGenerating {
		t.Fatalf("failed record must regenerate, got status %q", resp.Status)
	}
	wantStart := insightTestNow.AddDate(0, 0, -30)
	if !resp.AnalysisPeriodStart.Equal(wantStart) {
		t.Fatalf("window start: want %v got %v", wantStart, resp.AnalysisPeriodStart)
	}
	if !resp.AnalysisPeriodEnd.Equal(insightTestNow) {
		t.Fatalf("window end: want %v got %v", insightTestNow, resp.AnalysisPeriodEnd)
	}
}

func TestRunGenerationPersistsCompletedPayload(t *testing.T) {
	ai := &stubAI{payload: &types.InsightPayload{
		Overview:            "steady month",
		Patterns:            []types.InsightPattern{},
		Themes:              []types.InsightTheme{},
		PersonalizedMessage: "nice work",
		KeyInsights:         []string{"a", "b", "c"},
	}}
	svc, db, userID, _ := newInsightHarness(t, ai)

	seedMood(t, db, userID, 7, insightTestNow.AddDate(0, 0, -2))

	if err := svc.runGeneration(context.Background(), userID); err != nil {
		t.Fatalf("run generation: %v", err)
	}

	record := insightRecordFor(t, db, userID)
	if record.Status != types.InsightStatusCompleted {
		t.Fatalf("status: want completed got %q", record.Status)
	}
	if record.GeneratedAt == nil {
		t.Fatalf("generated_at must be set")
	}
	var payload types.InsightPayload
	if err := json.Unmarshal(record.InsightsJSON, &payload); err != nil {
		t.Fatalf("stored payload unreadable: %v", err)
	}
	if payload.Overview != "steady month" {
		t.Fatalf("overview: got %q", payload.Overview)
	}
}

func TestRunGenerationFailureWritesErrorPayload(t *testing.T) {
	ai := &stubAI{err: &UpstreamError{Err: errors.New("model exploded")}}
	svc, db, userID, _ := newInsightHarness(t, ai)

	seedMood(t, db, userID, 7, insightTestNow.AddDate(0, 0, -2))

	if err := svc.runGeneration(context.Background(), userID); err == nil {
		t.Fatalf("expected generation to fail")
	}

	record := insightRecordFor(t, db, userID)
	if record.Status != types.InsightStatusFailed {
		t.Fatalf("status: want failed got %q", record.Status)
	}
	var stored map[string]any
	if err := json.Unmarshal(record.InsightsJSON, &stored); err != nil {
		t.Fatalf("error payload unreadable: %v", err)
	}
	if stored["error"] != true {
		t.Fatalf("error payload must set error=true, got %v", stored)
	}
	if msg, _ := stored["message"].(string); !strings.Contains(msg, "model exploded") {
		t.Fatalf("error message should carry the cause, got %q", msg)
	}
}
