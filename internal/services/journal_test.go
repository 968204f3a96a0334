package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calmly/calmly-backend/internal/platform/apierr"
	"github.com/calmly/calmly-backend/internal/repos"
	"github.com/calmly/calmly-backend/internal/requestdata"
	"github.com/calmly/calmly-backend/internal/types"
)

func newJournalHarness(t *testing.T) (JournalService, *gorm.DB, uuid.UUID, context.Context) {
	t.Helper()
	db := testDB(t)
	log := testLogger(t)
	svc := NewJournalService(db, log, repos.NewMoodRepo(db, log), repos.NewJournalRepo(db, log))
	userID := uuid.New()
	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})
	return svc, db, userID, ctx
}

func TestJournalCreateRequiresExistingMood(t *testing.T) {
	svc, _, userID, ctx := newJournalHarness(t)

	_, err := svc.Create(ctx, userID, uuid.New(), JournalInput{Title: strPtr("orphan")})
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != 404 || apiErr.Code != "mood_not_found" {
		t.Fatalf("creating under a missing mood: want 404 mood_not_found, got %v", err)
	}
}

func TestJournalCreateUnderOwnMood(t *testing.T) {
	svc, db, userID, ctx := newJournalHarness(t)
	mood := seedMood(t, db, userID, 6, insightTestNow)

	journal, err := svc.Create(ctx, userID, mood.ID, JournalInput{Title: strPtr("today"), Content: "a walk in the park"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if journal.MoodID != mood.ID {
		t.Fatalf("journal bound to wrong mood")
	}

	listed, err := svc.List(ctx, userID, mood.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].Title != "today" {
		t.Fatalf("list: got %+v", listed)
	}
}

func TestJournalCreateUnderSomeoneElsesMood(t *testing.T) {
	svc, db, userID, ctx := newJournalHarness(t)
	otherMood := seedMood(t, db, uuid.New(), 6, insightTestNow)

	// The mood exists but belongs to another user, so from this user's view
	// it does not exist.
	_, err := svc.Create(ctx, userID, otherMood.ID, JournalInput{Title: strPtr("nope")})
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != 404 {
		t.Fatalf("want 404 for foreign mood, got %v", err)
	}
}

func TestJournalUpdateAndDelete(t *testing.T) {
	svc, db, userID, ctx := newJournalHarness(t)
	mood := seedMood(t, db, userID, 6, insightTestNow)

	journal, err := svc.Create(ctx, userID, mood.ID, JournalInput{Title: strPtr("draft"), Content: "v1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, userID, mood.ID, journal.ID, JournalInput{Title: strPtr("final"), Content: "v2"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "final" || updated.Content != "v2" {
		t.Fatalf("update: got %+v", updated)
	}

	if err := svc.Delete(ctx, userID, mood.ID, journal.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var n int64
	if err := db.Model(&types.JournalEntry{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("journal rows after delete: want 0 got %d", n)
	}
}

func TestJournalInputBindingAcceptsEmptyTitle(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"","content":"untitled thoughts"}`))
	var input JournalInput
	if err := binding.JSON.Bind(req, &input); err != nil {
		t.Fatalf("binding an empty title: %v", err)
	}
	if input.Title == nil || *input.Title != "" {
		t.Fatalf("title: got %v", input.Title)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"content":"no title"}`))
	if err := binding.JSON.Bind(req, &JournalInput{}); err == nil {
		t.Fatalf("omitting the title field should fail binding")
	}
}
