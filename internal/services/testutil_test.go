package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/calmly/calmly-backend/internal/platform/logger"
	"github.com/calmly/calmly-backend/internal/types"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.MoodEntry{},
		&types.JournalEntry{},
		&types.InsightRecord{},
		&types.Resource{},
		&types.GameSession{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

func seedMood(t *testing.T, db *gorm.DB, userID uuid.UUID, mood int, date time.Time) *types.MoodEntry {
	t.Helper()
	entry := &types.MoodEntry{ID: uuid.New(), UserID: userID, Mood: mood, Date: date}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("seed mood: %v", err)
	}
	return entry
}

func seedJournal(t *testing.T, db *gorm.DB, moodID uuid.UUID, title, content string, date time.Time) *types.JournalEntry {
	t.Helper()
	entry := &types.JournalEntry{ID: uuid.New(), MoodID: moodID, Title: title, Content: content, Date: date}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("seed journal: %v", err)
	}
	return entry
}
