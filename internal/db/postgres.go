package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/calmly/calmly-backend/internal/platform/envutil"
	"github.com/calmly/calmly-backend/internal/platform/logger"
	"github.com/calmly/calmly-backend/internal/types"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	host := envutil.String("POSTGRES_HOST", "localhost")
	port := envutil.String("POSTGRES_PORT", "5432")
	user := envutil.String("POSTGRES_USER", "postgres")
	password := envutil.String("POSTGRES_PASSWORD", "")
	name := envutil.String("POSTGRES_NAME", "calmly")
	sslMode := envutil.String("POSTGRES_SSLMODE", "disable")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, password, host, port, name, sslMode)

	serviceLog.Info("Connecting to Postgres...")
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return &PostgresService{db: gormDB, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := s.db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.MoodEntry{},
		&types.JournalEntry{},
		&types.Resource{},
		&types.InsightRecord{},
		&types.GameSession{},
	); err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	constraints := []struct {
		table, name, ddl string
	}{
		{
			table: "user_token",
			name:  "fk_user_token_user_id",
			ddl:   `FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`,
		},
		{
			table: "mood_entry",
			name:  "fk_mood_entry_user_id",
			ddl:   `FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`,
		},
		{
			table: "journal_entry",
			name:  "fk_journal_entry_mood_id",
			ddl:   `FOREIGN KEY ("mood_id") REFERENCES "mood_entry"("id") ON DELETE CASCADE`,
		},
		{
			table: "game_session",
			name:  "fk_game_session_user_id",
			ddl:   `FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`,
		},
		{
			table: "insight_record",
			name:  "fk_insight_record_user_id",
			ddl:   `FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`,
		},
	}
	for _, c := range constraints {
		drop := fmt.Sprintf(`ALTER TABLE %q DROP CONSTRAINT IF EXISTS %q`, c.table, c.name)
		if err := s.db.Exec(drop).Error; err != nil {
			return fmt.Errorf("failed to drop constraint %s: %w", c.name, err)
		}
		add := fmt.Sprintf(`ALTER TABLE %q ADD CONSTRAINT %q %s`, c.table, c.name, c.ddl)
		if err := s.db.Exec(add).Error; err != nil {
			return fmt.Errorf("failed to add constraint %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
