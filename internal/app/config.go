package app

import (
	"time"

	"github.com/calmly/calmly-backend/internal/platform/envutil"
)

type Config struct {
	Port            string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Insight generation knobs.
	InsightFreshness time.Duration
	AnalysisDays     int

	Environment string
	Version     string
}

func LoadConfig() Config {
	return Config{
		Port:             envutil.String("PORT", "8080"),
		JWTSecretKey:     envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL:   time.Duration(envutil.Int("ACCESS_TOKEN_TTL", 3600)) * time.Second,
		RefreshTokenTTL:  time.Duration(envutil.Int("REFRESH_TOKEN_TTL", 86400)) * time.Second,
		InsightFreshness: time.Duration(envutil.Int("INSIGHTS_FRESHNESS_HOURS", 24)) * time.Hour,
		AnalysisDays:     envutil.Int("ANALYSIS_PERIOD_DAYS", 30),
		Environment:      envutil.String("APP_ENV", "development"),
		Version:          envutil.String("APP_VERSION", "dev"),
	}
}
