package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/calmly/calmly-backend/internal/platform/gemini"
	"github.com/calmly/calmly-backend/internal/platform/logger"
	"github.com/calmly/calmly-backend/internal/types"
)

// ErrServiceUnavailable means the generative model cannot be called at all,
// typically because no API key is configured.
var ErrServiceUnavailable = errors.New("generative model service is not configured")

// InvalidResponseError means the model answered but its output failed the
// schema contract: not parseable JSON, or a required field is absent.
type InvalidResponseError struct {
	Reason string
}

func (e *InvalidResponseError) Error() string {
	return "invalid model response: " + e.Reason
}

// UpstreamError wraps a transport-level failure talking to the model.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return "generative model call failed: " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

var requiredInsightFields = []string{"overview", "patterns", "themes", "personalized_message", "key_insights"}

type AIClient interface {
	GenerateInsights(ctx context.Context, summary *AggregateSummary) (*types.InsightPayload, error)
}

type aiClient struct {
	log    *logger.Logger
	gemini *gemini.Client
}

func NewAIClient(log *logger.Logger, geminiClient *gemini.Client) AIClient {
	return &aiClient{
		log:    log.With("service", "AIClient"),
		gemini: geminiClient,
	}
}

func (ac *aiClient) GenerateInsights(ctx context.Context, summary *AggregateSummary) (*types.InsightPayload, error) {
	// Users with no tracked moods get the canned starter payload without a
	// network call.
	if summary.MoodStats.TotalEntries == 0 {
		return startingJourneyPayload(), nil
	}

	if ac.gemini == nil || !ac.gemini.Configured() {
		return nil, ErrServiceUnavailable
	}

	prompt := FormatPrompt(summary)
	raw, err := ac.gemini.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	payload, err := parseInsightResponse(raw)
	if err != nil {
		ac.log.Warn("Model response failed schema contract", "error", err)
		return nil, err
	}
	return payload, nil
}

// parseInsightResponse enforces the output contract. The cleanup steps are
// order-sensitive: strip code fences, cut to the outermost braces, parse,
// then verify every required top-level field is present.
func parseInsightResponse(raw string) (*types.InsightPayload, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[7:]
	}
	if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[3:]
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = cleaned[:len(cleaned)-3]
	}
	cleaned = strings.TrimSpace(cleaned)

	// Defend against leading/trailing prose around the JSON object.
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start != -1 && end > start {
		cleaned = cleaned[start : end+1]
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, &InvalidResponseError{Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}
	for _, field := range requiredInsightFields {
		if _, ok := fields[field]; !ok {
			return nil, &InvalidResponseError{Reason: "missing required field: " + field}
		}
	}

	var payload types.InsightPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, &InvalidResponseError{Reason: fmt.Sprintf("schema mismatch: %v", err)}
	}
	return &payload, nil
}

func startingJourneyPayload() *types.InsightPayload {
	return &types.InsightPayload{
		Overview: "You're just starting your wellness journey. As you track your moods and write journal entries, " +
			"personalized insights will appear here to help you understand your emotional patterns.",
		Patterns: []types.InsightPattern{},
		Themes:   []types.InsightTheme{},
		PersonalizedMessage: "Welcome to your wellness tracking journey! Start by logging your first mood entry " +
			"to begin building insights about your emotional patterns.",
		KeyInsights: []string{
			"No data available yet - start tracking to see insights",
			"Regular mood tracking helps identify patterns over time",
			"Journal entries provide context for understanding your moods",
		},
	}
}
