package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/calmly/calmly-backend/internal/platform/logger"
	"github.com/calmly/calmly-backend/internal/repos"
	"github.com/calmly/calmly-backend/internal/types"
)

// Trend classifications for the analysis window.
const (
	TrendImproving        = "improving"
	TrendDeclining        = "declining"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
	TrendNoData           = "no_data"
)

// Correlation observation types.
const (
	CorrelationNegative   = "negative_correlation"
	CorrelationPositive   = "positive_correlation"
	CorrelationDayPattern = "day_pattern"
)

const (
	lowMoodThreshold      = 5
	highMoodThreshold     = 7
	correlationMinEntries = 2
)

// themeOrder fixes iteration order over the vocabulary so repeated runs on
// unchanged data produce identical summaries.
var themeOrder = []string{
	"work", "sleep", "exercise", "family", "friends",
	"health", "stress", "hobby", "food", "travel",
}

// Fixed theme vocabulary. Matching is literal substring counting over
// case-folded text; the correlation thresholds are calibrated to exactly
// this method, so no stemming or tokenization.
var themeKeywords = map[string][]string{
	"work":     {"work", "job", "office", "colleague", "project", "deadline", "meeting"},
	"sleep":    {"sleep", "tired", "rest", "insomnia", "wake", "dream"},
	"exercise": {"exercise", "workout", "gym", "run", "walk", "fitness", "sport"},
	"family":   {"family", "parent", "sibling", "relative", "mom", "dad", "brother", "sister"},
	"friends":  {"friend", "social", "hangout", "party", "gathering"},
	"health":   {"health", "doctor", "medical", "pain", "illness", "medication"},
	"stress":   {"stress", "anxious", "worried", "overwhelmed", "pressure"},
	"hobby":    {"hobby", "interest", "creative", "art", "music", "reading"},
	"food":     {"food", "eat", "meal", "cooking", "restaurant", "hungry"},
	"travel":   {"travel", "trip", "vacation", "journey", "flight"},
}

type MoodStatistics struct {
	Average         float64            `json:"average"`
	Min             int                `json:"min"`
	Max             int                `json:"max"`
	Trend           string             `json:"trend"`
	TrendDifference float64            `json:"trend_difference"`
	PreviousAverage *float64           `json:"previous_average,omitempty"`
	DayPatterns     map[string]float64 `json:"day_patterns"`
	TotalEntries    int                `json:"total_entries"`
}

type JournalStatistics struct {
	TotalEntries       int     `json:"total_entries"`
	AverageLength      float64 `json:"average_length"`
	EntryFrequencyDays float64 `json:"entry_frequency_days"`
}

type Correlation struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Frequency   int     `json:"frequency,omitempty"`
	Day         string  `json:"day,omitempty"`
	Average     float64 `json:"average,omitempty"`
}

// AggregateSummary is the transient reduction of a user's window of moods
// and journals. It is never persisted; the prompt formatter renders it.
type AggregateSummary struct {
	PeriodStart  time.Time         `json:"period_start"`
	PeriodEnd    time.Time         `json:"period_end"`
	AnalysisDays int               `json:"analysis_days"`
	MoodStats    MoodStatistics    `json:"mood_statistics"`
	JournalStats JournalStatistics `json:"journal_statistics"`
	Themes       map[string]int    `json:"themes"`
	Correlations []Correlation     `json:"correlations"`
}

type AggregatorService interface {
	Aggregate(ctx context.Context, userID uuid.UUID, windowDays int) (*AggregateSummary, error)
}

type aggregatorService struct {
	log         *logger.Logger
	moodRepo    repos.MoodRepo
	journalRepo repos.JournalRepo
	now         func() time.Time
}

func NewAggregatorService(log *logger.Logger, moodRepo repos.MoodRepo, journalRepo repos.JournalRepo) AggregatorService {
	return &aggregatorService{
		log:         log.With("service", "AggregatorService"),
		moodRepo:    moodRepo,
		journalRepo: journalRepo,
		now:         time.Now,
	}
}

func (as *aggregatorService) Aggregate(ctx context.Context, userID uuid.UUID, windowDays int) (*AggregateSummary, error) {
	now := as.now().UTC()
	cutoff := now.AddDate(0, 0, -windowDays)

	moods, err := as.moodRepo.ListByUserSince(ctx, nil, userID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("fetch moods: %w", err)
	}

	moodIDs := make([]uuid.UUID, 0, len(moods))
	for _, m := range moods {
		moodIDs = append(moodIDs, m.ID)
	}
	journals, err := as.journalRepo.ListByMoodIDs(ctx, nil, moodIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch journals: %w", err)
	}

	// Comparison window: entries in [now-2w, now-w), used only for the
	// previous-period narration.
	prevCutoff := now.AddDate(0, 0, -2*windowDays)
	widerMoods, err := as.moodRepo.ListByUserSince(ctx, nil, userID, prevCutoff)
	if err != nil {
		return nil, fmt.Errorf("fetch comparison moods: %w", err)
	}
	var previousMoods []*types.MoodEntry
	for _, m := range widerMoods {
		if m.Date.Before(cutoff) {
			previousMoods = append(previousMoods, m)
		}
	}

	moodStats := calculateMoodStatistics(moods, previousMoods)
	themes := extractJournalThemes(journals)
	correlations := identifyCorrelations(moods, journals, themes)

	periodStart, periodEnd := now, now
	if len(moods) > 0 {
		periodStart = moods[0].Date
		periodEnd = moods[0].Date
		for _, m := range moods {
			if m.Date.Before(periodStart) {
				periodStart = m.Date
			}
			if m.Date.After(periodEnd) {
				periodEnd = m.Date
			}
		}
	}

	journalStats := JournalStatistics{TotalEntries: len(journals)}
	if len(journals) > 0 {
		totalLen := 0
		for _, j := range journals {
			totalLen += utf8.RuneCountInString(j.Content)
		}
		journalStats.AverageLength = float64(totalLen) / float64(len(journals))
		journalStats.EntryFrequencyDays = float64(windowDays) / float64(len(journals))
	}

	return &AggregateSummary{
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
		AnalysisDays: windowDays,
		MoodStats:    moodStats,
		JournalStats: journalStats,
		Themes:       themes,
		Correlations: correlations,
	}, nil
}

func calculateMoodStatistics(moods, previousMoods []*types.MoodEntry) MoodStatistics {
	if len(moods) == 0 {
		return MoodStatistics{Trend: TrendNoData, DayPatterns: map[string]float64{}}
	}

	sum := 0
	minMood, maxMood := moods[0].Mood, moods[0].Mood
	for _, m := range moods {
		sum += m.Mood
		if m.Mood < minMood {
			minMood = m.Mood
		}
		if m.Mood > maxMood {
			maxMood = m.Mood
		}
	}
	average := float64(sum) / float64(len(moods))

	// Trend compares the chronological first half against the second.
	trend := TrendInsufficientData
	trendDiff := 0.0
	if len(moods) >= 4 {
		mid := len(moods) / 2
		firstSum, secondSum := 0, 0
		for _, m := range moods[:mid] {
			firstSum += m.Mood
		}
		for _, m := range moods[mid:] {
			secondSum += m.Mood
		}
		firstAvg := float64(firstSum) / float64(mid)
		secondAvg := float64(secondSum) / float64(len(moods)-mid)
		trendDiff = secondAvg - firstAvg
		switch {
		case trendDiff > 0.5:
			trend = TrendImproving
		case trendDiff < -0.5:
			trend = TrendDeclining
		default:
			trend = TrendStable
		}
	}

	var previousAverage *float64
	if len(previousMoods) > 0 {
		prevSum := 0
		for _, m := range previousMoods {
			prevSum += m.Mood
		}
		prev := round2(float64(prevSum) / float64(len(previousMoods)))
		previousAverage = &prev
	}

	dayPatterns := map[string]float64{}
	daySums := map[string]int{}
	dayCounts := map[string]int{}
	for _, m := range moods {
		day := m.Date.Weekday().String()
		daySums[day] += m.Mood
		dayCounts[day]++
	}
	for day, count := range dayCounts {
		dayPatterns[day] = float64(daySums[day]) / float64(count)
	}

	return MoodStatistics{
		Average:         round2(average),
		Min:             minMood,
		Max:             maxMood,
		Trend:           trend,
		TrendDifference: round2(trendDiff),
		PreviousAverage: previousAverage,
		DayPatterns:     dayPatterns,
		TotalEntries:    len(moods),
	}
}

// extractJournalThemes counts keyword occurrences per theme over the
// case-folded concatenation of every journal's title and content. Themes
// with zero occurrences are dropped.
func extractJournalThemes(journals []*types.JournalEntry) map[string]int {
	counts := map[string]int{}
	if len(journals) == 0 {
		return counts
	}

	parts := make([]string, 0, len(journals))
	for _, j := range journals {
		parts = append(parts, strings.ToLower(j.Title+" "+j.Content))
	}
	allText := strings.Join(parts, " ")

	for theme, keywords := range themeKeywords {
		total := 0
		for _, kw := range keywords {
			total += strings.Count(allText, kw)
		}
		if total > 0 {
			counts[theme] = total
		}
	}
	return counts
}

func identifyCorrelations(moods []*types.MoodEntry, journals []*types.JournalEntry, themes map[string]int) []Correlation {
	correlations := []Correlation{}
	if len(moods) == 0 {
		return correlations
	}

	moodJournals := map[uuid.UUID][]*types.JournalEntry{}
	for _, j := range journals {
		moodJournals[j.MoodID] = append(moodJournals[j.MoodID], j)
	}

	lowMoodThemes := map[string]int{}
	highMoodThemes := map[string]int{}
	for _, m := range moods {
		parts := make([]string, 0, len(moodJournals[m.ID]))
		for _, j := range moodJournals[m.ID] {
			parts = append(parts, strings.ToLower(j.Title+" "+j.Content))
		}
		moodText := strings.Join(parts, " ")
		if moodText == "" {
			continue
		}

		var bucket map[string]int
		switch {
		case m.Mood <= lowMoodThreshold:
			bucket = lowMoodThemes
		case m.Mood >= highMoodThreshold:
			bucket = highMoodThemes
		default:
			continue
		}
		for _, theme := range themeOrder {
			if _, active := themes[theme]; !active {
				continue
			}
			if themeMentioned(theme, moodText) {
				bucket[theme]++
			}
		}
	}

	for _, theme := range themeOrder {
		if count := lowMoodThemes[theme]; count >= correlationMinEntries {
			correlations = append(correlations, Correlation{
				Type:        CorrelationNegative,
				Description: fmt.Sprintf("Mood dips (≤%d) correlate with journal entries mentioning '%s'", lowMoodThreshold, theme),
				Frequency:   count,
			})
		}
	}
	for _, theme := range themeOrder {
		if count := highMoodThemes[theme]; count >= correlationMinEntries {
			correlations = append(correlations, Correlation{
				Type:        CorrelationPositive,
				Description: fmt.Sprintf("Higher moods (≥%d) correlate with journal entries mentioning '%s'", highMoodThreshold, theme),
				Frequency:   count,
			})
		}
	}

	// Weekdays whose average sits more than a full point below the overall
	// average are worth calling out.
	overallSum := 0
	for _, m := range moods {
		overallSum += m.Mood
	}
	overallAvg := float64(overallSum) / float64(len(moods))

	daySums := map[string]int{}
	dayCounts := map[string]int{}
	for _, m := range moods {
		day := m.Date.Weekday().String()
		daySums[day] += m.Mood
		dayCounts[day]++
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		day := d.String()
		count := dayCounts[day]
		if count == 0 {
			continue
		}
		dayAvg := float64(daySums[day]) / float64(count)
		if dayAvg < overallAvg-1 {
			correlations = append(correlations, Correlation{
				Type:        CorrelationDayPattern,
				Description: fmt.Sprintf("Average mood on %ss is %.1f/10 (below overall average of %.1f)", day, dayAvg, overallAvg),
				Day:         day,
				Average:     round1(dayAvg),
			})
		}
	}

	return correlations
}

func themeMentioned(theme, text string) bool {
	for _, kw := range themeKeywords[theme] {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
