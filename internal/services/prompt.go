package services

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// trendPhrases maps a trend classification to its narration. Unknown values
// fall back to the stable phrasing.
var trendPhrases = map[string]string{
	TrendImproving:        "showing an upward trend",
	TrendDeclining:        "showing a downward trend",
	TrendStable:           "relatively stable",
	TrendInsufficientData: "insufficient data to determine trend",
	TrendNoData:           "no data available",
}

// insightsSchemaJSON is embedded verbatim in every prompt so the model has
// the exact output contract in front of it.
const insightsSchemaJSON = `{
  "type": "object",
  "properties": {
    "overview": {
      "type": "string",
      "description": "A brief, supportive summary of the user's emotional journey"
    },
    "patterns": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "type": {"type": "string"},
          "description": {"type": "string"},
          "observation": {"type": "string"}
        },
        "required": ["type", "description", "observation"]
      }
    },
    "themes": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "theme": {"type": "string"},
          "frequency": {"type": "integer"},
          "description": {"type": "string"}
        },
        "required": ["theme", "frequency", "description"]
      }
    },
    "personalized_message": {
      "type": "string",
      "description": "A warm, encouraging, non-judgmental message"
    },
    "key_insights": {
      "type": "array",
      "items": {"type": "string"},
      "description": "3-5 key observations"
    }
  },
  "required": ["overview", "patterns", "themes", "personalized_message", "key_insights"]
}`

// FormatPrompt renders an aggregate summary into the generation prompt.
// Pure and deterministic: identical summaries produce identical prompts.
func FormatPrompt(summary *AggregateSummary) string {
	moodStats := summary.MoodStats

	trendDesc, ok := trendPhrases[moodStats.Trend]
	if !ok {
		trendDesc = trendPhrases[TrendStable]
	}

	comparison := ""
	if moodStats.PreviousAverage != nil {
		prev := *moodStats.PreviousAverage
		diff := moodStats.Average - prev
		switch {
		case diff > 0.3:
			comparison = fmt.Sprintf(" (improved from %.1f in the previous period)", prev)
		case diff < -0.3:
			comparison = fmt.Sprintf(" (down from %.1f in the previous period)", prev)
		default:
			comparison = fmt.Sprintf(" (similar to %.1f in the previous period)", prev)
		}
	}

	var b strings.Builder
	b.WriteString("You are a compassionate, non-judgmental wellness assistant analyzing mood and journal data.\n\n")
	fmt.Fprintf(&b, "ANALYSIS PERIOD: %s to %s\n",
		summary.PeriodStart.Format(time.RFC3339), summary.PeriodEnd.Format(time.RFC3339))
	fmt.Fprintf(&b, "TIME SPAN: Last %d days\n\n", summary.AnalysisDays)

	b.WriteString("MOOD STATISTICS:\n")
	fmt.Fprintf(&b, "- Average Mood: %.1f/10%s\n", moodStats.Average, comparison)
	fmt.Fprintf(&b, "- Mood Range: %d-%d/10\n", moodStats.Min, moodStats.Max)
	fmt.Fprintf(&b, "- Trend: %s\n", trendDesc)
	fmt.Fprintf(&b, "- Total Mood Entries: %d\n\n", moodStats.TotalEntries)

	b.WriteString("DAY-OF-WEEK PATTERNS:\n")
	b.WriteString(formatDayPatterns(moodStats.DayPatterns))
	b.WriteString("\n\n")

	b.WriteString("JOURNAL STATISTICS:\n")
	fmt.Fprintf(&b, "- Total Journal Entries: %d\n", summary.JournalStats.TotalEntries)
	fmt.Fprintf(&b, "- Average Entry Length: %.0f characters\n", summary.JournalStats.AverageLength)
	fmt.Fprintf(&b, "- Entry Frequency: Approximately every %.1f days\n\n", summary.JournalStats.EntryFrequencyDays)

	b.WriteString("RECURRING THEMES (from journal analysis):\n")
	b.WriteString(formatThemes(summary.Themes))
	b.WriteString("\n\n")

	b.WriteString("CORRELATIONS OBSERVED:\n")
	b.WriteString(formatCorrelations(summary.Correlations))
	b.WriteString("\n\n")

	b.WriteString("Please provide insights in a supportive, non-judgmental manner. ")
	b.WriteString("Focus on patterns and observations rather than diagnoses. ")
	b.WriteString("Be encouraging and emphasize that mood fluctuations are normal.\n\n")

	b.WriteString("Provide your response as a JSON object with the following structure:\n")
	b.WriteString("- overview: A brief summary of their emotional journey\n")
	b.WriteString("- patterns: Array of observed patterns with type, description, and observation\n")
	b.WriteString("- themes: Array of recurring themes with theme name, frequency, and description\n")
	b.WriteString("- personalized_message: A warm, encouraging message\n")
	b.WriteString("- key_insights: Array of 3-5 key observations as strings\n\n")

	b.WriteString("IMPORTANT: You must respond with ONLY valid JSON, no additional text. ")
	b.WriteString("The JSON must match this exact structure:\n")
	b.WriteString(insightsSchemaJSON)
	b.WriteString("\n\nRespond with ONLY the JSON object, nothing else.")

	return b.String()
}

// Days render worst-first; ties break on day name to stay deterministic.
func formatDayPatterns(patterns map[string]float64) string {
	if len(patterns) == 0 {
		return "Insufficient data for day patterns"
	}
	days := make([]string, 0, len(patterns))
	for day := range patterns {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		if patterns[days[i]] != patterns[days[j]] {
			return patterns[days[i]] < patterns[days[j]]
		}
		return days[i] < days[j]
	})
	lines := make([]string, 0, len(days))
	for _, day := range days {
		lines = append(lines, fmt.Sprintf("- %s: Average mood %.1f/10", day, patterns[day]))
	}
	return strings.Join(lines, "\n")
}

// Top 10 themes by frequency descending; ties break alphabetically.
func formatThemes(themes map[string]int) string {
	if len(themes) == 0 {
		return "No recurring themes identified"
	}
	names := make([]string, 0, len(themes))
	for theme := range themes {
		names = append(names, theme)
	}
	sort.Slice(names, func(i, j int) bool {
		if themes[names[i]] != themes[names[j]] {
			return themes[names[i]] > themes[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > 10 {
		names = names[:10]
	}
	lines := make([]string, 0, len(names))
	for _, theme := range names {
		lines = append(lines, fmt.Sprintf("- '%s': %d mentions", theme, themes[theme]))
	}
	return strings.Join(lines, "\n")
}

func formatCorrelations(correlations []Correlation) string {
	if len(correlations) == 0 {
		return "No significant correlations identified"
	}
	if len(correlations) > 5 {
		correlations = correlations[:5]
	}
	lines := make([]string, 0, len(correlations))
	for _, corr := range correlations {
		lines = append(lines, "- "+corr.Description)
	}
	return strings.Join(lines, "\n")
}
