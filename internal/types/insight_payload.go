package types

// InsightPayload is the output contract enforced on the generative model's
// response. The same shape backs the "no data yet" default payload and the
// error payload written on failed generation.
type InsightPayload struct {
	Overview            string           `json:"overview"`
	Patterns            []InsightPattern `json:"patterns"`
	Themes              []InsightTheme   `json:"themes"`
	PersonalizedMessage string           `json:"personalized_message"`
	KeyInsights         []string         `json:"key_insights"`
}

type InsightPattern struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Observation string `json:"observation"`
}

type InsightTheme struct {
	Theme       string `json:"theme"`
	Frequency   int    `json:"frequency"`
	Description string `json:"description"`
}
