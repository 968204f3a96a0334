package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/calmly/calmly-backend/internal/platform/envutil"
	"github.com/calmly/calmly-backend/internal/platform/logger"
)

// Client talks to the Gemini generateContent REST endpoint. It is a thin
// transport layer: prompt in, raw candidate text out. Interpretation of the
// model output belongs to the caller.
type Client struct {
	log         *logger.Logger
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
	maxRetries  int
}

func New(log *logger.Logger) *Client {
	timeoutSec := envutil.Int("GEMINI_TIMEOUT_SECONDS", 120)
	return &Client{
		log:         log.With("service", "GeminiClient"),
		baseURL:     envutil.String("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		apiKey:      envutil.String("GEMINI_API_KEY", ""),
		model:       envutil.String("GEMINI_MODEL", "gemini-1.5-flash"),
		temperature: envutil.Float("GEMINI_TEMPERATURE", 0.2),
		httpClient:  &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries:  envutil.Int("GEMINI_MAX_RETRIES", 3),
	}
}

// Configured reports whether an API key is present. Callers treat an
// unconfigured client as a service-unavailable condition, not a crash.
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.apiKey) != ""
}

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("gemini http %d: %s", e.StatusCode, e.Body)
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
	SafetySettings   []safetySetting  `json:"safetySettings"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// moderateSafetySettings blocks medium-and-above content across the four
// harm categories the product requires.
func moderateSafetySettings() []safetySetting {
	categories := []string{
		"HARM_CATEGORY_HARASSMENT",
		"HARM_CATEGORY_HATE_SPEECH",
		"HARM_CATEGORY_SEXUALLY_EXPLICIT",
		"HARM_CATEGORY_DANGEROUS_CONTENT",
	}
	out := make([]safetySetting, 0, len(categories))
	for _, cat := range categories {
		out = append(out, safetySetting{Category: cat, Threshold: "BLOCK_MEDIUM_AND_ABOVE"})
	}
	return out
}

// GenerateContent sends the prompt and returns the first candidate's text.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("gemini client is not configured")
	}

	body := generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{Temperature: c.temperature},
		SafetySettings:   moderateSafetySettings(),
	}

	path := fmt.Sprintf("/v1beta/models/%s:generateContent?key=%s", c.model, url.QueryEscape(c.apiKey))

	var lastErr error
	backoff := time.Second
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(jitter(backoff)):
			}
			backoff *= 2
		}

		raw, err := c.doOnce(ctx, path, body)
		if err == nil {
			return decodeCandidateText(raw)
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !isRetryable(err) {
			return "", err
		}
		c.log.Warn("gemini call failed, retrying", "attempt", attempt+1, "error", err)
	}
	return "", lastErr
}

func (c *Client) doOnce(ctx context.Context, path string, body any) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: truncate(string(raw), 512)}
	}
	return raw, nil
}

func decodeCandidateText(raw []byte) (string, error) {
	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response contained no candidates")
	}
	var sb strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == http.StatusRequestTimeout || httpErr.StatusCode == http.StatusTooManyRequests {
			return true
		}
		return httpErr.StatusCode >= 500 && httpErr.StatusCode <= 599
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// +/- 20% around base
func jitter(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	delta := 0.2 * base.Seconds()
	low := base.Seconds() - delta
	v := low + rand.Float64()*2*delta
	return time.Duration(v * float64(time.Second))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
