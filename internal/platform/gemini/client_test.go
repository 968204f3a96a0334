package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/calmly/calmly-backend/internal/platform/logger"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	c := New(log)
	c.baseURL = baseURL
	c.apiKey = "test-key"
	c.maxRetries = 1
	return c
}

func candidateResponse(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":` + mustJSON(text) + `}]}}]}`
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestGenerateContentReturnsCandidateText(t *testing.T) {
	var gotBody generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(candidateResponse("hello from the model")))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	got, err := c.GenerateContent(context.Background(), "say hello")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "hello from the model" {
		t.Fatalf("text: got %q", got)
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Parts[0].Text != "say hello" {
		t.Fatalf("request did not carry the prompt: %+v", gotBody)
	}
	if len(gotBody.SafetySettings) != 4 {
		t.Fatalf("safety settings: want 4 got %d", len(gotBody.SafetySettings))
	}
	for _, s := range gotBody.SafetySettings {
		if s.Threshold != "BLOCK_MEDIUM_AND_ABOVE" {
			t.Fatalf("threshold: got %q", s.Threshold)
		}
	}
}

func TestGenerateContentRetriesOnRateLimit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(candidateResponse("second try")))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	got, err := c.GenerateContent(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "second try" {
		t.Fatalf("text: got %q", got)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("calls: want 2 got %d", calls)
	}
}

func TestGenerateContentDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.GenerateContent(context.Background(), "prompt")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("want http 400 error, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("400 must not retry: got %d calls", calls)
	}
}

func TestGenerateContentEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.GenerateContent(context.Background(), "prompt")
	if err == nil || !strings.Contains(err.Error(), "no candidates") {
		t.Fatalf("want no-candidates error, got %v", err)
	}
}

func TestConfigured(t *testing.T) {
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	c := New(log)
	c.apiKey = ""
	if c.Configured() {
		t.Fatalf("empty key must report unconfigured")
	}
	c.apiKey = "k"
	if !c.Configured() {
		t.Fatalf("key present must report configured")
	}
}
