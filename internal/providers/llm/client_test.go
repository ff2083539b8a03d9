package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sandevgo/discobot/internal/config"
	"github.com/sandevgo/discobot/pkg/retry"
)

func newTestClient(baseURL, apiKey string) *Client {
	c := NewClient(&config.OpenAIConfig{
		APIKey:  apiKey,
		Model:   "test-model",
		BaseURL: baseURL,
	})
	c.retrier = retry.NewRetrier(&retry.Config{
		MaxRetries:   1,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
	})
	return c
}

func TestGenerate_NoAPIKeyUsesFallback(t *testing.T) {
	c := newTestClient("http://localhost:0", "")

	got := c.Generate(context.Background(), "some\nprompt text", nil)
	want := "[Simulated response based on prompt: prompt text]"
	if got != want {
		t.Errorf("Generate() = %q, want %q", got, want)
	}
}

func TestGenerate_RemoteSuccess(t *testing.T) {
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "remote reply"}},
			},
		})
	}))
	defer server.Close()

	c := newTestClient(server.URL, "test-key")
	got := c.Generate(context.Background(), "hello", map[string]any{
		"temperature": 0.3,
		"top_p":       0.85,
	})

	if got != "remote reply" {
		t.Errorf("Generate() = %q, want %q", got, "remote reply")
	}
	if gotPayload["temperature"] != 0.3 {
		t.Errorf("temperature = %v, want 0.3", gotPayload["temperature"])
	}
	if gotPayload["top_p"] != 0.85 {
		t.Errorf("top_p = %v, want 0.85", gotPayload["top_p"])
	}
}

func TestGenerate_RemoteFailureFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	c := newTestClient(server.URL, "test-key")
	got := c.Generate(context.Background(), "prompt line", nil)

	want := "[Simulated response based on prompt: prompt line]"
	if got != want {
		t.Errorf("Generate() = %q, want %q", got, want)
	}
}

func TestTemperatureFrom(t *testing.T) {
	tests := []struct {
		name     string
		params   map[string]any
		expected float64
	}{
		{name: "nil params", params: nil, expected: defaultTemperature},
		{name: "float64", params: map[string]any{"temperature": 0.2}, expected: 0.2},
		{name: "int", params: map[string]any{"temperature": 1}, expected: 1.0},
		{name: "missing", params: map[string]any{"top_p": 0.9}, expected: defaultTemperature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := temperatureFrom(tt.params); got != tt.expected {
				t.Errorf("temperatureFrom() = %v, want %v", got, tt.expected)
			}
		})
	}
}
