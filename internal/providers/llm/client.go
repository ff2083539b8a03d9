package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sandevgo/discobot/internal/config"
	"github.com/sandevgo/discobot/pkg/log"
	"github.com/sandevgo/discobot/pkg/retry"
)

const (
	defaultTemperature = 0.7
	requestTimeout     = 120 * time.Second
)

// Client is the generation adapter. When no API key is configured, or the
// remote service keeps failing after retries, it answers with the
// deterministic offline fallback instead of surfacing an error.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	retrier    *retry.Retrier
}

func NewClient(cfg *config.OpenAIConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		retrier:    retry.NewDefaultRetrier(),
	}
}

func (c *Client) Generate(ctx context.Context, prompt string, params map[string]any) string {
	logger := log.FromCtx(ctx)

	if c.apiKey == "" {
		logger.Debug().Msg("no API key configured, using simulated response")
		return SimulateResponse(prompt)
	}

	logPromptTokens(ctx, prompt)

	var reply string
	err := c.retrier.Do(ctx, func() error {
		out, err := c.complete(ctx, prompt, params)
		if err != nil {
			return err
		}
		reply = out
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Msg("generation request failed, using simulated response")
		return SimulateResponse(prompt)
	}
	return reply
}

func (c *Client) complete(ctx context.Context, prompt string, params map[string]any) (string, error) {
	payload := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": temperatureFrom(params),
	}
	for k, v := range params {
		if k == "temperature" {
			continue
		}
		payload[k] = v
	}

	data, err := c.postJSON(ctx, "/v1/chat/completions", payload)
	if err != nil {
		return "", err
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty choices: %s", string(data))
	}
	return result.Choices[0].Message.Content, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}
	return data, nil
}

func temperatureFrom(params map[string]any) float64 {
	switch t := params["temperature"].(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	default:
		return defaultTemperature
	}
}
