package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/v75-value/internal/config"
	"github.com/yourusername/v75-value/internal/metrics"
)

const (
	chatCompletionsPath = "/chat/completions"
	modelsPath          = "/models"

	// maxErrorBody bounds how much of an error response is quoted in an error
	maxErrorBody = 512
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// ChatClient talks to an OpenAI-compatible chat completions API
type ChatClient struct {
	http    *RateLimitedHTTPClient
	baseURL string
	apiKey  string
	model   string
	logger  *logrus.Entry
}

// NewChatClient creates a chat client from the generator configuration
func NewChatClient(cfg *config.GeneratorConfig, logger *logrus.Logger) *ChatClient {
	var entry *logrus.Entry
	if logger != nil {
		entry = logger.WithField("component", "generator")
	} else {
		entry = discardLogger()
	}

	httpCfg := HTTPClientConfig{
		Timeout:           cfg.Timeout(),
		MaxRetries:        cfg.MaxRetries,
		RetryWaitMin:      time.Duration(cfg.RetryWaitMinMs) * time.Millisecond,
		RetryWaitMax:      time.Duration(cfg.RetryWaitMaxMs) * time.Millisecond,
		RateLimit:         cfg.RateLimit,
		CircuitBreakerMax: cfg.CircuitBreakerMax,
		ResetTimeout:      time.Duration(cfg.CircuitResetMs) * time.Millisecond,
	}

	return &ChatClient{
		http:    NewRateLimitedHTTPClient(httpCfg, entry),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		logger:  entry,
	}
}

// Model returns the configured model name
func (c *ChatClient) Model() string {
	return c.model
}

// Generate sends one chat completion and returns the first choice's content, trimmed
func (c *ChatClient) Generate(ctx context.Context, req Request) (string, error) {
	start := time.Now()

	payload := chatRequest{
		Model:       c.model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.System != "" {
		payload.Messages = append(payload.Messages, chatMessage{Role: "system", Content: req.System})
	}
	payload.Messages = append(payload.Messages, chatMessage{Role: "user", Content: req.Prompt})
	if req.JSONMode {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatCompletionsPath, body)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.authorize(httpReq)

	reply, err := c.doChat(ctx, httpReq)
	latency := time.Since(start)
	if err != nil {
		metrics.RecordGeneratorRequest("api", "error", latency.Seconds())
		c.logger.WithFields(logrus.Fields{
			"model":      c.model,
			"latency_ms": latency.Milliseconds(),
		}).WithError(err).Warn("Chat completion failed")
		return "", err
	}

	metrics.RecordGeneratorRequest("api", "success", latency.Seconds())
	c.logger.WithFields(logrus.Fields{
		"model":       c.model,
		"latency_ms":  latency.Milliseconds(),
		"reply_chars": len(reply),
	}).Debug("Chat completion received")
	return reply, nil
}

func (c *ChatClient) doChat(ctx context.Context, req *retryablehttp.Request) (string, error) {
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneratorUnavailable, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidResponse, decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return "", ErrEmptyReply
	}

	reply := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}

// HealthCheck lists models to verify reachability and credentials
func (c *ChatClient) HealthCheck(ctx context.Context) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+modelsPath, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrGeneratorUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return checkStatus(resp)
}

// Close releases idle connections
func (c *ChatClient) Close() error {
	return c.http.Close()
}

func (c *ChatClient) authorize(req *retryablehttp.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrGeneratorUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}
}
