package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nirupam89/SentimentAnalyzer/internal/domain"
	apperrors "github.com/nirupam89/SentimentAnalyzer/internal/errors"
	"github.com/nirupam89/SentimentAnalyzer/internal/metrics"
	"github.com/nirupam89/SentimentAnalyzer/internal/platform/retry"
)

const (
	defaultTimeout = 10 * time.Second
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 2 * time.Second
	backoffJitter  = 0.2
)

// Config holds the inference client settings.
type Config struct {
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// Client issues classification requests against an Ollama backend.
type Client struct {
	baseURL    string
	model      string
	timeout    time.Duration
	policy     retry.Policy
	httpClient *http.Client
	breaker    domain.Breaker
}

var _ domain.Classifier = (*Client)(nil)

// NewClient creates an inference client. breaker receives each attempt's
// outcome and may be nil.
func NewClient(cfg Config, breaker domain.Breaker) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &Client{
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		timeout: timeout,
		policy: retry.Policy{
			MaxAttempts:    maxRetries,
			InitialBackoff: initialBackoff,
			MaxBackoff:     maxBackoff,
			Jitter:         backoffJitter,
			OnRetry: func(attempt int, err error, backoff time.Duration) {
				slog.Warn("Retrying inference backend call",
					"attempt", attempt,
					"backoff", backoff,
					"error", err,
				)
			},
		},
		// The transport timeout is a backstop; each attempt carries its
		// own context deadline.
		httpClient: &http.Client{Timeout: timeout + time.Second},
		breaker:    breaker,
	}
}

// Model returns the configured backend model identifier.
func (c *Client) Model() string {
	return c.model
}

// Classify sends text to the backend and maps the answer onto the sentiment
// taxonomy. Transient failures are retried locally; the final error carries
// a distinguishable type (timeout, unavailable, malformed).
func (c *Client) Classify(ctx context.Context, text string) (*domain.Classification, error) {
	return retry.Do(ctx, c.policy, classifyRetryAction, func() (*domain.Classification, error) {
		return c.classifyOnce(ctx, text)
	})
}

// classifyRetryAction retries timeouts and unavailability only; contract
// violations are permanent.
func classifyRetryAction(err error) retry.Action {
	if apperrors.IsType(err, apperrors.TypeTimeout) || apperrors.IsType(err, apperrors.TypeUnavailable) {
		return retry.Retry
	}
	return retry.Stop
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Format   string         `json:"format,omitempty"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

func (c *Client) classifyOnce(ctx context.Context, text string) (*domain.Classification, error) {
	start := time.Now()

	result, err := c.doChat(ctx, text)

	elapsed := time.Since(start)
	metrics.BackendRequestDuration.Observe(elapsed.Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues("failure").Inc()
		if c.breaker != nil {
			c.breaker.RecordFailure(err)
		}
		return nil, err
	}

	metrics.BackendRequestsTotal.WithLabelValues("success").Inc()
	if c.breaker != nil {
		c.breaker.RecordSuccess()
	}
	return result, nil
}

func (c *Client) doChat(ctx context.Context, text string) (*domain.Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		Stream: false,
		Format: "json",
		Options: map[string]any{
			"temperature": 0,
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, apperrors.InternalError("failed to marshal backend request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.InternalError("failed to create backend request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.TimeoutError("inference backend timed out", err).
				WithField("timeout", c.timeout.String())
		}
		return nil, apperrors.UnavailableError("inference backend unreachable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 500 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperrors.UnavailableError("inference backend error", fmt.Errorf("status %d: %s", resp.StatusCode, respBody)).
			WithField("status", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperrors.MalformedError("inference backend rejected request", fmt.Errorf("status %d: %s", resp.StatusCode, respBody)).
			WithField("status", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperrors.MalformedError("failed to decode backend response", err)
	}

	return parseClassification(parsed.Message.Content, c.model)
}

// Ping checks that the backend is reachable and serving its model list.
// Used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create ping request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("inference backend unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference backend returned status %d", resp.StatusCode)
	}
	return nil
}
