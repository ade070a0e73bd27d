// Package anthropic implements ports.CompletionClient against the Anthropic
// Messages API: one non-streaming, single-turn request per extraction, with a
// fixed output token budget.
package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/codevibe-de/offer-assistant/internal/core/domain"
	"github.com/codevibe-de/offer-assistant/internal/infrastructure/resilience"
)

const defaultAPIVersion = "2023-06-01"

type Config struct {
	BaseURL   string
	APIKey    string
	Version   string
	Model     string
	MaxTokens int
	// Timeout bounds the whole call; the upstream API defines none, so the
	// client imposes its own.
	Timeout    time.Duration
	RatePerSec float64
	RateBurst  int
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	executor   *resilience.Executor
}

func New(cfg Config, executor *resilience.Executor) *Client {
	if cfg.Version == "" {
		cfg.Version = defaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	var limiter *rate.Limiter
	if cfg.RatePerSec > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), burst)
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		executor:   executor,
	}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Complete sends the prompt and returns the first text block of the reply.
// Exactly one attempt is made; every provider failure surfaces as
// domain.ErrExtractionService regardless of its transport-level shape.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", domain.WrapError(domain.ErrExtractionService, "await rate limit", err)
		}
	}

	var out string
	call := func(ctx context.Context) error {
		text, err := c.createMessage(ctx, prompt)
		if err != nil {
			return err
		}
		out = text
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "anthropic.messages", call, classifyProviderError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionService, "anthropic messages", err)
	}
	return out, nil
}

func (c *Client) createMessage(ctx context.Context, prompt string) (string, error) {
	reqBody := messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	}

	var response messagesResponse
	if err := c.postJSON(ctx, "/v1/messages", reqBody, &response, "messages"); err != nil {
		return "", err
	}
	for _, block := range response.Content {
		if block.Type == "text" {
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", fmt.Errorf("messages response contains no text content")
}
