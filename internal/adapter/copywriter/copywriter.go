// Package copywriter implements the copy-generation port against an
// OpenAI-compatible chat completions API.
package copywriter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/vitrinehq/vitrine/internal/config"
	"github.com/vitrinehq/vitrine/internal/limit"
	"github.com/vitrinehq/vitrine/internal/port/copywriter"
	"github.com/vitrinehq/vitrine/internal/resilience"
)

// Upstream protection: at most maxConcurrent in-flight generations, and
// the breaker trips after breakerFailures consecutive errors.
const (
	maxConcurrent   = 4
	breakerFailures = 5
	breakerTimeout  = time.Minute
)

const systemPrompt = `You write product listings for small online storefronts.
Given a product name and optional hints, reply with JSON: {"title": ..., "description": ...}.
The title is at most 60 characters. The description is two short paragraphs of plain text.`

// Client generates product copy through a chat completions endpoint.
type Client struct {
	http    *resty.Client
	model   string
	pool    *limit.Pool
	breaker *resilience.Breaker
}

var _ copywriter.Generator = (*Client)(nil)

// New creates a copywriter client from config.
func New(cfg config.Copywriter) *Client {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetTimeout(30 * time.Second)

	return &Client{
		http:    http,
		model:   cfg.Model,
		pool:    limit.NewPool(maxConcurrent),
		breaker: resilience.NewBreaker(breakerFailures, breakerTimeout),
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate produces a title and description for the product.
func (c *Client) Generate(ctx context.Context, productName, hints string) (*copywriter.Suggestion, error) {
	userPrompt := "Product: " + productName
	if hints != "" {
		userPrompt += "\nHints: " + hints
	}

	var out chatResponse
	err := c.pool.Run(ctx, func() error {
		return c.breaker.Execute(func() error {
			resp, err := c.http.R().
				SetContext(ctx).
				SetBody(chatRequest{
					Model: c.model,
					Messages: []chatMessage{
						{Role: "system", Content: systemPrompt},
						{Role: "user", Content: userPrompt},
					},
					ResponseFormat: &respFormat{Type: "json_object"},
				}).
				SetResult(&out).
				Post("/v1/chat/completions")
			if err != nil {
				return fmt.Errorf("copywriter generate: %w", err)
			}
			if resp.IsError() {
				return fmt.Errorf("copywriter generate: status %d: %s", resp.StatusCode(), resp.String())
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("copywriter generate: empty response")
	}

	var suggestion copywriter.Suggestion
	if err := json.Unmarshal([]byte(out.Choices[0].Message.Content), &suggestion); err != nil {
		return nil, fmt.Errorf("copywriter generate: decode suggestion: %w", err)
	}
	return &suggestion, nil
}
