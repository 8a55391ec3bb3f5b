// Package mailer implements the mailer port against a Resend-compatible
// transactional email API.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/vitrinehq/vitrine/internal/config"
	"github.com/vitrinehq/vitrine/internal/port/mailer"
)

// Client sends email through the HTTP API configured in config.Mail.
type Client struct {
	http *resty.Client
	from string
}

// Compile-time check that Client satisfies the port.
var _ mailer.Mailer = (*Client)(nil)

// New creates a mailer client from config.
func New(cfg config.Mail) *Client {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetTimeout(10 * time.Second).
		SetRetryCount(2)

	return &Client{http: http, from: cfg.From}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send delivers one message. Callers treat failures as non-fatal.
func (c *Client) Send(ctx context.Context, msg mailer.Message) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(sendRequest{
			From:    c.from,
			To:      []string{msg.To},
			Subject: msg.Subject,
			HTML:    msg.HTML,
		}).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	if resp.IsError() {
		return fmt.Errorf("send mail to %s: status %d: %s", msg.To, resp.StatusCode(), resp.String())
	}
	return nil
}
