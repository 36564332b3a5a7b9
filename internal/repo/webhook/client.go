// Package webhook delivers survey submissions to the external lead automation endpoint.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/yaadplay/storefront/internal/models"
	"github.com/yaadplay/storefront/pkg/util"
)

// ErrNotConfigured is returned when the URL is empty or still the setup placeholder.
var ErrNotConfigured = errors.New("webhook url is not configured")

const placeholderURL = "YOUR_MAKE_COM_WEBHOOK_URL_HERE"

type Client interface {
	Send(ctx context.Context, submission *models.SurveySubmission) error
}

type Config struct {
	URL     string
	Timeout time.Duration
}

type client struct {
	url  string
	http *resty.Client
}

func NewClient(cfg Config) Client {
	return &client{
		url: cfg.URL,
		http: util.NewRestyClient(util.RestyOptions{
			Timeout: cfg.Timeout,
		}),
	}
}

func (c *client) configured() bool {
	return c.url != "" && c.url != placeholderURL &&
		(strings.HasPrefix(c.url, "http://") || strings.HasPrefix(c.url, "https://"))
}

func (c *client) Send(ctx context.Context, submission *models.SurveySubmission) error {
	if !c.configured() {
		return ErrNotConfigured
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(submission).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode())
	}
	return nil
}
