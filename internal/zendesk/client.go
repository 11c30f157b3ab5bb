// Package zendesk implements the HTTP client for the upstream ticketing
// API. It owns authentication, retry, and paging; the domain services
// above it see typed models and never touch wire formats.
package zendesk

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ganot/helpdesk-mcp/internal/errs"
)

// Config carries the connection settings for one upstream account.
// BaseURL overrides the derived account URL and is meant for tests.
type Config struct {
	Subdomain string
	Email     string
	Token     string

	BaseURL     string
	MaxAttempts int
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

// Client is the upstream API client. All methods are safe for
// concurrent use.
type Client struct {
	baseURL     string
	subdomain   string
	authHeader  string
	httpClient  *http.Client
	logger      *slog.Logger
	maxAttempts int

	// sleep is swapped out in tests to avoid real backoff waits.
	sleep func(ctx context.Context, d time.Duration) error

	cursors     CursorStore
	cursorLabel string
}

// New creates a client for the given account. API token auth uses the
// upstream's "email/token" basic-auth convention.
func New(cfg Config) (*Client, error) {
	if cfg.Subdomain == "" && cfg.BaseURL == "" {
		return nil, errs.Validation("subdomain", "subdomain is required")
	}
	if cfg.Email == "" {
		return nil, errs.Validation("email", "email is required")
	}
	if cfg.Token == "" {
		return nil, errs.Validation("token", "api token is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.zendesk.com/api/v2", cfg.Subdomain)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	credentials := fmt.Sprintf("%s/token:%s", cfg.Email, cfg.Token)
	encoded := base64.StdEncoding.EncodeToString([]byte(credentials))

	return &Client{
		baseURL:     baseURL,
		subdomain:   cfg.Subdomain,
		authHeader:  "Basic " + encoded,
		httpClient:  httpClient,
		logger:      logger,
		maxAttempts: maxAttempts,
		sleep:       sleepContext,
	}, nil
}

// SetCursorStore injects the optional store used by the incremental API
// wrappers to resume from the last persisted position. The label
// namespaces cursors when several consumers share one store.
func (c *Client) SetCursorStore(store CursorStore, label string) {
	c.cursors = store
	c.cursorLabel = label
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
