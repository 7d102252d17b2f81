// Package ban issues temporary exclusion requests to the enforcement service.
package ban

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"

	"github.com/squadgate/gatekeeper/internal/domain/model"
	"github.com/squadgate/gatekeeper/pkg/logger"
)

// Default client configuration constants.
const (
	defaultDuration   = "7d"
	defaultAttempts   = 3
	defaultRetryDelay = 2 * time.Second
	defaultTimeout    = 10 * time.Second
	ticketLength      = 8
)

// confirmationMessage is the only payload the enforcement service sends for
// an applied ban. Anything else counts as a failed attempt.
const confirmationMessage = "已将该玩家封禁"

// reasonTemplate is the operator-facing justification. The embedded ticket
// lets a falsely banned player reference the action when appealing.
const reasonTemplate = "本封禁为黑号自动封禁插件封禁可进群解封-此封禁id需截图- (封禁ID: %s)"

// Client sends retryable ban actions.
type Client struct {
	url        string
	duration   string
	attempts   int
	delay      time.Duration
	httpClient *http.Client
	newTicket  func() string
	logger     logger.Logger
}

// NewClient creates an enforcement client for the given endpoint.
func NewClient(banURL string, opts ...Option) *Client {
	c := &Client{
		url:        banURL,
		duration:   defaultDuration,
		attempts:   defaultAttempts,
		delay:      defaultRetryDelay,
		httpClient: &http.Client{Timeout: defaultTimeout},
		newTicket:  newTicket,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logger.Get().Named("ban")
	}

	return c
}

type banResponse struct {
	Message string `json:"message"`
}

// SendBan requests a temporary exclusion of id. A fresh ticket is generated
// per action and embedded in the justification. The request is attempted up
// to the configured number of times; only the exact confirmation message
// counts as success.
func (c *Client) SendBan(ctx context.Context, id model.Identifier) error {
	ticket := c.newTicket()
	params := url.Values{
		"id":     {string(id)},
		"reason": {fmt.Sprintf(reasonTemplate, ticket)},
		"time":   {c.duration},
	}

	c.logger.Debug(ctx, "sending ban request",
		logger.String("id", string(id)),
		logger.String("ticket", ticket),
		logger.String("time", c.duration),
	)

	op := func() error {
		return c.attempt(ctx, params)
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.delay), uint64(c.attempts-1)),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		return fmt.Errorf("ban %s: %w", id, err)
	}
	return nil
}

func (c *Client) attempt(ctx context.Context, params url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug(ctx, "ban response", logger.Int("status", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrNotConfirmed, resp.StatusCode)
	}

	var out banResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if out.Message != confirmationMessage {
		return fmt.Errorf("%w: message %q", ErrNotConfirmed, out.Message)
	}
	return nil
}

// newTicket generates an 8-digit decimal ticket identifier.
func newTicket() string {
	var b strings.Builder
	b.Grow(ticketLength)
	for i := 0; i < ticketLength; i++ {
		b.WriteByte(byte('0' + rand.Intn(10)))
	}
	return b.String()
}
