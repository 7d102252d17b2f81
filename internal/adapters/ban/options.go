package ban

import (
	"net/http"
	"time"

	"github.com/squadgate/gatekeeper/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithDuration sets the exclusion period sent with each ban, e.g. "7d".
func WithDuration(duration string) Option {
	return func(c *Client) {
		if duration != "" {
			c.duration = duration
		}
	}
}

// WithAttempts bounds ban request attempts.
func WithAttempts(attempts int) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.attempts = attempts
		}
	}
}

// WithRetryDelay sets the fixed delay between attempts.
// Zero is honored so tests can run without sleeping.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.delay = d
		}
	}
}

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithTicketFunc injects the ticket generator for tests.
func WithTicketFunc(f func() string) Option {
	return func(c *Client) {
		if f != nil {
			c.newTicket = f
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
