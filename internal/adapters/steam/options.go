package steam

import (
	"net/http"
	"time"

	"github.com/squadgate/gatekeeper/pkg/logger"
)

// ClientOption applies a configuration option to the Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithAppID sets the title whose playtime feeds the score.
func WithAppID(appID int) ClientOption {
	return func(c *Client) {
		if appID > 0 {
			c.appID = appID
		}
	}
}

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithClientLogger sets a custom logger for the client.
func WithClientLogger(l logger.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// RetrieverOption applies a configuration option to the Retriever.
type RetrieverOption func(*Retriever)

// WithAttempts bounds full-profile assembly attempts.
func WithAttempts(attempts int) RetrieverOption {
	return func(r *Retriever) {
		if attempts > 0 {
			r.attempts = attempts
		}
	}
}

// WithRetryDelay sets the fixed delay between assembly attempts.
// Zero is honored so tests can run without sleeping.
func WithRetryDelay(d time.Duration) RetrieverOption {
	return func(r *Retriever) {
		if d >= 0 {
			r.delay = d
		}
	}
}

// WithRetrieverLogger sets a custom logger for the retriever.
func WithRetrieverLogger(l logger.Logger) RetrieverOption {
	return func(r *Retriever) {
		if l != nil {
			r.logger = l
		}
	}
}
