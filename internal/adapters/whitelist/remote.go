package whitelist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/squadgate/gatekeeper/internal/domain/model"
)

const defaultTimeout = 10 * time.Second

// RemoteSource fetches the newline-separated remote exemption list.
// It satisfies the resolver's Source contract.
type RemoteSource struct {
	url        string
	httpClient *http.Client
}

// RemoteOption applies a configuration option to the RemoteSource.
type RemoteOption func(*RemoteSource)

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(hc *http.Client) RemoteOption {
	return func(s *RemoteSource) {
		if hc != nil {
			s.httpClient = hc
		}
	}
}

// WithTimeout sets the fetch timeout.
func WithTimeout(d time.Duration) RemoteOption {
	return func(s *RemoteSource) {
		if d > 0 {
			s.httpClient.Timeout = d
		}
	}
}

// NewRemoteSource creates a source over the given URL.
func NewRemoteSource(url string, opts ...RemoteOption) *RemoteSource {
	s := &RemoteSource{
		url:        url,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch retrieves the remote list. Non-2xx statuses and network failures
// are errors; the caller decides how to degrade.
func (s *RemoteSource) Fetch(ctx context.Context) ([]model.Identifier, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch whitelist: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("fetch whitelist: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read whitelist body: %w", err)
	}
	return parseLines(string(body)), nil
}
