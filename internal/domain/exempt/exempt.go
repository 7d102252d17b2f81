// Package exempt resolves whitelist exemptions from a local set and a
// periodically refreshed remote set.
package exempt

import (
	"context"
	"sync"

	"github.com/squadgate/gatekeeper/internal/domain/model"
	"github.com/squadgate/gatekeeper/pkg/logger"
	"github.com/squadgate/gatekeeper/pkg/metrics"
)

// Source fetches the remote exemption list.
type Source interface {
	Fetch(ctx context.Context) ([]model.Identifier, error)
}

// Resolver answers membership checks against the union of the local set and
// the most recently fetched remote set. A failed remote refresh degrades the
// resolver to local-only rather than failing the caller.
type Resolver struct {
	mu     sync.RWMutex
	local  map[model.Identifier]struct{}
	remote map[model.Identifier]struct{}

	source Source
	logger logger.Logger
}

// New constructs a Resolver over the local identifiers and remote source.
func New(local []model.Identifier, source Source, opts ...Option) *Resolver {
	r := &Resolver{
		local:  make(map[model.Identifier]struct{}, len(local)),
		remote: make(map[model.Identifier]struct{}),
		source: source,
	}
	for _, id := range local {
		r.local[id] = struct{}{}
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = logger.Get().Named("exempt")
	}

	return r
}

// IsExempt reports whether id is in the local or cached remote set.
func (r *Resolver) IsExempt(id model.Identifier) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.local[id]; ok {
		return true
	}
	_, ok := r.remote[id]
	return ok
}

// RefreshRemote refetches the remote exemption list. On any failure the
// cached remote set is replaced with an empty one so exemption checks
// degrade to local-only.
func (r *Resolver) RefreshRemote(ctx context.Context) {
	var fetched []model.Identifier
	if r.source != nil {
		var err error
		fetched, err = r.source.Fetch(ctx)
		if err != nil {
			r.logger.Warn(ctx, "remote whitelist refresh failed; degrading to local-only",
				logger.Error(err),
			)
			metrics.RecordWhitelistRefreshFailure()
			fetched = nil
		}
	}

	remote := make(map[model.Identifier]struct{}, len(fetched))
	for _, id := range fetched {
		remote[id] = struct{}{}
	}

	r.mu.Lock()
	r.remote = remote
	local, remoteLen := len(r.local), len(r.remote)
	r.mu.Unlock()

	metrics.UpdateWhitelistSizes(local, remoteLen)
	r.logger.Debug(ctx, "remote whitelist refreshed",
		logger.Int("local", local),
		logger.Int("remote", remoteLen),
	)
}

// Sizes returns the current local and remote set sizes.
func (r *Resolver) Sizes() (local, remote int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.local), len(r.remote)
}
