package steam

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/squadgate/gatekeeper/internal/domain/model"
	"github.com/squadgate/gatekeeper/pkg/logger"
	"github.com/squadgate/gatekeeper/pkg/metrics"
)

// Default retriever configuration constants.
const (
	defaultAttempts   = 3
	defaultRetryDelay = 2 * time.Second
)

// Attribute names used in logs and metrics labels.
const (
	attrGameHours  = "game_hours"
	attrVisibility = "visibility"
	attrGameCount  = "game_count"
	attrName       = "name"
	attrFriends    = "friends"
	attrBadges     = "badges"
)

// Retriever assembles a best-effort profile from independent attribute
// fetches. Retries are coordinated at the whole-profile level: an attempt
// refetches every attribute fresh, and retrying stops as soon as one
// attempt completes the profile. Fields are not carried across attempts.
type Retriever struct {
	client   *Client
	attempts int
	delay    time.Duration
	logger   logger.Logger
}

// NewRetriever creates a profile retriever over the given client.
func NewRetriever(client *Client, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		client:   client,
		attempts: defaultAttempts,
		delay:    defaultRetryDelay,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = logger.Get().Named("retriever")
	}

	return r
}

// Fetch retrieves a profile for id. It never returns an error: attributes
// still absent after the final attempt stay absent, carrying their reason.
func (r *Retriever) Fetch(ctx context.Context, id model.Identifier) model.Profile {
	start := time.Now()
	defer func() {
		metrics.RecordProfileFetchDuration(time.Since(start).Seconds())
		metrics.RecordProfileRetrieved()
	}()

	var p model.Profile
	attempt := 0
	op := func() error {
		attempt++
		p = r.assemble(ctx, id)
		if p.Complete() {
			return nil
		}
		missing := missingAttributes(p)
		r.logger.Debug(ctx, "attempt left profile incomplete",
			logger.String("id", string(id)),
			logger.Int("attempt", attempt),
			logger.String("missing", strings.Join(missing, ",")),
		)
		return fmt.Errorf("%w: %s", ErrIncompleteProfile, strings.Join(missing, ","))
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(r.delay), uint64(r.attempts-1)),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		r.logger.Warn(ctx, "profile remains partial after all attempts",
			logger.String("id", string(id)),
			logger.Int("attempts", attempt),
			logger.Error(err),
		)
	}

	return p
}

// assemble runs the four attribute fetches once, sequentially.
func (r *Retriever) assemble(ctx context.Context, id model.Identifier) model.Profile {
	p := model.Profile{ID: id}
	p.GameHours, p.GameCount = r.client.OwnedGames(ctx, id)
	p.Name, p.VisibilityLevel = r.client.PlayerSummary(ctx, id)
	p.FriendCount = r.client.FriendCount(ctx, id)
	p.BadgeCount = r.client.BadgeCount(ctx, id)
	r.recordFailures(ctx, p)
	return p
}

func (r *Retriever) recordFailures(ctx context.Context, p model.Profile) {
	for _, f := range []struct {
		attr string
		err  error
	}{
		{attrGameHours, p.GameHours.Err},
		{attrVisibility, p.VisibilityLevel.Err},
		{attrGameCount, p.GameCount.Err},
		{attrName, p.Name.Err},
		{attrFriends, p.FriendCount.Err},
		{attrBadges, p.BadgeCount.Err},
	} {
		if f.err == nil {
			continue
		}
		metrics.RecordAttributeFailure(f.attr)
		r.logger.Debug(ctx, "attribute fetch failed",
			logger.String("id", string(p.ID)),
			logger.String("attribute", f.attr),
			logger.Error(f.err),
		)
	}
}

func missingAttributes(p model.Profile) []string {
	var missing []string
	if !p.GameHours.OK() {
		missing = append(missing, attrGameHours)
	}
	if !p.VisibilityLevel.OK() {
		missing = append(missing, attrVisibility)
	}
	if !p.GameCount.OK() {
		missing = append(missing, attrGameCount)
	}
	if !p.Name.OK() {
		missing = append(missing, attrName)
	}
	if !p.FriendCount.OK() {
		missing = append(missing, attrFriends)
	}
	if !p.BadgeCount.OK() {
		missing = append(missing, attrBadges)
	}
	return missing
}
