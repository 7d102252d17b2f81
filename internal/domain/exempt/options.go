package exempt

import (
	"github.com/squadgate/gatekeeper/pkg/logger"
)

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithLogger sets a custom logger for the resolver.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}
