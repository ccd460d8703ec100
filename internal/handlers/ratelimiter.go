package handlers

import (
	"net/http"

	"gitlab.com/gitlab-org/coi-serve/internal/config"
	"gitlab.com/gitlab-org/coi-serve/internal/ratelimiter"
)

// Ratelimiter configures the source IP ratelimiter middleware, a disabled
// limit returns handler unchanged
func Ratelimiter(handler http.Handler, config *config.RateLimit) http.Handler {
	if config.SourceIPLimitPerSecond <= 0 {
		return handler
	}

	rl := ratelimiter.New(
		config.SourceIPLimitPerSecond,
		ratelimiter.WithSourceIPBurstSize(config.SourceIPBurst),
	)

	return rl.SourceIPLimiter(handler)
}
