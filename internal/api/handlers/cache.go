package handlers

import (
	"context"
	"time"
)

// responseCache is the slice of the cache service the analysis handlers
// use. A nil cache disables response caching entirely.
type responseCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// analysisCacheTTL bounds how stale a cached analysis response may be.
// Short enough to pick up projection and injury movement during game weeks.
const analysisCacheTTL = 5 * time.Minute
