package cache

import (
	"context"
	"log/slog"

	domainconfig "github.com/voteagora/agora-tally/internal/domain/config"
	"github.com/voteagora/agora-tally/internal/usecase"
)

// NewResultCache picks redis when a url is configured and falls back to
// the in-process cache when it is not, or when redis is unreachable.
func NewResultCache(cfg *domainconfig.RuntimeConfig, logger *slog.Logger) (usecase.ResultCache, func()) {
	if cfg.RedisURL == "" {
		return NewMemoryCache(), func() {}
	}
	rc, err := NewRedisCache(context.Background(), cfg.RedisURL, logger)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory result cache", "error", err)
		return NewMemoryCache(), func() {}
	}
	return rc, func() { _ = rc.Close() }
}
