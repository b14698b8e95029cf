package stream

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const liveSessionsKey = "meetup:live_sessions"

// Presence keeps a gauge of currently connected broadcast sessions in Redis.
// It is observational only; sessions never coordinate through it. A nil
// Presence (Redis not configured) is a valid no-op instance.
type Presence struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewPresence creates a presence gauge backed by the given Redis client.
func NewPresence(rdb *redis.Client, logger *zap.Logger) *Presence {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Presence{rdb: rdb, logger: logger}
}

// Connect increments the live-session gauge.
func (p *Presence) Connect(ctx context.Context) {
	if p == nil || p.rdb == nil {
		return
	}
	if err := p.rdb.Incr(ctx, liveSessionsKey).Err(); err != nil {
		p.logger.Warn("presence incr failed", zap.Error(err))
	}
}

// Disconnect decrements the live-session gauge.
func (p *Presence) Disconnect(ctx context.Context) {
	if p == nil || p.rdb == nil {
		return
	}
	if err := p.rdb.Decr(ctx, liveSessionsKey).Err(); err != nil {
		p.logger.Warn("presence decr failed", zap.Error(err))
	}
}

// Live returns the current gauge value. ok is false when Redis is not
// configured or unreachable.
func (p *Presence) Live(ctx context.Context) (count int64, ok bool) {
	if p == nil || p.rdb == nil {
		return 0, false
	}
	n, err := p.rdb.Get(ctx, liveSessionsKey).Int64()
	if err != nil && err != redis.Nil {
		p.logger.Warn("presence read failed", zap.Error(err))
		return 0, false
	}
	return n, true
}
