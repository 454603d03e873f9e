package cron

import (
	"time"

	"booknest/services/session"

	robfig "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// LimiterPruner drops per-number send throttles that are no longer needed.
type LimiterPruner interface {
	PruneLimiters() int
}

// StartSessionSweeper closes sessions idle for longer than idle and prunes
// send throttles, checking once a minute. limits may be nil. Stop the
// returned scheduler on shutdown.
func StartSessionSweeper(registry *session.Registry, limits LimiterPruner, idle time.Duration, logger *zap.Logger) (*robfig.Cron, error) {
	c := robfig.New()
	_, err := c.AddFunc("@every 1m", func() {
		if n := registry.Sweep(idle); n > 0 {
			logger.Info("[SessionSweeper] Closed idle sessions", zap.Int("count", n), zap.Int("live", registry.Len()))
		}
		if limits == nil {
			return
		}
		if n := limits.PruneLimiters(); n > 0 {
			logger.Debug("[SessionSweeper] Pruned send throttles", zap.Int("count", n))
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
