package jobs

import (
	"context"
	"time"

	"github.com/sudo-init-do/bazaar/internal/logx"
)

// TickerScheduler reshuffles every vertical on a local timer.
type TickerScheduler struct {
	Shuffler *Shuffler
	Interval time.Duration
}

func (t *TickerScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	logx.Info().Dur("interval", t.Interval).Msg("catalog shuffle ticker started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := t.Shuffler.Shuffle("", 0); err != nil {
				logx.Error().Err(err).Msg("catalog shuffle failed")
			}
		}
	}
}
