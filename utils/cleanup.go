package utils

import (
	"context"
	"time"
)

// StartPeriodic runs fn every interval until ctx is cancelled. Failures are
// logged and the loop continues.
func StartPeriodic(ctx context.Context, name string, interval time.Duration, fn func(context.Context) error) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := fn(ctx); err != nil {
					Sugar.Warnf("%s failed: %v", name, err)
				}
			}
		}
	}()
}
