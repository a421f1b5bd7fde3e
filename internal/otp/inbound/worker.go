package inbound

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
)

// DefaultReaperInterval is used when no positive interval is configured.
const DefaultReaperInterval = time.Minute

type reaper interface {
	ExpireLapsed(ctx context.Context) (int64, error)
}

// RegisterReaper runs uc.ExpireLapsed every interval until ctx is done.
// A failed sweep is logged and retried on the next tick.
func RegisterReaper(ctx context.Context, routine *goroutine.Manager, uuid uid.StringID, uc reaper, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultReaperInterval
	}

	return routine.Go(ctx, "otp-reaper", func(ctx context.Context) error {
		slog.InfoContext(ctx, "otp reaper started", "interval", interval.String())

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.InfoContext(ctx, "otp reaper stopped")
				return nil
			case <-ticker.C:
				tickCtx := instrument.SetCorrelationID(ctx, uuid.Generate())
				_, _ = uc.ExpireLapsed(tickCtx)
			}
		}
	})
}
