package usecase

import (
	"context"
	"log/slog"
)

// ExpireLapsed moves every ACTIVE record past its expiry to EXPIRED.
func (s *Usecase) ExpireLapsed(ctx context.Context) (int64, error) {
	ctx, span := s.startSpan(ctx, "ExpireLapsed")
	defer span.End()

	n, err := s.repoDB.ExpireLapsed(ctx, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo expire lapsed records", "error", err)
		return 0, err
	}

	if n > 0 {
		s.expired.Add(ctx, n)
		slog.InfoContext(ctx, "expired lapsed codes", "count", n)
	}

	return n, nil
}
