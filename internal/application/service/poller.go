package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mkovac/erpsync/internal/domain"
	"github.com/mkovac/erpsync/internal/erp"
)

// pollForOrder re-queries the remote for an order whose create response did
// not confirm the outcome. Attempts are spaced by a fixed delay, with one
// extra longer-delay attempt once the regular budget is spent. Absence after
// exhaustion is reported to the caller, who decides whether that is fatal.
func (s *Service) pollForOrder(ctx context.Context, token, reference string) (*erp.RemoteOrder, bool) {
	for attempt := 1; attempt <= s.poll.Attempts; attempt++ {
		if err := sleepWithContext(ctx, s.poll.Delay); err != nil {
			return nil, false
		}
		ro, err := s.remote.FindOrderByReference(ctx, token, reference)
		if err == nil {
			s.logger.Info("order confirmed by poll",
				zap.String("reference", reference),
				zap.Int64("remote_order_id", ro.ID),
				zap.Int("attempt", attempt),
			)
			return ro, true
		}
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("poll attempt failed",
				zap.String("reference", reference),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		}
	}

	if err := sleepWithContext(ctx, s.poll.FinalDelay); err != nil {
		return nil, false
	}
	ro, err := s.remote.FindOrderByReference(ctx, token, reference)
	if err == nil {
		s.logger.Info("order confirmed by final poll",
			zap.String("reference", reference),
			zap.Int64("remote_order_id", ro.ID),
		)
		return ro, true
	}

	s.logger.Error("poll exhausted without finding order",
		zap.String("reference", reference),
		zap.Int("attempts", s.poll.Attempts+1),
	)
	return nil, false
}
