package dispatch

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/pazarhub/backend/internal/domain/marketplace"
	"github.com/pazarhub/backend/internal/domain/outbox"
)

// Service drains the outbox: it delivers due entries to the ERP, writes the
// acknowledgment reference back onto the canonical order, and applies the
// bounded-retry policy on failure. Exhausted entries stay visible until an
// operator resets or abandons them.
type Service struct {
	entries outbox.Repository
	orders  marketplace.OrderRepository
	erp     outbox.ERPClient
	logger  *zap.Logger
}

// NewService creates a dispatch Service.
func NewService(entries outbox.Repository, orders marketplace.OrderRepository, erp outbox.ERPClient, logger *zap.Logger) *Service {
	return &Service{
		entries: entries,
		orders:  orders,
		erp:     erp,
		logger:  logger,
	}
}

// DispatchDue attempts delivery for every entry whose retry gate has
// elapsed. It returns the number of entries delivered in this pass. One
// entry failing never blocks the rest of the batch.
func (s *Service) DispatchDue(ctx context.Context, batchSize int) (int, error) {
	if s.erp == nil {
		return 0, errors.New("dispatch: no erp client configured")
	}
	due, err := s.entries.FindDue(ctx, time.Now(), batchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, entry := range due {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if s.dispatchOne(ctx, entry) {
			sent++
		}
	}
	return sent, nil
}

// dispatchOne attempts one delivery, reporting whether it succeeded.
func (s *Service) dispatchOne(ctx context.Context, entry *outbox.Entry) bool {
	ref, err := s.erp.SubmitOrder(ctx, entry.Payload, entry.IdempotencyKey)
	switch {
	case err == nil:
		entry.MarkSent(ref)
		if uerr := s.orders.SetERPReference(ctx, entry.OwnerID, entry.Marketplace, entry.ExternalID, ref); uerr != nil {
			s.logger.Error("writing erp reference onto order",
				zap.String("external_id", entry.ExternalID),
				zap.Error(uerr),
			)
		}
		s.logger.Info("outbox entry delivered",
			zap.String("marketplace", entry.Marketplace.String()),
			zap.String("external_id", entry.ExternalID),
			zap.String("reference", ref),
		)

	case errors.Is(err, outbox.ErrDownstreamRejected):
		// A semantic rejection never succeeds on retry.
		entry.MarkRejected(err.Error())
		s.logger.Warn("outbox entry rejected by downstream",
			zap.String("external_id", entry.ExternalID),
			zap.Error(err),
		)

	default:
		entry.MarkFailed(err.Error())
		s.logger.Warn("outbox delivery attempt failed",
			zap.String("external_id", entry.ExternalID),
			zap.Int("attempt", entry.AttemptCount),
			zap.Int("max_attempts", entry.MaxAttempts),
			zap.Error(err),
		)
	}

	if uerr := s.entries.Update(ctx, entry); uerr != nil {
		s.logger.Error("persisting outbox entry state",
			zap.String("external_id", entry.ExternalID),
			zap.Error(uerr),
		)
		return false
	}
	return entry.State == outbox.StateSent
}

// ListExhausted lists exhausted entries for operator review.
func (s *Service) ListExhausted(ctx context.Context, page, pageSize int) ([]*outbox.Entry, int64, error) {
	return s.entries.FindExhausted(ctx, page, pageSize)
}

// Reset reactivates one exhausted entry so the next dispatch pass retries it
// with a fresh attempt budget.
func (s *Service) Reset(ctx context.Context, key string) (*outbox.Entry, error) {
	entry, err := s.entries.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := entry.ResetForRetry(); err != nil {
		return nil, err
	}
	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, err
	}
	s.logger.Info("outbox entry reset for retry", zap.String("idempotency_key", key))
	return entry, nil
}

// Stats returns entry counts grouped by delivery state.
func (s *Service) Stats(ctx context.Context) (map[outbox.State]int64, error) {
	return s.entries.CountByState(ctx)
}
