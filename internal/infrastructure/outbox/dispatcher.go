// Package outbox runs the background delivery loop over the persisted
// outbox entries.
package outbox

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pazarhub/backend/internal/application/dispatch"
)

// DispatcherConfig holds configuration for the background dispatcher.
type DispatcherConfig struct {
	BatchSize    int
	PollInterval time.Duration
}

// DefaultDispatcherConfig returns default configuration.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		BatchSize:    50,
		PollInterval: 15 * time.Second,
	}
}

// Dispatcher polls for due outbox entries and hands them to the dispatch
// service. One dispatcher per process is enough; the idempotency key makes
// accidental concurrent delivery harmless.
type Dispatcher struct {
	service *dispatch.Service
	config  DispatcherConfig
	logger  *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDispatcher creates a new background dispatcher.
func NewDispatcher(service *dispatch.Service, config DispatcherConfig, logger *zap.Logger) *Dispatcher {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultDispatcherConfig().BatchSize
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultDispatcherConfig().PollInterval
	}
	return &Dispatcher{
		service: service,
		config:  config,
		logger:  logger,
	}
}

// Start starts the background delivery loop.
func (d *Dispatcher) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.wg.Add(1)
	go d.pollLoop(ctx)

	d.logger.Info("outbox dispatcher started",
		zap.Int("batch_size", d.config.BatchSize),
		zap.Duration("poll_interval", d.config.PollInterval),
	)
	return nil
}

// Stop gracefully stops the dispatcher.
func (d *Dispatcher) Stop(ctx context.Context) error {
	if d.cancel != nil {
		d.cancel()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("outbox dispatcher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pollLoop is the main delivery loop.
func (d *Dispatcher) pollLoop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sent, err := d.service.DispatchDue(ctx, d.config.BatchSize)
			if err != nil && ctx.Err() == nil {
				d.logger.Error("outbox dispatch pass failed", zap.Error(err))
				continue
			}
			if sent > 0 {
				d.logger.Debug("outbox dispatch pass finished", zap.Int("sent", sent))
			}
		}
	}
}
