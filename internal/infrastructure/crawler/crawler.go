package crawler

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/pazarhub/backend/internal/domain/marketplace"
)

var (
	ErrInvalidConfig = errors.New("crawler: invalid configuration")
	// ErrPageCapReached is surfaced when the cursor was not exhausted within
	// the page cap; the run is aborted rather than crawling unboundedly.
	ErrPageCapReached = errors.New("crawler: page cap reached with pages remaining")
	// ErrUnauthorized aborts the run immediately: credentials need operator
	// intervention, retrying cannot help.
	ErrUnauthorized = errors.New("crawler: unauthorized, aborting without retry")
	// ErrPageFailed means one page exhausted its retry budget.
	ErrPageFailed = errors.New("crawler: page failed after retries")
)

// Config bounds a crawl.
type Config struct {
	// MaxPages caps the number of page fetches per run
	MaxPages int
	// MaxAttempts is the per-page attempt ceiling for retryable errors
	MaxAttempts int
	// BaseBackoff is the first retry delay; subsequent delays double
	BaseBackoff time.Duration
	// MaxBackoff caps a single delay
	MaxBackoff time.Duration
}

// DefaultConfig returns the standard crawl bounds.
func DefaultConfig() Config {
	return Config{
		MaxPages:    5,
		MaxAttempts: 3,
		BaseBackoff: time.Second,
		MaxBackoff:  30 * time.Second,
	}
}

// Validate validates the configuration
func (c Config) Validate() error {
	if c.MaxPages <= 0 || c.MaxAttempts <= 0 || c.BaseBackoff <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// FetchFunc fetches one page for a cursor. A nil cursor requests the first page.
type FetchFunc func(ctx context.Context, cursor *string) (*marketplace.Page, error)

// SinkFunc consumes one fetched page. A sink error aborts the crawl.
type SinkFunc func(ctx context.Context, page *marketplace.Page) error

// Stats summarizes a finished or aborted crawl.
type Stats struct {
	PagesFetched int
	ItemsSeen    int
}

// Crawler drives an adapter capability through successive pages with bounded
// fetch count and backoff. It is stateless across crawls and safe for
// concurrent use.
type Crawler struct {
	cfg    Config
	logger *zap.Logger
	// sleep is swapped in tests to avoid real delays
	sleep func(ctx context.Context, d time.Duration) error
	// jitter returns a random factor in [0.5, 1.5)
	jitter func() float64
}

// New creates a Crawler.
func New(cfg Config, logger *zap.Logger) (*Crawler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Crawler{
		cfg:    cfg,
		logger: logger,
		sleep:  sleepCtx,
		jitter: func() float64 { return 0.5 + rand.Float64() },
	}, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Crawl pulls pages until the cursor is exhausted, the page cap is hit, or an
// unrecoverable error occurs. Each cursor is fetched at most once
// successfully; a page-level retry always replays the same cursor.
func (c *Crawler) Crawl(ctx context.Context, fetch FetchFunc, sink SinkFunc) (Stats, error) {
	var stats Stats
	var cursor *string

	for stats.PagesFetched < c.cfg.MaxPages {
		page, err := c.fetchWithRetry(ctx, fetch, cursor, stats.PagesFetched)
		if err != nil {
			return stats, err
		}

		stats.PagesFetched++
		stats.ItemsSeen += len(page.Items)

		if err := sink(ctx, page); err != nil {
			return stats, err
		}

		if page.NextCursor == nil {
			return stats, nil
		}
		cursor = page.NextCursor
	}

	return stats, ErrPageCapReached
}

// fetchWithRetry retries the same cursor on transient or rate-limit errors up
// to the attempt ceiling, with exponential backoff and jitter.
func (c *Crawler) fetchWithRetry(ctx context.Context, fetch FetchFunc, cursor *string, pageIndex int) (*marketplace.Page, error) {
	var lastErr error

	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		page, err := fetch(ctx, cursor)
		if err == nil {
			return page, nil
		}
		lastErr = err

		if marketplace.IsUnauthorized(err) {
			c.logger.Warn("crawl aborted on auth failure",
				zap.Int("page", pageIndex),
				zap.Error(err),
			)
			return nil, errors.Join(ErrUnauthorized, err)
		}
		if !marketplace.IsRetryable(err) {
			return nil, errors.Join(ErrPageFailed, err)
		}
		if attempt == c.cfg.MaxAttempts {
			break
		}

		delay := c.backoff(attempt)
		c.logger.Debug("retrying page after transient error",
			zap.Int("page", pageIndex),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	c.logger.Warn("page failed after retry budget",
		zap.Int("page", pageIndex),
		zap.Int("attempts", c.cfg.MaxAttempts),
		zap.Error(lastErr),
	)
	return nil, errors.Join(ErrPageFailed, lastErr)
}

// backoff computes the delay before attempt+1: base * 2^(attempt-1), jittered.
func (c *Crawler) backoff(attempt int) time.Duration {
	d := c.cfg.BaseBackoff * time.Duration(1<<uint(attempt-1))
	if c.cfg.MaxBackoff > 0 && d > c.cfg.MaxBackoff {
		d = c.cfg.MaxBackoff
	}
	return time.Duration(float64(d) * c.jitter())
}
