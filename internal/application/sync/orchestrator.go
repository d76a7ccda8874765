package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pazarhub/backend/internal/domain/marketplace"
	"github.com/pazarhub/backend/internal/domain/outbox"
	"github.com/pazarhub/backend/internal/domain/syncrun"
	"github.com/pazarhub/backend/internal/infrastructure/crawler"
	"github.com/pazarhub/backend/internal/infrastructure/statusmap"
)

// ERPTarget names the downstream system order payloads are forwarded to.
const ERPTarget = "erp"

// Config tunes the orchestrator.
type Config struct {
	// LockTTL bounds how long a crashed worker can hold a tuple lock
	LockTTL time.Duration
	// ForwardOrders enables enqueueing merged orders for ERP delivery
	ForwardOrders bool
	// PaymentType is the ERP payment type code stamped on forwarded orders
	PaymentType int
}

// DefaultConfig returns the standard orchestrator settings.
func DefaultConfig() Config {
	return Config{
		LockTTL:       30 * time.Minute,
		ForwardOrders: true,
		PaymentType:   38,
	}
}

// Orchestrator drives sync runs: it resolves the adapter capability, crawls
// pages, normalizes and merges each item, writes the per-item audit trail,
// and finalizes the run outcome from the item counters.
type Orchestrator struct {
	registry   marketplace.Registry
	normalizer *statusmap.Normalizer
	merger     *RecordMerger
	runs       syncrun.RunRepository
	itemLogs   syncrun.ItemLogRepository
	locker     syncrun.Locker
	outbox     outbox.Repository
	crawler    *crawler.Crawler
	cfg        Config
	logger     *zap.Logger

	// runAsync is swapped in tests to run synchronously
	runAsync func(fn func())
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(
	registry marketplace.Registry,
	normalizer *statusmap.Normalizer,
	merger *RecordMerger,
	runs syncrun.RunRepository,
	itemLogs syncrun.ItemLogRepository,
	locker syncrun.Locker,
	outboxRepo outbox.Repository,
	crawl *crawler.Crawler,
	cfg Config,
	logger *zap.Logger,
) *Orchestrator {
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = DefaultConfig().LockTTL
	}
	return &Orchestrator{
		registry:   registry,
		normalizer: normalizer,
		merger:     merger,
		runs:       runs,
		itemLogs:   itemLogs,
		locker:     locker,
		outbox:     outboxRepo,
		crawler:    crawl,
		cfg:        cfg,
		logger:     logger,
		runAsync:   func(fn func()) { go fn() },
	}
}

// StartSync begins a sync run for one (owner, marketplace, entity) tuple.
// At most one run may be active per tuple: a second trigger while a run is
// active is rejected with syncrun.ErrRunActive, never queued. The crawl
// itself proceeds in the background; the returned run is already Running.
func (o *Orchestrator) StartSync(ctx context.Context, acct marketplace.Account, code marketplace.Code, entity marketplace.EntityType, filter marketplace.ListFilter) (*syncrun.Run, error) {
	adapter, err := o.registry.Get(code)
	if err != nil {
		return nil, err
	}
	fetch, ok := marketplace.Capability(adapter, entity)
	if !ok {
		return nil, fmt.Errorf("%w: %s does not list %s", marketplace.ErrCapabilityAbsent, code, entity)
	}

	run, err := syncrun.New(acct.OwnerID, code, entity)
	if err != nil {
		return nil, err
	}

	acquired, err := o.locker.TryAcquire(ctx, run.Key(), o.cfg.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquiring run lock: %w", err)
	}
	if !acquired {
		return nil, syncrun.ErrRunActive
	}

	if err := run.Start(); err != nil {
		_ = o.locker.Release(ctx, run.Key())
		return nil, err
	}
	if err := o.runs.Save(ctx, run); err != nil {
		_ = o.locker.Release(ctx, run.Key())
		return nil, fmt.Errorf("persisting run: %w", err)
	}

	o.logger.Info("sync run started",
		zap.String("run_id", run.ID.String()),
		zap.String("marketplace", code.String()),
		zap.String("entity", entity.String()),
	)

	o.runAsync(func() {
		// The run outlives the triggering request.
		o.execute(context.Background(), run, acct, fetch, filter)
	})
	return run, nil
}

// SyncTarget pairs an account with the marketplace it authenticates against.
type SyncTarget struct {
	Code    marketplace.Code
	Account marketplace.Account
}

// StartResult is the outcome of one StartSyncAll element.
type StartResult struct {
	Code  marketplace.Code
	RunID uuid.UUID
	Err   error
}

// StartSyncAll triggers one run per configured marketplace for an entity
// type. Marketplaces without the capability are skipped silently; other
// failures are reported per marketplace without aborting the rest.
func (o *Orchestrator) StartSyncAll(ctx context.Context, targets []SyncTarget, entity marketplace.EntityType) []StartResult {
	results := make([]StartResult, 0, len(targets))
	for _, t := range targets {
		run, err := o.StartSync(ctx, t.Account, t.Code, entity, marketplace.ListFilter{})
		if errors.Is(err, marketplace.ErrCapabilityAbsent) {
			continue
		}
		res := StartResult{Code: t.Code, Err: err}
		if run != nil {
			res.RunID = run.ID
		}
		results = append(results, res)
	}
	return results
}

// GetRun returns the current state of a run.
func (o *Orchestrator) GetRun(ctx context.Context, id uuid.UUID) (*syncrun.Run, error) {
	return o.runs.FindByID(ctx, id)
}

// ListRuns lists an owner's runs, newest first.
func (o *Orchestrator) ListRuns(ctx context.Context, ownerID uuid.UUID, filter syncrun.RunFilter) ([]syncrun.Run, int64, error) {
	return o.runs.FindAll(ctx, ownerID, filter)
}

// GetRunItems returns the per-item audit trail of a run.
func (o *Orchestrator) GetRunItems(ctx context.Context, runID uuid.UUID) ([]syncrun.ItemLog, error) {
	if _, err := o.runs.FindByID(ctx, runID); err != nil {
		return nil, err
	}
	return o.itemLogs.FindByRun(ctx, runID)
}

// CheckConnection verifies marketplace credentials with a cheap call.
func (o *Orchestrator) CheckConnection(ctx context.Context, acct marketplace.Account, code marketplace.Code) error {
	adapter, err := o.registry.Get(code)
	if err != nil {
		return err
	}
	return adapter.CheckConnection(ctx, acct)
}

// execute crawls all pages for a run and finalizes its outcome.
func (o *Orchestrator) execute(ctx context.Context, run *syncrun.Run, acct marketplace.Account, fetch marketplace.CapabilityFunc, filter marketplace.ListFilter) {
	defer func() {
		if err := o.locker.Release(ctx, run.Key()); err != nil {
			o.logger.Warn("releasing run lock", zap.String("run_id", run.ID.String()), zap.Error(err))
		}
	}()

	itemsFailed := 0
	sink := func(ctx context.Context, page *marketplace.Page) error {
		for i := range page.Items {
			if err := o.processItem(ctx, run, &page.Items[i]); err != nil {
				itemsFailed++
			}
		}
		return nil
	}

	stats, err := o.crawler.Crawl(ctx,
		func(ctx context.Context, cursor *string) (*marketplace.Page, error) {
			return fetch(ctx, acct, cursor, filter)
		},
		sink,
	)

	if err != nil {
		if ferr := run.Fail(stats.PagesFetched, stats.ItemsSeen, itemsFailed, err.Error()); ferr != nil {
			o.logger.Error("finalizing failed run", zap.String("run_id", run.ID.String()), zap.Error(ferr))
		}
		o.logger.Warn("sync run failed",
			zap.String("run_id", run.ID.String()),
			zap.Int("pages_fetched", stats.PagesFetched),
			zap.Int("items_seen", stats.ItemsSeen),
			zap.Error(err),
		)
	} else {
		if cerr := run.Complete(stats.PagesFetched, stats.ItemsSeen, itemsFailed); cerr != nil {
			o.logger.Error("finalizing run", zap.String("run_id", run.ID.String()), zap.Error(cerr))
		}
		o.logger.Info("sync run finished",
			zap.String("run_id", run.ID.String()),
			zap.String("state", run.State.String()),
			zap.Int("pages_fetched", stats.PagesFetched),
			zap.Int("items_seen", stats.ItemsSeen),
			zap.Int("items_failed", itemsFailed),
		)
	}

	if err := o.runs.Save(ctx, run); err != nil {
		o.logger.Error("persisting run outcome", zap.String("run_id", run.ID.String()), zap.Error(err))
	}
}

// processItem normalizes and merges one raw record and writes exactly one
// audit entry for it. A malformed or unmergeable item fails alone; the rest
// of the page is unaffected.
func (o *Orchestrator) processItem(ctx context.Context, run *syncrun.Run, rec *marketplace.RawRecord) error {
	log := syncrun.NewItemLog(run.ID, rec.ExternalID, syncrun.OutcomeSuccess)

	err := o.mergeRecord(ctx, run, rec, log)
	if err != nil {
		log.Outcome = syncrun.OutcomeFailed
		log.ErrorDetail = err.Error()
		o.logger.Warn("item failed",
			zap.String("run_id", run.ID.String()),
			zap.String("external_id", rec.ExternalID),
			zap.Error(err),
		)
	}

	if aerr := o.itemLogs.Append(ctx, log); aerr != nil {
		o.logger.Error("appending item log",
			zap.String("run_id", run.ID.String()),
			zap.String("external_id", rec.ExternalID),
			zap.Error(aerr),
		)
	}
	return err
}

// mergeRecord dispatches one record to the merge path of its entity type,
// annotating the log with a warning when the raw status had no mapping.
func (o *Orchestrator) mergeRecord(ctx context.Context, run *syncrun.Run, rec *marketplace.RawRecord, log *syncrun.ItemLog) error {
	if rec.DecodeErr != nil {
		return fmt.Errorf("malformed item payload: %w", rec.DecodeErr)
	}

	switch {
	case rec.Order != nil:
		status, mapped := o.normalizer.NormalizeOrder(run.Marketplace, rec.RawStatus)
		if !mapped {
			log.Warning = fmt.Sprintf("unmapped order status %q normalized to %s", rec.RawStatus, marketplace.OrderStatusUnknown)
			o.logger.Warn("unmapped order status",
				zap.String("marketplace", run.Marketplace.String()),
				zap.String("raw_status", rec.RawStatus),
			)
		}
		rec.Order.Status = status
		merged, err := o.merger.MergeOrder(ctx, rec.Order)
		if err != nil {
			return err
		}
		return o.enqueueOrder(ctx, merged)

	case rec.Product != nil:
		approval, mapped := o.normalizer.NormalizeProduct(run.Marketplace, rec.RawStatus)
		if !mapped {
			log.Warning = fmt.Sprintf("unmapped product status %q normalized to %s", rec.RawStatus, marketplace.ProductStatusUnknown)
		}
		rec.Product.Approval = approval
		return o.merger.MergeProduct(ctx, rec.Product)

	case rec.Question != nil:
		return o.merger.MergeQuestion(ctx, rec.Question)

	case rec.Return != nil:
		status, mapped := o.normalizer.NormalizeOrder(run.Marketplace, rec.RawStatus)
		if !mapped {
			log.Warning = fmt.Sprintf("unmapped return status %q normalized to %s", rec.RawStatus, marketplace.OrderStatusUnknown)
		}
		rec.Return.Status = status
		return o.merger.MergeReturn(ctx, rec.Return)

	default:
		return errors.New("record carries no decodable entity")
	}
}

// enqueueOrder buffers the merged order for ERP delivery. The deterministic
// idempotency key makes this a no-op on every re-sync of the same order.
func (o *Orchestrator) enqueueOrder(ctx context.Context, order *marketplace.CanonicalOrder) error {
	if !o.cfg.ForwardOrders {
		return nil
	}
	// Orders already acknowledged by the ERP are never re-enqueued.
	if order.ERPReference != "" {
		return nil
	}

	payload, err := buildERPPayload(order, o.cfg.PaymentType)
	if err != nil {
		return fmt.Errorf("building erp payload: %w", err)
	}

	entry := outbox.NewEntry(order.OwnerID, order.Marketplace, order.ExternalID, ERPTarget, payload)
	created, err := o.outbox.CreateIfAbsent(ctx, entry)
	if err != nil {
		return fmt.Errorf("enqueueing order for erp: %w", err)
	}
	if created {
		o.logger.Debug("order enqueued for erp",
			zap.String("marketplace", order.Marketplace.String()),
			zap.String("external_id", order.ExternalID),
		)
	}
	return nil
}
