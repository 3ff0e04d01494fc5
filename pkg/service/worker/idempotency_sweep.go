package worker

import (
	"context"
	"time"

	"github.com/seamark-lab/quartermaster/pkg/domain/interfaces"
	"github.com/seamark-lab/quartermaster/pkg/utils/logging"
)

// IdempotencySweepWorker periodically purges idempotency records whose dedup
// window has passed.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - For future horizontal scaling, implement distributed locking or leader election
type IdempotencySweepWorker struct {
	repo     interfaces.Repository
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewIdempotencySweepWorker creates a sweep worker running every interval
func NewIdempotencySweepWorker(repo interfaces.Repository, interval time.Duration) *IdempotencySweepWorker {
	return &IdempotencySweepWorker{
		repo:     repo,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop. Does not block server startup.
func (w *IdempotencySweepWorker) Start(ctx context.Context) error {
	logging.Default().Info("idempotency sweep worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *IdempotencySweepWorker) Stop() {
	logging.Default().Info("idempotency sweep worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("idempotency sweep worker stopped")
}

// run is the main worker loop (runs in goroutine)
func (w *IdempotencySweepWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.sweep(ctx); err != nil {
				// Log error but continue worker
				logging.Default().Error("idempotency sweep failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			logging.Default().Info("idempotency sweep worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("idempotency sweep worker context cancelled")
			return
		}
	}
}

// sweep performs one purge cycle
func (w *IdempotencySweepWorker) sweep(ctx context.Context) error {
	start := time.Now()

	removed, err := w.repo.Idempotency().PurgeExpired(ctx, start)
	if err != nil {
		return err
	}

	if removed > 0 {
		logging.Default().Info("idempotency sweep completed",
			"removed", removed,
			"duration", time.Since(start).String())
	}

	return nil
}
