package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// MarginReconcileJobName is the name of the catalog margin reconciliation job
const MarginReconcileJobName = "catalog_margin_reconcile"

// DefaultReconcileTimeout bounds a single reconciliation run
const DefaultReconcileTimeout = 5 * time.Minute

// MarginReconciler recomputes catalog margins that drifted from their prices.
// Implemented by service.CatalogService.
type MarginReconciler interface {
	ReconcileMargins(ctx context.Context, batchSize int) (int, error)
}

// MarginReconcileJob keeps the cached catalog margin column consistent
// with landing and quotation prices, including rows written by bulk imports
// that bypassed the model hooks.
type MarginReconcileJob struct {
	reconciler MarginReconciler
	batchSize  int
	timeout    time.Duration
	logger     *zap.Logger
}

// NewMarginReconcileJob creates a new margin reconciliation job
func NewMarginReconcileJob(reconciler MarginReconciler, batchSize int, timeout time.Duration, logger *zap.Logger) *MarginReconcileJob {
	if timeout <= 0 {
		timeout = DefaultReconcileTimeout
	}
	return &MarginReconcileJob{
		reconciler: reconciler,
		batchSize:  batchSize,
		timeout:    timeout,
		logger:     logger,
	}
}

// Run executes one reconciliation pass. Called by the scheduler.
func (j *MarginReconcileJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	fixed, err := j.reconciler.ReconcileMargins(ctx, j.batchSize)
	if err != nil {
		j.logger.Error("margin reconciliation failed",
			zap.Int("fixed", fixed),
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("margin reconciliation completed",
		zap.Int("fixed", fixed),
		zap.Duration("duration", time.Since(start)))
}

// RegisterMarginReconcileJob registers the reconciliation job with the scheduler.
// If runOnStartup is true a first pass runs immediately in the background.
func RegisterMarginReconcileJob(scheduler *Scheduler, reconciler MarginReconciler, logger *zap.Logger, cronExpr string, batchSize int, runOnStartup bool) error {
	job := NewMarginReconcileJob(reconciler, batchSize, DefaultReconcileTimeout, logger)

	if err := scheduler.AddJob(MarginReconcileJobName, cronExpr, job.Run); err != nil {
		return err
	}

	if runOnStartup {
		go job.Run()
	}
	return nil
}
