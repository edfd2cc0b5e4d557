package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jmcastano/payflow/internal/adapter/wompi"
	"github.com/jmcastano/payflow/internal/domain/model"
)

// CheckoutFacade exposes the subset of application functionality required by the sweeper.
type CheckoutFacade interface {
	StalePendingOrders(ctx context.Context, olderThan time.Duration, limit int) ([]model.Order, error)
	CheckTransaction(ctx context.Context, gatewayTxID string) (*wompi.TransactionResult, error)
	ApplyTransactionStatus(ctx context.Context, orderID string, status model.OrderStatus, gatewayTxID *string) (*model.Order, error)
}

// PendingSweeper polls the gateway for orders stuck in PENDING and reconciles
// their final status concurrently. It covers the window where a webhook was
// lost or the process crashed between the gateway call and the status update.
type PendingSweeper struct {
	facade     CheckoutFacade
	interval   time.Duration
	pendingTTL time.Duration
	batchSize  int
	workers    int
	logger     *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewPendingSweeper constructs the sweeper worker pool.
func NewPendingSweeper(facade CheckoutFacade, interval, pendingTTL time.Duration, batchSize, workers int, logger *slog.Logger) *PendingSweeper {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &PendingSweeper{
		facade:     facade,
		interval:   interval,
		pendingTTL: pendingTTL,
		batchSize:  batchSize,
		workers:    workers,
		logger:     logger,
		jobs:       make(chan model.Order, batchSize*workers),
	}
}

// Start launches background processing.
func (s *PendingSweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(runCtx)
	}

	s.wg.Add(1)
	go s.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (s *PendingSweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *PendingSweeper) dispatch(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.jobs)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fetchAndDispatch(ctx)
		}
	}
}

func (s *PendingSweeper) fetchAndDispatch(ctx context.Context) {
	orders, err := s.facade.StalePendingOrders(ctx, s.pendingTTL, s.batchSize)
	if err != nil {
		s.logger.Error("fetch stale pending orders failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case s.jobs <- order:
		}
	}
}

func (s *PendingSweeper) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-s.jobs:
			if !ok {
				return
			}
			s.handleOrder(ctx, order)
		}
	}
}

func (s *PendingSweeper) handleOrder(ctx context.Context, order model.Order) {
	// Without a gateway id there is nothing to poll: the process died before
	// the transaction was created, so the order can never complete.
	if order.GatewayTransactionID == nil || *order.GatewayTransactionID == "" {
		s.logger.Warn("stale pending order has no gateway transaction, voiding",
			slog.String("order", order.ID))
		if _, err := s.facade.ApplyTransactionStatus(ctx, order.ID, model.OrderStatusVoided, nil); err != nil {
			s.logger.Error("mark abandoned order failed",
				slog.String("order", order.ID), slog.String("error", err.Error()))
		}
		return
	}

	result, err := s.facade.CheckTransaction(ctx, *order.GatewayTransactionID)
	if err != nil {
		s.logger.Error("gateway transaction check failed",
			slog.String("order", order.ID),
			slog.String("gateway_tx", *order.GatewayTransactionID),
			slog.String("error", err.Error()))
		return
	}

	status := model.NormalizeStatus(result.Status)
	if status == model.OrderStatusPending {
		// Still in flight at the gateway, pick it up on a later sweep.
		return
	}

	if _, err := s.facade.ApplyTransactionStatus(ctx, order.ID, status, order.GatewayTransactionID); err != nil {
		s.logger.Error("reconcile stale order failed",
			slog.String("order", order.ID), slog.String("error", err.Error()))
	}
}
