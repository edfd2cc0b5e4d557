package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jmcastano/payflow/internal/adapter/wompi"
	"github.com/jmcastano/payflow/internal/domain/model"
	testhelpers "github.com/jmcastano/payflow/internal/test"
)

func TestNewPendingSweeperDefaults(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	sweeper := NewPendingSweeper(&testhelpers.SweeperFacadeStub{}, time.Second, time.Minute, 0, 0, logger)
	if sweeper.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", sweeper.batchSize)
	}
	if sweeper.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", sweeper.workers)
	}
}

func waitForApplications(t *testing.T, facade *testhelpers.SweeperFacadeStub) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		facade.Lock()
		applied := len(facade.Applications) > 0
		facade.Unlock()
		if applied {
			return
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for status application")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestPendingSweeperReconcilesStaleOrder(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	txID := "wompi-tx-1"
	facade := &testhelpers.SweeperFacadeStub{
		Batches: [][]model.Order{{{ID: "ORDER-1", Status: model.OrderStatusPending, GatewayTransactionID: &txID}}},
	}
	sweeper := NewPendingSweeper(facade, 10*time.Millisecond, time.Minute, 1, 1, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper.Start(ctx)
	waitForApplications(t, facade)
	sweeper.Stop()

	facade.Lock()
	defer facade.Unlock()
	applied := facade.Applications[0]
	if applied.OrderID != "ORDER-1" {
		t.Fatalf("unexpected order %s", applied.OrderID)
	}
	if applied.Status != model.OrderStatusApproved {
		t.Fatalf("expected APPROVED from gateway, got %s", applied.Status)
	}
	if applied.GatewayTxID == nil || *applied.GatewayTxID != txID {
		t.Fatal("expected gateway id to be carried through")
	}
}

func TestPendingSweeperVoidsOrderWithoutGatewayID(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.SweeperFacadeStub{
		Batches: [][]model.Order{{{ID: "ORDER-1", Status: model.OrderStatusPending}}},
	}
	sweeper := NewPendingSweeper(facade, 10*time.Millisecond, time.Minute, 1, 1, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper.Start(ctx)
	waitForApplications(t, facade)
	sweeper.Stop()

	facade.Lock()
	defer facade.Unlock()
	if facade.Applications[0].Status != model.OrderStatusVoided {
		t.Fatalf("expected VOIDED for abandoned order, got %s", facade.Applications[0].Status)
	}
}

func TestPendingSweeperSkipsStillPendingTransaction(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	txID := "wompi-tx-1"
	checked := make(chan struct{}, 1)
	facade := &testhelpers.SweeperFacadeStub{
		Batches: [][]model.Order{{{ID: "ORDER-1", Status: model.OrderStatusPending, GatewayTransactionID: &txID}}},
		CheckFn: func(_ context.Context, id string) (*wompi.TransactionResult, error) {
			select {
			case checked <- struct{}{}:
			default:
			}
			return &wompi.TransactionResult{ID: id, Status: "PENDING"}, nil
		},
	}
	sweeper := NewPendingSweeper(facade, 10*time.Millisecond, time.Minute, 1, 1, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper.Start(ctx)

	select {
	case <-checked:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for gateway check")
	}
	sweeper.Stop()

	facade.Lock()
	defer facade.Unlock()
	if len(facade.Applications) != 0 {
		t.Fatalf("expected no status application while gateway still pending, got %d", len(facade.Applications))
	}
}
