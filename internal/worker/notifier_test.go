package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/bob1127/eSIM-pwa-sub000/internal/domain/model"
	"github.com/bob1127/eSIM-pwa-sub000/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewNotificationProcessorClampsDefaults(t *testing.T) {
	p := NewNotificationProcessor(&test.DeliveryFacadeStub{}, time.Second, 0, -1, discardLogger())

	if p.workers != 1 {
		t.Errorf("workers = %d, want 1", p.workers)
	}
	if p.batchSize != 1 {
		t.Errorf("batchSize = %d, want 1", p.batchSize)
	}
}

func TestNotificationProcessorDeliversBatch(t *testing.T) {
	facade := &test.DeliveryFacadeStub{
		Batches: [][]model.Order{{
			{ID: "ord-1", Status: model.OrderStatusCompleted},
			{ID: "ord-2", Status: model.OrderStatusCompleted},
		}},
	}
	p := NewNotificationProcessor(facade, 10*time.Millisecond, 5, 2, discardLogger())

	p.Start(context.Background())
	defer p.Stop()

	deadline := time.After(2 * time.Second)
	for {
		facade.Lock()
		done := len(facade.Delivered) == 2
		facade.Unlock()
		if done {
			break
		}
		select {
		case <-deadline:
			t.Fatal("orders were not delivered in time")
		case <-time.After(5 * time.Millisecond):
		}
	}

	facade.Lock()
	defer facade.Unlock()
	seen := map[string]bool{}
	for _, id := range facade.Delivered {
		seen[id] = true
	}
	if !seen["ord-1"] || !seen["ord-2"] {
		t.Errorf("delivered = %v", facade.Delivered)
	}
}

func TestNotificationProcessorOutlivesStartContext(t *testing.T) {
	facade := &test.DeliveryFacadeStub{
		Batches: [][]model.Order{{
			{ID: "ord-1", Status: model.OrderStatusCompleted},
		}},
	}
	p := NewNotificationProcessor(facade, 10*time.Millisecond, 5, 1, discardLogger())

	// Lifecycle start hooks cancel their context as soon as startup returns;
	// delivery must keep running until Stop.
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	cancel()
	defer p.Stop()

	deadline := time.After(2 * time.Second)
	for {
		facade.Lock()
		done := len(facade.Delivered) == 1
		facade.Unlock()
		if done {
			break
		}
		select {
		case <-deadline:
			t.Fatal("delivery stopped when the start context was cancelled")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNotificationProcessorStops(t *testing.T) {
	facade := &test.DeliveryFacadeStub{}
	p := NewNotificationProcessor(facade, 5*time.Millisecond, 1, 1, discardLogger())

	p.Start(context.Background())

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
