package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bob1127/eSIM-pwa-sub000/internal/domain/model"
)

// DeliveryFacade exposes the subset of application functionality required by the worker.
type DeliveryFacade interface {
	OrdersAwaitingNotification(ctx context.Context, limit int) ([]model.Order, error)
	ResendNotification(ctx context.Context, orderID string) error
}

// NotificationProcessor retries QR code emails for completed orders whose
// delivery has not been confirmed, so a failed send after fulfillment never
// strands the customer without their access codes.
type NotificationProcessor struct {
	facade       DeliveryFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewNotificationProcessor constructs the notification worker pool.
func NewNotificationProcessor(facade DeliveryFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *NotificationProcessor {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &NotificationProcessor{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Order, batchSize*workers),
	}
}

// Start launches background processing. The lifetime of the pool is bound to
// Stop, not to ctx: start hooks hand in a context that is cancelled once
// startup completes, so only its values are carried over.
func (p *NotificationProcessor) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *NotificationProcessor) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *NotificationProcessor) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *NotificationProcessor) fetchAndDispatch(ctx context.Context) {
	orders, err := p.facade.OrdersAwaitingNotification(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch orders awaiting notification failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- order:
		}
	}
}

func (p *NotificationProcessor) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-p.jobs:
			if !ok {
				return
			}
			if err := p.facade.ResendNotification(ctx, order.ID); err != nil {
				p.logger.Error("notification retry failed",
					slog.String("order_id", order.ID),
					slog.String("error", err.Error()),
				)
				continue
			}
			p.logger.Info("notification delivered", slog.String("order_id", order.ID))
		}
	}
}
