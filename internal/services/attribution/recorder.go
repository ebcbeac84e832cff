// Package attribution records orders against affiliates and aggregates
// per-affiliate performance stats.
package attribution

import (
	"context"
	"sync"
	"time"

	"vitalabs/internal/metrics"
	"vitalabs/internal/models"
	"vitalabs/internal/repositories"
	"vitalabs/internal/storage"

	"go.uber.org/zap"
)

// Recorder persists an order and its affiliate attribution after a
// checkout session is created.
//
// The contract is explicitly at-most-once and best-effort: Record returns
// before any write is confirmed, failures are logged and never retried or
// surfaced, and the order and attribution writes are independent and
// non-atomic. A transient outage here loses attribution for that order
// while the provider-side checkout still succeeds. Attribution is not on
// the critical path of completing a purchase.
type Recorder interface {
	Record(order *models.Order, oa *models.OrderAffiliate)

	// Wait blocks until in-flight writes finish. Only used on shutdown
	// and in tests.
	Wait()
}

type recorder struct {
	orders  repositories.OrderRepository
	store   storage.AttributionStore
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewRecorder creates a new Recorder.
func NewRecorder(orders repositories.OrderRepository, store storage.AttributionStore, logger *zap.Logger) Recorder {
	return &recorder{
		orders:  orders,
		store:   store,
		logger:  logger,
		timeout: 15 * time.Second,
	}
}

func (r *recorder) Record(order *models.Order, oa *models.OrderAffiliate) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if order != nil {
			if err := r.orders.Create(order); err != nil {
				metrics.AttributionWritesTotal.WithLabelValues("order", "error").Inc()
				r.logger.Error("failed to record order",
					zap.String("provider", order.Provider),
					zap.String("provider_order_id", order.ProviderOrderID),
					zap.Error(err))
			} else {
				metrics.AttributionWritesTotal.WithLabelValues("order", "ok").Inc()
			}
		}

		if oa != nil {
			if err := r.store.RecordOrderAffiliate(ctx, oa); err != nil {
				metrics.AttributionWritesTotal.WithLabelValues("order_affiliate", "error").Inc()
				r.logger.Error("failed to record order attribution",
					zap.String("order_id", oa.OrderID),
					zap.Uint("affiliate_id", oa.AffiliateID),
					zap.Error(err))
			} else {
				metrics.AttributionWritesTotal.WithLabelValues("order_affiliate", "ok").Inc()
			}
		}
	}()
}

func (r *recorder) Wait() {
	r.wg.Wait()
}
