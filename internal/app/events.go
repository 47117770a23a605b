package app

import (
	"github.com/mesworks/prodorder/internal/notify"
	"github.com/mesworks/prodorder/internal/orders"
	"github.com/mesworks/prodorder/pkg/metrics"
	"go.uber.org/zap"
)

// subscribeEvents wires the event bus consumers: metric counters on every
// append, notifications when an order reaches its plan.
func (a *Application) subscribeEvents() {
	err := a.bus.SubscribeAsync(orders.TopicOrderProduced, func(ev orders.ProducedEvent) {
		metrics.CounterInc(metrics.MetricLogAppended)
		metrics.Gauge(metrics.MetricQuantityOutput, float64(ev.Quantity))
	}, false)
	if err != nil {
		zap.L().Error("failed to subscribe produced events", zap.Error(err))
	}

	err = a.bus.SubscribeAsync(orders.TopicOrderCompleted, func(ev orders.ProducedEvent) {
		metrics.CounterInc(metrics.MetricOrderCompleted)
		a.notifier.OrderCompleted(notify.CompletionMessage{
			OrderID:     ev.OrderID,
			OrderNumber: ev.OrderNumber,
			Produced:    ev.Produced,
			Planned:     ev.Planned,
		})
	}, false)
	if err != nil {
		zap.L().Error("failed to subscribe completed events", zap.Error(err))
	}
}
