package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics содержит метрики оформления заказа, вебхуков и журнала заказов.
// Методы безопасно вызывать на nil.
type Metrics struct {
	// Оформление заказа
	checkoutTotal    *prometheus.CounterVec
	checkoutInFlight prometheus.Gauge
	gatewayDuration  *prometheus.HistogramVec

	// Вебхуки шлюза
	webhookEvents     *prometheus.CounterVec
	webhookRejected   *prometheus.CounterVec
	webhookProcessing prometheus.Histogram

	// Журнал заказов
	ordersCreated  prometheus.Counter
	ordersPaid     prometheus.Counter
	statusChanges  *prometheus.CounterVec
	timelineEvents prometheus.Counter
	outboxEvents   prometheus.Counter
}

// New создаёт метрики в prometheus.DefaultRegisterer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer создаёт метрики в указанном реестре.
// Повторная регистрация возвращает уже существующие коллекторы.
func NewWithRegisterer(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &Metrics{
		checkoutTotal: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_checkout_total",
			Help: "Checkout initiations grouped by result.",
		}, []string{"result"})),
		checkoutInFlight: register(registerer, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_checkout_in_flight",
			Help: "Checkout initiations currently being processed.",
		})),
		gatewayDuration: register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_gateway_request_duration_seconds",
			Help:    "Duration of payment gateway session creation calls.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"result"})),
		webhookEvents: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_webhook_events_total",
			Help: "Authenticated gateway webhook events grouped by type and outcome.",
		}, []string{"event_type", "outcome"})),
		webhookRejected: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_webhook_rejected_total",
			Help: "Gateway webhook deliveries rejected before processing.",
		}, []string{"reason"})),
		webhookProcessing: register(registerer, prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "storefront_webhook_processing_seconds",
			Help:    "Time spent handling a gateway webhook delivery.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		})),
		ordersCreated: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_orders_created_total",
			Help: "Pending orders written to the ledger.",
		})),
		ordersPaid: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_orders_paid_total",
			Help: "Orders transitioned to paid.",
		})),
		statusChanges: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_order_status_changes_total",
			Help: "Operator order status changes grouped by target status.",
		}, []string{"status"})),
		timelineEvents: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_timeline_events_total",
			Help: "Total number of timeline events recorded.",
		})),
		outboxEvents: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_outbox_events_total",
			Help: "Total number of outbox events enqueued.",
		})),
	}
}

func register[T prometheus.Collector](registerer prometheus.Registerer, collector T) T {
	if err := registerer.Register(collector); err != nil {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if errors.As(err, &alreadyRegistered) {
			existing, ok := alreadyRegistered.ExistingCollector.(T)
			if !ok {
				panic(fmt.Sprintf("collector already registered with unexpected type %T", alreadyRegistered.ExistingCollector))
			}
			return existing
		}
		panic(fmt.Sprintf("register collector: %v", err))
	}
	return collector
}

// RecordCheckout учитывает завершённую попытку оформления.
func (m *Metrics) RecordCheckout(result string) {
	if m == nil {
		return
	}
	m.checkoutTotal.WithLabelValues(result).Inc()
}

// CheckoutStarted увеличивает число выполняющихся оформлений; возвращает функцию завершения.
func (m *Metrics) CheckoutStarted() func() {
	if m == nil {
		return func() {}
	}
	m.checkoutInFlight.Inc()
	return m.checkoutInFlight.Dec
}

// RecordGatewayCall записывает длительность вызова шлюза.
func (m *Metrics) RecordGatewayCall(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.gatewayDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// RecordWebhookEvent учитывает обработанное событие шлюза.
func (m *Metrics) RecordWebhookEvent(eventType, outcome string) {
	if m == nil {
		return
	}
	m.webhookEvents.WithLabelValues(eventType, outcome).Inc()
}

// RecordWebhookRejected учитывает отклонённую доставку (подпись, формат).
func (m *Metrics) RecordWebhookRejected(reason string) {
	if m == nil {
		return
	}
	m.webhookRejected.WithLabelValues(reason).Inc()
}

// RecordWebhookDuration записывает время обработки доставки.
func (m *Metrics) RecordWebhookDuration(duration time.Duration) {
	if m == nil {
		return
	}
	m.webhookProcessing.Observe(duration.Seconds())
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *Metrics) RecordOrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

// RecordOrderPaid увеличивает счётчик оплаченных заказов.
func (m *Metrics) RecordOrderPaid() {
	if m == nil {
		return
	}
	m.ordersPaid.Inc()
}

// RecordStatusChange учитывает ручную смену статуса.
func (m *Metrics) RecordStatusChange(status string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(status).Inc()
}

// RecordTimelineEvent увеличивает счётчик событий timeline.
func (m *Metrics) RecordTimelineEvent() {
	if m == nil {
		return
	}
	m.timelineEvents.Inc()
}

// RecordOutboxEvent увеличивает счётчик событий outbox.
func (m *Metrics) RecordOutboxEvent() {
	if m == nil {
		return
	}
	m.outboxEvents.Inc()
}
