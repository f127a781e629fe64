// Package ledger — журнал заказов: единственный владелец агрегата Order.
// Заказы создаются в статусе pending, оплачиваются вебхуком шлюза и
// меняют статус исполнения по команде оператора; удаление не поддерживается.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

const (
	// DefaultPageLimit — размер страницы списка заказов по умолчанию.
	DefaultPageLimit = 10
	// MaxPageLimit — верхняя граница размера страницы.
	MaxPageLimit = 100

	defaultMaxSaveAttempts = 5
	aggregateTypeOrder     = "order"
)

// Options задаёт зависимости журнала.
type Options struct {
	Timeline        domain.TimelineRepository
	Outbox          domain.OutboxRepository
	Metrics         *metrics.Metrics
	Logger          *log.Entry
	Clock           func() time.Time
	IDGenerator     func() string
	MaxSaveAttempts int
}

// Option настраивает Service.
type Option func(*Options)

// WithTimeline включает запись событий в историю заказа.
func WithTimeline(repo domain.TimelineRepository) Option {
	return func(opts *Options) { opts.Timeline = repo }
}

// WithOutbox включает постановку событий в transactional outbox.
func WithOutbox(repo domain.OutboxRepository) Option {
	return func(opts *Options) { opts.Outbox = repo }
}

// WithMetrics задаёт метрики.
func WithMetrics(m *metrics.Metrics) Option {
	return func(opts *Options) { opts.Metrics = m }
}

// WithLogger задаёт logger.
func WithLogger(logger *log.Entry) Option {
	return func(opts *Options) { opts.Logger = logger }
}

// WithClock подменяет источник времени.
func WithClock(clock func() time.Time) Option {
	return func(opts *Options) { opts.Clock = clock }
}

// WithIDGenerator подменяет генератор идентификаторов заказов.
func WithIDGenerator(gen func() string) Option {
	return func(opts *Options) { opts.IDGenerator = gen }
}

// WithMaxSaveAttempts задаёт число попыток сохранения при конфликте версий.
func WithMaxSaveAttempts(n int) Option {
	return func(opts *Options) { opts.MaxSaveAttempts = n }
}

// Service реализует операции журнала заказов.
type Service struct {
	orders      domain.OrderRepository
	timeline    domain.TimelineRepository
	outbox      domain.OutboxRepository
	metrics     *metrics.Metrics
	logger      *log.Entry
	now         func() time.Time
	newID       func() string
	maxAttempts int
}

// New создаёт журнал поверх хранилища заказов.
func New(orders domain.OrderRepository, options ...Option) *Service {
	opts := Options{MaxSaveAttempts: defaultMaxSaveAttempts}
	for _, option := range options {
		option(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = log.WithField("component", "order-ledger")
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.IDGenerator == nil {
		opts.IDGenerator = uuid.NewString
	}
	if opts.MaxSaveAttempts <= 0 {
		opts.MaxSaveAttempts = defaultMaxSaveAttempts
	}

	return &Service{
		orders:      orders,
		timeline:    opts.Timeline,
		outbox:      opts.Outbox,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		now:         func() time.Time { return opts.Clock().UTC() },
		newID:       opts.IDGenerator,
		maxAttempts: opts.MaxSaveAttempts,
	}
}

// NewOrder — входные данные для создания заказа.
type NewOrder struct {
	Customer        domain.Customer
	Items           []domain.LineItem
	Currency        string
	ShippingAddress domain.ShippingAddress
	PaymentMethod   domain.PaymentMethod
	// ClaimedTotal — итог, переданный клиентом; сверяется с вычисленным.
	ClaimedTotal *decimal.Decimal
	// Tolerance задаёт допуск сверки ClaimedTotal. Неположительное значение означает domain.TotalTolerance.
	Tolerance decimal.Decimal
}

// CreatePending валидирует позиции, вычисляет итог и сохраняет заказ в статусе pending.
func (s *Service) CreatePending(ctx context.Context, in NewOrder) (domain.Order, error) {
	if len(in.Items) == 0 {
		return domain.Order{}, domain.ErrItemsRequired
	}
	for _, item := range in.Items {
		if err := item.Validate(); err != nil {
			return domain.Order{}, err
		}
	}

	items, total, err := domain.PriceItems(in.Items)
	if err != nil {
		return domain.Order{}, err
	}
	tolerance := in.Tolerance
	if !tolerance.IsPositive() {
		tolerance = domain.TotalTolerance
	}
	if in.ClaimedTotal != nil && !domain.WithinToleranceOf(*in.ClaimedTotal, total, tolerance) {
		return domain.Order{}, domain.ErrAmountMismatch
	}

	now := s.now()
	order := domain.Order{
		ID:              s.newID(),
		CustomerID:      strings.TrimSpace(in.Customer.ID),
		CustomerEmail:   strings.TrimSpace(in.Customer.Email),
		Items:           items,
		TotalAmount:     total,
		Currency:        strings.ToLower(strings.TrimSpace(in.Currency)),
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   domain.PaymentStatusPending,
		OrderStatus:     domain.OrderStatusPending,
		IsPaid:          false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, errs[0]
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
		"total":       order.TotalAmount.StringFixed(domain.MinorUnitPlaces),
		"currency":    order.Currency,
	}).Info("order created")
	s.metrics.RecordOrderCreated()
	s.record(ctx, order, kafka.EventTypeOrderCreated, domain.TimelineOrderCreated, "")

	return order, nil
}

// MarkPaid применяет подтверждение оплаты от шлюза.
// Повтор с той же сессией возвращает текущее состояние и changed=false.
func (s *Service) MarkPaid(ctx context.Context, orderID string, tx domain.GatewayTransaction, paidAt time.Time) (order domain.Order, changed bool, err error) {
	if strings.TrimSpace(orderID) == "" {
		return domain.Order{}, false, domain.ErrOrderIDRequired
	}
	if paidAt.IsZero() {
		paidAt = s.now()
	}

	order, changed, err = s.mutate(ctx, orderID, func(o *domain.Order) (bool, error) {
		return o.ApplyPayment(tx, paidAt)
	})
	if err != nil || !changed {
		return order, changed, err
	}

	s.logger.WithFields(log.Fields{
		"order_id":   order.ID,
		"session_id": tx.SessionID,
	}).Info("order paid")
	s.metrics.RecordOrderPaid()
	s.record(ctx, order, kafka.EventTypeOrderPaid, domain.TimelinePaymentCaptured, tx.SessionID)

	return order, true, nil
}

// UpdateStatus меняет статус исполнения по команде оператора.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return domain.Order{}, domain.ErrOrderIDRequired
	}
	if !status.Valid() {
		return domain.Order{}, domain.ErrOrderStatusInvalid
	}

	order, changed, err := s.mutate(ctx, orderID, func(o *domain.Order) (bool, error) {
		return o.SetOrderStatus(status, s.now())
	})
	if err != nil || !changed {
		return order, err
	}

	s.logger.WithFields(log.Fields{
		"order_id":     order.ID,
		"order_status": order.OrderStatus,
	}).Info("order status updated")
	s.metrics.RecordStatusChange(string(status))
	s.record(ctx, order, kafka.EventTypeOrderStatusChanged, domain.TimelineStatusChanged, string(status))

	return order, nil
}

// mutate перечитывает заказ и повторяет изменение при конфликте версий.
func (s *Service) mutate(ctx context.Context, orderID string, apply func(*domain.Order) (bool, error)) (domain.Order, bool, error) {
	for attempt := 1; ; attempt++ {
		order, err := s.orders.Get(ctx, orderID)
		if err != nil {
			return domain.Order{}, false, err
		}

		changed, err := apply(&order)
		if err != nil {
			return order, false, err
		}
		if !changed {
			return order, false, nil
		}

		err = s.orders.Save(ctx, order)
		if err == nil {
			order.Version++
			return order, true, nil
		}
		if !domain.IsVersionConflict(err) || attempt >= s.maxAttempts {
			return domain.Order{}, false, fmt.Errorf("save order: %w", err)
		}

		s.logger.WithFields(log.Fields{
			"order_id": orderID,
			"attempt":  attempt,
		}).Debug("order version conflict, retrying")

		if err := ctx.Err(); err != nil {
			return domain.Order{}, false, err
		}
	}
}

// Get возвращает заказ по идентификатору.
func (s *Service) Get(ctx context.Context, orderID string) (domain.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return domain.Order{}, domain.ErrOrderIDRequired
	}
	return s.orders.Get(ctx, orderID)
}

// GetBySession находит заказ по идентификатору сессии шлюза.
func (s *Service) GetBySession(ctx context.Context, sessionID string) (domain.Order, error) {
	if strings.TrimSpace(sessionID) == "" {
		return domain.Order{}, domain.ErrSessionIDRequired
	}
	return s.orders.GetBySessionID(ctx, sessionID)
}

// List возвращает страницу заказов, новые первыми.
// Нулевые page и limit заменяются значениями по умолчанию, limit ограничен MaxPageLimit.
func (s *Service) List(ctx context.Context, page, limit int) (domain.OrderPage, error) {
	page, limit = NormalizePage(page, limit)
	return s.orders.List(ctx, page, limit)
}

// ListByCustomer возвращает заказы покупателя.
func (s *Service) ListByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, domain.ErrCustomerRequired
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return s.orders.ListByCustomer(ctx, customerID, limit)
}

// Timeline возвращает историю заказа; без подключённого хранилища — пустой список.
func (s *Service) Timeline(ctx context.Context, orderID string) ([]domain.TimelineEvent, error) {
	if s.timeline == nil {
		return nil, nil
	}
	return s.timeline.List(ctx, orderID)
}

// NormalizePage приводит параметры пагинации к допустимым значениям.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// record пишет событие в историю и outbox. Ошибки не прерывают операцию: заказ уже сохранён.
func (s *Service) record(ctx context.Context, order domain.Order, eventType kafka.EventType, timelineType, reason string) {
	logger := s.logger.WithFields(log.Fields{
		"order_id":   order.ID,
		"event_type": eventType,
	})

	if s.timeline != nil {
		event := domain.TimelineEvent{
			OrderID:  order.ID,
			Type:     timelineType,
			Reason:   reason,
			Occurred: order.UpdatedAt,
		}
		if err := s.timeline.Append(ctx, event); err != nil {
			logger.WithError(err).Warn("failed to append timeline event")
		} else {
			s.metrics.RecordTimelineEvent()
		}
	}

	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(kafka.OrderEvent{
		EventType:     eventType,
		OrderID:       order.ID,
		CustomerID:    order.CustomerID,
		PaymentStatus: string(order.PaymentStatus),
		OrderStatus:   string(order.OrderStatus),
		TotalAmount:   order.TotalAmount.StringFixed(domain.MinorUnitPlaces),
		Currency:      order.Currency,
		Timestamp:     order.UpdatedAt,
		Metadata:      eventMetadata(order),
	})
	if err != nil {
		logger.WithError(err).Error("marshal event failed")
		return
	}

	msg := domain.OutboxMessage{
		AggregateType: aggregateTypeOrder,
		AggregateID:   order.ID,
		EventType:     string(eventType),
		Payload:       payload,
	}
	if _, err := s.outbox.Enqueue(ctx, msg); err != nil {
		logger.WithError(errors.Join(domain.ErrOutboxPublish, err)).Error("enqueue event failed")
		return
	}
	s.metrics.RecordOutboxEvent()
}

func eventMetadata(order domain.Order) map[string]string {
	if order.Transaction == nil {
		return nil
	}
	meta := map[string]string{"session_id": order.Transaction.SessionID}
	if order.Transaction.PaymentIntentID != "" {
		meta["payment_intent_id"] = order.Transaction.PaymentIntentID
	}
	return meta
}
