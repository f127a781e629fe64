package ledger_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
	"github.com/vladislavdragonenkov/storefront/internal/service/ledger"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func shirt(qty int32) domain.LineItem {
	return domain.LineItem{
		ProductID:          "product-1",
		ProductName:        "Linen shirt",
		SKU:                "SKU-product-1-White-M",
		Color:              "White",
		Size:               domain.SizeM,
		UnitPrice:          dec("50.00"),
		Quantity:           qty,
		DiscountPercentage: dec("10"),
	}
}

func newOrderInput(items ...domain.LineItem) ledger.NewOrder {
	return ledger.NewOrder{
		Customer: domain.Customer{ID: "customer-1", Email: "buyer@example.com"},
		Items:    items,
		Currency: "USD",
		ShippingAddress: domain.ShippingAddress{
			FullName:     "Ada Lovelace",
			AddressLine1: "1 Main St",
			City:         "London",
			State:        "Greater London",
			PostalCode:   "N1 9GU",
			Country:      "GB",
		},
		PaymentMethod: domain.PaymentMethodCard,
	}
}

type LedgerSuite struct {
	suite.Suite

	ctx      context.Context
	orders   domain.OrderRepository
	timeline domain.TimelineRepository
	outbox   *memory.OutboxRepository
	svc      *ledger.Service
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) SetupTest() {
	s.ctx = context.Background()
	s.orders = memory.NewOrderRepository()
	s.timeline = memory.NewTimelineRepository()
	s.outbox = memory.NewOutboxRepository()

	seq := 0
	s.svc = ledger.New(
		s.orders,
		ledger.WithTimeline(s.timeline),
		ledger.WithOutbox(s.outbox),
		ledger.WithMetrics(metrics.NewWithRegisterer(prometheus.NewRegistry())),
		ledger.WithClock(func() time.Time { return fixedNow }),
		ledger.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("order-%d", seq)
		}),
	)
}

func (s *LedgerSuite) createOrder() domain.Order {
	order, err := s.svc.CreatePending(s.ctx, newOrderInput(shirt(3), shirt(3)))
	s.Require().NoError(err)
	return order
}

func (s *LedgerSuite) TestCreatePending_ComputesTotal() {
	order := s.createOrder()

	s.Equal("order-1", order.ID)
	s.True(order.TotalAmount.Equal(dec("270.00")), "total %s", order.TotalAmount)
	s.True(order.Items[0].LineTotal.Equal(dec("135.00")))
	s.Equal(domain.PaymentStatusPending, order.PaymentStatus)
	s.Equal(domain.OrderStatusPending, order.OrderStatus)
	s.False(order.IsPaid)
	s.Nil(order.Transaction)
	s.Equal("usd", order.Currency)

	stored, err := s.orders.Get(s.ctx, order.ID)
	s.Require().NoError(err)
	s.True(stored.TotalAmount.Equal(order.TotalAmount))

	events, err := s.timeline.List(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(domain.TimelineOrderCreated, events[0].Type)

	pending := s.outbox.AllPending()
	s.Require().Len(pending, 1)
	s.Equal(string(kafka.EventTypeOrderCreated), pending[0].EventType)
	s.Equal(order.ID, pending[0].AggregateID)
}

func (s *LedgerSuite) TestCreatePending_ClaimedTotalTolerance() {
	in := newOrderInput(shirt(3))

	within := dec("135.01")
	in.ClaimedTotal = &within
	_, err := s.svc.CreatePending(s.ctx, in)
	s.Require().NoError(err)

	outside := dec("135.02")
	in.ClaimedTotal = &outside
	_, err = s.svc.CreatePending(s.ctx, in)
	s.Require().ErrorIs(err, domain.ErrAmountMismatch)
	s.Require().ErrorIs(err, domain.ErrValidation)
}

func (s *LedgerSuite) TestCreatePending_CustomTolerance() {
	in := newOrderInput(shirt(3))
	in.Tolerance = dec("0.50")

	claimed := dec("135.50")
	in.ClaimedTotal = &claimed
	order, err := s.svc.CreatePending(s.ctx, in)
	s.Require().NoError(err)
	s.True(order.TotalAmount.Equal(dec("135.00")))

	claimed = dec("135.51")
	_, err = s.svc.CreatePending(s.ctx, in)
	s.Require().ErrorIs(err, domain.ErrAmountMismatch)
}

func (s *LedgerSuite) TestCreatePending_Rejections() {
	cases := []struct {
		name   string
		mutate func(*ledger.NewOrder)
		want   error
	}{
		{"no items", func(in *ledger.NewOrder) { in.Items = nil }, domain.ErrItemsRequired},
		{"zero qty", func(in *ledger.NewOrder) { in.Items[0].Quantity = 0 }, domain.ErrItemQtyInvalid},
		{"discount over 100", func(in *ledger.NewOrder) { in.Items[0].DiscountPercentage = dec("101") }, domain.ErrDiscountOutOfRange},
		{"no email", func(in *ledger.NewOrder) { in.Customer.Email = "" }, domain.ErrCustomerEmailRequired},
		{"bad address", func(in *ledger.NewOrder) { in.ShippingAddress.City = "" }, domain.ErrShippingAddressInvalid},
		{"bad method", func(in *ledger.NewOrder) { in.PaymentMethod = "cheque" }, domain.ErrPaymentMethodInvalid},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			in := newOrderInput(shirt(1))
			tc.mutate(&in)
			_, err := s.svc.CreatePending(s.ctx, in)
			s.Require().ErrorIs(err, tc.want)
		})
	}

	page, err := s.orders.List(s.ctx, 1, 10)
	s.Require().NoError(err)
	s.Zero(page.TotalItems)
}

func (s *LedgerSuite) TestMarkPaid_IdempotentForSameSession() {
	order := s.createOrder()
	tx := domain.GatewayTransaction{SessionID: "cs_test_1", PaymentIntentID: "pi_1"}
	firstPaidAt := fixedNow.Add(time.Minute)

	paid, changed, err := s.svc.MarkPaid(s.ctx, order.ID, tx, firstPaidAt)
	s.Require().NoError(err)
	s.True(changed)
	s.Equal(domain.PaymentStatusPaid, paid.PaymentStatus)
	s.Equal(domain.OrderStatusProcessing, paid.OrderStatus)
	s.True(paid.IsPaid)
	s.Require().NotNil(paid.PaidAt)
	s.True(paid.PaidAt.Equal(firstPaidAt))

	again, changed, err := s.svc.MarkPaid(s.ctx, order.ID, tx, firstPaidAt.Add(time.Hour))
	s.Require().NoError(err)
	s.False(changed)
	s.True(again.PaidAt.Equal(firstPaidAt))
	s.Equal(paid.Version, again.Version)

	events, err := s.timeline.List(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Len(events, 2)
	s.Len(s.outbox.AllPending(), 2)

	bySession, err := s.svc.GetBySession(s.ctx, "cs_test_1")
	s.Require().NoError(err)
	s.Equal(order.ID, bySession.ID)
}

func (s *LedgerSuite) TestMarkPaid_ConcurrentDuplicates() {
	order := s.createOrder()
	tx := domain.GatewayTransaction{SessionID: "cs_dup", PaymentIntentID: "pi_dup"}

	const workers = 64
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		changes int
		errs    []error
		paidAts = map[int64]struct{}{}
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			paid, changed, err := s.svc.MarkPaid(s.ctx, order.ID, tx, fixedNow.Add(time.Duration(i)*time.Second))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if changed {
				changes++
			}
			if paid.PaidAt != nil {
				paidAts[paid.PaidAt.UnixNano()] = struct{}{}
			}
		}(i)
	}
	close(start)
	wg.Wait()

	s.Empty(errs)
	s.Equal(1, changes)
	s.Len(paidAts, 1)

	stored, err := s.orders.Get(s.ctx, order.ID)
	s.Require().NoError(err)
	s.True(stored.IsPaid)
	s.Require().NotNil(stored.PaidAt)
	_, ok := paidAts[stored.PaidAt.UnixNano()]
	s.True(ok)

	events, err := s.timeline.List(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Len(events, 2)
	s.Len(s.outbox.AllPending(), 2)
}

func (s *LedgerSuite) TestMarkPaid_RejectsDifferentSession() {
	order := s.createOrder()

	_, _, err := s.svc.MarkPaid(s.ctx, order.ID, domain.GatewayTransaction{SessionID: "cs_a"}, fixedNow)
	s.Require().NoError(err)

	_, _, err = s.svc.MarkPaid(s.ctx, order.ID, domain.GatewayTransaction{SessionID: "cs_b"}, fixedNow)
	s.Require().ErrorIs(err, domain.ErrInvalidTransition)
}

func (s *LedgerSuite) TestMarkPaid_RefundedOrderUnchanged() {
	order := s.createOrder()

	stored, err := s.orders.Get(s.ctx, order.ID)
	s.Require().NoError(err)
	stored.PaymentStatus = domain.PaymentStatusRefunded
	s.Require().NoError(s.orders.Save(s.ctx, stored))
	before, err := s.orders.Get(s.ctx, order.ID)
	s.Require().NoError(err)

	_, changed, err := s.svc.MarkPaid(s.ctx, order.ID, domain.GatewayTransaction{SessionID: "cs_1"}, fixedNow)
	s.Require().ErrorIs(err, domain.ErrInvalidTransition)
	s.False(changed)

	after, err := s.orders.Get(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(before, after)
}

func (s *LedgerSuite) TestMarkPaid_UnknownOrder() {
	_, _, err := s.svc.MarkPaid(s.ctx, "missing", domain.GatewayTransaction{SessionID: "cs_1"}, fixedNow)
	s.Require().ErrorIs(err, domain.ErrNotFound)

	_, _, err = s.svc.MarkPaid(s.ctx, "", domain.GatewayTransaction{SessionID: "cs_1"}, fixedNow)
	s.Require().ErrorIs(err, domain.ErrOrderIDRequired)
}

func (s *LedgerSuite) TestMarkPaid_DefaultsPaidAt() {
	order := s.createOrder()

	paid, _, err := s.svc.MarkPaid(s.ctx, order.ID, domain.GatewayTransaction{SessionID: "cs_1"}, time.Time{})
	s.Require().NoError(err)
	s.True(paid.PaidAt.Equal(fixedNow))
}

func (s *LedgerSuite) TestUpdateStatus() {
	order := s.createOrder()

	updated, err := s.svc.UpdateStatus(s.ctx, order.ID, domain.OrderStatusDelivered)
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusDelivered, updated.OrderStatus)
	s.Require().NotNil(updated.DeliveredAt)

	// Ручная смена статуса не ограничена автоматом переходов.
	updated, err = s.svc.UpdateStatus(s.ctx, order.ID, domain.OrderStatusPending)
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusPending, updated.OrderStatus)

	_, err = s.svc.UpdateStatus(s.ctx, order.ID, "lost")
	s.Require().ErrorIs(err, domain.ErrValidation)

	_, err = s.svc.UpdateStatus(s.ctx, "missing", domain.OrderStatusShipped)
	s.Require().ErrorIs(err, domain.ErrNotFound)

	var payload kafka.OrderEvent
	pending := s.outbox.AllPending()
	s.Require().Len(pending, 3)
	s.Require().NoError(json.Unmarshal(pending[2].Payload, &payload))
	s.Equal(kafka.EventTypeOrderStatusChanged, payload.EventType)
	s.Equal("pending", payload.OrderStatus)
}

func (s *LedgerSuite) TestUpdateStatus_SameStatusIsNoop() {
	order := s.createOrder()

	same, err := s.svc.UpdateStatus(s.ctx, order.ID, domain.OrderStatusPending)
	s.Require().NoError(err)
	s.Equal(order.Version, same.Version)
	s.Len(s.outbox.AllPending(), 1)
}

func (s *LedgerSuite) TestListAndTimeline() {
	for i := 0; i < 3; i++ {
		s.createOrder()
	}

	page, err := s.svc.List(s.ctx, 0, 0)
	s.Require().NoError(err)
	s.Equal(1, page.Page)
	s.Equal(ledger.DefaultPageLimit, page.Limit)
	s.Equal(3, page.TotalItems)
	s.Len(page.Orders, 3)

	page, err = s.svc.List(s.ctx, 2, 2)
	s.Require().NoError(err)
	s.Len(page.Orders, 1)
	s.Equal(2, page.TotalPages())

	orders, err := s.svc.ListByCustomer(s.ctx, "customer-1", 0)
	s.Require().NoError(err)
	s.Len(orders, 3)

	_, err = s.svc.ListByCustomer(s.ctx, " ", 0)
	s.Require().ErrorIs(err, domain.ErrValidation)
}

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, ledger.DefaultPageLimit},
		{-3, 5, 1, 5},
		{4, 1000, 4, ledger.MaxPageLimit},
	}
	for _, tc := range cases {
		page, limit := ledger.NormalizePage(tc.page, tc.limit)
		require.Equal(t, tc.wantPage, page)
		require.Equal(t, tc.wantLimit, limit)
	}
}

// conflictingRepo возвращает конфликт версий на первых сохранениях.
type conflictingRepo struct {
	domain.OrderRepository
	conflicts int
	saves     int
}

func (r *conflictingRepo) Save(ctx context.Context, order domain.Order) error {
	r.saves++
	if r.conflicts > 0 {
		r.conflicts--
		return domain.ErrOrderVersionConflict
	}
	return r.OrderRepository.Save(ctx, order)
}

func TestMarkPaid_RetriesOnVersionConflict(t *testing.T) {
	ctx := context.Background()
	repo := &conflictingRepo{OrderRepository: memory.NewOrderRepository(), conflicts: 2}
	svc := ledger.New(repo)

	order, err := svc.CreatePending(ctx, newOrderInput(shirt(1)))
	require.NoError(t, err)

	paid, changed, err := svc.MarkPaid(ctx, order.ID, domain.GatewayTransaction{SessionID: "cs_1"}, fixedNow)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, domain.PaymentStatusPaid, paid.PaymentStatus)
	require.Equal(t, 3, repo.saves)
}

func TestMarkPaid_GivesUpAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	repo := &conflictingRepo{OrderRepository: memory.NewOrderRepository(), conflicts: 10}
	svc := ledger.New(repo, ledger.WithMaxSaveAttempts(2))

	order, err := svc.CreatePending(ctx, newOrderInput(shirt(1)))
	require.NoError(t, err)

	_, _, err = svc.MarkPaid(ctx, order.ID, domain.GatewayTransaction{SessionID: "cs_1"}, fixedNow)
	require.Error(t, err)
	require.True(t, domain.IsVersionConflict(err))
	require.True(t, errors.Is(domain.KindOf(err), domain.ErrInternal))
	require.Equal(t, 2, repo.saves)
}

func TestCreatePending_StorageFailure(t *testing.T) {
	repo := &failingCreateRepo{OrderRepository: memory.NewOrderRepository()}
	svc := ledger.New(repo)

	_, err := svc.CreatePending(context.Background(), newOrderInput(shirt(1)))
	require.Error(t, err)
	require.ErrorIs(t, domain.KindOf(err), domain.ErrInternal)
}

type failingCreateRepo struct {
	domain.OrderRepository
}

func (r *failingCreateRepo) Create(context.Context, domain.Order) error {
	return errors.New("connection reset")
}
