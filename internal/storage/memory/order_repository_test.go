package memory_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func newOrder(id string, createdAt time.Time) domain.Order {
	return domain.Order{
		ID:            id,
		CustomerID:    "customer-1",
		CustomerEmail: "buyer@example.com",
		Currency:      "usd",
		TotalAmount:   decimal.RequireFromString("20.00"),
		Items: []domain.LineItem{
			{
				ProductID:   "product-1",
				ProductName: "Socks",
				SKU:         "SKU-product-1-White-M",
				Color:       "White",
				Size:        domain.SizeM,
				UnitPrice:   decimal.RequireFromString("10.00"),
				Quantity:    2,
				LineTotal:   decimal.RequireFromString("20.00"),
			},
		},
		PaymentMethod: domain.PaymentMethodCard,
		PaymentStatus: domain.PaymentStatusPending,
		OrderStatus:   domain.OrderStatusPending,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

func TestOrderRepository_CreateGet(t *testing.T) {
	repo := memory.NewOrderRepository()
	ctx := context.Background()
	order := newOrder("order-1", time.Now().UTC())

	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(ctx, order); !errors.Is(err, domain.ErrOrderAlreadyExists) {
		t.Fatalf("expected ErrOrderAlreadyExists, got %v", err)
	}

	stored, err := repo.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.ID != order.ID {
		t.Fatalf("expected id %s, got %s", order.ID, stored.ID)
	}

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_ReturnsCopies(t *testing.T) {
	repo := memory.NewOrderRepository()
	ctx := context.Background()
	if err := repo.Create(ctx, newOrder("order-1", time.Now().UTC())); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, _ := repo.Get(ctx, "order-1")
	stored.Items[0].ProductName = "tampered"

	again, _ := repo.Get(ctx, "order-1")
	if again.Items[0].ProductName != "Socks" {
		t.Fatalf("stored items must not alias caller slices")
	}
}

func TestOrderRepository_ListByCustomer(t *testing.T) {
	repo := memory.NewOrderRepository()
	ctx := context.Background()
	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		if err := repo.Create(ctx, newOrder(fmt.Sprintf("order-%d", i), base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	orders, err := repo.ListByCustomer(ctx, "customer-1", 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].ID != "order-2" {
		t.Fatalf("expected newest first, got %s", orders[0].ID)
	}
}

func TestOrderRepository_ListPaginates(t *testing.T) {
	repo := memory.NewOrderRepository()
	ctx := context.Background()
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		if err := repo.Create(ctx, newOrder(fmt.Sprintf("order-%d", i), base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	page, err := repo.List(ctx, 2, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.TotalItems != 5 || page.TotalPages() != 3 {
		t.Fatalf("unexpected totals: %+v", page)
	}
	if len(page.Orders) != 2 || page.Orders[0].ID != "order-2" || page.Orders[1].ID != "order-1" {
		t.Fatalf("unexpected page contents: %+v", page.Orders)
	}

	beyond, err := repo.List(ctx, 4, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(beyond.Orders) != 0 {
		t.Fatalf("expected empty page, got %d", len(beyond.Orders))
	}
}

func TestOrderRepository_SaveKeepsImmutableFields(t *testing.T) {
	repo := memory.NewOrderRepository()
	ctx := context.Background()
	order := newOrder("order-1", time.Now().UTC())
	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	stored.OrderStatus = domain.OrderStatusShipped
	stored.TotalAmount = decimal.RequireFromString("1.00")
	stored.Items = nil
	if err := repo.Save(ctx, stored); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	updated, err := repo.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if updated.OrderStatus != domain.OrderStatusShipped {
		t.Fatalf("expected status shipped, got %s", updated.OrderStatus)
	}
	if !updated.TotalAmount.Equal(order.TotalAmount) || len(updated.Items) != 1 {
		t.Fatalf("items and total must stay immutable")
	}
	if updated.Version != stored.Version+1 {
		t.Fatalf("expected version increment, got %d", updated.Version)
	}
}

func TestOrderRepository_SaveVersionConflict(t *testing.T) {
	repo := memory.NewOrderRepository()
	ctx := context.Background()
	order := newOrder("order-1", time.Now().UTC())
	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	order.Version = 42
	if err := repo.Save(ctx, order); !errors.Is(err, domain.ErrOrderVersionConflict) {
		t.Fatalf("expected version conflict error, got %v", err)
	}
}

func TestOrderRepository_SessionIndex(t *testing.T) {
	repo := memory.NewOrderRepository()
	ctx := context.Background()
	for _, id := range []string{"order-a", "order-b"} {
		if err := repo.Create(ctx, newOrder(id, time.Now().UTC())); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	a, _ := repo.Get(ctx, "order-a")
	a.Transaction = &domain.GatewayTransaction{SessionID: "cs_1"}
	if err := repo.Save(ctx, a); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	found, err := repo.GetBySessionID(ctx, "cs_1")
	if err != nil {
		t.Fatalf("lookup by session failed: %v", err)
	}
	if found.ID != "order-a" {
		t.Fatalf("expected order-a, got %s", found.ID)
	}

	b, _ := repo.Get(ctx, "order-b")
	b.Transaction = &domain.GatewayTransaction{SessionID: "cs_1"}
	if err := repo.Save(ctx, b); !errors.Is(err, domain.ErrSessionAlreadyBound) {
		t.Fatalf("expected ErrSessionAlreadyBound, got %v", err)
	}

	if _, err := repo.GetBySessionID(ctx, "cs_unknown"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
