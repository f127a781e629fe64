package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Customer — минимальные сведения о покупателе, нужные для оформления заказа.
type Customer struct {
	ID    string
	Email string
}

// Product — сведения каталога, нужные для снимка позиции.
type Product struct {
	ID    string
	Title string
}

// CustomerDirectory подтверждает существование покупателя.
type CustomerDirectory interface {
	// LookupCustomer возвращает покупателя или ErrCustomerNotFound.
	LookupCustomer(ctx context.Context, id string) (Customer, error)
}

// ProductCatalog разрешает отображаемое название товара.
type ProductCatalog interface {
	// LookupProduct возвращает товар или ErrProductNotFound.
	LookupProduct(ctx context.Context, id string) (Product, error)
}

// SessionLineItem — позиция, отображаемая на странице оплаты шлюза.
type SessionLineItem struct {
	Name            string
	UnitAmountMinor int64
	Quantity        int64
}

// SessionRequest — запрос на создание hosted-сессии оплаты.
type SessionRequest struct {
	OrderID       string
	CustomerEmail string
	Currency      string
	Items         []SessionLineItem
	Total         decimal.Decimal
	SuccessURL    string
	CancelURL     string
	// Metadata передаётся шлюзу и возвращается в вебхуке без изменений.
	Metadata map[string]string
}

// Session — созданная шлюзом сессия оплаты.
type Session struct {
	ID          string
	RedirectURL string
}

// PaymentGateway создаёт hosted-сессии оплаты. Повторные попытки не выполняются.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req SessionRequest) (Session, error)
}

// OrderIDMetadataKey — ключ метаданных сессии, по которому вебхук находит заказ.
const OrderIDMetadataKey = "order_id"

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(ctx context.Context, msg OutboxMessage) (OutboxMessage, error)
	PullPending(ctx context.Context, limit int) ([]OutboxMessage, error)
	Stats(ctx context.Context) (OutboxStats, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
}

// TimelineRepository хранит события жизненного цикла заказа.
type TimelineRepository interface {
	Append(ctx context.Context, event TimelineEvent) error
	List(ctx context.Context, orderID string) ([]TimelineEvent, error)
}

// IdempotencyRepository хранит состояние обработки запросов по idempotency-key.
type IdempotencyRepository interface {
	CreateProcessing(ctx context.Context, key, requestHash string, ttlAt time.Time) (IdempotencyRecord, error)
	Get(ctx context.Context, key string) (IdempotencyRecord, error)
	MarkDone(ctx context.Context, key string, responseBody []byte, httpStatus int) error
	MarkFailed(ctx context.Context, key string, responseBody []byte, httpStatus int) error
	DeleteExpired(ctx context.Context, before time.Time, limit int) (int, error)
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}
