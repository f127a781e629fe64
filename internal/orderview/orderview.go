// Package orderview — JSON-представление заказа для API статусов (HTTP и gRPC).
package orderview

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// LineItem — позиция заказа.
type LineItem struct {
	ProductID          string `json:"productId"`
	ProductName        string `json:"productName"`
	SKU                string `json:"sku"`
	Color              string `json:"color"`
	Size               string `json:"size"`
	UnitPrice          string `json:"unitPrice"`
	Quantity           int32  `json:"quantity"`
	DiscountPercentage string `json:"discountPercentage"`
	LineTotal          string `json:"lineTotal"`
}

// ShippingAddress — адрес доставки.
type ShippingAddress struct {
	FullName     string `json:"fullName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
}

// Transaction — данные сессии шлюза.
type Transaction struct {
	SessionID       string `json:"sessionId"`
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
}

// Order — заказ в ответе API.
type Order struct {
	ID                 string          `json:"id"`
	CustomerID         string          `json:"customerId"`
	CustomerEmail      string          `json:"customerEmail"`
	Items              []LineItem      `json:"items"`
	TotalAmount        string          `json:"totalAmount"`
	Currency           string          `json:"currency"`
	ShippingAddress    ShippingAddress `json:"shippingAddress"`
	PaymentMethod      string          `json:"paymentMethod"`
	PaymentStatus      string          `json:"paymentStatus"`
	OrderStatus        string          `json:"orderStatus"`
	IsPaid             bool            `json:"isPaid"`
	PaidAt             *time.Time      `json:"paidAt,omitempty"`
	DeliveredAt        *time.Time      `json:"deliveredAt,omitempty"`
	GatewayTransaction *Transaction    `json:"gatewayTransaction,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// TimelineEntry — запись истории заказа.
type TimelineEntry struct {
	Type       string    `json:"type"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Details — заказ вместе с историей.
type Details struct {
	Order
	Timeline []TimelineEntry `json:"timeline"`
}

// Page — страница списка заказов.
type Page struct {
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"totalPages"`
	TotalItems int     `json:"totalItems"`
	Data       []Order `json:"data"`
}

// FromOrder строит представление заказа.
func FromOrder(o domain.Order) Order {
	items := make([]LineItem, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, LineItem{
			ProductID:          item.ProductID,
			ProductName:        item.ProductName,
			SKU:                item.SKU,
			Color:              item.Color,
			Size:               string(item.Size),
			UnitPrice:          Money(item.UnitPrice),
			Quantity:           item.Quantity,
			DiscountPercentage: item.DiscountPercentage.String(),
			LineTotal:          Money(item.LineTotal),
		})
	}

	out := Order{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		CustomerEmail:   o.CustomerEmail,
		Items:           items,
		TotalAmount:     Money(o.TotalAmount),
		Currency:        o.Currency,
		ShippingAddress: ShippingAddress(o.ShippingAddress),
		PaymentMethod:   string(o.PaymentMethod),
		PaymentStatus:   string(o.PaymentStatus),
		OrderStatus:     string(o.OrderStatus),
		IsPaid:          o.IsPaid,
		PaidAt:          o.PaidAt,
		DeliveredAt:     o.DeliveredAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if o.Transaction != nil {
		out.GatewayTransaction = &Transaction{
			SessionID:       o.Transaction.SessionID,
			PaymentIntentID: o.Transaction.PaymentIntentID,
		}
	}
	return out
}

// FromOrders строит представления списка заказов.
func FromOrders(orders []domain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromOrder(o))
	}
	return out
}

// FromPage строит страницу списка.
func FromPage(p domain.OrderPage) Page {
	return Page{
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages(),
		TotalItems: p.TotalItems,
		Data:       FromOrders(p.Orders),
	}
}

// WithTimeline добавляет к заказу историю.
func WithTimeline(o domain.Order, events []domain.TimelineEvent) Details {
	timeline := make([]TimelineEntry, 0, len(events))
	for _, e := range events {
		timeline = append(timeline, TimelineEntry{Type: e.Type, Reason: e.Reason, OccurredAt: e.Occurred})
	}
	return Details{Order: FromOrder(o), Timeline: timeline}
}

// Money форматирует сумму с двумя знаками после точки.
func Money(d decimal.Decimal) string {
	return d.StringFixedBank(domain.MinorUnitPlaces)
}
