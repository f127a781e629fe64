package grpcsvc

import (
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/orderview"
	adminv1 "github.com/vladislavdragonenkov/storefront/proto/storefront/admin/v1"
)

var orderStatusToProto = map[domain.OrderStatus]adminv1.OrderStatus{
	domain.OrderStatusPending:    adminv1.OrderStatus_ORDER_STATUS_PENDING,
	domain.OrderStatusProcessing: adminv1.OrderStatus_ORDER_STATUS_PROCESSING,
	domain.OrderStatusShipped:    adminv1.OrderStatus_ORDER_STATUS_SHIPPED,
	domain.OrderStatusDelivered:  adminv1.OrderStatus_ORDER_STATUS_DELIVERED,
	domain.OrderStatusCancelled:  adminv1.OrderStatus_ORDER_STATUS_CANCELLED,
}

// orderStatusFromProto отвергает UNSPECIFIED и неизвестные значения.
func orderStatusFromProto(status adminv1.OrderStatus) (domain.OrderStatus, bool) {
	for domainStatus, protoStatus := range orderStatusToProto {
		if protoStatus == status {
			return domainStatus, true
		}
	}
	return "", false
}

func unixOrZero(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.Unix()
}

func orderToProto(o domain.Order) *adminv1.Order {
	items := make([]*adminv1.LineItem, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, &adminv1.LineItem{
			ProductId:          item.ProductID,
			ProductName:        item.ProductName,
			Sku:                item.SKU,
			Color:              item.Color,
			Size:               string(item.Size),
			UnitPrice:          orderview.Money(item.UnitPrice),
			Quantity:           item.Quantity,
			DiscountPercentage: item.DiscountPercentage.String(),
			LineTotal:          orderview.Money(item.LineTotal),
		})
	}

	out := &adminv1.Order{
		Id:            o.ID,
		CustomerId:    o.CustomerID,
		CustomerEmail: o.CustomerEmail,
		Items:         items,
		TotalAmount:   orderview.Money(o.TotalAmount),
		Currency:      o.Currency,
		ShippingAddress: &adminv1.ShippingAddress{
			FullName:     o.ShippingAddress.FullName,
			AddressLine1: o.ShippingAddress.AddressLine1,
			AddressLine2: o.ShippingAddress.AddressLine2,
			City:         o.ShippingAddress.City,
			State:        o.ShippingAddress.State,
			PostalCode:   o.ShippingAddress.PostalCode,
			Country:      o.ShippingAddress.Country,
		},
		PaymentMethod:   string(o.PaymentMethod),
		PaymentStatus:   string(o.PaymentStatus),
		OrderStatus:     orderStatusToProto[o.OrderStatus],
		IsPaid:          o.IsPaid,
		PaidAtUnix:      unixOrZero(o.PaidAt),
		DeliveredAtUnix: unixOrZero(o.DeliveredAt),
		CreatedAtUnix:   o.CreatedAt.Unix(),
		UpdatedAtUnix:   o.UpdatedAt.Unix(),
		Version:         o.Version,
	}
	if o.Transaction != nil {
		out.SessionId = o.Transaction.SessionID
		out.PaymentIntentId = o.Transaction.PaymentIntentID
	}
	return out
}

func timelineToProto(events []domain.TimelineEvent) []*adminv1.TimelineEvent {
	out := make([]*adminv1.TimelineEvent, 0, len(events))
	for _, e := range events {
		out = append(out, &adminv1.TimelineEvent{Type: e.Type, Reason: e.Reason, UnixTime: e.Occurred.Unix()})
	}
	return out
}

func pageToProto(p domain.OrderPage) *adminv1.ListOrdersResponse {
	orders := make([]*adminv1.Order, 0, len(p.Orders))
	for _, o := range p.Orders {
		orders = append(orders, orderToProto(o))
	}
	return &adminv1.ListOrdersResponse{
		Orders:     orders,
		Page:       int32(p.Page),         //nolint:gosec // номер страницы не больше числа заказов.
		Limit:      int32(p.Limit),        //nolint:gosec // limit не больше ledger.MaxPageLimit.
		TotalPages: int32(p.TotalPages()), //nolint:gosec // не больше TotalItems.
		TotalItems: int32(p.TotalItems),   //nolint:gosec // счётчик заказов одного магазина.
	}
}
