package domain

import "time"

// Типы событий в истории заказа.
const (
	TimelineOrderCreated    = "order_created"
	TimelinePaymentCaptured = "payment_captured"
	TimelineStatusChanged   = "status_changed"
)

// TimelineEvent описывает событие в жизненном цикле заказа.
type TimelineEvent struct {
	OrderID  string
	Type     string
	Reason   string
	Occurred time.Time
}
