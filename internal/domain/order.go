package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus описывает состояние оплаты заказа.
type PaymentStatus string

const (
	// PaymentStatusPending — сессия оплаты открыта или ещё не завершена.
	PaymentStatusPending PaymentStatus = "pending"
	// PaymentStatusPaid — шлюз подтвердил оплату.
	PaymentStatusPaid PaymentStatus = "paid"
	// PaymentStatusFailed — попытка оплаты завершилась неуспешно.
	PaymentStatusFailed PaymentStatus = "failed"
	// PaymentStatusRefunded — оплата возвращена клиенту.
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Valid проверяет, что статус оплаты относится к поддерживаемым значениям.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	default:
		return false
	}
}

// OrderStatus описывает этап исполнения заказа.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid проверяет принадлежность статуса закрытому перечню.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// PaymentMethod — способ оплаты, выбранный клиентом.
type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodWallet PaymentMethod = "wallet"
	PaymentMethodUPI    PaymentMethod = "upi"
)

// Valid проверяет, что способ оплаты поддерживается.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodCard, PaymentMethodWallet, PaymentMethodUPI:
		return true
	default:
		return false
	}
}

// Size — размер варианта товара.
type Size string

const (
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

// Valid проверяет принадлежность размера закрытому перечню.
func (s Size) Valid() bool {
	switch s {
	case SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL:
		return true
	default:
		return false
	}
}

// LineItem — снимок позиции на момент оформления заказа.
// Цена и название не синхронизируются с каталогом после создания.
type LineItem struct {
	ProductID          string
	ProductName        string
	SKU                string
	Color              string
	Size               Size
	UnitPrice          decimal.Decimal
	Quantity           int32
	DiscountPercentage decimal.Decimal
	// LineTotal вычисляется калькулятором цен, клиент его не передаёт.
	LineTotal decimal.Decimal
}

// ShippingAddress — адрес доставки.
type ShippingAddress struct {
	FullName     string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
}

// Complete сообщает, заполнены ли все обязательные поля адреса.
func (a ShippingAddress) Complete() bool {
	for _, v := range []string{a.FullName, a.AddressLine1, a.City, a.State, a.PostalCode, a.Country} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// GatewayTransaction связывает заказ с сессией платёжного шлюза.
type GatewayTransaction struct {
	SessionID       string
	PaymentIntentID string
}

// Order агрегирует состояние заказа и его позиции.
type Order struct {
	ID              string
	CustomerID      string
	CustomerEmail   string
	Items           []LineItem
	TotalAmount     decimal.Decimal
	Currency        string
	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	OrderStatus     OrderStatus
	IsPaid          bool
	PaidAt          *time.Time
	DeliveredAt     *time.Time
	Transaction     *GatewayTransaction
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if o.CustomerEmail == "" {
		errs = append(errs, ErrCustomerEmailRequired)
	}
	if o.Currency == "" {
		errs = append(errs, ErrCurrencyRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if !o.ShippingAddress.Complete() {
		errs = append(errs, ErrShippingAddressInvalid)
	}
	if !o.PaymentMethod.Valid() {
		errs = append(errs, ErrPaymentMethodInvalid)
	}
	if !o.OrderStatus.Valid() {
		errs = append(errs, ErrOrderStatusInvalid)
	}
	if !o.PaymentStatus.Valid() || o.IsPaid != (o.PaymentStatus == PaymentStatusPaid) {
		errs = append(errs, ErrPaidFlagInconsistent)
	}

	for _, item := range o.Items {
		if err := item.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	// Итог заказа хранится округлённым и должен совпадать с суммой позиций.
	if total, err := ComputeOrderTotal(o.Items); err == nil && !total.Equal(o.TotalAmount) {
		errs = append(errs, ErrAmountMismatch)
	}

	return errs
}

// Validate проверяет обязательные поля позиции.
func (i LineItem) Validate() error {
	if i.ProductID == "" {
		return ErrProductIDRequired
	}
	if strings.TrimSpace(i.ProductName) == "" {
		return ErrProductNameRequired
	}
	if !i.Size.Valid() {
		return ErrSizeInvalid
	}
	return validatePriceInputs(i.UnitPrice, i.Quantity, i.DiscountPercentage)
}

// ApplyPayment переводит заказ в оплаченное состояние.
// Возвращает false без ошибки, если оплата этой же сессией уже применена.
func (o *Order) ApplyPayment(tx GatewayTransaction, paidAt time.Time) (bool, error) {
	if tx.SessionID == "" {
		return false, ErrSessionIDRequired
	}

	switch o.PaymentStatus {
	case PaymentStatusPaid:
		if o.Transaction != nil && o.Transaction.SessionID == tx.SessionID {
			return false, nil
		}
		return false, ErrPaymentSessionMismatch
	case PaymentStatusPending:
	default:
		return false, ErrPaymentNotApplicable
	}

	at := paidAt.UTC()
	o.PaymentStatus = PaymentStatusPaid
	o.IsPaid = true
	o.PaidAt = &at
	o.Transaction = &tx
	// Отменённый оператором заказ остаётся отменённым: деньги фиксируем, решение за человеком.
	if o.OrderStatus == OrderStatusPending {
		o.OrderStatus = OrderStatusProcessing
	}
	o.UpdatedAt = at
	return true, nil
}

// SetOrderStatus применяет ручное изменение статуса исполнения.
// Переходы не ограничиваются, проверяется только принадлежность перечню.
func (o *Order) SetOrderStatus(status OrderStatus, now time.Time) (bool, error) {
	if !status.Valid() {
		return false, ErrOrderStatusInvalid
	}
	if o.OrderStatus == status {
		return false, nil
	}

	at := now.UTC()
	o.OrderStatus = status
	if status == OrderStatusDelivered {
		o.DeliveredAt = &at
	}
	o.UpdatedAt = at
	return true, nil
}
