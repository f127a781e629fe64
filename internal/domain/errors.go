package domain

import (
	"errors"
	"strings"
)

// Виды ошибок. Граница (HTTP/gRPC) классифицирует любую ошибку через KindOf.
var (
	// ErrValidation — некорректный или выходящий за допустимые границы ввод.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound — отсутствует заказ, клиент или товар.
	ErrNotFound = errors.New("not found")
	// ErrUnauthenticated — подпись вебхука или токен оператора не прошли проверку.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidTransition — нарушение автомата состояний заказа.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrUpstreamUnavailable — платёжный шлюз недоступен или не ответил вовремя.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrInternal — сбой хранилища или неожиданное состояние.
	ErrInternal = errors.New("internal error")
)

// kindError — конкретная ошибка, принадлежащая одному из видов выше.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

var (
	ErrCustomerRequired       = newKindError(ErrValidation, "customer_id is required")
	ErrCustomerEmailRequired  = newKindError(ErrValidation, "customer email is required")
	ErrCurrencyRequired       = newKindError(ErrValidation, "currency is required")
	ErrItemsRequired          = newKindError(ErrValidation, "order must contain at least one item")
	ErrProductIDRequired      = newKindError(ErrValidation, "item product_id is required")
	ErrProductNameRequired    = newKindError(ErrValidation, "item product name is required")
	ErrItemQtyInvalid         = newKindError(ErrValidation, "item quantity must be at least 1")
	ErrItemPriceInvalid       = newKindError(ErrValidation, "item unit price must be greater than zero")
	ErrItemPricePrecision     = newKindError(ErrValidation, "item unit price must not be finer than the currency minor unit")
	ErrDiscountOutOfRange     = newKindError(ErrValidation, "item discount percentage must be within [0, 100]")
	ErrSizeInvalid            = newKindError(ErrValidation, "item size is not supported")
	ErrAmountMismatch         = newKindError(ErrValidation, "order total does not match items sum")
	ErrShippingAddressInvalid = newKindError(ErrValidation, "shipping address is incomplete")
	ErrPaymentMethodInvalid   = newKindError(ErrValidation, "payment method is not supported")
	ErrOrderStatusInvalid     = newKindError(ErrValidation, "order status is not supported")
	ErrOrderIDRequired        = newKindError(ErrValidation, "order_id is required")
	ErrSessionIDRequired      = newKindError(ErrValidation, "session_id is required")

	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound    = newKindError(ErrNotFound, "order not found")
	ErrCustomerNotFound = newKindError(ErrNotFound, "customer not found")
	ErrProductNotFound  = newKindError(ErrNotFound, "product not found")

	// Оплата к возвращённому или неуспешному заказу не применяется.
	ErrPaymentNotApplicable = newKindError(ErrInvalidTransition, "payment cannot be applied in current payment status")
	// Заказ уже оплачен другой сессией шлюза.
	ErrPaymentSessionMismatch = newKindError(ErrInvalidTransition, "order already paid by another checkout session")
	// Сессия шлюза уже привязана к другому заказу.
	ErrSessionAlreadyBound = newKindError(ErrInvalidTransition, "checkout session is already bound to another order")

	ErrSignatureMissing   = newKindError(ErrUnauthenticated, "signature header is missing")
	ErrSignatureMalformed = newKindError(ErrUnauthenticated, "signature header is malformed")
	ErrSignatureMismatch  = newKindError(ErrUnauthenticated, "signature does not match payload")
	ErrSignatureExpired   = newKindError(ErrUnauthenticated, "signature timestamp outside tolerance")

	// ErrGatewayUnavailable — шлюз не создал сессию (ошибка сети, таймаут, отказ).
	ErrGatewayUnavailable = newKindError(ErrUpstreamUnavailable, "payment gateway unavailable")

	// ErrOrderVersionConflict сигнализирует о конфликте версий при сохранении.
	ErrOrderVersionConflict = newKindError(ErrInternal, "order version conflict")
	// ErrPaidFlagInconsistent — флаг is_paid расходится со статусом оплаты.
	ErrPaidFlagInconsistent = newKindError(ErrInternal, "is_paid flag is inconsistent with payment status")
	// ErrOrderAlreadyExists — повторное создание заказа с тем же ID.
	ErrOrderAlreadyExists = newKindError(ErrInternal, "order already exists")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrOrderVersionConflict)
}

var kinds = []error{
	ErrValidation,
	ErrNotFound,
	ErrUnauthenticated,
	ErrInvalidTransition,
	ErrUpstreamUnavailable,
}

// KindOf возвращает вид ошибки. Всё, что не классифицировано, считается ErrInternal.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrInternal
}

// FieldError описывает проблему с конкретным полем входных данных.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError собирает ошибки полей; errors.Is(err, ErrValidation) == true.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError создаёт ошибку валидации с перечнем полей.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
