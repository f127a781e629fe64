package webhook

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Типы событий шлюза.
const (
	EventCheckoutSessionCompleted       = "checkout.session.completed"
	EventCheckoutAsyncPaymentSucceeded  = "checkout.session.async_payment_succeeded"
	EventPaymentIntentSucceeded         = "payment_intent.succeeded"
	EventPaymentIntentPaymentFailed     = "payment_intent.payment_failed"
	sessionPaymentStatusPaid            = "paid"
	sessionPaymentStatusNoPaymentNeeded = "no_payment_required"
)

// ErrMalformedEvent — подлинное, но нечитаемое событие.
var ErrMalformedEvent = domain.NewValidationError(domain.FieldError{Field: "body", Message: "malformed gateway event"})

// Event — конверт события шлюза.
type Event struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// CheckoutSession — объект сессии в событиях checkout.session.*.
type CheckoutSession struct {
	ID            string            `json:"id"`
	PaymentStatus string            `json:"payment_status"`
	PaymentIntent objectRef         `json:"payment_intent"`
	Metadata      map[string]string `json:"metadata"`
}

// PaymentIntent — объект в событиях payment_intent.*.
type PaymentIntent struct {
	ID       string            `json:"id"`
	Status   string            `json:"status"`
	Metadata map[string]string `json:"metadata"`
}

// objectRef принимает как строковый идентификатор, так и развёрнутый объект с полем id.
type objectRef string

func (r *objectRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = ""
		return nil
	}
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*r = objectRef(id)
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decode object reference: %w", err)
	}
	*r = objectRef(obj.ID)
	return nil
}

// DecodeEvent разбирает конверт события.
func DecodeEvent(payload []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return Event{}, errors.Join(ErrMalformedEvent, err)
	}
	if event.Type == "" {
		return Event{}, ErrMalformedEvent
	}
	return event, nil
}

// DecodeCheckoutSession разбирает data.object как сессию оплаты.
func (e Event) DecodeCheckoutSession() (CheckoutSession, error) {
	var s CheckoutSession
	if len(e.Data.Object) == 0 {
		return s, ErrMalformedEvent
	}
	if err := json.Unmarshal(e.Data.Object, &s); err != nil {
		return s, errors.Join(ErrMalformedEvent, err)
	}
	if s.ID == "" {
		return s, ErrMalformedEvent
	}
	return s, nil
}

// DecodePaymentIntent разбирает data.object как платёжное намерение.
func (e Event) DecodePaymentIntent() (PaymentIntent, error) {
	var pi PaymentIntent
	if len(e.Data.Object) == 0 {
		return pi, ErrMalformedEvent
	}
	if err := json.Unmarshal(e.Data.Object, &pi); err != nil {
		return pi, errors.Join(ErrMalformedEvent, err)
	}
	return pi, nil
}
