package webhook

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

// MetadataOrderID — ключ метаданных сессии, в котором шлюз возвращает идентификатор заказа.
const MetadataOrderID = "order_id"

// Outcome — итог обработки доставки.
type Outcome string

const (
	OutcomeProcessed  Outcome = "processed"
	OutcomeDuplicate  Outcome = "duplicate"
	OutcomeIgnored    Outcome = "ignored"
	OutcomeUnresolved Outcome = "unresolved"
	OutcomeConflict   Outcome = "conflict"
	OutcomeRejected   Outcome = "rejected"
)

// Acknowledged сообщает, нужно ли ответить шлюзу 2xx.
func (o Outcome) Acknowledged() bool {
	return o != OutcomeRejected && o != ""
}

// PaymentMarker — операция леджера, которой пользуется обработчик.
type PaymentMarker interface {
	MarkPaid(ctx context.Context, orderID string, tx domain.GatewayTransaction, paidAt time.Time) (domain.Order, bool, error)
}

// Reconciler аутентифицирует доставки шлюза и переводит заказы в оплаченные.
type Reconciler struct {
	verifier *Verifier
	orders   PaymentMarker
	metrics  *metrics.Metrics
	logger   *log.Entry
	now      func() time.Time
}

// NewReconciler создаёт Reconciler.
func NewReconciler(verifier *Verifier, orders PaymentMarker, m *metrics.Metrics, logger *log.Entry) *Reconciler {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Reconciler{
		verifier: verifier,
		orders:   orders,
		metrics:  m,
		logger:   logger.WithField("component", "webhook-reconciler"),
		now:      time.Now,
	}
}

// Handle обрабатывает одну доставку. payload должен быть исходными байтами тела.
// Ошибка подписи возвращается до любого обращения к леджеру.
// Ненулевая ошибка с Outcome != OutcomeRejected означает сбой, после которого шлюз должен повторить доставку.
func (r *Reconciler) Handle(ctx context.Context, payload []byte, signature string) (Outcome, error) {
	started := r.now()
	defer func() { r.metrics.RecordWebhookDuration(time.Since(started)) }()

	if err := r.verifier.Verify(payload, signature); err != nil {
		r.metrics.RecordWebhookRejected(rejectReason(err))
		r.logger.WithError(err).Warn("webhook signature rejected")
		return OutcomeRejected, err
	}

	event, err := DecodeEvent(payload)
	if err != nil {
		r.metrics.RecordWebhookRejected("malformed")
		r.logger.WithError(err).Warn("webhook payload cannot be decoded")
		return OutcomeRejected, err
	}

	entry := r.logger.WithFields(log.Fields{"event_id": event.ID, "event_type": event.Type})

	var outcome Outcome
	switch event.Type {
	case EventCheckoutSessionCompleted, EventCheckoutAsyncPaymentSucceeded:
		outcome, err = r.handleSessionPaid(ctx, event, entry)
	case EventPaymentIntentSucceeded, EventPaymentIntentPaymentFailed:
		outcome, err = r.handlePaymentIntent(event, entry)
	default:
		entry.Debug("webhook event type not handled")
		outcome = OutcomeIgnored
	}

	if outcome != "" {
		r.metrics.RecordWebhookEvent(event.Type, string(outcome))
	}
	return outcome, err
}

func (r *Reconciler) handleSessionPaid(ctx context.Context, event Event, entry *log.Entry) (Outcome, error) {
	session, err := event.DecodeCheckoutSession()
	if err != nil {
		r.metrics.RecordWebhookRejected("malformed")
		entry.WithError(err).Warn("checkout session object cannot be decoded")
		return OutcomeRejected, err
	}

	entry = entry.WithField("session_id", session.ID)

	if session.PaymentStatus != sessionPaymentStatusPaid && session.PaymentStatus != sessionPaymentStatusNoPaymentNeeded {
		entry.WithField("payment_status", session.PaymentStatus).Info("checkout session completed without payment, waiting for async result")
		return OutcomeIgnored, nil
	}

	orderID := session.Metadata[MetadataOrderID]
	if orderID == "" {
		entry.Warn("checkout session carries no order id, manual reconciliation required")
		return OutcomeUnresolved, nil
	}
	entry = entry.WithField("order_id", orderID)

	paidAt := r.now().UTC()
	if event.Created > 0 {
		paidAt = time.Unix(event.Created, 0).UTC()
	}

	tx := domain.GatewayTransaction{SessionID: session.ID, PaymentIntentID: string(session.PaymentIntent)}
	_, changed, err := r.orders.MarkPaid(ctx, orderID, tx, paidAt)
	switch {
	case err == nil && changed:
		entry.Info("order marked as paid")
		return OutcomeProcessed, nil
	case err == nil:
		entry.Debug("duplicate delivery, order already paid by this session")
		return OutcomeDuplicate, nil
	case errors.Is(err, domain.ErrNotFound):
		entry.Warn("webhook references unknown order, manual reconciliation required")
		return OutcomeUnresolved, nil
	case errors.Is(err, domain.ErrInvalidTransition):
		entry.WithError(err).Error("payment cannot be applied to order, manual reconciliation required")
		return OutcomeConflict, nil
	default:
		entry.WithError(err).Error("failed to mark order as paid")
		return "", err
	}
}

func (r *Reconciler) handlePaymentIntent(event Event, entry *log.Entry) (Outcome, error) {
	intent, err := event.DecodePaymentIntent()
	if err != nil {
		entry.WithError(err).Warn("payment intent object cannot be decoded")
		return OutcomeIgnored, nil
	}
	entry.WithFields(log.Fields{
		"payment_intent_id": intent.ID,
		"order_id":          intent.Metadata[MetadataOrderID],
		"status":            intent.Status,
	}).Info("payment intent event received")
	return OutcomeIgnored, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrSignatureMissing):
		return "missing"
	case errors.Is(err, domain.ErrSignatureMalformed):
		return "malformed_header"
	case errors.Is(err, domain.ErrSignatureExpired):
		return "expired"
	default:
		return "mismatch"
	}
}
