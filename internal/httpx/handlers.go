package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/auth"
	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/orderview"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
	"github.com/vladislavdragonenkov/storefront/internal/service/idempotency"
	"github.com/vladislavdragonenkov/storefront/internal/service/webhook"
)

// IdempotencyKeyHeader — заголовок ключа идемпотентности оформления.
const IdempotencyKeyHeader = "Idempotency-Key"

// CheckoutInitiator оформляет заказ и открывает сессию оплаты.
type CheckoutInitiator interface {
	Initiate(ctx context.Context, req checkout.Request) (checkout.Result, error)
}

// WebhookHandler обрабатывает доставку платёжного шлюза.
type WebhookHandler interface {
	Handle(ctx context.Context, payload []byte, signature string) (webhook.Outcome, error)
}

// OrderService — операции журнала заказов, доступные через API статусов.
type OrderService interface {
	Get(ctx context.Context, orderID string) (domain.Order, error)
	GetBySession(ctx context.Context, sessionID string) (domain.Order, error)
	List(ctx context.Context, page, limit int) (domain.OrderPage, error)
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error)
	Timeline(ctx context.Context, orderID string) ([]domain.TimelineEvent, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error)
}

// Validator проверяет форму тела запроса.
type Validator interface {
	Validate(body []byte) error
}

type handlers struct {
	checkout          CheckoutInitiator
	webhooks          WebhookHandler
	orders            OrderService
	guard             *idempotency.Guard
	checkoutValidator Validator
	statusValidator   Validator
	logger            *log.Entry
}

func (h *handlers) createCheckout(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.checkoutValidator.Validate(body); err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req checkoutRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, h.logger, domain.NewValidationError(domain.FieldError{Field: "body", Message: "malformed JSON"}))
		return
	}

	claims, _ := auth.ClaimsFrom(r.Context())
	if !claims.CanActAs(req.CustomerID) {
		writeError(w, h.logger, errForbidden)
		return
	}

	run := func(ctx context.Context) idempotency.Response {
		result, err := h.checkout.Initiate(ctx, req.toDomain())
		if err != nil {
			status, payload := renderError(err)
			if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
				h.logger.WithError(err).WithField("customer_id", req.CustomerID).Error("checkout failed")
			}
			return idempotency.Response{Status: status, Body: payload}
		}
		payload, _ := json.Marshal(newCheckoutResponse(result))
		return idempotency.Response{Status: http.StatusCreated, Body: payload}
	}

	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	if key == "" || h.guard == nil {
		resp := run(r.Context())
		writeRaw(w, resp.Status, resp.Body)
		return
	}

	scope := r.Method + " " + r.URL.Path + " " + claims.Subject
	resp, replayed, err := h.guard.Execute(r.Context(), key, scope, body, run)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if replayed {
		w.Header().Set("Idempotent-Replayed", "true")
	}
	writeRaw(w, resp.Status, resp.Body)
}

func (h *handlers) receiveWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := readBody(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	outcome, err := h.webhooks.Handle(r.Context(), payload, r.Header.Get(webhook.SignatureHeader))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"received": true, "outcome": outcome})
}

func (h *handlers) listOrders(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page")
	limit := queryInt(r, "limit")

	result, err := h.orders.List(r.Context(), page, limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, orderview.FromPage(result))
}

func (h *handlers) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	order, err := h.orders.Get(r.Context(), orderID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	timeline, err := h.orders.Timeline(r.Context(), orderID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, orderview.WithTimeline(order, timeline))
}

func (h *handlers) getOrderBySession(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetBySession(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, orderview.FromOrder(order))
}

func (h *handlers) listCustomerOrders(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerId")
	claims, _ := auth.ClaimsFrom(r.Context())
	if !claims.CanActAs(customerID) {
		writeError(w, h.logger, errForbidden)
		return
	}

	orders, err := h.orders.ListByCustomer(r.Context(), customerID, queryInt(r, "limit"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"data": orderview.FromOrders(orders)})
}

func (h *handlers) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.statusValidator.Validate(body); err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req statusRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, h.logger, domain.NewValidationError(domain.FieldError{Field: "body", Message: "malformed JSON"}))
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "orderId"), domain.OrderStatus(req.OrderStatus))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, orderview.FromOrder(order))
}

// readBody читает тело целиком, не изменяя байты.
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errPayloadTooLarge
		}
		return nil, domain.NewValidationError(domain.FieldError{Field: "body", Message: "cannot read request body"})
	}
	return body, nil
}

// queryInt возвращает 0 для отсутствующего или нечислового параметра; границы нормализует журнал.
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(name)))
	if err != nil {
		return 0
	}
	return v
}
