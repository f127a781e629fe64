// Package httpx — HTTP-транспорт магазина: оформление заказа, вебхук платёжного шлюза и API статусов.
package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/auth"
	"github.com/vladislavdragonenkov/storefront/internal/service/idempotency"
)

// Dependencies — коллабораторы HTTP-слоя. Guard и Limiter необязательны.
type Dependencies struct {
	Checkout          CheckoutInitiator
	Webhooks          WebhookHandler
	Orders            OrderService
	Guard             *idempotency.Guard
	Auth              *auth.Verifier
	Limiter           *ClientLimiter
	CheckoutValidator Validator
	StatusValidator   Validator
	Logger            *log.Entry
}

// NewRouter собирает chi-роутер.
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = log.WithField("component", "http")
	}

	h := &handlers{
		checkout:          deps.Checkout,
		webhooks:          deps.Webhooks,
		orders:            deps.Orders,
		guard:             deps.Guard,
		checkoutValidator: deps.CheckoutValidator,
		statusValidator:   deps.StatusValidator,
		logger:            logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(limitBody)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, logger, errRouteNotFound)
	})

	// Вебхук аутентифицируется подписью, а не токеном.
	r.Post("/webhook/stripe", h.receiveWebhook)

	r.Group(func(r chi.Router) {
		r.Use(authenticate(deps.Auth, logger))

		r.With(rateLimit(deps.Limiter, logger)).Post("/api/checkout", h.createCheckout)
		r.Get("/api/customers/{customerId}/orders", h.listCustomerOrders)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin(logger))

			r.Get("/api/orders", h.listOrders)
			r.Get("/api/orders/by-session/{sessionId}", h.getOrderBySession)
			r.Get("/api/orders/{orderId}", h.getOrder)
			r.Patch("/api/orders/{orderId}/status", h.updateOrderStatus)
		})
	})

	return r
}
