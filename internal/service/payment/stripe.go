package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const defaultStripeTimeout = 10 * time.Second

// StripeConfig задаёт параметры клиента Stripe Checkout.
type StripeConfig struct {
	SecretKey string
	Timeout   time.Duration
	// BaseURL переопределяет адрес API (для тестов и прокси).
	BaseURL string
	Logger  *log.Entry
}

// StripeGateway создаёт Checkout Sessions через явно сконструированный клиент.
// Сетевые повторы отключены: одна попытка на заказ.
type StripeGateway struct {
	client *session.Client
	logger *log.Entry
}

// NewStripeGateway создаёт клиент с собственным backend, без глобального stripe.Key.
func NewStripeGateway(cfg StripeConfig) (*StripeGateway, error) {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, errors.New("stripe secret key is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultStripeTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.WithField("component", "stripe-gateway")
	}

	backendCfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     logger,
	}
	if cfg.BaseURL != "" {
		backendCfg.URL = stripe.String(cfg.BaseURL)
	}

	return &StripeGateway{
		client: &session.Client{
			B:   stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
			Key: cfg.SecretKey,
		},
		logger: logger,
	}, nil
}

// CreateCheckoutSession создаёт hosted-сессию оплаты для заказа.
// Ключ идемпотентности привязан к заказу, поэтому повтор запроса не создаст вторую сессию.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req domain.SessionRequest) (domain.Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}

	currency := strings.ToLower(req.Currency)
	for _, item := range req.Items {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(item.UnitAmountMinor),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	for key, value := range req.Metadata {
		params.AddMetadata(key, value)
	}
	// order_id всегда задаётся сервером и не может быть переопределён.
	params.AddMetadata(domain.OrderIDMetadataKey, req.OrderID)
	params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
		Metadata: map[string]string{domain.OrderIDMetadataKey: req.OrderID},
	}
	params.SetIdempotencyKey("checkout-" + req.OrderID)

	s, err := g.client.New(params)
	if err != nil {
		g.logger.WithError(err).WithField("order_id", req.OrderID).Warn("stripe checkout session creation failed")
		return domain.Session{}, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	if s.ID == "" || s.URL == "" {
		return domain.Session{}, fmt.Errorf("%w: empty session in response", domain.ErrGatewayUnavailable)
	}

	return domain.Session{ID: s.ID, RedirectURL: s.URL}, nil
}

var _ domain.PaymentGateway = (*StripeGateway)(nil)
