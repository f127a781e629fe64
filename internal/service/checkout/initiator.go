// Package checkout создаёт заказ в журнале и открывает для него hosted-сессию оплаты.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
	"github.com/vladislavdragonenkov/storefront/internal/service/ledger"
	"github.com/vladislavdragonenkov/storefront/internal/service/payment"
)

// OrderCreator — часть журнала заказов, нужная для оформления.
type OrderCreator interface {
	CreatePending(ctx context.Context, in ledger.NewOrder) (domain.Order, error)
}

// ItemInput — позиция в запросе клиента.
type ItemInput struct {
	ProductID          string
	ProductName        string
	SKU                string
	Color              string
	Size               domain.Size
	UnitPrice          decimal.Decimal
	Quantity           int32
	DiscountPercentage decimal.Decimal
}

// Request — запрос на оформление заказа (форма уже проверена валидатором).
type Request struct {
	CustomerID      string
	Items           []ItemInput
	ShippingAddress domain.ShippingAddress
	PaymentMethod   domain.PaymentMethod
	TotalAmount     *decimal.Decimal
}

// Result — ответ клиенту: куда перенаправить браузер.
type Result struct {
	OrderID     string
	SessionID   string
	RedirectURL string
	TotalAmount decimal.Decimal
	Currency    string
}

// Initiator выполняет оформление заказа.
type Initiator struct {
	cfg       Config
	customers domain.CustomerDirectory
	catalog   domain.ProductCatalog
	orders    OrderCreator
	gateway   domain.PaymentGateway
	metrics   *metrics.Metrics
	logger    *log.Entry
}

// NewInitiator создаёт Initiator. catalog может быть nil, тогда название товара обязательно в запросе.
func NewInitiator(
	cfg Config,
	customers domain.CustomerDirectory,
	catalog domain.ProductCatalog,
	orders OrderCreator,
	gateway domain.PaymentGateway,
	m *metrics.Metrics,
	logger *log.Entry,
) *Initiator {
	if logger == nil {
		logger = log.WithField("component", "checkout")
	}
	return &Initiator{
		cfg:       cfg.normalized(),
		customers: customers,
		catalog:   catalog,
		orders:    orders,
		gateway:   gateway,
		metrics:   m,
		logger:    logger,
	}
}

// Initiate подтверждает покупателя, сохраняет заказ в статусе pending и создаёт сессию оплаты.
// Сессия создаётся только после успешного сохранения заказа; повторных попыток нет.
// При сбое шлюза заказ остаётся pending, а вызывающий получает ErrGatewayUnavailable.
func (i *Initiator) Initiate(ctx context.Context, req Request) (res Result, err error) {
	done := i.metrics.CheckoutStarted()
	defer func() {
		done()
		i.metrics.RecordCheckout(resultLabel(err))
	}()

	logger := i.logger.WithField("customer_id", req.CustomerID)

	customerID := strings.TrimSpace(req.CustomerID)
	if customerID == "" {
		return Result{}, domain.ErrCustomerRequired
	}
	if len(req.Items) == 0 {
		return Result{}, domain.ErrItemsRequired
	}

	customer, err := i.customers.LookupCustomer(ctx, customerID)
	if err != nil {
		return Result{}, fmt.Errorf("lookup customer: %w", err)
	}

	items, err := i.buildItems(ctx, req.Items)
	if err != nil {
		return Result{}, err
	}

	order, err := i.orders.CreatePending(ctx, ledger.NewOrder{
		Customer:        customer,
		Items:           items,
		Currency:        i.cfg.Currency,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ClaimedTotal:    req.TotalAmount,
		Tolerance:       i.cfg.TotalTolerance,
	})
	if err != nil {
		return Result{}, err
	}
	logger = logger.WithField("order_id", order.ID)

	session, err := i.openSession(ctx, order)
	if err != nil {
		logger.WithError(err).Warn("checkout session was not created, order stays pending")
		return Result{}, err
	}

	logger.WithField("session_id", session.ID).Info("checkout session created")
	return Result{
		OrderID:     order.ID,
		SessionID:   session.ID,
		RedirectURL: session.RedirectURL,
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
	}, nil
}

// buildItems снимает снимок позиций: название из каталога, цвет, размер и SKU по умолчанию.
func (i *Initiator) buildItems(ctx context.Context, inputs []ItemInput) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, 0, len(inputs))
	for _, in := range inputs {
		item := domain.LineItem{
			ProductID:          strings.TrimSpace(in.ProductID),
			ProductName:        strings.TrimSpace(in.ProductName),
			SKU:                strings.TrimSpace(in.SKU),
			Color:              strings.TrimSpace(in.Color),
			Size:               in.Size,
			UnitPrice:          in.UnitPrice,
			Quantity:           in.Quantity,
			DiscountPercentage: in.DiscountPercentage,
		}
		if item.ProductID == "" {
			return nil, domain.ErrProductIDRequired
		}
		if item.Color == "" {
			item.Color = i.cfg.DefaultColor
		}
		if item.Size == "" {
			item.Size = i.cfg.DefaultSize
		}
		if item.SKU == "" {
			item.SKU = fmt.Sprintf("SKU-%s-%s-%s", item.ProductID, item.Color, item.Size)
		}
		if item.ProductName == "" {
			if i.catalog == nil {
				return nil, domain.ErrProductNameRequired
			}
			product, err := i.catalog.LookupProduct(ctx, item.ProductID)
			if err != nil {
				return nil, fmt.Errorf("lookup product %s: %w", item.ProductID, err)
			}
			item.ProductName = product.Title
		}
		items = append(items, item)
	}
	return items, nil
}

func (i *Initiator) openSession(ctx context.Context, order domain.Order) (domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, i.cfg.GatewayTimeout)
	defer cancel()

	started := time.Now()
	session, err := i.gateway.CreateCheckoutSession(ctx, domain.SessionRequest{
		OrderID:       order.ID,
		CustomerEmail: order.CustomerEmail,
		Currency:      order.Currency,
		Items:         payment.BuildLineItems(order.Items),
		Total:         order.TotalAmount,
		SuccessURL:    i.cfg.SuccessURL,
		CancelURL:     i.cfg.CancelURL,
		Metadata:      map[string]string{domain.OrderIDMetadataKey: order.ID},
	})
	if err != nil {
		i.metrics.RecordGatewayCall("error", time.Since(started))
		if errors.Is(err, domain.ErrUpstreamUnavailable) {
			return domain.Session{}, err
		}
		return domain.Session{}, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	i.metrics.RecordGatewayCall("ok", time.Since(started))

	return session, nil
}

func resultLabel(err error) string {
	switch domain.KindOf(err) {
	case nil:
		return "success"
	case domain.ErrValidation:
		return "validation_error"
	case domain.ErrNotFound:
		return "not_found"
	case domain.ErrUpstreamUnavailable:
		return "upstream_unavailable"
	default:
		return "internal_error"
	}
}
