package httpx

import (
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/orderview"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
)

type checkoutItemRequest struct {
	ProductID          string          `json:"productId"`
	ProductName        string          `json:"productName"`
	SKU                string          `json:"sku"`
	Color              string          `json:"color"`
	Size               string          `json:"size"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	Quantity           int32           `json:"quantity"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
}

type shippingAddressJSON struct {
	FullName     string `json:"fullName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
}

type checkoutRequest struct {
	CustomerID      string                `json:"customerId"`
	Items           []checkoutItemRequest `json:"items"`
	ShippingAddress shippingAddressJSON   `json:"shippingAddress"`
	PaymentMethod   string                `json:"paymentMethod"`
	TotalAmount     *decimal.Decimal      `json:"totalAmount,omitempty"`
}

func (r checkoutRequest) toDomain() checkout.Request {
	items := make([]checkout.ItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, checkout.ItemInput{
			ProductID:          item.ProductID,
			ProductName:        item.ProductName,
			SKU:                item.SKU,
			Color:              item.Color,
			Size:               domain.Size(item.Size),
			UnitPrice:          item.UnitPrice,
			Quantity:           item.Quantity,
			DiscountPercentage: item.DiscountPercentage,
		})
	}
	return checkout.Request{
		CustomerID:      r.CustomerID,
		Items:           items,
		ShippingAddress: domain.ShippingAddress(r.ShippingAddress),
		PaymentMethod:   domain.PaymentMethod(r.PaymentMethod),
		TotalAmount:     r.TotalAmount,
	}
}

type checkoutResponse struct {
	OrderID     string `json:"orderId"`
	SessionID   string `json:"sessionId"`
	RedirectURL string `json:"redirectUrl"`
	TotalAmount string `json:"totalAmount"`
	Currency    string `json:"currency"`
}

func newCheckoutResponse(res checkout.Result) checkoutResponse {
	return checkoutResponse{
		OrderID:     res.OrderID,
		SessionID:   res.SessionID,
		RedirectURL: res.RedirectURL,
		TotalAmount: orderview.Money(res.TotalAmount),
		Currency:    res.Currency,
	}
}

type statusRequest struct {
	OrderStatus string `json:"orderStatus"`
}
