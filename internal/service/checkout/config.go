package checkout

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Config — все параметры оформления заказа; значения по умолчанию задаются в DefaultConfig.
type Config struct {
	// Currency — код валюты ISO 4217 для всех заказов.
	Currency string
	// SuccessURL и CancelURL — статические адреса возврата со страницы шлюза.
	SuccessURL string
	CancelURL  string
	// GatewayTimeout ограничивает единственную попытку создания сессии.
	GatewayTimeout time.Duration
	// TotalTolerance — допустимое расхождение итога из запроса с вычисленным.
	TotalTolerance decimal.Decimal
	DefaultColor   string
	DefaultSize    domain.Size
}

// DefaultConfig возвращает конфигурацию по умолчанию.
func DefaultConfig() Config {
	return Config{
		Currency:       "usd",
		SuccessURL:     "http://localhost:3000/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:      "http://localhost:3000/checkout/cancel",
		GatewayTimeout: 10 * time.Second,
		TotalTolerance: domain.TotalTolerance,
		DefaultColor:   "White",
		DefaultSize:    domain.SizeM,
	}
}

// normalized подставляет значения по умолчанию вместо пустых.
func (c Config) normalized() Config {
	def := DefaultConfig()
	c.Currency = strings.ToLower(strings.TrimSpace(c.Currency))
	if c.Currency == "" {
		c.Currency = def.Currency
	}
	if strings.TrimSpace(c.SuccessURL) == "" {
		c.SuccessURL = def.SuccessURL
	}
	if strings.TrimSpace(c.CancelURL) == "" {
		c.CancelURL = def.CancelURL
	}
	if c.GatewayTimeout <= 0 {
		c.GatewayTimeout = def.GatewayTimeout
	}
	if !c.TotalTolerance.IsPositive() {
		c.TotalTolerance = def.TotalTolerance
	}
	if strings.TrimSpace(c.DefaultColor) == "" {
		c.DefaultColor = def.DefaultColor
	}
	if !c.DefaultSize.Valid() {
		c.DefaultSize = def.DefaultSize
	}
	return c
}
