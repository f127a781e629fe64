// Package payment содержит клиентов платёжного шлюза, создающих hosted-сессии оплаты.
package payment

import (
	"strconv"
	"strings"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Поддерживаемые провайдеры.
const (
	ProviderMock   = "mock"
	ProviderStripe = "stripe"
)

// BuildLineItems формирует отображаемые позиции для страницы оплаты.
// Позиция передаётся как цена за единицу и количество, только если их произведение
// точно равно стоимости позиции. Иначе (скидка, дробные центы) позиция уходит одной
// строкой с итоговой суммой: списанная шлюзом сумма всегда совпадает с итогом заказа.
func BuildLineItems(items []domain.LineItem) []domain.SessionLineItem {
	result := make([]domain.SessionLineItem, 0, len(items))
	for _, item := range items {
		name := displayName(item)
		unit := domain.ToMinorUnits(item.UnitPrice)
		line := domain.ToMinorUnits(item.LineTotal)

		if item.DiscountPercentage.IsZero() && unit*int64(item.Quantity) == line {
			result = append(result, domain.SessionLineItem{
				Name:            name,
				UnitAmountMinor: unit,
				Quantity:        int64(item.Quantity),
			})
			continue
		}

		label := name + " x" + strconv.FormatInt(int64(item.Quantity), 10)
		if !item.DiscountPercentage.IsZero() {
			label += " -" + item.DiscountPercentage.String() + "%"
		}
		result = append(result, domain.SessionLineItem{
			Name:            label,
			UnitAmountMinor: line,
			Quantity:        1,
		})
	}
	return result
}

// SessionTotalMinor — сумма, которую шлюз спишет за позиции.
func SessionTotalMinor(items []domain.SessionLineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.UnitAmountMinor * item.Quantity
	}
	return total
}

func displayName(item domain.LineItem) string {
	variant := make([]string, 0, 2)
	if item.Color != "" {
		variant = append(variant, item.Color)
	}
	if item.Size != "" {
		variant = append(variant, string(item.Size))
	}
	if len(variant) == 0 {
		return item.ProductName
	}
	return item.ProductName + " (" + strings.Join(variant, ", ") + ")"
}
