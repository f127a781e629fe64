package domain

import "github.com/shopspring/decimal"

// MinorUnitPlaces — точность денежных сумм (копейки/центы).
const MinorUnitPlaces = 2

var (
	hundred = decimal.NewFromInt(100)
	// TotalTolerance — допустимое расхождение переданного клиентом итога с вычисленным.
	TotalTolerance = decimal.New(1, -MinorUnitPlaces)
)

func validatePriceInputs(unitPrice decimal.Decimal, quantity int32, discount decimal.Decimal) error {
	if !unitPrice.IsPositive() {
		return ErrItemPriceInvalid
	}
	// Цена должна выражаться целым числом центов, иначе сумма на странице оплаты разойдётся с итогом.
	if !unitPrice.Equal(unitPrice.Truncate(MinorUnitPlaces)) {
		return ErrItemPricePrecision
	}
	if quantity < 1 {
		return ErrItemQtyInvalid
	}
	if discount.IsNegative() || discount.GreaterThan(hundred) {
		return ErrDiscountOutOfRange
	}
	return nil
}

// ComputeLineTotal считает стоимость позиции: unitPrice * quantity * (1 - discount/100).
// Результат округляется до минимальной денежной единицы по правилу half-to-even.
// Нулевая скидка эквивалентна её отсутствию.
func ComputeLineTotal(unitPrice decimal.Decimal, quantity int32, discountPercentage decimal.Decimal) (decimal.Decimal, error) {
	if err := validatePriceInputs(unitPrice, quantity, discountPercentage); err != nil {
		return decimal.Zero, err
	}

	gross := unitPrice.Mul(decimal.NewFromInt32(quantity))
	factor := hundred.Sub(discountPercentage).Div(hundred)
	return gross.Mul(factor).RoundBank(MinorUnitPlaces), nil
}

// ComputeOrderTotal суммирует стоимости позиций, каждая из которых округлена отдельно.
func ComputeOrderTotal(items []LineItem) (decimal.Decimal, error) {
	if len(items) == 0 {
		return decimal.Zero, ErrItemsRequired
	}

	total := decimal.Zero
	for _, item := range items {
		line, err := ComputeLineTotal(item.UnitPrice, item.Quantity, item.DiscountPercentage)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(line)
	}
	return total, nil
}

// PriceItems заполняет LineTotal каждой позиции и возвращает итог заказа.
func PriceItems(items []LineItem) ([]LineItem, decimal.Decimal, error) {
	priced := make([]LineItem, len(items))
	total := decimal.Zero
	for i, item := range items {
		line, err := ComputeLineTotal(item.UnitPrice, item.Quantity, item.DiscountPercentage)
		if err != nil {
			return nil, decimal.Zero, err
		}
		item.LineTotal = line
		priced[i] = item
		total = total.Add(line)
	}
	if len(priced) == 0 {
		return nil, decimal.Zero, ErrItemsRequired
	}
	return priced, total, nil
}

// WithinTolerance сообщает, совпадает ли заявленный итог с вычисленным в пределах TotalTolerance.
func WithinTolerance(claimed, computed decimal.Decimal) bool {
	return WithinToleranceOf(claimed, computed, TotalTolerance)
}

// WithinToleranceOf сравнивает итоги с заданным допуском.
func WithinToleranceOf(claimed, computed, tolerance decimal.Decimal) bool {
	return claimed.Sub(computed).Abs().LessThanOrEqual(tolerance)
}

// ToMinorUnits переводит сумму в целые минимальные единицы (центы) с округлением half-to-even.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.RoundBank(MinorUnitPlaces).Shift(MinorUnitPlaces).IntPart()
}
