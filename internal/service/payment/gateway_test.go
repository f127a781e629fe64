package payment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func TestBuildLineItems(t *testing.T) {
	items, total, err := domain.PriceItems([]domain.LineItem{
		{
			ProductID:   "p-1",
			ProductName: "Tee",
			Color:       "White",
			Size:        domain.SizeM,
			UnitPrice:   decimal.RequireFromString("19.99"),
			Quantity:    2,
		},
		{
			ProductID:          "p-2",
			ProductName:        "Hoodie",
			Color:              "Black",
			Size:               domain.SizeL,
			UnitPrice:          decimal.RequireFromString("33.33"),
			Quantity:           3,
			DiscountPercentage: decimal.RequireFromString("15"),
		},
	})
	require.NoError(t, err)

	lines := BuildLineItems(items)
	require.Len(t, lines, 2)

	require.Equal(t, "Tee (White, M)", lines[0].Name)
	require.Equal(t, int64(1999), lines[0].UnitAmountMinor)
	require.Equal(t, int64(2), lines[0].Quantity)

	require.True(t, strings.HasPrefix(lines[1].Name, "Hoodie (Black, L)"))
	require.Equal(t, int64(1), lines[1].Quantity)
	require.Equal(t, domain.ToMinorUnits(items[1].LineTotal), lines[1].UnitAmountMinor)

	require.Equal(t, domain.ToMinorUnits(total), SessionTotalMinor(lines))
}

func TestBuildLineItems_ChargeMatchesOrderTotal(t *testing.T) {
	cases := map[string][]domain.LineItem{
		"whole cents": {
			{ProductName: "Tee", UnitPrice: decimal.RequireFromString("19.99"), Quantity: 3},
			{ProductName: "Cap", UnitPrice: decimal.RequireFromString("0.01"), Quantity: 7},
		},
		"discounts": {
			{ProductName: "Hoodie", UnitPrice: decimal.RequireFromString("33.33"), Quantity: 3, DiscountPercentage: decimal.RequireFromString("15")},
			{ProductName: "Socks", UnitPrice: decimal.RequireFromString("0.15"), Quantity: 1, DiscountPercentage: decimal.RequireFromString("10")},
		},
	}

	for name, items := range cases {
		t.Run(name, func(t *testing.T) {
			priced, total, err := domain.PriceItems(items)
			require.NoError(t, err)
			require.Equal(t, domain.ToMinorUnits(total), SessionTotalMinor(BuildLineItems(priced)))
		})
	}
}

func TestBuildLineItems_SubCentLineFallsBackToSingleLine(t *testing.T) {
	// Позиция в обход PriceItems: цена с долями цента, итог посчитан целиком.
	item := domain.LineItem{
		ProductName: "Bolt",
		UnitPrice:   decimal.RequireFromString("10.005"),
		Quantity:    2,
		LineTotal:   decimal.RequireFromString("20.01"),
	}

	lines := BuildLineItems([]domain.LineItem{item})
	require.Len(t, lines, 1)
	require.Equal(t, int64(1), lines[0].Quantity)
	require.Equal(t, "Bolt x2", lines[0].Name)
	require.Equal(t, int64(2001), SessionTotalMinor(lines))

	_, _, err := domain.PriceItems([]domain.LineItem{item})
	require.ErrorIs(t, err, domain.ErrItemPricePrecision)
}

func TestMockGateway(t *testing.T) {
	gw := NewMockGateway("https://pay.local/")

	sess, err := gw.CreateCheckoutSession(context.Background(), domain.SessionRequest{OrderID: "o-1"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(sess.ID, "cs_mock_"))
	require.Equal(t, "https://pay.local/"+sess.ID, sess.RedirectURL)
	require.Equal(t, 1, gw.Calls())
	require.Equal(t, "o-1", gw.Requests()[0].OrderID)

	gw.Err = errors.New("down")
	_, err = gw.CreateCheckoutSession(context.Background(), domain.SessionRequest{OrderID: "o-2"})
	require.Error(t, err)
	require.Equal(t, 2, gw.Calls())
}
