package store

import (
	"testing"
	"time"

	"github.com/safar/promo-store/internal/database"
	"github.com/safar/promo-store/internal/models"
	"github.com/safar/promo-store/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func gorra() *models.Product {
	return &models.Product{
		ID:        2,
		SKU:       "GOR-22",
		BasePrice: d("299"),
		Stock:     500,
		PriceBreaks: []models.PriceBreak{
			{MinQty: 10, Price: d("270")},
			{MinQty: 50, Price: d("250")},
		},
	}
}

func TestPriceOrderMatchesQuotation(t *testing.T) {
	products := map[int64]*models.Product{2: gorra()}
	items := []OrderItemRequest{{ProductID: 2, Quantity: 25, SelectedColor: "Rojo"}}

	lines, totals, err := priceOrder(items, products, pricing.BusinessEmpresa)
	require.NoError(t, err)

	q, err := pricing.BuildQuotation(pricing.Request{Product: gorra(), Quantity: 25, BusinessType: pricing.BusinessEmpresa})
	require.NoError(t, err)

	require.Len(t, lines, 1)
	assert.True(t, lines[0].UnitPrice.Equal(q.UnitPrice))
	assert.Equal(t, q.Discounts.TotalPct, lines[0].DiscountPct)
	assert.Equal(t, "Rojo", lines[0].SelectedColor)
	assert.True(t, totals.subtotal.Equal(q.Subtotal))
	assert.True(t, totals.discount.Equal(q.DiscountAmount))
	assert.True(t, totals.tax.Equal(q.Tax))
	assert.True(t, totals.total.Equal(q.Total), "total %s want %s", totals.total, q.Total)
}

func TestPriceOrderCombinesVariants(t *testing.T) {
	products := map[int64]*models.Product{2: gorra()}
	items := []OrderItemRequest{
		{ProductID: 2, Quantity: 30, SelectedColor: "Rojo"},
		{ProductID: 2, Quantity: 20, SelectedColor: "Azul"},
	}

	lines, totals, err := priceOrder(items, products, pricing.BusinessParticular)
	require.NoError(t, err)

	// 50 combined units reach the 250 break and the 10% tier.
	for _, line := range lines {
		assert.True(t, line.UnitPrice.Equal(d("250")))
		assert.Equal(t, 12, line.DiscountPct)
	}
	assert.True(t, totals.subtotal.Equal(d("12500")))
	assert.True(t, totals.discount.Equal(d("1500")))
	assert.True(t, totals.tax.Equal(d("1760")))
	assert.True(t, totals.total.Equal(d("12760")))
}

func TestPriceOrderFailures(t *testing.T) {
	products := map[int64]*models.Product{2: gorra()}

	_, _, err := priceOrder([]OrderItemRequest{{ProductID: 9, Quantity: 1}}, products, pricing.BusinessEmpresa)
	assert.ErrorIs(t, err, database.ErrProductNotFound)

	_, _, err = priceOrder([]OrderItemRequest{{ProductID: 2, Quantity: 0}}, products, pricing.BusinessEmpresa)
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)
}

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	got, err := DecodeCursor(EncodeCursor(Cursor{CreatedAt: at, ID: 42}))
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(at))
	assert.Equal(t, int64(42), got.ID)
}

func TestDecodeCursor(t *testing.T) {
	start, err := DecodeCursor("")
	require.NoError(t, err)
	assert.True(t, start.CreatedAt.After(time.Now()))

	_, err = DecodeCursor("%%%")
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestNormalizePage(t *testing.T) {
	page, size := NormalizePage(0, 500)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageSize, size)

	page, size = NormalizePage(3, 50)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, size)
}

func TestNewOffsetPage(t *testing.T) {
	assert.Equal(t, 3, newOffsetPage(nil, 41, 1, 20).TotalPages)
	assert.Equal(t, 2, newOffsetPage(nil, 40, 1, 20).TotalPages)
	assert.Equal(t, 0, newOffsetPage(nil, 0, 1, 20).TotalPages)
}
