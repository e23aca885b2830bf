package pricing

import (
	"fmt"
	"sync"
	"time"

	"github.com/safar/promo-store/internal/models"
	"github.com/shopspring/decimal"
)

const ValidUntilDays = 30

var TaxRate = decimal.RequireFromString("0.16")

type Request struct {
	Product       *models.Product
	Quantity      int
	BusinessType  BusinessType
	SelectedColor string
	SelectedSize  string
}

// Quotation is returned by value; holders get their own copy.
//
// DiscountAmount and Tax are rounded half away from zero to whole cents, so
// DiscountedSubtotal and Total never carry fractions of a cent. Subtotal is
// exact.
type Quotation struct {
	Number             string            `json:"quotation_number"`
	CreatedAt          time.Time         `json:"created_at"`
	ValidUntilDays     int               `json:"valid_until_days"`
	ValidUntil         time.Time         `json:"valid_until"`
	ProductID          int64             `json:"product_id"`
	SKU                string            `json:"sku"`
	ProductName        string            `json:"product_name"`
	Quantity           int               `json:"quantity"`
	BusinessType       BusinessType      `json:"business_type"`
	SelectedColor      string            `json:"selected_color,omitempty"`
	SelectedSize       string            `json:"selected_size,omitempty"`
	Discounts          DiscountBreakdown `json:"discounts"`
	UnitPrice          decimal.Decimal   `json:"unit_price"`
	Subtotal           decimal.Decimal   `json:"subtotal"`
	DiscountAmount     decimal.Decimal   `json:"discount_amount"`
	DiscountedSubtotal decimal.Decimal   `json:"discounted_subtotal"`
	TaxRate            decimal.Decimal   `json:"tax_rate"`
	Tax                decimal.Decimal   `json:"tax"`
	Total              decimal.Decimal   `json:"total"`
}

type NumberSource interface {
	Next(at time.Time) string
}

// SequentialNumbers issues COT-<unix nanos> tokens that strictly increase
// even when consecutive calls observe the same clock reading.
type SequentialNumbers struct {
	mu   sync.Mutex
	last int64
}

func (s *SequentialNumbers) Next(at time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := at.UnixNano()
	if n <= s.last {
		n = s.last + 1
	}
	s.last = n

	return fmt.Sprintf("COT-%d", n)
}

type Assembler struct {
	numbers NumberSource
	now     func() time.Time
}

func NewAssembler(numbers NumberSource, now func() time.Time) *Assembler {
	if numbers == nil {
		numbers = &SequentialNumbers{}
	}
	if now == nil {
		now = time.Now
	}
	return &Assembler{numbers: numbers, now: now}
}

var defaultAssembler = NewAssembler(nil, nil)

func BuildQuotation(req Request) (Quotation, error) {
	return defaultAssembler.Build(req)
}

// Build validates the request, prices it and stamps a fresh number. Nothing
// is computed unless every input is valid.
func (a *Assembler) Build(req Request) (Quotation, error) {
	if req.Product == nil {
		return Quotation{}, ErrMissingProduct
	}

	unitPrice, err := ResolveUnitPrice(req.Product.BasePrice, req.Product.PriceBreaks, req.Quantity)
	if err != nil {
		return Quotation{}, err
	}

	businessType := ParseBusinessType(string(req.BusinessType))
	discounts, err := ComputeDiscounts(req.Quantity, businessType)
	if err != nil {
		return Quotation{}, err
	}

	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))
	discountAmount := subtotal.
		Mul(decimal.NewFromInt(int64(discounts.TotalPct))).
		Div(decimal.NewFromInt(100)).
		Round(2)
	discounted := subtotal.Sub(discountAmount)
	tax := discounted.Mul(TaxRate).Round(2)

	createdAt := a.now()

	return Quotation{
		Number:             a.numbers.Next(createdAt),
		CreatedAt:          createdAt,
		ValidUntilDays:     ValidUntilDays,
		ValidUntil:         createdAt.AddDate(0, 0, ValidUntilDays),
		ProductID:          req.Product.ID,
		SKU:                req.Product.SKU,
		ProductName:        req.Product.Name,
		Quantity:           req.Quantity,
		BusinessType:       businessType,
		SelectedColor:      req.SelectedColor,
		SelectedSize:       req.SelectedSize,
		Discounts:          discounts,
		UnitPrice:          unitPrice,
		Subtotal:           subtotal,
		DiscountAmount:     discountAmount,
		DiscountedSubtotal: discounted,
		TaxRate:            TaxRate,
		Tax:                tax,
		Total:              discounted.Add(tax),
	}, nil
}
