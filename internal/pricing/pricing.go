package pricing

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/safar/promo-store/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrMissingProduct = errors.New("no product to quote")
)

type BusinessType string

const (
	BusinessParticular   BusinessType = "particular"
	BusinessEmpresa      BusinessType = "empresa"
	BusinessMayorista    BusinessType = "mayorista"
	BusinessDistribuidor BusinessType = "distribuidor"
)

// LoyaltyDiscountPct is applied to every quotation regardless of history.
const LoyaltyDiscountPct = 2

type quantityTier struct {
	minQty int
	pct    int
}

// Highest threshold first; only the first match applies.
var quantityTiers = []quantityTier{
	{minQty: 100, pct: 15},
	{minQty: 50, pct: 10},
	{minQty: 20, pct: 5},
}

var businessDiscounts = map[BusinessType]int{
	BusinessDistribuidor: 20,
	BusinessMayorista:    15,
	BusinessEmpresa:      5,
	BusinessParticular:   0,
}

type DiscountBreakdown struct {
	QuantityPct int `json:"quantity_discount_pct"`
	BusinessPct int `json:"business_discount_pct"`
	LoyaltyPct  int `json:"loyalty_discount_pct"`
	TotalPct    int `json:"total_discount_pct"`
}

// ParseBusinessType normalizes free-form input. Unknown values map to
// particular, which carries no discount.
func ParseBusinessType(s string) BusinessType {
	bt := BusinessType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := businessDiscounts[bt]; ok {
		return bt
	}
	return BusinessParticular
}

// ResolveUnitPrice returns the price of the break with the highest MinQty not
// above quantity, or basePrice when none qualifies. When two breaks share a
// MinQty the one defined last wins.
func ResolveUnitPrice(basePrice decimal.Decimal, breaks []models.PriceBreak, quantity int) (decimal.Decimal, error) {
	if quantity < 1 {
		return decimal.Zero, fmt.Errorf("%w: quantity must be at least 1, got %d", ErrInvalidInput, quantity)
	}
	if basePrice.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative base price %s", ErrInvalidInput, basePrice)
	}

	sorted := make([]models.PriceBreak, 0, len(breaks))
	for i := len(breaks) - 1; i >= 0; i-- {
		pb := breaks[i]
		if pb.MinQty < 1 {
			return decimal.Zero, fmt.Errorf("%w: price break min quantity must be at least 1, got %d", ErrInvalidInput, pb.MinQty)
		}
		if pb.Price.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: negative price break %s at %d units", ErrInvalidInput, pb.Price, pb.MinQty)
		}
		sorted = append(sorted, pb)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinQty > sorted[j].MinQty
	})

	for _, pb := range sorted {
		if pb.MinQty <= quantity {
			return pb.Price, nil
		}
	}

	return basePrice, nil
}

func ComputeDiscounts(quantity int, businessType BusinessType) (DiscountBreakdown, error) {
	if quantity < 1 {
		return DiscountBreakdown{}, fmt.Errorf("%w: quantity must be at least 1, got %d", ErrInvalidInput, quantity)
	}

	var d DiscountBreakdown
	for _, tier := range quantityTiers {
		if quantity >= tier.minQty {
			d.QuantityPct = tier.pct
			break
		}
	}

	d.BusinessPct = businessDiscounts[ParseBusinessType(string(businessType))]
	d.LoyaltyPct = LoyaltyDiscountPct
	d.TotalPct = d.QuantityPct + d.BusinessPct + d.LoyaltyPct

	return d, nil
}
