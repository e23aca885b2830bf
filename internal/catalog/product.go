package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/safar/promo-store/internal/models"
	"github.com/shopspring/decimal"
)

var ErrInvalidProduct = errors.New("invalid product")

const lowStockThreshold = 10

type StockLevel string

const (
	StockOut StockLevel = "out_of_stock"
	StockLow StockLevel = "low_stock"
	StockIn  StockLevel = "in_stock"
)

func StockStatus(stock int) StockLevel {
	switch {
	case stock <= 0:
		return StockOut
	case stock < lowStockThreshold:
		return StockLow
	default:
		return StockIn
	}
}

var statusLabels = map[string]string{
	models.ProductStatusActive:   "Disponible",
	models.ProductStatusInactive: "No disponible",
	models.ProductStatusPending:  "Pendiente",
}

func StatusLabel(status string) string {
	return statusLabels[status]
}

// BestBreakPrice is the price advertised on the product card: the last break
// of the schedule, shown only when the product has more than one break.
func BestBreakPrice(p *models.Product) (decimal.Decimal, bool) {
	if len(p.PriceBreaks) < 2 {
		return decimal.Zero, false
	}
	return p.PriceBreaks[len(p.PriceBreaks)-1].Price, true
}

// ValidateProduct enforces the data-entry rules for catalog products. A valid
// schedule never prices a larger order above a smaller one.
func ValidateProduct(p *models.Product) error {
	var problems []string

	if strings.TrimSpace(p.SKU) == "" {
		problems = append(problems, "sku is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		problems = append(problems, "name is required")
	}
	if p.BasePrice.IsNegative() {
		problems = append(problems, "base price must not be negative")
	}
	if p.Stock < 0 {
		problems = append(problems, "stock must not be negative")
	}
	if _, ok := statusLabels[p.Status]; !ok {
		problems = append(problems, fmt.Sprintf("unknown status %q", p.Status))
	}

	problems = append(problems, validateBreaks(p.BasePrice, p.PriceBreaks)...)

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidProduct, strings.Join(problems, "; "))
	}
	return nil
}

func validateBreaks(basePrice decimal.Decimal, breaks []models.PriceBreak) []string {
	var problems []string

	sorted := make([]models.PriceBreak, len(breaks))
	copy(sorted, breaks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MinQty < sorted[j].MinQty })

	prev := basePrice
	for i, pb := range sorted {
		if pb.MinQty < 1 {
			problems = append(problems, fmt.Sprintf("price break min quantity must be at least 1, got %d", pb.MinQty))
			continue
		}
		if pb.Price.IsNegative() {
			problems = append(problems, fmt.Sprintf("price break at %d units is negative", pb.MinQty))
			continue
		}
		if i > 0 && sorted[i-1].MinQty == pb.MinQty {
			problems = append(problems, fmt.Sprintf("duplicate price break at %d units", pb.MinQty))
			continue
		}
		if pb.Price.GreaterThan(prev) {
			problems = append(problems, fmt.Sprintf("price break at %d units (%s) is above the previous price %s", pb.MinQty, pb.Price, prev))
		}
		prev = pb.Price
	}

	return problems
}
