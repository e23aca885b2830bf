package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	CategoryAll = "all"

	SortByName  = "name"
	SortByPrice = "price"
	SortByStock = "stock"
)

var (
	DefaultMinPrice = decimal.Zero
	DefaultMaxPrice = decimal.NewFromInt(10000)
)

// Filter mirrors the storefront's catalog controls. The zero value lists
// every product in the default price window sorted by name.
type Filter struct {
	Category string
	Search   string
	Supplier string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	SortBy   string
}

func (f Filter) Normalize() Filter {
	out := Filter{
		Category: strings.TrimSpace(f.Category),
		Search:   strings.TrimSpace(f.Search),
		Supplier: strings.TrimSpace(f.Supplier),
		SortBy:   strings.ToLower(strings.TrimSpace(f.SortBy)),
	}

	if out.Category == "" {
		out.Category = CategoryAll
	}

	switch out.SortBy {
	case SortByName, SortByPrice, SortByStock:
	default:
		out.SortBy = SortByName
	}

	minPrice, maxPrice := DefaultMinPrice, DefaultMaxPrice
	if f.MinPrice != nil && !f.MinPrice.IsNegative() {
		minPrice = *f.MinPrice
	}
	if f.MaxPrice != nil && !f.MaxPrice.IsNegative() {
		maxPrice = *f.MaxPrice
	}
	if minPrice.GreaterThan(maxPrice) {
		minPrice, maxPrice = maxPrice, minPrice
	}
	out.MinPrice = &minPrice
	out.MaxPrice = &maxPrice

	return out
}

// OrderClause is safe to splice into SQL: it only ever returns one of the
// fixed strings below.
func (f Filter) OrderClause() string {
	switch f.SortBy {
	case SortByPrice:
		return "base_price ASC, id ASC"
	case SortByStock:
		return "stock DESC, id ASC"
	default:
		return "name ASC, id ASC"
	}
}
