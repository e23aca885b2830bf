package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/safar/promo-store/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Item keeps a snapshot of the product it was added from so the cart can be
// shown and quoted without another catalog lookup.
type Item struct {
	ProductID     int64               `json:"product_id"`
	SKU           string              `json:"sku"`
	Name          string              `json:"name"`
	BasePrice     decimal.Decimal     `json:"base_price"`
	Stock         int                 `json:"stock"`
	PriceBreaks   []models.PriceBreak `json:"price_breaks,omitempty"`
	Quantity      int                 `json:"quantity"`
	SelectedColor string              `json:"selected_color,omitempty"`
	SelectedSize  string              `json:"selected_size,omitempty"`
}

func NewItem(p *models.Product, quantity int, color, size string) Item {
	return Item{
		ProductID:     p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		BasePrice:     p.BasePrice,
		Stock:         p.Stock,
		PriceBreaks:   p.PriceBreaks,
		Quantity:      quantity,
		SelectedColor: color,
		SelectedSize:  size,
	}
}

// Product rebuilds the catalog view of the snapshot for pricing.
func (i Item) Product() *models.Product {
	return &models.Product{
		ID:          i.ProductID,
		SKU:         i.SKU,
		Name:        i.Name,
		BasePrice:   i.BasePrice,
		Stock:       i.Stock,
		PriceBreaks: i.PriceBreaks,
	}
}

func (i Item) sameVariant(productID int64, color, size string) bool {
	return i.ProductID == productID && i.SelectedColor == color && i.SelectedSize == size
}

// Store is one cart bound to its persisted copy. Load runs once before use
// and every mutation is saved immediately.
type Store struct {
	id      string
	storage Storage
	log     *zap.Logger
	items   []Item
}

func NewStore(id string, storage Storage, log *zap.Logger) *Store {
	return &Store{id: id, storage: storage, log: log}
}

func (s *Store) ID() string { return s.id }

// Load replaces the in-memory items with the persisted ones. An unreadable
// or corrupt cart is treated as empty.
func (s *Store) Load(ctx context.Context) {
	s.items = nil

	raw, err := s.storage.Get(ctx, s.id)
	if err != nil {
		s.log.Warn("cart load failed, starting empty", zap.String("cart_id", s.id), zap.Error(err))
		return
	}
	if raw == nil {
		return
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		s.log.Warn("cart decode failed, starting empty", zap.String("cart_id", s.id), zap.Error(err))
		return
	}
	s.items = items
}

func (s *Store) Save(ctx context.Context) error {
	if len(s.items) == 0 {
		if err := s.storage.Delete(ctx, s.id); err != nil {
			return fmt.Errorf("delete cart: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.storage.Put(ctx, s.id, raw); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Add merges item into an existing line for the same product and variant,
// capping the merged quantity at the product stock. New lines are kept as
// given.
func (s *Store) Add(ctx context.Context, item Item) error {
	if item.Quantity < 1 {
		return ErrInvalidQuantity
	}

	merged := false
	for i := range s.items {
		existing := &s.items[i]
		if !existing.sameVariant(item.ProductID, item.SelectedColor, item.SelectedSize) {
			continue
		}
		existing.Quantity = min(existing.Quantity+item.Quantity, item.Stock)
		merged = true
		break
	}
	if !merged {
		s.items = append(s.items, item)
	}

	return s.Save(ctx)
}

func (s *Store) Remove(ctx context.Context, productID int64, color, size string) error {
	kept := s.items[:0]
	for _, it := range s.items {
		if !it.sameVariant(productID, color, size) {
			kept = append(kept, it)
		}
	}
	s.items = kept

	return s.Save(ctx)
}

func (s *Store) Clear(ctx context.Context) error {
	s.items = nil
	return s.Save(ctx)
}

func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Count is the number of units across all lines.
func (s *Store) Count() int {
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}
