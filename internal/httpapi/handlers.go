package httpapi

import (
	"context"

	"github.com/safar/promo-store/internal/cart"
	"github.com/safar/promo-store/internal/catalog"
	"github.com/safar/promo-store/internal/models"
	"github.com/safar/promo-store/internal/quotation"
	"github.com/safar/promo-store/internal/store"
	"go.uber.org/zap"
)

type ProductRepository interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, filter catalog.Filter, page, pageSize int) (*store.OffsetPage, error)
	CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error)
	UpdateStock(ctx context.Context, id int64, stock, version int) error
}

type CustomerRepository interface {
	CreateCustomer(ctx context.Context, c *models.Customer) (*models.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
	ListCustomers(ctx context.Context, page, pageSize int) (*store.OffsetPage, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, req store.CreateOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	ListOrders(ctx context.Context, customerID int64, cursor string, limit int) (*store.CursorPage, error)
	UpdateStatus(ctx context.Context, id int64, status string, version int) error
}

type Handlers struct {
	Products  ProductRepository
	Customers CustomerRepository
	Orders    OrderRepository
	Quotes    *quotation.Service
	Carts     cart.Storage
	Log       *zap.Logger
}

func (h *Handlers) openCart(ctx context.Context, id string) *cart.Store {
	c := cart.NewStore(id, h.Carts, h.Log)
	c.Load(ctx)
	return c
}
