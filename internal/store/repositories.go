package store

import (
	"context"
	"database/sql"

	"github.com/safar/promo-store/internal/catalog"
	"github.com/safar/promo-store/internal/models"
)

// Catalog binds the product functions to a database for callers that depend
// on an interface.
type Catalog struct {
	DB *sql.DB
}

func (c Catalog) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return GetProduct(ctx, c.DB, id)
}

func (c Catalog) ListProducts(ctx context.Context, filter catalog.Filter, page, pageSize int) (*OffsetPage, error) {
	return ListProducts(ctx, c.DB, filter, page, pageSize)
}

func (c Catalog) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	return CreateProduct(ctx, c.DB, p)
}

func (c Catalog) UpdateStock(ctx context.Context, id int64, stock, version int) error {
	return UpdateStockOptimistic(ctx, c.DB, id, stock, version)
}

type Customers struct {
	DB *sql.DB
}

func (c Customers) CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	return CreateCustomer(ctx, c.DB, customer)
}

func (c Customers) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	return GetCustomer(ctx, c.DB, id)
}

func (c Customers) ListCustomers(ctx context.Context, page, pageSize int) (*OffsetPage, error) {
	return ListCustomers(ctx, c.DB, page, pageSize)
}

type Orders struct {
	DB *sql.DB
}

func (o Orders) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	return CreateOrder(ctx, o.DB, req)
}

func (o Orders) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return GetOrder(ctx, o.DB, id)
}

func (o Orders) ListOrders(ctx context.Context, customerID int64, cursor string, limit int) (*CursorPage, error) {
	return ListOrdersCursor(ctx, o.DB, customerID, cursor, limit)
}

func (o Orders) UpdateStatus(ctx context.Context, id int64, status string, version int) error {
	return UpdateOrderStatus(ctx, o.DB, id, status, version)
}
