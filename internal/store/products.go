package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/safar/promo-store/internal/catalog"
	"github.com/safar/promo-store/internal/database"
	"github.com/safar/promo-store/internal/models"
)

type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const productColumns = `id, sku, name, description, category, supplier, status, base_price, stock,
		colors, sizes, features, created_at, updated_at, version`

func scanProduct(row rowScanner) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(
		&p.ID,
		&p.SKU,
		&p.Name,
		&p.Description,
		&p.Category,
		&p.Supplier,
		&p.Status,
		&p.BasePrice,
		&p.Stock,
		pq.Array(&p.Colors),
		pq.Array(&p.Sizes),
		pq.Array(&p.Features),
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.Version,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreateProduct validates p and stores it together with its price breaks.
func CreateProduct(ctx context.Context, db *sql.DB, p *models.Product) (*models.Product, error) {
	if p.Status == "" {
		p.Status = models.ProductStatusActive
	}
	if err := catalog.ValidateProduct(p); err != nil {
		return nil, err
	}

	var created *models.Product
	err := database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		query := `
		INSERT INTO products (sku, name, description, category, supplier, status, base_price, stock,
			colors, sizes, features, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW(), 1)
		RETURNING ` + productColumns

		row := tx.QueryRowContext(ctx, query,
			p.SKU, p.Name, p.Description, p.Category, p.Supplier, p.Status, p.BasePrice, p.Stock,
			pq.Array(p.Colors), pq.Array(p.Sizes), pq.Array(p.Features))

		var err error
		created, err = scanProduct(row)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("%w: %s", database.ErrDuplicateSKU, p.SKU)
			}
			return fmt.Errorf("create product: %w", err)
		}

		for _, pb := range p.PriceBreaks {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO price_breaks (product_id, min_qty, price) VALUES ($1, $2, $3)`,
				created.ID, pb.MinQty, pb.Price)
			if err != nil {
				return fmt.Errorf("create price break: %w", err)
			}
		}
		created.PriceBreaks = append([]models.PriceBreak(nil), p.PriceBreaks...)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func GetProduct(ctx context.Context, db *sql.DB, id int64) (*models.Product, error) {
	return getProduct(ctx, db, id, "")
}

func getProduct(ctx context.Context, q querier, id int64, lock string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 ` + lock

	product, err := scanProduct(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	breaks, err := loadPriceBreaks(ctx, q, []int64{id})
	if err != nil {
		return nil, err
	}
	product.PriceBreaks = breaks[id]

	return product, nil
}

// loadPriceBreaks returns the schedules of the given products ordered by
// ascending threshold.
func loadPriceBreaks(ctx context.Context, q querier, ids []int64) (map[int64][]models.PriceBreak, error) {
	out := make(map[int64][]models.PriceBreak, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := q.QueryContext(ctx,
		`SELECT product_id, min_qty, price
		 FROM price_breaks
		 WHERE product_id = ANY($1)
		 ORDER BY product_id, min_qty`,
		pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("load price breaks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID int64
		var pb models.PriceBreak
		if err := rows.Scan(&productID, &pb.MinQty, &pb.Price); err != nil {
			return nil, fmt.Errorf("scan price break: %w", err)
		}
		out[productID] = append(out[productID], pb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return out, nil
}

// LockProductNoWait locks the product row for the rest of tx, failing with a
// lock_not_available error instead of waiting on a concurrent checkout.
func LockProductNoWait(ctx context.Context, tx *sql.Tx, productID int64) (*models.Product, error) {
	return getProduct(ctx, tx, productID, "FOR UPDATE NOWAIT")
}

func UpdateStockOptimistic(ctx context.Context, db *sql.DB, productID int64, newStock int, version int) error {
	if newStock < 0 {
		return fmt.Errorf("%w: stock must not be negative", catalog.ErrInvalidProduct)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE products
		 SET stock = $1, version = version + 1, updated_at = NOW()
		 WHERE id = $2 AND version = $3`,
		newStock, productID, version)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return missingOrStale(ctx, db, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`,
			productID, database.ErrProductNotFound)
	}

	return nil
}

// missingOrStale explains a versioned update that touched no row: either the
// row is gone or its version moved on.
func missingOrStale(ctx context.Context, q querier, existsQuery string, id int64, notFound error) error {
	var exists bool
	if err := q.QueryRowContext(ctx, existsQuery, id).Scan(&exists); err != nil {
		return fmt.Errorf("check row exists: %w", err)
	}
	if !exists {
		return notFound
	}
	return database.ErrOptimisticLockFailed
}

func DecrementStock(ctx context.Context, tx *sql.Tx, productID int64, quantity int) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE products
		 SET stock = stock - $1,
		     version = version + 1,
		     updated_at = NOW()
		 WHERE id = $2
		   AND stock >= $1`,
		quantity, productID)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return database.ErrInsufficientStock
	}

	return nil
}

// ListProducts applies the catalog filter in SQL and returns one page.
func ListProducts(ctx context.Context, db *sql.DB, filter catalog.Filter, page, pageSize int) (*OffsetPage, error) {
	f := filter.Normalize()

	var conds []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Category != catalog.CategoryAll {
		conds = append(conds, "category = "+arg(f.Category))
	}
	if f.Search != "" {
		p := arg("%" + escapeLike(f.Search) + "%")
		conds = append(conds, fmt.Sprintf("(name ILIKE %s OR sku ILIKE %s)", p, p))
	}
	if f.Supplier != "" {
		conds = append(conds, "supplier = "+arg(f.Supplier))
	}
	conds = append(conds, "base_price >= "+arg(*f.MinPrice), "base_price <= "+arg(*f.MaxPrice))

	where := " WHERE " + strings.Join(conds, " AND ")

	var total int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + productColumns + ` FROM products` + where +
		` ORDER BY ` + f.OrderClause() +
		` LIMIT ` + arg(pageSize) + ` OFFSET ` + arg(offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	var ids []int64
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *product)
		ids = append(ids, product.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	breaks, err := loadPriceBreaks(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].PriceBreaks = breaks[products[i].ID]
	}

	return newOffsetPage(products, total, page, pageSize), nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
