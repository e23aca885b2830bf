package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/safar/promo-store/internal/database"
	"github.com/safar/promo-store/internal/models"
	"github.com/safar/promo-store/internal/pricing"
	"github.com/shopspring/decimal"
)

type CreateOrderRequest struct {
	CustomerID int64
	Items      []OrderItemRequest
}

type OrderItemRequest struct {
	ProductID     int64
	Quantity      int
	SelectedColor string
	SelectedSize  string
}

type orderTotals struct {
	subtotal decimal.Decimal
	discount decimal.Decimal
	tax      decimal.Decimal
	total    decimal.Decimal
}

func generateOrderNumber() string {
	return fmt.Sprintf("ORD-%d", time.Now().UnixNano())
}

// priceOrder prices every line with the same rules as a quotation. Variants
// of one product share a price break and quantity tier, resolved on the
// product's combined quantity. Line discounts and the order tax are rounded
// to cents the way pricing.Quotation rounds them.
func priceOrder(items []OrderItemRequest, products map[int64]*models.Product, businessType pricing.BusinessType) ([]models.OrderItem, orderTotals, error) {
	combined := make(map[int64]int, len(products))
	for _, item := range items {
		combined[item.ProductID] += item.Quantity
	}

	var totals orderTotals
	lines := make([]models.OrderItem, 0, len(items))

	for _, item := range items {
		if item.Quantity < 1 {
			return nil, orderTotals{}, fmt.Errorf("%w: quantity must be at least 1, got %d", pricing.ErrInvalidInput, item.Quantity)
		}

		product, ok := products[item.ProductID]
		if !ok {
			return nil, orderTotals{}, database.ErrProductNotFound
		}

		qty := combined[item.ProductID]
		unitPrice, err := pricing.ResolveUnitPrice(product.BasePrice, product.PriceBreaks, qty)
		if err != nil {
			return nil, orderTotals{}, err
		}
		discounts, err := pricing.ComputeDiscounts(qty, businessType)
		if err != nil {
			return nil, orderTotals{}, err
		}

		subtotal := unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		discount := subtotal.
			Mul(decimal.NewFromInt(int64(discounts.TotalPct))).
			Div(decimal.NewFromInt(100)).
			Round(2)

		totals.subtotal = totals.subtotal.Add(subtotal)
		totals.discount = totals.discount.Add(discount)

		lines = append(lines, models.OrderItem{
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			SelectedColor: item.SelectedColor,
			SelectedSize:  item.SelectedSize,
			UnitPrice:     unitPrice,
			DiscountPct:   discounts.TotalPct,
			Subtotal:      subtotal,
		})
	}

	discounted := totals.subtotal.Sub(totals.discount)
	totals.tax = discounted.Mul(pricing.TaxRate).Round(2)
	totals.total = discounted.Add(totals.tax)

	return lines, totals, nil
}

// CreateOrder turns cart lines into a pending order. Products are locked
// without waiting; a concurrent checkout makes the transaction retry and,
// once retries run out, the caller gets ErrLockTimeout.
func CreateOrder(ctx context.Context, db *sql.DB, req CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, database.ErrEmptyCart
	}

	var order *models.Order

	err := database.WithRetry(ctx, db, database.SerializableTxOptions(), func(tx *sql.Tx) error {
		customer, err := getCustomer(ctx, tx, req.CustomerID)
		if err != nil {
			return err
		}

		products := make(map[int64]*models.Product)
		needed := make(map[int64]int)
		for _, item := range req.Items {
			needed[item.ProductID] += item.Quantity
			if _, ok := products[item.ProductID]; ok {
				continue
			}

			product, err := LockProductNoWait(ctx, tx, item.ProductID)
			if err != nil {
				return fmt.Errorf("lock product %d: %w", item.ProductID, err)
			}
			products[item.ProductID] = product
		}

		for id, qty := range needed {
			if products[id].Stock < qty {
				return fmt.Errorf("%w: product %d has %d, requested %d",
					database.ErrInsufficientStock, id, products[id].Stock, qty)
			}
		}

		lines, totals, err := priceOrder(req.Items, products, pricing.ParseBusinessType(customer.BusinessType))
		if err != nil {
			return err
		}

		order = &models.Order{CustomerID: customer.ID}
		err = tx.QueryRowContext(ctx,
			`INSERT INTO orders (customer_id, order_number, status, subtotal, discount_amount, tax,
				total_amount, created_at, updated_at, version)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW(), 1)
			 RETURNING id, order_number, status, subtotal, discount_amount, tax, total_amount,
				created_at, updated_at, version`,
			customer.ID, generateOrderNumber(), models.OrderStatusPending,
			totals.subtotal, totals.discount, totals.tax, totals.total).Scan(
			&order.ID,
			&order.OrderNumber,
			&order.Status,
			&order.Subtotal,
			&order.DiscountAmount,
			&order.Tax,
			&order.TotalAmount,
			&order.CreatedAt,
			&order.UpdatedAt,
			&order.Version,
		)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for i := range lines {
			line := &lines[i]
			line.OrderID = order.ID
			err = tx.QueryRowContext(ctx,
				`INSERT INTO order_items (order_id, product_id, quantity, selected_color, selected_size,
					unit_price, discount_pct, subtotal, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
				 RETURNING id, created_at`,
				order.ID, line.ProductID, line.Quantity, line.SelectedColor, line.SelectedSize,
				line.UnitPrice, line.DiscountPct, line.Subtotal).Scan(&line.ID, &line.CreatedAt)
			if err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
		}

		for id, qty := range needed {
			if err := DecrementStock(ctx, tx, id, qty); err != nil {
				return err
			}
		}

		order.Items = lines
		return nil
	})

	if err != nil {
		if database.IsRetryable(err) {
			return nil, fmt.Errorf("%w: %v", database.ErrLockTimeout, err)
		}
		return nil, err
	}

	return order, nil
}

const orderColumns = `id, customer_id, order_number, status, subtotal, discount_amount, tax, total_amount,
		created_at, updated_at, version`

func scanOrder(row rowScanner) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(
		&order.ID,
		&order.CustomerID,
		&order.OrderNumber,
		&order.Status,
		&order.Subtotal,
		&order.DiscountAmount,
		&order.Tax,
		&order.TotalAmount,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.Version,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func GetOrder(ctx context.Context, db *sql.DB, id int64) (*models.Order, error) {
	order, err := scanOrder(db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, database.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, product_id, quantity, selected_color, selected_size,
			unit_price, discount_pct, subtotal, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`

	rows, err := db.QueryContext(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.SelectedColor,
			&item.SelectedSize,
			&item.UnitPrice,
			&item.DiscountPct,
			&item.Subtotal,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	order.Items = items

	return order, nil
}

// ListOrdersCursor pages a customer's orders newest first by keyset.
func ListOrdersCursor(ctx context.Context, db *sql.DB, customerID int64, cursor string, limit int) (*CursorPage, error) {
	cursorData, err := DecodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE customer_id = $1
		  AND (created_at, id) < ($2, $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4`

	rows, err := db.QueryContext(ctx, query, customerID, cursorData.CreatedAt, cursorData.ID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	hasMore := len(orders) > limit
	if hasMore {
		orders = orders[:limit]
	}

	var nextCursor string
	if hasMore && len(orders) > 0 {
		last := orders[len(orders)-1]
		nextCursor = EncodeCursor(Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &CursorPage{
		Items:      orders,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

// UpdateOrderStatus moves an order to status if version still matches.
func UpdateOrderStatus(ctx context.Context, db *sql.DB, id int64, status string, version int) error {
	switch status {
	case models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusShipped,
		models.OrderStatusDelivered, models.OrderStatusCancelled:
	default:
		return fmt.Errorf("%w: unknown order status %q", pricing.ErrInvalidInput, status)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE orders
		 SET status = $1, version = version + 1, updated_at = NOW()
		 WHERE id = $2 AND version = $3`,
		status, id, version)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return missingOrStale(ctx, db, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`,
			id, database.ErrOrderNotFound)
	}

	return nil
}
