package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/safar/promo-store/internal/database"
	"github.com/safar/promo-store/internal/models"
	"github.com/safar/promo-store/internal/pricing"
)

var ErrInvalidCustomer = errors.New("invalid customer")

const customerColumns = `id, company_name, contact_name, email, phone, address, rfc, business_type,
		created_at, updated_at, version`

func scanCustomer(row rowScanner) (*models.Customer, error) {
	c := &models.Customer{}
	err := row.Scan(
		&c.ID,
		&c.CompanyName,
		&c.ContactName,
		&c.Email,
		&c.Phone,
		&c.Address,
		&c.RFC,
		&c.BusinessType,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.Version,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateCustomer stores c. The business type is normalized so that orders
// priced for this customer always see a known value.
func CreateCustomer(ctx context.Context, db *sql.DB, c *models.Customer) (*models.Customer, error) {
	if strings.TrimSpace(c.CompanyName) == "" || strings.TrimSpace(c.Email) == "" {
		return nil, fmt.Errorf("%w: company_name and email are required", ErrInvalidCustomer)
	}

	query := `
		INSERT INTO customers (company_name, contact_name, email, phone, address, rfc, business_type,
			created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW(), 1)
		RETURNING ` + customerColumns

	created, err := scanCustomer(db.QueryRowContext(ctx, query,
		strings.TrimSpace(c.CompanyName),
		strings.TrimSpace(c.ContactName),
		strings.ToLower(strings.TrimSpace(c.Email)),
		strings.TrimSpace(c.Phone),
		strings.TrimSpace(c.Address),
		strings.ToUpper(strings.TrimSpace(c.RFC)),
		string(pricing.ParseBusinessType(c.BusinessType)),
	))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email already registered", ErrInvalidCustomer)
		}
		return nil, fmt.Errorf("create customer: %w", err)
	}

	return created, nil
}

func GetCustomer(ctx context.Context, db *sql.DB, id int64) (*models.Customer, error) {
	return getCustomer(ctx, db, id)
}

func getCustomer(ctx context.Context, q querier, id int64) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	customer, err := scanCustomer(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, database.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}

	return customer, nil
}

func ListCustomers(ctx context.Context, db *sql.DB, page, pageSize int) (*OffsetPage, error) {
	var total int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + customerColumns + `
		FROM customers
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, *customer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return newOffsetPage(customers, total, page, pageSize), nil
}
