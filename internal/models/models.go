package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PriceBreak struct {
	MinQty int             `json:"min_qty" yaml:"minQty"`
	Price  decimal.Decimal `json:"price" yaml:"price"`
}

type Product struct {
	ID          int64           `json:"id" yaml:"id"`
	SKU         string          `json:"sku" yaml:"sku"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description"`
	Category    string          `json:"category" yaml:"category"`
	Supplier    string          `json:"supplier" yaml:"supplier"`
	Status      string          `json:"status" yaml:"status"`
	BasePrice   decimal.Decimal `json:"base_price" yaml:"basePrice"`
	Stock       int             `json:"stock" yaml:"stock"`
	PriceBreaks []PriceBreak    `json:"price_breaks,omitempty" yaml:"priceBreaks"`
	Colors      []string        `json:"colors,omitempty" yaml:"colors"`
	Sizes       []string        `json:"sizes,omitempty" yaml:"sizes"`
	Features    []string        `json:"features,omitempty" yaml:"features"`
	CreatedAt   time.Time       `json:"created_at" yaml:"-"`
	UpdatedAt   time.Time       `json:"updated_at" yaml:"-"`
	Version     int             `json:"version" yaml:"-"`
}

const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
	ProductStatusPending  = "pending"
)

type Customer struct {
	ID           int64     `json:"id"`
	CompanyName  string    `json:"company_name"`
	ContactName  string    `json:"contact_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	RFC          string    `json:"rfc,omitempty"`
	BusinessType string    `json:"business_type"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

type Order struct {
	ID             int64           `json:"id"`
	CustomerID     int64           `json:"customer_id"`
	OrderNumber    string          `json:"order_number"`
	Status         string          `json:"status"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Tax            decimal.Decimal `json:"tax"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
	Items          []OrderItem     `json:"items,omitempty"`
}

type OrderItem struct {
	ID            int64           `json:"id"`
	OrderID       int64           `json:"order_id"`
	ProductID     int64           `json:"product_id"`
	Quantity      int             `json:"quantity"`
	SelectedColor string          `json:"selected_color,omitempty"`
	SelectedSize  string          `json:"selected_size,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	DiscountPct   int             `json:"discount_pct"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	CreatedAt     time.Time       `json:"created_at"`
}

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)
