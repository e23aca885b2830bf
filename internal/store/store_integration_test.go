//go:build integration

package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/safar/promo-store/internal/catalog"
	"github.com/safar/promo-store/internal/database"
	"github.com/safar/promo-store/internal/models"
	"github.com/safar/promo-store/internal/store"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newProduct(sku string, stock int) *models.Product {
	return &models.Product{
		SKU:       sku,
		Name:      "Producto " + sku,
		Category:  "bebidas",
		Supplier:  "Promo Line",
		BasePrice: dec("299"),
		Stock:     stock,
		Colors:    []string{"Negro", "Plata"},
		PriceBreaks: []models.PriceBreak{
			{MinQty: 10, Price: dec("270")},
			{MinQty: 50, Price: dec("250")},
		},
	}
}

func TestCreateAndGetProduct(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	created, err := store.CreateProduct(ctx, db, newProduct("TERM-500", 40))
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}

	got, err := store.GetProduct(ctx, db, created.ID)
	if err != nil {
		t.Fatalf("Get product: %v", err)
	}

	if len(got.PriceBreaks) != 2 || got.PriceBreaks[0].MinQty != 10 || !got.PriceBreaks[1].Price.Equal(dec("250")) {
		t.Errorf("Unexpected price breaks: %+v", got.PriceBreaks)
	}
	if len(got.Colors) != 2 || got.Status != models.ProductStatusActive {
		t.Errorf("Unexpected product: %+v", got)
	}

	_, err = store.CreateProduct(ctx, db, newProduct("TERM-500", 1))
	if !errors.Is(err, database.ErrDuplicateSKU) {
		t.Errorf("Expected duplicate sku error, got: %v", err)
	}

	_, err = store.GetProduct(ctx, db, created.ID+1000)
	if !errors.Is(err, database.ErrProductNotFound) {
		t.Errorf("Expected product not found, got: %v", err)
	}
}

func TestListProductsFilter(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	for i, price := range []string{"50", "120", "299"} {
		p := newProduct(fmt.Sprintf("LIST-%d", i), 10*i)
		p.BasePrice = dec(price)
		p.PriceBreaks = nil
		if i == 2 {
			p.Category = "textil"
		}
		if _, err := store.CreateProduct(ctx, db, p); err != nil {
			t.Fatalf("Create product: %v", err)
		}
	}

	lo, hi := dec("100"), dec("1000")
	page, err := store.ListProducts(ctx, db, catalog.Filter{MinPrice: &lo, MaxPrice: &hi, SortBy: catalog.SortByPrice}, 1, 20)
	if err != nil {
		t.Fatalf("List products: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("Expected 2 products in range, got %d", page.Total)
	}

	page, err = store.ListProducts(ctx, db, catalog.Filter{Category: "textil", Search: "list"}, 1, 20)
	if err != nil {
		t.Fatalf("List products: %v", err)
	}
	products := page.Items.([]models.Product)
	if len(products) != 1 || products[0].SKU != "LIST-2" {
		t.Errorf("Unexpected filter result: %+v", products)
	}
}

func TestOptimisticStockUpdate(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	product, err := store.CreateProduct(ctx, db, newProduct("OPT-1", 50))
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}

	if err := store.UpdateStockOptimistic(ctx, db, product.ID, 45, product.Version); err != nil {
		t.Fatalf("First update should succeed: %v", err)
	}

	err = store.UpdateStockOptimistic(ctx, db, product.ID, 40, product.Version)
	if !errors.Is(err, database.ErrOptimisticLockFailed) {
		t.Errorf("Expected optimistic lock failure, got: %v", err)
	}

	err = store.UpdateStockOptimistic(ctx, db, product.ID+1000, 40, 1)
	if !errors.Is(err, database.ErrProductNotFound) {
		t.Errorf("Expected product not found for unknown id, got: %v", err)
	}
}

func TestCreateOrderPricesFromCatalog(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	customer, err := store.CreateCustomer(ctx, db, &models.Customer{
		CompanyName:  "Acme SA de CV",
		ContactName:  "Laura Pérez",
		Email:        "compras@acme.mx",
		BusinessType: "Empresa",
	})
	if err != nil {
		t.Fatalf("Create customer: %v", err)
	}
	if customer.BusinessType != "empresa" {
		t.Errorf("Business type should be normalized, got %q", customer.BusinessType)
	}

	product, err := store.CreateProduct(ctx, db, newProduct("ORD-P1", 100))
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}

	order, err := store.CreateOrder(ctx, db, store.CreateOrderRequest{
		CustomerID: customer.ID,
		Items:      []store.OrderItemRequest{{ProductID: product.ID, Quantity: 25, SelectedColor: "Negro"}},
	})
	if err != nil {
		t.Fatalf("Create order: %v", err)
	}

	// 25 x 270 = 6750, 12% off = 810, tax on 5940 = 950.40
	if !order.Subtotal.Equal(dec("6750")) || !order.DiscountAmount.Equal(dec("810")) ||
		!order.Tax.Equal(dec("950.40")) || !order.TotalAmount.Equal(dec("6890.40")) {
		t.Errorf("Unexpected totals: %s %s %s %s", order.Subtotal, order.DiscountAmount, order.Tax, order.TotalAmount)
	}

	got, err := store.GetOrder(ctx, db, order.ID)
	if err != nil {
		t.Fatalf("Get order: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].SelectedColor != "Negro" || got.Items[0].DiscountPct != 12 {
		t.Errorf("Unexpected items: %+v", got.Items)
	}

	after, err := store.GetProduct(ctx, db, product.ID)
	if err != nil {
		t.Fatalf("Get product: %v", err)
	}
	if after.Stock != 75 {
		t.Errorf("Expected stock 75, got %d", after.Stock)
	}
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	customer, err := store.CreateCustomer(ctx, db, &models.Customer{CompanyName: "Beta", Email: "beta@example.com"})
	if err != nil {
		t.Fatalf("Create customer: %v", err)
	}

	product, err := store.CreateProduct(ctx, db, newProduct("ORD-P2", 5))
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}

	// Two variants of the same product together exceed the stock.
	_, err = store.CreateOrder(ctx, db, store.CreateOrderRequest{
		CustomerID: customer.ID,
		Items: []store.OrderItemRequest{
			{ProductID: product.ID, Quantity: 3, SelectedColor: "Negro"},
			{ProductID: product.ID, Quantity: 3, SelectedColor: "Plata"},
		},
	})
	if !errors.Is(err, database.ErrInsufficientStock) {
		t.Errorf("Expected insufficient stock error, got: %v", err)
	}

	after, err := store.GetProduct(ctx, db, product.ID)
	if err != nil {
		t.Fatalf("Get product: %v", err)
	}
	if after.Stock != 5 {
		t.Errorf("Stock should remain unchanged at 5, got %d", after.Stock)
	}

	_, err = store.CreateOrder(ctx, db, store.CreateOrderRequest{CustomerID: customer.ID})
	if !errors.Is(err, database.ErrEmptyCart) {
		t.Errorf("Expected empty cart error, got: %v", err)
	}

	_, err = store.CreateOrder(ctx, db, store.CreateOrderRequest{
		CustomerID: customer.ID + 100,
		Items:      []store.OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	if !errors.Is(err, database.ErrCustomerNotFound) {
		t.Errorf("Expected customer not found, got: %v", err)
	}
}

func TestConcurrentOrderCreation(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	customer, err := store.CreateCustomer(ctx, db, &models.Customer{CompanyName: "Gamma", Email: "gamma@example.com"})
	if err != nil {
		t.Fatalf("Create customer: %v", err)
	}

	product, err := store.CreateProduct(ctx, db, newProduct("ORD-P3", 20))
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}

	concurrency := 10
	var wg sync.WaitGroup
	results := make(chan error, concurrency)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := store.CreateOrder(ctx, db, store.CreateOrderRequest{
				CustomerID: customer.ID,
				Items:      []store.OrderItemRequest{{ProductID: product.ID, Quantity: 2}},
			})
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	successCount := 0
	for err := range results {
		switch {
		case err == nil:
			successCount++
		case errors.Is(err, database.ErrLockTimeout):
		default:
			t.Errorf("Unexpected error: %v", err)
		}
	}

	if successCount == 0 {
		t.Fatal("Expected at least one order to succeed")
	}

	after, err := store.GetProduct(ctx, db, product.ID)
	if err != nil {
		t.Fatalf("Get product: %v", err)
	}

	expectedStock := 20 - successCount*2
	if after.Stock != expectedStock {
		t.Errorf("Expected final stock %d, got %d", expectedStock, after.Stock)
	}
}

func TestListOrdersCursor(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	customer, err := store.CreateCustomer(ctx, db, &models.Customer{CompanyName: "Delta", Email: "delta@example.com"})
	if err != nil {
		t.Fatalf("Create customer: %v", err)
	}

	product, err := store.CreateProduct(ctx, db, newProduct("ORD-P4", 100))
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}

	for i := 0; i < 15; i++ {
		_, err := store.CreateOrder(ctx, db, store.CreateOrderRequest{
			CustomerID: customer.ID,
			Items:      []store.OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		})
		if err != nil {
			t.Fatalf("Create order %d: %v", i, err)
		}
	}

	seen := make(map[int64]bool)
	cursor := ""
	for pages := 0; ; pages++ {
		if pages > 3 {
			t.Fatal("Too many pages")
		}

		page, err := store.ListOrdersCursor(ctx, db, customer.ID, cursor, 10)
		if err != nil {
			t.Fatalf("List orders: %v", err)
		}

		for _, o := range page.Items.([]models.Order) {
			if seen[o.ID] {
				t.Errorf("Order %d returned twice", o.ID)
			}
			seen[o.ID] = true
		}

		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}

	if len(seen) != 15 {
		t.Errorf("Expected 15 orders, got %d", len(seen))
	}
}
