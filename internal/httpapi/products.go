package httpapi

import (
	"fmt"
	"net/http"

	"github.com/safar/promo-store/internal/catalog"
	"github.com/safar/promo-store/internal/models"
	"github.com/safar/promo-store/internal/store"
	"github.com/shopspring/decimal"
)

type productView struct {
	*models.Product
	StockStatus    catalog.StockLevel `json:"stock_status"`
	StatusLabel    string             `json:"status_label"`
	BestBreakPrice *decimal.Decimal   `json:"best_break_price,omitempty"`
}

func newProductView(p *models.Product) productView {
	v := productView{
		Product:     p,
		StockStatus: catalog.StockStatus(p.Stock),
		StatusLabel: catalog.StatusLabel(p.Status),
	}
	if price, ok := catalog.BestBreakPrice(p); ok {
		v.BestBreakPrice = &price
	}
	return v
}

func queryDecimal(r *http.Request, name string) (*decimal.Decimal, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", errBadRequest, name)
	}
	return &v, nil
}

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	minPrice, err := queryDecimal(r, "min_price")
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	maxPrice, err := queryDecimal(r, "max_price")
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	filter := catalog.Filter{
		Category: q.Get("category"),
		Search:   q.Get("q"),
		Supplier: q.Get("supplier"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		SortBy:   q.Get("sort"),
	}
	page, pageSize := store.NormalizePage(queryInt(r, "page"), queryInt(r, "page_size"))

	result, err := h.Products.ListProducts(r.Context(), filter, page, pageSize)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	if products, ok := result.Items.([]models.Product); ok {
		views := make([]productView, 0, len(products))
		for i := range products {
			views = append(views, newProductView(&products[i]))
		}
		result.Items = views
	}

	respondJSON(w, h.Log, http.StatusOK, result)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	product, err := h.Products.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	respondJSON(w, h.Log, http.StatusOK, newProductView(product))
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.Product
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}

	product, err := h.Products.CreateProduct(r.Context(), &req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	respondJSON(w, h.Log, http.StatusCreated, newProductView(product))
}

func (h *Handlers) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	var req struct {
		Stock   int `json:"stock"`
		Version int `json:"version"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}

	if err := h.Products.UpdateStock(r.Context(), id, req.Stock, req.Version); err != nil {
		writeError(w, h.Log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
