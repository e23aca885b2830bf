package httpapi

import (
	"net/http"

	"github.com/safar/promo-store/internal/models"
	"github.com/safar/promo-store/internal/store"
)

func (h *Handlers) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req models.Customer
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}

	customer, err := h.Customers.CreateCustomer(r.Context(), &req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	respondJSON(w, h.Log, http.StatusCreated, customer)
}

func (h *Handlers) ListCustomers(w http.ResponseWriter, r *http.Request) {
	page, pageSize := store.NormalizePage(queryInt(r, "page"), queryInt(r, "page_size"))

	result, err := h.Customers.ListCustomers(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	respondJSON(w, h.Log, http.StatusOK, result)
}

func (h *Handlers) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	customer, err := h.Customers.GetCustomer(r.Context(), id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	respondJSON(w, h.Log, http.StatusOK, customer)
}

func (h *Handlers) ListCustomerOrders(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	if _, err := h.Customers.GetCustomer(r.Context(), id); err != nil {
		writeError(w, h.Log, err)
		return
	}

	_, limit := store.NormalizePage(1, queryInt(r, "limit"))

	result, err := h.Orders.ListOrders(r.Context(), id, r.URL.Query().Get("cursor"), limit)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	respondJSON(w, h.Log, http.StatusOK, result)
}
