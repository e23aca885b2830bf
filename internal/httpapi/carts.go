package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/safar/promo-store/internal/cart"
	"go.uber.org/zap"
)

type cartView struct {
	ID    string      `json:"id"`
	Items []cart.Item `json:"items"`
	Count int         `json:"count"`
}

func viewCart(c *cart.Store) cartView {
	return cartView{ID: c.ID(), Items: c.Items(), Count: c.Count()}
}

func cartID(r *http.Request) (string, error) {
	return parseCartID(chi.URLParam(r, "id"))
}

func parseCartID(raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: cart id must be a uuid", errBadRequest)
	}
	return id.String(), nil
}

type cartItemRequest struct {
	ProductID     int64  `json:"product_id"`
	Quantity      int    `json:"quantity"`
	SelectedColor string `json:"selected_color"`
	SelectedSize  string `json:"selected_size"`
}

// CreateCart issues an id only; nothing is stored until the first item.
func (h *Handlers) CreateCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.Log, http.StatusCreated, cartView{ID: uuid.NewString(), Items: []cart.Item{}})
}

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	id, err := cartID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	respondJSON(w, h.Log, http.StatusOK, viewCart(h.openCart(r.Context(), id)))
}

func (h *Handlers) AddCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := cartID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}
	if req.Quantity < 1 {
		writeError(w, h.Log, cart.ErrInvalidQuantity)
		return
	}

	product, err := h.Products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	c := h.openCart(r.Context(), id)
	if err := c.Add(r.Context(), cart.NewItem(product, req.Quantity, req.SelectedColor, req.SelectedSize)); err != nil {
		writeError(w, h.Log, err)
		return
	}

	h.Log.Debug("cart item added",
		zap.String("cart_id", id),
		zap.Int64("product_id", product.ID),
		zap.Int("quantity", req.Quantity))

	respondJSON(w, h.Log, http.StatusOK, viewCart(c))
}

func (h *Handlers) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := cartID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}

	c := h.openCart(r.Context(), id)
	if err := c.Remove(r.Context(), req.ProductID, req.SelectedColor, req.SelectedSize); err != nil {
		writeError(w, h.Log, err)
		return
	}

	respondJSON(w, h.Log, http.StatusOK, viewCart(c))
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	id, err := cartID(r)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	c := h.openCart(r.Context(), id)
	if err := c.Clear(r.Context()); err != nil {
		writeError(w, h.Log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
