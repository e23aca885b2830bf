package httpapi

import (
	"net/http"

	"github.com/safar/promo-store/internal/database"
	"github.com/safar/promo-store/internal/store"
	"go.uber.org/zap"
)

// CreateOrder checks out a cart for a customer. The cart is cleared only
// after the order has been committed.
func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID int64  `json:"customer_id"`
		CartID     string `json:"cart_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}

	id, err := parseCartID(req.CartID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	c := h.openCart(r.Context(), id)
	if c.Count() == 0 {
		writeError(w, h.Log, database.ErrEmptyCart)
		return
	}

	items := make([]store.OrderItemRequest, 0, len(c.Items()))
	for _, it := range c.Items() {
		items = append(items, store.OrderItemRequest{
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			SelectedColor: it.SelectedColor,
			SelectedSize:  it.SelectedSize,
		})
	}

	order, err := h.Orders.CreateOrder(r.Context(), store.CreateOrderRequest{
		CustomerID: req.CustomerID,
		Items:      items,
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	if err := c.Clear(r.Context()); err != nil {
		h.Log.Warn("clear cart after checkout", zap.String("cart_id", id), zap.Error(err))
	}

	h.Log.Info("order created",
		zap.String("order_number", order.OrderNumber),
		zap.Int64("customer_id", order.CustomerID),
		zap.String("total", order.TotalAmount.StringFixed(2)))

	respondJSON(w, h.Log, http.StatusCreated, order)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	order, err := h.Orders.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	respondJSON(w, h.Log, http.StatusOK, order)
}

func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	var req struct {
		Status  string `json:"status"`
		Version int    `json:"version"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}

	if err := h.Orders.UpdateStatus(r.Context(), id, req.Status, req.Version); err != nil {
		writeError(w, h.Log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
