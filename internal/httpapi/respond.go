package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/safar/promo-store/internal/cart"
	"github.com/safar/promo-store/internal/catalog"
	"github.com/safar/promo-store/internal/database"
	"github.com/safar/promo-store/internal/export"
	"github.com/safar/promo-store/internal/pricing"
	"github.com/safar/promo-store/internal/quotation"
	"github.com/safar/promo-store/internal/store"
	"go.uber.org/zap"
)

var errBadRequest = errors.New("invalid request")

func respondJSON(w http.ResponseWriter, log *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, log *zap.Logger, status int, message string) {
	respondJSON(w, log, status, map[string]string{"error": message})
}

// writeError maps domain errors to HTTP statuses. Unrecognized errors are
// logged and reported as a generic 500.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	var fieldErrs quotation.FieldErrors
	if errors.As(err, &fieldErrs) {
		respondJSON(w, log, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "invalid form",
			"fields": fieldErrs,
		})
		return
	}

	switch {
	case errors.Is(err, pricing.ErrMissingProduct):
		respondError(w, log, http.StatusNotFound, pricing.ErrMissingProduct.Error())
	case errors.Is(err, database.ErrProductNotFound),
		errors.Is(err, database.ErrCustomerNotFound),
		errors.Is(err, database.ErrOrderNotFound):
		respondError(w, log, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrInsufficientStock),
		errors.Is(err, database.ErrLockTimeout),
		errors.Is(err, database.ErrOptimisticLockFailed),
		errors.Is(err, database.ErrDuplicateSKU):
		respondError(w, log, http.StatusConflict, err.Error())
	case errors.Is(err, pricing.ErrInvalidInput),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, catalog.ErrInvalidProduct),
		errors.Is(err, store.ErrInvalidCustomer),
		errors.Is(err, store.ErrInvalidCursor),
		errors.Is(err, database.ErrEmptyCart),
		errors.Is(err, export.ErrUnknownFormat),
		errors.Is(err, errBadRequest):
		respondError(w, log, http.StatusBadRequest, err.Error())
	default:
		log.Error("request failed", zap.Error(err))
		respondError(w, log, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: body: %v", errBadRequest, err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", errBadRequest, name)
	}
	return id, nil
}

func queryInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(name))
	return n
}
