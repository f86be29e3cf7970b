package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/novamart/novamart-api/internal/auth"
	"github.com/novamart/novamart-api/internal/domain/category"
	"github.com/novamart/novamart-api/internal/domain/delivery"
	"github.com/novamart/novamart-api/internal/domain/order"
	"github.com/novamart/novamart-api/internal/domain/payment"
	"github.com/novamart/novamart-api/internal/domain/product"
	"github.com/novamart/novamart-api/internal/domain/user"
)

// Response envelope: success is {"message": ...} or {"data": ...}, client
// errors are {"message": ...}, server errors are {"error": ...}.

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respondData(w http.ResponseWriter, code int, data any) {
	respondJSON(w, code, map[string]any{"data": data})
}

func respondMessage(w http.ResponseWriter, code int, msg string) {
	respondJSON(w, code, map[string]string{"message": msg})
}

// respondError maps domain sentinels to their HTTP status. Anything
// unrecognized is a 500 whose envelope carries the raw error text.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, category.ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, order.ErrItemNotFound),
		errors.Is(err, payment.ErrNotFound),
		errors.Is(err, delivery.ErrNotFound):
		respondMessage(w, http.StatusNotFound, err.Error())

	case errors.Is(err, user.ErrDuplicateEmail),
		errors.Is(err, category.ErrDuplicateName),
		errors.Is(err, product.ErrDuplicateName),
		errors.Is(err, product.ErrInsufficientStock):
		respondMessage(w, http.StatusConflict, err.Error())

	case errors.Is(err, order.ErrInvalidReference),
		errors.Is(err, order.ErrUserIDRequired),
		errors.Is(err, order.ErrTotalAmountRequired),
		errors.Is(err, order.ErrInvalidStatus),
		errors.As(err, new(*order.InvalidQuantityError)):
		respondMessage(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, auth.ErrInvalidCredentials):
		respondMessage(w, http.StatusUnauthorized, err.Error())

	default:
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// pathID parses the named path segment as a positive integer ID.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
