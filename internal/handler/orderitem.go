package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/novamart/novamart-api/internal/domain/order"
)

type orderItemRequest struct {
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

func (h *Handler) createOrderItem(w http.ResponseWriter, r *http.Request) {
	var req orderItemRequest
	if err := decode(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OrderID == 0 || req.ProductID == 0 || req.Quantity <= 0 || req.Price.IsZero() {
		respondMessage(w, http.StatusBadRequest, "All fields are required")
		return
	}
	it := &order.Item{
		OrderID:   req.OrderID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Price:     req.Price,
	}
	if err := h.items.Create(r.Context(), it); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusCreated, "Order item created successfully")
}

func (h *Handler) listOrderItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, items)
}

func (h *Handler) getOrderItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid order item ID")
		return
	}
	it, err := h.items.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, it)
}

func (h *Handler) updateOrderItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid order item ID")
		return
	}
	var req struct {
		Quantity *int             `json:"quantity"`
		Price    *decimal.Decimal `json:"price"`
	}
	if err := decode(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity != nil && *req.Quantity <= 0 {
		respondMessage(w, http.StatusBadRequest, "quantity must be greater than 0")
		return
	}
	upd := order.ItemUpdate{Quantity: req.Quantity, Price: req.Price}
	if err := h.items.Update(r.Context(), id, upd); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Order item updated successfully")
}

func (h *Handler) deleteOrderItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid order item ID")
		return
	}
	if err := h.items.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Order item deleted successfully")
}
