package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/novamart/novamart-api/internal/domain/order"
)

type placeOrderItemRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type placeOrderRequest struct {
	UserID          int64                   `json:"user_id"`
	TotalAmount     decimal.Decimal         `json:"total_amount"`
	DeliveryMethod  order.DeliveryMethod    `json:"delivery_method"`
	DeliveryAddress string                  `json:"delivery_address"`
	Items           []placeOrderItemRequest `json:"orderItems"`
}

// placeOrder creates an order with its line items and returns the created
// order, generated identifier included.
func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decode(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]order.PlaceOrderItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = order.PlaceOrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		}
	}

	o, err := h.orderSvc.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		UserID:          req.UserID,
		TotalAmount:     req.TotalAmount,
		DeliveryMethod:  req.DeliveryMethod,
		DeliveryAddress: req.DeliveryAddress,
		Items:           items,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, o)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, orders)
}

func (h *Handler) listOrdersByStatus(w http.ResponseWriter, r *http.Request) {
	status := order.Status(r.URL.Query().Get("status"))
	if status == "" {
		respondMessage(w, http.StatusBadRequest, "Order status is required")
		return
	}
	if !status.Valid() {
		respondMessage(w, http.StatusBadRequest, "invalid status value")
		return
	}
	orders, err := h.orders.ListByStatus(r.Context(), status)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid order ID")
		return
	}
	o, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, o)
}

type updateOrderRequest struct {
	TotalAmount     *decimal.Decimal      `json:"total_amount"`
	Status          *order.Status         `json:"order_status"`
	PaymentStatus   *order.PaymentStatus  `json:"payment_status"`
	DeliveryMethod  *order.DeliveryMethod `json:"delivery_method"`
	DeliveryAddress *string               `json:"delivery_address"`
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid order ID")
		return
	}
	var req updateOrderRequest
	if err := decode(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		respondMessage(w, http.StatusBadRequest, "invalid status value")
		return
	}
	if req.PaymentStatus != nil && !req.PaymentStatus.Valid() {
		respondMessage(w, http.StatusBadRequest, "invalid status value")
		return
	}
	if req.DeliveryMethod != nil && !req.DeliveryMethod.Valid() {
		respondMessage(w, http.StatusBadRequest, "invalid delivery method")
		return
	}
	upd := order.Update{
		TotalAmount:     req.TotalAmount,
		Status:          req.Status,
		PaymentStatus:   req.PaymentStatus,
		DeliveryMethod:  req.DeliveryMethod,
		DeliveryAddress: req.DeliveryAddress,
	}
	if err := h.orders.Update(r.Context(), id, upd); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Order updated successfully")
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid order ID")
		return
	}
	if err := h.orders.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Order deleted successfully")
}

func (h *Handler) orderItems(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "orderId")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid order ID")
		return
	}
	items, err := h.items.ListByOrder(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if len(items) == 0 {
		respondMessage(w, http.StatusNotFound, "No order items found for this order")
		return
	}
	respondData(w, http.StatusOK, items)
}

func (h *Handler) orderItemSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "orderId")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid order ID")
		return
	}
	summary, err := h.reports.OrderItemSummary(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if summary.TotalItems == 0 {
		respondMessage(w, http.StatusNotFound, "No order items found for this order")
		return
	}
	respondData(w, http.StatusOK, summary)
}

// totalSales sums total_amount over orders whose payment_status is paid.
func (h *Handler) totalSales(w http.ResponseWriter, r *http.Request) {
	total, err := h.reports.TotalSales(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"total_sales": total})
}
