package handler

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/novamart/novamart-api/internal/domain/payment"
)

type paymentRequest struct {
	OrderID       int64           `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        payment.Status  `json:"payment_status"`
	Method        string          `json:"payment_method"`
	TransactionID string          `json:"transaction_id"`
}

func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decode(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OrderID == 0 || req.Amount.IsZero() || req.Method == "" {
		respondMessage(w, http.StatusBadRequest, "order_id, amount, and payment_method are required")
		return
	}
	p := &payment.Payment{
		OrderID:       req.OrderID,
		Amount:        req.Amount,
		Status:        req.Status,
		Method:        req.Method,
		TransactionID: req.TransactionID,
	}
	if err := h.orderSvc.RecordPayment(r.Context(), p); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusCreated, "Payment created successfully")
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.payments.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, payments)
}

// queryOrderID parses the orderId query parameter.
func queryOrderID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get("orderId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *Handler) paymentsByOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := queryOrderID(r)
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid order ID")
		return
	}
	payments, err := h.payments.ListByOrder(r.Context(), orderID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if len(payments) == 0 {
		respondMessage(w, http.StatusNotFound, "No payments found for this order")
		return
	}
	respondData(w, http.StatusOK, payments)
}

func (h *Handler) paymentSummary(w http.ResponseWriter, r *http.Request) {
	orderID, ok := queryOrderID(r)
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid order ID")
		return
	}
	summary, err := h.reports.PaymentSummary(r.Context(), orderID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if summary == nil {
		respondMessage(w, http.StatusNotFound, "No payments found for this order")
		return
	}
	respondData(w, http.StatusOK, summary)
}

func (h *Handler) getPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}
	p, err := h.payments.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, p)
}

type updatePaymentRequest struct {
	Amount        *decimal.Decimal `json:"amount"`
	Status        *payment.Status  `json:"payment_status"`
	Method        *string          `json:"payment_method"`
	TransactionID *string          `json:"transaction_id"`
}

func (h *Handler) updatePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}
	var req updatePaymentRequest
	if err := decode(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		respondMessage(w, http.StatusBadRequest, "invalid status value")
		return
	}
	upd := payment.Update{
		Amount:        req.Amount,
		Status:        req.Status,
		Method:        req.Method,
		TransactionID: req.TransactionID,
	}
	if err := h.payments.Update(r.Context(), id, upd); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Payment updated successfully")
}

func (h *Handler) deletePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}
	if err := h.payments.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Payment deleted successfully")
}

func (h *Handler) updatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "paymentId")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}
	var req struct {
		Status payment.Status `json:"status"`
	}
	if err := decode(r, &req); err != nil || req.Status == "" {
		respondMessage(w, http.StatusBadRequest, "Payment status is required")
		return
	}
	if err := h.orderSvc.UpdatePaymentStatus(r.Context(), id, req.Status); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Payment status updated")
}
