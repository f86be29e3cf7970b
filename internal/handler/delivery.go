package handler

import (
	"net/http"
	"time"

	"github.com/novamart/novamart-api/internal/domain/delivery"
)

type deliveryRequest struct {
	OrderID     int64           `json:"order_id"`
	DriverName  string          `json:"driver_name"`
	DriverPhone string          `json:"driver_phone"`
	Status      delivery.Status `json:"delivery_status"`
}

func (h *Handler) createDelivery(w http.ResponseWriter, r *http.Request) {
	var req deliveryRequest
	if err := decode(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OrderID == 0 {
		respondMessage(w, http.StatusBadRequest, "order_id is required")
		return
	}
	d := &delivery.Delivery{
		OrderID:     req.OrderID,
		DriverName:  req.DriverName,
		DriverPhone: req.DriverPhone,
		Status:      req.Status,
	}
	if err := h.orderSvc.RecordDelivery(r.Context(), d); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusCreated, "Delivery created successfully")
}

func (h *Handler) listDeliveries(w http.ResponseWriter, r *http.Request) {
	deliveries, err := h.deliveries.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, deliveries)
}

func (h *Handler) deliveriesByOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "orderId")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid order ID")
		return
	}
	deliveries, err := h.deliveries.ListByOrder(r.Context(), orderID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if len(deliveries) == 0 {
		respondMessage(w, http.StatusNotFound, "No deliveries found for this order")
		return
	}
	respondData(w, http.StatusOK, deliveries)
}

func (h *Handler) deliverySummary(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "orderId")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid order ID")
		return
	}
	summary, err := h.reports.DeliverySummary(r.Context(), orderID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if summary.TotalDeliveries == 0 {
		respondMessage(w, http.StatusNotFound, "No deliveries found for this order")
		return
	}
	respondData(w, http.StatusOK, summary)
}

func (h *Handler) getDelivery(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid delivery ID")
		return
	}
	d, err := h.deliveries.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, d)
}

type updateDeliveryRequest struct {
	DriverName   *string          `json:"driver_name"`
	DriverPhone  *string          `json:"driver_phone"`
	Status       *delivery.Status `json:"delivery_status"`
	DeliveryDate *time.Time       `json:"delivery_date"`
}

func (h *Handler) updateDelivery(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid delivery ID")
		return
	}
	var req updateDeliveryRequest
	if err := decode(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		respondMessage(w, http.StatusBadRequest, "invalid status value")
		return
	}
	upd := delivery.Update{
		DriverName:   req.DriverName,
		DriverPhone:  req.DriverPhone,
		Status:       req.Status,
		DeliveryDate: req.DeliveryDate,
	}
	if err := h.deliveries.Update(r.Context(), id, upd); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Delivery updated successfully")
}

func (h *Handler) deleteDelivery(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid delivery ID")
		return
	}
	if err := h.deliveries.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Delivery deleted successfully")
}

func (h *Handler) updateDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "deliveryId")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid delivery ID")
		return
	}
	var req struct {
		Status delivery.Status `json:"status"`
	}
	if err := decode(r, &req); err != nil || req.Status == "" {
		respondMessage(w, http.StatusBadRequest, "Delivery status is required")
		return
	}
	if err := h.orderSvc.UpdateDeliveryStatus(r.Context(), id, req.Status); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Delivery status updated")
}
