package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/novamart/novamart-api/internal/domain/product"
)

type productRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	ImageURL      string          `json:"image_url"`
	CategoryID    *int64          `json:"category_id"`
	IsActive      *bool           `json:"is_active"`
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decode(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Price.IsZero() {
		respondMessage(w, http.StatusBadRequest, "name and price are required")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	p := &product.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
		CategoryID:    req.CategoryID,
		IsActive:      active,
	}
	if err := h.products.Create(r.Context(), p); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusCreated, "Product created successfully")
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, products)
}

func (h *Handler) searchProduct(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		respondMessage(w, http.StatusBadRequest, "Product name is required")
		return
	}
	p, err := h.products.GetByName(r.Context(), name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, p)
}

func (h *Handler) listActiveProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListActive(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, p)
}

type updateProductRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stock_quantity"`
	ImageURL      *string          `json:"image_url"`
	CategoryID    *int64           `json:"category_id"`
	IsActive      *bool            `json:"is_active"`
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	var req updateProductRequest
	if err := decode(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	upd := product.Update{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
		CategoryID:    req.CategoryID,
		IsActive:      req.IsActive,
	}
	if err := h.products.Update(r.Context(), id, upd); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Product updated successfully")
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	if err := h.products.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Product deleted successfully")
}

// reduceStock atomically decrements a product's stock. Concurrent calls
// against the same product serialize in the database; oversells come back
// as a conflict with the stored quantity untouched.
func (h *Handler) reduceStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decode(r, &req); err != nil || req.Quantity <= 0 {
		respondMessage(w, http.StatusBadRequest, "quantity must be greater than 0")
		return
	}
	if err := h.products.ReduceStock(r.Context(), id, req.Quantity); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Stock reduced successfully")
}

// productItems returns the line items that reference a product.
func (h *Handler) productItems(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "productId")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	items, err := h.items.ListByProduct(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if len(items) == 0 {
		respondMessage(w, http.StatusNotFound, "No order items found for this product")
		return
	}
	respondData(w, http.StatusOK, items)
}
