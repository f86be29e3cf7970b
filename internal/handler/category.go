package handler

import (
	"net/http"

	"github.com/novamart/novamart-api/internal/domain/category"
)

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decode(r, &req); err != nil || req.Name == "" {
		respondMessage(w, http.StatusBadRequest, "Category name is required")
		return
	}
	c := &category.Category{Name: req.Name, Description: req.Description}
	if err := h.categories.Create(r.Context(), c); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusCreated, "Category created successfully")
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, categories)
}

func (h *Handler) searchCategory(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		respondMessage(w, http.StatusBadRequest, "Category name is required")
		return
	}
	c, err := h.categories.GetByName(r.Context(), name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, c)
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid category ID")
		return
	}
	c, err := h.categories.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, c)
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid category ID")
		return
	}
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := decode(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	upd := category.Update{Name: req.Name, Description: req.Description}
	if err := h.categories.Update(r.Context(), id, upd); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Category updated successfully")
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid category ID")
		return
	}
	if err := h.categories.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Category deleted successfully")
}

// categoryProducts returns the category together with its products.
func (h *Handler) categoryProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid category ID")
		return
	}
	c, err := h.categories.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	products, err := h.products.ListByCategory(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{
		"category": c,
		"products": products,
	})
}
