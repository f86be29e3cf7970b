package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/novamart/novamart-api/internal/auth"
	"github.com/novamart/novamart-api/internal/domain/payment"
	"github.com/novamart/novamart-api/internal/domain/user"
)

type registerRequest struct {
	Firstname    string    `json:"firstname"`
	Lastname     string    `json:"lastname"`
	Email        string    `json:"email"`
	Password     string    `json:"password"`
	ContactPhone string    `json:"contact_phone"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	Role         user.Role `json:"role"`
	ImageURL     string    `json:"image_url"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Firstname == "" || req.Lastname == "" || req.Email == "" || req.Password == "" {
		respondMessage(w, http.StatusBadRequest, "firstname, lastname, email and password are required")
		return
	}

	role := req.Role
	if role == "" {
		role = user.RoleUser
	}
	if !role.Valid() {
		respondMessage(w, http.StatusBadRequest, "invalid role")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	u := &user.User{
		Firstname:    req.Firstname,
		Lastname:     req.Lastname,
		Email:        req.Email,
		Password:     hash,
		ContactPhone: req.ContactPhone,
		Address:      req.Address,
		City:         req.City,
		Role:         role,
		ImageURL:     req.ImageURL,
	}
	if err := h.users.Create(r.Context(), u); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusCreated, "User created successfully")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil || req.Email == "" || req.Password == "" {
		respondMessage(w, http.StatusBadRequest, "email and password are required")
		return
	}

	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := auth.CheckPassword(u.Password, req.Password); err != nil {
		respondError(w, r, err)
		return
	}

	token, err := h.tokens.IssueToken(u)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    u,
	})
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decode(r, &req); err != nil || req.Email == "" {
		respondMessage(w, http.StatusBadRequest, "email is required")
		return
	}
	if err := h.users.SetVerified(r.Context(), req.Email); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "User verified successfully")
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, users)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	u, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, u)
}

type updateUserRequest struct {
	Firstname    *string `json:"firstname"`
	Lastname     *string `json:"lastname"`
	ContactPhone *string `json:"contact_phone"`
	Address      *string `json:"address"`
	City         *string `json:"city"`
	ImageURL     *string `json:"image_url"`
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	var req updateUserRequest
	if err := decode(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	upd := user.Update{
		Firstname:    req.Firstname,
		Lastname:     req.Lastname,
		ContactPhone: req.ContactPhone,
		Address:      req.Address,
		City:         req.City,
		ImageURL:     req.ImageURL,
	}
	if err := h.users.Update(r.Context(), id, upd); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "User updated successfully")
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "User deleted successfully")
}

// userOrders returns the user together with their orders.
func (h *Handler) userOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	u, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	orders, err := h.orders.ListByUser(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{
		"user":   u,
		"orders": orders,
	})
}

// userPayments returns the user together with the payments made against any
// of their orders.
func (h *Handler) userPayments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	u, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	orders, err := h.orders.ListByUser(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	payments := make([]payment.Payment, 0)
	for _, o := range orders {
		payments = append(payments, o.Payments...)
	}
	respondData(w, http.StatusOK, map[string]any{
		"user":     u,
		"payments": payments,
	})
}

// userDetails returns the user with orders fully expanded: items, payments,
// and deliveries.
func (h *Handler) userDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	u, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondMessage(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, r, err)
		return
	}
	orders, err := h.orders.ListByUser(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{
		"user":   u,
		"orders": orders,
	})
}
