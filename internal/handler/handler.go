// Package handler exposes the REST API. It owns request decoding, the JSON
// response envelope, and mapping domain errors to HTTP statuses; business
// rules stay in the domain packages.
package handler

import (
	"net/http"

	"github.com/novamart/novamart-api/internal/auth"
	"github.com/novamart/novamart-api/internal/domain/category"
	"github.com/novamart/novamart-api/internal/domain/delivery"
	"github.com/novamart/novamart-api/internal/domain/order"
	"github.com/novamart/novamart-api/internal/domain/payment"
	"github.com/novamart/novamart-api/internal/domain/product"
	"github.com/novamart/novamart-api/internal/domain/report"
	"github.com/novamart/novamart-api/internal/domain/user"
)

// Handler serves the API, delegating business logic to the injected domain
// repositories and the order lifecycle service.
type Handler struct {
	users      user.Repository
	categories category.Repository
	products   product.Repository
	orders     order.Repository
	items      order.ItemRepository
	payments   payment.Repository
	deliveries delivery.Repository
	reports    report.Repository
	orderSvc   *order.Service
	tokens     *auth.Manager
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	users user.Repository,
	categories category.Repository,
	products product.Repository,
	orders order.Repository,
	items order.ItemRepository,
	payments payment.Repository,
	deliveries delivery.Repository,
	reports report.Repository,
	orderSvc *order.Service,
	tokens *auth.Manager,
) *Handler {
	return &Handler{
		users:      users,
		categories: categories,
		products:   products,
		orders:     orders,
		items:      items,
		payments:   payments,
		deliveries: deliveries,
		reports:    reports,
		orderSvc:   orderSvc,
		tokens:     tokens,
	}
}

// Routes registers every API route on mux. Reads are public; mutations
// require a bearer token, with catalog and account administration limited
// to the admin role and delivery status updates open to dispatch staff.
func (h *Handler) Routes(mux *http.ServeMux) {
	admin := h.tokens.Middleware(user.RoleAdmin)
	dispatch := h.tokens.Middleware(user.RoleAdmin, user.RoleDelivery)
	authed := h.tokens.Middleware(auth.RoleAny)

	// Auth.
	mux.HandleFunc("POST /api/auth/register", h.register)
	mux.HandleFunc("POST /api/auth/login", h.login)
	mux.HandleFunc("POST /api/auth/verify", h.verify)

	// Users.
	mux.Handle("GET /api/users", admin(http.HandlerFunc(h.listUsers)))
	mux.HandleFunc("GET /api/users/{id}", h.getUser)
	mux.Handle("PUT /api/users/{id}", authed(http.HandlerFunc(h.updateUser)))
	mux.Handle("DELETE /api/users/{id}", admin(http.HandlerFunc(h.deleteUser)))
	mux.HandleFunc("GET /api/users/{id}/orders", h.userOrders)
	mux.HandleFunc("GET /api/users/{id}/payments", h.userPayments)
	mux.HandleFunc("GET /api/users/{id}/details", h.userDetails)

	// Categories.
	mux.Handle("POST /api/categories", admin(http.HandlerFunc(h.createCategory)))
	mux.HandleFunc("GET /api/categories", h.listCategories)
	mux.HandleFunc("GET /api/categories/search", h.searchCategory)
	mux.HandleFunc("GET /api/categories/{id}", h.getCategory)
	mux.Handle("PUT /api/categories/{id}", admin(http.HandlerFunc(h.updateCategory)))
	mux.Handle("DELETE /api/categories/{id}", admin(http.HandlerFunc(h.deleteCategory)))
	mux.HandleFunc("GET /api/categories/{id}/products", h.categoryProducts)

	// Products.
	mux.Handle("POST /api/products", admin(http.HandlerFunc(h.createProduct)))
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/products/search", h.searchProduct)
	mux.HandleFunc("GET /api/products/active", h.listActiveProducts)
	mux.HandleFunc("GET /api/products/{id}", h.getProduct)
	mux.Handle("PUT /api/products/{id}", admin(http.HandlerFunc(h.updateProduct)))
	mux.Handle("DELETE /api/products/{id}", admin(http.HandlerFunc(h.deleteProduct)))
	mux.Handle("POST /api/products/{id}/reduce-stock", authed(http.HandlerFunc(h.reduceStock)))
	mux.HandleFunc("GET /api/products/{productId}/items", h.productItems)

	// Orders.
	mux.Handle("POST /api/orders", authed(http.HandlerFunc(h.placeOrder)))
	mux.HandleFunc("GET /api/orders", h.listOrders)
	mux.HandleFunc("GET /api/orders/status", h.listOrdersByStatus)
	mux.HandleFunc("GET /api/orders/summary/sales", h.totalSales)
	mux.HandleFunc("GET /api/orders/{id}", h.getOrder)
	mux.Handle("PUT /api/orders/{id}", authed(http.HandlerFunc(h.updateOrder)))
	mux.Handle("DELETE /api/orders/{id}", admin(http.HandlerFunc(h.deleteOrder)))
	mux.HandleFunc("GET /api/orders/{orderId}/items", h.orderItems)
	mux.HandleFunc("GET /api/orders/{orderId}/items/summary", h.orderItemSummary)

	// Order items.
	mux.Handle("POST /api/order-items", authed(http.HandlerFunc(h.createOrderItem)))
	mux.HandleFunc("GET /api/order-items", h.listOrderItems)
	mux.HandleFunc("GET /api/order-items/{id}", h.getOrderItem)
	mux.Handle("PUT /api/order-items/{id}", authed(http.HandlerFunc(h.updateOrderItem)))
	mux.Handle("DELETE /api/order-items/{id}", authed(http.HandlerFunc(h.deleteOrderItem)))

	// Payments.
	mux.Handle("POST /api/payments", authed(http.HandlerFunc(h.createPayment)))
	mux.HandleFunc("GET /api/payments", h.listPayments)
	mux.HandleFunc("GET /api/payments/by-order", h.paymentsByOrder)
	mux.HandleFunc("GET /api/payments/summary", h.paymentSummary)
	mux.HandleFunc("GET /api/payments/{id}", h.getPayment)
	mux.Handle("PUT /api/payments/{id}", authed(http.HandlerFunc(h.updatePayment)))
	mux.Handle("DELETE /api/payments/{id}", admin(http.HandlerFunc(h.deletePayment)))
	mux.Handle("PUT /api/payments/{paymentId}/status", authed(http.HandlerFunc(h.updatePaymentStatus)))

	// Deliveries.
	mux.Handle("POST /api/deliveries", dispatch(http.HandlerFunc(h.createDelivery)))
	mux.HandleFunc("GET /api/deliveries", h.listDeliveries)
	mux.HandleFunc("GET /api/deliveries/order/{orderId}", h.deliveriesByOrder)
	mux.HandleFunc("GET /api/deliveries/order/{orderId}/summary", h.deliverySummary)
	mux.HandleFunc("GET /api/deliveries/{id}", h.getDelivery)
	mux.Handle("PUT /api/deliveries/{id}", dispatch(http.HandlerFunc(h.updateDelivery)))
	mux.Handle("DELETE /api/deliveries/{id}", admin(http.HandlerFunc(h.deleteDelivery)))
	mux.Handle("PUT /api/deliveries/{deliveryId}/status", dispatch(http.HandlerFunc(h.updateDeliveryStatus)))
}
