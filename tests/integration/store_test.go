//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/novamart/novamart-api/internal/domain/category"
	"github.com/novamart/novamart-api/internal/domain/delivery"
	"github.com/novamart/novamart-api/internal/domain/order"
	"github.com/novamart/novamart-api/internal/domain/payment"
	"github.com/novamart/novamart-api/internal/domain/product"
	"github.com/novamart/novamart-api/internal/domain/user"
	"github.com/novamart/novamart-api/internal/repository"
)

func createTestUser(t *testing.T, ctx context.Context, users *repository.UserRepository, email string) int64 {
	t.Helper()
	u := &user.User{
		Firstname: "Test",
		Lastname:  "User",
		Email:     email,
		Password:  "not-a-real-hash",
		Role:      user.RoleUser,
	}
	require.NoError(t, users.Create(ctx, u))
	return u.ID
}

// TestOrderFulfillmentFlow walks the storefront path: category, product,
// order with one line item, then an explicit stock reduction.
func TestOrderFulfillmentFlow(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	users := repository.NewUserRepository(pool)
	categories := repository.NewCategoryRepository(pool)
	products := repository.NewProductRepository(pool)
	orders := repository.NewOrderRepository(pool)

	userID := createTestUser(t, ctx, users, "buyer@example.com")

	c := &category.Category{Name: "Beverages", Description: "Drinks"}
	require.NoError(t, categories.Create(ctx, c))

	p := &product.Product{
		Name:          "Green Tea",
		Price:         decimal.RequireFromString("4.50"),
		StockQuantity: 10,
		CategoryID:    &c.ID,
		IsActive:      true,
	}
	require.NoError(t, products.Create(ctx, p))

	svc := order.NewService(orders,
		repository.NewPaymentRepository(pool),
		repository.NewDeliveryRepository(pool))

	o, err := svc.PlaceOrder(ctx, order.PlaceOrderRequest{
		UserID:      userID,
		TotalAmount: decimal.RequireFromString("9.00"),
		Items: []order.PlaceOrderItem{
			{ProductID: p.ID, Quantity: 2, Price: p.Price},
		},
	})
	require.NoError(t, err)
	require.NotZero(t, o.ID)
	assert.Equal(t, order.StatusPending, o.Status)

	// Stock is untouched by order placement; the reduction is explicit.
	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.StockQuantity)

	require.NoError(t, products.ReduceStock(ctx, p.ID, 2))
	got, err = products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.StockQuantity)

	// An oversell leaves the quantity unchanged.
	err = products.ReduceStock(ctx, p.ID, 9)
	assert.ErrorIs(t, err, product.ErrInsufficientStock)
	got, err = products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.StockQuantity)

	// Expanded read carries the nested user, item, and product snapshot.
	full, err := orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, full.User)
	assert.Equal(t, "buyer@example.com", full.User.Email)
	require.Len(t, full.Items, 1)
	require.NotNil(t, full.Items[0].Product)
	assert.Equal(t, "Green Tea", full.Items[0].Product.Name)
}

// TestReduceStock_Concurrent races two reductions that cannot both fit.
// Exactly one wins and stock never goes negative.
func TestReduceStock_Concurrent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	products := repository.NewProductRepository(pool)
	p := &product.Product{
		Name:          "Limited Widget",
		Price:         decimal.RequireFromString("10.00"),
		StockQuantity: 8,
		IsActive:      true,
	}
	require.NoError(t, products.Create(ctx, p))

	var g errgroup.Group
	results := make([]error, 2)
	for i := range results {
		g.Go(func() error {
			results[i] = products.ReduceStock(ctx, p.ID, 6)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var failed int
	for _, err := range results {
		if err != nil {
			assert.ErrorIs(t, err, product.ErrInsufficientStock)
			failed++
		}
	}
	assert.Equal(t, 1, failed, "exactly one reduction must lose the race")

	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.StockQuantity)
}

func TestCategoryDuplicateName(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	categories := repository.NewCategoryRepository(pool)
	require.NoError(t, categories.Create(ctx, &category.Category{Name: "Books"}))

	err := categories.Create(ctx, &category.Category{Name: "Books"})
	assert.ErrorIs(t, err, category.ErrDuplicateName)

	all, err := categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "no second row on conflict")
}

// TestCreateOrderAtomicity: a bad product reference rolls back the whole
// order, items included.
func TestCreateOrderAtomicity(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	users := repository.NewUserRepository(pool)
	orders := repository.NewOrderRepository(pool)
	userID := createTestUser(t, ctx, users, "atomic@example.com")

	o := &order.Order{
		UserID:         userID,
		TotalAmount:    decimal.RequireFromString("10.00"),
		Status:         order.StatusPending,
		PaymentStatus:  order.PaymentPending,
		DeliveryMethod: order.MethodPickup,
	}
	err := orders.CreateWithItems(ctx, o, []order.Item{
		{ProductID: 9999, Quantity: 1, Price: decimal.RequireFromString("10.00")},
	})
	assert.ErrorIs(t, err, order.ErrInvalidReference)

	all, err := orders.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "failed order must not leave a row behind")
}

// TestTotalSales counts only orders whose payment_status is paid.
func TestTotalSales(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	users := repository.NewUserRepository(pool)
	orders := repository.NewOrderRepository(pool)
	reports := repository.NewReportRepository(pool)
	userID := createTestUser(t, ctx, users, "sales@example.com")

	mk := func(amount string, ps order.PaymentStatus, status order.Status) {
		o := &order.Order{
			UserID:         userID,
			TotalAmount:    decimal.RequireFromString(amount),
			Status:         status,
			PaymentStatus:  ps,
			DeliveryMethod: order.MethodDelivery,
		}
		require.NoError(t, orders.CreateWithItems(ctx, o, nil))
	}

	mk("100.00", order.PaymentPaid, order.StatusDelivered)
	mk("49.97", order.PaymentPaid, order.StatusPending)
	mk("500.00", order.PaymentPending, order.StatusDelivered)
	mk("75.00", order.PaymentRefunded, order.StatusCancelled)

	total, err := reports.TotalSales(ctx)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("149.97")),
		"got %s, want 149.97", total)
}

// TestDeliverySummary checks that the per-status buckets sum to the total.
func TestDeliverySummary(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	users := repository.NewUserRepository(pool)
	orders := repository.NewOrderRepository(pool)
	deliveries := repository.NewDeliveryRepository(pool)
	reports := repository.NewReportRepository(pool)
	userID := createTestUser(t, ctx, users, "dispatch@example.com")

	o := &order.Order{
		UserID:         userID,
		TotalAmount:    decimal.RequireFromString("20.00"),
		Status:         order.StatusProcessing,
		PaymentStatus:  order.PaymentPaid,
		DeliveryMethod: order.MethodDelivery,
	}
	require.NoError(t, orders.CreateWithItems(ctx, o, nil))

	for _, st := range []delivery.Status{
		delivery.StatusPending,
		delivery.StatusShipped,
		delivery.StatusShipped,
		delivery.StatusDelivered,
	} {
		require.NoError(t, deliveries.Create(ctx, &delivery.Delivery{OrderID: o.ID, Status: st}))
	}

	s, err := reports.DeliverySummary(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), s.TotalDeliveries)
	assert.Equal(t, int64(1), s.Pending)
	assert.Equal(t, int64(2), s.Shipped)
	assert.Equal(t, int64(1), s.Delivered)
	assert.Equal(t, s.TotalDeliveries, s.Pending+s.Processing+s.Shipped+s.Delivered+s.Cancelled)
}

// TestPaymentSummary: latest status follows insertion order, not payment_date.
func TestPaymentSummary(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	users := repository.NewUserRepository(pool)
	orders := repository.NewOrderRepository(pool)
	payments := repository.NewPaymentRepository(pool)
	reports := repository.NewReportRepository(pool)
	userID := createTestUser(t, ctx, users, "payer@example.com")

	o := &order.Order{
		UserID:         userID,
		TotalAmount:    decimal.RequireFromString("60.00"),
		Status:         order.StatusPending,
		PaymentStatus:  order.PaymentPending,
		DeliveryMethod: order.MethodPickup,
	}
	require.NoError(t, orders.CreateWithItems(ctx, o, nil))

	s, err := reports.PaymentSummary(ctx, o.ID)
	require.NoError(t, err)
	assert.Nil(t, s, "no payments yet")

	require.NoError(t, payments.Create(ctx, &payment.Payment{
		OrderID: o.ID, Amount: decimal.RequireFromString("60.00"), Status: payment.StatusFailed, Method: "card",
	}))
	require.NoError(t, payments.Create(ctx, &payment.Payment{
		OrderID: o.ID, Amount: decimal.RequireFromString("60.00"), Status: payment.StatusPaid, Method: "card",
	}))

	s, err = reports.PaymentSummary(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "paid", s.LatestStatus)
	assert.Equal(t, int64(2), s.TotalTransactions)
	assert.True(t, s.TotalPaid.Equal(decimal.RequireFromString("120.00")),
		"every payment row counts toward TotalPaid, got %s", s.TotalPaid)
}
