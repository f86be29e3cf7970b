// Command seed-db loads a small demo dataset: five users, categories,
// products, and orders with their items, payments, and deliveries.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/novamart/novamart-api/internal/auth"
	"github.com/novamart/novamart-api/internal/domain/category"
	"github.com/novamart/novamart-api/internal/domain/delivery"
	"github.com/novamart/novamart-api/internal/domain/order"
	"github.com/novamart/novamart-api/internal/domain/payment"
	"github.com/novamart/novamart-api/internal/domain/product"
	"github.com/novamart/novamart-api/internal/domain/user"
	"github.com/novamart/novamart-api/internal/repository"
)

func main() {
	var databaseURL string
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	users := repository.NewUserRepository(pool)
	categories := repository.NewCategoryRepository(pool)
	products := repository.NewProductRepository(pool)
	orders := repository.NewOrderRepository(pool)
	payments := repository.NewPaymentRepository(pool)
	deliveries := repository.NewDeliveryRepository(pool)

	// Idempotence guard: bail out when the demo admin already exists.
	if _, err := users.GetByEmail(ctx, "ian.kamunya@example.com"); err == nil {
		slog.Info("demo data already present, nothing to do")
		return nil
	}

	userIDs, err := seedUsers(ctx, users)
	if err != nil {
		return errors.Wrap(err, "seed users")
	}
	categoryIDs, err := seedCategories(ctx, categories)
	if err != nil {
		return errors.Wrap(err, "seed categories")
	}
	productIDs, err := seedProducts(ctx, products, categoryIDs)
	if err != nil {
		return errors.Wrap(err, "seed products")
	}
	orderIDs, err := seedOrders(ctx, orders, userIDs, productIDs)
	if err != nil {
		return errors.Wrap(err, "seed orders")
	}
	if err := seedPayments(ctx, payments, orderIDs); err != nil {
		return errors.Wrap(err, "seed payments")
	}
	if err := seedDeliveries(ctx, deliveries, orderIDs); err != nil {
		return errors.Wrap(err, "seed deliveries")
	}

	return nil
}

func seedUsers(ctx context.Context, repo *repository.UserRepository) ([]int64, error) {
	demo := []user.User{
		{Firstname: "Ian", Lastname: "Kamunya", Email: "ian.kamunya@example.com", ContactPhone: "0712345678", Address: "Kikuyu", City: "Nairobi", Role: user.RoleAdmin},
		{Firstname: "Mary", Lastname: "Wambui", Email: "mary.wambui@example.com", ContactPhone: "0723456789", Address: "Thika", City: "Kiambu", Role: user.RoleUser},
		{Firstname: "John", Lastname: "Otieno", Email: "john.otieno@example.com", ContactPhone: "0734567890", Address: "Kisumu CBD", City: "Kisumu", Role: user.RoleUser},
		{Firstname: "Grace", Lastname: "Mutua", Email: "grace.mutua@example.com", ContactPhone: "0745678901", Address: "Nyali", City: "Mombasa", Role: user.RoleUser},
		{Firstname: "Peter", Lastname: "Mwangi", Email: "peter.mwangi@example.com", ContactPhone: "0756789012", Address: "Nakuru Town", City: "Nakuru", Role: user.RoleUser},
	}

	slog.Info("seeding users", slog.Int("count", len(demo)))

	ids := make([]int64, len(demo))
	for i := range demo {
		hash, err := auth.HashPassword("changeme-" + demo[i].Email)
		if err != nil {
			return nil, err
		}
		demo[i].Password = hash
		if err := repo.Create(ctx, &demo[i]); err != nil {
			return nil, errors.Wrapf(err, "create user %s", demo[i].Email)
		}
		ids[i] = demo[i].ID
	}
	return ids, nil
}

func seedCategories(ctx context.Context, repo *repository.CategoryRepository) ([]int64, error) {
	demo := []category.Category{
		{Name: "Electronics", Description: "Devices, gadgets, and accessories"},
		{Name: "Groceries", Description: "Everyday food and home supplies"},
		{Name: "Clothing", Description: "Men's, women's, and kids' wear"},
		{Name: "Furniture", Description: "Home and office furniture"},
		{Name: "Beauty", Description: "Cosmetics and skincare products"},
	}

	slog.Info("seeding categories", slog.Int("count", len(demo)))

	ids := make([]int64, len(demo))
	for i := range demo {
		if err := repo.Create(ctx, &demo[i]); err != nil {
			return nil, errors.Wrapf(err, "create category %s", demo[i].Name)
		}
		ids[i] = demo[i].ID
	}
	return ids, nil
}

func seedProducts(ctx context.Context, repo *repository.ProductRepository, categoryIDs []int64) ([]int64, error) {
	demo := []product.Product{
		{Name: "Smartphone X1", Description: "5G Android smartphone", Price: decimal.RequireFromString("450.00"), StockQuantity: 30, CategoryID: &categoryIDs[0]},
		{Name: "Rice 10kg", Description: "Premium long-grain rice", Price: decimal.RequireFromString("12.50"), StockQuantity: 200, CategoryID: &categoryIDs[1]},
		{Name: "Men's Denim Jacket", Description: "Blue stylish denim jacket", Price: decimal.RequireFromString("35.00"), StockQuantity: 50, CategoryID: &categoryIDs[2]},
		{Name: "Office Chair", Description: "Ergonomic adjustable chair", Price: decimal.RequireFromString("120.00"), StockQuantity: 20, CategoryID: &categoryIDs[3]},
		{Name: "Face Cream", Description: "Moisturizing daily cream", Price: decimal.RequireFromString("15.99"), StockQuantity: 80, CategoryID: &categoryIDs[4]},
	}

	slog.Info("seeding products", slog.Int("count", len(demo)))

	ids := make([]int64, len(demo))
	for i := range demo {
		demo[i].IsActive = true
		demo[i].ImageURL = "https://via.placeholder.com/150"
		if err := repo.Create(ctx, &demo[i]); err != nil {
			return nil, errors.Wrapf(err, "create product %s", demo[i].Name)
		}
		ids[i] = demo[i].ID
	}
	return ids, nil
}

func seedOrders(ctx context.Context, repo *repository.OrderRepository, userIDs, productIDs []int64) ([]int64, error) {
	type demoOrder struct {
		order order.Order
		item  order.Item
	}
	demo := []demoOrder{
		{
			order: order.Order{UserID: userIDs[1], TotalAmount: decimal.RequireFromString("450.00"), Status: order.StatusProcessing, PaymentStatus: order.PaymentPaid, DeliveryMethod: order.MethodDelivery, DeliveryAddress: "Thika"},
			item:  order.Item{ProductID: productIDs[0], Quantity: 1, Price: decimal.RequireFromString("450.00")},
		},
		{
			order: order.Order{UserID: userIDs[2], TotalAmount: decimal.RequireFromString("25.00"), Status: order.StatusPending, PaymentStatus: order.PaymentPending, DeliveryMethod: order.MethodPickup, DeliveryAddress: "Kisumu CBD"},
			item:  order.Item{ProductID: productIDs[1], Quantity: 2, Price: decimal.RequireFromString("25.00")},
		},
		{
			order: order.Order{UserID: userIDs[3], TotalAmount: decimal.RequireFromString("120.00"), Status: order.StatusShipped, PaymentStatus: order.PaymentPaid, DeliveryMethod: order.MethodDelivery, DeliveryAddress: "Nyali"},
			item:  order.Item{ProductID: productIDs[3], Quantity: 1, Price: decimal.RequireFromString("120.00")},
		},
		{
			order: order.Order{UserID: userIDs[4], TotalAmount: decimal.RequireFromString("15.99"), Status: order.StatusDelivered, PaymentStatus: order.PaymentPaid, DeliveryMethod: order.MethodDelivery, DeliveryAddress: "Nakuru Town"},
			item:  order.Item{ProductID: productIDs[4], Quantity: 1, Price: decimal.RequireFromString("15.99")},
		},
		{
			order: order.Order{UserID: userIDs[1], TotalAmount: decimal.RequireFromString("35.00"), Status: order.StatusCancelled, PaymentStatus: order.PaymentRefunded, DeliveryMethod: order.MethodPickup, DeliveryAddress: "Thika"},
			item:  order.Item{ProductID: productIDs[2], Quantity: 1, Price: decimal.RequireFromString("35.00")},
		},
	}

	slog.Info("seeding orders", slog.Int("count", len(demo)))

	ids := make([]int64, len(demo))
	for i := range demo {
		if err := repo.CreateWithItems(ctx, &demo[i].order, []order.Item{demo[i].item}); err != nil {
			return nil, errors.Wrapf(err, "create order %d", i+1)
		}
		ids[i] = demo[i].order.ID
	}
	return ids, nil
}

func seedPayments(ctx context.Context, repo *repository.PaymentRepository, orderIDs []int64) error {
	demo := []payment.Payment{
		{OrderID: orderIDs[0], Amount: decimal.RequireFromString("450.00"), Status: payment.StatusPaid, TransactionID: "TXN1001", Method: "M-Pesa"},
		{OrderID: orderIDs[1], Amount: decimal.RequireFromString("25.00"), Status: payment.StatusPending, TransactionID: "TXN1002", Method: "Card"},
		{OrderID: orderIDs[2], Amount: decimal.RequireFromString("120.00"), Status: payment.StatusPaid, TransactionID: "TXN1003", Method: "Bank Transfer"},
		{OrderID: orderIDs[3], Amount: decimal.RequireFromString("15.99"), Status: payment.StatusPaid, TransactionID: "TXN1004", Method: "M-Pesa"},
		{OrderID: orderIDs[4], Amount: decimal.RequireFromString("35.00"), Status: payment.StatusRefunded, TransactionID: "TXN1005", Method: "Card"},
	}

	slog.Info("seeding payments", slog.Int("count", len(demo)))

	for i := range demo {
		if err := repo.Create(ctx, &demo[i]); err != nil {
			return errors.Wrapf(err, "create payment %s", demo[i].TransactionID)
		}
	}
	return nil
}

func seedDeliveries(ctx context.Context, repo *repository.DeliveryRepository, orderIDs []int64) error {
	demo := []delivery.Delivery{
		{OrderID: orderIDs[0], DriverName: "Joseph Karanja", DriverPhone: "0798765432", Status: delivery.StatusProcessing},
		{OrderID: orderIDs[1], DriverName: "Mary Achieng", DriverPhone: "0787654321", Status: delivery.StatusPending},
		{OrderID: orderIDs[2], DriverName: "Peter Maina", DriverPhone: "0776543210", Status: delivery.StatusShipped},
		{OrderID: orderIDs[3], DriverName: "James Kariuki", DriverPhone: "0765432109", Status: delivery.StatusDelivered},
		{OrderID: orderIDs[4], DriverName: "Sarah Njeri", DriverPhone: "0754321098", Status: delivery.StatusCancelled},
	}

	slog.Info("seeding deliveries", slog.Int("count", len(demo)))

	for i := range demo {
		if err := repo.Create(ctx, &demo[i]); err != nil {
			return errors.Wrapf(err, "create delivery for order %d", demo[i].OrderID)
		}
	}
	return nil
}
