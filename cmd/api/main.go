package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/blushmart/blushmart-backend/api/routes"
	"github.com/blushmart/blushmart-backend/internal/addresses"
	"github.com/blushmart/blushmart-backend/internal/auth"
	"github.com/blushmart/blushmart-backend/internal/banners"
	"github.com/blushmart/blushmart-backend/internal/cart"
	"github.com/blushmart/blushmart-backend/internal/checkoutqty"
	"github.com/blushmart/blushmart-backend/internal/employees"
	"github.com/blushmart/blushmart-backend/internal/expenses"
	"github.com/blushmart/blushmart-backend/internal/orders"
	"github.com/blushmart/blushmart-backend/internal/products"
	"github.com/blushmart/blushmart-backend/internal/summary"
	"github.com/blushmart/blushmart-backend/internal/users"
	"github.com/blushmart/blushmart-backend/internal/wishlist"
	"github.com/blushmart/blushmart-backend/pkg/auth/session"
	"github.com/blushmart/blushmart-backend/pkg/config"
	"github.com/blushmart/blushmart-backend/pkg/db"
	"github.com/blushmart/blushmart-backend/pkg/logger"
	"github.com/blushmart/blushmart-backend/pkg/migrate"
	"github.com/blushmart/blushmart-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	wishlistRepo := wishlist.NewRepository(dbClient.DB())
	addressRepo := addresses.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	bannerRepo := banners.NewRepository(dbClient.DB())
	expenseRepo := expenses.NewRepository(dbClient.DB())
	employeeRepo := employees.NewRepository(dbClient.DB())
	summaryRepo := summary.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		Config:   cfg,
		Store:    redisClient,
		Keyer:    redisClient,
		Sessions: sessionManager,
		UserRepo: userRepo,
		Logger:   logg,
	})
	requireService(logg, "auth", err)

	productService, err := products.NewService(products.ServiceParams{ProductRepo: productRepo})
	requireService(logg, "products", err)

	bannerService, err := banners.NewService(banners.ServiceParams{BannerRepo: bannerRepo})
	requireService(logg, "banners", err)

	cartService, err := cart.NewService(cart.ServiceParams{
		CartRepo:    cartRepo,
		ProductRepo: productRepo,
	})
	requireService(logg, "cart", err)

	quantityService, err := checkoutqty.NewService(checkoutqty.ServiceParams{
		Store:  redisClient,
		Keyer:  redisClient,
		Logger: logg,
		TTL:    cfg.Cart.QuantityCacheTTL,
	})
	requireService(logg, "checkout quantity", err)

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		WishlistRepo: wishlistRepo,
		ProductRepo:  productRepo,
		Tx:           dbClient,
	})
	requireService(logg, "wishlist", err)

	addressService, err := addresses.NewService(addresses.ServiceParams{AddressRepo: addressRepo})
	requireService(logg, "addresses", err)

	orderService, err := orders.NewService(orders.ServiceParams{
		OrderRepo:    orderRepo,
		CartRepo:     cartRepo,
		ProductRepo:  productRepo,
		AddressRepo:  addressRepo,
		EmployeeRepo: employeeRepo,
		Tx:           dbClient,
		Logger:       logg,
	})
	requireService(logg, "orders", err)

	expenseService, err := expenses.NewService(expenses.ServiceParams{ExpenseRepo: expenseRepo})
	requireService(logg, "expenses", err)

	employeeService, err := employees.NewService(employees.ServiceParams{EmployeeRepo: employeeRepo})
	requireService(logg, "employees", err)

	summaryService, err := summary.NewService(summary.ServiceParams{
		SummaryRepo:  summaryRepo,
		UserRepo:     userRepo,
		EmployeeRepo: employeeRepo,
		ExpenseRepo:  expenseRepo,
	})
	requireService(logg, "summary", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			promhttp.Handler(),
			authService,
			productService,
			bannerService,
			cartService,
			quantityService,
			wishlistService,
			addressService,
			orderService,
			expenseService,
			employeeService,
			summaryService,
		),
	}

	stopCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server shut down gracefully")
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name+" service", err)
	os.Exit(1)
}
