package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blushmart/blushmart-backend/api/controllers"
	"github.com/blushmart/blushmart-backend/api/middleware"
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
	"github.com/blushmart/blushmart-backend/internal/wishlist"
	"github.com/blushmart/blushmart-backend/pkg/config"
	"github.com/blushmart/blushmart-backend/pkg/db"
	"github.com/blushmart/blushmart-backend/pkg/enums"
	"github.com/blushmart/blushmart-backend/pkg/logger"
	"github.com/blushmart/blushmart-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions middleware.AccessSessionChecker,
	metricsHandler http.Handler,
	authService auth.Service,
	productService products.Service,
	bannerService banners.Service,
	cartService cart.Service,
	quantityService checkoutqty.Service,
	wishlistService wishlist.Service,
	addressService addresses.Service,
	orderService orders.Service,
	expenseService expenses.Service,
	employeeService employees.Service,
	summaryService summary.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	otpPolicy := middleware.NewAuthRateLimitPolicy(
		"otp",
		cfg.AuthRateLimit.OTPWindow,
		cfg.AuthRateLimit.OTPIPLimit,
		cfg.AuthRateLimit.OTPPhoneLimit,
	)

	r.Get("/health", controllers.Health(dbP, redisClient, logg))
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(otpPolicy, redisClient, logg)).Post("/otp/send", controllers.AuthSendOTP(authService, logg))
		r.With(middleware.AuthRateLimit(otpPolicy, redisClient, logg)).Post("/otp/verify", controllers.AuthVerifyOTP(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Post("/logout", controllers.AuthLogout(authService, logg))
			r.Put("/password", controllers.AuthUpdatePassword(authService, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductList(productService, logg))
		r.Get("/products/{productId}", controllers.ProductGet(productService, logg))
		r.Get("/banners", controllers.BannerList(bannerService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(cartService, logg))
				r.Post("/", controllers.CartAddItem(cartService, logg))
				r.Delete("/", controllers.CartClear(cartService, logg))
				r.Patch("/{productId}", controllers.CartAdjustQuantity(cartService, logg))
				r.Delete("/{productId}", controllers.CartRemoveItem(cartService, logg))
			})

			r.Route("/quantity", func(r chi.Router) {
				r.Get("/{productId}", controllers.CheckoutQuantityGet(quantityService, logg))
				r.Put("/{productId}", controllers.CheckoutQuantitySet(quantityService, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistList(wishlistService, logg))
				r.Post("/{productId}/toggle", controllers.WishlistToggle(wishlistService, logg))
				r.Post("/{productId}", controllers.WishlistAddItem(wishlistService, logg))
				r.Delete("/{productId}", controllers.WishlistRemoveItem(wishlistService, logg))
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.AddressList(addressService, logg))
				r.Post("/", controllers.AddressCreate(addressService, logg))
				r.Put("/{addressId}", controllers.AddressUpdate(addressService, logg))
				r.Delete("/{addressId}", controllers.AddressDelete(addressService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/checkout", controllers.OrderCheckout(orderService, logg))
				r.Get("/", controllers.OrderList(orderService, logg))
				r.Get("/{orderId}", controllers.OrderGet(orderService, logg))
				r.Post("/{orderId}/cancel", controllers.OrderCancel(orderService, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductList(productService, logg))
			r.Post("/", controllers.AdminProductCreate(productService, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(productService, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(productService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(orderService, logg))
			r.Get("/{orderId}", controllers.AdminOrderGet(orderService, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrderUpdateStatus(orderService, logg))
		})

		r.Route("/banners", func(r chi.Router) {
			r.Get("/", controllers.AdminBannerList(bannerService, logg))
			r.Post("/", controllers.AdminBannerCreate(bannerService, logg))
			r.Patch("/{bannerId}", controllers.AdminBannerUpdate(bannerService, logg))
			r.Delete("/{bannerId}", controllers.AdminBannerDelete(bannerService, logg))
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", controllers.AdminExpenseList(expenseService, logg))
			r.Post("/", controllers.AdminExpenseCreate(expenseService, logg))
			r.Patch("/{expenseId}", controllers.AdminExpenseUpdate(expenseService, logg))
			r.Delete("/{expenseId}", controllers.AdminExpenseDelete(expenseService, logg))
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", controllers.AdminEmployeeList(employeeService, logg))
			r.Get("/delivery-agents", controllers.AdminDeliveryAgentList(employeeService, logg))
			r.Post("/", controllers.AdminEmployeeCreate(employeeService, logg))
			r.Patch("/{employeeId}", controllers.AdminEmployeeUpdate(employeeService, logg))
			r.Delete("/{employeeId}", controllers.AdminEmployeeDelete(employeeService, logg))
		})

		r.Get("/summary", controllers.AdminDashboard(summaryService, logg))
	})

	return r
}
