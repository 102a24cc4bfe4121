package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/minhvu-dev/foodpos-backend/api/controllers"
	"github.com/minhvu-dev/foodpos-backend/api/middleware"
	authsvc "github.com/minhvu-dev/foodpos-backend/internal/auth"
	"github.com/minhvu-dev/foodpos-backend/internal/deliveries"
	"github.com/minhvu-dev/foodpos-backend/internal/discounts"
	"github.com/minhvu-dev/foodpos-backend/internal/ingredients"
	"github.com/minhvu-dev/foodpos-backend/internal/orders"
	"github.com/minhvu-dev/foodpos-backend/internal/products"
	"github.com/minhvu-dev/foodpos-backend/internal/shippers"
	"github.com/minhvu-dev/foodpos-backend/internal/users"
	"github.com/minhvu-dev/foodpos-backend/pkg/auth/session"
	"github.com/minhvu-dev/foodpos-backend/pkg/config"
	"github.com/minhvu-dev/foodpos-backend/pkg/db"
	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
	"github.com/minhvu-dev/foodpos-backend/pkg/logger"
	"github.com/minhvu-dev/foodpos-backend/pkg/metrics"
	"github.com/minhvu-dev/foodpos-backend/pkg/redis"
)

// Services bundles the domain services the router exposes.
type Services struct {
	Auth        authsvc.Service
	Orders      orders.Service
	Discounts   discounts.Service
	Products    products.Service
	Ingredients ingredients.Service
	Shippers    shippers.Service
	Deliveries  deliveries.Service
	Users       users.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUserLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(svcs.Orders, logg))
			r.Get("/", controllers.OrderList(svcs.Orders, logg))
			r.Get("/statistics", controllers.OrderStatistics(svcs.Orders, logg))
			r.Get("/{orderID}", controllers.OrderGet(svcs.Orders, logg))
			r.Patch("/{orderID}", controllers.OrderUpdate(svcs.Orders, logg))
			r.Patch("/{orderID}/status", controllers.OrderUpdateStatus(svcs.Orders, logg))
			r.Get("/{orderID}/allowed-statuses", controllers.OrderAllowedStatuses(svcs.Orders, logg))
			r.Post("/{orderID}/assign-shipper", controllers.OrderAssignShipper(svcs.Deliveries, logg))
		})

		r.Route("/deliveries", func(r chi.Router) {
			r.Post("/", controllers.DeliveryCreate(svcs.Deliveries, logg))
			r.Get("/", controllers.DeliveryList(svcs.Deliveries, logg))
			r.Get("/{deliveryID}", controllers.DeliveryGet(svcs.Deliveries, logg))
			r.Patch("/{deliveryID}/status", controllers.DeliveryUpdateStatus(svcs.Deliveries, logg))
			r.Get("/{deliveryID}/allowed-statuses", controllers.DeliveryAllowedStatuses(svcs.Deliveries, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.ProductCreate(svcs.Products, logg))
			r.Get("/", controllers.ProductList(svcs.Products, logg))
			r.Get("/{productID}", controllers.ProductGet(svcs.Products, logg))
			r.Patch("/{productID}", controllers.ProductUpdate(svcs.Products, logg))
			r.Delete("/{productID}", controllers.ProductDelete(svcs.Products, logg))
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Post("/", controllers.IngredientCreate(svcs.Ingredients, logg))
			r.Get("/", controllers.IngredientList(svcs.Ingredients, logg))
			r.Get("/{ingredientID}", controllers.IngredientGet(svcs.Ingredients, logg))
			r.Patch("/{ingredientID}", controllers.IngredientUpdate(svcs.Ingredients, logg))
			r.Delete("/{ingredientID}", controllers.IngredientDelete(svcs.Ingredients, logg))
		})

		r.Route("/shippers", func(r chi.Router) {
			r.Post("/", controllers.ShipperCreate(svcs.Shippers, logg))
			r.Get("/", controllers.ShipperList(svcs.Shippers, logg))
			r.Get("/{shipperID}", controllers.ShipperGet(svcs.Shippers, logg))
			r.Patch("/{shipperID}", controllers.ShipperUpdate(svcs.Shippers, logg))
			r.Delete("/{shipperID}", controllers.ShipperDeactivate(svcs.Shippers, logg))
		})

		r.Route("/discount-codes", func(r chi.Router) {
			r.Get("/", controllers.DiscountCodeList(svcs.Discounts, logg))
			r.Get("/{codeID}", controllers.DiscountCodeGet(svcs.Discounts, logg))
			r.Post("/validate", controllers.DiscountCodeValidate(svcs.Discounts, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
				r.Post("/", controllers.DiscountCodeCreate(svcs.Discounts, logg))
				r.Patch("/{codeID}", controllers.DiscountCodeUpdate(svcs.Discounts, logg))
				r.Delete("/{codeID}", controllers.DiscountCodeDelete(svcs.Discounts, logg))
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Put("/me/password", controllers.UserChangePassword(svcs.Users, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
				r.Post("/", controllers.UserCreate(svcs.Users, logg))
				r.Get("/", controllers.UserList(svcs.Users, logg))
				r.Get("/{userID}", controllers.UserGet(svcs.Users, logg))
				r.Patch("/{userID}", controllers.UserUpdate(svcs.Users, logg))
				r.Delete("/{userID}", controllers.UserDeactivate(svcs.Users, logg))
			})
		})
	})

	return r
}
