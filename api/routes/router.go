package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	accountcontrollers "github.com/dkellner/audiohaus-backend/api/controllers/account"
	admincontrollers "github.com/dkellner/audiohaus-backend/api/controllers/admin"
	authcontrollers "github.com/dkellner/audiohaus-backend/api/controllers/auth"
	cartcontrollers "github.com/dkellner/audiohaus-backend/api/controllers/cart"
	checkoutcontrollers "github.com/dkellner/audiohaus-backend/api/controllers/checkout"
	featuredcontrollers "github.com/dkellner/audiohaus-backend/api/controllers/featured"
	productcontrollers "github.com/dkellner/audiohaus-backend/api/controllers/products"
	"github.com/dkellner/audiohaus-backend/api/handlers"
	"github.com/dkellner/audiohaus-backend/api/middleware"
	"github.com/dkellner/audiohaus-backend/internal/accounts"
	cartsvc "github.com/dkellner/audiohaus-backend/internal/cart"
	catalogsvc "github.com/dkellner/audiohaus-backend/internal/catalog"
	checkoutsvc "github.com/dkellner/audiohaus-backend/internal/checkout"
	featuredsvc "github.com/dkellner/audiohaus-backend/internal/featured"
	ordersvc "github.com/dkellner/audiohaus-backend/internal/orders"
	"github.com/dkellner/audiohaus-backend/pkg/config"
	"github.com/dkellner/audiohaus-backend/pkg/db"
	"github.com/dkellner/audiohaus-backend/pkg/enums"
	"github.com/dkellner/audiohaus-backend/pkg/logger"
	"github.com/dkellner/audiohaus-backend/pkg/metrics"
	pkgredis "github.com/dkellner/audiohaus-backend/pkg/redis"
)

// NewRouter wires every storefront and back-office route onto one handler.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP pkgredis.Pinger,
	httpMetrics *metrics.HTTPMetrics,
	idempotencyStore pkgredis.IdempotencyStore,
	catalogService catalogsvc.Service,
	featuredService featuredsvc.Service,
	cartService cartsvc.Service,
	accountService accounts.Service,
	checkoutService checkoutsvc.Service,
	orderService ordersvc.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", handlers.HealthLive(cfg))
		r.Get("/ready", handlers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", productcontrollers.List(catalogService, logg))
		r.Get("/products/{slug}", productcontrollers.Detail(catalogService, logg))
		r.Get("/categories", productcontrollers.Categories(catalogService, logg))
		r.Get("/featured", featuredcontrollers.List(featuredService, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.Idempotency(idempotencyStore, logg)).
				Post("/register", authcontrollers.Register(accountService, logg))
			r.Post("/login", authcontrollers.Login(accountService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, logg), middleware.CartSession())
			r.Get("/", cartcontrollers.Fetch(cartService, logg))
			r.Post("/items", cartcontrollers.AddItem(cartService, logg))
			r.Patch("/items", cartcontrollers.UpdateItem(cartService, logg))
			r.Delete("/items", cartcontrollers.RemoveItem(cartService, logg))
			r.Delete("/", cartcontrollers.Clear(cartService, logg))
		})

		r.With(middleware.OptionalAuth(cfg.JWT, logg)).
			Post("/checkout/quote", checkoutcontrollers.Quote(checkoutService, logg))
		r.With(
			middleware.OptionalAuth(cfg.JWT, logg),
			middleware.CartSession(),
			middleware.Idempotency(idempotencyStore, logg),
		).Post("/orders", checkoutcontrollers.PlaceOrder(checkoutService, logg))
		r.Get("/orders/number/{orderNumber}", checkoutcontrollers.TrackOrder(orderService, logg))

		r.Route("/account", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/", accountcontrollers.Profile(accountService, logg))
			r.Patch("/", accountcontrollers.UpdateProfile(accountService, logg))
			r.Get("/orders", accountcontrollers.MyOrders(orderService, logg))
			r.Get("/addresses", accountcontrollers.ListAddresses(accountService, logg))
			r.Post("/addresses", accountcontrollers.CreateAddress(accountService, logg))
			r.Put("/addresses/{addressId}", accountcontrollers.UpdateAddress(accountService, logg))
			r.Delete("/addresses/{addressId}", accountcontrollers.DeleteAddress(accountService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, logg),
			middleware.RequireRole(string(enums.UserRoleAdmin), logg),
		)

		r.Route("/products", func(r chi.Router) {
			r.Post("/", admincontrollers.CreateProduct(catalogService, logg))
			r.Get("/{productId}", admincontrollers.GetProduct(catalogService, logg))
			r.Put("/{productId}", admincontrollers.UpdateProduct(catalogService, logg))
			r.Delete("/{productId}", admincontrollers.DeleteProduct(catalogService, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", admincontrollers.CreateCategory(catalogService, logg))
			r.Put("/{categoryId}", admincontrollers.UpdateCategory(catalogService, logg))
			r.Delete("/{categoryId}", admincontrollers.DeleteCategory(catalogService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", admincontrollers.ListOrders(orderService, logg))
			r.Get("/{orderId}", admincontrollers.GetOrder(orderService, logg))
			r.Patch("/{orderId}", admincontrollers.UpdateOrder(orderService, logg))
		})

		r.Route("/featured", func(r chi.Router) {
			r.Get("/", featuredcontrollers.List(featuredService, logg))
			r.Post("/", featuredcontrollers.SetSlot(featuredService, logg))
		})
	})

	return r
}
