package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dkellner/audiohaus-backend/api/routes"
	"github.com/dkellner/audiohaus-backend/internal/accounts"
	cartsvc "github.com/dkellner/audiohaus-backend/internal/cart"
	catalogsvc "github.com/dkellner/audiohaus-backend/internal/catalog"
	checkoutsvc "github.com/dkellner/audiohaus-backend/internal/checkout"
	featuredsvc "github.com/dkellner/audiohaus-backend/internal/featured"
	ordersvc "github.com/dkellner/audiohaus-backend/internal/orders"
	"github.com/dkellner/audiohaus-backend/internal/payments"
	"github.com/dkellner/audiohaus-backend/internal/pricing"
	"github.com/dkellner/audiohaus-backend/pkg/config"
	"github.com/dkellner/audiohaus-backend/pkg/db"
	"github.com/dkellner/audiohaus-backend/pkg/logger"
	"github.com/dkellner/audiohaus-backend/pkg/metrics"
	"github.com/dkellner/audiohaus-backend/pkg/migrate"
	"github.com/dkellner/audiohaus-backend/pkg/redis"
	"github.com/dkellner/audiohaus-backend/pkg/square"
)

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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)
	checkoutMetrics := metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)

	catalogRepo := catalogsvc.NewRepository(dbClient.DB())
	catalogService, err := catalogsvc.NewService(catalogRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	featuredService, err := featuredsvc.NewService(featuredsvc.NewRepository(dbClient.DB()), catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create featured service", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(cartsvc.NewRedisStore(redisClient, cfg.Cart.TTL), catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	accountService, err := accounts.NewService(
		accounts.NewRepository(dbClient.DB()),
		dbClient,
		cfg.JWT,
		cfg.Password,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create account service", err)
		os.Exit(1)
	}

	ordersRepo := ordersvc.NewRepository(dbClient.DB())
	orderService, err := ordersvc.NewService(ordersRepo, dbClient, catalogsvc.NewRestocker(catalogRepo), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	// Card processing is optional; without Square credentials the store
	// still takes bank transfer and cash on delivery orders.
	var cardGateway payments.Gateway
	if cfg.Square.AccessToken != "" {
		squareClient, sqErr := square.NewClient(context.Background(), cfg.Square, logg)
		if sqErr != nil {
			logg.Error(context.Background(), "failed to bootstrap square", sqErr)
			os.Exit(1)
		}
		cardGateway, sqErr = payments.NewSquareGateway(squareClient, logg)
		if sqErr != nil {
			logg.Error(context.Background(), "failed to create square gateway", sqErr)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "square credentials absent, card payments disabled")
	}

	gateway, err := payments.NewRouter(cardGateway, payments.NewOfflineGateway())
	if err != nil {
		logg.Error(context.Background(), "failed to create payment router", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(
		catalogRepo,
		ordersRepo,
		pricing.NewEngine(cfg.Pricing),
		gateway,
		dbClient,
		cfg.Checkout,
		checkoutMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

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
			httpMetrics,
			redisClient,
			catalogService,
			featuredService,
			cartService,
			accountService,
			checkoutService,
			orderService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
