package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/maisonlumiere/boutique-backend/api/routes"
	"github.com/maisonlumiere/boutique-backend/internal/addresses"
	"github.com/maisonlumiere/boutique-backend/internal/assets"
	"github.com/maisonlumiere/boutique-backend/internal/auth"
	"github.com/maisonlumiere/boutique-backend/internal/cart"
	"github.com/maisonlumiere/boutique-backend/internal/catalog"
	checkoutsvc "github.com/maisonlumiere/boutique-backend/internal/checkout"
	"github.com/maisonlumiere/boutique-backend/internal/content"
	"github.com/maisonlumiere/boutique-backend/internal/users"
	stripewebhook "github.com/maisonlumiere/boutique-backend/internal/webhooks/stripe"
	"github.com/maisonlumiere/boutique-backend/pkg/auth/session"
	"github.com/maisonlumiere/boutique-backend/pkg/config"
	"github.com/maisonlumiere/boutique-backend/pkg/db"
	"github.com/maisonlumiere/boutique-backend/pkg/logger"
	"github.com/maisonlumiere/boutique-backend/pkg/metrics"
	"github.com/maisonlumiere/boutique-backend/pkg/migrate"
	"github.com/maisonlumiere/boutique-backend/pkg/outbox"
	"github.com/maisonlumiere/boutique-backend/pkg/redis"
	"github.com/maisonlumiere/boutique-backend/pkg/storage/cloudinary"
	"github.com/maisonlumiere/boutique-backend/pkg/stripe"
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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	checkoutMetrics := metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)

	userRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartRepo := cart.NewRepository(dbClient.DB())
	cartService, err := cart.NewService(cartRepo, catalogService)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	contentService, err := content.NewService(content.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create content service", err)
		os.Exit(1)
	}

	addressService, err := addresses.NewService(addresses.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create address service", err)
		os.Exit(1)
	}

	assetService, err := assets.NewService(cfg.Assets)
	if err != nil {
		logg.Error(context.Background(), "failed to create asset service", err)
		os.Exit(1)
	}

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to initialize stripe", err)
		os.Exit(1)
	}

	provider, err := checkoutsvc.NewStripeProvider(stripeClient, cfg.Checkout)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment provider", err)
		os.Exit(1)
	}

	finalizeGuard, err := checkoutsvc.NewIdempotencyGuard(redisClient, cfg.Checkout.SessionTTL, "checkout_finalize")
	if err != nil {
		logg.Error(context.Background(), "failed to create finalize guard", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		CheckoutRepo:      checkoutsvc.NewRepository(dbClient.DB()),
		CartRepo:          cartRepo,
		Catalog:           catalog.NewRepository(dbClient.DB()),
		Provider:          provider,
		Guard:             finalizeGuard,
		TransactionRunner: dbClient,
		Outbox:            outboxService,
		Metrics:           checkoutMetrics,
		BaseURL:           cfg.App.BaseURL,
		Logger:            logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	webhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		Checkout: checkoutService,
		Metrics:  checkoutMetrics,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe webhook service", err)
		os.Exit(1)
	}

	webhookGuard, err := checkoutsvc.NewIdempotencyGuard(redisClient, cfg.Eventing.WebhookIdempotencyTTL, "stripe_webhook")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook guard", err)
		os.Exit(1)
	}

	// Media signing is optional: without credentials the admin endpoint
	// reports itself unconfigured instead of blocking startup.
	var cloudinarySigner *cloudinary.Client
	if cfg.Cloudinary.Configured() {
		cloudinarySigner, err = cloudinary.NewClient(context.Background(), cfg.Cloudinary, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to initialize cloudinary", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "cloudinary credentials absent, media signing disabled")
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
		Handler: routes.NewRouter(routes.Deps{
			Config:             cfg,
			Logger:             logg,
			DB:                 dbClient,
			Redis:              redisClient,
			SessionChecker:     sessionManager,
			AuthService:        authService,
			CartService:        cartService,
			CatalogService:     catalogService,
			CheckoutService:    checkoutService,
			ContentService:     contentService,
			AddressService:     addressService,
			AssetService:       assetService,
			UserRepo:           userRepo,
			StripeClient:       stripeClient,
			StripeWebhookSvc:   webhookService,
			StripeWebhookGuard: webhookGuard,
			CloudinarySigner:   cloudinarySigner,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
