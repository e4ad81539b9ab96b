package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maisonlumiere/boutique-backend/api/controllers"
	webhookcontrollers "github.com/maisonlumiere/boutique-backend/api/controllers/webhooks"
	"github.com/maisonlumiere/boutique-backend/api/middleware"
	addrsvc "github.com/maisonlumiere/boutique-backend/internal/addresses"
	assetsvc "github.com/maisonlumiere/boutique-backend/internal/assets"
	authsvc "github.com/maisonlumiere/boutique-backend/internal/auth"
	cartsvc "github.com/maisonlumiere/boutique-backend/internal/cart"
	catalogsvc "github.com/maisonlumiere/boutique-backend/internal/catalog"
	checkoutsvc "github.com/maisonlumiere/boutique-backend/internal/checkout"
	contentsvc "github.com/maisonlumiere/boutique-backend/internal/content"
	"github.com/maisonlumiere/boutique-backend/internal/users"
	stripewebhook "github.com/maisonlumiere/boutique-backend/internal/webhooks/stripe"
	"github.com/maisonlumiere/boutique-backend/pkg/config"
	"github.com/maisonlumiere/boutique-backend/pkg/db"
	"github.com/maisonlumiere/boutique-backend/pkg/enums"
	"github.com/maisonlumiere/boutique-backend/pkg/logger"
	"github.com/maisonlumiere/boutique-backend/pkg/redis"
	"github.com/maisonlumiere/boutique-backend/pkg/storage/cloudinary"
	"github.com/maisonlumiere/boutique-backend/pkg/stripe"
)

// Deps collects everything the HTTP surface needs. The router stays a pure
// wiring function so tests can hand it stubs.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionChecker middleware.AccessSessionChecker

	AuthService     authsvc.Service
	CartService     cartsvc.Service
	CatalogService  catalogsvc.Service
	CheckoutService checkoutsvc.Service
	ContentService  contentsvc.Service
	AddressService  addrsvc.Service
	AssetService    assetsvc.Service
	UserRepo        *users.Repository

	StripeClient       *stripe.Client
	StripeWebhookSvc   *stripewebhook.Service
	StripeWebhookGuard *checkoutsvc.IdempotencyGuard
	CloudinarySigner   *cloudinary.Client
	MetricsHTTPHandler http.Handler
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.LocaleRedirect(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	metricsHandler := deps.MetricsHTTPHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Get("/assets/*", controllers.AssetServe(deps.AssetService, logg))

	r.Route("/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(deps.StripeWebhookSvc, deps.StripeClient, deps.StripeWebhookGuard, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).
				Post("/register", controllers.Register(deps.AuthService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
				Post("/login", controllers.Login(deps.AuthService, logg))
			r.Post("/refresh", controllers.Refresh(deps.AuthService, logg))
			r.With(middleware.Auth(cfg.JWT, deps.SessionChecker, logg)).
				Post("/logout", controllers.Logout(deps.AuthService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.CartService, logg))
			r.Post("/items", controllers.CartAddItem(deps.CartService, logg))
			r.Delete("/items/{variantID}", controllers.CartRemoveItem(deps.CartService, logg))
			r.Delete("/", controllers.CartClear(deps.CartService, logg))
		})

		// Checkout works for guests; a valid token attributes the order.
		r.With(middleware.OptionalAuth(cfg.JWT, deps.SessionChecker, logg)).
			Post("/checkout", controllers.CheckoutBegin(deps.CheckoutService, logg))

		r.Route("/account", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
			r.Get("/profile", controllers.AccountProfile(deps.UserRepo, logg))
			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.AddressList(deps.AddressService, logg))
				r.Post("/", controllers.AddressCreate(deps.AddressService, logg))
				r.Put("/{addressID}", controllers.AddressUpdate(deps.AddressService, logg))
				r.Delete("/{addressID}", controllers.AddressDelete(deps.AddressService, logg))
				r.Post("/{addressID}/default", controllers.AddressSetDefault(deps.AddressService, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))

		r.Route("/content", func(r chi.Router) {
			r.Use(middleware.RequireCapability(enums.CapabilityAdminContent, logg))
			r.Get("/", controllers.AdminContentList(deps.ContentService, logg))
			r.Post("/", controllers.AdminContentCreate(deps.ContentService, logg))
			r.Put("/{moduleID}", controllers.AdminContentUpdate(deps.ContentService, logg))
			r.Delete("/{moduleID}", controllers.AdminContentDelete(deps.ContentService, logg))
			r.Post("/reorder", controllers.AdminContentReorder(deps.ContentService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireCapability(enums.CapabilityCatalogWrite, logg))
			r.Route("/collections", func(r chi.Router) {
				r.Post("/", controllers.AdminCollectionCreate(deps.CatalogService, logg))
				r.Put("/{collectionID}", controllers.AdminCollectionUpdate(deps.CatalogService, logg))
			})
			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.AdminProductCreate(deps.CatalogService, logg))
				r.Put("/{productID}", controllers.AdminProductUpdate(deps.CatalogService, logg))
				r.Delete("/{productID}", controllers.AdminProductDelete(deps.CatalogService, logg))
			})
		})

		r.With(middleware.RequireCapability(enums.CapabilityMediaSignature, logg)).
			Post("/media/sign", controllers.MediaSign(deps.CloudinarySigner, logg))
	})

	// Locale-prefixed storefront reads. The global LocaleRedirect middleware
	// canonicalizes bare paths before chi matches the {locale} segment.
	r.Route("/{locale}", func(r chi.Router) {
		r.Get("/", controllers.HomeModules(deps.ContentService, logg))
		r.Get("/collections", controllers.CollectionsList(deps.CatalogService, logg))
		r.Get("/collections/{slug}", controllers.CollectionGet(deps.CatalogService, logg))
		r.Get("/products/{slug}", controllers.ProductGet(deps.CatalogService, logg))
		r.Get("/search", controllers.Search(deps.CatalogService, logg))
		r.Get("/checkout/confirm", controllers.CheckoutConfirm(deps.CheckoutService, logg))
		r.Get("/cart", controllers.CartGet(deps.CartService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, deps.SessionChecker, logg))
			r.With(middleware.RequireAccountVisitor).
				Get("/account", controllers.AccountProfile(deps.UserRepo, logg))
			r.With(middleware.RedirectAuthenticated).
				Get("/login", controllers.PageOK())
			r.With(middleware.RedirectAuthenticated).
				Get("/register", controllers.PageOK())
		})
	})

	return r
}
