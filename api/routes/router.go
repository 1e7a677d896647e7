package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/davidmreyes/pricewatch-backend/api/controllers"
	"github.com/davidmreyes/pricewatch-backend/api/middleware"
	"github.com/davidmreyes/pricewatch-backend/internal/auth"
	"github.com/davidmreyes/pricewatch-backend/internal/categories"
	"github.com/davidmreyes/pricewatch-backend/internal/inflation"
	"github.com/davidmreyes/pricewatch-backend/internal/items"
	"github.com/davidmreyes/pricewatch-backend/internal/observations"
	"github.com/davidmreyes/pricewatch-backend/internal/preferences"
	"github.com/davidmreyes/pricewatch-backend/internal/shoppinglists"
	"github.com/davidmreyes/pricewatch-backend/internal/stores"
	"github.com/davidmreyes/pricewatch-backend/internal/users"
	"github.com/davidmreyes/pricewatch-backend/pkg/auth/session"
	"github.com/davidmreyes/pricewatch-backend/pkg/config"
	"github.com/davidmreyes/pricewatch-backend/pkg/db"
	"github.com/davidmreyes/pricewatch-backend/pkg/logger"
	"github.com/davidmreyes/pricewatch-backend/pkg/metrics"
)

// redisConn is the slice of the redis client the router needs: rate-limit
// counters plus the readiness ping.
type redisConn interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Ping(ctx context.Context) error
}

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          redisConn
	SessionChecker session.AccessSessionChecker
	HTTPMetrics    *metrics.HTTPMetrics

	AuthService         auth.Service
	UserService         users.Service
	PreferencesService  preferences.Service
	CategoryService     categories.Service
	StoreService        stores.Service
	ItemService         items.Service
	ObservationService  observations.Service
	InflationService    inflation.Service
	ShoppingListService shoppinglists.Service
}

// NewRouter assembles the chi router with middleware and all routes.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}

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
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))

		r.Route("/users/me", func(r chi.Router) {
			r.Get("/", controllers.UserProfile(deps.UserService, logg))
			r.Put("/", controllers.UserUpdate(deps.UserService, logg))
			r.Delete("/", controllers.UserDeactivate(deps.UserService, logg))

			r.Get("/preferences", controllers.PreferencesGet(deps.PreferencesService, logg))
			r.Put("/preferences", controllers.PreferencesUpdate(deps.PreferencesService, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.CategoryCreate(deps.CategoryService, logg))
			r.Get("/", controllers.CategoryList(deps.CategoryService, logg))
			r.Get("/{categoryId}", controllers.CategoryGet(deps.CategoryService, logg))
			r.Put("/{categoryId}", controllers.CategoryUpdate(deps.CategoryService, logg))
			r.Delete("/{categoryId}", controllers.CategoryDelete(deps.CategoryService, logg))
		})

		r.Route("/stores", func(r chi.Router) {
			r.Post("/", controllers.StoreCreate(deps.StoreService, logg))
			r.Get("/", controllers.StoreList(deps.StoreService, logg))
			r.Get("/{storeId}", controllers.StoreGet(deps.StoreService, logg))
			r.Put("/{storeId}", controllers.StoreUpdate(deps.StoreService, logg))
			r.Delete("/{storeId}", controllers.StoreDelete(deps.StoreService, logg))
		})

		r.Route("/items", func(r chi.Router) {
			r.Post("/", controllers.ItemCreate(deps.ItemService, logg))
			r.Get("/", controllers.ItemList(deps.ItemService, logg))
			r.Get("/{itemId}", controllers.ItemGet(deps.ItemService, logg))
			r.Put("/{itemId}", controllers.ItemUpdate(deps.ItemService, logg))
			r.Delete("/{itemId}", controllers.ItemDelete(deps.ItemService, logg))

			r.Post("/{itemId}/price", controllers.ObservationRecord(deps.ObservationService, logg))
			r.Get("/{itemId}/price/current", controllers.ObservationCurrent(deps.ObservationService, logg))
			r.Get("/{itemId}/price-observations", controllers.ObservationHistory(deps.ObservationService, logg))
			r.Delete("/{itemId}/price-observations/{observationId}", controllers.ObservationDelete(deps.ObservationService, logg))

			r.Get("/{itemId}/inflation", controllers.InflationItem(deps.InflationService, logg))
		})

		r.Get("/inflation", controllers.InflationBasket(deps.InflationService, logg))

		r.Route("/shopping-lists", func(r chi.Router) {
			r.Post("/", controllers.ShoppingListCreate(deps.ShoppingListService, logg))
			r.Get("/", controllers.ShoppingListIndex(deps.ShoppingListService, logg))
			r.Get("/{listId}", controllers.ShoppingListGet(deps.ShoppingListService, logg))
			r.Put("/{listId}", controllers.ShoppingListUpdate(deps.ShoppingListService, logg))
			r.Delete("/{listId}", controllers.ShoppingListDelete(deps.ShoppingListService, logg))

			r.Route("/{listId}/items", func(r chi.Router) {
				r.Post("/", controllers.ShoppingListAddEntry(deps.ShoppingListService, logg))
				r.Put("/{entryId}", controllers.ShoppingListUpdateEntry(deps.ShoppingListService, logg))
				r.Delete("/{entryId}", controllers.ShoppingListRemoveEntry(deps.ShoppingListService, logg))
				r.Post("/{entryId}/purchase", controllers.ShoppingListSetPurchased(deps.ShoppingListService, logg))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole("admin", logg))

			r.Post("/stores", controllers.StoreCreateGlobal(deps.StoreService, logg))
			r.Delete("/stores/{storeId}", controllers.StoreDeleteGlobal(deps.StoreService, logg))
		})
	})

	return r
}
