package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/davidmreyes/pricewatch-backend/api/routes"
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
	"github.com/davidmreyes/pricewatch-backend/pkg/migrate"
	"github.com/davidmreyes/pricewatch-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gdb := dbClient.DB()
	userRepo := users.NewRepository(gdb)

	authService, err := auth.NewService(auth.ServiceParams{
		DB:             dbClient,
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	storeRepo := stores.NewRepository(gdb)
	categoryRepo := categories.NewRepository(gdb)
	itemRepo := items.NewRepository(gdb)

	userService, err := users.NewService(userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}
	preferencesService, err := preferences.NewService(preferences.NewRepository(gdb), storeRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create preferences service", err)
		os.Exit(1)
	}
	categoryService, err := categories.NewService(categoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create category service", err)
		os.Exit(1)
	}
	storeService, err := stores.NewService(storeRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create store service", err)
		os.Exit(1)
	}
	itemService, err := items.NewService(itemRepo, categoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create item service", err)
		os.Exit(1)
	}
	observationService, err := observations.NewService(dbClient, itemRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create observation service", err)
		os.Exit(1)
	}
	inflationService, err := inflation.NewService(itemRepo, inflation.NewRepo(gdb))
	if err != nil {
		logg.Error(context.Background(), "failed to create inflation service", err)
		os.Exit(1)
	}
	shoppingListService, err := shoppinglists.NewService(shoppinglists.NewRepository(gdb), itemRepo, storeRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create shopping list service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

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
			Config:              cfg,
			Logger:              logg,
			DB:                  dbClient,
			Redis:               redisClient,
			SessionChecker:      sessionManager,
			HTTPMetrics:         httpMetrics,
			AuthService:         authService,
			UserService:         userService,
			PreferencesService:  preferencesService,
			CategoryService:     categoryService,
			StoreService:        storeService,
			ItemService:         itemService,
			ObservationService:  observationService,
			InflationService:    inflationService,
			ShoppingListService: shoppingListService,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
