package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/team-fruitee/fruitee-backend/api/controllers"
	"github.com/team-fruitee/fruitee-backend/api/routes"
	"github.com/team-fruitee/fruitee-backend/internal/catalog"
	"github.com/team-fruitee/fruitee-backend/internal/deliverypoints"
	"github.com/team-fruitee/fruitee-backend/internal/grouporders"
	"github.com/team-fruitee/fruitee-backend/internal/notifications"
	"github.com/team-fruitee/fruitee-backend/internal/orders"
	"github.com/team-fruitee/fruitee-backend/internal/payments"
	"github.com/team-fruitee/fruitee-backend/internal/reporting"
	"github.com/team-fruitee/fruitee-backend/internal/users"
	"github.com/team-fruitee/fruitee-backend/pkg/config"
	"github.com/team-fruitee/fruitee-backend/pkg/db"
	"github.com/team-fruitee/fruitee-backend/pkg/logger"
	"github.com/team-fruitee/fruitee-backend/pkg/metrics"
	"github.com/team-fruitee/fruitee-backend/pkg/migrate"
	"github.com/team-fruitee/fruitee-backend/pkg/redis"
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

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, open listing cache disabled")
	}

	gormDB := dbClient.DB()
	notifier := notifications.NewLogNotifier(logg)

	catalogService, err := catalog.NewService(catalog.NewRepository(gormDB), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	deliveryPointService, err := deliverypoints.NewService(deliverypoints.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create delivery point service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(users.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	var groupOrderService grouporders.Service
	if redisClient != nil {
		groupOrderService, err = grouporders.NewService(grouporders.NewRepository(gormDB), dbClient, notifier, redisClient, cfg.Cache.OpenGroupOrdersTTL, logg)
	} else {
		groupOrderService, err = grouporders.NewService(grouporders.NewRepository(gormDB), dbClient, notifier, nil, cfg.Cache.OpenGroupOrdersTTL, logg)
	}
	if err != nil {
		logg.Error(context.Background(), "failed to create group order service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.NewRepository(gormDB), dbClient, notifier)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	paymentService, err := payments.NewService(payments.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	reportingService, err := reporting.NewService(reporting.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create reporting service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	var redisPinger controllers.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}

	handler := routes.NewRouter(cfg, logg, dbClient, redisPinger, httpMetrics, routes.Services{
		Catalog:        catalogService,
		DeliveryPoints: deliveryPointService,
		Users:          userService,
		GroupOrders:    groupOrderService,
		Orders:         orderService,
		Payments:       paymentService,
		Reporting:      reportingService,
	})

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
		Addr:    addr,
		Handler: handler,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
