package main

import (
	"context"
	"os"
	"os/signal"
	"realtimesales/analytics"
	"realtimesales/api"
	"realtimesales/domain"
	"realtimesales/logger"
	"realtimesales/metrics"
	"realtimesales/services"
	"syscall"
	"time"

	"realtimesales/buildinfo"
	"realtimesales/config"
	"realtimesales/database"

	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"

	_ "realtimesales/docs" // Import generated docs

	"github.com/gofiber/fiber/v2"
)

// @title Realtime Sales API
// @version 1.0
// @description Order entry and live sales analytics backed by Firestore or MongoDB, Redis and ClickHouse
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Firebase ID token as "Bearer <token>"

const idleTimeout = 5 * time.Second

func main() {
	// Set application start time for accurate uptime tracking
	buildinfo.SetStartTime(time.Now())

	// Load configuration
	cfg := config.Load()
	if err := logger.Init(&cfg.Log); err != nil {
		logrus.Fatalf("Failed to initialize logger: %v", err)
	}
	logrus.WithFields(buildinfo.GetInfo().Fields()).Info("Starting application")

	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}

	m := metrics.NewRegistry()
	timeout := time.Duration(cfg.Orders.RequestTimeoutSec) * time.Second
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	onInvalidDocument := func(id string, err error) {
		m.InvalidRecords.WithLabelValues("decode").Inc()
	}

	// Initialize Firebase when it backs orders or authentication
	useFirestore := cfg.Orders.Backend == config.BackendFirestore
	if useFirestore || cfg.AuthEnabled {
		initCtx, initCancel := context.WithTimeout(ctx, timeout)
		err := database.InitFirebase(initCtx, &cfg.Firebase, useFirestore)
		initCancel()
		if err != nil {
			logrus.Fatalf("Failed to initialize Firebase: %v", err)
		}
	}

	var repo domain.OrderRepository
	switch cfg.Orders.Backend {
	case config.BackendFirestore:
		repo = database.NewFirestoreOrders(database.GetFirestore(), cfg.Firebase.OrdersCollection, onInvalidDocument)
	case config.BackendMongo:
		initCtx, initCancel := context.WithTimeout(ctx, timeout)
		err := database.InitMongo(initCtx, &cfg.Mongo)
		initCancel()
		if err != nil {
			logrus.Fatalf("Failed to initialize MongoDB: %v", err)
		}
		repo = database.NewMongoOrders(database.GetMongoCollection(&cfg.Mongo), onInvalidDocument)
	default:
		logrus.Warn("Using the in-memory order backend, orders are lost on restart")
		repo = database.NewMemoryOrders(time.Now)
	}

	// Initialize Redis connection
	if err := database.InitRedis(&cfg.Redis); err != nil {
		logrus.Fatalf("Failed to initialize Redis: %v", err)
	}

	store := services.NewOrderStore(repo, cfg.Orders.WritePolicy, m)

	idempotency := database.GetRedisClient(cfg.Orders.IdempotencyTTLMS).WithPendingTTL(2 * timeout)
	orderService, err := services.NewOrderService(store, idempotency, m)
	if err != nil {
		logrus.Fatalf("Failed to initialize OrderService: %v", err)
	}

	aggregator := analytics.NewAggregator(analytics.WithInvalidRecordHook(func(order domain.Order, err error) {
		m.InvalidRecords.WithLabelValues("aggregate").Inc()
		logrus.WithError(err).WithField("order_id", order.ID).Warn("Analytics: skipped invalid order record")
	}))
	analyticsService, err := services.NewAnalyticsService(store, aggregator, m)
	if err != nil {
		logrus.Fatalf("Failed to initialize AnalyticsService: %v", err)
	}

	// Sales history mirror
	var (
		salesService domain.SalesMetricsService
		batcher      *services.OrderBatcher
	)
	healthChecks := api.HealthChecks{
		OrderStore: repo.Ping,
		Redis:      database.RedisHealthCheck,
	}
	if cfg.ClickHouse.Enabled {
		if err := database.InitClickHouse(&cfg.ClickHouse); err != nil {
			logrus.Fatalf("Failed to initialize ClickHouse: %v", err)
		}
		salesService, err = services.NewSalesMetricsService(database.GetClickHouseDB())
		if err != nil {
			logrus.Fatalf("Failed to initialize SalesMetricsService: %v", err)
		}
		batcher = services.NewOrderBatcher(
			cfg.ClickHouse.BufferChannelCapacity,
			cfg.ClickHouse.BatchSize,
			cfg.ClickHouse.FlushIntervalSeconds,
			database.GetClickHouseDB(),
			database.GetRedisClient(cfg.ClickHouse.MirrorMarkerTTLMS),
			m,
		)
		batcher.Start()
		go services.MirrorOrders(ctx, store, batcher)
		healthChecks.ClickHouse = database.ClickHouseHealthCheck
	}

	// Initial fetch; a failure leaves an empty collection until the next refresh
	refreshCtx, refreshCancel := context.WithTimeout(ctx, timeout)
	if err := store.Refresh(refreshCtx); err != nil {
		logrus.WithError(err).Warn("Initial order fetch failed")
	}
	refreshCancel()

	var refresher *services.Refresher
	if cfg.Orders.RefreshSchedule != "" {
		refresher, err = services.NewRefresher(store, cfg.Orders.RefreshSchedule, timeout)
		if err != nil {
			logrus.Fatalf("Failed to initialize Refresher: %v", err)
		}
		refresher.Start()
	}

	routes := api.Routes{
		Orders:    api.NewOrderHandler(orderService),
		Analytics: api.NewAnalyticsHandler(ctx, analyticsService),
		Sales:     api.NewSalesHandler(salesService),
		Health:    api.NewHealthCheck(healthChecks),
		Metrics:   m.Handler(),
	}
	if cfg.AuthEnabled {
		routes.Verifier = database.GetFirebaseAuth()
	}
	if useFirestore && database.GetFirebaseAuth() != nil {
		userService, err := services.NewUserService(database.FirebaseUsers{
			Auth: database.GetFirebaseAuth(),
			Profiles: database.FirestoreProfiles{
				Client:     database.GetFirestore(),
				Collection: cfg.Firebase.UsersCollection,
			},
		})
		if err != nil {
			logrus.Fatalf("Failed to initialize UserService: %v", err)
		}
		routes.Users = api.NewUserHandler(userService)
	}

	app := fiber.New(fiber.Config{
		IdleTimeout: idleTimeout,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	routes.Mount(app)

	// Listen from a different goroutine
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logrus.Panic(err)
		}
	}()

	c := make(chan os.Signal, 1)                    // Create channel to signify a signal being sent
	signal.Notify(c, os.Interrupt, syscall.SIGTERM) // When an interrupt or termination signal is sent, notify the channel

	<-c // This blocks the main thread until an interrupt is received
	logrus.Info("Gracefully shutting down...")
	// ends analytics streams and the mirror feed
	cancel()
	_ = app.ShutdownWithTimeout(10 * time.Second)

	logrus.Info("Running cleanup tasks...")

	if refresher != nil {
		refresher.Stop()
	}

	// Shutdown the mirror batcher (flushes remaining orders)
	if batcher != nil {
		if err := batcher.Shutdown(); err != nil {
			logrus.WithError(err).Error("Error shutting down order batcher")
		}
	}

	// Close database connections
	if err := database.CloseClickHouse(); err != nil {
		logrus.WithError(err).Error("Error closing ClickHouse")
	}

	if err := database.CloseRedis(); err != nil {
		logrus.WithError(err).Error("Error closing Redis")
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), timeout)
	if err := database.CloseMongo(closeCtx); err != nil {
		logrus.WithError(err).Error("Error closing MongoDB")
	}
	closeCancel()

	if err := database.CloseFirebase(); err != nil {
		logrus.WithError(err).Error("Error closing Firebase")
	}

	logrus.Info("Fiber was successful shutdown.")
}
