// Command api runs the storefront reference API.
//
//	@title						Storefront API
//	@version					1.0
//	@description				Accounts, orders, tracking and catalog for the storefront client.
//	@BasePath					/api
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/shopfront/storefront/docs"
	"github.com/shopfront/storefront/internal/api"
	"github.com/shopfront/storefront/internal/core/ports"
	"github.com/shopfront/storefront/internal/core/service"
	"github.com/shopfront/storefront/internal/infrastructure/broker/rabbitmq"
	"github.com/shopfront/storefront/internal/infrastructure/config"
	mongodb "github.com/shopfront/storefront/internal/infrastructure/db/mongo"
	"github.com/shopfront/storefront/internal/infrastructure/db/postgres"
	redisdb "github.com/shopfront/storefront/internal/infrastructure/db/redis"
	"github.com/shopfront/storefront/internal/infrastructure/http/handlers"
	"github.com/shopfront/storefront/internal/infrastructure/queue"
	"github.com/shopfront/storefront/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Pretty(), Service: "storefront-api"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("api stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	pg, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
	if err != nil {
		return err
	}

	var publisher ports.OrderEventPublisher = rabbitmq.NopPublisher{Log: log}
	if cfg.AMQP.URL != "" {
		p, err := rabbitmq.Dial(rabbitmq.Config{URL: cfg.AMQP.URL, Exchange: cfg.AMQP.Exchange}, log.With().Str("component", "amqp").Logger())
		if err != nil {
			return err
		}
		defer p.Close()
		publisher = p
	} else {
		log.Warn().Msg("AMQP_URL not set, order events will not be published")
	}

	// --- Repositories ---
	userRepo := mongodb.NewAuthRepository(db)
	orderRepo := mongodb.NewOrderRepository(db)
	eventRepo := mongodb.NewEventRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := orderRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	productRepo := postgres.NewProductRepository(pg)

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	orderService := service.NewOrderService(orderRepo, publisher, log.With().Str("component", "orders").Logger())
	productService := service.NewProductService(productRepo,
		redisdb.NewProductCache(rdb, cfg.Postgres.ProductCacheTTL),
		log.With().Str("component", "products").Logger())
	eventService := service.NewEventService(orderRepo, eventRepo, redisdb.NewDedupChecker(rdb),
		log.With().Str("component", "tracking").Logger())

	dispatcher := queue.NewDispatcher(cfg.Tracking.Workers, cfg.Tracking.QueueSize, eventService,
		log.With().Str("component", "dispatcher").Logger())
	dispatcher.Start(ctx)

	e := api.NewRouter(api.Deps{
		AuthService:    authService,
		OrderService:   orderService,
		ProductService: productService,
		Dispatcher:     dispatcher,
		JWTSecret:      cfg.JWTSecret,
		Checks: []handlers.Check{
			handlers.MongoCheck(db),
			handlers.RedisCheck(rdb),
			handlers.PostgresCheck(pg),
		},
		Log: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
