package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/storefront/internal/health"
	"github.com/vladislavdragonenkov/storefront/internal/service/directory"
	"github.com/vladislavdragonenkov/storefront/internal/service/payment"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
	redisstore "github.com/vladislavdragonenkov/storefront/internal/storage/redis"
)

// Демо-покупатель доступен в in-memory справочнике при локальном запуске.
const (
	demoCustomerID    = "demo-customer"
	demoCustomerEmail = "demo@storefront.local"
)

type dependencyCheck struct {
	name     string
	checker  healthcheck.Checker
	optional bool
}

// runtimeDependencies — хранилища и внешние интеграции, выбранные по конфигурации.
type runtimeDependencies struct {
	repo            domain.OrderRepository
	outboxRepo      domain.OutboxRepository
	timelineRepo    domain.TimelineRepository
	idempotencyRepo domain.IdempotencyRepository

	customers domain.CustomerDirectory
	catalog   domain.ProductCatalog
	gateway   domain.PaymentGateway

	storageChecker healthcheck.Checker
	checks         []dependencyCheck
	closers        []func() error
}

// closeFn закрывает подключения в обратном порядке открытия.
func (d *runtimeDependencies) closeFn() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}

func (d *runtimeDependencies) addCheck(name string, checker healthcheck.Checker, optional bool) {
	d.checks = append(d.checks, dependencyCheck{name: name, checker: checker, optional: optional})
}

// registerChecks подключает проверки зависимостей к health handler.
func (d *runtimeDependencies) registerChecks(h *healthcheck.Handler) {
	for _, c := range d.checks {
		if c.optional {
			h.RegisterOptional(c.name, c.checker)
			continue
		}
		h.RegisterChecker(c.name, c.checker)
	}
}

// initRuntimeDependencies открывает хранилища и интеграции. При ошибке уже открытое закрывается.
func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (deps *runtimeDependencies, err error) {
	deps = &runtimeDependencies{}
	defer func() {
		if err != nil {
			if closeErr := deps.closeFn(); closeErr != nil {
				logger.WithError(closeErr).Warn("failed to close partially initialized dependencies")
			}
			deps = nil
		}
	}()

	if err = initStorage(ctx, cfg, deps, logger); err != nil {
		return deps, err
	}
	if err = initRedisIdempotency(ctx, cfg, deps, logger); err != nil {
		return deps, err
	}
	if err = initDirectory(ctx, cfg, deps, logger); err != nil {
		return deps, err
	}
	if err = initGateway(cfg, deps, logger); err != nil {
		return deps, err
	}
	return deps, nil
}

func initStorage(ctx context.Context, cfg Config, deps *runtimeDependencies, logger *log.Entry) error {
	switch strings.TrimSpace(cfg.StorageDriver) {
	case "", StorageDriverMemory:
		deps.repo = memory.NewOrderRepository()
		deps.outboxRepo = memory.NewOutboxRepository()
		deps.timelineRepo = memory.NewTimelineRepository()
		deps.idempotencyRepo = memory.NewIdempotencyRepository()
		deps.storageChecker = healthcheck.NewSimpleChecker("storage", func() error { return nil })
		logger.Info("using in-memory storage")
	case StorageDriverPostgres:
		if strings.TrimSpace(cfg.PostgresDSN) == "" {
			return errors.New("postgres dsn is required for postgres storage driver")
		}
		store, err := postgres.Open(ctx, cfg.PostgresDSN, postgres.WithPool(cfg.postgresPool()))
		if err != nil {
			return fmt.Errorf("open postgres store: %w", err)
		}
		deps.closers = append(deps.closers, store.Close)
		if err := store.RegisterMetrics(prometheus.DefaultRegisterer, "storefront"); err != nil {
			logger.WithError(err).Warn("failed to register postgres pool metrics")
		}

		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("apply postgres migrations: %w", err)
			}
		}

		deps.repo = postgres.NewOrderRepository(store)
		deps.outboxRepo = postgres.NewOutboxRepository(store)
		deps.timelineRepo = postgres.NewTimelineRepository(store)
		deps.idempotencyRepo = postgres.NewIdempotencyRepository(store)
		deps.storageChecker = healthcheck.NewPingChecker("storage", 0, store.Ping)
		pool := store.Pool()
		logger.WithFields(log.Fields{
			"auto_migrate":   cfg.PostgresAutoMigrate,
			"max_open_conns": pool.MaxOpenConns,
			"max_idle_conns": pool.MaxIdleConns,
		}).Info("using postgres storage")
	default:
		return fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	deps.addCheck("storage", deps.storageChecker, false)
	return nil
}

// initRedisIdempotency переносит ключи идемпотентности в Redis, если задан адрес.
func initRedisIdempotency(ctx context.Context, cfg Config, deps *runtimeDependencies, logger *log.Entry) error {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil
	}

	client, err := redisstore.Connect(ctx, addr)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	deps.closers = append(deps.closers, client.Close)

	repo := redisstore.NewIdempotencyRepository(client, redisstore.DefaultKeyPrefix)
	deps.idempotencyRepo = repo
	deps.addCheck("redis", healthcheck.NewPingChecker("redis", 0, repo.Ping), true)
	logger.WithField("addr", addr).Info("idempotency keys stored in redis")
	return nil
}

// initDirectory выбирает справочник покупателей и товаров: MongoDB либо in-memory для локального запуска.
func initDirectory(ctx context.Context, cfg Config, deps *runtimeDependencies, logger *log.Entry) error {
	uri := strings.TrimSpace(cfg.MongoURI)
	if uri == "" {
		if !cfg.AllowMockIntegrations {
			return errors.New("mongo uri is required when mock integrations are disabled")
		}
		mem := directory.NewMemoryDirectory()
		mem.PutCustomer(domain.Customer{ID: demoCustomerID, Email: demoCustomerEmail})
		deps.customers = mem
		deps.catalog = mem
		logger.WithField("customer_id", demoCustomerID).Warn("using in-memory customer directory")
		return nil
	}

	client, err := directory.Connect(ctx, uri)
	if err != nil {
		return err
	}
	deps.closers = append(deps.closers, func() error {
		return client.Disconnect(context.Background())
	})

	dbName := cfg.MongoDatabase
	if strings.TrimSpace(dbName) == "" {
		dbName = DefaultConfig().MongoDatabase
	}
	mongoDir := directory.NewMongoDirectory(client.Database(dbName))
	deps.customers = mongoDir
	deps.catalog = directory.NewCachedCatalog(mongoDir, cfg.CatalogCacheTTL)
	deps.addCheck("mongo", healthcheck.NewPingChecker("mongo", 0, pingMongo(client)), false)
	logger.WithField("database", dbName).Info("using mongo customer directory")
	return nil
}

func pingMongo(client *mongo.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
}

func initGateway(cfg Config, deps *runtimeDependencies, logger *log.Entry) error {
	switch cfg.PaymentProvider {
	case "", PaymentProviderMock:
		if !cfg.AllowMockIntegrations {
			return errors.New("mock payment provider requires mock integrations to be allowed")
		}
		deps.gateway = payment.NewMockGateway("")
		logger.Warn("using mock payment gateway")
	case PaymentProviderStripe:
		gateway, err := payment.NewStripeGateway(payment.StripeConfig{
			SecretKey: cfg.StripeSecretKey,
			Timeout:   cfg.GatewayTimeout,
			BaseURL:   cfg.StripeAPIBaseURL,
			Logger:    logger.WithField("component", "stripe-gateway"),
		})
		if err != nil {
			return err
		}
		deps.gateway = gateway
		logger.Info("using stripe payment gateway")
	default:
		return fmt.Errorf("unsupported payment provider %q", cfg.PaymentProvider)
	}
	return nil
}
