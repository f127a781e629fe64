package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
	"github.com/vladislavdragonenkov/storefront/internal/service/webhook"
	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"

	PaymentProviderMock   = "mock"
	PaymentProviderStripe = "stripe"
)

// Config описывает все настройки запуска. Только скалярные поля: конфигурация сравнима через ==.
type Config struct {
	HTTPAddr    string
	GRPCAddr    string
	MetricsAddr string

	StorageDriver       string
	PostgresDSN         string
	PostgresAutoMigrate bool
	// Пул соединений PostgreSQL; неположительные значения заменяются значениями по умолчанию.
	PostgresMaxOpenConns    int
	PostgresMaxIdleConns    int
	PostgresConnMaxLifetime time.Duration
	PostgresConnMaxIdleTime time.Duration
	PostgresConnectTimeout  time.Duration

	// RedisAddr включает хранение ключей идемпотентности в Redis.
	RedisAddr string

	// MongoURI включает справочник покупателей и товаров из MongoDB.
	MongoURI        string
	MongoDatabase   string
	CatalogCacheTTL time.Duration

	// KafkaBrokers — список через запятую; пусто означает работу без Kafka.
	KafkaBrokers  string
	KafkaTopic    string
	KafkaDLQTopic string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int
	OutboxRetryDelay   time.Duration
	OutboxMaxPending   int

	IdempotencyTTL              time.Duration
	IdempotencyCleanupInterval  time.Duration
	IdempotencyCleanupBatchSize int

	PaymentProvider  string
	StripeSecretKey  string
	StripeAPIBaseURL string
	WebhookSecret    string
	// WebhookSecretPrevious принимается наравне с основным на время ротации.
	WebhookSecretPrevious string
	WebhookTolerance      time.Duration
	GatewayTimeout        time.Duration

	Currency   string
	SuccessURL string
	CancelURL  string

	JWTSecret string

	CheckoutRateLimit float64
	CheckoutRateBurst int

	// AllowMockIntegrations разрешает mock-шлюз и in-memory справочник.
	AllowMockIntegrations bool
}

// DefaultConfig возвращает конфигурацию для локального запуска.
func DefaultConfig() Config {
	co := checkout.DefaultConfig()
	pool := postgres.DefaultPoolConfig()
	return Config{
		HTTPAddr:    ":8080",
		GRPCAddr:    ":50051",
		MetricsAddr: ":9090",

		StorageDriver:           StorageDriverMemory,
		PostgresAutoMigrate:     true,
		PostgresMaxOpenConns:    pool.MaxOpenConns,
		PostgresMaxIdleConns:    pool.MaxIdleConns,
		PostgresConnMaxLifetime: pool.ConnMaxLifetime,
		PostgresConnMaxIdleTime: pool.ConnMaxIdleTime,
		PostgresConnectTimeout:  pool.ConnectTimeout,

		MongoDatabase:   "storefront",
		CatalogCacheTTL: 5 * time.Minute,

		KafkaTopic:    kafka.TopicOrderEvents,
		KafkaDLQTopic: kafka.TopicDeadLetterQueue,

		OutboxPollInterval: time.Second,
		OutboxBatchSize:    100,
		OutboxMaxAttempts:  3,
		OutboxRetryDelay:   50 * time.Millisecond,
		OutboxMaxPending:   10000,

		IdempotencyTTL:              24 * time.Hour,
		IdempotencyCleanupInterval:  time.Minute,
		IdempotencyCleanupBatchSize: 500,

		PaymentProvider:  PaymentProviderMock,
		WebhookTolerance: webhook.DefaultTolerance,
		GatewayTimeout:   co.GatewayTimeout,

		Currency:   co.Currency,
		SuccessURL: co.SuccessURL,
		CancelURL:  co.CancelURL,

		CheckoutRateLimit: 5,
		CheckoutRateBurst: 10,

		AllowMockIntegrations: true,
	}
}

// Validate проверяет согласованность настроек перед запуском.
func (c Config) Validate() error {
	var errs []error

	for name, addr := range map[string]string{"http": c.HTTPAddr, "grpc": c.GRPCAddr, "metrics": c.MetricsAddr} {
		if strings.TrimSpace(addr) == "" {
			errs = append(errs, fmt.Errorf("%s address is required", name))
		}
	}

	switch c.StorageDriver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			errs = append(errs, errors.New("postgres dsn is required for postgres storage driver"))
		}
		if c.PostgresMaxIdleConns > c.PostgresMaxOpenConns && c.PostgresMaxOpenConns > 0 {
			errs = append(errs, errors.New("postgres max idle connections must not exceed max open connections"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported storage driver %q", c.StorageDriver))
	}

	switch c.PaymentProvider {
	case PaymentProviderMock:
		if !c.AllowMockIntegrations {
			errs = append(errs, errors.New("mock payment provider requires mock integrations to be allowed"))
		}
	case PaymentProviderStripe:
		if strings.TrimSpace(c.StripeSecretKey) == "" {
			errs = append(errs, errors.New("stripe secret key is required for stripe payment provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported payment provider %q", c.PaymentProvider))
	}

	if strings.TrimSpace(c.MongoURI) == "" && !c.AllowMockIntegrations {
		errs = append(errs, errors.New("mongo uri is required when mock integrations are disabled"))
	}
	if strings.TrimSpace(c.WebhookSecret) == "" {
		errs = append(errs, errors.New("webhook signing secret is required"))
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("jwt secret is required"))
	}
	if c.WebhookTolerance <= 0 {
		errs = append(errs, errors.New("webhook tolerance must be positive"))
	}
	if c.GatewayTimeout <= 0 {
		errs = append(errs, errors.New("gateway timeout must be positive"))
	}
	if c.IdempotencyTTL <= 0 {
		errs = append(errs, errors.New("idempotency ttl must be positive"))
	}
	if c.CheckoutRateLimit <= 0 || c.CheckoutRateBurst <= 0 {
		errs = append(errs, errors.New("checkout rate limit and burst must be positive"))
	}
	if c.OutboxBatchSize <= 0 || c.OutboxMaxAttempts <= 0 || c.OutboxPollInterval <= 0 {
		errs = append(errs, errors.New("outbox poll interval, batch size and max attempts must be positive"))
	}

	return errors.Join(errs...)
}

// checkoutConfig переносит настройки оформления в checkout.Config.
func (c Config) checkoutConfig() checkout.Config {
	co := checkout.DefaultConfig()
	co.Currency = c.Currency
	co.SuccessURL = c.SuccessURL
	co.CancelURL = c.CancelURL
	co.GatewayTimeout = c.GatewayTimeout
	return co
}

// postgresPool переносит настройки пула в postgres.PoolConfig.
func (c Config) postgresPool() postgres.PoolConfig {
	return postgres.PoolConfig{
		MaxOpenConns:    c.PostgresMaxOpenConns,
		MaxIdleConns:    c.PostgresMaxIdleConns,
		ConnMaxLifetime: c.PostgresConnMaxLifetime,
		ConnMaxIdleTime: c.PostgresConnMaxIdleTime,
		ConnectTimeout:  c.PostgresConnectTimeout,
	}
}

// webhookSecrets возвращает действующие секреты подписи, основной первым.
func (c Config) webhookSecrets() []string {
	secrets := []string{c.WebhookSecret}
	if prev := strings.TrimSpace(c.WebhookSecretPrevious); prev != "" {
		secrets = append(secrets, prev)
	}
	return secrets
}
