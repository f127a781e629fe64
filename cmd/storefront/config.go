package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/app"
)

const (
	envHTTPAddr    = "STOREFRONT_HTTP_ADDR"
	envGRPCAddr    = "STOREFRONT_GRPC_ADDR"
	envMetricsAddr = "STOREFRONT_METRICS_ADDR"

	envStorageDriver       = "STOREFRONT_STORAGE_DRIVER"
	envPostgresDSN         = "STOREFRONT_POSTGRES_DSN"
	envPostgresAutoMigrate = "STOREFRONT_POSTGRES_AUTO_MIGRATE"
	envPostgresMaxOpen     = "STOREFRONT_POSTGRES_MAX_OPEN_CONNS"
	envPostgresMaxIdle     = "STOREFRONT_POSTGRES_MAX_IDLE_CONNS"
	envPostgresMaxLifetime = "STOREFRONT_POSTGRES_CONN_MAX_LIFETIME"
	envPostgresMaxIdleTime = "STOREFRONT_POSTGRES_CONN_MAX_IDLE_TIME"
	envPostgresConnTimeout = "STOREFRONT_POSTGRES_CONNECT_TIMEOUT"
	envRedisAddr           = "STOREFRONT_REDIS_ADDR"
	envMongoURI            = "STOREFRONT_MONGO_URI"
	envMongoDatabase       = "STOREFRONT_MONGO_DATABASE"
	envCatalogCacheTTL     = "STOREFRONT_CATALOG_CACHE_TTL"

	envKafkaBrokers  = "STOREFRONT_KAFKA_BROKERS"
	envKafkaTopic    = "STOREFRONT_KAFKA_TOPIC"
	envKafkaDLQTopic = "STOREFRONT_KAFKA_DLQ_TOPIC"

	envOutboxPollInterval = "STOREFRONT_OUTBOX_POLL_INTERVAL"
	envOutboxBatchSize    = "STOREFRONT_OUTBOX_BATCH_SIZE"
	envOutboxMaxAttempts  = "STOREFRONT_OUTBOX_MAX_ATTEMPTS"
	envOutboxRetryDelay   = "STOREFRONT_OUTBOX_RETRY_DELAY"
	envOutboxMaxPending   = "STOREFRONT_OUTBOX_MAX_PENDING"

	envIdempotencyTTL              = "STOREFRONT_IDEMPOTENCY_TTL"
	envIdempotencyCleanupInterval  = "STOREFRONT_IDEMPOTENCY_CLEANUP_INTERVAL"
	envIdempotencyCleanupBatchSize = "STOREFRONT_IDEMPOTENCY_CLEANUP_BATCH_SIZE"

	envPaymentProvider       = "STOREFRONT_PAYMENT_PROVIDER"
	envStripeSecretKey       = "STOREFRONT_STRIPE_SECRET_KEY"
	envStripeAPIBaseURL      = "STOREFRONT_STRIPE_API_BASE_URL"
	envWebhookSecret         = "STOREFRONT_WEBHOOK_SECRET"
	envWebhookSecretPrevious = "STOREFRONT_WEBHOOK_SECRET_PREVIOUS"
	envWebhookTolerance      = "STOREFRONT_WEBHOOK_TOLERANCE"
	envGatewayTimeout        = "STOREFRONT_GATEWAY_TIMEOUT"

	envCurrency   = "STOREFRONT_CURRENCY"
	envSuccessURL = "STOREFRONT_SUCCESS_URL"
	envCancelURL  = "STOREFRONT_CANCEL_URL"
	envJWTSecret  = "STOREFRONT_JWT_SECRET"

	envCheckoutRateLimit = "STOREFRONT_CHECKOUT_RATE_LIMIT"
	envCheckoutRateBurst = "STOREFRONT_CHECKOUT_RATE_BURST"

	envAllowMockIntegrations = "STOREFRONT_ALLOW_MOCK_INTEGRATIONS"

	envLogFormat = "STOREFRONT_LOG_FORMAT"
	envLogLevel  = "STOREFRONT_LOG_LEVEL"
)

type envLookup func(string) (string, bool)

func positiveInt(v int) bool { return v > 0 }

func nonNegativeInt(v int) bool { return v >= 0 }

func positiveDuration(v time.Duration) bool { return v > 0 }

func nonNegativeDuration(v time.Duration) bool { return v >= 0 }

// readConfigFromEnv читает STOREFRONT_* поверх DefaultConfig.
// Некорректные значения не прерывают запуск: остаётся значение по умолчанию и добавляется предупреждение.
func readConfigFromEnv(lookup envLookup) (app.Config, []string) {
	cfg := app.DefaultConfig()
	var warnings []string

	warn := func(key, raw string, err error) {
		warnings = append(warnings, fmt.Sprintf("%s=%q ignored: %v", key, raw, err))
	}

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	lower := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.ToLower(strings.TrimSpace(v))
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			parsed, err := parseBool(v)
			if err != nil {
				warn(key, v, err)
				return
			}
			*dst = parsed
		}
	}
	integer := func(key string, dst *int, validate func(int) bool, msg string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			parsed, err := parseInt(v, validate, msg)
			if err != nil {
				warn(key, v, err)
				return
			}
			*dst = parsed
		}
	}
	duration := func(key string, dst *time.Duration, validate func(time.Duration) bool, msg string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			parsed, err := parseDuration(v, validate, msg)
			if err != nil {
				warn(key, v, err)
				return
			}
			*dst = parsed
		}
	}

	str(envHTTPAddr, &cfg.HTTPAddr)
	str(envGRPCAddr, &cfg.GRPCAddr)
	str(envMetricsAddr, &cfg.MetricsAddr)

	lower(envStorageDriver, &cfg.StorageDriver)
	str(envPostgresDSN, &cfg.PostgresDSN)
	boolean(envPostgresAutoMigrate, &cfg.PostgresAutoMigrate)
	integer(envPostgresMaxOpen, &cfg.PostgresMaxOpenConns, positiveInt, "must be > 0")
	integer(envPostgresMaxIdle, &cfg.PostgresMaxIdleConns, positiveInt, "must be > 0")
	duration(envPostgresMaxLifetime, &cfg.PostgresConnMaxLifetime, positiveDuration, "must be > 0")
	duration(envPostgresMaxIdleTime, &cfg.PostgresConnMaxIdleTime, positiveDuration, "must be > 0")
	duration(envPostgresConnTimeout, &cfg.PostgresConnectTimeout, positiveDuration, "must be > 0")
	str(envRedisAddr, &cfg.RedisAddr)
	str(envMongoURI, &cfg.MongoURI)
	str(envMongoDatabase, &cfg.MongoDatabase)
	duration(envCatalogCacheTTL, &cfg.CatalogCacheTTL, positiveDuration, "must be > 0")

	str(envKafkaBrokers, &cfg.KafkaBrokers)
	str(envKafkaTopic, &cfg.KafkaTopic)
	str(envKafkaDLQTopic, &cfg.KafkaDLQTopic)

	duration(envOutboxPollInterval, &cfg.OutboxPollInterval, positiveDuration, "must be > 0")
	integer(envOutboxBatchSize, &cfg.OutboxBatchSize, positiveInt, "must be > 0")
	integer(envOutboxMaxAttempts, &cfg.OutboxMaxAttempts, positiveInt, "must be > 0")
	duration(envOutboxRetryDelay, &cfg.OutboxRetryDelay, nonNegativeDuration, "must be >= 0")
	integer(envOutboxMaxPending, &cfg.OutboxMaxPending, nonNegativeInt, "must be >= 0")

	duration(envIdempotencyTTL, &cfg.IdempotencyTTL, positiveDuration, "must be > 0")
	duration(envIdempotencyCleanupInterval, &cfg.IdempotencyCleanupInterval, positiveDuration, "must be > 0")
	integer(envIdempotencyCleanupBatchSize, &cfg.IdempotencyCleanupBatchSize, positiveInt, "must be > 0")

	lower(envPaymentProvider, &cfg.PaymentProvider)
	str(envStripeSecretKey, &cfg.StripeSecretKey)
	str(envStripeAPIBaseURL, &cfg.StripeAPIBaseURL)
	str(envWebhookSecret, &cfg.WebhookSecret)
	str(envWebhookSecretPrevious, &cfg.WebhookSecretPrevious)
	duration(envWebhookTolerance, &cfg.WebhookTolerance, positiveDuration, "must be > 0")
	duration(envGatewayTimeout, &cfg.GatewayTimeout, positiveDuration, "must be > 0")

	lower(envCurrency, &cfg.Currency)
	str(envSuccessURL, &cfg.SuccessURL)
	str(envCancelURL, &cfg.CancelURL)
	str(envJWTSecret, &cfg.JWTSecret)

	if v, ok := lookup(envCheckoutRateLimit); ok && strings.TrimSpace(v) != "" {
		parsed, err := parseFloat(v)
		if err != nil {
			warn(envCheckoutRateLimit, v, err)
		} else {
			cfg.CheckoutRateLimit = parsed
		}
	}
	integer(envCheckoutRateBurst, &cfg.CheckoutRateBurst, positiveInt, "must be > 0")

	boolean(envAllowMockIntegrations, &cfg.AllowMockIntegrations)

	return cfg, warnings
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y", "on":
		return true, nil
	case "0", "false", "no", "n", "off":
		return false, nil
	default:
		return false, errors.New("expected boolean")
	}
}

func parseInt(raw string, validate func(int) bool, msg string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("expected integer: %w", err)
	}
	if validate != nil && !validate(value) {
		return 0, errors.New(msg)
	}
	return value, nil
}

func parseDuration(raw string, validate func(time.Duration) bool, msg string) (time.Duration, error) {
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("expected duration: %w", err)
	}
	if validate != nil && !validate(value) {
		return 0, errors.New(msg)
	}
	return value, nil
}

func parseFloat(raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("expected number: %w", err)
	}
	if value <= 0 {
		return 0, errors.New("must be > 0")
	}
	return value, nil
}
