// Package app собирает сервис: хранилища, журнал заказов, оформление, вебхуки, HTTP и gRPC.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	promgrpc "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/vladislavdragonenkov/storefront/internal/auth"
	healthcheck "github.com/vladislavdragonenkov/storefront/internal/health"
	"github.com/vladislavdragonenkov/storefront/internal/httpx"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
	grpcsvc "github.com/vladislavdragonenkov/storefront/internal/service/grpc"
	"github.com/vladislavdragonenkov/storefront/internal/service/idempotency"
	"github.com/vladislavdragonenkov/storefront/internal/service/ledger"
	"github.com/vladislavdragonenkov/storefront/internal/service/outbox"
	"github.com/vladislavdragonenkov/storefront/internal/service/validation"
	"github.com/vladislavdragonenkov/storefront/internal/service/webhook"
	"github.com/vladislavdragonenkov/storefront/internal/version"
	adminv1 "github.com/vladislavdragonenkov/storefront/proto/storefront/admin/v1"
)

const (
	shutdownTimeout     = 5 * time.Second
	limiterSweepPeriod  = time.Minute
	readHeaderTimeout   = 5 * time.Second
	httpWriteTimeout    = 30 * time.Second
	httpIdleConnTimeout = 2 * time.Minute
)

// application — собранный граф зависимостей без открытых сокетов.
type application struct {
	cfg    Config
	logger *log.Entry

	deps     *runtimeDependencies
	producer *kafka.Producer

	ledger     *ledger.Service
	router     http.Handler
	grpcServer *grpc.Server
	grpcHealth *health.Server
	health     *healthcheck.Handler
	limiter    *httpx.ClientLimiter

	outboxWorker  *outbox.Worker
	cleanupWorker *idempotency.CleanupWorker
}

// newApplication открывает хранилища и интеграции и связывает компоненты.
func newApplication(ctx context.Context, cfg Config, logger *log.Entry) (*application, error) {
	deps, err := initRuntimeDependencies(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	app := &application{cfg: cfg, logger: logger, deps: deps}
	if err := app.wire(); err != nil {
		app.close()
		return nil, err
	}
	return app, nil
}

func (a *application) wire() error {
	cfg, logger := a.cfg, a.logger
	reg := prometheus.DefaultRegisterer
	m := metrics.NewWithRegisterer(reg)
	if err := version.RegisterBuildInfo(reg, version.Current()); err != nil {
		logger.WithError(err).Warn("build info metric is not registered")
	}

	tokens, err := auth.NewVerifier(cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("jwt verifier: %w", err)
	}
	signatures, err := webhook.NewVerifier(cfg.WebhookTolerance, cfg.webhookSecrets()...)
	if err != nil {
		return fmt.Errorf("webhook verifier: %w", err)
	}

	a.ledger = ledger.New(a.deps.repo,
		ledger.WithTimeline(a.deps.timelineRepo),
		ledger.WithOutbox(a.deps.outboxRepo),
		ledger.WithMetrics(m),
		ledger.WithLogger(logger.WithField("component", "ledger")),
	)
	initiator := checkout.NewInitiator(
		cfg.checkoutConfig(),
		a.deps.customers,
		a.deps.catalog,
		a.ledger,
		a.deps.gateway,
		m,
		logger.WithField("component", "checkout"),
	)
	reconciler := webhook.NewReconciler(signatures, a.ledger, m, logger)
	guard := idempotency.NewGuard(a.deps.idempotencyRepo, cfg.IdempotencyTTL, logger.WithField("component", "idempotency"))
	a.limiter = httpx.NewClientLimiter(cfg.CheckoutRateLimit, cfg.CheckoutRateBurst)

	a.router = httpx.NewRouter(httpx.Dependencies{
		Checkout:          initiator,
		Webhooks:          reconciler,
		Orders:            a.ledger,
		Guard:             guard,
		Auth:              tokens,
		Limiter:           a.limiter,
		CheckoutValidator: validation.NewCheckoutValidator(),
		StatusValidator:   validation.NewStatusValidator(),
		Logger:            logger.WithField("component", "http"),
	})

	a.grpcServer, a.grpcHealth = newGRPCServer(a.ledger, guard, tokens, logger)

	a.health = healthcheck.NewHandler(version.Current().Version)
	a.deps.registerChecks(a.health)
	a.health.RegisterOptional("outbox", outboxBacklogChecker(a.deps, cfg.OutboxMaxPending))

	a.producer, _ = initKafkaProducer(cfg.KafkaBrokers, logger)
	if publisher, dlq := outboxPublishers(a.producer, cfg); publisher != nil {
		a.outboxWorker = outbox.NewWorker(a.deps.outboxRepo, publisher,
			outbox.WithLogger(logger.WithField("component", "outbox-worker")),
			outbox.WithDLQPublisher(dlq),
			outbox.WithMetrics(metrics.NewOutboxMetrics(reg)),
			outbox.WithPollInterval(cfg.OutboxPollInterval),
			outbox.WithBatchSize(cfg.OutboxBatchSize),
			outbox.WithMaxAttempts(cfg.OutboxMaxAttempts),
			outbox.WithRetryBaseDelay(cfg.OutboxRetryDelay),
		)
	}
	a.cleanupWorker = idempotency.NewCleanupWorker(a.deps.idempotencyRepo,
		idempotency.WithLogger(logger.WithField("component", "idempotency-cleanup-worker")),
		idempotency.WithMetrics(metrics.NewCleanupMetrics(reg)),
		idempotency.WithInterval(cfg.IdempotencyCleanupInterval),
		idempotency.WithBatchSize(cfg.IdempotencyCleanupBatchSize),
	)
	return nil
}

// newGRPCServer создаёт gRPC-сервер операторского API с метриками, аутентификацией, health и reflection.
func newGRPCServer(orders grpcsvc.OrderService, guard *idempotency.Guard, tokens *auth.Verifier, logger *log.Entry) (*grpc.Server, *health.Server) {
	grpcMetrics := promgrpc.NewServerMetrics()
	if err := prometheus.Register(grpcMetrics); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*promgrpc.ServerMetrics); ok {
				grpcMetrics = existing
			}
		} else {
			logger.WithError(err).Warn("failed to register grpc metrics")
		}
	}

	server := grpc.NewServer(grpc.ChainUnaryInterceptor(
		grpcMetrics.UnaryServerInterceptor(),
		grpcsvc.AuthUnaryInterceptor(tokens),
	))
	adminv1.RegisterOrderAdminServer(server, grpcsvc.NewOrderAdmin(orders, guard, logger.WithField("component", "grpc")))

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(adminv1.OrderAdmin_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, healthServer)

	reflection.Register(server)
	grpcMetrics.InitializeMetrics(server)
	return server, healthServer
}

// outboxBacklogChecker сообщает о переполнении outbox, когда события не уходят в Kafka.
func outboxBacklogChecker(deps *runtimeDependencies, maxPending int) healthcheck.Checker {
	return healthcheck.NewPingChecker("outbox", 0, func(ctx context.Context) error {
		stats, err := deps.outboxRepo.Stats(ctx)
		if err != nil {
			return err
		}
		if maxPending > 0 && stats.PendingCount > maxPending {
			return fmt.Errorf("outbox backlog %d exceeds %d", stats.PendingCount, maxPending)
		}
		return nil
	})
}

// close освобождает producer и подключения к хранилищам.
func (a *application) close() {
	closeKafkaProducer(a.producer, a.logger)
	a.producer = nil
	if a.deps != nil {
		if err := a.deps.closeFn(); err != nil {
			a.logger.WithError(err).Warn("failed to close dependencies")
		}
	}
}

// startWorkers запускает фоновые процессы; возвращает функцию остановки.
func (a *application) startWorkers(ctx context.Context) func() {
	workerCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup

	run := func(name string, fn func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.logger.WithField("worker", name).Info("worker started")
			fn(workerCtx)
		}()
	}

	if a.outboxWorker != nil {
		run("outbox", a.outboxWorker.Run)
	} else {
		a.logger.Warn("kafka is not configured, outbox events stay pending")
	}
	run("idempotency-cleanup", a.cleanupWorker.Run)
	run("rate-limiter-sweep", func(ctx context.Context) { a.limiter.Run(ctx, limiterSweepPeriod) })

	return func() {
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		stopWorkers(cancel, done, a.logger)
	}
}

// stopWorkers отменяет контекст воркеров и ждёт их завершения не дольше shutdownTimeout.
func stopWorkers(cancel context.CancelFunc, done <-chan struct{}, logger *log.Entry) {
	if cancel != nil {
		cancel()
	}
	if done == nil {
		return
	}
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		logger.Warn("workers did not stop within shutdown timeout")
	}
}

// Run запускает HTTP, gRPC и сервер метрик и блокируется до отмены ctx или ошибки сервера.
func Run(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	logger := log.WithField("component", "app")
	logger.WithFields(version.Current().Fields()).Info("starting storefront")

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.close()

	httpLis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return err
	}
	grpcLis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		_ = httpLis.Close()
		return err
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, app.health)
	stopBackground := app.startWorkers(ctx)

	httpSrv := &http.Server{
		Handler:           app.router,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      httpWriteTimeout,
		IdleTimeout:       httpIdleConnTimeout,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("http server listening")
		if err := httpSrv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		logger.WithField("addr", cfg.GRPCAddr).Info("grpc server listening")
		if err := app.grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping servers")
		runErr = ctx.Err()
	case runErr = <-errCh:
		logger.WithError(runErr).Error("server failed, shutting down")
	}

	app.grpcHealth.Shutdown()
	shutdownHTTP(httpSrv, logger)
	stopGRPC(app.grpcServer, logger)
	stopBackground()
	shutdownHTTP(metricsSrv, logger)

	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

// stopGRPC ждёт завершения активных вызовов не дольше shutdownTimeout.
func stopGRPC(server *grpc.Server, logger *log.Entry) {
	stopped := make(chan struct{})
	go func() {
		server.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(shutdownTimeout):
		logger.Warn("grpc graceful stop timed out, forcing stop")
		server.Stop()
	}
}

// startMetricsServer запускает /metrics, /healthz, /livez и /readyz.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: readHeaderTimeout}
	go func() {
		logger.WithField("addr", addr).Info("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
