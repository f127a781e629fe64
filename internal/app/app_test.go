package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/vladislavdragonenkov/storefront/internal/auth"
	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/webhook"
	adminv1 "github.com/vladislavdragonenkov/storefront/proto/storefront/admin/v1"
)

const demoCheckoutBody = `{
	"customerId": "demo-customer",
	"items": [{"productId": "product-1", "productName": "Linen shirt", "unitPrice": 19.99, "quantity": 2}],
	"shippingAddress": {
		"fullName": "Ada Lovelace", "addressLine1": "1 Main St", "city": "London",
		"state": "Greater London", "postalCode": "N1 9GU", "country": "GB"
	},
	"paymentMethod": "card"
}`

type ApplicationSuite struct {
	suite.Suite

	cfg    Config
	app    *application
	server *httptest.Server
	admin  string
}

func TestApplicationSuite(t *testing.T) {
	suite.Run(t, new(ApplicationSuite))
}

func (s *ApplicationSuite) SetupTest() {
	s.cfg = validConfig()
	app, err := newApplication(context.Background(), s.cfg, log.WithField("test", "app"))
	s.Require().NoError(err)
	s.app = app
	s.T().Cleanup(app.close)

	s.server = httptest.NewServer(app.router)
	s.T().Cleanup(s.server.Close)

	token, err := auth.Sign(s.cfg.JWTSecret, "operator-1", auth.RoleAdmin, time.Hour)
	s.Require().NoError(err)
	s.admin = token
}

func (s *ApplicationSuite) post(path, token string, body []byte, headers map[string]string) (int, map[string]any) {
	req, err := http.NewRequest(http.MethodPost, s.server.URL+path, bytes.NewReader(body))
	s.Require().NoError(err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp.StatusCode, decoded
}

func (s *ApplicationSuite) TestCheckoutAndWebhookThroughWiredRouter() {
	customer, err := auth.Sign(s.cfg.JWTSecret, demoCustomerID, "", time.Hour)
	s.Require().NoError(err)

	code, created := s.post("/api/checkout", customer, []byte(demoCheckoutBody), nil)
	s.Require().Equal(http.StatusCreated, code, "body: %v", created)
	s.Equal("39.98", created["totalAmount"])
	orderID := created["orderId"].(string)
	sessionID := created["sessionId"].(string)

	payload := []byte(fmt.Sprintf(`{"id":"evt_app","type":"checkout.session.completed","created":%d,"data":{"object":{"id":%q,"payment_status":"paid","metadata":{"order_id":%q}}}}`,
		time.Now().Unix(), sessionID, orderID))
	code, ack := s.post("/webhook/stripe", "", payload, map[string]string{
		webhook.SignatureHeader: webhook.SignPayload(s.cfg.WebhookSecret, payload, time.Now()),
	})
	s.Require().Equal(http.StatusOK, code)
	s.Equal(string(webhook.OutcomeProcessed), ack["outcome"])

	order, err := s.app.ledger.Get(context.Background(), orderID)
	s.Require().NoError(err)
	s.True(order.IsPaid)

	stats, err := s.app.deps.outboxRepo.Stats(context.Background())
	s.Require().NoError(err)
	s.Equal(2, stats.PendingCount)
}

func (s *ApplicationSuite) TestGRPCServerRequiresAdmin() {
	listener := bufconn.Listen(1024 * 1024)
	go func() { _ = s.app.grpcServer.Serve(listener) }()
	s.T().Cleanup(s.app.grpcServer.Stop)

	dialer := func(context.Context, string) (net.Conn, error) { return listener.Dial() }
	//nolint:staticcheck // grpc.Dial is required for bufconn testing
	conn, err := grpc.Dial("bufnet", grpc.WithContextDialer(dialer), grpc.WithTransportCredentials(insecure.NewCredentials()))
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })

	health, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: adminv1.OrderAdmin_ServiceDesc.ServiceName})
	s.Require().NoError(err)
	s.Equal(healthpb.HealthCheckResponse_SERVING, health.GetStatus())

	client := adminv1.NewOrderAdminClient(conn)
	_, err = client.GetOrder(context.Background(), &adminv1.GetOrderRequest{OrderId: "missing"})
	s.Equal(codes.Unauthenticated, status.Code(err))

	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+s.admin)
	_, err = client.GetOrder(ctx, &adminv1.GetOrderRequest{OrderId: "missing"})
	s.Equal(codes.NotFound, status.Code(err))
}

func (s *ApplicationSuite) TestHealthChecksRegistered() {
	s.Equal([]string{"outbox", "storage"}, s.app.health.Names())

	rec := httptest.NewRecorder()
	s.app.health.ReadinessHandler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *ApplicationSuite) TestOutboxWorkerDisabledWithoutKafka() {
	s.Nil(s.app.producer)
	s.Nil(s.app.outboxWorker)
	s.NotNil(s.app.cleanupWorker)
}

func TestOutboxBacklogChecker(t *testing.T) {
	deps, err := initRuntimeDependencies(context.Background(), validConfig(), log.WithField("test", "backlog"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.closeFn() })

	checker := outboxBacklogChecker(deps, 0)
	require.Equal(t, "healthy", string(checker.Check().Status))

	_, err = deps.outboxRepo.Enqueue(context.Background(), outboxMessage("order-1"))
	require.NoError(t, err)
	_, err = deps.outboxRepo.Enqueue(context.Background(), outboxMessage("order-2"))
	require.NoError(t, err)

	require.Equal(t, "unhealthy", string(outboxBacklogChecker(deps, 1).Check().Status))
	require.Equal(t, "healthy", string(outboxBacklogChecker(deps, 5).Check().Status))
}

func outboxMessage(orderID string) domain.OutboxMessage {
	return domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   orderID,
		EventType:     "order.created",
		Payload:       []byte(`{}`),
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := validConfig()
	cfg.StorageDriver = "sqlite"

	err := Run(context.Background(), cfg)
	require.ErrorContains(t, err, "unsupported storage driver")
}

func TestRun_GracefulShutdown(t *testing.T) {
	cfg := validConfig()
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.GRPCAddr = "127.0.0.1:0"
	cfg.MetricsAddr = "127.0.0.1:0"

	hook := logtest.NewLocal(log.StandardLogger())
	t.Cleanup(func() { log.StandardLogger().ReplaceHooks(make(log.LevelHooks)) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg) }()

	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	cyrillic := regexp.MustCompile(`[\p{Cyrillic}]`)
	messages := make(map[string]bool)
	for _, entry := range hook.AllEntries() {
		if entry.Data["component"] != "app" {
			continue
		}
		messages[entry.Message] = true
		require.False(t, cyrillic.MatchString(entry.Message), "log message %q", entry.Message)
	}
	require.True(t, messages["http server listening"])
	require.True(t, messages["grpc server listening"])
	require.True(t, messages["shutdown signal received, stopping servers"])
}
