package payment

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// MockGateway — конфигурируемая заглушка PaymentGateway для тестов и локального запуска.
type MockGateway struct {
	mu sync.Mutex

	// BaseURL — адрес, на который указывает RedirectURL сессии.
	BaseURL string
	// Err возвращается вместо создания сессии.
	Err error

	requests []domain.SessionRequest
}

// NewMockGateway возвращает mock с успешным сценарием по умолчанию.
func NewMockGateway(baseURL string) *MockGateway {
	if baseURL == "" {
		baseURL = "http://localhost:8080/mock-checkout"
	}
	return &MockGateway{BaseURL: strings.TrimRight(baseURL, "/")}
}

// CreateCheckoutSession запоминает запрос и возвращает сессию со случайным идентификатором.
func (m *MockGateway) CreateCheckoutSession(ctx context.Context, req domain.SessionRequest) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}
	if m.Err != nil {
		return domain.Session{}, m.Err
	}

	id := "cs_mock_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	return domain.Session{ID: id, RedirectURL: m.BaseURL + "/" + id}, nil
}

// Requests возвращает копию полученных запросов.
func (m *MockGateway) Requests() []domain.SessionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.SessionRequest(nil), m.requests...)
}

// Calls возвращает число вызовов.
func (m *MockGateway) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

var _ domain.PaymentGateway = (*MockGateway)(nil)
