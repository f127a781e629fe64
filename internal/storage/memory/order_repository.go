package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
type orderRepositoryInMemory struct {
	mu        sync.RWMutex
	items     map[string]domain.Order
	bySession map[string]string
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items:     make(map[string]domain.Order),
		bySession: make(map[string]string),
	}
}

// Create сохраняет новый заказ, если ID ещё не занят.
func (r *orderRepositoryInMemory) Create(_ context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[order.ID]; exists {
		return domain.ErrOrderAlreadyExists
	}
	r.items[order.ID] = cloneOrder(order)
	return nil
}

// Get возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepositoryInMemory) Get(_ context.Context, id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

// GetBySessionID возвращает заказ, оплаченный указанной сессией шлюза.
func (r *orderRepositoryInMemory) GetBySessionID(_ context.Context, sessionID string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySession[sessionID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(r.items[id]), nil
}

// List возвращает страницу заказов, новые первыми.
func (r *orderRepositoryInMemory) List(_ context.Context, page, limit int) (domain.OrderPage, error) {
	r.mu.RLock()
	all := make([]domain.Order, 0, len(r.items))
	for _, order := range r.items {
		all = append(all, order)
	}
	r.mu.RUnlock()

	sortNewestFirst(all)

	result := domain.OrderPage{Page: page, Limit: limit, TotalItems: len(all)}
	start := (page - 1) * limit
	if page < 1 || limit < 1 || start >= len(all) {
		result.Orders = []domain.Order{}
		return result, nil
	}
	end := min(start+limit, len(all))
	result.Orders = make([]domain.Order, 0, end-start)
	for _, order := range all[start:end] {
		result.Orders = append(result.Orders, cloneOrder(order))
	}
	return result, nil
}

// ListByCustomer возвращает заказы клиента, ограничивая выборку limit (если >0).
func (r *orderRepositoryInMemory) ListByCustomer(_ context.Context, customerID string, limit int) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0, len(r.items))
	for _, order := range r.items {
		if order.CustomerID != customerID {
			continue
		}
		result = append(result, cloneOrder(order))
	}

	sortNewestFirst(result)

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

// Save обновляет статусы заказа, проверяя версию (optimistic locking).
// Позиции и итог берутся из сохранённой версии.
func (r *orderRepositoryInMemory) Save(_ context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if current.Version != order.Version {
		return domain.ErrOrderVersionConflict
	}
	if order.Transaction != nil {
		if owner, bound := r.bySession[order.Transaction.SessionID]; bound && owner != order.ID {
			return domain.ErrSessionAlreadyBound
		}
	}

	next := cloneOrder(order)
	next.Items = current.Items
	next.TotalAmount = current.TotalAmount
	next.CreatedAt = current.CreatedAt
	next.Version++
	r.items[order.ID] = next
	if next.Transaction != nil {
		r.bySession[next.Transaction.SessionID] = next.ID
	}
	return nil
}

func sortNewestFirst(orders []domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
}

func cloneOrder(src domain.Order) domain.Order {
	dst := src
	dst.Items = append([]domain.LineItem(nil), src.Items...)
	if src.PaidAt != nil {
		at := *src.PaidAt
		dst.PaidAt = &at
	}
	if src.DeliveredAt != nil {
		at := *src.DeliveredAt
		dst.DeliveredAt = &at
	}
	if src.Transaction != nil {
		tx := *src.Transaction
		dst.Transaction = &tx
	}
	return dst
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
