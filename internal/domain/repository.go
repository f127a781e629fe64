package domain

import "context"

// OrderPage — страница заказов, отсортированных по CreatedAt по убыванию.
type OrderPage struct {
	Orders     []Order
	Page       int
	Limit      int
	TotalItems int
}

// TotalPages возвращает количество страниц при текущем лимите.
func (p OrderPage) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.TotalItems + p.Limit - 1) / p.Limit
}

// OrderRepository описывает требования к хранилищу заказов.
// Заказы никогда не удаляются.
type OrderRepository interface {
	// Create сохраняет новый заказ. Возвращает ErrOrderAlreadyExists, если запись с таким ID уже существует.
	Create(ctx context.Context, order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(ctx context.Context, id string) (Order, error)
	// GetBySessionID ищет заказ по идентификатору сессии шлюза.
	GetBySessionID(ctx context.Context, sessionID string) (Order, error)
	// List возвращает страницу всех заказов (page начинается с 1).
	List(ctx context.Context, page, limit int) (OrderPage, error)
	// ListByCustomer возвращает заказы клиента с опциональным ограничением на количество.
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]Order, error)
	// Save применяет изменения статусов с учётом optimistic locking.
	// Позиции и итог заказа не перезаписываются.
	Save(ctx context.Context, order Order) error
}
