package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// TimelineRepository держит историю заказов в памяти, упорядоченную по Occurred.
type TimelineRepository struct {
	mu      sync.RWMutex
	history map[string][]domain.TimelineEvent
}

// NewTimelineRepository создаёт пустую историю.
func NewTimelineRepository() *TimelineRepository {
	return &TimelineRepository{history: make(map[string][]domain.TimelineEvent)}
}

// Append вставляет событие после всех событий с тем же или более ранним Occurred.
func (r *TimelineRepository) Append(_ context.Context, event domain.TimelineEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := r.history[event.OrderID]
	at := len(events)
	for at > 0 && events[at-1].Occurred.After(event.Occurred) {
		at--
	}
	r.history[event.OrderID] = slices.Insert(events, at, event)
	return nil
}

// List возвращает копию истории; для неизвестного заказа пустой срез.
func (r *TimelineRepository) List(_ context.Context, orderID string) ([]domain.TimelineEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]domain.TimelineEvent{}, r.history[orderID]...), nil
}

var _ domain.TimelineRepository = (*TimelineRepository)(nil)
