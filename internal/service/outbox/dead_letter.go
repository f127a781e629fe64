package outbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// ErrNotDeadLetter — сообщение не похоже на запись DLQ outbox.
var ErrNotDeadLetter = errors.New("message is not an outbox dead letter")

// DeadLetter — запись в DLQ о сообщении, исчерпавшем попытки публикации.
type DeadLetter struct {
	OutboxID       string          `json:"outbox_id"`
	AggregateType  string          `json:"aggregate_type"`
	AggregateID    string          `json:"aggregate_id"`
	EventType      string          `json:"event_type"`
	Payload        json.RawMessage `json:"payload"`
	PublishError   string          `json:"publish_error"`
	DLQPublishedAt time.Time       `json:"dlq_published_at"`
}

// NewDeadLetter фиксирует исходное сообщение и последнюю ошибку публикации.
func NewDeadLetter(msg domain.OutboxMessage, publishErr error, at time.Time) DeadLetter {
	dl := DeadLetter{
		OutboxID:       msg.ID,
		AggregateType:  msg.AggregateType,
		AggregateID:    msg.AggregateID,
		EventType:      msg.EventType,
		Payload:        json.RawMessage(msg.Payload),
		DLQPublishedAt: at.UTC(),
	}
	if publishErr != nil {
		dl.PublishError = publishErr.Error()
	}
	return dl
}

// Message упаковывает запись в outbox-сообщение для DLQ-топика.
// Ключ и тип события совпадают с исходным сообщением.
func (d DeadLetter) Message() (domain.OutboxMessage, error) {
	payload, err := json.Marshal(d)
	if err != nil {
		return domain.OutboxMessage{}, fmt.Errorf("marshal dead letter: %w", err)
	}
	return domain.OutboxMessage{
		ID:            d.OutboxID,
		AggregateType: d.AggregateType,
		AggregateID:   d.AggregateID,
		EventType:     d.EventType,
		Payload:       payload,
	}, nil
}

// Original восстанавливает исходное outbox-сообщение.
func (d DeadLetter) Original() domain.OutboxMessage {
	return domain.OutboxMessage{
		ID:            d.OutboxID,
		AggregateType: d.AggregateType,
		AggregateID:   d.AggregateID,
		EventType:     d.EventType,
		Payload:       []byte(d.Payload),
	}
}

// DecodeDeadLetter разбирает полезную нагрузку DLQ-сообщения.
func DecodeDeadLetter(payload []byte) (DeadLetter, error) {
	var dl DeadLetter
	if err := json.Unmarshal(payload, &dl); err != nil {
		return DeadLetter{}, fmt.Errorf("%w: %v", ErrNotDeadLetter, err)
	}
	if strings.TrimSpace(dl.OutboxID) == "" {
		return DeadLetter{}, fmt.Errorf("%w: outbox id is missing", ErrNotDeadLetter)
	}
	if len(dl.Payload) == 0 || !json.Valid(dl.Payload) {
		return DeadLetter{}, fmt.Errorf("%w: original payload is missing", ErrNotDeadLetter)
	}
	return dl, nil
}
