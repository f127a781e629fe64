package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// DefaultTTL — срок хранения ответа по ключу идемпотентности.
const DefaultTTL = 24 * time.Hour

// ErrRequestInFlight — запрос с тем же ключом ещё обрабатывается.
var ErrRequestInFlight = errors.New("request with the same idempotency key is already processing")

// Response — сохраняемый результат обработки запроса.
type Response struct {
	Status int
	Body   []byte
}

// Guard выполняет обработчик не более одного раза на ключ и воспроизводит сохранённый ответ.
type Guard struct {
	repo   domain.IdempotencyRepository
	ttl    time.Duration
	logger *log.Entry
	now    func() time.Time
}

// NewGuard создаёт Guard поверх хранилища ключей.
func NewGuard(repo domain.IdempotencyRepository, ttl time.Duration, logger *log.Entry) *Guard {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = log.WithField("component", "idempotency-guard")
	}
	return &Guard{
		repo:   repo,
		ttl:    ttl,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Execute резервирует ключ, вызывает handler и сохраняет его ответ.
// Повтор с тем же телом возвращает сохранённый ответ и replayed=true.
// Повтор с другим телом возвращает domain.ErrIdempotencyHashMismatch,
// незавершённый запрос — ErrRequestInFlight.
func (g *Guard) Execute(
	ctx context.Context,
	key, scope string,
	body []byte,
	handler func(context.Context) Response,
) (resp Response, replayed bool, err error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Response{}, false, domain.ErrIdempotencyKeyRequired
	}

	hash := RequestHash(scope, body)
	record, err := g.repo.CreateProcessing(ctx, key, hash, g.now().Add(g.ttl))
	if err != nil {
		resp, err := g.replay(record, err)
		return resp, err == nil, err
	}

	resp = handler(ctx)
	g.store(ctx, key, resp)
	return resp, false, nil
}

func (g *Guard) replay(record domain.IdempotencyRecord, createErr error) (Response, error) {
	switch {
	case errors.Is(createErr, domain.ErrIdempotencyHashMismatch):
		return Response{}, createErr
	case errors.Is(createErr, domain.ErrIdempotencyKeyAlreadyExists):
		switch record.Status {
		case domain.IdempotencyStatusDone, domain.IdempotencyStatusFailed:
			return Response{Status: record.HTTPStatus, Body: record.ResponseBody}, nil
		case domain.IdempotencyStatusProcessing:
			return Response{}, ErrRequestInFlight
		default:
			return Response{}, fmt.Errorf("unknown idempotency record status %q", record.Status)
		}
	default:
		return Response{}, fmt.Errorf("reserve idempotency key: %w", createErr)
	}
}

func (g *Guard) store(ctx context.Context, key string, resp Response) {
	// Ответ сохраняем даже при отмене запроса клиентом, иначе ключ зависнет в processing.
	ctx = context.WithoutCancel(ctx)

	var err error
	if resp.Status >= 500 {
		err = g.repo.MarkFailed(ctx, key, resp.Body, resp.Status)
	} else {
		err = g.repo.MarkDone(ctx, key, resp.Body, resp.Status)
	}
	if err != nil {
		g.logger.WithError(err).WithField("idempotency_key", key).Warn("failed to store idempotent response")
	}
}

// RequestHash вычисляет отпечаток запроса в пределах scope (метод и путь).
func RequestHash(scope string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(scope))
	h.Write([]byte{':'})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
