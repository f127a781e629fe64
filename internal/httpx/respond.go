package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/idempotency"
)

// RetryAfterSeconds — подсказка клиенту при недоступности шлюза.
const RetryAfterSeconds = 5

// Коды ошибок в теле ответа.
const (
	CodeValidation          = "validation_error"
	CodeNotFound            = "not_found"
	CodeUnauthenticated     = "unauthenticated"
	CodeForbidden           = "forbidden"
	CodeInvalidTransition   = "invalid_transition"
	CodeUpstreamUnavailable = "upstream_unavailable"
	CodeIdempotencyConflict = "idempotency_conflict"
	CodeRateLimited         = "rate_limited"
	CodePayloadTooLarge     = "payload_too_large"
	CodeInternal            = "internal_error"
)

var (
	errForbidden       = errors.New("token does not permit this operation")
	errPayloadTooLarge = errors.New("request body is too large")
	errRateLimited     = errors.New("rate limit exceeded")
	errRouteNotFound   = errors.Join(domain.ErrNotFound, errors.New("route not found"))
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

// classify сопоставляет ошибке HTTP-статус и код.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errForbidden):
		return http.StatusForbidden, CodeForbidden
	case errors.Is(err, errPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, CodePayloadTooLarge
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests, CodeRateLimited
	case errors.Is(err, domain.ErrIdempotencyHashMismatch), errors.Is(err, idempotency.ErrRequestInFlight):
		return http.StatusConflict, CodeIdempotencyConflict
	}

	switch domain.KindOf(err) {
	case domain.ErrValidation:
		return http.StatusBadRequest, CodeValidation
	case domain.ErrNotFound:
		return http.StatusNotFound, CodeNotFound
	case domain.ErrUnauthenticated:
		return http.StatusUnauthorized, CodeUnauthenticated
	case domain.ErrInvalidTransition:
		return http.StatusConflict, CodeInvalidTransition
	case domain.ErrUpstreamUnavailable:
		return http.StatusServiceUnavailable, CodeUpstreamUnavailable
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// renderError формирует статус и тело ответа для ошибки.
func renderError(err error) (int, []byte) {
	status, code := classify(err)

	detail := errorDetail{Code: code, Message: err.Error()}
	switch status {
	case http.StatusInternalServerError:
		detail.Message = "internal error"
	case http.StatusServiceUnavailable:
		detail.Message = "payment gateway is temporarily unavailable, retry checkout later"
	case http.StatusUnauthorized:
		detail.Message = "authentication failed"
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		detail.Message = "request validation failed"
		detail.Fields = verr.Fields
	}

	body, _ := json.Marshal(errorBody{Error: detail})
	return status, body
}

func writeError(w http.ResponseWriter, logger *log.Entry, err error) {
	status, body := renderError(err)
	if status >= http.StatusInternalServerError {
		logger.WithError(err).WithField("status", status).Error("request failed")
	}
	writeRaw(w, status, body)
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	switch status {
	case http.StatusServiceUnavailable:
		w.Header().Set("Retry-After", strconv.Itoa(RetryAfterSeconds))
	case http.StatusTooManyRequests:
		w.Header().Set("Retry-After", "1")
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, logger *log.Entry, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(w, logger, err)
		return
	}
	writeRaw(w, status, body)
}
