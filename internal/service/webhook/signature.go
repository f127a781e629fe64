package webhook

import (
	"errors"
	"strings"
	"time"

	stripewebhook "github.com/stripe/stripe-go/v76/webhook"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const (
	// SignatureHeader — заголовок с подписью доставки.
	SignatureHeader = "Stripe-Signature"
	// DefaultTolerance — допустимый возраст подписи.
	DefaultTolerance = stripewebhook.DefaultTolerance
)

// Verifier проверяет подпись вебхука через stripe-go.
// Перебирает секреты по очереди, что позволяет ротацию ключей.
type Verifier struct {
	secrets   []string
	tolerance time.Duration
}

// NewVerifier создаёт Verifier. Нулевой tolerance заменяется на DefaultTolerance.
func NewVerifier(tolerance time.Duration, secrets ...string) (*Verifier, error) {
	v := &Verifier{tolerance: tolerance}
	if v.tolerance <= 0 {
		v.tolerance = DefaultTolerance
	}
	for _, s := range secrets {
		if s = strings.TrimSpace(s); s != "" {
			v.secrets = append(v.secrets, s)
		}
	}
	if len(v.secrets) == 0 {
		return nil, errors.New("webhook signing secret is required")
	}
	return v, nil
}

// Verify проверяет подпись над неизменёнными байтами тела.
func (v *Verifier) Verify(payload []byte, header string) error {
	header = strings.TrimSpace(header)
	if header == "" {
		return domain.ErrSignatureMissing
	}

	var err error
	for _, secret := range v.secrets {
		err = stripewebhook.ValidatePayloadWithTolerance(payload, header, secret, v.tolerance)
		if err == nil {
			return nil
		}
		// Заголовок разбирается одинаково для любого секрета.
		if !errors.Is(err, stripewebhook.ErrNoValidSignature) {
			break
		}
	}
	return signatureError(err)
}

func signatureError(err error) error {
	switch {
	case errors.Is(err, stripewebhook.ErrNotSigned):
		return domain.ErrSignatureMissing
	case errors.Is(err, stripewebhook.ErrInvalidHeader):
		return domain.ErrSignatureMalformed
	case errors.Is(err, stripewebhook.ErrTooOld):
		return domain.ErrSignatureExpired
	default:
		return domain.ErrSignatureMismatch
	}
}

// SignPayload формирует заголовок подписи; используется mock-шлюзом и в тестах.
func SignPayload(secret string, payload []byte, at time.Time) string {
	return stripewebhook.GenerateTestSignedPayload(&stripewebhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: at,
	}).Header
}
