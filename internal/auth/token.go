// Package auth проверяет bearer-токены операторов и покупателей (JWT, HS256).
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// RoleAdmin — роль оператора магазина.
const RoleAdmin = "admin"

var (
	ErrTokenMissing = errors.Join(domain.ErrUnauthenticated, errors.New("bearer token is missing"))
	ErrTokenInvalid = errors.Join(domain.ErrUnauthenticated, errors.New("bearer token is invalid"))
)

// Claims — полезная нагрузка токена.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IsAdmin сообщает, принадлежит ли токен оператору.
func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

// CanActAs сообщает, может ли владелец токена действовать от имени покупателя.
func (c *Claims) CanActAs(customerID string) bool {
	if c == nil {
		return false
	}
	return c.IsAdmin() || (c.Subject != "" && c.Subject == customerID)
}

// Verifier проверяет подписи токенов общим секретом.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewVerifier создаёт Verifier. Пустой секрет запрещён.
func NewVerifier(secret string) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithLeeway(30*time.Second),
		),
	}, nil
}

// Parse проверяет токен и возвращает его claims.
func (v *Verifier) Parse(token string) (*Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrTokenMissing
	}

	claims := &Claims{}
	parsed, err := v.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.Join(ErrTokenInvalid, err)
	}
	return claims, nil
}

// ParseAuthorization разбирает значение заголовка "Bearer <token>".
func (v *Verifier) ParseAuthorization(header string) (*Claims, error) {
	parts := strings.Fields(header)
	if len(parts) == 0 {
		return nil, ErrTokenMissing
	}
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, ErrTokenInvalid
	}
	return v.Parse(parts[1])
}

// Sign выпускает токен; используется в тестах и утилитах оператора.
func Sign(secret, subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

type claimsKey struct{}

// WithClaims кладёт claims в контекст.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFrom достаёт claims из контекста.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	return claims, ok && claims != nil
}
