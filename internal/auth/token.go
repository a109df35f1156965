package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-admin/internal/domain"
)

// TokenCodec signs and verifies session tokens. It is stateless: the
// lifetime of each token is supplied by the caller at signing time, sourced
// from the token-lifetime policy of the subject's profile.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec builds a codec over the shared signing secret.
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// Claims describes the JWT payload.
type Claims struct {
	PersonID string   `json:"id"`
	Profiles []string `json:"profiles"`
	jwt.RegisteredClaims
}

// Sign builds and signs a JWT for the person with the given lifetime.
func (c *TokenCodec) Sign(person *domain.Person, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		PersonID: person.ID,
		Profiles: []string{person.Profile.Description()},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   person.Email,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Parse validates the token and returns its claims.
func (c *TokenCodec) Parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// Verify reports whether the token is structurally sound, correctly signed
// and unexpired. Invalid input is an expected outcome, never an error.
func (c *TokenCodec) Verify(tokenStr string) bool {
	_, err := c.Parse(tokenStr)
	return err == nil
}

// ExtractSubject returns the subject email of a token that has already
// passed Verify. Behavior on an unverified token is undefined.
func (c *TokenCodec) ExtractSubject(tokenStr string) string {
	claims, err := c.Parse(tokenStr)
	if err != nil {
		return ""
	}
	return claims.Subject
}
