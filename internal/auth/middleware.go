package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-admin/internal/domain"
	"github.com/spec-kit/helpdesk-admin/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-admin/pkg/util"
)

const principalKey = "auth_principal"

// Principal is the identity reconstructed from a verified token for the
// duration of one request. The person is re-resolved on every request so
// profile or name changes since issuance take effect immediately.
type Principal struct {
	PersonID string
	Email    string
	Profile  domain.Profile
	Theme    string
	Person   *domain.Person
}

// Middleware validates bearer tokens and loads principals.
type Middleware struct {
	codec   *TokenCodec
	persons repository.PersonRepository
}

// NewMiddleware constructs the bearer-token middleware.
func NewMiddleware(codec *TokenCodec, persons repository.PersonRepository) *Middleware {
	return &Middleware{codec: codec, persons: persons}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.codec.Parse(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	person, err := m.persons.GetByEmail(c.UserContext(), claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("person not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{
		PersonID: person.ID,
		Email:    person.Email,
		Profile:  person.Profile,
		Theme:    person.Theme,
		Person:   person,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
