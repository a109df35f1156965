package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-admin/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-admin/pkg/util"
)

// RequireAuthenticated ensures a principal is present on the request.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireProfile ensures the principal carries one of the allowed profiles.
// A missing principal is an authentication failure; a present principal
// with the wrong profile is an authorization failure.
func RequireProfile(allowed ...domain.Profile) fiber.Handler {
	allowedSet := make(map[domain.Profile]struct{}, len(allowed))
	for _, profile := range allowed {
		allowedSet[profile] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Profile]; !exists {
			return apperrors.NewNotRoot()
		}
		return c.Next()
	}
}
