package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-admin/internal/api/dto"
	"github.com/spec-kit/helpdesk-admin/internal/auth"
	"github.com/spec-kit/helpdesk-admin/internal/service"
	apperrors "github.com/spec-kit/helpdesk-admin/pkg/util"
)

// AuthHandler exposes login, refresh and principal endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	person, token, expiresAt, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"person": dto.PrincipalResponse{
				ID:      person.ID,
				Name:    person.Name,
				Email:   person.Email,
				Profile: person.Profile.Description(),
				Theme:   person.Theme,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: expiresAt},
		},
	})
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Token == "" {
		return apperrors.NewValidationError("token required", nil)
	}

	token, expiresAt, err := h.auth.RefreshToken(c.UserContext(), req.Token)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"auth": dto.AuthResponse{Token: token, ExpiresAt: expiresAt},
		},
	})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	return c.JSON(fiber.Map{
		"data": dto.PrincipalResponse{
			ID:      principal.PersonID,
			Name:    principal.Person.Name,
			Email:   principal.Email,
			Profile: principal.Profile.Description(),
			Theme:   principal.Theme,
		},
	})
}

// ChangePassword handles POST /auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("current and new password required", nil)
	}

	if err := h.auth.ChangePassword(c.UserContext(), principal.PersonID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
