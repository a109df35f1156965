package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-admin/internal/api/dto"
	"github.com/spec-kit/helpdesk-admin/internal/auth"
	"github.com/spec-kit/helpdesk-admin/internal/domain"
	"github.com/spec-kit/helpdesk-admin/internal/service"
	apperrors "github.com/spec-kit/helpdesk-admin/pkg/util"
)

// PolicyHandler exposes token-lifetime policy management endpoints.
type PolicyHandler struct {
	policies *service.PolicyService
}

// NewPolicyHandler constructs handler.
func NewPolicyHandler(policyService *service.PolicyService) *PolicyHandler {
	return &PolicyHandler{policies: policyService}
}

// Create handles POST /policies.
func (h *PolicyHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req dto.PolicyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	profile, err := domain.ProfileFromDescription(req.Profile)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	view, err := h.policies.Create(c.UserContext(), actor, req.ToPolicy(profile))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewPolicyResponse(*view)})
}

// Update handles PUT /policies/:profile.
func (h *PolicyHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	profile, err := profileFromParam(c)
	if err != nil {
		return err
	}

	var req dto.PolicyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	view, err := h.policies.Update(c.UserContext(), actor, profile, req.ToPolicy(profile))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPolicyResponse(*view)})
}

// Get handles GET /policies/:profile.
func (h *PolicyHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	profile, err := profileFromParam(c)
	if err != nil {
		return err
	}

	view, err := h.policies.FindByProfile(c.UserContext(), actor, profile)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPolicyResponse(*view)})
}

// List handles GET /policies.
func (h *PolicyHandler) List(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	views, err := h.policies.FindAll(c.UserContext(), actor)
	if err != nil {
		return err
	}

	responses := make([]dto.PolicyResponse, 0, len(views))
	for _, view := range views {
		responses = append(responses, dto.NewPolicyResponse(view))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// Exists handles GET /policies/:profile/exists. Unauthenticated by design.
func (h *PolicyHandler) Exists(c *fiber.Ctx) error {
	profile, err := profileFromParam(c)
	if err != nil {
		return err
	}

	exists, err := h.policies.ExistsByProfile(c.UserContext(), profile)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ExistsResponse{Profile: profile.Description(), Exists: exists}})
}

// Expiration handles GET /policies/:profile/expiration.
func (h *PolicyHandler) Expiration(c *fiber.Ctx) error {
	profile, err := profileFromParam(c)
	if err != nil {
		return err
	}

	millis, err := h.policies.ExpirationMillis(c.UserContext(), profile)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ExpirationResponse{Profile: profile.Description(), ExpirationMs: millis}})
}

func actorFromContext(c *fiber.Ctx) (service.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return service.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	return service.Actor{PersonID: principal.PersonID, Profile: principal.Profile}, nil
}

// profileFromParam accepts either the numeric code or the descriptor.
func profileFromParam(c *fiber.Ctx) (domain.Profile, error) {
	raw := c.Params("profile")
	if code, err := strconv.Atoi(raw); err == nil {
		profile, err := domain.ProfileFromCode(code)
		if err != nil {
			return 0, apperrors.NewValidationError(err.Error(), nil)
		}
		return profile, nil
	}
	profile, err := domain.ProfileFromDescription(raw)
	if err != nil {
		return 0, apperrors.NewValidationError(err.Error(), nil)
	}
	return profile, nil
}
