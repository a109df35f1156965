package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/helpdesk-admin/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-admin/internal/auth"
	"github.com/spec-kit/helpdesk-admin/internal/config"
	"github.com/spec-kit/helpdesk-admin/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Policies       *handlers.PolicyHandler
	AuthMiddleware *auth.Middleware
	RateLimit      config.RateLimitConfig
	RedisClient    *redis.Client
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", LoginRateLimiter(cfg.RateLimit, cfg.RedisClient), cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	authProtected.Get("/me", cfg.Auth.Me)
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	policies := app.Group("/policies")
	// exists is reachable without a token: the session-timeout UI asks for
	// it before authentication completes
	policies.Get("/:profile/exists", cfg.Policies.Exists)

	anyAuthenticated := policies.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	anyAuthenticated.Get("/:profile/expiration", cfg.Policies.Expiration)

	rootOnly := policies.Group("", cfg.AuthMiddleware.Handle, auth.RequireProfile(domain.ProfileRoot))
	rootOnly.Post("/", cfg.Policies.Create)
	rootOnly.Get("/", cfg.Policies.List)
	rootOnly.Get("/:profile", cfg.Policies.Get)
	rootOnly.Put("/:profile", cfg.Policies.Update)
}
