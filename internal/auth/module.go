// Package auth provides the authentication bounded context module.
package auth

import (
	"crm_backend/internal/auth/handler"
	"crm_backend/internal/auth/repository"
	"crm_backend/internal/auth/service"
	apphttp "crm_backend/internal/http"
	"crm_backend/platform/config"
	"crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the auth module.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg)
	h := handler.New(svc, val)

	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts auth routes. Credential endpoints sit behind the
// stricter auth rate limiter; /me requires a valid access token.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(authGroup)

	protectedGroup := ctx.Protected.Group("/auth")
	m.handler.RegisterProtectedRoutes(protectedGroup)
}

var _ apphttp.Module = (*Module)(nil)
