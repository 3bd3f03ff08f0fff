// Package analytics provides the pipeline and performance reporting module.
package analytics

import (
	"crm_backend/internal/analytics/handler"
	"crm_backend/internal/analytics/repository"
	"crm_backend/internal/analytics/service"
	apphttp "crm_backend/internal/http"
	"crm_backend/platform/logger"
	"crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the analytics bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the analytics module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "analytics"
}

// Service returns the analytics service for external use (the weekly
// digest worker renders from it).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts analytics routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	analyticsGroup := ctx.Protected.Group("/analytics")
	m.handler.RegisterRoutes(analyticsGroup)
}

var _ apphttp.Module = (*Module)(nil)
