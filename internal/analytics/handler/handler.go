package handler

import (
	"net/http"

	"crm_backend/internal/analytics/service"
	"crm_backend/internal/analytics/transport"
	"crm_backend/platform/httpkit"
	"crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc      *service.Service
	validate *validator.Validator
}

func New(svc *service.Service, validate *validator.Validator) *Handler {
	return &Handler{svc: svc, validate: validate}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/performance", h.Performance)
	rg.GET("/pipeline", h.Pipeline)
}

func (h *Handler) Performance(c *gin.Context) {
	var req transport.PerformanceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.svc.Performance(c.Request.Context(), req.Period)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Pipeline(c *gin.Context) {
	result, err := h.svc.Pipeline(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, result)
}
