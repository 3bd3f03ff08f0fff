package handler

import (
	"errors"
	"net/http"

	"crm_backend/internal/auth/service"
	"crm_backend/internal/auth/transport"
	"crm_backend/platform/httpkit"
	"crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc      *service.Service
	validate *validator.Validator
}

func New(svc *service.Service, validate *validator.Validator) *Handler {
	return &Handler{svc: svc, validate: validate}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/signup", h.SignUp)
	rg.POST("/signin", h.SignIn)
	rg.POST("/refresh", h.Refresh)
	rg.POST("/signout", h.SignOut)
}

// RegisterProtectedRoutes mounts routes that require a valid access token.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.Me)
}

func (h *Handler) SignUp(c *gin.Context) {
	var req transport.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	_, err := h.svc.SignUp(c.Request.Context(), req.Email, req.Password, optionalString(req.FirstName), optionalString(req.LastName))
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			httpkit.Error(c, http.StatusConflict, err.Error(), nil)
			return
		}
		httpkit.Error(c, http.StatusInternalServerError, "signup failed", nil)
		return
	}

	c.Status(http.StatusCreated)
}

func (h *Handler) SignIn(c *gin.Context) {
	var req transport.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	access, refresh, err := h.svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httpkit.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	httpkit.OK(c, transport.AuthResponse{AccessToken: access, RefreshToken: refresh})
}

func (h *Handler) Refresh(c *gin.Context) {
	var req transport.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	access, refresh, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httpkit.Error(c, http.StatusUnauthorized, err.Error(), nil)
		return
	}

	httpkit.OK(c, transport.AuthResponse{AccessToken: access, RefreshToken: refresh})
}

func (h *Handler) SignOut(c *gin.Context) {
	var req transport.SignOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.svc.SignOut(c.Request.Context(), req.RefreshToken); err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "signout failed", nil)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Me(c *gin.Context) {
	ident := httpkit.MustGetIdentity(c)

	user, err := h.svc.GetUser(c.Request.Context(), ident.UserID())
	if err != nil {
		httpkit.Error(c, http.StatusNotFound, "user not found", nil)
		return
	}

	httpkit.OK(c, transport.MeResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Roles:     user.Roles,
	})
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
