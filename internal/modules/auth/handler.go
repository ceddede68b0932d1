package auth

import (
	"errors"
	"net/http"

	"educrm/internal/middleware"
	"educrm/internal/pkg/response"
	"educrm/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(public *gin.RouterGroup) {
	public.POST("/auth/login", h.Login)
}

func (h *Handler) RegisterRoutes(authed *gin.RouterGroup) {
	authed.GET("/auth/me", h.Me)
	authed.POST("/auth/change-password", h.ChangePassword)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	case errors.Is(err, ErrWrongPassword):
		response.Error(c, http.StatusBadRequest, "WRONG_PASSWORD", err.Error())
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
	}
}

// Login handles POST /auth/login
// @Summary Exchange credentials for an access token
// @Tags Auth
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, LoginResponse{User: result.User, AccessToken: result.AccessToken})
}

// Me handles GET /auth/me
// @Summary Current account
// @Tags Auth
// @Security BearerAuth
func (h *Handler) Me(c *gin.Context) {
	viewer := middleware.ViewerFromContext(c)

	user, err := h.service.GetCurrentUser(c.Request.Context(), viewer.ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// ChangePassword handles POST /auth/change-password
// @Summary Change own password
// @Tags Auth
// @Security BearerAuth
func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	viewer := middleware.ViewerFromContext(c)
	if err := h.service.ChangePassword(c.Request.Context(), viewer.ID, req); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"changed": true})
}
