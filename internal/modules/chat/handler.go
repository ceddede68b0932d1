package chat

import (
	"errors"
	"net/http"
	"strconv"

	"educrm/internal/domain"
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

func (h *Handler) RegisterRoutes(authed *gin.RouterGroup) {
	threads := authed.Group("/chat/:threadType/:threadId")
	threads.GET("/messages", h.List)
	threads.POST("/messages", h.Post)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrThreadNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrThreadUnavailable):
		response.Error(c, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, ErrEmptyMessage):
		response.Error(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
	}
}

func threadParams(c *gin.Context) (domain.ThreadType, int64, bool) {
	threadType := domain.ThreadType(c.Param("threadType"))
	if threadType != domain.ThreadLead && threadType != domain.ThreadRegistration {
		response.Error(c, http.StatusBadRequest, "INVALID_ARGUMENT", "Unknown thread type")
		return "", 0, false
	}
	threadID, err := strconv.ParseInt(c.Param("threadId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid thread ID")
		return "", 0, false
	}
	return threadType, threadID, true
}

// Post handles POST /chat/:threadType/:threadId/messages
// @Summary Append a message to a thread
// @Tags Chat
// @Security BearerAuth
func (h *Handler) Post(c *gin.Context) {
	threadType, threadID, ok := threadParams(c)
	if !ok {
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	msg, err := h.service.Post(c.Request.Context(), middleware.ViewerFromContext(c), threadType, threadID, req.Text)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, msg)
}

// List handles GET /chat/:threadType/:threadId/messages
// @Summary Read a thread transcript
// @Tags Chat
// @Security BearerAuth
func (h *Handler) List(c *gin.Context) {
	threadType, threadID, ok := threadParams(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	msgs, err := h.service.List(c.Request.Context(), middleware.ViewerFromContext(c), threadType, threadID, limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ListResponse{Messages: msgs})
}
