package conversion

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

func (h *Handler) RegisterRoutes(staff *gin.RouterGroup) {
	staff.POST("/leads/:id/conversion", h.Request)
	conv := staff.Group("/conversions")
	{
		conv.GET("", h.List)
		conv.POST("/:id/approve", h.Approve)
		conv.POST("/:id/reject", h.Reject)
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrLeadNotFound), errors.Is(err, ErrRequestNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrReasonRequired):
		response.Error(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	case errors.Is(err, ErrAlreadyConverted), errors.Is(err, ErrRequestResolved):
		response.Error(c, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, ErrRequestPending), errors.Is(err, ErrStudentExists):
		response.Error(c, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
	}
}

// Request handles POST /leads/:id/conversion
// @Summary Request conversion of a lead into a student
// @Tags Conversions
// @Security BearerAuth
func (h *Handler) Request(c *gin.Context) {
	leadID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return
	}

	req, err := h.service.Request(c.Request.Context(), middleware.ViewerFromContext(c), leadID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, req)
}

// Approve handles POST /conversions/:id/approve
// @Summary Approve a pending conversion request
// @Tags Conversions
// @Security BearerAuth
func (h *Handler) Approve(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid request ID")
		return
	}

	student, err := h.service.Approve(c.Request.Context(), middleware.ViewerFromContext(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, student)
}

// Reject handles POST /conversions/:id/reject
// @Summary Reject a pending conversion request
// @Tags Conversions
// @Security BearerAuth
func (h *Handler) Reject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid request ID")
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	resolved, err := h.service.Reject(c.Request.Context(), middleware.ViewerFromContext(c), id, req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resolved)
}

// List handles GET /conversions
func (h *Handler) List(c *gin.Context) {
	var status *domain.RequestStatus
	if s := c.Query("status"); s != "" {
		v := domain.RequestStatus(s)
		status = &v
	}

	limit := 50
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			limit = v
		}
	}
	offset := 0
	if s := c.Query("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			offset = v
		}
	}

	requests, total, err := h.service.List(c.Request.Context(), middleware.ViewerFromContext(c), status, limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ListResponse{Requests: requests, Total: total})
}
