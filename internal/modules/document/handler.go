package document

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
	docs := authed.Group("/documents")
	docs.POST("/:ownerType/:ownerId/:key", h.Upload)
	docs.GET("/:ownerType/:ownerId", h.List)
	docs.POST("/records/:id/approve", h.Approve)
	docs.POST("/records/:id/reject", h.Reject)
	docs.DELETE("/records/:id", h.Delete)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrOwnerNotFound), errors.Is(err, ErrRecordNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrUnknownSlot), errors.Is(err, ErrEmptyFile),
		errors.Is(err, ErrInvalidFileType), errors.Is(err, ErrReasonRequired):
		response.Error(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	case errors.Is(err, ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
	}
}

func ownerParams(c *gin.Context) (domain.DocumentOwnerType, int64, bool) {
	ownerType := domain.DocumentOwnerType(c.Param("ownerType"))
	if ownerType != domain.DocumentOwnerRegistration && ownerType != domain.DocumentOwnerOrganization {
		response.Error(c, http.StatusBadRequest, "INVALID_ARGUMENT", "Unknown owner type")
		return "", 0, false
	}
	ownerID, err := strconv.ParseInt(c.Param("ownerId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid owner ID")
		return "", 0, false
	}
	return ownerType, ownerID, true
}

// Upload handles POST /documents/:ownerType/:ownerId/:key (multipart)
// @Summary Upload a document into a slot
// @Tags Documents
// @Accept multipart/form-data
// @Security BearerAuth
func (h *Handler) Upload(c *gin.Context) {
	ownerType, ownerID, ok := ownerParams(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ARGUMENT", "No file provided")
		return
	}

	rec, err := h.service.Upload(c.Request.Context(), middleware.ViewerFromContext(c), ownerType, ownerID, c.Param("key"), fileHeader)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rec)
}

// List handles GET /documents/:ownerType/:ownerId
// @Summary List an owner's documents
// @Tags Documents
// @Security BearerAuth
func (h *Handler) List(c *gin.Context) {
	ownerType, ownerID, ok := ownerParams(c)
	if !ok {
		return
	}

	docs, err := h.service.List(c.Request.Context(), middleware.ViewerFromContext(c), ownerType, ownerID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ListResponse{Documents: docs})
}

// Approve handles POST /documents/records/:id/approve
// @Summary Approve a pending document
// @Tags Documents
// @Security BearerAuth
func (h *Handler) Approve(c *gin.Context) {
	recordID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid record ID")
		return
	}

	rec, err := h.service.Approve(c.Request.Context(), middleware.ViewerFromContext(c), recordID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rec)
}

// Reject handles POST /documents/records/:id/reject
// @Summary Reject a document (removes it)
// @Tags Documents
// @Security BearerAuth
func (h *Handler) Reject(c *gin.Context) {
	recordID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid record ID")
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

	if err := h.service.Reject(c.Request.Context(), middleware.ViewerFromContext(c), recordID, req.Reason); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rejected": true})
}

// Delete handles DELETE /documents/records/:id
// @Summary Remove a document record and its file
// @Tags Documents
// @Security BearerAuth
func (h *Handler) Delete(c *gin.Context) {
	recordID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid record ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.ViewerFromContext(c), recordID); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
