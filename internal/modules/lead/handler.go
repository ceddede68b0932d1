package lead

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

// RegisterPublicRoutes registers the unauthenticated intake endpoint.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/leads/submit", h.Submit)
}

// RegisterStaffRoutes registers authenticated lead management.
func (h *Handler) RegisterStaffRoutes(r *gin.RouterGroup) {
	leads := r.Group("/leads")
	{
		leads.GET("", h.List)
		leads.GET("/:id", h.Get)
		leads.PATCH("/:id/stage", h.SetStage)
		leads.GET("/:id/notes", h.ListNotes)
		leads.POST("/:id/notes", h.AddNote)
		leads.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrLeadNotFound), errors.Is(err, ErrOrgNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrEmptyNote), errors.Is(err, ErrInvalidStage), errors.Is(err, ErrUnknownService):
		response.Error(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	case errors.Is(err, ErrDirectConvert), errors.Is(err, ErrStageTerminal):
		response.Error(c, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return 0, false
	}
	return id, true
}

// Submit handles POST /leads/submit (public intake)
// @Summary Submit a prospective customer
// @Tags Leads
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	l, err := h.service.Submit(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, l)
}

// List handles GET /leads
func (h *Handler) List(c *gin.Context) {
	var stage *domain.Stage
	if s := c.Query("stage"); s != "" {
		v := domain.Stage(s)
		stage = &v
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

	leads, total, err := h.service.List(c.Request.Context(), middleware.ViewerFromContext(c), stage, limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ListResponse{Leads: leads, Total: total})
}

// Get handles GET /leads/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	l, err := h.service.GetByID(c.Request.Context(), middleware.ViewerFromContext(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

// SetStage handles PATCH /leads/:id/stage
// @Summary Move a lead within the pipeline
// @Tags Leads
// @Security BearerAuth
func (h *Handler) SetStage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req SetStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	l, err := h.service.SetStage(c.Request.Context(), middleware.ViewerFromContext(c), id, req.Stage)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

// AddNote handles POST /leads/:id/notes
func (h *Handler) AddNote(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	n, err := h.service.AddNote(c.Request.Context(), middleware.ViewerFromContext(c), id, req.Text)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, n)
}

// ListNotes handles GET /leads/:id/notes
func (h *Handler) ListNotes(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	notes, err := h.service.ListNotes(c.Request.Context(), middleware.ViewerFromContext(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, notes)
}

// Delete handles DELETE /leads/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.ViewerFromContext(c), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
