package assignment

import (
	"errors"
	"net/http"
	"strconv"

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
	staff.PATCH("/leads/:id/assign", h.AssignLead)
	staff.DELETE("/leads/:id/assign", h.UnassignLead)
	staff.PATCH("/registrations/:id/assign", h.AssignRegistration)
	staff.PATCH("/registrations/:id/active", h.SwitchActive)
	staff.DELETE("/registrations/:id/assign", h.UnassignRegistration)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrLeadNotFound), errors.Is(err, ErrRegistrationNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrStaffNotFound):
		response.Error(c, http.StatusNotFound, "STAFF_NOT_FOUND", err.Error())
	case errors.Is(err, ErrNoStaffGiven), errors.Is(err, ErrSecondaryOnLead),
		errors.Is(err, ErrNotStaff), errors.Is(err, ErrWrongOrg):
		response.Error(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	case errors.Is(err, ErrLeadConverted), errors.Is(err, ErrNotPrimaryOrSecondary):
		response.Error(c, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
	}
}

// AssignLead handles PATCH /leads/:id/assign
// @Summary Assign a staff member to a lead
// @Tags Assignments
// @Security BearerAuth
func (h *Handler) AssignLead(c *gin.Context) {
	leadID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return
	}

	var req AssignLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}
	if req.Tier == "secondary" {
		h.writeError(c, ErrSecondaryOnLead)
		return
	}

	lead, err := h.service.AssignLead(c.Request.Context(), middleware.ViewerFromContext(c), leadID, req.StaffID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, lead)
}

// UnassignLead handles DELETE /leads/:id/assign
func (h *Handler) UnassignLead(c *gin.Context) {
	leadID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return
	}

	lead, err := h.service.UnassignLead(c.Request.Context(), middleware.ViewerFromContext(c), leadID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, lead)
}

// AssignRegistration handles PATCH /registrations/:id/assign
// @Summary Set primary/secondary staff on a service registration
// @Tags Assignments
// @Security BearerAuth
func (h *Handler) AssignRegistration(c *gin.Context) {
	regID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid registration ID")
		return
	}

	var req AssignRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	reg, err := h.service.AssignRegistration(c.Request.Context(), middleware.ViewerFromContext(c), regID, req.PrimaryID, req.SecondaryID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, reg)
}

// SwitchActive handles PATCH /registrations/:id/active
// @Summary Switch the active staff member
// @Tags Assignments
// @Security BearerAuth
func (h *Handler) SwitchActive(c *gin.Context) {
	regID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid registration ID")
		return
	}

	var req SwitchActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	reg, err := h.service.SwitchActive(c.Request.Context(), middleware.ViewerFromContext(c), regID, req.StaffID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, reg)
}

// UnassignRegistration handles DELETE /registrations/:id/assign
func (h *Handler) UnassignRegistration(c *gin.Context) {
	regID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid registration ID")
		return
	}

	reg, err := h.service.UnassignRegistration(c.Request.Context(), middleware.ViewerFromContext(c), regID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, reg)
}
