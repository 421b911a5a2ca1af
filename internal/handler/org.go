package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"datarw/internal/middleware"
	"datarw/internal/model"
	"datarw/internal/service"
)

// OrgHandler serves the authenticated organization's own resource
type OrgHandler struct {
	orgs *service.OrgService
}

// NewOrgHandler creates a new org handler
func NewOrgHandler(orgs *service.OrgService) *OrgHandler {
	return &OrgHandler{orgs: orgs}
}

// Me returns the caller's organization
// GET /api/orgs/me
func (h *OrgHandler) Me(c *gin.Context) {
	org, err := h.orgs.Get(c.Request.Context(), middleware.OrgID(c))
	if err != nil {
		respondError(c, err, "Failed to load organization")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", org))
}

// Rename updates the organization's display name
// PATCH /api/orgs/me
func (h *OrgHandler) Rename(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid request body", err.Error()))
		return
	}
	if err := h.orgs.Rename(c.Request.Context(), middleware.OrgID(c), req.Name); err != nil {
		respondError(c, err, "Failed to rename organization")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Organization renamed", nil))
}

// Usage returns live usage counts next to the plan's caps
// GET /api/orgs/me/usage
func (h *OrgHandler) Usage(c *gin.Context) {
	report, err := h.orgs.UsageReport(c.Request.Context(), middleware.OrgID(c))
	if err != nil {
		respondError(c, err, "Failed to compute usage")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", report))
}
