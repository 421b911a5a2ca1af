package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"datarw/internal/middleware"
	"datarw/internal/model"
	"datarw/internal/service"
)

// ProjectHandler manages projects and the project dashboard
type ProjectHandler struct {
	projects *service.ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projects *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type createProjectRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate" binding:"required"`
	EndDate     time.Time `json:"endDate" binding:"required"`
	TotalBudget float64   `json:"totalBudget"`
}

type updateProjectRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	TotalBudget *float64   `json:"totalBudget"`
}

// Create adds a project in planning status
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	project := &model.Project{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TotalBudget: req.TotalBudget,
	}
	created, err := h.projects.Create(c.Request.Context(), middleware.OrgID(c), middleware.ActorID(c), project)
	if err != nil {
		respondError(c, err, "Failed to create project")
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse("Project created", created))
}

// List returns the organization's projects
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projects.ListByOrg(c.Request.Context(), middleware.OrgID(c))
	if err != nil {
		respondError(c, err, "Failed to list projects")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", projects))
}

// Get returns one project
// GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	project, err := h.projects.Get(c.Request.Context(), middleware.OrgID(c), id)
	if err != nil {
		respondError(c, err, "Project not found")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", project))
}

// Update patches project fields
// PATCH /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.StartDate != nil {
		fields["startDate"] = *req.StartDate
	}
	if req.EndDate != nil {
		fields["endDate"] = *req.EndDate
	}
	if req.TotalBudget != nil {
		fields["totalBudget"] = *req.TotalBudget
	}

	if err := h.projects.Update(c.Request.Context(), middleware.OrgID(c), id, fields); err != nil {
		respondError(c, err, "Failed to update project")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Project updated", nil))
}

// Delete removes a project
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.projects.Delete(c.Request.Context(), middleware.OrgID(c), id); err != nil {
		respondError(c, err, "Failed to delete project")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Project deleted", nil))
}

// Dashboard returns the project's headline rollup
// GET /api/projects/:id/dashboard
func (h *ProjectHandler) Dashboard(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	dash, err := h.projects.Dashboard(c.Request.Context(), middleware.OrgID(c), id)
	if err != nil {
		respondError(c, err, "Failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", dash))
}
