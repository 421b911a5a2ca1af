package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"datarw/internal/middleware"
	"datarw/internal/model"
	"datarw/internal/service"
)

// ActivityHandler manages project activities
type ActivityHandler struct {
	activities *service.ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activities *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

type createActivityRequest struct {
	Name          string    `json:"name" binding:"required"`
	Description   string    `json:"description"`
	PlannedStart  time.Time `json:"plannedStart" binding:"required"`
	PlannedEnd    time.Time `json:"plannedEnd" binding:"required"`
	PlannedOutput float64   `json:"plannedOutput"`
	OutputUnit    string    `json:"outputUnit"`
}

type updateActivityRequest struct {
	Name          *string    `json:"name"`
	Description   *string    `json:"description"`
	Status        *string    `json:"status"`
	PlannedStart  *time.Time `json:"plannedStart"`
	PlannedEnd    *time.Time `json:"plannedEnd"`
	ActualStart   *time.Time `json:"actualStart"`
	ActualEnd     *time.Time `json:"actualEnd"`
	PlannedOutput *float64   `json:"plannedOutput"`
	ActualOutput  *float64   `json:"actualOutput"`
	OutputUnit    *string    `json:"outputUnit"`
}

// Create adds an activity to a project
// POST /api/projects/:id/activities
func (h *ActivityHandler) Create(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req createActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	activity := &model.Activity{
		Name:          req.Name,
		Description:   req.Description,
		PlannedStart:  req.PlannedStart,
		PlannedEnd:    req.PlannedEnd,
		PlannedOutput: req.PlannedOutput,
		OutputUnit:    req.OutputUnit,
	}
	created, err := h.activities.Create(c.Request.Context(), middleware.OrgID(c), middleware.ActorID(c), projectID, activity)
	if err != nil {
		respondError(c, err, "Failed to create activity")
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse("Activity created", created))
}

// List returns a project's activities
// GET /api/projects/:id/activities
func (h *ActivityHandler) List(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	activities, err := h.activities.ListByProject(c.Request.Context(), middleware.OrgID(c), projectID)
	if err != nil {
		respondError(c, err, "Failed to list activities")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", activities))
}

// Get returns one activity
// GET /api/activities/:id
func (h *ActivityHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	activity, err := h.activities.Get(c.Request.Context(), middleware.OrgID(c), id)
	if err != nil {
		respondError(c, err, "Activity not found")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", activity))
}

// Update patches activity fields
// PATCH /api/activities/:id
func (h *ActivityHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateActivityRequest
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
	if req.PlannedStart != nil {
		fields["plannedStart"] = *req.PlannedStart
	}
	if req.PlannedEnd != nil {
		fields["plannedEnd"] = *req.PlannedEnd
	}
	if req.ActualStart != nil {
		fields["actualStart"] = *req.ActualStart
	}
	if req.ActualEnd != nil {
		fields["actualEnd"] = *req.ActualEnd
	}
	if req.PlannedOutput != nil {
		fields["plannedOutput"] = *req.PlannedOutput
	}
	if req.ActualOutput != nil {
		fields["actualOutput"] = *req.ActualOutput
	}
	if req.OutputUnit != nil {
		fields["outputUnit"] = *req.OutputUnit
	}

	if err := h.activities.Update(c.Request.Context(), middleware.OrgID(c), id, fields); err != nil {
		respondError(c, err, "Failed to update activity")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Activity updated", nil))
}

// Delete removes an activity
// DELETE /api/activities/:id
func (h *ActivityHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.activities.Delete(c.Request.Context(), middleware.OrgID(c), id); err != nil {
		respondError(c, err, "Failed to delete activity")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Activity deleted", nil))
}

// Variance reports planned-vs-actual schedule, output and budget
// GET /api/activities/:id/variance
func (h *ActivityHandler) Variance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	v, err := h.activities.Variance(c.Request.Context(), middleware.OrgID(c), id)
	if err != nil {
		respondError(c, err, "Failed to compute variance")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", v))
}
