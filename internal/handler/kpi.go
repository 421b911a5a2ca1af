package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"datarw/internal/middleware"
	"datarw/internal/model"
	"datarw/internal/service"
)

// KPIHandler manages project KPIs and their measurements
type KPIHandler struct {
	kpis *service.KPIService
}

// NewKPIHandler creates a new KPI handler
func NewKPIHandler(kpis *service.KPIService) *KPIHandler {
	return &KPIHandler{kpis: kpis}
}

type createKPIRequest struct {
	Name      string  `json:"name" binding:"required"`
	Unit      string  `json:"unit"`
	Direction string  `json:"direction" binding:"required"`
	Baseline  float64 `json:"baseline"`
	Target    float64 `json:"target" binding:"required"`
}

type updateKPIRequest struct {
	Name     *string  `json:"name"`
	Unit     *string  `json:"unit"`
	Baseline *float64 `json:"baseline"`
	Target   *float64 `json:"target"`
}

// Create adds a KPI to a project
// POST /api/projects/:id/kpis
func (h *KPIHandler) Create(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req createKPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	kpi := &model.KPI{
		Name:      req.Name,
		Unit:      req.Unit,
		Direction: req.Direction,
		Baseline:  req.Baseline,
		Target:    req.Target,
	}
	created, err := h.kpis.Create(c.Request.Context(), middleware.OrgID(c), middleware.ActorID(c), projectID, kpi)
	if err != nil {
		respondError(c, err, "Failed to create KPI")
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse("KPI created", created))
}

// List returns a project's KPIs
// GET /api/projects/:id/kpis
func (h *KPIHandler) List(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	kpis, err := h.kpis.ListByProject(c.Request.Context(), middleware.OrgID(c), projectID)
	if err != nil {
		respondError(c, err, "Failed to list KPIs")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", kpis))
}

// Summary rolls up a project's KPI attainment
// GET /api/projects/:id/kpis/summary
func (h *KPIHandler) Summary(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	summary, err := h.kpis.Summary(c.Request.Context(), middleware.OrgID(c), projectID)
	if err != nil {
		respondError(c, err, "Failed to build KPI summary")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", summary))
}

// Get returns one KPI with its measurement history
// GET /api/kpis/:id
func (h *KPIHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	kpi, err := h.kpis.Get(c.Request.Context(), middleware.OrgID(c), id)
	if err != nil {
		respondError(c, err, "KPI not found")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", kpi))
}

// Update patches KPI fields
// PATCH /api/kpis/:id
func (h *KPIHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateKPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Unit != nil {
		fields["unit"] = *req.Unit
	}
	if req.Baseline != nil {
		fields["baseline"] = *req.Baseline
	}
	if req.Target != nil {
		fields["target"] = *req.Target
	}

	if err := h.kpis.Update(c.Request.Context(), middleware.OrgID(c), id, fields); err != nil {
		respondError(c, err, "Failed to update KPI")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("KPI updated", nil))
}

// Delete removes a KPI
// DELETE /api/kpis/:id
func (h *KPIHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.kpis.Delete(c.Request.Context(), middleware.OrgID(c), id); err != nil {
		respondError(c, err, "Failed to delete KPI")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("KPI deleted", nil))
}

// AddMeasurement records a data point and moves the current value
// POST /api/kpis/:id/measurements
func (h *KPIHandler) AddMeasurement(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Value *float64 `json:"value" binding:"required"`
		Note  string   `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	kpi, err := h.kpis.AddMeasurement(c.Request.Context(), middleware.OrgID(c), middleware.ActorID(c), id, *req.Value, req.Note)
	if err != nil {
		respondError(c, err, "Failed to record measurement")
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse("Measurement recorded", kpi))
}
