package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"datarw/internal/middleware"
	"datarw/internal/model"
	"datarw/internal/service"
)

// BeneficiaryHandler manages project beneficiary records
type BeneficiaryHandler struct {
	beneficiaries *service.BeneficiaryService
}

// NewBeneficiaryHandler creates a new beneficiary handler
func NewBeneficiaryHandler(beneficiaries *service.BeneficiaryService) *BeneficiaryHandler {
	return &BeneficiaryHandler{beneficiaries: beneficiaries}
}

type beneficiaryRequest struct {
	Name     string   `json:"name" binding:"required"`
	Gender   string   `json:"gender"`
	AgeGroup string   `json:"ageGroup"`
	Location string   `json:"location"`
	Tags     []string `json:"tags"`
}

// Create registers a beneficiary on a project
// POST /api/projects/:id/beneficiaries
func (h *BeneficiaryHandler) Create(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req beneficiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	b := &model.Beneficiary{
		Name:     req.Name,
		Gender:   req.Gender,
		AgeGroup: req.AgeGroup,
		Location: req.Location,
		Tags:     req.Tags,
	}
	created, err := h.beneficiaries.Create(c.Request.Context(), middleware.OrgID(c), middleware.ActorID(c), projectID, b)
	if err != nil {
		respondError(c, err, "Failed to create beneficiary")
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse("Beneficiary created", created))
}

// List returns a project's beneficiaries
// GET /api/projects/:id/beneficiaries
func (h *BeneficiaryHandler) List(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := h.beneficiaries.ListByProject(c.Request.Context(), middleware.OrgID(c), projectID)
	if err != nil {
		respondError(c, err, "Failed to list beneficiaries")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", list))
}

// Demographics buckets a project's beneficiaries by gender, age and location
// GET /api/projects/:id/beneficiaries/demographics
func (h *BeneficiaryHandler) Demographics(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	demo, err := h.beneficiaries.Demographics(c.Request.Context(), middleware.OrgID(c), projectID)
	if err != nil {
		respondError(c, err, "Failed to compute demographics")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", demo))
}

// Get returns one beneficiary
// GET /api/beneficiaries/:id
func (h *BeneficiaryHandler) Get(c *gin.Context) {
	b, err := h.beneficiaries.Get(c.Request.Context(), middleware.OrgID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Beneficiary not found")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", b))
}

// Update replaces a beneficiary's profile fields
// PUT /api/beneficiaries/:id
func (h *BeneficiaryHandler) Update(c *gin.Context) {
	var req beneficiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	updated, err := h.beneficiaries.Update(c.Request.Context(), middleware.OrgID(c), c.Param("id"),
		req.Name, req.Gender, req.AgeGroup, req.Location, req.Tags)
	if err != nil {
		respondError(c, err, "Failed to update beneficiary")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Beneficiary updated", updated))
}

// Delete removes a beneficiary
// DELETE /api/beneficiaries/:id
func (h *BeneficiaryHandler) Delete(c *gin.Context) {
	if err := h.beneficiaries.Delete(c.Request.Context(), middleware.OrgID(c), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete beneficiary")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Beneficiary deleted", nil))
}
