package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"datarw/internal/middleware"
	"datarw/internal/model"
	"datarw/internal/service"
	"datarw/pkg/util"
)

// SurveyHandler manages surveys, their lifecycle and responses
type SurveyHandler struct {
	surveys *service.SurveyService
}

// NewSurveyHandler creates a new survey handler
func NewSurveyHandler(surveys *service.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveys: surveys}
}

type createSurveyRequest struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	Language    string           `json:"language"`
	ProjectID   string           `json:"projectId"`
	Questions   []model.Question `json:"questions"`
}

type updateSurveyRequest struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	Questions   []model.Question `json:"questions"`
}

// Create adds a draft survey
// POST /api/surveys
func (h *SurveyHandler) Create(c *gin.Context) {
	var req createSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	survey := &model.Survey{
		Title:       req.Title,
		Description: req.Description,
		Language:    req.Language,
		Questions:   req.Questions,
	}
	if req.ProjectID != "" {
		projectID, err := util.ParseObjectID(req.ProjectID)
		if err != nil {
			c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid projectId", err.Error()))
			return
		}
		survey.ProjectID = projectID
	} else {
		survey.ProjectID = primitive.NilObjectID
	}

	created, err := h.surveys.Create(c.Request.Context(), middleware.OrgID(c), middleware.ActorID(c), survey)
	if err != nil {
		respondError(c, err, "Failed to create survey")
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse("Survey created", created))
}

// List returns the organization's surveys
// GET /api/surveys
func (h *SurveyHandler) List(c *gin.Context) {
	surveys, err := h.surveys.ListByOrg(c.Request.Context(), middleware.OrgID(c))
	if err != nil {
		respondError(c, err, "Failed to list surveys")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", surveys))
}

// Get returns one survey
// GET /api/surveys/:id
func (h *SurveyHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	survey, err := h.surveys.Get(c.Request.Context(), middleware.OrgID(c), id)
	if err != nil {
		respondError(c, err, "Survey not found")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", survey))
}

// Update replaces a draft survey's content
// PUT /api/surveys/:id
func (h *SurveyHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	updated, err := h.surveys.Update(c.Request.Context(), middleware.OrgID(c), id, req.Title, req.Description, req.Questions)
	if err != nil {
		respondError(c, err, "Failed to update survey")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Survey updated", updated))
}

// Delete removes a survey and its responses
// DELETE /api/surveys/:id
func (h *SurveyHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.surveys.Delete(c.Request.Context(), middleware.OrgID(c), id); err != nil {
		respondError(c, err, "Failed to delete survey")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Survey deleted", nil))
}

// Publish activates a draft survey
// POST /api/surveys/:id/publish
func (h *SurveyHandler) Publish(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	survey, err := h.surveys.Publish(c.Request.Context(), middleware.OrgID(c), id)
	if err != nil {
		respondError(c, err, "Failed to publish survey")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Survey published", survey))
}

// Close stops an active survey from accepting responses
// POST /api/surveys/:id/close
func (h *SurveyHandler) Close(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	survey, err := h.surveys.Close(c.Request.Context(), middleware.OrgID(c), id)
	if err != nil {
		respondError(c, err, "Failed to close survey")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Survey closed", survey))
}

// Generate drafts a survey from a free-form description
// POST /api/surveys/generate
func (h *SurveyHandler) Generate(c *gin.Context) {
	var req model.GenerateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	survey, err := h.surveys.Generate(c.Request.Context(), middleware.OrgID(c), middleware.ActorID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to generate survey")
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse("Survey generated", survey))
}

// Translate creates a translated copy of a survey as a new draft
// POST /api/surveys/:id/translate
func (h *SurveyHandler) Translate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req model.TranslateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	translated, err := h.surveys.Translate(c.Request.Context(), middleware.OrgID(c), middleware.ActorID(c), id, req.Language)
	if err != nil {
		respondError(c, err, "Failed to translate survey")
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse("Survey translated", translated))
}

// SubmitResponse records a respondent's submission on an active survey
// POST /api/surveys/:id/responses
func (h *SurveyHandler) SubmitResponse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Respondent string         `json:"respondent"`
		Answers    []model.Answer `json:"answers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	resp := &model.SurveyResponse{Respondent: req.Respondent, Answers: req.Answers}
	created, err := h.surveys.SubmitResponse(c.Request.Context(), middleware.OrgID(c), id, resp)
	if err != nil {
		respondError(c, err, "Failed to submit response")
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse("Response recorded", created))
}

// ListResponses returns a survey's submissions
// GET /api/surveys/:id/responses
func (h *SurveyHandler) ListResponses(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	responses, err := h.surveys.ListResponses(c.Request.Context(), middleware.OrgID(c), id)
	if err != nil {
		respondError(c, err, "Failed to list responses")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", responses))
}

// Stats aggregates a survey's answers per question
// GET /api/surveys/:id/stats
func (h *SurveyHandler) Stats(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	stats, err := h.surveys.Stats(c.Request.Context(), middleware.OrgID(c), id)
	if err != nil {
		respondError(c, err, "Failed to compute stats")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", stats))
}
