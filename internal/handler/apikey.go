package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"datarw/internal/middleware"
	"datarw/internal/model"
	"datarw/internal/service"
)

// APIKeyHandler manages an organization's API keys
type APIKeyHandler struct {
	apiKeys *service.APIKeyService
}

// NewAPIKeyHandler creates a new API key handler
func NewAPIKeyHandler(apiKeys *service.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{apiKeys: apiKeys}
}

// List returns the organization's keys without hashes
// GET /api/apikeys
func (h *APIKeyHandler) List(c *gin.Context) {
	keys, err := h.apiKeys.ListByOrgID(c.Request.Context(), middleware.OrgID(c))
	if err != nil {
		respondError(c, err, "Failed to list API keys")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", keys))
}

// Generate issues a new key; the plaintext is shown exactly once
// POST /api/apikeys
func (h *APIKeyHandler) Generate(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	resp, err := h.apiKeys.GenerateKey(c.Request.Context(), middleware.OrgID(c), middleware.ActorID(c), req.Name)
	if err != nil {
		respondError(c, err, "Failed to generate API key")
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse("API key created. Store it now; it will not be shown again.", resp))
}

// Revoke deletes a key
// DELETE /api/apikeys/:id
func (h *APIKeyHandler) Revoke(c *gin.Context) {
	keyID := c.Param("id")
	if _, err := h.apiKeys.GetOwned(c.Request.Context(), middleware.OrgID(c), keyID); err != nil {
		respondError(c, err, "API key not found")
		return
	}
	if err := h.apiKeys.RevokeKey(c.Request.Context(), keyID); err != nil {
		respondError(c, err, "Failed to revoke API key")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("API key revoked", nil))
}

// Touch stamps a key's last-used time without authenticating with it.
// Lets an admin mark externally-rotated keys as still in service.
// PATCH /api/apikeys/:id/touch
func (h *APIKeyHandler) Touch(c *gin.Context) {
	keyID := c.Param("id")
	if _, err := h.apiKeys.GetOwned(c.Request.Context(), middleware.OrgID(c), keyID); err != nil {
		respondError(c, err, "API key not found")
		return
	}
	if err := h.apiKeys.TouchKey(c.Request.Context(), keyID, time.Now()); err != nil {
		respondError(c, err, "Failed to update API key")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("API key touched", nil))
}

// SetActive soft-revokes or restores a key
// PATCH /api/apikeys/:id/active
func (h *APIKeyHandler) SetActive(c *gin.Context) {
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	keyID := c.Param("id")
	if _, err := h.apiKeys.GetOwned(c.Request.Context(), middleware.OrgID(c), keyID); err != nil {
		respondError(c, err, "API key not found")
		return
	}
	if err := h.apiKeys.SetActive(c.Request.Context(), keyID, *req.Active); err != nil {
		respondError(c, err, "Failed to update API key")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("API key updated", nil))
}
