package handler

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"datarw/internal/config"
	"datarw/internal/model"
	"datarw/internal/service"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AuthHandler handles public self-registration
type AuthHandler struct {
	users   *service.UserService
	orgs    *service.OrgService
	apiKeys *service.APIKeyService
	cfg     *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg *config.Config, users *service.UserService, orgs *service.OrgService, apiKeys *service.APIKeyService) *AuthHandler {
	return &AuthHandler{users: users, orgs: orgs, apiKeys: apiKeys, cfg: cfg}
}

// Register creates the owner account, its organization on the basic plan,
// and the first API key. The plaintext key is returned exactly once.
// POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid request body", err.Error()))
		return
	}
	if !emailPattern.MatchString(req.Email) || len(req.Email) > config.MaxEmailLength {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid email address", ""))
		return
	}
	if len(req.Name) > config.MaxNameLength || len(req.OrgName) > config.MaxNameLength {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Name too long", ""))
		return
	}

	user, err := h.users.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Registration failed")
		return
	}

	orgName := req.OrgName
	if orgName == "" {
		orgName = user.Name + "'s organization"
	}
	org, err := h.orgs.EnsureDefaultOrg(c.Request.Context(), user.ID, orgName)
	if err != nil {
		respondError(c, err, "Failed to create organization")
		return
	}
	if err := h.users.AttachToOrg(c.Request.Context(), user.ID, org.ID); err != nil {
		respondError(c, err, "Failed to create organization")
		return
	}
	user.OrgID = org.ID

	key, err := h.apiKeys.GenerateKey(c.Request.Context(), org.ID, user.ID, "default")
	if err != nil {
		respondError(c, err, "Failed to issue API key")
		return
	}

	c.JSON(http.StatusCreated, model.NewSuccessResponse("Account created", gin.H{
		"user":   user,
		"org":    org,
		"apiKey": key,
	}))
}
