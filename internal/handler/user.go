package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"datarw/internal/middleware"
	"datarw/internal/model"
	"datarw/internal/service"
)

// UserHandler manages organization members
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List returns the organization's members
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.ListByOrg(c.Request.Context(), middleware.OrgID(c))
	if err != nil {
		respondError(c, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", users))
}

// Create provisions a member with a generated temporary password
// POST /api/users
func (h *UserHandler) Create(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	resp, err := h.users.Provision(c.Request.Context(), middleware.OrgID(c), middleware.ActorID(c), &req)
	if err != nil {
		respondError(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse("User created. The temporary password will not be shown again.", resp))
}

// Get returns one member
// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), middleware.OrgID(c), id)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", user))
}

// Update changes a member's profile
// PATCH /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid request body", err.Error()))
		return
	}
	if err := h.users.Update(c.Request.Context(), middleware.OrgID(c), id, req.Name); err != nil {
		respondError(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("User updated", nil))
}

// UpdateRole changes a member's role
// PATCH /api/users/:id/role
func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Role model.Role `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid request body", err.Error()))
		return
	}
	if err := h.users.UpdateRole(c.Request.Context(), middleware.OrgID(c), id, req.Role); err != nil {
		respondError(c, err, "Failed to update role")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Role updated", nil))
}

// Deactivate soft-deletes a member
// DELETE /api/users/:id
func (h *UserHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.users.Deactivate(c.Request.Context(), middleware.OrgID(c), id); err != nil {
		respondError(c, err, "Failed to deactivate user")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("User deactivated", nil))
}
