package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"datarw/internal/middleware"
	"datarw/internal/model"
	"datarw/internal/service"
	"datarw/pkg/util"
)

// FinanceHandler manages budget lines, expenses and the finance rollups
type FinanceHandler struct {
	finance *service.FinanceService
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(finance *service.FinanceService) *FinanceHandler {
	return &FinanceHandler{finance: finance}
}

type createBudgetItemRequest struct {
	Category      string    `json:"category" binding:"required"`
	Description   string    `json:"description"`
	PlannedAmount float64   `json:"plannedAmount" binding:"required"`
	ActivityID    string    `json:"activityId"`
	PeriodStart   time.Time `json:"periodStart"`
	PeriodEnd     time.Time `json:"periodEnd"`
}

type recordExpenseRequest struct {
	Description string    `json:"description"`
	Amount      float64   `json:"amount" binding:"required"`
	SpentAt     time.Time `json:"spentAt"`
}

// CreateBudgetItem adds a planned spending line to a project
// POST /api/projects/:id/budget-items
func (h *FinanceHandler) CreateBudgetItem(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req createBudgetItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	item := &model.BudgetItem{
		Category:      req.Category,
		Description:   req.Description,
		PlannedAmount: req.PlannedAmount,
		PeriodStart:   req.PeriodStart,
		PeriodEnd:     req.PeriodEnd,
	}
	if req.ActivityID != "" {
		activityID, err := util.ParseObjectID(req.ActivityID)
		if err != nil {
			c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid activityId", err.Error()))
			return
		}
		item.ActivityID = activityID
	} else {
		item.ActivityID = primitive.NilObjectID
	}

	created, err := h.finance.CreateBudgetItem(c.Request.Context(), middleware.OrgID(c), middleware.ActorID(c), projectID, item)
	if err != nil {
		respondError(c, err, "Failed to create budget item")
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse("Budget item created", created))
}

// ListBudgetItems returns a project's budget lines
// GET /api/projects/:id/budget-items
func (h *FinanceHandler) ListBudgetItems(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	items, err := h.finance.ListBudgetItems(c.Request.Context(), middleware.OrgID(c), projectID)
	if err != nil {
		respondError(c, err, "Failed to list budget items")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", items))
}

// DeleteBudgetItem removes a budget line
// DELETE /api/budget-items/:id
func (h *FinanceHandler) DeleteBudgetItem(c *gin.Context) {
	if err := h.finance.DeleteBudgetItem(c.Request.Context(), middleware.OrgID(c), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete budget item")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Budget item deleted", nil))
}

// RecordExpense posts an actual spend against a budget item
// POST /api/budget-items/:id/expenses
func (h *FinanceHandler) RecordExpense(c *gin.Context) {
	var req recordExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid request body", err.Error()))
		return
	}

	expense := &model.Expense{
		Description: req.Description,
		Amount:      req.Amount,
		SpentAt:     req.SpentAt,
	}
	created, err := h.finance.RecordExpense(c.Request.Context(), middleware.OrgID(c), middleware.ActorID(c), c.Param("id"), expense)
	if err != nil {
		respondError(c, err, "Failed to record expense")
		return
	}
	c.JSON(http.StatusCreated, model.NewSuccessResponse("Expense recorded", created))
}

// ListExpenses returns a project's expenses
// GET /api/projects/:id/expenses
func (h *FinanceHandler) ListExpenses(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	expenses, err := h.finance.ListExpenses(c.Request.Context(), middleware.OrgID(c), projectID)
	if err != nil {
		respondError(c, err, "Failed to list expenses")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", expenses))
}

// DeleteExpense removes an expense
// DELETE /api/expenses/:id
func (h *FinanceHandler) DeleteExpense(c *gin.Context) {
	if err := h.finance.DeleteExpense(c.Request.Context(), middleware.OrgID(c), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete expense")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Expense deleted", nil))
}

// Summary returns the planned-vs-actual rollup by category
// GET /api/projects/:id/finance/summary
func (h *FinanceHandler) Summary(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	summary, err := h.finance.Summary(c.Request.Context(), middleware.OrgID(c), projectID)
	if err != nil {
		respondError(c, err, "Failed to build finance summary")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", summary))
}

// Forecast projects spend to the end of the project period
// GET /api/projects/:id/finance/forecast
func (h *FinanceHandler) Forecast(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	forecast, err := h.finance.Forecast(c.Request.Context(), middleware.OrgID(c), projectID)
	if err != nil {
		respondError(c, err, "Failed to build forecast")
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", forecast))
}
