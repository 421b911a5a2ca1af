package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"datarw/internal/config"
	"datarw/internal/model"
	"datarw/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FinanceService handles budgets, expenses and the variance/forecast rollups
type FinanceService struct {
	budgets  repository.IBudgetRepository
	expenses repository.IExpenseRepository
	projects repository.IProjectRepository
	cfg      *config.Config
}

// NewFinanceService creates a new finance service
func NewFinanceService(cfg *config.Config, budgets repository.IBudgetRepository, expenses repository.IExpenseRepository, projects repository.IProjectRepository) *FinanceService {
	return &FinanceService{budgets: budgets, expenses: expenses, projects: projects, cfg: cfg}
}

func (s *FinanceService) project(ctx context.Context, orgID, projectID primitive.ObjectID) (*model.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil || project.OrgID != orgID {
		return nil, ErrNotFound
	}
	return project, nil
}

// CreateBudgetItem adds a planned spending line to a project
func (s *FinanceService) CreateBudgetItem(ctx context.Context, orgID, actorID, projectID primitive.ObjectID, item *model.BudgetItem) (*model.BudgetItem, error) {
	if _, err := s.project(ctx, orgID, projectID); err != nil {
		return nil, err
	}
	if item.Category == "" {
		return nil, fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	if item.PlannedAmount <= 0 {
		return nil, fmt.Errorf("%w: plannedAmount must be positive", ErrInvalidInput)
	}

	now := time.Now()
	item.OrgID = orgID
	item.ProjectID = projectID
	item.CreatedBy = actorID
	item.CreatedAt = now
	item.UpdatedAt = now
	if err := s.budgets.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create budget item: %w", err)
	}
	return item, nil
}

// ListBudgetItems returns a project's budget lines
func (s *FinanceService) ListBudgetItems(ctx context.Context, orgID, projectID primitive.ObjectID) ([]*model.BudgetItem, error) {
	if _, err := s.project(ctx, orgID, projectID); err != nil {
		return nil, err
	}
	return s.budgets.FindByProject(ctx, projectID)
}

// DeleteBudgetItem removes a budget line
func (s *FinanceService) DeleteBudgetItem(ctx context.Context, orgID primitive.ObjectID, id string) error {
	item, err := s.budgets.GetByID(ctx, id)
	if err != nil || item == nil || item.OrgID != orgID {
		return ErrNotFound
	}
	return s.budgets.Delete(ctx, id)
}

// RecordExpense records actual spend against a budget line. The category is
// denormalized from the line so rollups stay single-collection queries.
func (s *FinanceService) RecordExpense(ctx context.Context, orgID, actorID primitive.ObjectID, budgetItemID string, e *model.Expense) (*model.Expense, error) {
	if e.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	item, err := s.budgets.GetByID(ctx, budgetItemID)
	if err != nil || item == nil || item.OrgID != orgID {
		return nil, fmt.Errorf("%w: budget item %s", ErrNotFound, budgetItemID)
	}

	now := time.Now()
	e.OrgID = orgID
	e.ProjectID = item.ProjectID
	e.BudgetItemID = item.ID
	e.Category = item.Category
	e.CreatedBy = actorID
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.SpentAt.IsZero() {
		e.SpentAt = now
	}

	if err := s.expenses.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to record expense: %w", err)
	}
	return e, nil
}

// ListExpenses returns a project's expenses, newest first
func (s *FinanceService) ListExpenses(ctx context.Context, orgID, projectID primitive.ObjectID) ([]*model.Expense, error) {
	if _, err := s.project(ctx, orgID, projectID); err != nil {
		return nil, err
	}
	return s.expenses.FindByProject(ctx, projectID)
}

// DeleteExpense removes an expense record
func (s *FinanceService) DeleteExpense(ctx context.Context, orgID primitive.ObjectID, id string) error {
	e, err := s.expenses.GetByID(ctx, id)
	if err != nil || e == nil || e.OrgID != orgID {
		return ErrNotFound
	}
	return s.expenses.Delete(ctx, id)
}

// Summary builds the per-category planned vs actual variance table
func (s *FinanceService) Summary(ctx context.Context, orgID, projectID primitive.ObjectID) (*model.FinanceSummary, error) {
	if _, err := s.project(ctx, orgID, projectID); err != nil {
		return nil, err
	}

	planned, err := s.budgets.SumPlannedByCategory(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum planned: %w", err)
	}
	actual, err := s.expenses.SumActualByCategory(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum actual: %w", err)
	}

	// Union of categories from both sides; off-budget spend still shows up
	categories := make(map[string]struct{}, len(planned)+len(actual))
	for c := range planned {
		categories[c] = struct{}{}
	}
	for c := range actual {
		categories[c] = struct{}{}
	}
	names := make([]string, 0, len(categories))
	for c := range categories {
		names = append(names, c)
	}
	sort.Strings(names)

	summary := &model.FinanceSummary{ProjectID: projectID.Hex()}
	for _, name := range names {
		p := planned[name]
		a := actual[name]
		row := model.CategoryVariance{
			Category: name,
			Planned:  round2(p),
			Actual:   round2(a),
			Variance: round2(p - a),
		}
		if p != 0 {
			row.VariancePct = pctOf(p-a, p)
		}
		summary.Categories = append(summary.Categories, row)
		summary.TotalPlanned += p
		summary.TotalActual += a
	}

	summary.TotalPlanned = round2(summary.TotalPlanned)
	summary.TotalActual = round2(summary.TotalActual)
	summary.TotalVariance = round2(summary.TotalPlanned - summary.TotalActual)
	summary.UtilizationPct = pctOf(summary.TotalActual, summary.TotalPlanned)
	return summary, nil
}

// Forecast projects total spend at the project end date from the burn rate
// observed so far. The burn window starts at the project start date, or at
// the first expense when no start date is set.
func (s *FinanceService) Forecast(ctx context.Context, orgID, projectID primitive.ObjectID) (*model.FinanceForecast, error) {
	project, err := s.project(ctx, orgID, projectID)
	if err != nil {
		return nil, err
	}

	spent, err := s.expenses.SumByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}

	start := project.StartDate
	if start.IsZero() {
		if start, err = s.expenses.EarliestSpend(ctx, projectID); err != nil {
			return nil, fmt.Errorf("failed to find first expense: %w", err)
		}
	}

	return buildForecast(project, spent, start, time.Now()), nil
}

func buildForecast(project *model.Project, spent float64, start, now time.Time) *model.FinanceForecast {
	f := &model.FinanceForecast{
		ProjectID:    project.ID.Hex(),
		TotalBudget:  round2(project.TotalBudget),
		CurrentSpend: round2(spent),
	}

	if !start.IsZero() && now.After(start) {
		f.DaysElapsed = int(now.Sub(start).Hours() / 24)
	}
	if f.DaysElapsed > 0 {
		f.DailyBurnRate = round2(spent / float64(f.DaysElapsed))
	}
	if !project.EndDate.IsZero() && project.EndDate.After(now) {
		f.DaysRemaining = int(project.EndDate.Sub(now).Hours() / 24)
	}

	f.ProjectedTotal = round2(spent + f.DailyBurnRate*float64(f.DaysRemaining))
	if project.TotalBudget > 0 {
		f.ProjectedOverrun = round2(f.ProjectedTotal - project.TotalBudget)
		f.BudgetUsedPercent = pctOf(spent, project.TotalBudget)
	}
	return f
}
