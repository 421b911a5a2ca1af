package service

import (
	"context"
	"fmt"
	"time"

	"datarw/internal/config"
	"datarw/internal/model"
	"datarw/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityService handles activity business logic
type ActivityService struct {
	repo     repository.IActivityRepository
	projects repository.IProjectRepository
	budgets  repository.IBudgetRepository
	expenses repository.IExpenseRepository
	cfg      *config.Config
}

// NewActivityService creates a new activity service
func NewActivityService(cfg *config.Config, repo repository.IActivityRepository, projects repository.IProjectRepository,
	budgets repository.IBudgetRepository, expenses repository.IExpenseRepository) *ActivityService {
	return &ActivityService{repo: repo, projects: projects, budgets: budgets, expenses: expenses, cfg: cfg}
}

// Create adds an activity after checking the project belongs to the caller
func (s *ActivityService) Create(ctx context.Context, orgID, actorID, projectID primitive.ObjectID, a *model.Activity) (*model.Activity, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil || project.OrgID != orgID {
		return nil, ErrNotFound
	}

	if a.Status == "" {
		a.Status = model.ActivityPlanned
	}
	if !model.ValidActivityStatus(a.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, a.Status)
	}
	if !a.PlannedEnd.IsZero() && a.PlannedEnd.Before(a.PlannedStart) {
		return nil, fmt.Errorf("%w: plannedEnd before plannedStart", ErrInvalidInput)
	}

	a.OrgID = orgID
	a.ProjectID = projectID
	a.CreatedBy = actorID
	return s.repo.Create(ctx, a)
}

// Get returns an activity scoped to the caller's organization
func (s *ActivityService) Get(ctx context.Context, orgID, id primitive.ObjectID) (*model.Activity, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}
	if a == nil || a.OrgID != orgID {
		return nil, ErrNotFound
	}
	return a, nil
}

// ListByProject returns a project's activities in planned order
func (s *ActivityService) ListByProject(ctx context.Context, orgID, projectID primitive.ObjectID) ([]*model.Activity, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil || project.OrgID != orgID {
		return nil, ErrNotFound
	}
	return s.repo.FindByProject(ctx, projectID)
}

// Update changes mutable activity fields
func (s *ActivityService) Update(ctx context.Context, orgID, id primitive.ObjectID, fields map[string]interface{}) error {
	if _, err := s.Get(ctx, orgID, id); err != nil {
		return err
	}
	if status, ok := fields["status"].(string); ok && !model.ValidActivityStatus(status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	return s.repo.UpdateFields(ctx, id, fields)
}

// Delete removes an activity
func (s *ActivityService) Delete(ctx context.Context, orgID, id primitive.ObjectID) error {
	if _, err := s.Get(ctx, orgID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Variance compares planned vs actual schedule, output and budget for one
// activity. Schedule slip for unfinished work is measured against today.
func (s *ActivityService) Variance(ctx context.Context, orgID, id primitive.ObjectID) (*model.ActivityVariance, error) {
	a, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	v := &model.ActivityVariance{
		ActivityID: a.ID.Hex(),
		Name:       a.Name,
		Status:     a.Status,
		OutputUnit: a.OutputUnit,
	}

	v.ScheduleVarianceDays = scheduleVarianceDays(a, time.Now())
	v.ScheduleSlipped = v.ScheduleVarianceDays > 0

	v.OutputVariance = round2(a.ActualOutput - a.PlannedOutput)
	if a.PlannedOutput != 0 {
		v.OutputVariancePct = pctOf(a.ActualOutput-a.PlannedOutput, a.PlannedOutput)
	}

	items, err := s.budgets.FindByActivity(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load budget items: %w", err)
	}
	itemIDs := make([]primitive.ObjectID, len(items))
	for i, item := range items {
		v.BudgetPlanned += item.PlannedAmount
		itemIDs[i] = item.ID
	}

	spent, err := s.expenses.SumByBudgetItems(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}
	v.BudgetSpent = round2(spent)
	v.BudgetPlanned = round2(v.BudgetPlanned)
	v.BudgetVariance = round2(v.BudgetPlanned - v.BudgetSpent)
	if v.BudgetPlanned != 0 {
		v.BudgetVariancePct = pctOf(v.BudgetVariance, v.BudgetPlanned)
	}

	return v, nil
}

// scheduleVarianceDays returns how many days the activity runs behind plan.
// Completed work compares actual vs planned end; in-flight work compares the
// planned end against now once it has passed.
func scheduleVarianceDays(a *model.Activity, now time.Time) int {
	if a.PlannedEnd.IsZero() {
		return 0
	}
	switch {
	case a.ActualEnd != nil:
		return daysBetween(a.PlannedEnd, *a.ActualEnd)
	case now.After(a.PlannedEnd) && a.Status != model.ActivityCompleted:
		return daysBetween(a.PlannedEnd, now)
	default:
		return 0
	}
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
