package service

import (
	"context"
	"fmt"

	"datarw/internal/config"
	"datarw/internal/model"
	"datarw/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectService handles project business logic
type ProjectService struct {
	repo          repository.IProjectRepository
	orgs          repository.IOrgRepository
	activities    repository.IActivityRepository
	kpis          repository.IKPIRepository
	budgets       repository.IBudgetRepository
	expenses      repository.IExpenseRepository
	beneficiaries repository.IBeneficiaryRepository
	cfg           *config.Config
}

// NewProjectService creates a new project service
func NewProjectService(cfg *config.Config, repo repository.IProjectRepository, orgs repository.IOrgRepository,
	activities repository.IActivityRepository, kpis repository.IKPIRepository,
	budgets repository.IBudgetRepository, expenses repository.IExpenseRepository,
	beneficiaries repository.IBeneficiaryRepository) *ProjectService {
	return &ProjectService{
		repo: repo, orgs: orgs, activities: activities, kpis: kpis,
		budgets: budgets, expenses: expenses, beneficiaries: beneficiaries, cfg: cfg,
	}
}

// Create adds a project, enforcing the plan's project cap
func (s *ProjectService) Create(ctx context.Context, orgID, actorID primitive.ObjectID, p *model.Project) (*model.Project, error) {
	org, err := s.orgs.FindByID(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load org: %w", err)
	}
	if org == nil {
		return nil, ErrNotFound
	}

	count, err := s.repo.CountByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	if !model.Allows(org.Plan.Spec().MaxProjects, count) {
		return nil, fmt.Errorf("%w: plan %s allows %d projects", ErrPlanLimitReached, org.Plan, org.Plan.Spec().MaxProjects)
	}

	if p.Status == "" {
		p.Status = model.ProjectPlanning
	}
	if !model.ValidProjectStatus(p.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, p.Status)
	}
	if !p.EndDate.IsZero() && p.EndDate.Before(p.StartDate) {
		return nil, fmt.Errorf("%w: endDate before startDate", ErrInvalidInput)
	}

	p.OrgID = orgID
	p.CreatedBy = actorID
	return s.repo.Create(ctx, p)
}

// Get returns a project scoped to the caller's organization
func (s *ProjectService) Get(ctx context.Context, orgID, id primitive.ObjectID) (*model.Project, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if p == nil || p.OrgID != orgID {
		return nil, ErrNotFound
	}
	return p, nil
}

// ListByOrg returns all projects of an organization
func (s *ProjectService) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.Project, error) {
	return s.repo.FindByOrg(ctx, orgID)
}

// Update changes mutable project fields
func (s *ProjectService) Update(ctx context.Context, orgID, id primitive.ObjectID, fields map[string]interface{}) error {
	if _, err := s.Get(ctx, orgID, id); err != nil {
		return err
	}
	if status, ok := fields["status"].(string); ok && !model.ValidProjectStatus(status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	return s.repo.UpdateFields(ctx, id, fields)
}

// Delete removes a project
func (s *ProjectService) Delete(ctx context.Context, orgID, id primitive.ObjectID) error {
	if _, err := s.Get(ctx, orgID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Dashboard aggregates a project's headline numbers for the overview page
func (s *ProjectService) Dashboard(ctx context.Context, orgID, id primitive.ObjectID) (*model.ProjectDashboard, error) {
	p, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.activities.CountByStatus(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count activities: %w", err)
	}

	kpis, err := s.kpis.FindByProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load kpis: %w", err)
	}
	var attainment float64
	if len(kpis) > 0 {
		for _, k := range kpis {
			attainment += k.Attainment()
		}
		attainment /= float64(len(kpis))
	}

	plannedByCat, err := s.budgets.SumPlannedByCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to sum budget: %w", err)
	}
	var planned float64
	for _, v := range plannedByCat {
		planned += v
	}

	spent, err := s.expenses.SumByProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}

	var utilization float64
	if planned > 0 {
		utilization = spent / planned * 100
	}

	beneficiaries, err := s.beneficiaries.Count(ctx, map[string]interface{}{"projectId": id})
	if err != nil {
		return nil, fmt.Errorf("failed to count beneficiaries: %w", err)
	}

	return &model.ProjectDashboard{
		Project:           p,
		ActivityByStatus:  byStatus,
		KPIAttainment:     round2(attainment),
		BudgetPlanned:     round2(planned),
		BudgetSpent:       round2(spent),
		BudgetUtilization: round2(utilization),
		BeneficiaryCount:  beneficiaries,
	}, nil
}
