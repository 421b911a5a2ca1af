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

// OrgService handles organization business logic
type OrgService struct {
	repo     repository.IOrgRepository
	users    repository.IUserRepository
	projects repository.IProjectRepository
	surveys  repository.ISurveyRepository
	cfg      *config.Config
}

// NewOrgService creates a new org service
func NewOrgService(cfg *config.Config, repo repository.IOrgRepository, users repository.IUserRepository, projects repository.IProjectRepository, surveys repository.ISurveyRepository) *OrgService {
	return &OrgService{repo: repo, users: users, projects: projects, surveys: surveys, cfg: cfg}
}

// EnsureDefaultOrg returns the owner's org, creating one on first call
func (s *OrgService) EnsureDefaultOrg(ctx context.Context, ownerID primitive.ObjectID, name string) (*model.Organization, error) {
	existing, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up org: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	org := &model.Organization{
		Name:         name,
		OwnerID:      ownerID,
		Plan:         model.PlanBasic,
		Usage:        model.OrgUsage{Users: 1},
		Subscription: model.Subscription{Status: "none"},
		CreatedBy:    ownerID,
	}
	created, err := s.repo.Create(ctx, org)
	if err != nil {
		return nil, fmt.Errorf("failed to create org: %w", err)
	}
	return created, nil
}

// Get returns an organization by ID
func (s *OrgService) Get(ctx context.Context, id primitive.ObjectID) (*model.Organization, error) {
	org, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load org: %w", err)
	}
	if org == nil {
		return nil, ErrNotFound
	}
	return org, nil
}

// Rename updates the organization's display name
func (s *OrgService) Rename(ctx context.Context, id primitive.ObjectID, name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return s.repo.UpdateFields(ctx, id, map[string]interface{}{"name": name})
}

// UsageReport pairs live collection counts with the org's plan caps
func (s *OrgService) UsageReport(ctx context.Context, orgID primitive.ObjectID) (*model.OrgUsageReport, error) {
	org, err := s.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}

	usage, err := s.liveUsage(ctx, orgID)
	if err != nil {
		return nil, err
	}

	return &model.OrgUsageReport{
		Plan:  org.Plan,
		Spec:  org.Plan.Spec(),
		Usage: usage,
	}, nil
}

// ApplyPlan moves the org to a new tier with a fresh 30-day window.
// Called by the payment service on settlement.
func (s *OrgService) ApplyPlan(ctx context.Context, orgID primitive.ObjectID, plan model.Plan) error {
	if !plan.IsValid() {
		return fmt.Errorf("%w: unknown plan %q", ErrInvalidInput, plan)
	}
	now := time.Now()
	return s.repo.UpdateFields(ctx, orgID, map[string]interface{}{
		"plan":                   plan,
		"subscription.status":    "active",
		"subscription.startedAt": now,
		"subscription.renewsAt":  now.AddDate(0, 1, 0),
	})
}

// RecountUsage refreshes the stored usage counters from live counts.
// The usage monitor calls this on a ticker for every org.
func (s *OrgService) RecountUsage(ctx context.Context, orgID primitive.ObjectID) error {
	usage, err := s.liveUsage(ctx, orgID)
	if err != nil {
		return err
	}
	return s.repo.UpdateFields(ctx, orgID, map[string]interface{}{"usage": usage})
}

// All returns every organization (usage monitor sweep)
func (s *OrgService) All(ctx context.Context) ([]*model.Organization, error) {
	return s.repo.FindAll(ctx)
}

func (s *OrgService) liveUsage(ctx context.Context, orgID primitive.ObjectID) (model.OrgUsage, error) {
	var usage model.OrgUsage
	var err error

	if usage.Users, err = s.users.CountByOrg(ctx, orgID); err != nil {
		return usage, fmt.Errorf("failed to count users: %w", err)
	}
	if usage.Projects, err = s.projects.CountByOrg(ctx, orgID); err != nil {
		return usage, fmt.Errorf("failed to count projects: %w", err)
	}
	if usage.Surveys, err = s.surveys.CountByOrg(ctx, orgID); err != nil {
		return usage, fmt.Errorf("failed to count surveys: %w", err)
	}
	return usage, nil
}
