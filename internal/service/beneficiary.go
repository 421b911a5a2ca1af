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

// BeneficiaryService handles beneficiary business logic
type BeneficiaryService struct {
	repo     repository.IBeneficiaryRepository
	projects repository.IProjectRepository
	cfg      *config.Config
}

// NewBeneficiaryService creates a new beneficiary service
func NewBeneficiaryService(cfg *config.Config, repo repository.IBeneficiaryRepository, projects repository.IProjectRepository) *BeneficiaryService {
	return &BeneficiaryService{repo: repo, projects: projects, cfg: cfg}
}

func (s *BeneficiaryService) checkProject(ctx context.Context, orgID, projectID primitive.ObjectID) error {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil || project.OrgID != orgID {
		return ErrNotFound
	}
	return nil
}

// Create registers a beneficiary under a project
func (s *BeneficiaryService) Create(ctx context.Context, orgID, actorID, projectID primitive.ObjectID, b *model.Beneficiary) (*model.Beneficiary, error) {
	if err := s.checkProject(ctx, orgID, projectID); err != nil {
		return nil, err
	}
	if b.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	now := time.Now()
	b.OrgID = orgID
	b.ProjectID = projectID
	b.CreatedBy = actorID
	b.CreatedAt = now
	b.UpdatedAt = now
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create beneficiary: %w", err)
	}
	return b, nil
}

// Get returns a beneficiary scoped to the caller's organization
func (s *BeneficiaryService) Get(ctx context.Context, orgID primitive.ObjectID, id string) (*model.Beneficiary, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil || b == nil || b.OrgID != orgID {
		return nil, ErrNotFound
	}
	return b, nil
}

// ListByProject returns a project's beneficiaries
func (s *BeneficiaryService) ListByProject(ctx context.Context, orgID, projectID primitive.ObjectID) ([]*model.Beneficiary, error) {
	if err := s.checkProject(ctx, orgID, projectID); err != nil {
		return nil, err
	}
	return s.repo.FindByProject(ctx, projectID)
}

// Update replaces a beneficiary's mutable fields
func (s *BeneficiaryService) Update(ctx context.Context, orgID primitive.ObjectID, id string, name, gender, ageGroup, location string, tags []string) (*model.Beneficiary, error) {
	b, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		b.Name = name
	}
	if gender != "" {
		b.Gender = gender
	}
	if ageGroup != "" {
		b.AgeGroup = ageGroup
	}
	if location != "" {
		b.Location = location
	}
	if tags != nil {
		b.Tags = tags
	}
	b.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update beneficiary: %w", err)
	}
	return b, nil
}

// Delete removes a beneficiary
func (s *BeneficiaryService) Delete(ctx context.Context, orgID primitive.ObjectID, id string) error {
	if _, err := s.Get(ctx, orgID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Demographics buckets a project's beneficiaries by gender/age/location
func (s *BeneficiaryService) Demographics(ctx context.Context, orgID, projectID primitive.ObjectID) (*model.Demographics, error) {
	if err := s.checkProject(ctx, orgID, projectID); err != nil {
		return nil, err
	}
	return s.repo.Demographics(ctx, projectID)
}
