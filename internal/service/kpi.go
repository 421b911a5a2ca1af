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

// KPIService handles KPI business logic
type KPIService struct {
	repo     repository.IKPIRepository
	projects repository.IProjectRepository
	cfg      *config.Config
}

// NewKPIService creates a new KPI service
func NewKPIService(cfg *config.Config, repo repository.IKPIRepository, projects repository.IProjectRepository) *KPIService {
	return &KPIService{repo: repo, projects: projects, cfg: cfg}
}

// Create adds a KPI to a project
func (s *KPIService) Create(ctx context.Context, orgID, actorID, projectID primitive.ObjectID, k *model.KPI) (*model.KPI, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil || project.OrgID != orgID {
		return nil, ErrNotFound
	}

	if k.Direction == "" {
		k.Direction = model.KPIDirectionIncrease
	}
	if k.Direction != model.KPIDirectionIncrease && k.Direction != model.KPIDirectionDecrease {
		return nil, fmt.Errorf("%w: unknown direction %q", ErrInvalidInput, k.Direction)
	}
	if k.Target == k.Baseline {
		return nil, fmt.Errorf("%w: target must differ from baseline", ErrInvalidInput)
	}

	k.OrgID = orgID
	k.ProjectID = projectID
	k.Current = k.Baseline
	k.CreatedBy = actorID
	return s.repo.Create(ctx, k)
}

// Get returns a KPI scoped to the caller's organization
func (s *KPIService) Get(ctx context.Context, orgID, id primitive.ObjectID) (*model.KPI, error) {
	k, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load kpi: %w", err)
	}
	if k == nil || k.OrgID != orgID {
		return nil, ErrNotFound
	}
	return k, nil
}

// ListByProject returns a project's KPIs
func (s *KPIService) ListByProject(ctx context.Context, orgID, projectID primitive.ObjectID) ([]*model.KPI, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil || project.OrgID != orgID {
		return nil, ErrNotFound
	}
	return s.repo.FindByProject(ctx, projectID)
}

// Update changes mutable KPI fields
func (s *KPIService) Update(ctx context.Context, orgID, id primitive.ObjectID, fields map[string]interface{}) error {
	if _, err := s.Get(ctx, orgID, id); err != nil {
		return err
	}
	return s.repo.UpdateFields(ctx, id, fields)
}

// Delete removes a KPI
func (s *KPIService) Delete(ctx context.Context, orgID, id primitive.ObjectID) error {
	if _, err := s.Get(ctx, orgID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// AddMeasurement appends a data point and moves the current value
func (s *KPIService) AddMeasurement(ctx context.Context, orgID, actorID, id primitive.ObjectID, value float64, note string) (*model.KPI, error) {
	if _, err := s.Get(ctx, orgID, id); err != nil {
		return nil, err
	}

	m := model.KPIMeasurement{
		Value:      value,
		Note:       note,
		RecordedAt: time.Now(),
		RecordedBy: actorID,
	}
	if err := s.repo.AppendMeasurement(ctx, id, m); err != nil {
		return nil, fmt.Errorf("failed to append measurement: %w", err)
	}
	return s.Get(ctx, orgID, id)
}

// Summary rolls up a project's KPI attainment
func (s *KPIService) Summary(ctx context.Context, orgID, projectID primitive.ObjectID) (*model.KPISummary, error) {
	kpis, err := s.ListByProject(ctx, orgID, projectID)
	if err != nil {
		return nil, err
	}

	summary := &model.KPISummary{
		ProjectID: projectID.Hex(),
		KPIs:      make([]model.KPISummaryEntry, 0, len(kpis)),
	}

	var total float64
	for _, k := range kpis {
		attainment := round2(k.Attainment())
		total += attainment
		summary.KPIs = append(summary.KPIs, model.KPISummaryEntry{
			KPIID:      k.ID.Hex(),
			Name:       k.Name,
			Unit:       k.Unit,
			Baseline:   k.Baseline,
			Target:     k.Target,
			Current:    k.Current,
			Attainment: attainment,
		})
	}
	if len(kpis) > 0 {
		summary.AverageAttainment = round2(total / float64(len(kpis)))
	}
	return summary, nil
}
