package service

import (
	"context"
	"fmt"

	"datarw/internal/config"
	"datarw/internal/model"
	"datarw/internal/repository"
	"datarw/pkg/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService handles user business logic
type UserService struct {
	repo repository.IUserRepository
	orgs repository.IOrgRepository
	cfg  *config.Config
}

// NewUserService creates a new user service
func NewUserService(cfg *config.Config, repo repository.IUserRepository, orgs repository.IOrgRepository) *UserService {
	return &UserService{repo: repo, orgs: orgs, cfg: cfg}
}

// Register creates a self-signed-up owner account
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Role:         model.RoleOwner,
		PasswordHash: hash,
		Active:       true,
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// AttachToOrg records the user's org membership. Registration creates the
// owner before the org exists, so the link is written here once the org does.
func (s *UserService) AttachToOrg(ctx context.Context, userID, orgID primitive.ObjectID) error {
	if err := s.repo.UpdateFields(ctx, userID, map[string]interface{}{"orgId": orgID}); err != nil {
		return fmt.Errorf("failed to attach user to org: %w", err)
	}
	return nil
}

// Provision creates an org member with a generated temporary password.
// Enforces the plan's user cap from live counts.
func (s *UserService) Provision(ctx context.Context, orgID, actorID primitive.ObjectID, req *model.CreateUserRequest) (*model.ProvisionedUserResponse, error) {
	if !req.Role.IsValid() || req.Role == model.RoleOwner {
		return nil, fmt.Errorf("%w: role %q is not assignable", ErrInvalidInput, req.Role)
	}

	org, err := s.orgs.FindByID(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load org: %w", err)
	}
	if org == nil {
		return nil, ErrNotFound
	}

	count, err := s.repo.CountByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if !model.Allows(org.Plan.Spec().MaxUsers, count) {
		return nil, fmt.Errorf("%w: plan %s allows %d users", ErrPlanLimitReached, org.Plan, org.Plan.Spec().MaxUsers)
	}

	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	tempPassword, err := util.GenerateTempPassword()
	if err != nil {
		return nil, err
	}
	hash, err := util.HashPassword(tempPassword)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		OrgID:        orgID,
		Role:         req.Role,
		PasswordHash: hash,
		Active:       true,
		CreatedBy:    actorID,
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &model.ProvisionedUserResponse{User: created, TempPassword: tempPassword}, nil
}

// ListByOrg returns all users of an organization
func (s *UserService) ListByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.User, error) {
	return s.repo.FindByOrg(ctx, orgID)
}

// Get returns a user scoped to the caller's organization
func (s *UserService) Get(ctx context.Context, orgID, id primitive.ObjectID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil || user.OrgID != orgID {
		return nil, ErrNotFound
	}
	return user, nil
}

// UpdateRole changes a member's role. The owner's role is immutable.
func (s *UserService) UpdateRole(ctx context.Context, orgID, id primitive.ObjectID, role model.Role) error {
	if !role.IsValid() || role == model.RoleOwner {
		return fmt.Errorf("%w: role %q is not assignable", ErrInvalidInput, role)
	}

	user, err := s.Get(ctx, orgID, id)
	if err != nil {
		return err
	}
	if user.Role == model.RoleOwner {
		return fmt.Errorf("%w: cannot change the owner's role", ErrForbidden)
	}

	return s.repo.UpdateFields(ctx, id, map[string]interface{}{"role": role})
}

// Update changes a member's profile fields
func (s *UserService) Update(ctx context.Context, orgID, id primitive.ObjectID, name string) error {
	if _, err := s.Get(ctx, orgID, id); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return s.repo.UpdateFields(ctx, id, map[string]interface{}{"name": name})
}

// Deactivate soft-deletes a member. Owners cannot be deactivated.
func (s *UserService) Deactivate(ctx context.Context, orgID, id primitive.ObjectID) error {
	user, err := s.Get(ctx, orgID, id)
	if err != nil {
		return err
	}
	if user.Role == model.RoleOwner {
		return fmt.Errorf("%w: cannot deactivate the owner", ErrForbidden)
	}
	return s.repo.UpdateFields(ctx, id, map[string]interface{}{"active": false})
}
