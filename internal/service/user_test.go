package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"datarw/internal/config"
	"datarw/internal/model"
)

func newUserFixture() (*UserService, *fakeUserRepo, *model.Organization) {
	cfg := config.New()
	users := newFakeUserRepo()
	orgRepo := newFakeOrgRepo()

	org, _ := orgRepo.Create(context.Background(), &model.Organization{
		Name:    "Acme",
		OwnerID: primitive.NewObjectID(),
		Plan:    model.PlanBasic,
	})

	return NewUserService(cfg, users, orgRepo), users, org
}

func TestRegisterCreatesOwner(t *testing.T) {
	svc, _, _ := newUserFixture()
	ctx := context.Background()

	user, err := svc.Register(ctx, &model.RegisterRequest{
		Name: "Alice", Email: "alice@example.org", Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleOwner, user.Role)
	assert.True(t, user.Active)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	_, err = svc.Register(ctx, &model.RegisterRequest{
		Name: "Other", Email: "alice@example.org", Password: "another-pass",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterOwnerJoinsDefaultOrg(t *testing.T) {
	cfg := config.New()
	users := newFakeUserRepo()
	orgRepo := newFakeOrgRepo()
	svc := NewUserService(cfg, users, orgRepo)
	orgs := NewOrgService(cfg, orgRepo, users, newFakeProjectRepo(), newFakeSurveyRepo())
	ctx := context.Background()

	owner, err := svc.Register(ctx, &model.RegisterRequest{
		Name: "Alice", Email: "alice@example.org", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	org, err := orgs.EnsureDefaultOrg(ctx, owner.ID, "Acme")
	require.NoError(t, err)
	require.NoError(t, svc.AttachToOrg(ctx, owner.ID, org.ID))

	// The owner must be a member of their own org: visible in listings,
	// resolvable by the auth middleware, counted against the plan cap
	member, err := svc.Get(ctx, org.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleOwner, member.Role)
	assert.Equal(t, org.ID, member.OrgID)

	count, err := users.CountByOrg(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestProvisionEnforcesPlanUserCap(t *testing.T) {
	svc, users, org := newUserFixture()
	ctx := context.Background()
	actor := primitive.NewObjectID()

	// Basic allows 5 users; fill the org up
	for i := 0; i < model.PlanBasic.Spec().MaxUsers; i++ {
		users.Create(ctx, &model.User{OrgID: org.ID, Active: true, Role: model.RoleEditor})
	}

	_, err := svc.Provision(ctx, org.ID, actor, &model.CreateUserRequest{
		Name: "One Too Many", Email: "extra@example.org", Role: model.RoleViewer,
	})
	assert.ErrorIs(t, err, ErrPlanLimitReached)

	// Deactivated members free up a slot
	for _, u := range users.users {
		users.UpdateFields(ctx, u.ID, map[string]interface{}{"active": false})
		break
	}
	resp, err := svc.Provision(ctx, org.ID, actor, &model.CreateUserRequest{
		Name: "Fits Now", Email: "fits@example.org", Role: model.RoleViewer,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.TempPassword)
	assert.Equal(t, model.RoleViewer, resp.User.Role)
}

func TestProvisionRejectsOwnerRole(t *testing.T) {
	svc, _, org := newUserFixture()

	_, err := svc.Provision(context.Background(), org.ID, primitive.NewObjectID(), &model.CreateUserRequest{
		Name: "Imposter", Email: "imposter@example.org", Role: model.RoleOwner,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateRoleOwnerImmutable(t *testing.T) {
	svc, users, org := newUserFixture()
	ctx := context.Background()

	owner, _ := users.Create(ctx, &model.User{OrgID: org.ID, Role: model.RoleOwner, Active: true})
	member, _ := users.Create(ctx, &model.User{OrgID: org.ID, Role: model.RoleEditor, Active: true})

	assert.ErrorIs(t, svc.UpdateRole(ctx, org.ID, owner.ID, model.RoleViewer), ErrForbidden)
	require.NoError(t, svc.UpdateRole(ctx, org.ID, member.ID, model.RoleAdmin))
	assert.Equal(t, model.RoleAdmin, member.Role)
}

func TestDeactivateOwnerForbidden(t *testing.T) {
	svc, users, org := newUserFixture()
	ctx := context.Background()

	owner, _ := users.Create(ctx, &model.User{OrgID: org.ID, Role: model.RoleOwner, Active: true})
	member, _ := users.Create(ctx, &model.User{OrgID: org.ID, Role: model.RoleViewer, Active: true})

	assert.ErrorIs(t, svc.Deactivate(ctx, org.ID, owner.ID), ErrForbidden)
	require.NoError(t, svc.Deactivate(ctx, org.ID, member.ID))
	assert.False(t, member.Active)
}

func TestGetScopedToOrg(t *testing.T) {
	svc, users, org := newUserFixture()
	ctx := context.Background()

	user, _ := users.Create(ctx, &model.User{OrgID: org.ID, Role: model.RoleViewer, Active: true})

	_, err := svc.Get(ctx, primitive.NewObjectID(), user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
