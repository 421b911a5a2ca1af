package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"datarw/internal/config"
	"datarw/internal/model"
	"datarw/internal/service"
)

type fakeKeyRepo struct {
	keys map[primitive.ObjectID]*model.APIKey
}

func (r *fakeKeyRepo) Create(ctx context.Context, key *model.APIKey) (*model.APIKey, error) {
	key.ID = primitive.NewObjectID()
	r.keys[key.ID] = key
	return key, nil
}

func (r *fakeKeyRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.APIKey, error) {
	return r.keys[id], nil
}

func (r *fakeKeyRepo) FindByOrgID(ctx context.Context, orgID primitive.ObjectID) ([]*model.APIKey, error) {
	var out []*model.APIKey
	for _, key := range r.keys {
		if key.OrgID == orgID {
			out = append(out, key)
		}
	}
	return out, nil
}

func (r *fakeKeyRepo) FindActive(ctx context.Context) ([]*model.APIKey, error) {
	var out []*model.APIKey
	for _, key := range r.keys {
		if key.IsActive {
			out = append(out, key)
		}
	}
	return out, nil
}

func (r *fakeKeyRepo) Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	if key, ok := r.keys[id]; ok {
		if v, ok2 := fields["isActive"].(bool); ok2 {
			key.IsActive = v
		}
	}
	return nil
}

func (r *fakeKeyRepo) UpdateLastUsed(ctx context.Context, id primitive.ObjectID) error {
	if key, ok := r.keys[id]; ok {
		key.LastUsedAt = time.Now()
	}
	return nil
}

func (r *fakeKeyRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(r.keys, id)
	return nil
}

func (r *fakeKeyRepo) Count(ctx context.Context, filter interface{}) (int64, error) {
	return int64(len(r.keys)), nil
}

// fakeUserStore fails every lookup with err when set
type fakeUserStore struct {
	users map[primitive.ObjectID]*model.User
	err   error
}

func (r *fakeUserStore) Create(ctx context.Context, user *model.User) (*model.User, error) {
	user.ID = primitive.NewObjectID()
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.users[id], nil
}

func (r *fakeUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserStore) FindByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.User, error) {
	var out []*model.User
	for _, u := range r.users {
		if u.OrgID == orgID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserStore) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	return nil
}

func (r *fakeUserStore) CountByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	return int64(len(r.users)), nil
}

type authRig struct {
	router   *gin.Engine
	userRepo *fakeUserStore
	plainKey string
	orgID    primitive.ObjectID
	user     *model.User
}

func newAuthRig(t *testing.T, role model.Role) *authRig {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.New()
	userRepo := &fakeUserStore{users: map[primitive.ObjectID]*model.User{}}
	keys := service.NewAPIKeyService(cfg, &fakeKeyRepo{keys: map[primitive.ObjectID]*model.APIKey{}})
	users := service.NewUserService(cfg, userRepo, nil)

	orgID := primitive.NewObjectID()
	user, err := userRepo.Create(context.Background(), &model.User{OrgID: orgID, Role: role, Active: true})
	require.NoError(t, err)

	resp, err := keys.GenerateKey(context.Background(), orgID, user.ID, "test")
	require.NoError(t, err)

	router := gin.New()
	router.GET("/whoami", AuthMiddleware(keys, users), func(c *gin.Context) {
		role, _ := c.Get(CtxRole)
		c.JSON(http.StatusOK, gin.H{"role": role, "orgId": OrgID(c).Hex()})
	})

	return &authRig{router: router, userRepo: userRepo, plainKey: resp.PlainKey, orgID: orgID, user: user}
}

func (rig *authRig) get(header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	w := httptest.NewRecorder()
	rig.router.ServeHTTP(w, req)
	return w
}

func TestAuthResolvesRoleFromKeyOwner(t *testing.T) {
	rig := newAuthRig(t, model.RoleEditor)

	w := rig.get("Authorization", "Bearer "+rig.plainKey)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "editor", body["role"])
	assert.Equal(t, rig.orgID.Hex(), body["orgId"])
}

func TestAuthAcceptsLegacyHeader(t *testing.T) {
	rig := newAuthRig(t, model.RoleViewer)
	w := rig.get("X-API-Key", rig.plainKey)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthFailsClosedOnOwnerLookupError(t *testing.T) {
	rig := newAuthRig(t, model.RoleAdmin)
	rig.userRepo.err = errors.New("db down")

	// A store failure must never grant a role, let alone owner
	w := rig.get("Authorization", "Bearer "+rig.plainKey)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAuthRejectsKeyWithUnknownOwner(t *testing.T) {
	rig := newAuthRig(t, model.RoleAdmin)
	delete(rig.userRepo.users, rig.user.ID)

	w := rig.get("Authorization", "Bearer "+rig.plainKey)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsDeactivatedUser(t *testing.T) {
	rig := newAuthRig(t, model.RoleEditor)
	rig.user.Active = false

	w := rig.get("Authorization", "Bearer "+rig.plainKey)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsMissingOrBadKey(t *testing.T) {
	rig := newAuthRig(t, model.RoleEditor)

	assert.Equal(t, http.StatusUnauthorized, rig.get("", "").Code)
	assert.Equal(t, http.StatusUnauthorized, rig.get("Authorization", "Bearer drw_bogus").Code)
}
