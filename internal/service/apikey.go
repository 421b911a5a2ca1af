package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"datarw/internal/config"
	"datarw/internal/model"
	"datarw/internal/repository"
	"datarw/pkg/timer"
	"datarw/pkg/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// APIKeyCache entry with expiration
type apiKeyCacheEntry struct {
	key       *model.APIKey
	expiresAt time.Time
}

// APIKeyService handles API key business logic
type APIKeyService struct {
	repo          repository.IAPIKeyRepository
	cfg           *config.Config
	keyCache      map[string]*apiKeyCacheEntry // plainKey -> cached result
	keyCacheMutex sync.RWMutex
	cacheTTL      time.Duration
}

// NewAPIKeyService creates a new API key service
func NewAPIKeyService(cfg *config.Config, repo repository.IAPIKeyRepository) *APIKeyService {
	cacheSeconds := cfg.APIKeyCacheTTLSeconds
	if cacheSeconds <= 0 {
		cacheSeconds = 300 // fallback to 5 minutes if misconfigured
	}

	return &APIKeyService{
		repo:     repo,
		cfg:      cfg,
		keyCache: make(map[string]*apiKeyCacheEntry),
		cacheTTL: time.Duration(cacheSeconds) * time.Second,
	}
}

// GenerateKey creates a new API key for an organization. The plaintext key
// is returned exactly once.
func (s *APIKeyService) GenerateKey(ctx context.Context, orgID, userID primitive.ObjectID, keyName string) (*model.GeneratedAPIKeyResponse, error) {
	plainKey, err := util.GenerateAPIKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	hash, err := util.HashAPIKey(plainKey)
	if err != nil {
		return nil, fmt.Errorf("failed to hash key: %w", err)
	}

	apiKey := &model.APIKey{
		OrgID:     orgID,
		Name:      keyName,
		Hash:      hash,
		CreatedBy: userID,
		CreatedAt: time.Now(),
		IsActive:  true,
		UpdatedAt: time.Now(),
	}

	created, err := s.repo.Create(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create API key: %w", err)
	}

	return &model.GeneratedAPIKeyResponse{
		PlainKey:  plainKey,
		KeyID:     created.ID.Hex(),
		KeyName:   created.Name,
		OrgID:     orgID.Hex(),
		CreatedAt: created.CreatedAt,
		ExpiresIn: "Never (until revoked)",
	}, nil
}

// ListByOrgID retrieves all API keys for an organization
func (s *APIKeyService) ListByOrgID(ctx context.Context, orgID primitive.ObjectID) ([]*model.APIKeyResponse, error) {
	apiKeys, err := s.repo.FindByOrgID(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	responses := make([]*model.APIKeyResponse, len(apiKeys))
	for i, key := range apiKeys {
		resp := key.ToResponse()
		responses[i] = &resp
	}
	return responses, nil
}

// GetOwned returns a key only if it belongs to the given organization
func (s *APIKeyService) GetOwned(ctx context.Context, orgID primitive.ObjectID, keyID string) (*model.APIKey, error) {
	objID, err := util.ParseObjectID(keyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid key ID", ErrInvalidInput)
	}
	key, err := s.repo.FindByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to load key: %w", err)
	}
	if key == nil || key.OrgID != orgID {
		return nil, ErrNotFound
	}
	return key, nil
}

// RevokeKey deletes an API key
func (s *APIKeyService) RevokeKey(ctx context.Context, keyID string) error {
	objID, err := util.ParseObjectID(keyID)
	if err != nil {
		return fmt.Errorf("invalid key ID: %w", err)
	}
	if err := s.repo.Delete(ctx, objID); err != nil {
		return fmt.Errorf("failed to revoke key: %w", err)
	}
	s.evictCached(objID)
	return nil
}

// SetActive toggles an API key's active flag (soft revoke/restore)
func (s *APIKeyService) SetActive(ctx context.Context, keyID string, active bool) error {
	objID, err := util.ParseObjectID(keyID)
	if err != nil {
		return fmt.Errorf("invalid key ID: %w", err)
	}
	if err := s.repo.Update(ctx, objID, map[string]interface{}{"isActive": active}); err != nil {
		return fmt.Errorf("failed to update key: %w", err)
	}
	if !active {
		s.evictCached(objID)
	}
	return nil
}

// evictCached drops any cache entries for the key so a revoked or
// deactivated key stops authenticating immediately, not at TTL expiry
func (s *APIKeyService) evictCached(id primitive.ObjectID) {
	s.keyCacheMutex.Lock()
	defer s.keyCacheMutex.Unlock()
	for plain, entry := range s.keyCache {
		if entry.key.ID == id {
			delete(s.keyCache, plain)
		}
	}
}

// ValidateKey verifies a plain key against stored hashes and updates last used
func (s *APIKeyService) ValidateKey(ctx context.Context, plainKey string) (*model.APIKey, error) {
	defer timer.Track("Validate Auth Key (Total)")()
	// Check cache first
	s.keyCacheMutex.RLock()
	if entry, exists := s.keyCache[plainKey]; exists && time.Now().Before(entry.expiresAt) {
		s.keyCacheMutex.RUnlock()
		_ = s.repo.UpdateLastUsed(ctx, entry.key.ID)
		return entry.key, nil
	}
	s.keyCacheMutex.RUnlock()

	// Cache miss or expired: query database
	keys, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to validate key: %w", err)
	}

	for _, key := range keys {
		if util.VerifyAPIKey(plainKey, key.Hash) {
			_ = s.repo.UpdateLastUsed(ctx, key.ID)

			// Cache the valid key
			s.keyCacheMutex.Lock()
			s.keyCache[plainKey] = &apiKeyCacheEntry{
				key:       key,
				expiresAt: time.Now().Add(s.cacheTTL),
			}
			s.keyCacheMutex.Unlock()

			return key, nil
		}
	}

	return nil, fmt.Errorf("invalid api key")
}

// TouchKey updates the last-used timestamp
func (s *APIKeyService) TouchKey(ctx context.Context, keyID string, t time.Time) error {
	objID, err := util.ParseObjectID(keyID)
	if err != nil {
		return fmt.Errorf("invalid key ID: %w", err)
	}
	return s.repo.Update(ctx, objID, map[string]interface{}{"lastUsedAt": t})
}
