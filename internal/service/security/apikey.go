package security

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"lakegate/internal/authz"
	"lakegate/internal/domain"
)

// APIKeyService mints API keys bound to principals. Only the hash of a key
// is ever stored; the raw key is returned once at creation.
type APIKeyService struct {
	deps
	repo       domain.APIKeyRepository
	principals domain.PrincipalRepository
}

// NewAPIKeyService creates an APIKeyService.
func NewAPIKeyService(repo domain.APIKeyRepository, principals domain.PrincipalRepository, authorizer *authz.Authorizer, audit domain.AuditRepository, logger *slog.Logger) *APIKeyService {
	return &APIKeyService{
		deps:       deps{authorizer: authorizer, audit: audit, logger: logger},
		repo:       repo,
		principals: principals,
	}
}

// Create mints an API key for the named principal and returns the raw key
// alongside the stored metadata.
func (s *APIKeyService) Create(ctx context.Context, principalName, keyName string) (string, *domain.APIKey, error) {
	_, err := s.authorizer.Authorize(ctx, OpCreateAPIKey, nil)
	s.auditOutcome(ctx, err, "CREATE_API_KEY", "", keyName)
	if err != nil {
		return "", nil, err
	}
	if keyName == "" {
		return "", nil, domain.ErrValidation("api key name is required")
	}
	if _, err := s.principals.GetByName(ctx, principalName); err != nil {
		return "", nil, err
	}

	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", nil, fmt.Errorf("generate key: %w", err)
	}
	rawKey := hex.EncodeToString(rawBytes)
	hash := sha256.Sum256([]byte(rawKey))

	key, err := s.repo.Create(ctx, &domain.APIKey{
		Name:          keyName,
		PrincipalName: principalName,
		KeyHash:       hex.EncodeToString(hash[:]),
	})
	if err != nil {
		return "", nil, err
	}
	return rawKey, key, nil
}
