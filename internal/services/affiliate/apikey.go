package affiliate

import (
	"context"
	"errors"
	"time"

	"vitalabs/internal/models"
	"vitalabs/internal/repositories"
	"vitalabs/internal/utils"

	"github.com/google/uuid"
)

var (
	ErrNoActiveKey   = errors.New("no active api key")
	ErrInvalidAPIKey = errors.New("invalid api key")
)

// APIKeyService manages the single active API credential per affiliate.
// The plaintext key is returned exactly once at issue time and is never
// retrievable again; only its SHA-256 hash and last four characters are
// stored.
type APIKeyService interface {
	// Issue creates a new key, revoking any active one first (rotation).
	Issue(ctx context.Context, affiliateID uint) (*models.AffiliateAPIKey, string, error)

	// Active returns metadata for the current key: last-4 and timestamps,
	// never the plaintext.
	Active(ctx context.Context, affiliateID uint) (*models.AffiliateAPIKey, error)

	Revoke(ctx context.Context, affiliateID uint) error

	// Authenticate resolves a presented plaintext key to its affiliate.
	// Revoked keys fail regardless of hash match.
	Authenticate(ctx context.Context, plaintext string) (*models.AffiliateAPIKey, error)
}

type apiKeyService struct {
	keys       repositories.APIKeyRepository
	affiliates repositories.AffiliateRepository
}

// NewAPIKeyService creates a new APIKeyService.
func NewAPIKeyService(keys repositories.APIKeyRepository, affiliates repositories.AffiliateRepository) APIKeyService {
	return &apiKeyService{keys: keys, affiliates: affiliates}
}

func (s *apiKeyService) Issue(ctx context.Context, affiliateID uint) (*models.AffiliateAPIKey, string, error) {
	app, err := s.affiliates.GetByID(affiliateID)
	if err != nil {
		return nil, "", err
	}
	if !app.IsApproved() {
		return nil, "", ErrNotApproved
	}

	if err := s.keys.RevokeActive(affiliateID); err != nil {
		return nil, "", err
	}

	plaintext, err := utils.GenerateAPIKey()
	if err != nil {
		return nil, "", err
	}

	key := &models.AffiliateAPIKey{
		ID:          uuid.NewString(),
		AffiliateID: affiliateID,
		KeyHash:     utils.HashAPIKey(plaintext),
		LastFour:    plaintext[len(plaintext)-4:],
		CreatedAt:   time.Now(),
	}
	if err := s.keys.Create(key); err != nil {
		return nil, "", err
	}
	return key, plaintext, nil
}

func (s *apiKeyService) Active(ctx context.Context, affiliateID uint) (*models.AffiliateAPIKey, error) {
	key, err := s.keys.ActiveByAffiliate(affiliateID)
	if err != nil {
		if errors.Is(err, repositories.ErrAPIKeyNotFound) {
			return nil, ErrNoActiveKey
		}
		return nil, err
	}
	return key, nil
}

func (s *apiKeyService) Revoke(ctx context.Context, affiliateID uint) error {
	return s.keys.RevokeActive(affiliateID)
}

func (s *apiKeyService) Authenticate(ctx context.Context, plaintext string) (*models.AffiliateAPIKey, error) {
	if plaintext == "" {
		return nil, ErrInvalidAPIKey
	}
	key, err := s.keys.ActiveByHash(utils.HashAPIKey(plaintext))
	if err != nil {
		if errors.Is(err, repositories.ErrAPIKeyNotFound) {
			return nil, ErrInvalidAPIKey
		}
		return nil, err
	}
	return key, nil
}
