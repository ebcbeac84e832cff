package affiliate

import (
	"context"
	"strings"
	"testing"
	"time"

	"vitalabs/internal/models"
	"vitalabs/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memAPIKeyRepo struct {
	keys []*models.AffiliateAPIKey
}

func (m *memAPIKeyRepo) Create(key *models.AffiliateAPIKey) error {
	stored := *key
	m.keys = append(m.keys, &stored)
	return nil
}

func (m *memAPIKeyRepo) ActiveByAffiliate(affiliateID uint) (*models.AffiliateAPIKey, error) {
	for _, k := range m.keys {
		if k.AffiliateID == affiliateID && k.RevokedAt == nil {
			copied := *k
			return &copied, nil
		}
	}
	return nil, repositories.ErrAPIKeyNotFound
}

func (m *memAPIKeyRepo) ActiveByHash(hash string) (*models.AffiliateAPIKey, error) {
	for _, k := range m.keys {
		if k.KeyHash == hash && k.RevokedAt == nil {
			copied := *k
			return &copied, nil
		}
	}
	return nil, repositories.ErrAPIKeyNotFound
}

func (m *memAPIKeyRepo) RevokeActive(affiliateID uint) error {
	now := time.Now()
	for _, k := range m.keys {
		if k.AffiliateID == affiliateID && k.RevokedAt == nil {
			k.RevokedAt = &now
		}
	}
	return nil
}

func newTestAPIKeyService(t *testing.T) (APIKeyService, uint) {
	t.Helper()
	affiliates := newMemAffiliateRepo()
	code := "ALPHA123"
	app := &models.AffiliateApplication{
		Name:   "Jamie",
		Email:  "jamie@example.com",
		Status: models.AffiliateStatusApproved,
		Code:   &code,
	}
	require.NoError(t, affiliates.Create(app))
	return NewAPIKeyService(&memAPIKeyRepo{}, affiliates), app.ID
}

func TestAPIKey_IssueAndAuthenticate(t *testing.T) {
	svc, affiliateID := newTestAPIKeyService(t)
	ctx := context.Background()

	key, plaintext, err := svc.Issue(ctx, affiliateID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(plaintext, "vl_live_"))
	assert.Equal(t, plaintext[len(plaintext)-4:], key.LastFour)
	assert.NotContains(t, key.KeyHash, plaintext, "plaintext is never stored")

	resolved, err := svc.Authenticate(ctx, plaintext)
	require.NoError(t, err)
	assert.Equal(t, affiliateID, resolved.AffiliateID)

	active, err := svc.Active(ctx, affiliateID)
	require.NoError(t, err)
	assert.Equal(t, key.ID, active.ID)
}

func TestAPIKey_RotationRevokesOldKey(t *testing.T) {
	svc, affiliateID := newTestAPIKeyService(t)
	ctx := context.Background()

	_, oldPlaintext, err := svc.Issue(ctx, affiliateID)
	require.NoError(t, err)

	newKey, newPlaintext, err := svc.Issue(ctx, affiliateID)
	require.NoError(t, err)
	assert.NotEqual(t, oldPlaintext, newPlaintext)

	_, err = svc.Authenticate(ctx, oldPlaintext)
	assert.ErrorIs(t, err, ErrInvalidAPIKey)

	resolved, err := svc.Authenticate(ctx, newPlaintext)
	require.NoError(t, err)
	assert.Equal(t, newKey.ID, resolved.ID)
}

func TestAPIKey_RevokedKeyFailsAuth(t *testing.T) {
	svc, affiliateID := newTestAPIKeyService(t)
	ctx := context.Background()

	_, plaintext, err := svc.Issue(ctx, affiliateID)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, affiliateID))

	_, err = svc.Authenticate(ctx, plaintext)
	assert.ErrorIs(t, err, ErrInvalidAPIKey)

	_, err = svc.Active(ctx, affiliateID)
	assert.ErrorIs(t, err, ErrNoActiveKey)
}

func TestAPIKey_InvalidInputs(t *testing.T) {
	svc, affiliateID := newTestAPIKeyService(t)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidAPIKey)

	_, err = svc.Authenticate(ctx, "vl_live_not-a-real-key")
	assert.ErrorIs(t, err, ErrInvalidAPIKey)

	_, err = svc.Active(ctx, affiliateID)
	assert.ErrorIs(t, err, ErrNoActiveKey)
}

func TestAPIKey_RequiresApprovedAffiliate(t *testing.T) {
	affiliates := newMemAffiliateRepo()
	app := &models.AffiliateApplication{
		Name:   "Pat",
		Email:  "pat@example.com",
		Status: models.AffiliateStatusPending,
	}
	require.NoError(t, affiliates.Create(app))
	svc := NewAPIKeyService(&memAPIKeyRepo{}, affiliates)

	_, _, err := svc.Issue(context.Background(), app.ID)
	assert.ErrorIs(t, err, ErrNotApproved)
}
