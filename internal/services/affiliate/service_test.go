package affiliate

import (
	"context"
	"testing"

	"vitalabs/internal/models"
	"vitalabs/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memAffiliateRepo is an in-memory AffiliateRepository for service tests.
type memAffiliateRepo struct {
	nextID uint
	apps   map[uint]*models.AffiliateApplication
}

func newMemAffiliateRepo() *memAffiliateRepo {
	return &memAffiliateRepo{nextID: 1, apps: map[uint]*models.AffiliateApplication{}}
}

func (m *memAffiliateRepo) Create(app *models.AffiliateApplication) error {
	app.ID = m.nextID
	m.nextID++
	stored := *app
	m.apps[app.ID] = &stored
	return nil
}

func (m *memAffiliateRepo) GetByID(id uint) (*models.AffiliateApplication, error) {
	if app, ok := m.apps[id]; ok {
		copied := *app
		return &copied, nil
	}
	return nil, repositories.ErrAffiliateNotFound
}

func (m *memAffiliateRepo) GetByEmail(email string) (*models.AffiliateApplication, error) {
	for _, app := range m.apps {
		if app.Email == email {
			copied := *app
			return &copied, nil
		}
	}
	return nil, repositories.ErrAffiliateNotFound
}

func (m *memAffiliateRepo) GetByCode(code string) (*models.AffiliateApplication, error) {
	for _, app := range m.apps {
		if app.Code != nil && *app.Code == code {
			copied := *app
			return &copied, nil
		}
	}
	return nil, repositories.ErrAffiliateNotFound
}

func (m *memAffiliateRepo) List(status string, offset, limit int) ([]*models.AffiliateApplication, int64, error) {
	var out []*models.AffiliateApplication
	for _, app := range m.apps {
		if status == "" || app.Status == status {
			copied := *app
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memAffiliateRepo) Update(app *models.AffiliateApplication) error {
	stored := *app
	m.apps[app.ID] = &stored
	return nil
}

func (m *memAffiliateRepo) CodeExists(code string) (bool, error) {
	_, err := m.GetByCode(code)
	if err == nil {
		return true, nil
	}
	return false, nil
}

type memPayoutRepo struct {
	payouts []*models.AffiliatePayout
}

func (m *memPayoutRepo) Create(payout *models.AffiliatePayout) error {
	m.payouts = append(m.payouts, payout)
	return nil
}

func (m *memPayoutRepo) ListByAffiliate(affiliateID uint) ([]*models.AffiliatePayout, error) {
	var out []*models.AffiliatePayout
	for _, p := range m.payouts {
		if p.AffiliateID == affiliateID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPayoutRepo) TotalPaidCents(affiliateID uint) (int64, error) {
	var total int64
	for _, p := range m.payouts {
		if p.AffiliateID == affiliateID {
			total += p.AmountCents
		}
	}
	return total, nil
}

type memUserRepo struct {
	users map[uint]*models.User
}

func (m *memUserRepo) Create(user *models.User) error {
	m.users[user.ID] = user
	return nil
}
func (m *memUserRepo) GetByID(id uint) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}
func (m *memUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}
func (m *memUserRepo) Update(user *models.User) error {
	m.users[user.ID] = user
	return nil
}
func (m *memUserRepo) IncrementTokenVersion(userID uint) error { return nil }
func (m *memUserRepo) GetTokenVersion(userID uint) (int, error) { return 0, nil }

func newTestService() (Service, *memAffiliateRepo, *memPayoutRepo, *memUserRepo) {
	repo := newMemAffiliateRepo()
	payouts := &memPayoutRepo{}
	users := &memUserRepo{users: map[uint]*models.User{}}
	return NewService(repo, payouts, users, nil, zap.NewNop()), repo, payouts, users
}

func TestApply(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	app, err := svc.Apply(ctx, "Jamie", "jamie@example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, models.AffiliateStatusPending, app.Status)
	assert.Nil(t, app.Code, "no code before approval")
	assert.Equal(t, 0.10, app.CommissionRate)

	_, err = svc.Apply(ctx, "Jamie Again", "jamie@example.com", nil)
	assert.ErrorIs(t, err, ErrAlreadyApplied)
}

func TestApprove_AssignsStableCode(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	app, err := svc.Apply(ctx, "Jamie", "jamie@example.com", nil)
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, app.ID)
	require.NoError(t, err)
	require.NotNil(t, approved.Code)
	assert.Equal(t, models.AffiliateStatusApproved, approved.Status)
	assert.Len(t, *approved.Code, referralCodeLength)
	code := *approved.Code

	// Approving again is a no-op and never rotates the code.
	again, err := svc.Approve(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, code, *again.Code)

	// Decline keeps the code on the row; re-approval restores the same one.
	declined, err := svc.Decline(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AffiliateStatusDeclined, declined.Status)
	require.NotNil(t, declined.Code)
	assert.Equal(t, code, *declined.Code)

	reapproved, err := svc.Approve(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, code, *reapproved.Code)
}

func TestApprove_PromotesLinkedUser(t *testing.T) {
	svc, repo, _, users := newTestService()
	ctx := context.Background()

	account := &models.User{Email: "jamie@example.com", Role: models.RoleUser}
	account.ID = 42
	require.NoError(t, users.Create(account))

	app, err := svc.Apply(ctx, "Jamie", "jamie@example.com", &account.ID)
	require.NoError(t, err)
	require.NotNil(t, app.UserID)
	assert.Equal(t, uint(42), *app.UserID)

	approved, err := svc.Approve(ctx, app.ID)
	require.NoError(t, err)

	promoted, err := users.GetByID(42)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAffiliate, promoted.Role)
	require.NotNil(t, promoted.AffiliateID)
	assert.Equal(t, approved.ID, *promoted.AffiliateID)

	stored, err := repo.GetByID(app.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.UserID)
}

// A guest application is linked on approval by matching the account
// registered under the same email, so those affiliates can still reach
// the dashboard.
func TestApprove_LinksGuestApplicationByEmail(t *testing.T) {
	svc, repo, _, users := newTestService()
	ctx := context.Background()

	account := &models.User{Email: "jamie@example.com", Role: models.RoleUser}
	account.ID = 42
	require.NoError(t, users.Create(account))

	app, err := svc.Apply(ctx, "Jamie", "jamie@example.com", nil)
	require.NoError(t, err)
	assert.Nil(t, app.UserID)

	approved, err := svc.Approve(ctx, app.ID)
	require.NoError(t, err)
	require.NotNil(t, approved.UserID)
	assert.Equal(t, uint(42), *approved.UserID)

	promoted, err := users.GetByID(42)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAffiliate, promoted.Role)
	require.NotNil(t, promoted.AffiliateID)

	stored, err := repo.GetByID(app.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.UserID)
}

func TestApprove_NoAccountToLink(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	app, err := svc.Apply(ctx, "Jamie", "nosuchaccount@example.com", nil)
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AffiliateStatusApproved, approved.Status)
	assert.Nil(t, approved.UserID)
}

func TestApprove_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.Approve(context.Background(), 99)
	assert.ErrorIs(t, err, repositories.ErrAffiliateNotFound)
}

func TestRecordPayout(t *testing.T) {
	svc, _, payouts, _ := newTestService()
	ctx := context.Background()

	app, err := svc.Apply(ctx, "Jamie", "jamie@example.com", nil)
	require.NoError(t, err)

	payout := &models.AffiliatePayout{AffiliateID: app.ID, AmountCents: 5000, Currency: "usd"}

	// Pending affiliate cannot be paid.
	err = svc.RecordPayout(ctx, payout)
	assert.ErrorIs(t, err, ErrNotApproved)

	_, err = svc.Approve(ctx, app.ID)
	require.NoError(t, err)

	require.NoError(t, svc.RecordPayout(ctx, payout))
	assert.Len(t, payouts.payouts, 1)

	err = svc.RecordPayout(ctx, &models.AffiliatePayout{AffiliateID: app.ID, AmountCents: 0})
	assert.Error(t, err)
}
