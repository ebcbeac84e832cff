package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"vitalabs/internal/models"
	"vitalabs/internal/services/referral"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReferral struct {
	known map[string]*models.AffiliateApplication
}

func (s *stubReferral) Resolve(ctx context.Context, code string) (*models.AffiliateApplication, error) {
	if app, ok := s.known[code]; ok {
		return app, nil
	}
	return nil, referral.ErrUnknownCode
}

func (s *stubReferral) Capture(ctx context.Context, code string, visit referral.Visit) (*models.AffiliateApplication, error) {
	return s.Resolve(ctx, code)
}

func newWelcomeApp() (*fiber.App, *referral.CookieCodec) {
	code := "ALPHA123"
	svc := &stubReferral{known: map[string]*models.AffiliateApplication{
		"ALPHA123": {ID: 7, Status: models.AffiliateStatusApproved, Code: &code},
	}}
	codec := referral.NewCookieCodec("test-secret")
	handler := NewReferralHandler(svc, codec)

	app := fiber.New()
	app.Get("/", handler.Welcome)
	return app, codec
}

func referralCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == referral.CookieName {
			return c
		}
	}
	return nil
}

func TestWelcome_KnownCodeSetsSignedCookie(t *testing.T) {
	app, codec := newWelcomeApp()

	req := httptest.NewRequest(http.MethodGet, "/?ref=ALPHA123", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := referralCookie(resp)
	require.NotNil(t, cookie, "known code must set the referral cookie")
	code, ok := codec.Decode(cookie.Value)
	assert.True(t, ok)
	assert.Equal(t, "ALPHA123", code)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 30*24*60*60, cookie.MaxAge)
}

func TestWelcome_UnknownCodeSetsNoCookie(t *testing.T) {
	app, _ := newWelcomeApp()

	req := httptest.NewRequest(http.MethodGet, "/?ref=NOPE1234", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	// The page responds normally with no cookie, as if ref were absent.
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, referralCookie(resp))
}

func TestWelcome_NoRefParam(t *testing.T) {
	app, _ := newWelcomeApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, referralCookie(resp))
}
