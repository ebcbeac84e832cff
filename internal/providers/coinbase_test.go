package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSessionRequest() *SessionRequest {
	return &SessionRequest{
		Email:    "buyer@example.com",
		Currency: "usd",
		LineItems: []LineItem{
			{Name: "BPC-157", UnitAmountCents: 10000, Quantity: 2},
		},
		ShippingCents: 995,
		DiscountCents: 2000,
		Metadata:      map[string]string{"affiliate_code": "ALPHA123"},
	}
}

func TestCoinbaseCreateSession(t *testing.T) {
	var gotCharge coinbaseCharge
	var gotHeaders http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotCharge))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"code":"CHARGE1","hosted_url":"https://commerce.coinbase.com/charges/CHARGE1"}}`))
	}))
	defer server.Close()

	provider := NewCoinbaseProvider("cb-test-key", "https://shop.example/ok", "https://shop.example/cancel")
	provider.baseURL = server.URL

	session, err := provider.CreateSession(context.Background(), testSessionRequest())
	require.NoError(t, err)
	assert.Equal(t, "CHARGE1", session.ID)
	assert.Equal(t, "https://commerce.coinbase.com/charges/CHARGE1", session.URL)

	assert.Equal(t, "cb-test-key", gotHeaders.Get("X-CC-Api-Key"))
	assert.Equal(t, coinbaseAPIVersion, gotHeaders.Get("X-CC-Version"))

	assert.Equal(t, "fixed_price", gotCharge.PricingType)
	// 20000 + 995 shipping - 2000 discount
	assert.Equal(t, "189.95", gotCharge.LocalPrice.Amount)
	assert.Equal(t, "USD", gotCharge.LocalPrice.Currency)
	assert.Equal(t, "ALPHA123", gotCharge.Metadata["affiliate_code"])
	assert.Equal(t, "https://shop.example/ok", gotCharge.RedirectURL)
}

func TestCoinbaseCreateSession_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"type":"invalid_request","message":"amount too small"}}`))
	}))
	defer server.Close()

	provider := NewCoinbaseProvider("cb-test-key", "", "")
	provider.baseURL = server.URL

	_, err := provider.CreateSession(context.Background(), testSessionRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount too small")
}

func TestCoinbaseCreateSession_NotConfigured(t *testing.T) {
	provider := NewCoinbaseProvider("", "", "")
	_, err := provider.CreateSession(context.Background(), testSessionRequest())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCoinbaseCreateSession_RejectsAutoship(t *testing.T) {
	provider := NewCoinbaseProvider("cb-test-key", "", "")
	req := testSessionRequest()
	req.Autoship = true

	_, err := provider.CreateSession(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "autoship")
}

func TestSessionRequestTotalCents(t *testing.T) {
	assert.Equal(t, int64(18995), testSessionRequest().TotalCents())

	empty := &SessionRequest{}
	assert.Equal(t, int64(0), empty.TotalCents())
}
