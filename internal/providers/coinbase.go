package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vitalabs/internal/models"
)

const coinbaseAPIVersion = "2018-03-22"

// CoinbaseProvider creates hosted Coinbase Commerce charges. Coinbase
// charges carry a single fixed price, so line items, shipping and the
// discount are folded into one net total with the itemization preserved
// in charge metadata.
type CoinbaseProvider struct {
	apiKey      string
	baseURL     string
	redirectURL string
	cancelURL   string
	httpClient  *http.Client
}

func NewCoinbaseProvider(apiKey, redirectURL, cancelURL string) *CoinbaseProvider {
	return &CoinbaseProvider{
		apiKey:      apiKey,
		baseURL:     "https://api.commerce.coinbase.com",
		redirectURL: redirectURL,
		cancelURL:   cancelURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *CoinbaseProvider) Name() string { return models.ProviderCoinbase }

type coinbaseCharge struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	PricingType string            `json:"pricing_type"`
	LocalPrice  coinbasePrice     `json:"local_price"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	RedirectURL string            `json:"redirect_url,omitempty"`
	CancelURL   string            `json:"cancel_url,omitempty"`
}

type coinbasePrice struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type coinbaseChargeResponse struct {
	Data struct {
		Code      string `json:"code"`
		HostedURL string `json:"hosted_url"`
	} `json:"data"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *CoinbaseProvider) CreateSession(ctx context.Context, req *SessionRequest) (*Session, error) {
	if p.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if req.Autoship {
		return nil, fmt.Errorf("coinbase does not support autoship orders")
	}

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "USD"
	}

	var names []string
	for _, li := range req.LineItems {
		names = append(names, fmt.Sprintf("%s x%d", li.Name, li.Quantity))
	}

	total := req.TotalCents()
	charge := coinbaseCharge{
		Name:        "Vitalabs order",
		Description: strings.Join(names, ", "),
		PricingType: "fixed_price",
		LocalPrice: coinbasePrice{
			Amount:   fmt.Sprintf("%d.%02d", total/100, total%100),
			Currency: currency,
		},
		Metadata:    req.Metadata,
		RedirectURL: p.redirectURL,
		CancelURL:   p.cancelURL,
	}

	body, err := json.Marshal(charge)
	if err != nil {
		return nil, fmt.Errorf("failed to encode charge: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/charges", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-CC-Api-Key", p.apiKey)
	httpReq.Header.Set("X-CC-Version", coinbaseAPIVersion)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("coinbase request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed coinbaseChargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode coinbase response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("coinbase charge rejected: %s", parsed.Error.Message)
	}
	if parsed.Data.Code == "" || parsed.Data.HostedURL == "" {
		return nil, fmt.Errorf("coinbase returned an incomplete charge")
	}

	return &Session{ID: parsed.Data.Code, URL: parsed.Data.HostedURL}, nil
}
