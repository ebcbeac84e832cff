package providers

import (
	"context"
	"fmt"

	"vitalabs/internal/models"

	stripe "github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

// StripeProvider creates hosted Stripe Checkout sessions. Autoship carts
// become subscription-mode sessions with monthly recurrence; everything
// else is a one-time payment session.
type StripeProvider struct {
	api        *client.API
	successURL string
	cancelURL  string
}

// NewStripeProvider builds a provider around its own API client so no
// package-level Stripe key is mutated.
func NewStripeProvider(secretKey, successURL, cancelURL string) *StripeProvider {
	api := &client.API{}
	if secretKey != "" {
		api.Init(secretKey, nil)
	}
	return &StripeProvider{
		api:        api,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

func (p *StripeProvider) Name() string { return models.ProviderStripe }

func (p *StripeProvider) CreateSession(ctx context.Context, req *SessionRequest) (*Session, error) {
	if p.api.CheckoutSessions == nil || p.api.CheckoutSessions.Key == "" {
		return nil, ErrNotConfigured
	}

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	mode := stripe.CheckoutSessionModePayment
	if req.Autoship {
		mode = stripe.CheckoutSessionModeSubscription
	}

	var lineItems []*stripe.CheckoutSessionLineItemParams
	for _, li := range req.LineItems {
		priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(currency),
			UnitAmount: stripe.Int64(li.UnitAmountCents),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(li.Name),
			},
		}
		if req.Autoship {
			priceData.Recurring = &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
				Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
			}
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: priceData,
			Quantity:  stripe.Int64(li.Quantity),
		})
	}

	if req.ShippingCents > 0 {
		shipping := &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(currency),
			UnitAmount: stripe.Int64(req.ShippingCents),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String("Shipping"),
			},
		}
		if req.Autoship {
			shipping.Recurring = &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
				Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
			}
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: shipping,
			Quantity:  stripe.Int64(1),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(mode)),
		SuccessURL:         stripe.String(p.successURL),
		CancelURL:          stripe.String(p.cancelURL),
		LineItems:          lineItems,
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	// Stripe rejects negative line items, so the affiliate discount is
	// attached as a one-off amount-off coupon instead.
	if req.DiscountCents > 0 {
		c, err := p.api.Coupons.New(&stripe.CouponParams{
			AmountOff: stripe.Int64(req.DiscountCents),
			Currency:  stripe.String(currency),
			Duration:  stripe.String(string(stripe.CouponDurationOnce)),
			Name:      stripe.String("Affiliate discount"),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create discount coupon: %w", err)
		}
		params.Discounts = []*stripe.CheckoutSessionDiscountParams{
			{Coupon: stripe.String(c.ID)},
		}
	}

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create stripe session: %w", err)
	}
	return &Session{ID: s.ID, URL: s.URL}, nil
}
