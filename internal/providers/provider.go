// Package providers holds the hosted-checkout integrations. Each provider
// turns a built session request into a redirect URL on its own hosted
// payment page; attribution metadata rides on the provider session so
// webhooks can reconcile later.
package providers

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when a provider is selected but its secret
// key is missing from the environment.
var ErrNotConfigured = errors.New("payment provider not configured")

// LineItem is one billable line of a checkout session.
type LineItem struct {
	Name            string
	UnitAmountCents int64
	Quantity        int64
}

// SessionRequest is everything a provider needs to create a hosted
// checkout session. DiscountCents, when positive, reduces the order total;
// how that maps onto the provider (coupon vs net price) is up to the
// implementation.
type SessionRequest struct {
	Email         string
	Currency      string
	LineItems     []LineItem
	ShippingCents int64
	DiscountCents int64
	Autoship      bool
	Metadata      map[string]string
}

// TotalCents returns the net amount the customer will be charged.
func (r *SessionRequest) TotalCents() int64 {
	var total int64
	for _, li := range r.LineItems {
		total += li.UnitAmountCents * li.Quantity
	}
	return total + r.ShippingCents - r.DiscountCents
}

// Session is the created hosted session: the provider's id (the natural
// key for later attribution) and the redirect URL.
type Session struct {
	ID  string
	URL string
}

// CheckoutProvider creates hosted checkout sessions.
type CheckoutProvider interface {
	Name() string
	CreateSession(ctx context.Context, req *SessionRequest) (*Session, error)
}
