package checkout

import (
	"vitalabs/internal/models"
)

// Request is the typed checkout body. Unknown plan values fail closed in
// validation.
type Request struct {
	Items        []models.CartItem `json:"items"`
	Email        string            `json:"email"`
	ShippingCost float64           `json:"shippingCost"`
	Provider     string            `json:"provider"`
}

// ShippingCents returns the shipping cost converted to cents.
func (r *Request) ShippingCents() int64 {
	return int64(r.ShippingCost*100 + 0.5)
}

// SubtotalCents returns the cart subtotal in cents, before shipping and
// discounts.
func (r *Request) SubtotalCents() int64 {
	var total int64
	for _, item := range r.Items {
		total += item.SubtotalCents()
	}
	return total
}

// Autoship reports whether the cart is a subscription order. Valid carts
// are all-autoship or all-one-time, so checking any item suffices.
func (r *Request) Autoship() bool {
	return len(r.Items) > 0 && r.Items[0].Plan == models.PlanAutoship
}

// Result is the created session: provider session id and redirect URL.
type Result struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// ValidationError carries per-field messages for a 400 response.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	for _, msg := range e.Fields {
		return msg
	}
	return "invalid checkout request"
}
