package models

// Purchase plans. A cart may not mix the two: autoship maps to a
// subscription-mode provider session and one-time to a single payment,
// so mixed carts must be split into separate orders.
const (
	PlanOneTime  = "one-time"
	PlanAutoship = "autoship"
)

// CartItem is one entry of an inbound checkout request. Price is in whole
// currency units (dollars); all internal arithmetic is done in cents.
type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
	Size     string  `json:"size"`
	Plan     string  `json:"plan"`
}

// PriceCents returns the unit price converted to cents.
func (i CartItem) PriceCents() int64 {
	return int64(i.Price*100 + 0.5)
}

// SubtotalCents returns price * quantity in cents.
func (i CartItem) SubtotalCents() int64 {
	return i.PriceCents() * i.Quantity
}
