package validation

import (
	"fmt"

	"vitalabs/internal/models"
)

// Cart validates a checkout cart. A cart must be non-empty, every item
// must carry a known plan with a positive quantity and non-negative price,
// and autoship may not be mixed with one-time items: the two map to
// different billing modes and must be separate orders.
func (v *Validator) Cart(items []models.CartItem) {
	if len(items) == 0 {
		v.AddError("items", "cart must not be empty")
		return
	}

	plans := make(map[string]bool)
	for i, item := range items {
		field := fmt.Sprintf("items[%d]", i)

		v.Check(item.ID != "", field+".id", "must not be empty")
		v.Check(item.Quantity > 0, field+".quantity", "must be greater than zero")
		v.Check(item.Price >= 0, field+".price", "must not be negative")

		switch item.Plan {
		case models.PlanOneTime, models.PlanAutoship:
			plans[item.Plan] = true
		default:
			v.AddError(field+".plan", "must be one of: one-time, autoship")
		}
	}

	if plans[models.PlanOneTime] && plans[models.PlanAutoship] {
		v.AddError("items", "autoship and one-time items must be checked out separately")
	}
}

// Shipping validates a shipping cost.
func (v *Validator) Shipping(cost float64) {
	v.Check(cost >= 0, "shippingCost", "must not be negative")
}
