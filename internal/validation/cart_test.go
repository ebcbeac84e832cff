package validation

import (
	"testing"

	"vitalabs/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCart(t *testing.T) {
	tests := []struct {
		name      string
		items     []models.CartItem
		wantValid bool
		wantField string
	}{
		{
			name:      "empty cart",
			items:     nil,
			wantValid: false,
			wantField: "items",
		},
		{
			name: "valid one-time cart",
			items: []models.CartItem{
				{ID: "bpc-157", Price: 100, Quantity: 2, Plan: models.PlanOneTime},
				{ID: "tb-500", Price: 125, Quantity: 1, Plan: models.PlanOneTime},
			},
			wantValid: true,
		},
		{
			name: "valid autoship cart",
			items: []models.CartItem{
				{ID: "bpc-157", Price: 100, Quantity: 1, Plan: models.PlanAutoship},
			},
			wantValid: true,
		},
		{
			name: "mixed plans",
			items: []models.CartItem{
				{ID: "bpc-157", Price: 100, Quantity: 1, Plan: models.PlanOneTime},
				{ID: "tb-500", Price: 125, Quantity: 1, Plan: models.PlanAutoship},
			},
			wantValid: false,
			wantField: "items",
		},
		{
			name: "unknown plan",
			items: []models.CartItem{
				{ID: "bpc-157", Price: 100, Quantity: 1, Plan: "biweekly"},
			},
			wantValid: false,
			wantField: "items[0].plan",
		},
		{
			name: "missing id",
			items: []models.CartItem{
				{ID: "", Price: 100, Quantity: 1, Plan: models.PlanOneTime},
			},
			wantValid: false,
			wantField: "items[0].id",
		},
		{
			name: "negative price",
			items: []models.CartItem{
				{ID: "bpc-157", Price: -1, Quantity: 1, Plan: models.PlanOneTime},
			},
			wantValid: false,
			wantField: "items[0].price",
		},
		{
			name: "zero quantity",
			items: []models.CartItem{
				{ID: "bpc-157", Price: 100, Quantity: 0, Plan: models.PlanOneTime},
			},
			wantValid: false,
			wantField: "items[0].quantity",
		},
		{
			name: "free item is allowed",
			items: []models.CartItem{
				{ID: "sample", Price: 0, Quantity: 1, Plan: models.PlanOneTime},
			},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Cart(tt.items)

			assert.Equal(t, tt.wantValid, v.Valid())
			if tt.wantField != "" {
				assert.Contains(t, v.Errors, tt.wantField)
			}
		})
	}
}

func TestShipping(t *testing.T) {
	v := New()
	v.Shipping(9.95)
	assert.True(t, v.Valid())

	v = New()
	v.Shipping(-0.01)
	assert.False(t, v.Valid())
	assert.Contains(t, v.Errors, "shippingCost")
}
