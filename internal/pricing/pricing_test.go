package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shorebytelabs/nailsbyabri-sub003/internal/catalog"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/pricing"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/db/models"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"
)

func testSnapshot() catalog.Snapshot {
	return catalog.Snapshot{
		Shapes: map[string]models.Shape{
			"almond": {ID: "almond", Name: "Almond", BasePriceCents: 4500},
			"coffin": {ID: "coffin", Name: "Coffin", BasePriceCents: 4800},
			"square": {ID: "square", Name: "Square", BasePriceCents: 4200},
		},
		Fulfillment: catalog.FulfillmentConfig{
			Methods: map[enums.FulfillmentMethod]catalog.DeliveryMethod{
				enums.FulfillmentMethodPickup: {
					ID:           enums.FulfillmentMethodPickup,
					Label:        "Pickup",
					DefaultSpeed: "standard",
					SpeedOptions: map[string]catalog.SpeedOption{
						"standard": {ID: "standard", Label: "Standard", FeeCents: 0, EstimatedDays: 7},
						"rush":     {ID: "rush", Label: "Rush", FeeCents: 1500, EstimatedDays: 1},
					},
				},
				enums.FulfillmentMethodShipping: {
					ID:           enums.FulfillmentMethodShipping,
					Label:        "Shipping",
					DefaultSpeed: "standard",
					SpeedOptions: map[string]catalog.SpeedOption{
						"standard": {ID: "standard", Label: "Standard", FeeCents: 599, EstimatedDays: 7},
						"rush":     {ID: "rush", Label: "Rush", FeeCents: 1999, EstimatedDays: 1},
					},
				},
			},
		},
	}
}

func TestCalculateBreakdown_TwoSetsPickupStandard(t *testing.T) {
	t.Parallel()

	input := pricing.Input{
		NailSets: []pricing.SetInput{
			{ID: "set-1", ShapeID: "almond", Quantity: 1},
			{ID: "set-2", ShapeID: "almond", Quantity: 1},
		},
		Fulfillment: pricing.FulfillmentInput{Method: enums.FulfillmentMethodPickup, Speed: "standard"},
	}

	got := pricing.CalculateBreakdown(input, testSnapshot())

	assert.Equal(t, 9000, got.SetsSubtotalCents)
	assert.Equal(t, 0, got.FulfillmentFeeCents)
	assert.Equal(t, 0, got.DiscountCents)
	assert.Equal(t, 9000, got.TotalCents)
	assert.Equal(t, 7, got.EstimatedCompletionDays)
	assert.Empty(t, got.Warnings)
	require.Len(t, got.LineItems, 3)
	assert.Equal(t, "set-1", got.LineItems[0].ID)
	assert.Equal(t, "set-2", got.LineItems[1].ID)
	assert.Equal(t, "fulfillment:standard", got.LineItems[2].ID)
	assert.Equal(t, "Pickup (Standard)", got.LineItems[2].Label)
}

func TestCalculateBreakdown_RushWithPercentagePromo(t *testing.T) {
	t.Parallel()

	input := pricing.Input{
		NailSets: []pricing.SetInput{
			{ID: "set-1", ShapeID: "almond", Quantity: 1},
			{ID: "set-2", ShapeID: "almond", Quantity: 1},
		},
		Fulfillment: pricing.FulfillmentInput{Method: enums.FulfillmentMethodPickup, Speed: "rush"},
		Promo: &pricing.PromoInput{
			Code:     "WELCOME10",
			Eligible: true,
			Type:     enums.PromoTypePercentage,
			Value:    10,
		},
	}

	got := pricing.CalculateBreakdown(input, testSnapshot())

	assert.Equal(t, 9000, got.SetsSubtotalCents)
	assert.Equal(t, 1500, got.FulfillmentFeeCents)
	assert.Equal(t, 900, got.DiscountCents, "percentage applies to the sets subtotal only")
	assert.Equal(t, 9600, got.TotalCents)
	assert.Equal(t, 1, got.EstimatedCompletionDays)
	require.Len(t, got.LineItems, 4)
	assert.Equal(t, "discount:WELCOME10", got.LineItems[3].ID)
	assert.Equal(t, -900, got.LineItems[3].AmountCents)
}

func TestCalculateBreakdown_UnknownShapeWarnsAndPricesZero(t *testing.T) {
	t.Parallel()

	input := pricing.Input{
		NailSets: []pricing.SetInput{
			{ID: "set-1", ShapeID: "chrome-hearts", Quantity: 2},
		},
		Fulfillment: pricing.FulfillmentInput{Method: enums.FulfillmentMethodPickup, Speed: "standard"},
	}

	got := pricing.CalculateBreakdown(input, testSnapshot())

	assert.Equal(t, 0, got.SetsSubtotalCents)
	assert.Equal(t, 0, got.TotalCents)
	require.Len(t, got.Warnings, 1)
	assert.Equal(t, enums.BreakdownWarningTypeUnknownShape, got.Warnings[0].Type)
}

func TestCalculateBreakdown_QuantityBelowOneDefaults(t *testing.T) {
	t.Parallel()

	input := pricing.Input{
		NailSets: []pricing.SetInput{
			{ID: "set-1", ShapeID: "almond", Quantity: 0},
			{ID: "set-2", ShapeID: "almond", Quantity: -3},
		},
		Fulfillment: pricing.FulfillmentInput{Method: enums.FulfillmentMethodPickup, Speed: "standard"},
	}

	got := pricing.CalculateBreakdown(input, testSnapshot())

	assert.Equal(t, 9000, got.SetsSubtotalCents)
	assert.Len(t, got.Warnings, 2)
	for _, w := range got.Warnings {
		assert.Equal(t, enums.BreakdownWarningTypeQuantityDefaulted, w.Type)
	}
}

func TestCalculateBreakdown_UnknownSpeedFallsBackToDefault(t *testing.T) {
	t.Parallel()

	input := pricing.Input{
		NailSets: []pricing.SetInput{
			{ID: "set-1", ShapeID: "almond", Quantity: 1},
		},
		Fulfillment: pricing.FulfillmentInput{Method: enums.FulfillmentMethodShipping, Speed: "teleport"},
	}

	got := pricing.CalculateBreakdown(input, testSnapshot())

	assert.Equal(t, 599, got.FulfillmentFeeCents)
	assert.Equal(t, 7, got.EstimatedCompletionDays)
	require.Len(t, got.Warnings, 1)
	assert.Equal(t, enums.BreakdownWarningTypeSpeedDefaulted, got.Warnings[0].Type)
}

func TestCalculateBreakdown_EmptySpeedUsesDefaultWithoutWarning(t *testing.T) {
	t.Parallel()

	input := pricing.Input{
		NailSets: []pricing.SetInput{
			{ID: "set-1", ShapeID: "almond", Quantity: 1},
		},
		Fulfillment: pricing.FulfillmentInput{Method: enums.FulfillmentMethodShipping},
	}

	got := pricing.CalculateBreakdown(input, testSnapshot())

	assert.Equal(t, 599, got.FulfillmentFeeCents)
	assert.Empty(t, got.Warnings)
}

func TestCalculateBreakdown_IneligiblePromoWarnsWithoutDiscount(t *testing.T) {
	t.Parallel()

	input := pricing.Input{
		NailSets: []pricing.SetInput{
			{ID: "set-1", ShapeID: "almond", Quantity: 1},
		},
		Fulfillment: pricing.FulfillmentInput{Method: enums.FulfillmentMethodPickup, Speed: "standard"},
		Promo:       &pricing.PromoInput{Code: "BOGUS", Eligible: false, Reason: "unknown code"},
	}

	got := pricing.CalculateBreakdown(input, testSnapshot())

	assert.Equal(t, 0, got.DiscountCents)
	assert.Equal(t, 4500, got.TotalCents)
	require.Len(t, got.Warnings, 1)
	assert.Equal(t, enums.BreakdownWarningTypeInvalidPromo, got.Warnings[0].Type)
}

func TestCalculateBreakdown_PromoTypes(t *testing.T) {
	t.Parallel()

	base := func(promo *pricing.PromoInput) pricing.Input {
		return pricing.Input{
			NailSets: []pricing.SetInput{
				{ID: "set-1", ShapeID: "coffin", Quantity: 1},
				{ID: "set-2", ShapeID: "square", Quantity: 1},
			},
			Fulfillment: pricing.FulfillmentInput{Method: enums.FulfillmentMethodShipping, Speed: "standard"},
			Promo:       promo,
		}
	}

	tests := []struct {
		name         string
		promo        pricing.PromoInput
		wantDiscount int
		wantTotal    int
	}{
		{
			name:         "fixed amount",
			promo:        pricing.PromoInput{Code: "FIVE", Eligible: true, Type: enums.PromoTypeFixedAmount, Value: 500},
			wantDiscount: 500,
			wantTotal:    9099,
		},
		{
			name:         "free shipping",
			promo:        pricing.PromoInput{Code: "SHIPFREE", Eligible: true, Type: enums.PromoTypeFreeShipping},
			wantDiscount: 599,
			wantTotal:    9000,
		},
		{
			name:         "free order",
			promo:        pricing.PromoInput{Code: "ONTHEHOUSE", Eligible: true, Type: enums.PromoTypeFreeOrder},
			wantDiscount: 9599,
			wantTotal:    0,
		},
		{
			name:         "fixed price item reprices the priciest set",
			promo:        pricing.PromoInput{Code: "SETDEAL", Eligible: true, Type: enums.PromoTypeFixedPriceItem, Value: 3000},
			wantDiscount: 1800,
			wantTotal:    7799,
		},
		{
			name:         "fixed amount never exceeds order value",
			promo:        pricing.PromoInput{Code: "BIGSPENDER", Eligible: true, Type: enums.PromoTypeFixedAmount, Value: 50000},
			wantDiscount: 9599,
			wantTotal:    0,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := pricing.CalculateBreakdown(base(&tc.promo), testSnapshot())
			assert.Equal(t, tc.wantDiscount, got.DiscountCents)
			assert.Equal(t, tc.wantTotal, got.TotalCents)
		})
	}
}

func TestCalculateBreakdown_PercentageRoundsHalfUp(t *testing.T) {
	t.Parallel()

	snap := testSnapshot()
	snap.Shapes["odd"] = models.Shape{ID: "odd", Name: "Odd", BasePriceCents: 1005}

	input := pricing.Input{
		NailSets: []pricing.SetInput{
			{ID: "set-1", ShapeID: "odd", Quantity: 1},
		},
		Fulfillment: pricing.FulfillmentInput{Method: enums.FulfillmentMethodPickup, Speed: "standard"},
		Promo:       &pricing.PromoInput{Code: "HALF", Eligible: true, Type: enums.PromoTypePercentage, Value: 5},
	}

	// 5% of 1005 = 50.25 → 50
	got := pricing.CalculateBreakdown(input, snap)
	assert.Equal(t, 50, got.DiscountCents)

	snap.Shapes["odd"] = models.Shape{ID: "odd", Name: "Odd", BasePriceCents: 1010}
	// 5% of 1010 = 50.5 → rounds up to 51
	got = pricing.CalculateBreakdown(input, snap)
	assert.Equal(t, 51, got.DiscountCents)
}

func TestCalculateBreakdown_Deterministic(t *testing.T) {
	t.Parallel()

	input := pricing.Input{
		NailSets: []pricing.SetInput{
			{ID: "set-1", ShapeID: "almond", Quantity: 2},
			{ID: "set-2", ShapeID: "coffin", Quantity: 1},
		},
		Fulfillment: pricing.FulfillmentInput{Method: enums.FulfillmentMethodShipping, Speed: "rush"},
		Promo:       &pricing.PromoInput{Code: "WELCOME10", Eligible: true, Type: enums.PromoTypePercentage, Value: 10},
	}

	first := pricing.CalculateBreakdown(input, testSnapshot())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, pricing.CalculateBreakdown(input, testSnapshot()))
	}
}

func TestCalculateBreakdown_LineItemOrder(t *testing.T) {
	t.Parallel()

	input := pricing.Input{
		NailSets: []pricing.SetInput{
			{ID: "b", ShapeID: "coffin", Quantity: 1},
			{ID: "a", ShapeID: "almond", Quantity: 1},
		},
		Fulfillment: pricing.FulfillmentInput{Method: enums.FulfillmentMethodShipping, Speed: "standard"},
		Promo:       &pricing.PromoInput{Code: "FIVE", Eligible: true, Type: enums.PromoTypeFixedAmount, Value: 500},
	}

	got := pricing.CalculateBreakdown(input, testSnapshot())

	ids := make([]string, 0, len(got.LineItems))
	for _, item := range got.LineItems {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"b", "a", "fulfillment:standard", "discount:FIVE"}, ids)
}
