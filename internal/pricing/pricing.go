package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shorebytelabs/nailsbyabri-sub003/internal/catalog"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/types"
)

// SetInput is one nail set as the pricing engine sees it.
type SetInput struct {
	ID       string
	Name     string
	ShapeID  string
	Quantity int
}

// FulfillmentInput is the chosen delivery method and speed tier.
type FulfillmentInput struct {
	Method enums.FulfillmentMethod
	Speed  string
}

// PromoInput is an already-resolved promo code. Resolution happens at the
// boundary (promos service); the engine only applies the verdict.
type PromoInput struct {
	Code     string
	Eligible bool
	Reason   string
	Type     enums.PromoType
	Value    int
}

// Input bundles everything one pricing run needs besides the catalog.
type Input struct {
	NailSets    []SetInput
	Fulfillment FulfillmentInput
	Promo       *PromoInput
}

// CalculateBreakdown prices an order draft against a catalog snapshot. It is
// pure and total: malformed optional fields are defaulted, unknown references
// price as zero, and every such repair is reported as a warning rather than
// an error. All arithmetic is integer cents; percentage math rounds half-up
// via decimal so repeated runs are byte-identical.
func CalculateBreakdown(input Input, snap catalog.Snapshot) types.PriceBreakdown {
	breakdown := types.PriceBreakdown{
		LineItems: make([]types.BreakdownLineItem, 0, len(input.NailSets)+2),
	}

	for _, set := range input.NailSets {
		qty := set.Quantity
		if qty < 1 {
			qty = 1
			breakdown.Warnings = append(breakdown.Warnings, types.BreakdownWarning{
				Type:    enums.BreakdownWarningTypeQuantityDefaulted,
				Message: fmt.Sprintf("quantity for set %q defaulted to 1", set.ID),
			})
		}

		priceCents := 0
		shape, ok := snap.Shapes[set.ShapeID]
		if ok {
			priceCents = shape.BasePriceCents
		} else {
			breakdown.Warnings = append(breakdown.Warnings, types.BreakdownWarning{
				Type:    enums.BreakdownWarningTypeUnknownShape,
				Message: fmt.Sprintf("unknown shape id %q", set.ShapeID),
			})
		}

		subtotal := priceCents * qty
		breakdown.SetsSubtotalCents += subtotal
		breakdown.LineItems = append(breakdown.LineItems, types.BreakdownLineItem{
			ID:          set.ID,
			Label:       setLabel(set, shape.Name, ok),
			AmountCents: subtotal,
		})
	}

	fee, days := resolveFulfillment(input.Fulfillment, snap.Fulfillment, &breakdown)
	breakdown.FulfillmentFeeCents = fee
	breakdown.EstimatedCompletionDays = days

	if input.Promo != nil {
		applyPromo(*input.Promo, &breakdown)
	}

	total := breakdown.SetsSubtotalCents + breakdown.FulfillmentFeeCents - breakdown.DiscountCents
	if total < 0 {
		total = 0
	}
	breakdown.TotalCents = total

	return breakdown
}

func setLabel(set SetInput, shapeName string, known bool) string {
	name := set.Name
	if name == "" {
		if known {
			name = shapeName + " set"
		} else {
			name = "Custom set"
		}
	}
	qty := set.Quantity
	if qty < 1 {
		qty = 1
	}
	if qty > 1 {
		return fmt.Sprintf("%s × %d", name, qty)
	}
	return name
}

func resolveFulfillment(sel FulfillmentInput, cfg catalog.FulfillmentConfig, breakdown *types.PriceBreakdown) (int, int) {
	method, ok := cfg.Methods[sel.Method]
	if !ok {
		if sel.Method != "" {
			breakdown.Warnings = append(breakdown.Warnings, types.BreakdownWarning{
				Type:    enums.BreakdownWarningTypeSpeedDefaulted,
				Message: fmt.Sprintf("unknown fulfillment method %q", sel.Method),
			})
		}
		return 0, 0
	}

	speed, defaulted := method.Speed(sel.Speed)
	if defaulted && sel.Speed != "" {
		breakdown.Warnings = append(breakdown.Warnings, types.BreakdownWarning{
			Type:    enums.BreakdownWarningTypeSpeedDefaulted,
			Message: fmt.Sprintf("speed %q not offered for %s, using %q", sel.Speed, method.ID, method.DefaultSpeed),
		})
	}

	breakdown.LineItems = append(breakdown.LineItems, types.BreakdownLineItem{
		ID:          "fulfillment:" + speed.ID,
		Label:       fmt.Sprintf("%s (%s)", method.Label, speed.Label),
		AmountCents: speed.FeeCents,
	})
	return speed.FeeCents, speed.EstimatedDays
}

func applyPromo(promo PromoInput, breakdown *types.PriceBreakdown) {
	if !promo.Eligible {
		message := "invalid promo code"
		if promo.Reason != "" {
			message = fmt.Sprintf("invalid promo code: %s", promo.Reason)
		}
		breakdown.Warnings = append(breakdown.Warnings, types.BreakdownWarning{
			Type:    enums.BreakdownWarningTypeInvalidPromo,
			Message: message,
		})
		return
	}

	var discount int
	switch promo.Type {
	case enums.PromoTypePercentage:
		discount = percentOf(breakdown.SetsSubtotalCents, promo.Value)
	case enums.PromoTypeFixedAmount:
		discount = promo.Value
	case enums.PromoTypeFreeShipping:
		discount = breakdown.FulfillmentFeeCents
	case enums.PromoTypeFreeOrder:
		discount = breakdown.SetsSubtotalCents + breakdown.FulfillmentFeeCents
	case enums.PromoTypeFixedPriceItem:
		discount = fixedPriceItemDiscount(breakdown.LineItems, promo.Value)
	}

	if discount > breakdown.SetsSubtotalCents+breakdown.FulfillmentFeeCents {
		discount = breakdown.SetsSubtotalCents + breakdown.FulfillmentFeeCents
	}
	if discount <= 0 {
		return
	}

	breakdown.DiscountCents = discount
	breakdown.LineItems = append(breakdown.LineItems, types.BreakdownLineItem{
		ID:          "discount:" + promo.Code,
		Label:       fmt.Sprintf("Promo %s", promo.Code),
		AmountCents: -discount,
	})
}

// percentOf computes value% of cents, rounded half-up to whole cents.
func percentOf(cents, value int) int {
	if cents <= 0 || value <= 0 {
		return 0
	}
	result := decimal.NewFromInt(int64(cents)).
		Mul(decimal.NewFromInt(int64(value))).
		Div(decimal.NewFromInt(100)).
		Round(0)
	return int(result.IntPart())
}

// fixedPriceItemDiscount reprices the single most expensive set line to the
// promo's fixed amount.
func fixedPriceItemDiscount(items []types.BreakdownLineItem, fixedCents int) int {
	maxAmount := 0
	for _, item := range items {
		if strings.HasPrefix(item.ID, "fulfillment:") {
			continue
		}
		if item.AmountCents > maxAmount {
			maxAmount = item.AmountCents
		}
	}
	if maxAmount <= fixedCents {
		return 0
	}
	return maxAmount - fixedCents
}
