package types

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"
)

// BreakdownLineItem is one display row of a priced draft: a nail set, the
// fulfillment fee, or a negative-amount discount.
type BreakdownLineItem struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	AmountCents int    `json:"amount_cents"`
}

// BreakdownWarning reports a non-fatal pricing issue alongside the totals.
type BreakdownWarning struct {
	Type    enums.BreakdownWarningType `json:"type"`
	Message string                     `json:"message"`
}

// PriceBreakdown is the itemized pricing of an order draft. It is derived
// state while composing and a frozen snapshot once the order is submitted.
type PriceBreakdown struct {
	LineItems               []BreakdownLineItem `json:"line_items"`
	SetsSubtotalCents       int                 `json:"sets_subtotal_cents"`
	FulfillmentFeeCents     int                 `json:"fulfillment_fee_cents"`
	DiscountCents           int                 `json:"discount_cents"`
	TotalCents              int                 `json:"total_cents"`
	EstimatedCompletionDays int                 `json:"estimated_completion_days"`
	Warnings                []BreakdownWarning  `json:"warnings,omitempty"`
}

// Value serializes the breakdown snapshot to JSON.
func (p PriceBreakdown) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan decodes JSONB into the breakdown snapshot.
func (p *PriceBreakdown) Scan(value interface{}) error {
	if value == nil {
		*p = PriceBreakdown{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, p)
}
