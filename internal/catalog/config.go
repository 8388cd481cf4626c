package catalog

import (
	"fmt"

	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/db/models"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"
)

// SpeedOption is one turnaround tier offered under a delivery method.
type SpeedOption struct {
	ID            string  `json:"id"`
	Label         string  `json:"label"`
	Description   string  `json:"description"`
	FeeCents      int     `json:"fee_cents"`
	Tagline       *string `json:"tagline,omitempty"`
	EstimatedDays int     `json:"estimated_days"`
}

// DeliveryMethod describes how finished sets reach the customer and which
// speed tiers are available for it.
type DeliveryMethod struct {
	ID           enums.FulfillmentMethod `json:"id"`
	Label        string                  `json:"label"`
	Description  string                  `json:"description"`
	DefaultSpeed string                  `json:"default_speed"`
	SpeedOptions map[string]SpeedOption  `json:"speed_options"`
}

// FulfillmentConfig is the full delivery method table consumed by pricing
// and the order flow.
type FulfillmentConfig struct {
	Methods map[enums.FulfillmentMethod]DeliveryMethod `json:"methods"`
}

// Snapshot is the read-only catalog state a single pricing run works from.
// Building it up front keeps the computation pure: it never reaches back to
// the database mid-calculation.
type Snapshot struct {
	Shapes      map[string]models.Shape
	Fulfillment FulfillmentConfig
}

// Validate checks that the delivery method table is well formed:
// every method has at least one speed, the default speed exists, and faster
// (more expensive) tiers never promise a later completion.
func (c FulfillmentConfig) Validate() error {
	if len(c.Methods) == 0 {
		return fmt.Errorf("fulfillment config: no methods defined")
	}
	for id, method := range c.Methods {
		if len(method.SpeedOptions) == 0 {
			return fmt.Errorf("fulfillment config: method %q has no speed options", id)
		}
		if _, ok := method.SpeedOptions[method.DefaultSpeed]; !ok {
			return fmt.Errorf("fulfillment config: method %q default speed %q not in options", id, method.DefaultSpeed)
		}
		for speedID, speed := range method.SpeedOptions {
			for otherID, other := range method.SpeedOptions {
				if speed.FeeCents > other.FeeCents && speed.EstimatedDays > other.EstimatedDays {
					return fmt.Errorf(
						"fulfillment config: method %q speed %q costs more than %q but completes later",
						id, speedID, otherID,
					)
				}
			}
		}
	}
	return nil
}

// Speed resolves a speed option, falling back to the method default when the
// requested tier is unknown or empty. The boolean reports whether a fallback
// happened.
func (m DeliveryMethod) Speed(speedID string) (SpeedOption, bool) {
	if opt, ok := m.SpeedOptions[speedID]; ok {
		return opt, false
	}
	return m.SpeedOptions[m.DefaultSpeed], true
}
