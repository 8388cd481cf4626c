package catalog

import (
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/db/models"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"
)

// The bundled catalog mirrors the studio's launch lineup. It is the fallback
// when the database read fails so browsing and pricing keep working offline.
var staticShapes = []models.Shape{
	{ID: "almond", Name: "Almond", BasePriceCents: 4500, Active: true, Position: 1},
	{ID: "coffin", Name: "Coffin", BasePriceCents: 4800, Active: true, Position: 2},
	{ID: "stiletto", Name: "Stiletto", BasePriceCents: 5000, Active: true, Position: 3},
	{ID: "square", Name: "Square", BasePriceCents: 4200, Active: true, Position: 4},
	{ID: "oval", Name: "Oval", BasePriceCents: 4200, Active: true, Position: 5},
}

func staticFulfillmentConfig() FulfillmentConfig {
	sameWeek := "ready within the week"
	return FulfillmentConfig{
		Methods: map[enums.FulfillmentMethod]DeliveryMethod{
			enums.FulfillmentMethodPickup: {
				ID:           enums.FulfillmentMethodPickup,
				Label:        "Studio pickup",
				Description:  "Pick up your finished sets at the studio.",
				DefaultSpeed: "standard",
				SpeedOptions: map[string]SpeedOption{
					"standard": {ID: "standard", Label: "Standard", Description: "Ready in about a week", FeeCents: 0, EstimatedDays: 7},
					"priority": {ID: "priority", Label: "Priority", Description: "Moved to the front of the queue", FeeCents: 800, EstimatedDays: 3, Tagline: &sameWeek},
					"rush":     {ID: "rush", Label: "Rush", Description: "Next-day turnaround", FeeCents: 1500, EstimatedDays: 1},
				},
			},
			enums.FulfillmentMethodShipping: {
				ID:           enums.FulfillmentMethodShipping,
				Label:        "Shipping",
				Description:  "Tracked shipping anywhere in the US.",
				DefaultSpeed: "standard",
				SpeedOptions: map[string]SpeedOption{
					"standard": {ID: "standard", Label: "Standard", Description: "Made and shipped in about a week", FeeCents: 599, EstimatedDays: 7},
					"priority": {ID: "priority", Label: "Priority", Description: "Priority production and shipping", FeeCents: 1099, EstimatedDays: 3},
					"rush":     {ID: "rush", Label: "Rush", Description: "Overnight production and shipping", FeeCents: 1999, EstimatedDays: 1},
				},
			},
			enums.FulfillmentMethodLocalCourier: {
				ID:           enums.FulfillmentMethodLocalCourier,
				Label:        "Local courier",
				Description:  "Same-city courier drop-off.",
				DefaultSpeed: "standard",
				SpeedOptions: map[string]SpeedOption{
					"standard": {ID: "standard", Label: "Standard", Description: "Courier drop-off once ready", FeeCents: 700, EstimatedDays: 7},
					"rush":     {ID: "rush", Label: "Rush", Description: "Next-day courier drop-off", FeeCents: 1700, EstimatedDays: 1},
				},
			},
		},
	}
}
