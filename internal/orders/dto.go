package orders

import (
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/drafts"
	"github.com/shorebytelabs/nailsbyabri-sub003/internal/pricing"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/db/models"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"
)

// draftToModel maps the domain aggregate onto persistence rows. The status
// column is only ever changed through the service's transition paths, so it
// is taken from the draft as-is.
func draftToModel(d drafts.Draft) models.Order {
	order := models.Order{
		ID:                d.ID,
		UserID:            d.UserID,
		Status:            d.Status,
		FulfillmentMethod: string(d.Fulfillment.Method),
		FulfillmentSpeed:  d.Fulfillment.Speed,
		ShippingAddress:   d.Fulfillment.Address,
		OrderNotes:        d.OrderNotes,
		PromoCode:         d.PromoCode,
		Revision:          d.Revision,
	}
	order.NailSets = make([]models.NailSet, len(d.NailSets))
	for i, set := range d.NailSets {
		order.NailSets[i] = setToModel(set, i)
	}
	return order
}

func setToModel(set drafts.NailSet, position int) models.NailSet {
	row := models.NailSet{
		ID:               set.ID,
		Name:             set.Name,
		ShapeID:          set.ShapeID,
		Quantity:         set.Quantity,
		Description:      set.Description,
		SetNotes:         set.SetNotes,
		Sizes:            set.Sizes,
		RequiresFollowUp: set.RequiresFollowUp,
		Position:         position,
	}
	row.Uploads = make([]models.DesignUpload, len(set.Uploads))
	for i, upload := range set.Uploads {
		row.Uploads[i] = models.DesignUpload{
			ID:       upload.ID,
			FileName: upload.FileName,
			Data:     upload.Data,
		}
	}
	return row
}

// modelToDraft rebuilds the domain aggregate from persistence rows.
func modelToDraft(order models.Order) drafts.Draft {
	draft := drafts.Draft{
		ID:     order.ID,
		UserID: order.UserID,
		Status: order.Status,
		Fulfillment: drafts.Fulfillment{
			Method:  enums.FulfillmentMethod(order.FulfillmentMethod),
			Speed:   order.FulfillmentSpeed,
			Address: order.ShippingAddress,
		},
		OrderNotes: order.OrderNotes,
		PromoCode:  order.PromoCode,
		Revision:   order.Revision,
	}
	draft.NailSets = make([]drafts.NailSet, len(order.NailSets))
	for i, row := range order.NailSets {
		draft.NailSets[i] = modelToSet(row)
	}
	return draft
}

func modelToSet(row models.NailSet) drafts.NailSet {
	set := drafts.NailSet{
		ID:               row.ID,
		Name:             row.Name,
		ShapeID:          row.ShapeID,
		Quantity:         row.Quantity,
		Description:      row.Description,
		SetNotes:         row.SetNotes,
		Sizes:            row.Sizes,
		RequiresFollowUp: row.RequiresFollowUp,
	}
	set.Uploads = make([]drafts.Upload, len(row.Uploads))
	for i, upload := range row.Uploads {
		set.Uploads[i] = drafts.Upload{
			ID:       upload.ID,
			FileName: upload.FileName,
			Data:     upload.Data,
		}
	}
	return set
}

// pricingInput translates a draft into the pricing engine's input shape.
func pricingInput(d drafts.Draft, promo *pricing.PromoInput) pricing.Input {
	input := pricing.Input{
		Fulfillment: pricing.FulfillmentInput{
			Method: d.Fulfillment.Method,
			Speed:  d.Fulfillment.Speed,
		},
		Promo: promo,
	}
	input.NailSets = make([]pricing.SetInput, len(d.NailSets))
	for i, set := range d.NailSets {
		name := ""
		if set.Name != nil {
			name = *set.Name
		}
		input.NailSets[i] = pricing.SetInput{
			ID:       set.ID.String(),
			Name:     name,
			ShapeID:  set.ShapeID,
			Quantity: set.Quantity,
		}
	}
	return input
}

// totalSets counts the physical sets an order books against weekly capacity.
func totalSets(d drafts.Draft) int {
	total := 0
	for _, set := range d.NailSets {
		qty := set.Quantity
		if qty < 1 {
			qty = 1
		}
		total += qty
	}
	return total
}
