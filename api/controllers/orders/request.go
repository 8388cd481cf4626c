package orders

import (
	"github.com/google/uuid"

	"github.com/shorebytelabs/nailsbyabri-sub003/internal/drafts"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/types"
)

// draftPayload is the wire form of an order draft save. Upload data travels
// base64-encoded inside the JSON body.
type draftPayload struct {
	ID          *uuid.UUID          `json:"id,omitempty"`
	Revision    int                 `json:"revision,omitempty"`
	NailSets    []nailSetPayload    `json:"nail_sets,omitempty" validate:"dive"`
	Fulfillment *fulfillmentPayload `json:"fulfillment,omitempty"`
	OrderNotes  *string             `json:"order_notes,omitempty"`
	PromoCode   *string             `json:"promo_code,omitempty"`
}

type nailSetPayload struct {
	ID               *uuid.UUID      `json:"id,omitempty"`
	Name             *string         `json:"name,omitempty"`
	ShapeID          string          `json:"shape_id" validate:"required"`
	Quantity         int             `json:"quantity,omitempty"`
	Description      *string         `json:"description,omitempty"`
	SetNotes         *string         `json:"set_notes,omitempty"`
	Sizes            *sizesPayload   `json:"sizes,omitempty"`
	RequiresFollowUp bool            `json:"requires_follow_up,omitempty"`
	Uploads          []uploadPayload `json:"uploads,omitempty" validate:"dive"`
}

type uploadPayload struct {
	ID       *uuid.UUID `json:"id,omitempty"`
	FileName string     `json:"file_name" validate:"required"`
	Data     []byte     `json:"data" validate:"required"`
}

type sizesPayload struct {
	Mode   string   `json:"mode,omitempty" validate:"omitempty,oneof=standard per_set"`
	Values []string `json:"values,omitempty" validate:"max=10"`
}

type fulfillmentPayload struct {
	Method  string         `json:"method" validate:"required,oneof=pickup shipping local_courier"`
	Speed   string         `json:"speed,omitempty"`
	Address *types.Address `json:"address,omitempty"`
}

func (p draftPayload) toDraft(userID uuid.UUID) drafts.Draft {
	draft := drafts.NewDraft(userID)
	if p.ID != nil {
		draft.ID = *p.ID
	}
	draft.Revision = p.Revision
	draft.OrderNotes = p.OrderNotes
	draft.PromoCode = p.PromoCode

	for _, set := range p.NailSets {
		draft.NailSets = append(draft.NailSets, set.toSet())
	}
	if p.Fulfillment != nil {
		draft.Fulfillment = p.Fulfillment.toFulfillment()
	}
	return draft
}

func (p nailSetPayload) toSet() drafts.NailSet {
	set := drafts.NailSet{
		Name:             p.Name,
		ShapeID:          p.ShapeID,
		Quantity:         p.Quantity,
		Description:      p.Description,
		SetNotes:         p.SetNotes,
		RequiresFollowUp: p.RequiresFollowUp,
	}
	if p.ID != nil {
		set.ID = *p.ID
	}
	if p.Sizes != nil {
		set.Sizes = types.SizeSpec{
			Mode:   enums.SizeMode(p.Sizes.Mode),
			Values: p.Sizes.Values,
		}
	}
	for _, upload := range p.Uploads {
		u := drafts.Upload{FileName: upload.FileName, Data: upload.Data}
		if upload.ID != nil {
			u.ID = *upload.ID
		}
		set.Uploads = append(set.Uploads, u)
	}
	return set
}

func (p fulfillmentPayload) toFulfillment() drafts.Fulfillment {
	return drafts.Fulfillment{
		Method:  enums.FulfillmentMethod(p.Method),
		Speed:   p.Speed,
		Address: p.Address,
	}
}
