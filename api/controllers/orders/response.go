package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/shorebytelabs/nailsbyabri-sub003/internal/drafts"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/db/models"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/types"
)

type uploadView struct {
	ID       uuid.UUID `json:"id"`
	FileName string    `json:"file_name"`
	Bytes    int       `json:"bytes"`
}

type nailSetView struct {
	ID               uuid.UUID      `json:"id"`
	Name             *string        `json:"name,omitempty"`
	ShapeID          string         `json:"shape_id"`
	Quantity         int            `json:"quantity"`
	Description      *string        `json:"description,omitempty"`
	SetNotes         *string        `json:"set_notes,omitempty"`
	Sizes            types.SizeSpec `json:"sizes"`
	RequiresFollowUp bool           `json:"requires_follow_up"`
	Uploads          []uploadView   `json:"uploads,omitempty"`
}

type fulfillmentView struct {
	Method  string         `json:"method,omitempty"`
	Speed   string         `json:"speed,omitempty"`
	Address *types.Address `json:"address,omitempty"`
}

// draftView is the editable state echoed back after a save or draft fetch.
type draftView struct {
	ID          uuid.UUID       `json:"id"`
	Status      string          `json:"status"`
	Revision    int             `json:"revision"`
	NailSets    []nailSetView   `json:"nail_sets"`
	Fulfillment fulfillmentView `json:"fulfillment"`
	OrderNotes  *string         `json:"order_notes,omitempty"`
	PromoCode   *string         `json:"promo_code,omitempty"`
}

func newDraftView(d drafts.Draft) draftView {
	view := draftView{
		ID:       d.ID,
		Status:   string(d.Status),
		Revision: d.Revision,
		NailSets: make([]nailSetView, 0, len(d.NailSets)),
		Fulfillment: fulfillmentView{
			Method:  string(d.Fulfillment.Method),
			Speed:   d.Fulfillment.Speed,
			Address: d.Fulfillment.Address,
		},
		OrderNotes: d.OrderNotes,
		PromoCode:  d.PromoCode,
	}
	for _, set := range d.NailSets {
		view.NailSets = append(view.NailSets, newNailSetView(set))
	}
	return view
}

func newNailSetView(set drafts.NailSet) nailSetView {
	view := nailSetView{
		ID:               set.ID,
		Name:             set.Name,
		ShapeID:          set.ShapeID,
		Quantity:         set.Quantity,
		Description:      set.Description,
		SetNotes:         set.SetNotes,
		Sizes:            set.Sizes,
		RequiresFollowUp: set.RequiresFollowUp,
	}
	for _, upload := range set.Uploads {
		view.Uploads = append(view.Uploads, uploadView{
			ID:       upload.ID,
			FileName: upload.FileName,
			Bytes:    len(upload.Data),
		})
	}
	return view
}

// orderView is the read model for submitted and completed orders: frozen
// pricing, payment state, and the production tracking fields.
type orderView struct {
	ID               uuid.UUID             `json:"id"`
	Status           string                `json:"status"`
	ProductionStatus *string               `json:"production_status,omitempty"`
	Fulfillment      fulfillmentView       `json:"fulfillment"`
	OrderNotes       *string               `json:"order_notes,omitempty"`
	PromoCode        *string               `json:"promo_code,omitempty"`
	Breakdown        *types.PriceBreakdown `json:"breakdown,omitempty"`
	PaymentStatus    string                `json:"payment_status"`
	TargetWeekStart  *time.Time            `json:"target_week_start,omitempty"`
	NailSets         []orderSetView        `json:"nail_sets"`
	SubmittedAt      *time.Time            `json:"submitted_at,omitempty"`
	CompletedAt      *time.Time            `json:"completed_at,omitempty"`
	CancelledAt      *time.Time            `json:"cancelled_at,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
}

type orderSetView struct {
	ID       uuid.UUID `json:"id"`
	Name     *string   `json:"name,omitempty"`
	ShapeID  string    `json:"shape_id"`
	Quantity int       `json:"quantity"`
	Uploads  int       `json:"uploads"`
}

func newOrderView(order *models.Order) *orderView {
	if order == nil {
		return nil
	}
	view := &orderView{
		ID:     order.ID,
		Status: string(order.Status),
		Fulfillment: fulfillmentView{
			Method:  order.FulfillmentMethod,
			Speed:   order.FulfillmentSpeed,
			Address: order.ShippingAddress,
		},
		OrderNotes:      order.OrderNotes,
		PromoCode:       order.PromoCode,
		Breakdown:       order.Breakdown,
		PaymentStatus:   string(order.PaymentStatus),
		TargetWeekStart: order.TargetWeekStart,
		NailSets:        make([]orderSetView, 0, len(order.NailSets)),
		SubmittedAt:     order.SubmittedAt,
		CompletedAt:     order.CompletedAt,
		CancelledAt:     order.CancelledAt,
		CreatedAt:       order.CreatedAt,
	}
	if order.ProductionStatus != nil {
		status := string(*order.ProductionStatus)
		view.ProductionStatus = &status
	}
	for _, set := range order.NailSets {
		view.NailSets = append(view.NailSets, orderSetView{
			ID:       set.ID,
			Name:     set.Name,
			ShapeID:  set.ShapeID,
			Quantity: set.Quantity,
			Uploads:  len(set.Uploads),
		})
	}
	return view
}

func newOrderList(orders []models.Order) []*orderView {
	out := make([]*orderView, 0, len(orders))
	for i := range orders {
		out = append(out, newOrderView(&orders[i]))
	}
	return out
}
