// Package drafts holds the order-composition domain: the draft aggregate,
// its completeness rules, the buffered set editor, and the status
// transition table. Everything here is pure value manipulation; persistence
// and pricing live in their own packages.
package drafts

import (
	"strings"

	"github.com/google/uuid"

	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/types"
)

// Upload is reference art owned by exactly one nail set.
type Upload struct {
	ID       uuid.UUID
	FileName string
	Data     []byte
}

// Clone deep-copies the upload, bytes included.
func (u Upload) Clone() Upload {
	out := u
	if u.Data != nil {
		out.Data = append([]byte(nil), u.Data...)
	}
	return out
}

// NailSet is one line item of a draft.
type NailSet struct {
	ID               uuid.UUID
	Name             *string
	ShapeID          string
	Quantity         int
	Description      *string
	SetNotes         *string
	Sizes            types.SizeSpec
	RequiresFollowUp bool
	Uploads          []Upload
}

// IsComplete reports whether the set carries enough information to be
// produced: at least one upload, or a non-empty description, or an explicit
// follow-up flag.
func (s NailSet) IsComplete() bool {
	if len(s.Uploads) > 0 {
		return true
	}
	if s.Description != nil && strings.TrimSpace(*s.Description) != "" {
		return true
	}
	return s.RequiresFollowUp
}

// Clone deep-copies the set so edit buffers and duplicates never alias the
// committed list, uploads and sizing arrays included.
func (s NailSet) Clone() NailSet {
	out := s
	out.Name = cloneStringPtr(s.Name)
	out.Description = cloneStringPtr(s.Description)
	out.SetNotes = cloneStringPtr(s.SetNotes)
	out.Sizes = s.Sizes.Clone()
	if s.Uploads != nil {
		out.Uploads = make([]Upload, len(s.Uploads))
		for i, upload := range s.Uploads {
			out.Uploads[i] = upload.Clone()
		}
	}
	return out
}

// Fulfillment is the chosen delivery method, speed tier, and destination.
type Fulfillment struct {
	Method  enums.FulfillmentMethod
	Speed   string
	Address *types.Address
}

// Clone deep-copies the selection.
func (f Fulfillment) Clone() Fulfillment {
	out := f
	if f.Address != nil {
		addr := *f.Address
		out.Address = &addr
	}
	return out
}

// Draft is the order-in-progress aggregate. ID is Nil until the first
// successful save. Revision increments on every committed mutation and is
// used to discard late asynchronous results that no longer match the state
// they were computed for.
type Draft struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Status      enums.OrderStatus
	NailSets    []NailSet
	Fulfillment Fulfillment
	OrderNotes  *string
	PromoCode   *string
	Revision    int
}

// NewDraft starts an empty composition for a user.
func NewDraft(userID uuid.UUID) Draft {
	return Draft{
		UserID: userID,
		Status: enums.OrderStatusDraft,
	}
}

// Clone deep-copies the whole aggregate.
func (d Draft) Clone() Draft {
	out := d
	out.OrderNotes = cloneStringPtr(d.OrderNotes)
	out.PromoCode = cloneStringPtr(d.PromoCode)
	out.Fulfillment = d.Fulfillment.Clone()
	if d.NailSets != nil {
		out.NailSets = make([]NailSet, len(d.NailSets))
		for i, set := range d.NailSets {
			out.NailSets[i] = set.Clone()
		}
	}
	return out
}

// SetByID finds a committed set.
func (d Draft) SetByID(id uuid.UUID) (NailSet, bool) {
	for _, set := range d.NailSets {
		if set.ID == id {
			return set, true
		}
	}
	return NailSet{}, false
}

// UpsertSet commits a set into the draft: replaces the set with the same ID
// or appends when the ID is new. Bumps the revision.
func (d *Draft) UpsertSet(set NailSet) {
	if set.ID == uuid.Nil {
		set.ID = uuid.New()
	}
	for i := range d.NailSets {
		if d.NailSets[i].ID == set.ID {
			d.NailSets[i] = set
			d.Revision++
			return
		}
	}
	d.NailSets = append(d.NailSets, set)
	d.Revision++
}

// RemoveSet drops a committed set. Reports whether anything was removed.
func (d *Draft) RemoveSet(id uuid.UUID) bool {
	for i := range d.NailSets {
		if d.NailSets[i].ID == id {
			d.NailSets = append(d.NailSets[:i], d.NailSets[i+1:]...)
			d.Revision++
			return true
		}
	}
	return false
}

// SetFulfillment replaces the fulfillment selection. Addresses are dropped
// when the method does not require one.
func (d *Draft) SetFulfillment(f Fulfillment) {
	if !f.Method.RequiresAddress() {
		f.Address = nil
	}
	d.Fulfillment = f.Clone()
	d.Revision++
}

// SetPromoCode records the entered code, upper-cased, or clears it.
func (d *Draft) SetPromoCode(code string) {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if trimmed == "" {
		d.PromoCode = nil
	} else {
		d.PromoCode = &trimmed
	}
	d.Revision++
}

// SetOrderNotes records or clears the order-level notes.
func (d *Draft) SetOrderNotes(notes string) {
	trimmed := strings.TrimSpace(notes)
	if trimmed == "" {
		d.OrderNotes = nil
	} else {
		d.OrderNotes = &trimmed
	}
	d.Revision++
}

// DuplicateSet clones a committed set under a fresh identity with fresh
// upload identities, appends it with a disambiguating name, and returns the
// copy. The follow-up flag carries over so the duplicate starts in the same
// completeness state as its source.
func (d *Draft) DuplicateSet(id uuid.UUID) (NailSet, bool) {
	source, ok := d.SetByID(id)
	if !ok {
		return NailSet{}, false
	}
	dup := source.Clone()
	dup.ID = uuid.New()
	for i := range dup.Uploads {
		dup.Uploads[i].ID = uuid.New()
	}
	name := "Set"
	if source.Name != nil && strings.TrimSpace(*source.Name) != "" {
		name = *source.Name
	}
	copyName := name + " (copy)"
	dup.Name = &copyName
	d.NailSets = append(d.NailSets, dup)
	d.Revision++
	return dup, true
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	out := *s
	return &out
}
