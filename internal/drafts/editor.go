package drafts

import (
	"github.com/google/uuid"

	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/types"
)

// Editor is the buffered copy a nail set is edited through. The buffer is a
// full deep copy of the source, so cancelling never touches the committed
// draft, uploads included. Save hands the buffer back for the caller to
// commit via Draft.UpsertSet.
type Editor struct {
	buffer NailSet
	saved  bool
}

// EditSet opens an editor over a copy of the given set. Pass a zero NailSet
// to compose a new one.
func EditSet(source NailSet) *Editor {
	buffer := source.Clone()
	if buffer.ID == uuid.Nil {
		buffer.ID = uuid.New()
		if buffer.Quantity < 1 {
			buffer.Quantity = 1
		}
	}
	return &Editor{buffer: buffer}
}

// Set returns the current buffer contents.
func (e *Editor) Set() NailSet {
	return e.buffer.Clone()
}

// SetName updates the buffered name.
func (e *Editor) SetName(name string) {
	if name == "" {
		e.buffer.Name = nil
		return
	}
	e.buffer.Name = &name
}

// SetShape updates the buffered shape choice.
func (e *Editor) SetShape(shapeID string) {
	e.buffer.ShapeID = shapeID
}

// SetQuantity updates the buffered quantity, clamped to at least 1.
func (e *Editor) SetQuantity(q int) {
	if q < 1 {
		q = 1
	}
	e.buffer.Quantity = q
}

// SetDescription updates the buffered description.
func (e *Editor) SetDescription(desc string) {
	if desc == "" {
		e.buffer.Description = nil
		return
	}
	e.buffer.Description = &desc
}

// SetNotes updates the buffered set notes.
func (e *Editor) SetNotes(notes string) {
	if notes == "" {
		e.buffer.SetNotes = nil
		return
	}
	e.buffer.SetNotes = &notes
}

// SetSizes replaces the buffered sizing.
func (e *Editor) SetSizes(sizes types.SizeSpec) {
	e.buffer.Sizes = sizes.Clone()
}

// SetRequiresFollowUp flips the follow-up flag.
func (e *Editor) SetRequiresFollowUp(v bool) {
	e.buffer.RequiresFollowUp = v
}

// AddUpload attaches reference art to the buffer under a fresh identity.
func (e *Editor) AddUpload(fileName string, data []byte) Upload {
	upload := Upload{
		ID:       uuid.New(),
		FileName: fileName,
		Data:     append([]byte(nil), data...),
	}
	e.buffer.Uploads = append(e.buffer.Uploads, upload)
	return upload
}

// RemoveUpload detaches an upload from the buffer.
func (e *Editor) RemoveUpload(id uuid.UUID) bool {
	for i := range e.buffer.Uploads {
		if e.buffer.Uploads[i].ID == id {
			e.buffer.Uploads = append(e.buffer.Uploads[:i], e.buffer.Uploads[i+1:]...)
			return true
		}
	}
	return false
}

// Save marks the edit as committed and returns the buffer for merging into
// the draft.
func (e *Editor) Save() NailSet {
	e.saved = true
	return e.buffer.Clone()
}

// Saved reports whether Save was called; a cancelled editor is simply
// dropped without merging.
func (e *Editor) Saved() bool {
	return e.saved
}
