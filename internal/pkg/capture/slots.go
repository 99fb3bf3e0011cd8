package capture

import (
	"fmt"
)

// FieldKind tags how many photo slots a form field owns.
type FieldKind int

const (
	// KindSingle is a plain one-photo field.
	KindSingle FieldKind = iota
	// KindFixedSlots is a field with a fixed number of named slots,
	// e.g. the four corner photos.
	KindFixedSlots
	// KindCompassAngles is a 360° field with twelve 30°-step slots
	// starting at North.
	KindCompassAngles
)

// CompassAngles are the twelve angle labels of a KindCompassAngles field.
var CompassAngles = [12]int{0, 30, 60, 90, 120, 150, 180, 210, 240, 270, 300, 330}

// FieldDef is the static definition of a photo field slot in the form
// checklist.
type FieldDef struct {
	Key           string
	Label         string
	Kind          FieldKind
	SlotCount     int // used by KindFixedSlots; KindCompassAngles is always 12
	RequireCoords bool
}

// Slots returns the number of slots the field owns.
func (d FieldDef) Slots() int {
	switch d.Kind {
	case KindFixedSlots:
		return d.SlotCount
	case KindCompassAngles:
		return len(CompassAngles)
	default:
		return 1
	}
}

// SlotLabel names slot i for display: "3/4" for fixed slots, "90°" for
// compass angles, the bare index otherwise.
func (d FieldDef) SlotLabel(i int) string {
	switch d.Kind {
	case KindFixedSlots:
		return fmt.Sprintf("%d/%d", i+1, d.SlotCount)
	case KindCompassAngles:
		return fmt.Sprintf("%d°", CompassAngles[i])
	default:
		return fmt.Sprintf("%d", i+1)
	}
}

// Slot is one captured position within a field: the stored file name,
// the remote URL once uploaded, and the local photo record id. A zero
// Slot means the position is empty.
type Slot struct {
	FileName  string `json:"file_name,omitempty"`
	RemoteURL string `json:"remote_url,omitempty"`
	PhotoID   string `json:"photo_id,omitempty"`
}

// FieldEntry is the per-field photo metadata kept inside the report
// payload. The slice always has the field's full slot count so sibling
// positions survive partial edits.
type FieldEntry struct {
	FieldKey string  `json:"field_key"`
	Slots    []Slot  `json:"slots"`
	Coords   *Coords `json:"coords,omitempty"`
}

// NewFieldEntry creates an entry with every slot empty.
func NewFieldEntry(def FieldDef) *FieldEntry {
	return &FieldEntry{
		FieldKey: def.Key,
		Slots:    make([]Slot, def.Slots()),
	}
}

// ApplySlot replaces only slot i, leaving siblings untouched.
func (e *FieldEntry) ApplySlot(i int, s Slot) error {
	if i < 0 || i >= len(e.Slots) {
		return fmt.Errorf("slot %d out of range for field %s (%d slots)", i, e.FieldKey, len(e.Slots))
	}
	e.Slots[i] = s
	return nil
}

// ClearSlot nulls slot i but preserves the length and positions of the
// other slots.
func (e *FieldEntry) ClearSlot(i int) error {
	return e.ApplySlot(i, Slot{})
}

// SlotKey is the logical field-slot identifier stored on a photo
// record: the field key, suffixed with the slot index for multi-slot
// fields.
func SlotKey(def FieldDef, i int) string {
	if def.Kind == KindSingle {
		return def.Key
	}
	return fmt.Sprintf("%s#%d", def.Key, i+1)
}
