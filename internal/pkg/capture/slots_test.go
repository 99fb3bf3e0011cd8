package capture_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hhtelecom/fieldcapture/internal/pkg/capture"
)

func TestFieldDef_Slots(t *testing.T) {
	single := capture.FieldDef{Key: "fachada", Kind: capture.KindSingle}
	corners := capture.FieldDef{Key: "cantos", Kind: capture.KindFixedSlots, SlotCount: 4}
	compass := capture.FieldDef{Key: "panorama", Kind: capture.KindCompassAngles}

	assert.Equal(t, 1, single.Slots())
	assert.Equal(t, 4, corners.Slots())
	assert.Equal(t, 12, compass.Slots())
}

func TestFieldDef_SlotLabel(t *testing.T) {
	corners := capture.FieldDef{Key: "cantos", Kind: capture.KindFixedSlots, SlotCount: 4}
	compass := capture.FieldDef{Key: "panorama", Kind: capture.KindCompassAngles}

	assert.Equal(t, "3/4", corners.SlotLabel(2))
	assert.Equal(t, "0°", compass.SlotLabel(0))
	assert.Equal(t, "90°", compass.SlotLabel(3))
	assert.Equal(t, "330°", compass.SlotLabel(11))
}

func TestFieldEntry_ApplySlotPreservesSiblings(t *testing.T) {
	compass := capture.FieldDef{Key: "panorama", Kind: capture.KindCompassAngles}
	entry := capture.NewFieldEntry(compass)
	require.Len(t, entry.Slots, 12)

	require.NoError(t, entry.ApplySlot(0, capture.Slot{FileName: "north.jpg", PhotoID: "p-north"}))
	require.NoError(t, entry.ApplySlot(3, capture.Slot{FileName: "east.jpg", PhotoID: "p-east"}))

	// Replacing one position must not disturb the others.
	require.NoError(t, entry.ApplySlot(3, capture.Slot{FileName: "east-retake.jpg", PhotoID: "p-east-2"}))

	assert.Equal(t, "north.jpg", entry.Slots[0].FileName)
	assert.Equal(t, "east-retake.jpg", entry.Slots[3].FileName)
	assert.Empty(t, entry.Slots[1].FileName)
	assert.Len(t, entry.Slots, 12)
}

func TestFieldEntry_ClearSlot(t *testing.T) {
	corners := capture.FieldDef{Key: "cantos", Kind: capture.KindFixedSlots, SlotCount: 4}
	entry := capture.NewFieldEntry(corners)

	require.NoError(t, entry.ApplySlot(1, capture.Slot{FileName: "a.jpg"}))
	require.NoError(t, entry.ApplySlot(2, capture.Slot{FileName: "b.jpg"}))
	require.NoError(t, entry.ClearSlot(1))

	assert.Empty(t, entry.Slots[1].FileName)
	assert.Equal(t, "b.jpg", entry.Slots[2].FileName)
	assert.Len(t, entry.Slots, 4)
}

func TestFieldEntry_ApplySlotOutOfRange(t *testing.T) {
	single := capture.FieldDef{Key: "fachada", Kind: capture.KindSingle}
	entry := capture.NewFieldEntry(single)

	assert.Error(t, entry.ApplySlot(-1, capture.Slot{}))
	assert.Error(t, entry.ApplySlot(1, capture.Slot{}))
}

func TestSlotKey(t *testing.T) {
	single := capture.FieldDef{Key: "fachada", Kind: capture.KindSingle}
	compass := capture.FieldDef{Key: "panorama", Kind: capture.KindCompassAngles}

	assert.Equal(t, "fachada", capture.SlotKey(single, 0))
	assert.Equal(t, "panorama#1", capture.SlotKey(compass, 0))
	assert.Equal(t, "panorama#12", capture.SlotKey(compass, 11))
}
