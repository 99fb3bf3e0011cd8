package capture_test

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hhtelecom/fieldcapture/internal/pkg/capture"
)

// encodeTestImage produces a small real image in the given format.
func encodeTestImage(t *testing.T, format imaging.Format) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for x := 0; x < 64; x++ {
		for y := 0; y < 48; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 5), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, format))
	return buf.Bytes()
}

func TestCompress_ReencodesValidImage(t *testing.T) {
	original := encodeTestImage(t, imaging.PNG)

	result := capture.Compress(original, capture.DefaultQuality)

	assert.True(t, result.Compressed)
	require.NotEmpty(t, result.Data)

	// The output must always be JPEG, whatever came in.
	_, format, err := image.Decode(bytes.NewReader(result.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestCompress_CorruptInputReturnsOriginal(t *testing.T) {
	corrupt := []byte("this is not an image at all, just text pretending")

	result := capture.Compress(corrupt, capture.DefaultQuality)

	assert.False(t, result.Compressed)
	// Byte-for-byte the original; a failed compression never mangles data.
	assert.Equal(t, corrupt, result.Data)
}

func TestCompress_InvalidQualityFallsBackToDefault(t *testing.T) {
	original := encodeTestImage(t, imaging.JPEG)

	result := capture.Compress(original, 0)
	assert.True(t, result.Compressed)

	result = capture.Compress(original, 150)
	assert.True(t, result.Compressed)
}
