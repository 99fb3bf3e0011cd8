package capture

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2/log"
)

// DefaultQuality is the JPEG quality factor used when none is given.
const DefaultQuality = 85

// Result is the outcome of a compression attempt. Compression is a
// best-effort optimization: on any decode or encode failure Data holds
// the original bytes unchanged and Compressed is false.
type Result struct {
	Data       []byte
	Compressed bool
}

// Compress decodes the image and re-encodes it as JPEG at the given
// quality (1-100). A corrupt or unsupported image is not an error; the
// caller gets the original file back.
func Compress(data []byte, quality int) Result {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		log.Warn(fmt.Sprintf("[Capture] compression skipped, decode failed: %v", err))
		return Result{Data: data, Compressed: false}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		log.Warn(fmt.Sprintf("[Capture] compression skipped, encode failed: %v", err))
		return Result{Data: data, Compressed: false}
	}

	return Result{Data: buf.Bytes(), Compressed: true}
}
