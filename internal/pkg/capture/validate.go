package capture

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxFileSize is the hard upper bound for a single selected file.
// Anything larger is rejected before compression, with no partial
// processing.
const MaxFileSize = 20 * 1024 * 1024 // 20 MiB

// ErrFileTooLarge marks an oversize rejection. The wrapped message
// names the offending file.
var ErrFileTooLarge = errors.New("file exceeds the 20MB limit")

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

var allowedMime = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// CheckSize rejects files above MaxFileSize.
func CheckSize(fileName string, size int64) error {
	if size > MaxFileSize {
		return fmt.Errorf("%q (%d bytes): %w", fileName, size, ErrFileTooLarge)
	}
	return nil
}

// ValidateImage checks the file extension and the first bytes against
// the capture whitelist (JPEG and PNG). Returns the detected mime type.
func ValidateImage(fileName string, head []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedExt[ext] {
		return "", fmt.Errorf("unsupported image format %q, only JPG and PNG are accepted", ext)
	}

	detected := http.DetectContentType(head)
	if allowedMime[detected] {
		return detected, nil
	}
	// Some encoders produce content the sniffer cannot classify; trust
	// the whitelisted extension in that case.
	if detected == "application/octet-stream" {
		return detected, nil
	}
	return "", fmt.Errorf("file content %q does not match an accepted image type", detected)
}
