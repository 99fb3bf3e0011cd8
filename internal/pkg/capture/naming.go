package capture

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// FallbackExt is used when a selected file carries no extension.
const FallbackExt = ".jpg"

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// BuildPhotoID produces the deterministic file name stem for a capture:
// the site identifier plus a running per-report sequence number padded
// to three digits, e.g. "SITE123_foto_007".
func BuildPhotoID(siteID string, seq int) string {
	return fmt.Sprintf("%s_foto_%03d", siteID, seq)
}

// Rename replaces the base name of a file with the photo id, keeping
// the original extension.
func Rename(fileName, photoID string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = FallbackExt
	}
	return photoID + ext
}

// SanitizeFileName replaces every run of characters outside
// [a-zA-Z0-9._-] with a single dash, matching the object key rules of
// the remote storage.
func SanitizeFileName(name string) string {
	if name == "" {
		return "foto" + FallbackExt
	}
	return unsafeChars.ReplaceAllString(name, "-")
}
