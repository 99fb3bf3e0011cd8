package capture_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hhtelecom/fieldcapture/internal/pkg/capture"
)

func TestBuildPhotoID(t *testing.T) {
	assert.Equal(t, "SITE123_foto_001", capture.BuildPhotoID("SITE123", 1))
	assert.Equal(t, "SITE123_foto_007", capture.BuildPhotoID("SITE123", 7))
	assert.Equal(t, "SITE123_foto_042", capture.BuildPhotoID("SITE123", 42))
	// Padding never truncates beyond three digits.
	assert.Equal(t, "SITE123_foto_1234", capture.BuildPhotoID("SITE123", 1234))
}

func TestRename(t *testing.T) {
	assert.Equal(t, "SITE1_foto_001.jpg", capture.Rename("IMG_20240101.jpg", "SITE1_foto_001"))
	assert.Equal(t, "SITE1_foto_001.png", capture.Rename("screenshot.PNG", "SITE1_foto_001"))
	// No extension falls back to .jpg.
	assert.Equal(t, "SITE1_foto_001.jpg", capture.Rename("camera-output", "SITE1_foto_001"))
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "foto-da-fachada.jpg", capture.SanitizeFileName("foto da fachada.jpg"))
	assert.Equal(t, "relat-rio-1.png", capture.SanitizeFileName("relatório #1.png"))
	assert.Equal(t, "already_safe-name.jpeg", capture.SanitizeFileName("already_safe-name.jpeg"))
	assert.Equal(t, "foto.jpg", capture.SanitizeFileName(""))
}
