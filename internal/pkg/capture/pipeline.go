package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hhtelecom/fieldcapture/app/models"
	"github.com/hhtelecom/fieldcapture/app/repository"
)

// File is one user-selected image as it arrives from the picker or the
// camera.
type File struct {
	Name string
	Data []byte
}

// Pipeline turns selected images into normalized, deterministically
// named photo records ready for the local store and a later upload.
type Pipeline struct {
	photos  repository.PhotoRepository
	geo     Geolocator
	quality int
}

// NewPipeline creates a capture pipeline. geo may be nil when the
// device has no position source; coordinates then come from EXIF only.
func NewPipeline(photos repository.PhotoRepository, geo Geolocator) *Pipeline {
	return &Pipeline{photos: photos, geo: geo, quality: DefaultQuality}
}

// Capture processes one selected file for the given field slot of a
// report. The sequence number is the count of all photos currently
// stored for the report plus one, a running total across every field.
func (p *Pipeline) Capture(ctx context.Context, report *models.Report, def FieldDef, slot int, file File) (*models.Photo, error) {
	if err := CheckSize(file.Name, int64(len(file.Data))); err != nil {
		return nil, err
	}

	head := file.Data
	if len(head) > 512 {
		head = head[:512]
	}
	if _, err := ValidateImage(file.Name, head); err != nil {
		return nil, err
	}

	compressed := Compress(file.Data, p.quality)

	count, err := p.photos.CountByReport(report.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count photos for report %s: %w", report.ID, err)
	}
	photoID := BuildPhotoID(report.SiteID, int(count)+1)

	photo := &models.Photo{
		ID:        uuid.New().String(),
		ReportID:  report.ID,
		FieldKey:  SlotKey(def, slot),
		FileName:  Rename(file.Name, photoID),
		Blob:      compressed.Data,
		Status:    models.PhotoStatusDraft,
		CreatedAt: time.Now(),
	}

	if def.RequireCoords {
		// Re-encoding strips EXIF, so resolve against the raw file
		// bytes, not the compressed blob.
		if c := ResolveCoords(ctx, p.geo, file.Data); c != nil {
			photo.Lat = &c.Lat
			photo.Lng = &c.Lng
		}
	}

	return photo, nil
}
