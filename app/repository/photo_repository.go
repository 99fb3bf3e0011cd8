package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hhtelecom/fieldcapture/app/models"
)

// photoRepository implements the PhotoRepository interface
type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository creates a new photo repository instance
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

// UpsertBatch inserts or replaces all given photos in one transaction
func (r *photoRepository) UpsertBatch(photos []models.Photo) error {
	if len(photos) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range photos {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&photos[i]).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByStatus retrieves all photos with the given status
func (r *photoRepository) GetByStatus(status string) ([]models.Photo, error) {
	var photos []models.Photo
	if err := r.db.Where("status = ?", status).Find(&photos).Error; err != nil {
		return nil, err
	}
	return photos, nil
}

// GetByReport retrieves every photo belonging to a report
func (r *photoRepository) GetByReport(reportID string) ([]models.Photo, error) {
	var photos []models.Photo
	if err := r.db.Where("report_id = ?", reportID).Find(&photos).Error; err != nil {
		return nil, err
	}
	return photos, nil
}

// CountByReport returns how many photos a report currently owns. The
// capture pipeline seeds its running sequence number from this.
func (r *photoRepository) CountByReport(reportID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Photo{}).Where("report_id = ?", reportID).Count(&count).Error
	return count, err
}

// DeleteByReport removes every photo of the report via the report index
func (r *photoRepository) DeleteByReport(reportID string) error {
	return r.db.Where("report_id = ?", reportID).Delete(&models.Photo{}).Error
}

// UpdateStatus advances a photo's status; missing ids are ignored
func (r *photoRepository) UpdateStatus(id string, status string, remoteURL string) error {
	var photo models.Photo
	err := r.db.Where("id = ?", id).First(&photo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	updates := map[string]interface{}{"status": status}
	if remoteURL != "" {
		updates["remote_url"] = remoteURL
	}
	return r.db.Model(&photo).Updates(updates).Error
}

// DeleteAll purges every photo
func (r *photoRepository) DeleteAll() error {
	return r.db.Where("1 = 1").Delete(&models.Photo{}).Error
}
