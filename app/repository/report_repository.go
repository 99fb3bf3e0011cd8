package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hhtelecom/fieldcapture/app/models"
)

// reportRepository implements the ReportRepository interface
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository instance
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Upsert inserts or fully replaces a report by its id
func (r *reportRepository) Upsert(report *models.Report) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(report).Error
}

// GetByID retrieves a report by its id
func (r *reportRepository) GetByID(id string) (*models.Report, error) {
	return models.FindReportByID(r.db, id)
}

// GetByStatus retrieves all reports with the given status
func (r *reportRepository) GetByStatus(status string) ([]models.Report, error) {
	var reports []models.Report
	if err := r.db.Where("status = ?", status).Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// UpdateStatus advances a report's status; missing ids are ignored
func (r *reportRepository) UpdateStatus(id string, status string, updatedAt time.Time) error {
	var report models.Report
	err := r.db.Where("id = ?", id).First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return r.db.Model(&report).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": updatedAt,
	}).Error
}

// Count returns the total number of reports
func (r *reportRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Report{}).Count(&count).Error
	return count, err
}

// DeleteAll purges every report. Only the explicit "clear all data"
// action reaches this.
func (r *reportRepository) DeleteAll() error {
	return r.db.Where("1 = 1").Delete(&models.Report{}).Error
}
