package repository

import (
	"gorm.io/gorm"

	"github.com/hhtelecom/fieldcapture/app/models"
)

// queueRepository implements the QueueRepository interface
type queueRepository struct {
	db *gorm.DB
}

// NewQueueRepository creates a new offline request queue repository instance
func NewQueueRepository(db *gorm.DB) QueueRepository {
	return &queueRepository{db: db}
}

// Enqueue appends a captured request to the queue
func (r *queueRepository) Enqueue(req *models.QueuedRequest) error {
	return r.db.Create(req).Error
}

// All returns the whole queue in insertion (id) order
func (r *queueRepository) All() ([]models.QueuedRequest, error) {
	var reqs []models.QueuedRequest
	if err := r.db.Order("id asc").Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// Delete removes one replayed request from the queue
func (r *queueRepository) Delete(id uint) error {
	return r.db.Delete(&models.QueuedRequest{}, id).Error
}

// Count returns the number of queued requests
func (r *queueRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.QueuedRequest{}).Count(&count).Error
	return count, err
}
