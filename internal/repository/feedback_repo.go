package repository

import (
	"time"

	"reviewroute/internal/models"

	"gorm.io/gorm"
)

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create inserts the feedback row together with its values (gorm association).
func (r *FeedbackRepository) Create(f *models.Feedback) error {
	return r.db.Create(f).Error
}

func (r *FeedbackRepository) ListByBusinessID(businessID string, limit, offset int) ([]models.Feedback, error) {
	var list []models.Feedback
	err := r.db.Where("business_id = ?", businessID).
		Preload("Values").Preload("Customer").
		Order("date DESC, created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *FeedbackRepository) ListByBusinessIDSince(businessID string, since time.Time) ([]models.Feedback, error) {
	var list []models.Feedback
	err := r.db.Where("business_id = ? AND date >= ?", businessID, since).Find(&list).Error
	return list, err
}

// AggregateLowRatings recomputes (avg, count) over feedback with rating in
// [1, maxExclusive) for one business. Used by the nightly reconcile job.
func (r *FeedbackRepository) AggregateLowRatings(businessID string, maxExclusive int) (float64, int64, error) {
	var row struct {
		Avg   float64
		Count int64
	}
	err := r.db.Model(&models.Feedback{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("business_id = ? AND rating >= 1 AND rating < ?", businessID, maxExclusive).
		Scan(&row).Error
	return row.Avg, row.Count, err
}
