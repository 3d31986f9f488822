package repository

import (
	"reviewroute/internal/models"

	"gorm.io/gorm"
)

type BusinessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) *BusinessRepository {
	return &BusinessRepository{db: db}
}

func (r *BusinessRepository) Create(b *models.Business) error {
	return r.db.Create(b).Error
}

func (r *BusinessRepository) GetByID(id string) (*models.Business, error) {
	var b models.Business
	err := r.db.Preload("FormFields", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&b, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BusinessRepository) GetByOwnerEmail(email string) (*models.Business, error) {
	var b models.Business
	err := r.db.Where("owner_email = ?", email).First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BusinessRepository) List(limit, offset int) ([]models.Business, error) {
	var list []models.Business
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *BusinessRepository) Update(b *models.Business) error {
	return r.db.Save(b).Error
}

func (r *BusinessRepository) UpdateStatus(id, status string) error {
	return r.db.Model(&models.Business{}).Where("id = ?", id).Update("status", status).Error
}

// UpdateAggregates overwrites the low-rating aggregate columns. Plain
// read-then-write from the caller's point of view; concurrent submissions can
// lose an update here, which the nightly reconcile job repairs.
func (r *BusinessRepository) UpdateAggregates(id string, avgRating float64, reviews int64) error {
	return r.db.Model(&models.Business{}).Where("id = ?", id).
		Updates(map[string]interface{}{"avg_rating": avgRating, "reviews": reviews}).Error
}

func (r *BusinessRepository) AddCredits(id string, delta int) error {
	return r.db.Model(&models.Business{}).Where("id = ?", id).
		Update("credits", gorm.Expr("credits + ?", delta)).Error
}

// DeductCredits spends n credits atomically; returns gorm.ErrRecordNotFound
// when the balance is short so callers can map it to an insufficient-credits error.
func (r *BusinessRepository) DeductCredits(id string, n int) error {
	res := r.db.Model(&models.Business{}).Where("id = ? AND credits >= ?", id, n).
		Update("credits", gorm.Expr("credits - ?", n))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceFormFields swaps the whole review form schema for a business.
func (r *BusinessRepository) ReplaceFormFields(businessID string, fields []models.ReviewFormField) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("business_id = ?", businessID).Delete(&models.ReviewFormField{}).Error; err != nil {
			return err
		}
		for i := range fields {
			fields[i].BusinessID = businessID
			fields[i].Position = i
		}
		if len(fields) == 0 {
			return nil
		}
		return tx.Create(&fields).Error
	})
}

// ListIDs returns every business id, for the reconcile job.
func (r *BusinessRepository) ListIDs() ([]string, error) {
	var ids []string
	err := r.db.Model(&models.Business{}).Pluck("id", &ids).Error
	return ids, err
}
