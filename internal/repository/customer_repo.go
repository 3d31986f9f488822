package repository

import (
	"reviewroute/internal/models"

	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(c *models.Customer) error {
	return r.db.Create(c).Error
}

// FindByName looks up a customer by exact, case-sensitive name within one
// business. BINARY forces a case-sensitive compare on MySQL's default collation.
func (r *CustomerRepository) FindByName(businessID, name string) (*models.Customer, error) {
	var c models.Customer
	err := r.db.Where("business_id = ? AND BINARY name = ?", businessID, name).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) ListByBusinessID(businessID string, limit, offset int) ([]models.Customer, error) {
	var list []models.Customer
	err := r.db.Where("business_id = ?", businessID).
		Order("first_review_date DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *CustomerRepository) ListByIDs(businessID string, ids []string) ([]models.Customer, error) {
	var list []models.Customer
	err := r.db.Where("business_id = ? AND id IN ?", businessID, ids).Find(&list).Error
	return list, err
}
