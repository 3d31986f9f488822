package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is scoped to one business. Identity is approximated by the
// (business_id, name) pair; the index is deliberately non-unique, so two
// concurrent first submissions under the same name can both insert.
type Customer struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	BusinessID      string    `gorm:"size:36;not null;index:idx_customers_business_name" json:"business_id"`
	Name            string    `gorm:"size:255;not null;index:idx_customers_business_name" json:"name"`
	Phone           string    `gorm:"size:32" json:"phone,omitempty"`
	Email           string    `gorm:"size:255" json:"email,omitempty"`
	FirstReviewDate time.Time `gorm:"type:date" json:"first_review_date"`
	CreatedAt       time.Time `json:"created_at"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
