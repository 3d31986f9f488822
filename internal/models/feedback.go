package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback is one persisted submission. Rating and Comment are derived from the
// first rating/comment field in the business's schema at submission time; the
// full answer set lives in Values. Records are immutable once created.
type Feedback struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	BusinessID string    `gorm:"size:36;not null;index" json:"business_id"`
	CustomerID string    `gorm:"size:36;not null;index" json:"customer_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"type:text" json:"comment"`
	Date       time.Time `gorm:"type:date" json:"date"`
	CreatedAt  time.Time `json:"created_at"`

	Values   []FeedbackValue `gorm:"foreignKey:FeedbackID" json:"values,omitempty"`
	Customer Customer        `gorm:"foreignKey:CustomerID" json:"-"`
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// FeedbackValue is one answer to one schema field. Exactly one of NumberValue
// and TextValue is meaningful, dispatched on FieldType.
type FeedbackValue struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	FeedbackID  string `gorm:"size:36;not null;index" json:"-"`
	FieldID     string `gorm:"size:64;not null" json:"field_id"`
	FieldType   string `gorm:"size:16;not null" json:"field_type"`
	NumberValue int    `gorm:"not null;default:0" json:"number_value,omitempty"`
	TextValue   string `gorm:"type:text" json:"text_value,omitempty"`
}
