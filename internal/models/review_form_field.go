package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"reviewroute/internal/domain"
)

// ReviewFormField is one field descriptor in a business's review form schema.
// Type dispatches the value variant: rating answers are numeric, comment answers
// are free text.
type ReviewFormField struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	BusinessID string `gorm:"size:36;not null;index" json:"-"`
	Position   int    `gorm:"not null;default:0" json:"position"`
	Type       string `gorm:"size:16;not null" json:"type"` // rating | comment
	Label      string `gorm:"size:255;not null" json:"label"`
	IsOptional bool   `gorm:"not null;default:false" json:"is_optional"`
}

func (f *ReviewFormField) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// DefaultFormFields is the schema applied when a business has no fields configured.
func DefaultFormFields(businessID string) []ReviewFormField {
	return []ReviewFormField{
		{ID: "rating-1", BusinessID: businessID, Position: 0, Type: domain.FieldTypeRating, Label: "How was your experience?", IsOptional: false},
		{ID: "comment-1", BusinessID: businessID, Position: 1, Type: domain.FieldTypeComment, Label: "Any comments?", IsOptional: true},
	}
}
