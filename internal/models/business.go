package models

import (
	"time"

	"reviewroute/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewPageTheme holds the colors rendered on the public review page.
type ReviewPageTheme struct {
	PrimaryColor    string `gorm:"size:16" json:"primary_color"`
	BackgroundColor string `gorm:"size:16" json:"background_color"`
	TextColor       string `gorm:"size:16" json:"text_color"`
	ButtonColor     string `gorm:"size:16" json:"button_color"`
	ButtonTextColor string `gorm:"size:16" json:"button_text_color"`
}

type Business struct {
	ID               string `gorm:"primaryKey;size:36" json:"id"`
	Name             string `gorm:"size:255;not null" json:"name"`
	OwnerEmail       string `gorm:"uniqueIndex;size:255;not null" json:"owner_email"`
	PasswordHash     string `gorm:"size:255" json:"-"`
	Status           string `gorm:"size:20;not null;index;default:'pending'" json:"status"` // approved | pending | rejected
	Credits          int    `gorm:"not null;default:0" json:"credits"`
	ReviewURL        string `gorm:"size:512" json:"review_url"`
	GoogleReviewLink string `gorm:"size:512" json:"google_review_link"`
	LogoURL          string `gorm:"size:512" json:"logo_url"`
	WelcomeMessage   string `gorm:"size:1024" json:"welcome_message"`

	Theme ReviewPageTheme `gorm:"embedded;embeddedPrefix:theme_" json:"theme"`

	// Aggregates over persisted low-rating feedback only (rating in [1, redirect threshold)).
	AvgRating float64 `gorm:"not null;default:0" json:"avg_rating"`
	Reviews   int64   `gorm:"not null;default:0" json:"reviews"`

	// Per-tenant overrides for the routing thresholds; 0 means use the domain default.
	RedirectMinRating     int `gorm:"not null;default:0" json:"redirect_min_rating"`
	MinSubstantialComment int `gorm:"not null;default:0" json:"min_substantial_comment"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	FormFields []ReviewFormField `gorm:"foreignKey:BusinessID" json:"review_form_fields,omitempty"`
}

func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func (b *Business) IsApproved() bool { return b.Status == domain.BusinessStatusApproved }

// RedirectThreshold is the lowest primary rating routed to the external review link.
func (b *Business) RedirectThreshold() int {
	if b.RedirectMinRating > 0 {
		return b.RedirectMinRating
	}
	return domain.DefaultRedirectMinRating
}

// CommentThreshold is the trimmed comment length that keeps a high rating internal.
func (b *Business) CommentThreshold() int {
	if b.MinSubstantialComment > 0 {
		return b.MinSubstantialComment
	}
	return domain.DefaultMinSubstantialComment
}

// SchemaOrDefault returns the configured form fields ordered by position, or the
// default two-field schema when the business has none configured.
func (b *Business) SchemaOrDefault() []ReviewFormField {
	if len(b.FormFields) > 0 {
		return b.FormFields
	}
	return DefaultFormFields(b.ID)
}
