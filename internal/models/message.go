package models

import "time"

// Message records one messaging-composer send. Recipients is the number of
// customers actually addressed (and the number of credits consumed).
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BusinessID string    `gorm:"size:36;not null;index" json:"business_id"`
	Subject    string    `gorm:"size:255;not null" json:"subject"`
	Body       string    `gorm:"type:text" json:"body"`
	Recipients int       `gorm:"not null;default:0" json:"recipients"`
	CreatedAt  time.Time `json:"created_at"`
}
