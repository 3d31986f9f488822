package service

import (
	"errors"
	"log"

	"reviewroute/internal/models"

	"gorm.io/gorm"
)

var (
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrNoRecipients        = errors.New("no selected customer has an email address")
)

type creditStore interface {
	GetByID(id string) (*models.Business, error)
	DeductCredits(id string, n int) error
}

type recipientStore interface {
	ListByIDs(businessID string, ids []string) ([]models.Customer, error)
}

type messageStore interface {
	Create(m *models.Message) error
}

// SendReport summarizes one messaging-composer send.
type SendReport struct {
	Requested    int `json:"requested"`
	Sent         int `json:"sent"`
	Failed       int `json:"failed"`
	Skipped      int `json:"skipped"` // selected customers without an email address
	CreditsSpent int `json:"credits_spent"`
}

// MessagingService sends a message to selected customers, spending one credit
// per addressed recipient. Credits are only ever replenished by admin top-up.
type MessagingService struct {
	businesses creditStore
	customers  recipientStore
	messages   messageStore
	mailer     Mailer
}

func NewMessagingService(businesses creditStore, customers recipientStore, messages messageStore, mailer Mailer) *MessagingService {
	return &MessagingService{
		businesses: businesses,
		customers:  customers,
		messages:   messages,
		mailer:     mailer,
	}
}

func (s *MessagingService) Send(businessID, subject, body string, customerIDs []string) (*SendReport, error) {
	b, err := s.businesses.GetByID(businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, &PersistenceError{Op: "load business", Err: err}
	}

	selected, err := s.customers.ListByIDs(businessID, customerIDs)
	if err != nil {
		return nil, &PersistenceError{Op: "load customers", Err: err}
	}
	recipients := make([]models.Customer, 0, len(selected))
	for _, c := range selected {
		if c.Email != "" {
			recipients = append(recipients, c)
		}
	}
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}
	if b.Credits < len(recipients) {
		return nil, ErrInsufficientCredits
	}

	// Deduct up front; the repository refuses when the balance raced below the cost.
	if err := s.businesses.DeductCredits(businessID, len(recipients)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInsufficientCredits
		}
		return nil, &PersistenceError{Op: "deduct credits", Err: err}
	}

	report := &SendReport{
		Requested:    len(customerIDs),
		Skipped:      len(selected) - len(recipients),
		CreditsSpent: len(recipients),
	}
	for _, c := range recipients {
		if err := s.mailer.Send(c.Email, subject, body); err != nil {
			log.Printf("[messaging] send to customer %s failed: %v", c.ID, err)
			report.Failed++
			continue
		}
		report.Sent++
	}

	if err := s.messages.Create(&models.Message{
		BusinessID: businessID,
		Subject:    subject,
		Body:       body,
		Recipients: len(recipients),
	}); err != nil {
		log.Printf("[messaging] record message for business %s failed: %v", businessID, err)
	}

	return report, nil
}
