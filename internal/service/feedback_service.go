package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"reviewroute/internal/domain"
	"reviewroute/internal/models"

	"gorm.io/gorm"
)

var ErrBusinessNotFound = errors.New("business not found")

// ValidationError reports a required form field with no usable answer. No side
// effects have happened when one is returned.
type ValidationError struct {
	Label string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required field %q is missing", e.Label)
}

// PersistenceError wraps a backend write that failed after validation passed.
// Nothing is rolled back; a caller retry can duplicate a customer or feedback row.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return "persist " + e.Op + ": " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

// Answer is one submitted value for one schema field. Number carries rating
// answers, Text carries comment answers; the field's schema type decides which
// side of the variant is read.
type Answer struct {
	FieldID string
	Number  int
	Text    string
}

// SubmitInput is the submit-step payload. Phone and email were collected in the
// wizard's details step and are not part of this operation.
type SubmitInput struct {
	CustomerName string
	Answers      []Answer
}

// SubmitResult is the outcome of one submission: exactly one of RedirectURL and
// Feedback is set. A redirect means nothing was persisted.
type SubmitResult struct {
	RedirectURL string
	Feedback    *models.Feedback
}

type businessStore interface {
	GetByID(id string) (*models.Business, error)
	UpdateAggregates(id string, avgRating float64, reviews int64) error
}

type customerStore interface {
	FindByName(businessID, name string) (*models.Customer, error)
	Create(c *models.Customer) error
}

type feedbackStore interface {
	Create(f *models.Feedback) error
}

// FeedbackService decides whether a submission is diverted to the public review
// link or persisted internally, and keeps the low-rating aggregates current.
type FeedbackService struct {
	businesses businessStore
	customers  customerStore
	feedback   feedbackStore

	now func() time.Time
}

func NewFeedbackService(businesses businessStore, customers customerStore, feedback feedbackStore) *FeedbackService {
	return &FeedbackService{
		businesses: businesses,
		customers:  customers,
		feedback:   feedback,
		now:        time.Now,
	}
}

// Submit runs the full intake flow for one submission.
//
// The writes are issued sequentially with no surrounding transaction; two
// concurrent submissions for the same business can race on the aggregate
// update. The nightly reconcile job repairs any lost update.
func (s *FeedbackService) Submit(businessID string, in SubmitInput) (*SubmitResult, error) {
	if strings.TrimSpace(in.CustomerName) == "" {
		return nil, &ValidationError{Label: "Name"}
	}

	b, err := s.businesses.GetByID(businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, &PersistenceError{Op: "load business", Err: err}
	}
	schema := b.SchemaOrDefault()

	byField := make(map[string]Answer, len(in.Answers))
	for _, a := range in.Answers {
		byField[a.FieldID] = a
	}

	// Validation happens before any write.
	for _, f := range schema {
		a, ok := byField[f.ID]
		if ok && f.Type == domain.FieldTypeRating && (a.Number < 0 || a.Number > domain.RatingMax) {
			return nil, &ValidationError{Label: f.Label}
		}
		if f.IsOptional {
			continue
		}
		switch {
		case !ok:
			return nil, &ValidationError{Label: f.Label}
		case f.Type == domain.FieldTypeRating && a.Number == 0:
			return nil, &ValidationError{Label: f.Label}
		case f.Type == domain.FieldTypeComment && strings.TrimSpace(a.Text) == "":
			return nil, &ValidationError{Label: f.Label}
		}
	}

	rating, comment := primaryAnswers(schema, byField)

	// A satisfied customer with nothing substantial to say goes to the public
	// review page; no record of the submission is kept.
	if rating >= b.RedirectThreshold() &&
		len(strings.TrimSpace(comment)) < b.CommentThreshold() &&
		b.GoogleReviewLink != "" {
		return &SubmitResult{RedirectURL: b.GoogleReviewLink}, nil
	}

	customer, err := s.ResolveOrCreateCustomer(businessID, in.CustomerName, "", "")
	if err != nil {
		return nil, err
	}

	fb := &models.Feedback{
		BusinessID: businessID,
		CustomerID: customer.ID,
		Rating:     rating,
		Comment:    comment,
		Date:       s.today(),
		Values:     valuesFor(schema, byField),
	}
	if err := s.feedback.Create(fb); err != nil {
		return nil, &PersistenceError{Op: "create feedback", Err: err}
	}

	// Only ratings below the redirect threshold count toward the aggregates.
	// A persisted high rating (substantial comment, or no review link) is kept
	// but stays out of avg_rating/reviews.
	if rating > 0 && rating < b.RedirectThreshold() {
		newReviews := b.Reviews + 1
		newAvg := (b.AvgRating*float64(b.Reviews) + float64(rating)) / float64(newReviews)
		if err := s.businesses.UpdateAggregates(b.ID, newAvg, newReviews); err != nil {
			return nil, &PersistenceError{Op: "update aggregates", Err: err}
		}
	}

	return &SubmitResult{Feedback: fb}, nil
}

// ResolveOrCreateCustomer returns the customer matching (businessID, name)
// exactly, or creates one. An existing record wins as-is: phone and email from
// a later submission are discarded, not merged.
func (s *FeedbackService) ResolveOrCreateCustomer(businessID, name, phone, email string) (*models.Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Label: "Name"}
	}
	c, err := s.customers.FindByName(businessID, name)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &PersistenceError{Op: "find customer", Err: err}
	}
	nc := &models.Customer{
		BusinessID:      businessID,
		Name:            name,
		Phone:           phone,
		Email:           email,
		FirstReviewDate: s.today(),
	}
	if err := s.customers.Create(nc); err != nil {
		return nil, &PersistenceError{Op: "create customer", Err: err}
	}
	return nc, nil
}

// today truncates the clock to day granularity; feedback dates carry no time.
func (s *FeedbackService) today() time.Time {
	t := s.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// primaryAnswers derives the flat rating/comment pair from the first schema
// field of each type. Missing field or value yields the zero value.
func primaryAnswers(schema []models.ReviewFormField, byField map[string]Answer) (int, string) {
	rating, comment := 0, ""
	for _, f := range schema {
		if f.Type == domain.FieldTypeRating {
			rating = byField[f.ID].Number
			break
		}
	}
	for _, f := range schema {
		if f.Type == domain.FieldTypeComment {
			comment = byField[f.ID].Text
			break
		}
	}
	return rating, comment
}

// valuesFor keeps the answers that match a schema field, in schema order.
// Empty answers and answers to unknown field ids are dropped.
func valuesFor(schema []models.ReviewFormField, byField map[string]Answer) []models.FeedbackValue {
	out := make([]models.FeedbackValue, 0, len(schema))
	for _, f := range schema {
		a, ok := byField[f.ID]
		if !ok {
			continue
		}
		v := models.FeedbackValue{FieldID: f.ID, FieldType: f.Type}
		switch f.Type {
		case domain.FieldTypeRating:
			if a.Number == 0 {
				continue
			}
			v.NumberValue = a.Number
		case domain.FieldTypeComment:
			if strings.TrimSpace(a.Text) == "" {
				continue
			}
			v.TextValue = a.Text
		default:
			continue
		}
		out = append(out, v)
	}
	return out
}
