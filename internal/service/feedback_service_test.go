package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"reviewroute/internal/domain"
	"reviewroute/internal/models"

	"gorm.io/gorm"
)

type stubBusinesses struct {
	business *models.Business
	loadErr  error

	aggregateCalls int
	updatedAvg     float64
	updatedReviews int64
	aggregateErr   error
}

func (s *stubBusinesses) GetByID(id string) (*models.Business, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.business != nil && s.business.ID == id {
		return s.business, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubBusinesses) UpdateAggregates(id string, avgRating float64, reviews int64) error {
	if s.aggregateErr != nil {
		return s.aggregateErr
	}
	s.aggregateCalls++
	s.updatedAvg = avgRating
	s.updatedReviews = reviews
	if s.business != nil && s.business.ID == id {
		s.business.AvgRating = avgRating
		s.business.Reviews = reviews
	}
	return nil
}

type stubCustomers struct {
	records   []*models.Customer
	createErr error
	created   int
}

func (s *stubCustomers) FindByName(businessID, name string) (*models.Customer, error) {
	for _, c := range s.records {
		if c.BusinessID == businessID && c.Name == name {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCustomers) Create(c *models.Customer) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created++
	if c.ID == "" {
		c.ID = fmt.Sprintf("cust-%d", s.created)
	}
	s.records = append(s.records, c)
	return nil
}

type stubFeedback struct {
	records   []*models.Feedback
	createErr error
}

func (s *stubFeedback) Create(f *models.Feedback) error {
	if s.createErr != nil {
		return s.createErr
	}
	if f.ID == "" {
		f.ID = fmt.Sprintf("fb-%d", len(s.records)+1)
	}
	s.records = append(s.records, f)
	return nil
}

func testBusiness() *models.Business {
	return &models.Business{
		ID:               "biz-1",
		Name:             "The Happy Cafe",
		Status:           domain.BusinessStatusApproved,
		GoogleReviewLink: "https://g.page/r/happy-cafe/review",
		FormFields: []models.ReviewFormField{
			{ID: "rating-1", BusinessID: "biz-1", Position: 0, Type: domain.FieldTypeRating, Label: "How was your overall experience?"},
			{ID: "comment-1", BusinessID: "biz-1", Position: 1, Type: domain.FieldTypeComment, Label: "Tell us more", IsOptional: true},
		},
	}
}

func newTestService(b *models.Business) (*FeedbackService, *stubBusinesses, *stubCustomers, *stubFeedback) {
	businesses := &stubBusinesses{business: b}
	customers := &stubCustomers{}
	feedback := &stubFeedback{}
	svc := NewFeedbackService(businesses, customers, feedback)
	svc.now = func() time.Time { return time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC) }
	return svc, businesses, customers, feedback
}

func TestSubmitRedirectsHighRatingWithoutComment(t *testing.T) {
	svc, businesses, customers, feedback := newTestService(testBusiness())

	result, err := svc.Submit("biz-1", SubmitInput{
		CustomerName: "Maria Garcia",
		Answers:      []Answer{{FieldID: "rating-1", Number: 5}},
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if result.RedirectURL != "https://g.page/r/happy-cafe/review" {
		t.Fatalf("redirect url = %q, want the google review link", result.RedirectURL)
	}
	if result.Feedback != nil {
		t.Fatalf("redirect outcome must not carry a feedback record")
	}
	if len(feedback.records) != 0 || customers.created != 0 || businesses.aggregateCalls != 0 {
		t.Fatalf("redirect must not persist anything: feedback=%d customers=%d aggregates=%d",
			len(feedback.records), customers.created, businesses.aggregateCalls)
	}
}

func TestSubmitRedirectsHighRatingWithShortComment(t *testing.T) {
	svc, _, _, feedback := newTestService(testBusiness())

	result, err := svc.Submit("biz-1", SubmitInput{
		CustomerName: "Chen Wei",
		Answers: []Answer{
			{FieldID: "rating-1", Number: 4},
			{FieldID: "comment-1", Text: "  nice!   "}, // 5 chars trimmed, under the threshold
		},
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if result.RedirectURL == "" {
		t.Fatalf("expected redirect for rating 4 with a short comment")
	}
	if len(feedback.records) != 0 {
		t.Fatalf("feedback stored = %d, want 0", len(feedback.records))
	}
}

func TestSubmitPersistsHighRatingWhenNoReviewLink(t *testing.T) {
	b := testBusiness()
	b.GoogleReviewLink = ""
	svc, businesses, _, feedback := newTestService(b)

	result, err := svc.Submit("biz-1", SubmitInput{
		CustomerName: "Alex Johnson",
		Answers:      []Answer{{FieldID: "rating-1", Number: 5}},
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if result.RedirectURL != "" {
		t.Fatalf("no review link configured, submission must not redirect")
	}
	if len(feedback.records) != 1 {
		t.Fatalf("feedback stored = %d, want 1", len(feedback.records))
	}
	if businesses.aggregateCalls != 0 {
		t.Fatalf("high rating must stay out of the aggregates")
	}
}

func TestSubmitPersistsLowRatingAndUpdatesAggregates(t *testing.T) {
	svc, businesses, customers, feedback := newTestService(testBusiness())

	result, err := svc.Submit("biz-1", SubmitInput{
		CustomerName: "David Smith",
		Answers: []Answer{
			{FieldID: "rating-1", Number: 2},
			{FieldID: "comment-1", Text: "cold food"},
		},
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	fb := result.Feedback
	if fb == nil {
		t.Fatalf("expected a persisted feedback record")
	}
	if fb.Rating != 2 || fb.Comment != "cold food" {
		t.Fatalf("derived (rating, comment) = (%d, %q), want (2, cold food)", fb.Rating, fb.Comment)
	}
	if want := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC); !fb.Date.Equal(want) {
		t.Fatalf("date = %v, want day-granular %v", fb.Date, want)
	}
	if customers.created != 1 {
		t.Fatalf("customers created = %d, want 1", customers.created)
	}
	if fb.CustomerID != customers.records[0].ID {
		t.Fatalf("feedback customer id = %q, want %q", fb.CustomerID, customers.records[0].ID)
	}
	if len(feedback.records) != 1 {
		t.Fatalf("feedback stored = %d, want 1", len(feedback.records))
	}
	if businesses.aggregateCalls != 1 {
		t.Fatalf("aggregate updates = %d, want 1", businesses.aggregateCalls)
	}
	if businesses.updatedReviews != 1 || businesses.updatedAvg != 2 {
		t.Fatalf("aggregates = (%v, %d), want (2, 1)", businesses.updatedAvg, businesses.updatedReviews)
	}
}

func TestSubmitPersistsHighRatingWithSubstantialComment(t *testing.T) {
	svc, businesses, _, feedback := newTestService(testBusiness())

	result, err := svc.Submit("biz-1", SubmitInput{
		CustomerName: "Fatima Al-Fassi",
		Answers: []Answer{
			{FieldID: "rating-1", Number: 5},
			{FieldID: "comment-1", Text: "Absolutely wonderful experience with great staff"},
		},
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if result.RedirectURL != "" {
		t.Fatalf("substantial comment must be persisted, not redirected")
	}
	if len(feedback.records) != 1 {
		t.Fatalf("feedback stored = %d, want 1", len(feedback.records))
	}
	if feedback.records[0].Rating != 5 {
		t.Fatalf("rating = %d, want 5", feedback.records[0].Rating)
	}
	if businesses.aggregateCalls != 0 {
		t.Fatalf("rating 5 must not touch the aggregates even when persisted")
	}
}

func TestSubmitMissingRequiredFieldNamesLabel(t *testing.T) {
	b := testBusiness()
	b.FormFields[1].IsOptional = false
	svc, businesses, customers, feedback := newTestService(b)

	_, err := svc.Submit("biz-1", SubmitInput{
		CustomerName: "Maria Garcia",
		Answers:      []Answer{{FieldID: "rating-1", Number: 3}},
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if ve.Label != "Tell us more" {
		t.Fatalf("validation label = %q, want the missing field's label", ve.Label)
	}
	if customers.created != 0 || len(feedback.records) != 0 || businesses.aggregateCalls != 0 {
		t.Fatalf("validation failure must happen before any side effect")
	}
}

func TestSubmitAppliesDefaultSchemaWhenNoneConfigured(t *testing.T) {
	b := testBusiness()
	b.FormFields = nil
	svc, _, _, feedback := newTestService(b)

	result, err := svc.Submit("biz-1", SubmitInput{
		CustomerName: "Chen Wei",
		Answers: []Answer{
			{FieldID: "rating-1", Number: 2},
			{FieldID: "comment-1", Text: "slow service today"},
		},
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if result.Feedback.Rating != 2 || result.Feedback.Comment != "slow service today" {
		t.Fatalf("default schema did not derive (rating, comment): got (%d, %q)",
			result.Feedback.Rating, result.Feedback.Comment)
	}

	// The default rating field is required.
	_, err = svc.Submit("biz-1", SubmitInput{
		CustomerName: "Chen Wei",
		Answers:      []Answer{{FieldID: "comment-1", Text: "no stars given"}},
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError for the default rating field", err)
	}
	if len(feedback.records) != 1 {
		t.Fatalf("feedback stored = %d, want 1", len(feedback.records))
	}
}

func TestSubmitReusesCustomerWithoutMerging(t *testing.T) {
	svc, _, customers, _ := newTestService(testBusiness())

	first, err := svc.ResolveOrCreateCustomer("biz-1", "Maria Garcia", "555-0101", "maria@example.com")
	if err != nil {
		t.Fatalf("first resolve returned error: %v", err)
	}
	second, err := svc.ResolveOrCreateCustomer("biz-1", "Maria Garcia", "555-9999", "other@example.com")
	if err != nil {
		t.Fatalf("second resolve returned error: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("customer ids differ: %q vs %q", first.ID, second.ID)
	}
	if customers.created != 1 {
		t.Fatalf("customers created = %d, want 1", customers.created)
	}
	if second.Phone != "555-0101" || second.Email != "maria@example.com" {
		t.Fatalf("existing record was merged: phone=%q email=%q", second.Phone, second.Email)
	}

	// Name matching is case-sensitive; a different casing is a new customer.
	if _, err := svc.ResolveOrCreateCustomer("biz-1", "maria garcia", "", ""); err != nil {
		t.Fatalf("case-variant resolve returned error: %v", err)
	}
	if customers.created != 2 {
		t.Fatalf("customers created = %d, want 2 (case-sensitive match)", customers.created)
	}
}

func TestSubmitAggregatesEqualArithmeticMean(t *testing.T) {
	ratings := []int{3, 1, 2, 2, 3, 1, 1, 3, 2}
	svc, businesses, _, _ := newTestService(testBusiness())

	sum := 0
	for i, r := range ratings {
		sum += r
		_, err := svc.Submit("biz-1", SubmitInput{
			CustomerName: fmt.Sprintf("Customer %d", i),
			Answers:      []Answer{{FieldID: "rating-1", Number: r}},
		})
		if err != nil {
			t.Fatalf("submission %d returned error: %v", i, err)
		}
	}

	if businesses.updatedReviews != int64(len(ratings)) {
		t.Fatalf("reviews = %d, want %d", businesses.updatedReviews, len(ratings))
	}
	want := float64(sum) / float64(len(ratings))
	if diff := businesses.updatedAvg - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("avg rating = %v, want %v", businesses.updatedAvg, want)
	}
}

func TestSubmitHonorsTenantThresholdOverrides(t *testing.T) {
	b := testBusiness()
	b.RedirectMinRating = 5
	b.MinSubstantialComment = 3
	svc, businesses, _, feedback := newTestService(b)

	// Rating 4 is below the raised threshold: persisted and counted.
	result, err := svc.Submit("biz-1", SubmitInput{
		CustomerName: "Alex Johnson",
		Answers:      []Answer{{FieldID: "rating-1", Number: 4}},
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if result.RedirectURL != "" {
		t.Fatalf("rating below the tenant threshold must not redirect")
	}
	if businesses.updatedReviews != 1 {
		t.Fatalf("reviews = %d, want 1", businesses.updatedReviews)
	}

	// A 4-char comment clears the lowered substantial-comment bar.
	result, err = svc.Submit("biz-1", SubmitInput{
		CustomerName: "Alex Johnson",
		Answers: []Answer{
			{FieldID: "rating-1", Number: 5},
			{FieldID: "comment-1", Text: "good"},
		},
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if result.RedirectURL != "" {
		t.Fatalf("comment above the tenant bar must be persisted")
	}
	if len(feedback.records) != 2 {
		t.Fatalf("feedback stored = %d, want 2", len(feedback.records))
	}
}

func TestSubmitUnknownBusiness(t *testing.T) {
	svc, _, _, _ := newTestService(testBusiness())

	_, err := svc.Submit("biz-unknown", SubmitInput{
		CustomerName: "Maria Garcia",
		Answers:      []Answer{{FieldID: "rating-1", Number: 3}},
	})
	if !errors.Is(err, ErrBusinessNotFound) {
		t.Fatalf("err = %v, want ErrBusinessNotFound", err)
	}
}

func TestSubmitWrapsPersistenceFailures(t *testing.T) {
	svc, _, _, feedback := newTestService(testBusiness())
	feedback.createErr = errors.New("connection reset")

	_, err := svc.Submit("biz-1", SubmitInput{
		CustomerName: "David Smith",
		Answers:      []Answer{{FieldID: "rating-1", Number: 2}},
	})
	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want PersistenceError", err)
	}
	if !errors.Is(err, feedback.createErr) {
		t.Fatalf("PersistenceError must wrap the backend error")
	}
}

func TestSubmitRejectsOutOfRangeRating(t *testing.T) {
	svc, _, _, _ := newTestService(testBusiness())

	_, err := svc.Submit("biz-1", SubmitInput{
		CustomerName: "Chen Wei",
		Answers:      []Answer{{FieldID: "rating-1", Number: 9}},
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError for an out-of-range rating", err)
	}
}

func TestSubmitZeroRatingPersistsWithoutAggregates(t *testing.T) {
	b := testBusiness()
	b.FormFields = []models.ReviewFormField{
		{ID: "comment-1", BusinessID: "biz-1", Position: 0, Type: domain.FieldTypeComment, Label: "Feedback"},
	}
	svc, businesses, _, feedback := newTestService(b)

	result, err := svc.Submit("biz-1", SubmitInput{
		CustomerName: "Maria Garcia",
		Answers:      []Answer{{FieldID: "comment-1", Text: "just a note, no stars involved"}},
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if result.Feedback.Rating != 0 {
		t.Fatalf("rating = %d, want 0 when the schema has no rating field", result.Feedback.Rating)
	}
	if len(feedback.records) != 1 {
		t.Fatalf("feedback stored = %d, want 1", len(feedback.records))
	}
	if businesses.aggregateCalls != 0 {
		t.Fatalf("rating 0 must not touch the aggregates")
	}
}
