package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"reviewroute/internal/repository"
	"reviewroute/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ReviewHandler serves the public review wizard: page data, the customer
// details step, and the feedback submit step.
type ReviewHandler struct {
	businessRepo *repository.BusinessRepository
	feedbackSvc  *service.FeedbackService
}

func NewReviewHandler(businessRepo *repository.BusinessRepository, feedbackSvc *service.FeedbackService) *ReviewHandler {
	return &ReviewHandler{businessRepo: businessRepo, feedbackSvc: feedbackSvc}
}

// GetPage returns the branding and form schema the review page renders.
func (h *ReviewHandler) GetPage(c *gin.Context) {
	b, err := h.businessRepo.GetByID(c.Param("businessId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "business not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not load review page"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":                 b.ID,
		"name":               b.Name,
		"logo_url":           b.LogoURL,
		"welcome_message":    b.WelcomeMessage,
		"theme":              b.Theme,
		"review_form_fields": b.SchemaOrDefault(),
	})
}

// SubmitCustomer is wizard step 1: resolve or create the customer record.
func (h *ReviewHandler) SubmitCustomer(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Phone string `json:"phone"`
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	customer, err := h.feedbackSvc.ResolveOrCreateCustomer(c.Param("businessId"), req.Name, req.Phone, req.Email)
	if err != nil {
		respondFeedbackError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

type submittedValue struct {
	FieldID string          `json:"field_id" binding:"required"`
	Value   json.RawMessage `json:"value"`
}

// SubmitFeedback is wizard step 2. The response is either a redirect target
// (nothing persisted) or the created feedback record.
func (h *ReviewHandler) SubmitFeedback(c *gin.Context) {
	var req struct {
		CustomerName string           `json:"customer_name" binding:"required"`
		Values       []submittedValue `json:"values" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer_name and values are required"})
		return
	}

	in := service.SubmitInput{CustomerName: req.CustomerName}
	for _, v := range req.Values {
		in.Answers = append(in.Answers, parseAnswer(v))
	}

	result, err := h.feedbackSvc.Submit(c.Param("businessId"), in)
	if err != nil {
		respondFeedbackError(c, err)
		return
	}
	if result.RedirectURL != "" {
		c.JSON(http.StatusOK, gin.H{"redirect_url": result.RedirectURL})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"feedback": result.Feedback})
}

// parseAnswer accepts a JSON number (rating) or string (comment) value; the
// schema decides which side is read downstream.
func parseAnswer(v submittedValue) service.Answer {
	var n float64
	if err := json.Unmarshal(v.Value, &n); err == nil {
		return service.Answer{FieldID: v.FieldID, Number: int(n)}
	}
	var s string
	if err := json.Unmarshal(v.Value, &s); err == nil {
		return service.Answer{FieldID: v.FieldID, Text: s}
	}
	return service.Answer{FieldID: v.FieldID}
}

// respondFeedbackError maps the service error taxonomy onto HTTP statuses.
func respondFeedbackError(c *gin.Context, err error) {
	var ve *service.ValidationError
	var pe *service.PersistenceError
	switch {
	case errors.Is(err, service.ErrBusinessNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "business not found"})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field_label": ve.Label})
	case errors.As(err, &pe):
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not submit your feedback, please try again"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
	}
}
