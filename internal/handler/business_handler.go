package handler

import (
	"errors"
	"net/http"

	"reviewroute/internal/domain"
	"reviewroute/internal/models"
	"reviewroute/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BusinessHandler exposes the dashboard settings surface: profile, branding,
// routing thresholds, and the review form schema.
type BusinessHandler struct {
	businessRepo *repository.BusinessRepository
}

func NewBusinessHandler(businessRepo *repository.BusinessRepository) *BusinessHandler {
	return &BusinessHandler{businessRepo: businessRepo}
}

func (h *BusinessHandler) Get(c *gin.Context) {
	b, err := h.businessRepo.GetByID(c.Param("businessId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "business not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"business": b})
}

// Update applies a partial settings edit. Only fields present in the request
// body change; aggregates, status, and credits are not editable here.
func (h *BusinessHandler) Update(c *gin.Context) {
	var req struct {
		Name                  *string                 `json:"name"`
		WelcomeMessage        *string                 `json:"welcome_message"`
		GoogleReviewLink      *string                 `json:"google_review_link"`
		LogoURL               *string                 `json:"logo_url"`
		Theme                 *models.ReviewPageTheme `json:"theme"`
		RedirectMinRating     *int                    `json:"redirect_min_rating"`
		MinSubstantialComment *int                    `json:"min_substantial_comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.RedirectMinRating != nil && (*req.RedirectMinRating < domain.RatingMin || *req.RedirectMinRating > domain.RatingMax) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "redirect_min_rating must be between 1 and 5"})
		return
	}
	if req.MinSubstantialComment != nil && *req.MinSubstantialComment < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min_substantial_comment must not be negative"})
		return
	}

	b, err := h.businessRepo.GetByID(c.Param("businessId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "business not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}

	if req.Name != nil {
		b.Name = *req.Name
	}
	if req.WelcomeMessage != nil {
		b.WelcomeMessage = *req.WelcomeMessage
	}
	if req.GoogleReviewLink != nil {
		b.GoogleReviewLink = *req.GoogleReviewLink
	}
	if req.LogoURL != nil {
		b.LogoURL = *req.LogoURL
	}
	if req.Theme != nil {
		b.Theme = *req.Theme
	}
	if req.RedirectMinRating != nil {
		b.RedirectMinRating = *req.RedirectMinRating
	}
	if req.MinSubstantialComment != nil {
		b.MinSubstantialComment = *req.MinSubstantialComment
	}

	if err := h.businessRepo.Update(b); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"business": b})
}

// ReplaceFormFields swaps the review form schema. Field order in the request
// becomes the rendered order.
func (h *BusinessHandler) ReplaceFormFields(c *gin.Context) {
	var req struct {
		Fields []struct {
			Type       string `json:"type" binding:"required"`
			Label      string `json:"label" binding:"required"`
			IsOptional bool   `json:"is_optional"`
		} `json:"fields"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fields are required"})
		return
	}
	fields := make([]models.ReviewFormField, 0, len(req.Fields))
	for _, f := range req.Fields {
		if f.Type != domain.FieldTypeRating && f.Type != domain.FieldTypeComment {
			c.JSON(http.StatusBadRequest, gin.H{"error": "field type must be rating or comment"})
			return
		}
		fields = append(fields, models.ReviewFormField{
			Type:       f.Type,
			Label:      f.Label,
			IsOptional: f.IsOptional,
		})
	}

	id := c.Param("businessId")
	if _, err := h.businessRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "business not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if err := h.businessRepo.ReplaceFormFields(id, fields); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	b, _ := h.businessRepo.GetByID(id)
	c.JSON(http.StatusOK, gin.H{"review_form_fields": b.SchemaOrDefault()})
}
