package handler

import (
	"net/http"
	"strconv"

	"reviewroute/internal/repository"

	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
	feedbackRepo *repository.FeedbackRepository
}

func NewFeedbackHandler(feedbackRepo *repository.FeedbackRepository) *FeedbackHandler {
	return &FeedbackHandler{feedbackRepo: feedbackRepo}
}

// List returns the business's persisted feedback with the customer's display
// name attached, newest first.
func (h *FeedbackHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.feedbackRepo.ListByBusinessID(c.Param("businessId"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	out := make([]gin.H, len(list))
	for i, f := range list {
		name := f.Customer.Name
		if name == "" {
			name = "Anonymous"
		}
		out[i] = gin.H{
			"id":            f.ID,
			"rating":        f.Rating,
			"comment":       f.Comment,
			"date":          f.Date.Format("2006-01-02"),
			"customer_name": name,
			"values":        f.Values,
		}
	}
	c.JSON(http.StatusOK, gin.H{"feedback": out})
}
