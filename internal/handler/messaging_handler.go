package handler

import (
	"errors"
	"net/http"
	"strconv"

	"reviewroute/internal/repository"
	"reviewroute/internal/service"

	"github.com/gin-gonic/gin"
)

type MessagingHandler struct {
	messagingSvc *service.MessagingService
	messageRepo  *repository.MessageRepository
}

func NewMessagingHandler(messagingSvc *service.MessagingService, messageRepo *repository.MessageRepository) *MessagingHandler {
	return &MessagingHandler{messagingSvc: messagingSvc, messageRepo: messageRepo}
}

// Send delivers a message to the selected customers, one credit per recipient.
func (h *MessagingHandler) Send(c *gin.Context) {
	var req struct {
		Subject     string   `json:"subject" binding:"required"`
		Body        string   `json:"body" binding:"required"`
		CustomerIDs []string `json:"customer_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject, body and customer_ids are required"})
		return
	}
	report, err := h.messagingSvc.Send(c.Param("businessId"), req.Subject, req.Body, req.CustomerIDs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBusinessNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "business not found"})
		case errors.Is(err, service.ErrNoRecipients):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no selected customer has an email address"})
		case errors.Is(err, service.ErrInsufficientCredits):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "not enough credits"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "could not send messages"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// History lists past sends, newest first.
func (h *MessagingHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.messageRepo.ListByBusinessID(c.Param("businessId"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": list})
}
