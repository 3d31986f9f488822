package handler

import (
	"errors"
	"net/http"
	"strconv"

	"reviewroute/config"
	"reviewroute/internal/auth"
	"reviewroute/internal/domain"
	"reviewroute/internal/models"
	"reviewroute/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AdminHandler struct {
	cfg          *config.Config
	businessRepo *repository.BusinessRepository
}

func NewAdminHandler(cfg *config.Config, businessRepo *repository.BusinessRepository) *AdminHandler {
	return &AdminHandler{cfg: cfg, businessRepo: businessRepo}
}

// CreateBusiness registers a new tenant in pending status with the default
// form schema. The generated owner password is returned exactly once.
func (h *AdminHandler) CreateBusiness(c *gin.Context) {
	var req struct {
		BusinessName string `json:"business_name" binding:"required"`
		OwnerEmail   string `json:"owner_email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "business_name and owner_email are required"})
		return
	}

	password, err := auth.GeneratePassword(12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create business"})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create business"})
		return
	}

	// Default fields are persisted without ids so the hook assigns fresh ones.
	fields := models.DefaultFormFields("")
	for i := range fields {
		fields[i].ID = ""
	}

	b := &models.Business{
		ID:           uuid.NewString(),
		Name:         req.BusinessName,
		OwnerEmail:   req.OwnerEmail,
		PasswordHash: string(hash),
		Status:       domain.BusinessStatusPending,
		FormFields:   fields,
	}
	b.ReviewURL = h.cfg.Server.PublicBaseURL + "/review/" + b.ID

	if err := h.businessRepo.Create(b); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "could not create business (owner email may already exist)"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"business": b, "one_time_password": password})
}

func (h *AdminHandler) ListBusinesses(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.businessRepo.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"businesses": list})
}

// UpdateStatus approves or rejects a pending business.
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	switch req.Status {
	case domain.BusinessStatusApproved, domain.BusinessStatusPending, domain.BusinessStatusRejected:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
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
	if err := h.businessRepo.UpdateStatus(id, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

// AddCredits tops up a business's messaging credit balance.
func (h *AdminHandler) AddCredits(c *gin.Context) {
	var req struct {
		Credits int `json:"credits" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "credits must be a positive number"})
		return
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
	if err := h.businessRepo.AddCredits(id, req.Credits); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	b, _ := h.businessRepo.GetByID(id)
	c.JSON(http.StatusOK, gin.H{"business": b})
}
