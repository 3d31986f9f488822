package handler

import (
	"crypto/subtle"
	"net/http"

	"reviewroute/config"
	"reviewroute/internal/auth"
	"reviewroute/internal/domain"
	"reviewroute/internal/repository"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	cfg          *config.Config
	businessRepo *repository.BusinessRepository
}

func NewAuthHandler(cfg *config.Config, businessRepo *repository.BusinessRepository) *AuthHandler {
	return &AuthHandler{cfg: cfg, businessRepo: businessRepo}
}

// Login authenticates the platform admin (configured credentials) or a
// business owner (owner_email + the password issued at creation).
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	if req.Email == h.cfg.Admin.Email {
		if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.Admin.Password)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		token, err := auth.GenerateToken(&h.cfg.JWT, "", req.Email, domain.RoleAdmin)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "role": domain.RoleAdmin})
		return
	}

	b, err := h.businessRepo.GetByOwnerEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(b.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	if !b.IsApproved() {
		c.JSON(http.StatusForbidden, gin.H{"error": "business is not approved yet"})
		return
	}
	token, err := auth.GenerateToken(&h.cfg.JWT, b.ID, b.OwnerEmail, domain.RoleOwner)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "role": domain.RoleOwner, "business_id": b.ID})
}
