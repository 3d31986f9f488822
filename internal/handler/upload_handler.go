package handler

import (
	"net/http"
	"strings"

	"reviewroute/internal/repository"
	"reviewroute/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UploadHandler struct {
	cloud        cloudinary.Client
	businessRepo *repository.BusinessRepository
}

func NewUploadHandler(cloud cloudinary.Client, businessRepo *repository.BusinessRepository) *UploadHandler {
	return &UploadHandler{cloud: cloud, businessRepo: businessRepo}
}

// UploadLogo stores a business logo and saves its URL on the business record.
func (h *UploadHandler) UploadLogo(c *gin.Context) {
	businessID := c.Param("businessId")
	b, err := h.businessRepo.GetByID(businessID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "business not found"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	folder := "ReviewRoute/logos/" + businessID
	publicID := "logo_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	url, _, err := h.cloud.UploadImage(c.Request.Context(), f, folder, publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	b.LogoURL = url
	if err := h.businessRepo.Update(b); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save logo"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logo_url": url})
}
