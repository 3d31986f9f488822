package handler

import (
	"net/http"
	"strconv"

	"reviewroute/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsSvc *service.AnalyticsService
}

func NewAnalyticsHandler(analyticsSvc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

// Trends returns the per-day average rating and submission count.
func (h *AnalyticsHandler) Trends(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	points, err := h.analyticsSvc.Trends(c.Param("businessId"), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load trends"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trends": points})
}

// Heatmap returns a 7x24 grid of submission counts by weekday and hour.
func (h *AnalyticsHandler) Heatmap(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "90"))
	grid, err := h.analyticsSvc.Heatmap(c.Param("businessId"), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load heatmap"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"heatmap": grid})
}
