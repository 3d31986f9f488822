package router

import (
	"time"

	"reviewroute/config"
	"reviewroute/internal/domain"
	"reviewroute/internal/handler"
	"reviewroute/internal/middleware"
	"reviewroute/internal/repository"
	"reviewroute/internal/service"
	"reviewroute/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// Repositories
	businessRepo := repository.NewBusinessRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Services
	feedbackSvc := service.NewFeedbackService(businessRepo, customerRepo, feedbackRepo)
	analyticsSvc := service.NewAnalyticsService(feedbackRepo)
	mailer := service.NewSMTPMailer(&cfg.SMTP)
	messagingSvc := service.NewMessagingService(businessRepo, customerRepo, messageRepo, mailer)

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, businessRepo)
	reviewHandler := handler.NewReviewHandler(businessRepo, feedbackSvc)
	adminHandler := handler.NewAdminHandler(cfg, businessRepo)
	businessHandler := handler.NewBusinessHandler(businessRepo)
	customerHandler := handler.NewCustomerHandler(customerRepo)
	feedbackHandler := handler.NewFeedbackHandler(feedbackRepo)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	messagingHandler := handler.NewMessagingHandler(messagingSvc, messageRepo)
	uploadHandler := handler.NewUploadHandler(cloud, businessRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)
	scopeMw := middleware.BusinessScope()
	reviewLimit := middleware.RateLimit(middleware.NewInMemoryRateLimiter(30, time.Minute))

	api := r.Group("/api/v1")
	{
		api.POST("/auth/login", authHandler.Login)

		// Public review wizard, rate limited by client IP.
		review := api.Group("/review", reviewLimit)
		{
			review.GET("/:businessId", reviewHandler.GetPage)
			review.POST("/:businessId/customer", reviewHandler.SubmitCustomer)
			review.POST("/:businessId/feedback", reviewHandler.SubmitFeedback)
		}

		// Company dashboard, scoped to the business in the path.
		dashboard := api.Group("/businesses/:businessId", authMw, scopeMw)
		{
			dashboard.GET("", businessHandler.Get)
			dashboard.PATCH("", businessHandler.Update)
			dashboard.PUT("/form-fields", businessHandler.ReplaceFormFields)
			dashboard.POST("/logo", uploadHandler.UploadLogo)
			dashboard.GET("/feedback", feedbackHandler.List)
			dashboard.GET("/customers", customerHandler.List)
			dashboard.GET("/analytics/trends", analyticsHandler.Trends)
			dashboard.GET("/analytics/heatmap", analyticsHandler.Heatmap)
			dashboard.POST("/messages", messagingHandler.Send)
			dashboard.GET("/messages", messagingHandler.History)
		}

		// Platform admin
		admin := api.Group("/admin", authMw, middleware.RequireRole(domain.RoleAdmin))
		{
			admin.POST("/businesses", adminHandler.CreateBusiness)
			admin.GET("/businesses", adminHandler.ListBusinesses)
			admin.PATCH("/businesses/:businessId/status", adminHandler.UpdateStatus)
			admin.POST("/businesses/:businessId/credits", adminHandler.AddCredits)
		}
	}

	return r
}
