package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vitaplan/health-app/internal/config"
	"vitaplan/health-app/internal/service"
)

// SetupRouter configures the Gin router with all application routes.
func SetupRouter(
	cfg config.Config,
	authService service.AuthService,
	profileService service.ProfileService,
	plannerService service.PlannerService,
	progressService service.ProgressService,
	lifecycleService service.LifecycleService,
	notificationService service.NotificationService,
) *gin.Engine {
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	authHandler := NewAuthHandler(authService)
	profileHandler := NewProfileHandler(profileService)
	planHandler := NewPlanHandler(plannerService, lifecycleService)
	progressHandler := NewProgressHandler(progressService)
	notificationHandler := NewNotificationHandler(notificationService)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	authed := v1.Group("")
	authed.Use(AuthMiddleware(cfg.JWT.Secret))
	{
		authed.GET("/auth/me", authHandler.Me)

		authed.PUT("/profile", profileHandler.Save)
		authed.GET("/profile", profileHandler.Get)

		plans := authed.Group("/plans")
		{
			plans.POST("/generate", planHandler.Generate)
			plans.GET("", planHandler.ByStatus)
			plans.DELETE("", planHandler.Delete)
			plans.GET("/active", planHandler.Active)
			plans.GET("/meal/:id/template", planHandler.MealTemplate)
			plans.GET("/workout/:id/exercises", planHandler.WorkoutExercises)
			plans.POST("/not-suitable", planHandler.MarkNotSuitable)
			plans.POST("/rebase", planHandler.Rebase)
			plans.GET("/feedback", planHandler.Feedback)
		}

		progress := authed.Group("/progress")
		{
			progress.POST("", progressHandler.Record)
			progress.PUT("", progressHandler.Update)
			progress.GET("", progressHandler.Overview)
			progress.GET("/day", progressHandler.Day)
			progress.GET("/range", progressHandler.Range)
			progress.GET("/completed-dates", progressHandler.CompletedDates)
			progress.GET("/plan-status", progressHandler.PlanProgress)
			progress.POST("/photo", progressHandler.UploadPhoto)
			progress.GET("/photo", progressHandler.PhotoURL)
		}

		notifications := authed.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.POST("/mark-read", notificationHandler.MarkAllRead)
		}
	}

	return router
}
