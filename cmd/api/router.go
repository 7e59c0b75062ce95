package api

import (
	"net/http"

	"voice-journal/internal/auth/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		protected := api.Group("")
		protected.Use(delivery.AuthMiddleware(h.authUsecase))

		// Task and reminder routes
		tasks := protected.Group("/tasks")
		{
			tasks.GET("", h.taskHandler.GetTasks)
			tasks.POST("", h.taskHandler.CreateTask)
			tasks.POST("/reminders", h.taskHandler.CreateReminder)
			tasks.GET("/:id", h.taskHandler.GetTaskByID)
			tasks.PATCH("/:id/status", h.taskHandler.UpdateTaskStatus)
		}
		protected.POST("/reminders/scan", h.taskHandler.ScanReminders)

		// Push device routes
		devices := protected.Group("/devices")
		{
			devices.POST("", h.deviceHandler.RegisterDevice)
			devices.DELETE("", h.deviceHandler.UnregisterDevice)
		}

		// Journal routes
		journal := protected.Group("/journal")
		{
			journal.GET("", h.journalHandler.GetEntries)
			journal.POST("", h.journalHandler.AddEntry)
			journal.GET("/search", h.journalHandler.SearchEntries)
			journal.GET("/categories", h.journalHandler.GetCategories)
			journal.GET("/stats", h.journalHandler.GetStats)
			journal.DELETE("/:id", h.journalHandler.DeleteEntry)
		}

		// Bot settings routes
		settings := protected.Group("/settings")
		{
			settings.GET("", h.settingsHandler.GetSettings)
			settings.PATCH("", h.settingsHandler.UpdateSettings)
		}
	}
}
