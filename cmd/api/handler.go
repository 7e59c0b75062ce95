package api

import (
	authDelivery "voice-journal/internal/auth/delivery"
	authUsecase "voice-journal/internal/auth/usecase"
	journalDelivery "voice-journal/internal/journal/delivery"
	journalUsecase "voice-journal/internal/journal/usecase"
	taskDelivery "voice-journal/internal/task/delivery"
	taskUsecase "voice-journal/internal/task/usecase"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase     authUsecase.AuthUsecase
	taskHandler     *taskDelivery.TaskHandler
	journalHandler  *journalDelivery.JournalHandler
	deviceHandler   *authDelivery.DeviceHandler
	settingsHandler *SettingsHandler
}

func NewHandler(authUc authUsecase.AuthUsecase, taskUc taskUsecase.TaskUsecase, journalUc journalUsecase.JournalUsecase, runner taskDelivery.ReminderRunner, settings *SettingsStore) *Handler {
	return &Handler{
		authUsecase:     authUc,
		taskHandler:     taskDelivery.NewTaskHandler(taskUc, runner),
		journalHandler:  journalDelivery.NewJournalHandler(journalUc),
		deviceHandler:   authDelivery.NewDeviceHandler(authUc),
		settingsHandler: NewSettingsHandler(settings),
	}
}

// Router builds the gin engine with middleware and routes
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h)
	return r
}
