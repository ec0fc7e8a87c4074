package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	// OAuth redirect target registered with Google
	r.GET("/auth/callback", h.connectionHandler.Callback)

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Google account connections
		auth := api.Group("/auth")
		{
			auth.GET("/google/url", h.connectionHandler.GetAuthURL)
			auth.GET("/status", h.connectionHandler.GetStatus)
			auth.GET("/connections", h.connectionHandler.ListConnections)
			auth.DELETE("/connections/:email", h.connectionHandler.DeleteConnection)
			auth.POST("/logout", h.connectionHandler.Logout)
		}

		tasks := api.Group("/tasks")
		{
			tasks.GET("", h.taskHandler.GetTasks)
			tasks.POST("", h.taskHandler.CreateTask)
			tasks.GET("/:id", h.taskHandler.GetTaskByID)
			tasks.PATCH("/:id", h.taskHandler.UpdateTask)
			tasks.DELETE("/:id", h.taskHandler.DeleteTask)
		}

		calendar := api.Group("/calendar")
		{
			calendar.GET("/events", h.calendarHandler.GetEvents)
			calendar.GET("/layout", h.calendarHandler.GetLayout)
			calendar.GET("/feed.ics", h.calendarHandler.GetFeed)
		}

		focus := api.Group("/focus")
		{
			focus.GET("", h.focusHandler.GetState)
			focus.POST("/assignments/move", h.focusHandler.MoveTask)
			focus.POST("/select", h.focusHandler.SelectSlot)
			focus.POST("/complete", h.focusHandler.CompleteSlot)
		}

		pomodoro := api.Group("/pomodoro")
		{
			pomodoro.POST("/sessions", h.focusHandler.CreateSession)
			pomodoro.GET("/sessions", h.focusHandler.ListSessions)
		}

		briefing := api.Group("/briefing")
		{
			briefing.POST("", h.briefingHandler.Generate)
			briefing.POST("/accept", h.briefingHandler.Accept)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", h.notificationHandler.List)
			notifications.GET("/stream", h.notificationHandler.Stream)
			notifications.DELETE("/:id", h.notificationHandler.Dismiss)
			notifications.POST("/devices", h.notificationHandler.RegisterDevice)
			notifications.DELETE("/devices/:token", h.notificationHandler.UnregisterDevice)
		}

		// Runtime configuration
		settings := api.Group("/settings")
		{
			settings.GET("/ai", h.settingsHandler.GetAISettings)
			settings.PUT("/ai", h.settingsHandler.UpdateAISettings)
			settings.POST("/ai/test", h.settingsHandler.TestAIConnection)
		}
	}
}
