package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	authDelivery "daystart-backend/internal/auth/delivery"
	authUsecase "daystart-backend/internal/auth/usecase"
	briefingDelivery "daystart-backend/internal/briefing/delivery"
	briefingUsecase "daystart-backend/internal/briefing/usecase"
	calendarDelivery "daystart-backend/internal/calendar/delivery"
	calendarUsecase "daystart-backend/internal/calendar/usecase"
	focusDelivery "daystart-backend/internal/focus/delivery"
	focusUsecase "daystart-backend/internal/focus/usecase"
	"daystart-backend/internal/notification"
	notificationDelivery "daystart-backend/internal/notification/delivery"
	taskDelivery "daystart-backend/internal/task/delivery"
	taskUsecase "daystart-backend/internal/task/usecase"
	"daystart-backend/pkg/config"
	"daystart-backend/pkg/sse"

	"github.com/gin-gonic/gin"
)

// Usecases bundles the feature usecases served over HTTP.
type Usecases struct {
	Tasks       taskUsecase.TaskUsecase
	Connections authUsecase.ConnectionUsecase
	Calendar    calendarUsecase.CalendarUsecase
	Focus       focusUsecase.FocusUsecase
	Briefing    briefingUsecase.BriefingUsecase
}

type Handler struct {
	config              *config.Config
	taskHandler         *taskDelivery.TaskHandler
	connectionHandler   *authDelivery.ConnectionHandler
	calendarHandler     *calendarDelivery.CalendarHandler
	focusHandler        *focusDelivery.FocusHandler
	briefingHandler     *briefingDelivery.BriefingHandler
	notificationHandler *notificationDelivery.NotificationHandler
	settingsHandler     *SettingsHandler
}

func NewHandler(cfg *config.Config, uc Usecases, notifications *notification.Service, sseManager *sse.Manager, settingsHandler *SettingsHandler) *Handler {
	return &Handler{
		config:              cfg,
		taskHandler:         taskDelivery.NewTaskHandler(uc.Tasks),
		connectionHandler:   authDelivery.NewConnectionHandler(uc.Connections),
		calendarHandler:     calendarDelivery.NewCalendarHandler(uc.Calendar),
		focusHandler:        focusDelivery.NewFocusHandler(uc.Focus),
		briefingHandler:     briefingDelivery.NewBriefingHandler(uc.Briefing),
		notificationHandler: notificationDelivery.NewNotificationHandler(notifications, sseManager),
		settingsHandler:     settingsHandler,
	}
}

// Engine builds the gin engine with middleware, API routes and the SPA fallback.
func (h *Handler) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), corsMiddleware())

	SetupRoutes(r, h)

	staticDir := ""
	if h.config != nil {
		staticDir = h.config.StaticDir
	}
	r.NoRoute(spaFallback(staticDir))
	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// spaFallback serves files from dir and index.html for unknown client routes.
// Unknown /api paths stay JSON 404s.
func spaFallback(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqPath := c.Request.URL.Path
		if strings.HasPrefix(reqPath, "/api/") || dir == "" || c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		file := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+reqPath)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}

		index := filepath.Join(dir, "index.html")
		if _, err := os.Stat(index); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File(index)
	}
}
