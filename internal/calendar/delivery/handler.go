package delivery

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"daystart-backend/internal/calendar/timeline"
	"daystart-backend/internal/calendar/usecase"
	"daystart-backend/pkg/icsfeed"

	"github.com/gin-gonic/gin"
)

// CalendarHandler handles timeline requests
type CalendarHandler struct {
	calendarUsecase usecase.CalendarUsecase
}

// NewCalendarHandler creates a new CalendarHandler
func NewCalendarHandler(calendarUsecase usecase.CalendarUsecase) *CalendarHandler {
	return &CalendarHandler{calendarUsecase: calendarUsecase}
}

// GetEvents returns the merged timeline
// GET /api/calendar/events?timeMin=...&timeMax=...
func (h *CalendarHandler) GetEvents(c *gin.Context) {
	window, ok := h.parseWindow(c)
	if !ok {
		return
	}

	events, err := h.calendarUsecase.Events(c.Request.Context(), window)
	if err != nil {
		writeCalendarError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetLayout returns the laid-out events per day
// GET /api/calendar/layout?date=2026-04-14&days=7
func (h *CalendarHandler) GetLayout(c *gin.Context) {
	loc := h.calendarUsecase.Location()

	day := h.calendarUsecase.Today().Min
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	days := 1
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})
			return
		}
		days = parsed
	}

	layouts, err := h.calendarUsecase.DayLayouts(c.Request.Context(), day, days)
	if err != nil {
		writeCalendarError(c, err)
		return
	}
	c.JSON(http.StatusOK, layouts)
}

// GetFeed exports the merged timeline as iCalendar
// GET /api/calendar/feed.ics?timeMin=...&timeMax=...
func (h *CalendarHandler) GetFeed(c *gin.Context) {
	window, ok := h.parseWindow(c)
	if !ok {
		return
	}

	events, err := h.calendarUsecase.Events(c.Request.Context(), window)
	if err != nil {
		writeCalendarError(c, err)
		return
	}

	body := icsfeed.Encode(events, "DayStart", h.calendarUsecase.Location(), time.Now())
	c.Header("Content-Disposition", `inline; filename="daystart.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

// parseWindow reads timeMin/timeMax, defaulting each bound to today.
func (h *CalendarHandler) parseWindow(c *gin.Context) (timeline.Window, bool) {
	window := h.calendarUsecase.Today()

	if raw := c.Query("timeMin"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "timeMin must be RFC 3339"})
			return window, false
		}
		window.Min = t
	}
	if raw := c.Query("timeMax"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "timeMax must be RFC 3339"})
			return window, false
		}
		window.Max = t
	}
	return window, true
}

func writeCalendarError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidWindow), errors.Is(err, usecase.ErrInvalidDays):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch calendar"})
	}
}
