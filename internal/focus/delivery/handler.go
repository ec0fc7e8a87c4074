package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"daystart-backend/internal/focus/usecase"

	"github.com/gin-gonic/gin"
)

// FocusHandler handles pomodoro cycle and session requests
type FocusHandler struct {
	focusUsecase usecase.FocusUsecase
}

// NewFocusHandler creates a new FocusHandler
func NewFocusHandler(focusUsecase usecase.FocusUsecase) *FocusHandler {
	return &FocusHandler{focusUsecase: focusUsecase}
}

// MoveRequest moves a task to a work slot
type MoveRequest struct {
	TaskID uint `json:"task_id" binding:"required"`
	Slot   *int `json:"slot" binding:"required"`
}

// SelectRequest jumps to a slot
type SelectRequest struct {
	Slot *int `json:"slot" binding:"required"`
}

// GetState returns the current cycle with its assignments
// GET /api/focus
func (h *FocusHandler) GetState(c *gin.Context) {
	state, err := h.focusUsecase.State()
	if err != nil {
		writeFocusError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// MoveTask reassigns a task to a single work slot
// POST /api/focus/assignments/move
func (h *FocusHandler) MoveTask(c *gin.Context) {
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.focusUsecase.MoveTask(req.TaskID, *req.Slot)
	if err != nil {
		writeFocusError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// SelectSlot jumps to a slot of the cycle
// POST /api/focus/select
func (h *FocusHandler) SelectSlot(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.focusUsecase.SelectSlot(*req.Slot)
	if err != nil {
		writeFocusError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// CompleteSlot finishes the current slot
// POST /api/focus/complete
func (h *FocusHandler) CompleteSlot(c *gin.Context) {
	result, err := h.focusUsecase.CompleteSlot()
	if err != nil {
		writeFocusError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateSession stores a raw pomodoro session
// POST /api/pomodoro/sessions
func (h *FocusHandler) CreateSession(c *gin.Context) {
	var req usecase.RecordSessionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.focusUsecase.RecordSession(req)
	if err != nil {
		writeFocusError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "session": session})
}

// ListSessions returns the latest sessions
// GET /api/pomodoro/sessions?limit=50
func (h *FocusHandler) ListSessions(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	sessions, err := h.focusUsecase.RecentSessions(limit)
	if err != nil {
		writeFocusError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func writeFocusError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidSlot),
		errors.Is(err, usecase.ErrSlotOutOfRange),
		errors.Is(err, usecase.ErrInvalidSessionType),
		errors.Is(err, usecase.ErrInvalidDuration):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrNotInWorkingArea):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
