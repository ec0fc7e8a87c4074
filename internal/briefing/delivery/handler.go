package delivery

import (
	"errors"
	"log"
	"net/http"

	"daystart-backend/internal/briefing/usecase"
	taskusecase "daystart-backend/internal/task/usecase"
	"daystart-backend/pkg/ai"
	"daystart-backend/pkg/gemini"

	"github.com/gin-gonic/gin"
)

// BriefingHandler handles morning briefing HTTP requests
type BriefingHandler struct {
	briefingUsecase usecase.BriefingUsecase
}

// NewBriefingHandler creates a new BriefingHandler
func NewBriefingHandler(briefingUsecase usecase.BriefingUsecase) *BriefingHandler {
	return &BriefingHandler{briefingUsecase: briefingUsecase}
}

// AcceptRequest represents the request body for accepting a briefing entry
type AcceptRequest struct {
	Title    string   `json:"title" binding:"required"`
	Priority int      `json:"priority"`
	Steps    []string `json:"steps"`
}

// Generate returns the AI briefing of a day
// POST /api/briefing
func (h *BriefingHandler) Generate(c *gin.Context) {
	var req usecase.GenerateInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	briefing, err := h.briefingUsecase.Generate(c.Request.Context(), req)
	if err != nil {
		writeBriefingError(c, err)
		return
	}

	c.JSON(http.StatusOK, briefing)
}

// Accept adds a briefing entry to the task list
// POST /api/briefing/accept
func (h *BriefingHandler) Accept(c *gin.Context) {
	var req AcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.briefingUsecase.Accept(usecase.AcceptInput{
		Title:    req.Title,
		Priority: req.Priority,
		Steps:    req.Steps,
	})
	if err != nil {
		writeBriefingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "task": task})
}

func writeBriefingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidDate),
		errors.Is(err, usecase.ErrTitleRequired),
		errors.Is(err, taskusecase.ErrInvalidPriority),
		errors.Is(err, taskusecase.ErrTitleRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ai.ErrNoProvider), errors.Is(err, gemini.ErrMissingAPIKey):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No AI provider configured"})
	default:
		log.Printf("[Briefing] Request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate briefing"})
	}
}
