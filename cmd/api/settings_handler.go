package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"daystart-backend/pkg/ai"
	"daystart-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

// RuntimeConfig holds the runtime-configurable AI settings
type RuntimeConfig struct {
	Provider      ai.ProviderType `json:"provider"`
	GeminiModel   string          `json:"gemini_model"`
	OllamaBaseURL string          `json:"ollama_base_url"`
	OllamaModel   string          `json:"ollama_model"`
}

// RuntimeSettings guards the current RuntimeConfig. Its getters feed the AI
// providers so updates apply on the next request.
type RuntimeSettings struct {
	mu  sync.RWMutex
	cfg RuntimeConfig
}

// NewRuntimeSettings initializes runtime settings from static config
func NewRuntimeSettings(cfg *config.Config) *RuntimeSettings {
	return &RuntimeSettings{cfg: RuntimeConfig{
		Provider:      ai.ParseProvider(cfg.AIProvider),
		GeminiModel:   cfg.GeminiModel,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	}}
}

// Snapshot returns a copy of the current settings
func (s *RuntimeSettings) Snapshot() RuntimeConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *RuntimeSettings) Provider() ai.ProviderType { return s.Snapshot().Provider }
func (s *RuntimeSettings) GeminiModel() string       { return s.Snapshot().GeminiModel }
func (s *RuntimeSettings) OllamaBaseURL() string     { return s.Snapshot().OllamaBaseURL }
func (s *RuntimeSettings) OllamaModel() string       { return s.Snapshot().OllamaModel }

// UpdateAISettingsRequest represents the request body for updating AI settings.
// Empty fields keep their current value.
type UpdateAISettingsRequest struct {
	Provider      string `json:"provider"`
	GeminiModel   string `json:"gemini_model"`
	OllamaBaseURL string `json:"ollama_base_url"`
	OllamaModel   string `json:"ollama_model"`
}

// Apply merges req into the settings and returns the result
func (s *RuntimeSettings) Apply(req UpdateAISettingsRequest) RuntimeConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Provider != "" {
		s.cfg.Provider = ai.ParseProvider(req.Provider)
	}
	if req.GeminiModel != "" {
		s.cfg.GeminiModel = req.GeminiModel
	}
	if req.OllamaBaseURL != "" {
		s.cfg.OllamaBaseURL = req.OllamaBaseURL
	}
	if req.OllamaModel != "" {
		s.cfg.OllamaModel = req.OllamaModel
	}
	return s.cfg
}

// OllamaPinger checks an Ollama server.
type OllamaPinger interface {
	Ping(ctx context.Context, baseURL string) error
}

// SettingsHandler serves the runtime AI settings
type SettingsHandler struct {
	settings      *RuntimeSettings
	ollama        OllamaPinger
	geminiEnabled bool
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settings *RuntimeSettings, ollama OllamaPinger, geminiEnabled bool) *SettingsHandler {
	return &SettingsHandler{settings: settings, ollama: ollama, geminiEnabled: geminiEnabled}
}

// GetAISettings returns current AI configuration
// GET /api/settings/ai
func (h *SettingsHandler) GetAISettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"settings":          h.settings.Snapshot(),
		"gemini_configured": h.geminiEnabled,
	})
}

// UpdateAISettings updates AI configuration at runtime
// PUT /api/settings/ai
func (h *SettingsHandler) UpdateAISettings(c *gin.Context) {
	var req UpdateAISettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Provider != "" && ai.ParseProvider(req.Provider) != ai.ProviderType(req.Provider) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider must be gemini, ollama or auto"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "AI settings updated successfully",
		"settings": h.settings.Apply(req),
	})
}

// TestAIConnection tests if the Ollama server is reachable
// POST /api/settings/ai/test
func (h *SettingsHandler) TestAIConnection(c *gin.Context) {
	var req struct {
		OllamaBaseURL string `json:"ollama_base_url"`
	}
	// No body means the current settings are tested.
	_ = c.ShouldBindJSON(&req)
	if req.OllamaBaseURL == "" {
		req.OllamaBaseURL = h.settings.OllamaBaseURL()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.ollama.Ping(ctx, req.OllamaBaseURL); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"connected":         false,
			"error":             err.Error(),
			"gemini_configured": h.geminiEnabled,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connected":         true,
		"ollama_base_url":   req.OllamaBaseURL,
		"gemini_configured": h.geminiEnabled,
	})
}
