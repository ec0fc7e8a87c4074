package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/google/generative-ai-go/genai"

	"daystart-backend/pkg/gemini"
)

// JSONGenerator produces schema-constrained JSON text.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
}

// GeminiService implements BriefingService on top of a JSON generator.
type GeminiService struct {
	generator JSONGenerator
}

// NewGeminiService wraps a Gemini JSON generator.
func NewGeminiService(generator JSONGenerator) *GeminiService {
	return &GeminiService{generator: generator}
}

// GenerateBriefing implements BriefingService
func (g *GeminiService) GenerateBriefing(ctx context.Context, req BriefingRequest) (*Briefing, error) {
	text, err := g.generator.GenerateJSON(ctx, BuildPrompt(req), gemini.BriefingSchema())
	if err != nil {
		return nil, err
	}
	return ParseBriefing(text)
}

// Config holds AI provider configuration. The getters are read on every
// call, so runtime settings changes apply without a restart.
type Config struct {
	GetProvider func() ProviderType

	// Gemini config
	GeminiAPIKey string
	GetGeminiModel func() string

	// Ollama config
	GetOllamaBaseURL func() string
	GetOllamaModel   func() string
}

// Router dispatches each briefing to the provider selected at call time.
type Router struct {
	gemini      BriefingService
	ollama      *OllamaService
	getProvider func() ProviderType
}

// NewBriefingService creates the provider router described by cfg.
// This is the factory function - switch AI provider by changing the provider setting.
func NewBriefingService(ctx context.Context, cfg Config) *Router {
	r := &Router{
		ollama:      NewOllamaServiceWithGetters(cfg.GetOllamaBaseURL, cfg.GetOllamaModel),
		getProvider: cfg.GetProvider,
	}
	if r.getProvider == nil {
		r.getProvider = func() ProviderType { return ProviderAuto }
	}

	if cfg.GeminiAPIKey != "" {
		svc, err := gemini.NewService(ctx, cfg.GeminiAPIKey, cfg.GetGeminiModel)
		if err != nil {
			log.Printf("[AI] Gemini unavailable: %v", err)
		} else {
			r.gemini = NewGeminiService(svc)
		}
	}
	return r
}

// NewRouter assembles a router from existing providers. gemini may be nil.
func NewRouter(gemini BriefingService, ollama *OllamaService, getProvider func() ProviderType) *Router {
	return &Router{gemini: gemini, ollama: ollama, getProvider: getProvider}
}

// HasGemini reports whether a Gemini client is configured.
func (r *Router) HasGemini() bool {
	return r.gemini != nil
}

// Ollama returns the Ollama client, used for connectivity checks.
func (r *Router) Ollama() *OllamaService {
	return r.ollama
}

// GenerateBriefing implements BriefingService
func (r *Router) GenerateBriefing(ctx context.Context, req BriefingRequest) (*Briefing, error) {
	switch r.getProvider() {
	case ProviderGemini:
		if r.gemini == nil {
			return nil, fmt.Errorf("gemini provider selected: %w", gemini.ErrMissingAPIKey)
		}
		return r.gemini.GenerateBriefing(ctx, req)
	case ProviderOllama:
		return r.ollama.GenerateBriefing(ctx, req)
	default:
		var ollama BriefingService
		if r.ollama != nil {
			ollama = r.ollama
		}
		return NewFallbackService(r.gemini, ollama).GenerateBriefing(ctx, req)
	}
}
