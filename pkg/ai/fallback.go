package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
)

// ErrNoProvider is returned when no AI provider is configured.
var ErrNoProvider = errors.New("no AI provider available")

// FallbackService implements provider routing with fallback:
// Gemini first (better quality), Ollama when Gemini fails.
// When Ollama is unreachable after a transient Gemini error, Gemini gets one more try.
type FallbackService struct {
	gemini BriefingService
	ollama BriefingService
}

// NewFallbackService creates a new fallback service with both providers.
// Either may be nil.
func NewFallbackService(gemini, ollama BriefingService) *FallbackService {
	return &FallbackService{
		gemini: gemini,
		ollama: ollama,
	}
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	} {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
		"resource_exhausted",
	} {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// GenerateBriefing implements BriefingService
func (f *FallbackService) GenerateBriefing(ctx context.Context, req BriefingRequest) (*Briefing, error) {
	var geminiErr error
	if f.gemini != nil {
		log.Println("[AI] Trying Gemini for briefing...")
		result, err := f.gemini.GenerateBriefing(ctx, req)
		if err == nil {
			log.Println("[AI] Gemini briefing successful")
			return result, nil
		}
		geminiErr = err
		if isQuotaError(err) {
			log.Printf("[AI] Gemini quota exhausted: %v, falling back to Ollama", err)
		} else {
			log.Printf("[AI] Gemini error: %v, falling back to Ollama", err)
		}
	}

	if f.ollama != nil {
		log.Println("[AI] Using Ollama for briefing...")
		result, err := f.ollama.GenerateBriefing(ctx, req)
		if err == nil {
			log.Println("[AI] Ollama briefing successful")
			return result, nil
		}

		if isConnectionError(err) && geminiErr != nil && !isQuotaError(geminiErr) {
			log.Printf("[AI] Ollama unreachable: %v, retrying Gemini", err)
			return f.gemini.GenerateBriefing(ctx, req)
		}
		if geminiErr != nil {
			return nil, fmt.Errorf("all AI providers failed: gemini: %v; ollama: %w", geminiErr, err)
		}
		return nil, fmt.Errorf("ollama briefing failed: %w", err)
	}

	if geminiErr != nil {
		return nil, fmt.Errorf("gemini briefing failed: %w", geminiErr)
	}
	return nil, ErrNoProvider
}
