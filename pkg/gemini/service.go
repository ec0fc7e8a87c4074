package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-2.5-flash"

var (
	ErrMissingAPIKey = errors.New("GEMINI_API_KEY is required for Gemini provider")
	ErrEmptyResponse = errors.New("gemini returned no content")
)

// Service is a thin wrapper around the Gemini SDK that asks for JSON answers.
type Service struct {
	client   *genai.Client
	getModel func() string
}

// NewService creates a Gemini client. getModel is consulted on every call so
// the model can be switched at runtime; nil uses DefaultModel.
func NewService(ctx context.Context, apiKey string, getModel func() string, opts ...option.ClientOption) (*Service, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if getModel == nil {
		getModel = func() string { return DefaultModel }
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Service{client: client, getModel: getModel}, nil
}

// Close releases the underlying connection.
func (s *Service) Close() error {
	return s.client.Close()
}

// GenerateJSON sends prompt and returns the raw JSON text constrained by schema.
func (s *Service) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	name := s.getModel()
	if name == "" {
		name = DefaultModel
	}

	model := s.client.GenerativeModel(name)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = schema
	model.SetTemperature(0.4)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}

// BriefingSchema describes the morning briefing object.
func BriefingSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary":       {Type: genai.TypeString},
			"encouragement": {Type: genai.TypeString},
			"tasksWithSteps": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"taskId":      {Type: genai.TypeInteger, Nullable: true},
						"title":       {Type: genai.TypeString},
						"priority":    {Type: genai.TypeInteger},
						"isSuggested": {Type: genai.TypeBoolean},
						"steps": {
							Type:  genai.TypeArray,
							Items: &genai.Schema{Type: genai.TypeString},
						},
					},
					Required: []string{"title", "steps", "priority", "isSuggested"},
				},
			},
		},
		Required: []string{"summary", "encouragement", "tasksWithSteps"},
	}
}
