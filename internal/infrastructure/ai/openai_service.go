package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/ports"
)

var _ ports.LLMService = (*OpenAIService)(nil)

const (
	openAIMaxOutputTokens = 300
	openAITemperature     = 0.7
)

// OpenAIService adaptador de LLMService sobre la Responses API de OpenAI.
type OpenAIService struct {
	client *openai.Client
	model  string
	ready  bool
}

// NewOpenAIService construye el adaptador. opts permite cambiar base URL o reintentos.
func NewOpenAIService(apiKey, model string, opts ...option.RequestOption) *OpenAIService {
	if model == "" {
		model = "gpt-4o-mini"
	}
	all := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := openai.NewClient(all...)
	return &OpenAIService{client: &client, model: model, ready: apiKey != ""}
}

// Complete envía instrucciones + prompt y devuelve el texto de salida.
func (s *OpenAIService) Complete(ctx context.Context, system, prompt string) (string, error) {
	if !s.ready {
		return "", fmt.Errorf("AI: OPENAI_API_KEY no configurado")
	}

	params := responses.ResponseNewParams{
		Model:           shared.ResponsesModel(s.model),
		Instructions:    openai.String(system),
		MaxOutputTokens: openai.Int(openAIMaxOutputTokens),
		Temperature:     openai.Float(openAITemperature),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(prompt),
		},
	}

	resp, err := s.client.Responses.New(ctx, params)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: openai responses error: %w", err)
	}

	text := strings.TrimSpace(resp.OutputText())
	if text == "" {
		return "", fmt.Errorf("AI: OpenAI devolvió respuesta vacía")
	}
	return text, nil
}
