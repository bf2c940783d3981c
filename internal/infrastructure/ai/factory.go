package ai

import (
	"fmt"
	"strings"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/application/ports"
	"github.com/andyspruebas-jpg/Stock-Pro/pkg/config"
)

// NewLLMService elige el proveedor configurado. Devuelve nil, nil si el
// proveedor está vacío o no tiene API key: la narrativa queda deshabilitada.
func NewLLMService(cfg config.AIConfig) (ports.LLMService, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "none":
		return nil, nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, nil
		}
		return NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, nil
		}
		return NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel), nil
	default:
		return nil, fmt.Errorf("AI: proveedor %q desconocido", cfg.Provider)
	}
}
