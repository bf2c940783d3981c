package ports

import "context"

// LLMService define el puerto de salida hacia el modelo de lenguaje que redacta
// la narrativa de un análisis. Cualquier adaptador (OpenAI, Anthropic, mock)
// debe implementarlo; el contexto debe llevar timeout.
type LLMService interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}
