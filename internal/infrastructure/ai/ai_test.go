package ai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andyspruebas-jpg/Stock-Pro/internal/infrastructure/ai"
	"github.com/andyspruebas-jpg/Stock-Pro/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Anthropic
// ──────────────────────────────────────────────────────────────────────────────

func TestAnthropicService_Complete(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "clave", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":" Transferir 12 unidades. "}]}`))
	}))
	defer srv.Close()

	svc := ai.NewAnthropicService("clave", "claude-test").WithBaseURL(srv.URL + "/")
	text, err := svc.Complete(context.Background(), "sistema", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Transferir 12 unidades.", text)
	assert.Equal(t, "sistema", got["system"])
	assert.Equal(t, "claude-test", got["model"])
}

func TestAnthropicService_Errores(t *testing.T) {
	_, err := ai.NewAnthropicService("", "m").Complete(context.Background(), "s", "p")
	assert.ErrorContains(t, err, "ANTHROPIC_API_KEY")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"demasiadas solicitudes"}}`))
	}))
	defer srv.Close()

	_, err = ai.NewAnthropicService("clave", "m").WithBaseURL(srv.URL).Complete(context.Background(), "s", "p")
	assert.ErrorContains(t, err, "rate_limit_error")

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer empty.Close()
	_, err = ai.NewAnthropicService("clave", "m").WithBaseURL(empty.URL).Complete(context.Background(), "s", "p")
	assert.ErrorContains(t, err, "vacía")
}

// ──────────────────────────────────────────────────────────────────────────────
// OpenAI
// ──────────────────────────────────────────────────────────────────────────────

func TestOpenAIService_Complete(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses", r.URL.Path)
		assert.Equal(t, "Bearer clave", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "resp_1",
			"object": "response",
			"status": "completed",
			"model": "gpt-4o-mini",
			"output": [{
				"type": "message",
				"id": "msg_1",
				"role": "assistant",
				"status": "completed",
				"content": [{"type": "output_text", "text": "Stock suficiente hasta el pedido.", "annotations": []}]
			}]
		}`))
	}))
	defer srv.Close()

	svc := ai.NewOpenAIService("clave", "", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	text, err := svc.Complete(context.Background(), "sistema", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Stock suficiente hasta el pedido.", text)
	assert.Equal(t, "gpt-4o-mini", got["model"])
	assert.Equal(t, "sistema", got["instructions"])
	assert.Equal(t, "prompt", got["input"])
}

func TestOpenAIService_SinClave(t *testing.T) {
	_, err := ai.NewOpenAIService("", "gpt-4o-mini").Complete(context.Background(), "s", "p")
	assert.ErrorContains(t, err, "OPENAI_API_KEY")
}

func TestNewLLMService(t *testing.T) {
	svc, err := ai.NewLLMService(config.AIConfig{Provider: "openai"})
	require.NoError(t, err)
	assert.Nil(t, svc, "sin API key la narrativa queda deshabilitada")

	svc, err = ai.NewLLMService(config.AIConfig{Provider: "anthropic", AnthropicAPIKey: "k", AnthropicModel: "m"})
	require.NoError(t, err)
	assert.IsType(t, &ai.AnthropicService{}, svc)

	svc, err = ai.NewLLMService(config.AIConfig{Provider: "OpenAI", OpenAIAPIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &ai.OpenAIService{}, svc)

	_, err = ai.NewLLMService(config.AIConfig{Provider: "gemini"})
	assert.Error(t, err)
}
