package factory

import (
	"testing"

	"ai-support-chat-be/pkg/llm/gemini"
	"ai-support-chat-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(RuntimeHTTP, "llama3.2:3b", "http://ollama:11434")
	require.NoError(t, err)
	assert.IsType(t, &ollama.OllamaProvider{}, p)

	p, err = NewLLMProvider(RuntimeCLI, "llama3.2:3b", "/usr/bin/ollama")
	require.NoError(t, err)
	assert.IsType(t, &ollama.CLIProvider{}, p)

	_, err = NewLLMProvider("grpc", "m", "")
	assert.Error(t, err)
}

func TestNewChatProvider(t *testing.T) {
	assert.Nil(t, NewChatProvider("", "gemini-1.5-flash"))
	assert.IsType(t, &gemini.GeminiProvider{}, NewChatProvider("key", "gemini-1.5-flash"))
}
