package factory

import (
	"fmt"

	"ai-support-chat-be/pkg/llm"
	"ai-support-chat-be/pkg/llm/gemini"
	"ai-support-chat-be/pkg/llm/ollama"
)

const (
	RuntimeHTTP = "http"
	RuntimeCLI  = "cli"
)

// NewLLMProvider builds the local generator. runtime is "http" (Ollama server) or
// "cli" (`ollama run`, target is the binary path).
func NewLLMProvider(runtime, modelName, target string) (llm.LLMProvider, error) {
	switch runtime {
	case RuntimeHTTP, "":
		return ollama.NewOllamaProvider(target, modelName), nil
	case RuntimeCLI:
		return ollama.NewCLIProvider(target, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported local runtime: %s", runtime)
	}
}

// NewChatProvider builds the cloud chat backend. Returns nil when no key is configured.
func NewChatProvider(apiKey, modelName string) llm.ChatProvider {
	if apiKey == "" {
		return nil
	}
	return gemini.NewGeminiProvider(apiKey, modelName)
}
