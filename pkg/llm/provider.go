package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "model"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Apply folds opts over defaults.
func Apply(defaults Options, opts ...Option) Options {
	for _, opt := range opts {
		opt(&defaults)
	}
	return defaults
}

// LLMProvider is a single-prompt text generator (the local runtime).
type LLMProvider interface {
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// ChatProvider is a multi-turn model with a separate system instruction (the cloud backend).
type ChatProvider interface {
	// Chat sends history plus message and returns the full answer.
	Chat(ctx context.Context, system string, history []Message, message string, options ...Option) (string, error)

	// ChatStream calls onChunk for every text fragment as it arrives. An error
	// from onChunk stops the stream and is returned.
	ChatStream(ctx context.Context, system string, history []Message, message string, onChunk func(string) error, options ...Option) error
}
