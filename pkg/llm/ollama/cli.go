package ollama

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"ai-support-chat-be/pkg/llm"
)

// CLIProvider shells out to `ollama run <model> <prompt>` and returns stdout.
type CLIProvider struct {
	Path      string
	ModelName string
}

var _ llm.LLMProvider = &CLIProvider{}

func NewCLIProvider(path, modelName string) *CLIProvider {
	if path == "" {
		path = "ollama"
	}
	return &CLIProvider{Path: path, ModelName: modelName}
}

func (c *CLIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	options := llm.Apply(llm.Options{}, opts...)
	model := c.ModelName
	if options.Model != "" {
		model = options.Model
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Path, "run", model, prompt)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "ollama failed"
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", errors.New(msg)
		}
		return "", fmt.Errorf("%s: %w", msg, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
