package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ai-support-chat-be/internal/constant"
	"ai-support-chat-be/pkg/llm"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

var ErrEmptyResponse = errors.New("gemini returned no candidates")

type GeminiProvider struct {
	APIKey    string
	ModelName string
	BaseURL   string
	Client    *http.Client
}

var _ llm.ChatProvider = &GeminiProvider{}

func NewGeminiProvider(apiKey, modelName string) *GeminiProvider {
	return &GeminiProvider{
		APIKey:    apiKey,
		ModelName: modelName,
		BaseURL:   DefaultBaseURL,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []*geminiPart `json:"parts"`
	Role  string        `json:"role,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent          `json:"system_instruction,omitempty"`
	Contents          []*geminiContent        `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content *geminiContent `json:"content"`
}

type geminiResponse struct {
	Candidates []*geminiCandidate `json:"candidates"`
}

func (r *geminiResponse) text() string {
	if len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// convertHistory maps stored turns onto Gemini roles: "user" stays user, every
// other role becomes model. Empty turns are dropped.
func convertHistory(history []llm.Message) []*geminiContent {
	contents := make([]*geminiContent, 0, len(history)+1)
	for _, m := range history {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		role := constant.ChatMessageRoleModel
		if m.Role == constant.ChatMessageRoleUser {
			role = constant.ChatMessageRoleUser
		}
		contents = append(contents, &geminiContent{
			Parts: []*geminiPart{{Text: m.Content}},
			Role:  role,
		})
	}
	return contents
}

func (g *GeminiProvider) buildRequest(system string, history []llm.Message, message string, opts []llm.Option) ([]byte, string, error) {
	options := llm.Apply(llm.Options{}, opts...)

	contents := convertHistory(history)
	contents = append(contents, &geminiContent{
		Parts: []*geminiPart{{Text: message}},
		Role:  constant.ChatMessageRoleUser,
	})

	payload := geminiRequest{Contents: contents}
	if system != "" {
		payload.SystemInstruction = &geminiContent{Parts: []*geminiPart{{Text: system}}}
	}
	if options.Temperature != 0 || options.MaxTokens > 0 {
		cfg := &geminiGenerationConfig{MaxOutputTokens: options.MaxTokens}
		if options.Temperature != 0 {
			cfg.Temperature = &options.Temperature
		}
		payload.GenerationConfig = cfg
	}

	model := g.ModelName
	if options.Model != "" {
		model = options.Model
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("marshal request: %w", err)
	}
	return body, model, nil
}

func (g *GeminiProvider) post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", g.APIKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		defer res.Body.Close()
		resBody, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)
	}
	return res, nil
}

func (g *GeminiProvider) Chat(ctx context.Context, system string, history []llm.Message, message string, opts ...llm.Option) (string, error) {
	body, model, err := g.buildRequest(system, history, message, opts)
	if err != nil {
		return "", err
	}

	res, err := g.post(ctx, fmt.Sprintf("%s/models/%s:generateContent", g.BaseURL, model), body)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	var geminiRes geminiResponse
	if err := json.NewDecoder(res.Body).Decode(&geminiRes); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(geminiRes.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	return geminiRes.text(), nil
}

// ChatStream reads the server-sent event stream, one JSON response per "data:" line.
func (g *GeminiProvider) ChatStream(ctx context.Context, system string, history []llm.Message, message string, onChunk func(string) error, opts ...llm.Option) error {
	body, model, err := g.buildRequest(system, history, message, opts)
	if err != nil {
		return err
	}

	res, err := g.post(ctx, fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", g.BaseURL, model), body)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	scanner := bufio.NewScanner(res.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}

		var chunk geminiResponse
		if err := json.Unmarshal([]byte(strings.TrimSpace(data)), &chunk); err != nil {
			return fmt.Errorf("unmarshal stream chunk: %w", err)
		}

		if text := chunk.text(); text != "" {
			if err := onChunk(text); err != nil {
				return err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return ctx.Err()
}
