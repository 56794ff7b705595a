package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-support-chat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *GeminiProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewGeminiProvider("test-key", "gemini-test")
	p.BaseURL = srv.URL
	return p
}

func TestConvertHistory(t *testing.T) {
	contents := convertHistory([]llm.Message{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
		{Role: "user", Content: "   "},
		{Role: "system", Content: "odd"},
	})

	require.Len(t, contents, 3)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
	assert.Equal(t, "model", contents[2].Role)
	assert.Equal(t, "odd", contents[2].Parts[0].Text)
}

func TestChat(t *testing.T) {
	var got geminiRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Hello "},{"text":"there"}]}}]}`)
	})

	reply, err := p.Chat(context.Background(), "be kind", []llm.Message{{Role: "assistant", Content: "earlier"}}, "hi")

	require.NoError(t, err)
	assert.Equal(t, "Hello there", reply)
	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "be kind", got.SystemInstruction.Parts[0].Text)
	require.Len(t, got.Contents, 2)
	assert.Equal(t, "model", got.Contents[0].Role)
	assert.Equal(t, "hi", got.Contents[1].Parts[0].Text)
	assert.Nil(t, got.GenerationConfig)
}

func TestChatModelOverride(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/other-model:generateContent", r.URL.Path)
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`)
	})

	reply, err := p.Chat(context.Background(), "", nil, "hi", llm.WithModel("other-model"))

	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
}

func TestChatStatusError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":"bad key"}`)
	})

	_, err := p.Chat(context.Background(), "", nil, "hi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "bad key")
}

func TestChatNoCandidates(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[]}`)
	})

	_, err := p.Chat(context.Background(), "", nil, "hi")

	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestChatStream(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-test:streamGenerateContent", r.URL.Path)
		assert.Equal(t, "sse", r.URL.Query().Get("alt"))

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"Hel\"}]}}]}\n\n")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"lo\"}]}}]}\n\n")
		fmt.Fprint(w, "data: {\"candidates\":[]}\n\n")
	})

	var chunks []string
	err := p.ChatStream(context.Background(), "sys", nil, "hi", func(s string) error {
		chunks = append(chunks, s)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo"}, chunks)
}

func TestChatStreamStopsOnCallbackError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"a\"}]}}]}\n\n")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"b\"}]}}]}\n\n")
	})
	stop := errors.New("client gone")

	calls := 0
	err := p.ChatStream(context.Background(), "", nil, "hi", func(string) error {
		calls++
		return stop
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}
