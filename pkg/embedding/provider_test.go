package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiProviderGenerate(t *testing.T) {
	var got EmbeddingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/text-embedding-004:embedContent", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"embedding":{"values":[0.1,0.2,0.3]}}`)
	}))
	defer srv.Close()

	p := NewGeminiProvider("k", "")
	p.BaseURL = srv.URL

	res, err := p.Generate(context.Background(), "hello", TaskRetrievalQuery)

	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, res.Embedding.Values)
	assert.Equal(t, "models/text-embedding-004", got.Model)
	assert.Equal(t, TaskRetrievalQuery, got.TaskType)
	assert.Equal(t, "hello", got.Content.Parts[0].Text)
}

func TestGeminiProviderErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"status", http.StatusTooManyRequests, `{"error":"quota"}`},
		{"empty embedding", http.StatusOK, `{"embedding":{"values":[]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			p := NewGeminiProvider("k", "m")
			p.BaseURL = srv.URL

			_, err := p.Generate(context.Background(), "x", TaskRetrievalDocument)
			assert.Error(t, err)
		})
	}
}

func TestOllamaProviderNormalizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		fmt.Fprint(w, `{"embedding":[3,4]}`)
	}))
	defer srv.Close()

	res, err := NewOllamaProvider(srv.URL, "").Generate(context.Background(), "x", TaskRetrievalQuery)

	require.NoError(t, err)
	require.Len(t, res.Embedding.Values, 2)
	assert.InDelta(t, 0.6, res.Embedding.Values[0], 1e-6)
	assert.InDelta(t, 0.8, res.Embedding.Values[1], 1e-6)
}

func TestNormalizeVector(t *testing.T) {
	assert.Equal(t, []float32{0, 0}, normalizeVector([]float32{0, 0}))

	v := normalizeVector([]float32{1, 2, 2})
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)
}

type countingProvider struct {
	calls int
	err   error
}

func (c *countingProvider) Generate(ctx context.Context, text, taskType string) (*EmbeddingResponse, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &EmbeddingResponse{Embedding: EmbeddingResponseEmbedding{Values: []float32{float32(len(text))}}}, nil
}

func TestCachedProvider(t *testing.T) {
	inner := &countingProvider{}
	cached := NewCachedProvider(inner, 0)
	ctx := context.Background()

	a, err := cached.Generate(ctx, "abc", TaskRetrievalQuery)
	require.NoError(t, err)
	b, err := cached.Generate(ctx, "abc", TaskRetrievalQuery)
	require.NoError(t, err)
	_, err = cached.Generate(ctx, "abc", TaskRetrievalDocument)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 2, cached.Len())
}

func TestCachedProviderDoesNotCacheErrors(t *testing.T) {
	inner := &countingProvider{err: errors.New("down")}
	cached := NewCachedProvider(inner, 0)

	_, err := cached.Generate(context.Background(), "abc", TaskRetrievalQuery)
	require.Error(t, err)
	_, err = cached.Generate(context.Background(), "abc", TaskRetrievalQuery)
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 0, cached.Len())
}
