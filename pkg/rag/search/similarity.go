package search

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"ai-support-chat-be/internal/entity"
)

const (
	DefaultTopK  = 4
	PreviewChars = 900

	epsilon = 1e-9
)

var tokenPattern = regexp.MustCompile(`[a-zA-Z0-9_]+`)

// Hit is a scored chunk.
type Hit struct {
	ChunkId string
	Text    string
	Score   float64
}

// Tokenize returns the set of lowercase alphanumeric/underscore tokens in text.
func Tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		tokens[tok] = struct{}{}
	}
	return tokens
}

// OverlapScore counts the distinct tokens shared by query and text.
func OverlapScore(query, text string) int {
	return overlap(Tokenize(query), Tokenize(text))
}

func overlap(q, t map[string]struct{}) int {
	if len(t) < len(q) {
		q, t = t, q
	}
	n := 0
	for tok := range q {
		if _, ok := t[tok]; ok {
			n++
		}
	}
	return n
}

// LexicalTopK ranks chunks by token overlap with query. Chunks scoring 0 are
// dropped; ties keep input order.
func LexicalTopK(query string, chunks []entity.RetrievalChunk, k int) []Hit {
	q := Tokenize(query)

	hits := make([]Hit, 0, len(chunks))
	for _, c := range chunks {
		score := overlap(q, Tokenize(c.Text))
		if score > 0 {
			hits = append(hits, Hit{ChunkId: c.ChunkId, Text: c.Text, Score: float64(score)})
		}
	}
	return topK(hits, k)
}

// CosineSimilarity is dot(q, v) / ((|q|+eps) * (|v|+eps)). Zero vectors score 0.
func CosineSimilarity(q, v []float32) float64 {
	n := min(len(q), len(v))
	var dot float64
	for i := 0; i < n; i++ {
		dot += float64(q[i]) * float64(v[i])
	}
	return dot / ((norm(q) + epsilon) * (norm(v) + epsilon))
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// HasVectors reports whether any chunk carries a real embedding rather than the
// one-element placeholder.
func HasVectors(chunks []entity.RetrievalChunk) bool {
	for _, c := range chunks {
		if len(c.Embedding) > 1 {
			return true
		}
	}
	return false
}

// CosineTopK ranks chunks by cosine similarity against queryVec. Chunks whose
// embedding dimension differs from the query (lexical-only placeholders) are skipped.
func CosineTopK(queryVec []float32, chunks []entity.RetrievalChunk, k int) []Hit {
	if len(queryVec) == 0 {
		return nil
	}

	hits := make([]Hit, 0, len(chunks))
	for _, c := range chunks {
		if len(c.Embedding) != len(queryVec) {
			continue
		}
		hits = append(hits, Hit{ChunkId: c.ChunkId, Text: c.Text, Score: CosineSimilarity(queryVec, c.Embedding)})
	}
	return topK(hits, k)
}

func topK(hits []Hit, k int) []Hit {
	if k <= 0 {
		k = DefaultTopK
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// FormatContext renders hits as "[chunk_id] text" blocks separated by a blank line.
// Each text is cut to PreviewChars runes.
func FormatContext(hits []Hit) string {
	if len(hits) == 0 {
		return ""
	}
	lines := make([]string, 0, len(hits))
	for _, h := range hits {
		lines = append(lines, "["+h.ChunkId+"] "+preview(h.Text, PreviewChars))
	}
	return strings.Join(lines, "\n\n")
}

func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
