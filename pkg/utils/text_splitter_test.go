package utils

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeWords(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return words
}

func TestChunkByWordsEmpty(t *testing.T) {
	assert.Empty(t, ChunkByWords("", 220, 40))
	assert.Empty(t, ChunkByWords("   \n\t ", 220, 40))
}

func TestChunkByWordsCounts(t *testing.T) {
	tests := []struct {
		words     int
		wantCount int
	}{
		{1, 1},
		{220, 1},
		{221, 2},
		{400, 2},
		{401, 3},
		{1000, 6},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d words", tt.words), func(t *testing.T) {
			chunks := ChunkByWords(strings.Join(makeWords(tt.words), " "), DefaultChunkWords, DefaultOverlapWords)
			assert.Len(t, chunks, tt.wantCount)
		})
	}
}

func TestChunkByWordsOverlapAndReconstruction(t *testing.T) {
	words := makeWords(537)
	chunks := ChunkByWords(strings.Join(words, "  \n"), 100, 25)
	require.NotEmpty(t, chunks)

	var rebuilt []string
	for i, chunk := range chunks {
		chunkWords := strings.Fields(chunk)
		if i < len(chunks)-1 {
			assert.Len(t, chunkWords, 100)
		}
		if i == 0 {
			rebuilt = append(rebuilt, chunkWords...)
			continue
		}
		prev := strings.Fields(chunks[i-1])
		assert.Equal(t, prev[len(prev)-25:], chunkWords[:25], "window %d overlap", i)
		rebuilt = append(rebuilt, chunkWords[25:]...)
	}

	assert.Equal(t, words, rebuilt)
}

func TestChunkByWordsNormalizesWhitespace(t *testing.T) {
	chunks := ChunkByWords("alpha\r\n beta\t\tgamma", 2, 1)
	assert.Equal(t, []string{"alpha beta", "beta gamma"}, chunks)
}
