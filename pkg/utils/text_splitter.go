package utils

import "strings"

const (
	DefaultChunkWords   = 220
	DefaultOverlapWords = 40
)

// ChunkByWords splits text into windows of chunkWords whitespace-separated words.
// Each window starts overlapWords before the end of the previous one; the last
// window may be shorter. Splitting is word based, not character based.
func ChunkByWords(text string, chunkWords int, overlapWords int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if chunkWords <= 0 {
		chunkWords = DefaultChunkWords
	}
	if overlapWords < 0 || overlapWords >= chunkWords {
		overlapWords = 0
	}

	var chunks []string
	for i := 0; i < len(words); {
		end := i + chunkWords
		if end > len(words) {
			end = len(words)
		}

		chunks = append(chunks, strings.Join(words[i:end], " "))

		if end == len(words) {
			break
		}
		i = max(0, end-overlapWords)
	}

	return chunks
}
