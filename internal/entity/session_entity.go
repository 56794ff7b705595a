package entity

// Turn is one message of a conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RetrievalChunk is a span of ingested text that can be scored against a query.
// Chunks scored lexically only carry a one-element placeholder embedding.
type RetrievalChunk struct {
	DocName   string
	ChunkId   string // "{doc}#{index}"
	Text      string
	Embedding []float32
}

// PlaceholderEmbedding marks a chunk that has no real embedding.
func PlaceholderEmbedding() []float32 {
	return []float32{0}
}

type Session struct {
	History []Turn
	Chunks  []RetrievalChunk
}

type SessionStatus struct {
	TotalChunks int            `json:"total_chunks"`
	ByDoc       map[string]int `json:"by_doc"`
}
