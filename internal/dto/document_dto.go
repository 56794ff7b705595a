package dto

type UploadResponse struct {
	SessionId   string `json:"session_id"`
	DocName     string `json:"doc_name"`
	ChunksAdded int    `json:"chunks_added"`
	TotalChunks int    `json:"total_chunks"`
}

type RagStatusResponse struct {
	SessionId   string         `json:"session_id"`
	TotalChunks int            `json:"total_chunks"`
	ByDoc       map[string]int `json:"by_doc"`
}
