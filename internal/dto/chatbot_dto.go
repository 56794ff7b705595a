package dto

import "ai-support-chat-be/internal/entity"

type ChatRequest struct {
	SessionId string `json:"session_id"`
	Message   string `json:"message" validate:"required"`
	Mode      string `json:"mode"`
	UseRag    *bool  `json:"use_rag"`
}

// RagEnabled reports use_rag, which defaults to true when omitted.
func (r *ChatRequest) RagEnabled() bool {
	return r.UseRag == nil || *r.UseRag
}

type ChatResponse struct {
	SessionId string `json:"session_id"`
	Reply     string `json:"reply"`
	Mode      string `json:"mode"`
}

// ChatStreamFrame is one websocket frame: a reply fragment in Delta, or the closing
// frame with Done set.
type ChatStreamFrame struct {
	SessionId string `json:"session_id,omitempty"`
	Delta     string `json:"delta,omitempty"`
	Done      bool   `json:"done,omitempty"`
	Error     string `json:"error,omitempty"`
}

type ModesResponse struct {
	Modes []string `json:"modes"`
}

type HealthResponse struct {
	Ok           bool   `json:"ok"`
	Backend      string `json:"backend"`
	Demo         bool   `json:"demo"`
	LocalOnly    bool   `json:"local_only"`
	HasGeminiKey bool   `json:"has_gemini_key"`
	AutoLoadKb   bool   `json:"auto_load_kb"`
	Sessions     int    `json:"sessions"`
}

type HistoryResponse struct {
	SessionId string        `json:"session_id"`
	History   []entity.Turn `json:"history"`
}
