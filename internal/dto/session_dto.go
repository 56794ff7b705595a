package dto

type NewSessionResponse struct {
	SessionId string `json:"session_id"`
}

type ClearRequest struct {
	SessionId string `json:"session_id" validate:"required,min=6"`
}

type ClearResponse struct {
	Ok        bool   `json:"ok"`
	SessionId string `json:"session_id"`
}
