package chat

import "strings"

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
	UserID  string `json:"user_id" validate:"required,alphanum"`
}

// Trim strips surrounding whitespace from both fields before validation.
func (r *ChatRequest) Trim() {
	r.Message = strings.TrimSpace(r.Message)
	r.UserID = strings.TrimSpace(r.UserID)
}

type ChatResponse struct {
	Response string `json:"response"`
}

// ReplyUnavailable is returned with a 200 when a turn fails outside the
// dialog engine.
const ReplyUnavailable = "Sorry, something went wrong. Please try again later."
