package dto

import (
	"rag-interview-api/internal/application/booking"
)

// ChatRequest 会话请求
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// ChatResponse 会话响应
type ChatResponse struct {
	Response      string              `json:"response"`
	SessionID     string              `json:"session_id"`
	Sources       []string            `json:"sources"`
	BookingResult *booking.Resolution `json:"booking_result,omitempty"`
}
