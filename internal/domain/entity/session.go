package entity

import "time"

// SessionTurn 会话中的一轮问答
type SessionTurn struct {
	Question  string    `json:"message"`
	Answer    string    `json:"response"`
	CreatedAt time.Time `json:"timestamp"`
}

// NewSessionTurn 创建一轮会话记录
func NewSessionTurn(question, answer string) SessionTurn {
	return SessionTurn{
		Question:  question,
		Answer:    answer,
		CreatedAt: time.Now(),
	}
}
