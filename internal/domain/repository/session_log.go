package repository

import (
	"context"

	"rag-interview-api/internal/domain/entity"
)

// SessionLog 会话历史存储接口
//
// 实现需保证轮次按时间倒序返回（最新在前），并对每个会话设置
// 轮数上限和过期时间。
type SessionLog interface {
	// Append 追加一轮会话
	Append(ctx context.Context, sessionID string, turn entity.SessionTurn) error
	// Recent 返回最近 limit 轮会话，最新在前
	Recent(ctx context.Context, sessionID string, limit int) ([]entity.SessionTurn, error)
}
