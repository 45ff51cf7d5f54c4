package redis

import (
	"context"
	"sync"
	"time"

	"rag-interview-api/internal/domain/entity"
	"rag-interview-api/internal/domain/repository"
)

// MemorySessionLog 内存会话历史存储，Redis 不可用时的回退实现。
// 语义与 Redis 实现一致：最新在前、轮数上限、会话过期。
type MemorySessionLog struct {
	mu       sync.RWMutex
	sessions map[string]*memorySession
	ttl      time.Duration
	maxTurns int
	now      func() time.Time
}

type memorySession struct {
	turns     []entity.SessionTurn
	expiresAt time.Time
}

var _ repository.SessionLog = (*MemorySessionLog)(nil)

// NewMemorySessionLog 创建内存会话历史存储
func NewMemorySessionLog(ttl time.Duration, maxTurns int) *MemorySessionLog {
	if maxTurns <= 0 {
		maxTurns = 50
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &MemorySessionLog{
		sessions: make(map[string]*memorySession),
		ttl:      ttl,
		maxTurns: maxTurns,
		now:      time.Now,
	}
}

// Append 追加一轮会话
func (m *MemorySessionLog) Append(_ context.Context, sessionID string, turn entity.SessionTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	sess, ok := m.sessions[sessionID]
	if !ok || now.After(sess.expiresAt) {
		sess = &memorySession{}
		m.sessions[sessionID] = sess
	}

	// 最新轮次在前
	sess.turns = append([]entity.SessionTurn{turn}, sess.turns...)
	if len(sess.turns) > m.maxTurns {
		sess.turns = sess.turns[:m.maxTurns]
	}
	sess.expiresAt = now.Add(m.ttl)
	return nil
}

// Recent 返回最近 limit 轮会话，最新在前
func (m *MemorySessionLog) Recent(_ context.Context, sessionID string, limit int) ([]entity.SessionTurn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[sessionID]
	if !ok || m.now().After(sess.expiresAt) {
		return nil, nil
	}

	if limit <= 0 || limit > len(sess.turns) {
		limit = len(sess.turns)
	}

	out := make([]entity.SessionTurn, limit)
	copy(out, sess.turns[:limit])
	return out, nil
}
