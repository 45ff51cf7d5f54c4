package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"rag-interview-api/internal/domain/entity"
	"rag-interview-api/internal/domain/repository"
	"rag-interview-api/pkg/errors"
)

// SessionLog 基于 Redis List 的会话历史存储。
//
// LPUSH 保证最新轮次在表头，LTRIM 限制轮数上限，
// 每次写入后刷新过期时间。
type SessionLog struct {
	client   *Client
	ttl      time.Duration
	maxTurns int
}

var _ repository.SessionLog = (*SessionLog)(nil)

// NewSessionLog 创建会话历史存储
func NewSessionLog(client *Client, ttl time.Duration, maxTurns int) *SessionLog {
	if maxTurns <= 0 {
		maxTurns = 50
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionLog{
		client:   client,
		ttl:      ttl,
		maxTurns: maxTurns,
	}
}

// sessionKey 构建会话键
func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s:turns", sessionID)
}

// Append 追加一轮会话
func (s *SessionLog) Append(ctx context.Context, sessionID string, turn entity.SessionTurn) error {
	ctx, span := tracer.Start(ctx, "session.Append",
		trace.WithAttributes(attribute.String("session_id", sessionID)))
	defer span.End()

	data, err := json.Marshal(turn)
	if err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "failed to marshal session turn")
	}

	key := sessionKey(sessionID)

	pipe := s.client.rdb.Pipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(s.maxTurns-1))
	pipe.Expire(ctx, key, s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, errors.CodeCacheError, "failed to append session turn")
	}
	return nil
}

// Recent 返回最近 limit 轮会话，最新在前
func (s *SessionLog) Recent(ctx context.Context, sessionID string, limit int) ([]entity.SessionTurn, error) {
	ctx, span := tracer.Start(ctx, "session.Recent",
		trace.WithAttributes(
			attribute.String("session_id", sessionID),
			attribute.Int("limit", limit),
		))
	defer span.End()

	if limit <= 0 {
		limit = s.maxTurns
	}

	items, err := s.client.rdb.LRange(ctx, sessionKey(sessionID), 0, int64(limit-1)).Result()
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, errors.CodeCacheError, "failed to read session turns")
	}

	turns := make([]entity.SessionTurn, 0, len(items))
	for _, item := range items {
		var turn entity.SessionTurn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			// 跳过损坏的记录
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}
