package vector

import (
	"context"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"rag-interview-api/pkg/logger"
	"rag-interview-api/pkg/metrics"
)

var tracer = otel.Tracer("vector")

// Record 向量索引中的一条记录
type Record struct {
	ID         string
	DocumentID string
	ChunkIndex int
	Filename   string
	Text       string
	Embedding  []float32
}

// Match 检索命中结果
type Match struct {
	Record
	Score float32
}

// Backend 外部向量索引后端
type Backend interface {
	Upsert(ctx context.Context, records []Record) error
	Search(ctx context.Context, query []float32, topK int, documentID string) ([]Match, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}

// Store 双模式向量存储。
//
// 优先使用外部后端；任一后端操作失败后单向切换到内存索引，
// 本进程内不再切回。所有写入同时镜像到内存索引，保证切换后
// 已索引的片段仍可检索。
type Store struct {
	backend  Backend
	memory   *MemoryIndex
	fallback atomic.Bool
}

// NewStore 创建双模式向量存储。backend 为 nil 时直接以内存模式运行。
func NewStore(backend Backend) *Store {
	s := &Store{
		backend: backend,
		memory:  NewMemoryIndex(),
	}
	if backend == nil {
		s.fallback.Store(true)
		metrics.VectorFallbackActive.Set(1)
	}
	return s
}

// Mode 返回当前模式
func (s *Store) Mode() string {
	if s.fallback.Load() {
		return "memory"
	}
	return "milvus"
}

// FallbackActive 返回是否已切换到内存模式
func (s *Store) FallbackActive() bool {
	return s.fallback.Load()
}

// flip 单向切换到内存模式
func (s *Store) flip(ctx context.Context, op string, err error) {
	if s.fallback.CompareAndSwap(false, true) {
		metrics.VectorFallbackActive.Set(1)
		logger.Warn(ctx, "vector backend failed, switching to in-memory index",
			"operation", op,
			"error", err.Error(),
		)
	}
}

// Upsert 写入记录
func (s *Store) Upsert(ctx context.Context, records []Record) error {
	ctx, span := tracer.Start(ctx, "vector.Upsert",
		trace.WithAttributes(attribute.Int("count", len(records))))
	defer span.End()

	// 内存索引始终保留全量数据
	if err := s.memory.Upsert(ctx, records); err != nil {
		return err
	}

	if s.fallback.Load() || s.backend == nil {
		metrics.VectorStoreTotal.WithLabelValues("memory", "success").Inc()
		return nil
	}

	if err := s.backend.Upsert(ctx, records); err != nil {
		span.RecordError(err)
		metrics.VectorStoreTotal.WithLabelValues("milvus", "error").Inc()
		s.flip(ctx, "upsert", err)
		return nil
	}

	metrics.VectorStoreTotal.WithLabelValues("milvus", "success").Inc()
	return nil
}

// Search 检索最相似的 topK 条记录
func (s *Store) Search(ctx context.Context, query []float32, topK int, documentID string) ([]Match, error) {
	ctx, span := tracer.Start(ctx, "vector.Search",
		trace.WithAttributes(attribute.Int("top_k", topK)))
	defer span.End()

	start := time.Now()
	mode := s.Mode()

	if mode == "milvus" {
		matches, err := s.backend.Search(ctx, query, topK, documentID)
		if err == nil {
			metrics.VectorSearchTotal.WithLabelValues("milvus", "success").Inc()
			metrics.VectorSearchDuration.WithLabelValues("milvus").Observe(time.Since(start).Seconds())
			span.SetAttributes(attribute.Int("result_count", len(matches)))
			return matches, nil
		}
		span.RecordError(err)
		metrics.VectorSearchTotal.WithLabelValues("milvus", "error").Inc()
		s.flip(ctx, "search", err)
	}

	matches, err := s.memory.Search(ctx, query, topK, documentID)
	if err != nil {
		metrics.VectorSearchTotal.WithLabelValues("memory", "error").Inc()
		return nil, err
	}
	metrics.VectorSearchTotal.WithLabelValues("memory", "success").Inc()
	metrics.VectorSearchDuration.WithLabelValues("memory").Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("result_count", len(matches)))
	return matches, nil
}

// DeleteByDocument 删除文档的所有记录
func (s *Store) DeleteByDocument(ctx context.Context, documentID string) error {
	ctx, span := tracer.Start(ctx, "vector.DeleteByDocument",
		trace.WithAttributes(attribute.String("document_id", documentID)))
	defer span.End()

	if err := s.memory.DeleteByDocument(ctx, documentID); err != nil {
		return err
	}

	if s.fallback.Load() || s.backend == nil {
		return nil
	}

	if err := s.backend.DeleteByDocument(ctx, documentID); err != nil {
		span.RecordError(err)
		s.flip(ctx, "delete", err)
	}
	return nil
}
