// Package document 提供文档摄取与索引
package document

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"rag-interview-api/internal/application/booking"
	"rag-interview-api/internal/application/chunking"
	"rag-interview-api/internal/domain/entity"
	"rag-interview-api/internal/domain/repository"
	"rag-interview-api/internal/infrastructure/persistence/vector"
	"rag-interview-api/pkg/errors"
	"rag-interview-api/pkg/logger"
	"rag-interview-api/pkg/metrics"
)

var tracer = otel.Tracer("document")

// supportedContentTypes 可摄取的文件类型
var supportedContentTypes = map[string]struct{}{
	"text/plain":    {},
	"text/markdown": {},
}

// DocumentEmbedder 文档向量化接口
type DocumentEmbedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorUpserter 向量写入接口
type VectorUpserter interface {
	Upsert(ctx context.Context, records []vector.Record) error
}

// BookingExtractor 文档预约抽取接口
type BookingExtractor interface {
	ExtractFromDocument(ctx context.Context, textContent, filename string) []*booking.Resolution
}

// IngestResult 文档摄取结果
type IngestResult struct {
	DocumentID        string                `json:"document_id"`
	ChunksCreated     int                   `json:"chunks_created"`
	ExtractedBookings []*booking.Resolution `json:"extracted_interviews"`
}

// Service 文档服务：切分、向量化、索引并自动抽取预约请求
type Service struct {
	docs      repository.DocumentRepository
	chunks    repository.ChunkRepository
	embedder  DocumentEmbedder
	store     VectorUpserter
	extractor BookingExtractor
}

// NewService 创建文档服务
func NewService(
	docs repository.DocumentRepository,
	chunks repository.ChunkRepository,
	embedder DocumentEmbedder,
	store VectorUpserter,
	extractor BookingExtractor,
) *Service {
	return &Service{
		docs:      docs,
		chunks:    chunks,
		embedder:  embedder,
		store:     store,
		extractor: extractor,
	}
}

// ValidateContentType 校验文件类型是否可摄取
func ValidateContentType(contentType string) error {
	// 忽略 charset 等参数
	mediaType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	if _, ok := supportedContentTypes[mediaType]; !ok {
		return errors.New(errors.CodeUnsupportedInput, "unsupported file type").WithDetail(contentType)
	}
	return nil
}

// Ingest 摄取一份文档
func (s *Service) Ingest(ctx context.Context, filename, contentType, content string, strategy entity.ChunkStrategy) (*IngestResult, error) {
	ctx, span := tracer.Start(ctx, "document.Ingest",
		trace.WithAttributes(
			attribute.String("filename", filename),
			attribute.String("strategy", string(strategy)),
		))
	defer span.End()

	if err := ValidateContentType(contentType); err != nil {
		metrics.DocumentIngestTotal.WithLabelValues(string(strategy), "rejected").Inc()
		return nil, err
	}

	doc := entity.NewDocument(filename, contentType, content, strategy)
	ctx = logger.WithContext(ctx, logger.DocumentIDKey, doc.ID)

	if err := s.docs.Create(ctx, doc); err != nil {
		metrics.DocumentIngestTotal.WithLabelValues(string(strategy), "error").Inc()
		return nil, err
	}

	pieces, err := chunking.Chunk(content, strategy)
	if err != nil {
		s.markFailed(ctx, doc.ID)
		metrics.DocumentIngestTotal.WithLabelValues(string(strategy), "error").Inc()
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "invalid chunking strategy")
	}

	if err := s.indexChunks(ctx, doc, pieces); err != nil {
		s.markFailed(ctx, doc.ID)
		metrics.DocumentIngestTotal.WithLabelValues(string(strategy), "error").Inc()
		return nil, err
	}

	if err := s.docs.UpdateStatus(ctx, doc.ID, entity.DocumentStatusIndexed, len(pieces)); err != nil {
		return nil, err
	}

	metrics.DocumentIngestTotal.WithLabelValues(string(strategy), "success").Inc()
	metrics.DocumentChunksIndexed.WithLabelValues(string(strategy)).Add(float64(len(pieces)))

	// 预约抽取失败不影响摄取结果
	extracted := s.extractor.ExtractFromDocument(ctx, content, filename)
	if extracted == nil {
		extracted = []*booking.Resolution{}
	}

	logger.Info(ctx, "document ingested",
		"filename", filename,
		"strategy", strategy,
		"chunk_count", len(pieces),
		"extracted_bookings", len(extracted),
	)

	return &IngestResult{
		DocumentID:        doc.ID,
		ChunksCreated:     len(pieces),
		ExtractedBookings: extracted,
	}, nil
}

// indexChunks 向量化片段并写入向量索引和关系库
func (s *Service) indexChunks(ctx context.Context, doc *entity.Document, pieces []chunking.Piece) error {
	if len(pieces) == 0 {
		return nil
	}

	texts := make([]string, len(pieces))
	for i, p := range pieces {
		texts[i] = p.Text
	}

	embeddings, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return err
	}

	records := make([]vector.Record, len(pieces))
	chunkRows := make([]*entity.Chunk, len(pieces))
	for i, p := range pieces {
		chunk := entity.NewChunk(doc.ID, i, p.Text, p.Start, p.End)
		chunkRows[i] = chunk
		records[i] = vector.Record{
			ID:         chunk.ID,
			DocumentID: doc.ID,
			ChunkIndex: i,
			Filename:   doc.Filename,
			Text:       p.Text,
			Embedding:  embeddings[i],
		}
	}

	if err := s.store.Upsert(ctx, records); err != nil {
		return err
	}
	return s.chunks.CreateBatch(ctx, chunkRows)
}

// markFailed 将文档标记为失败，错误只记日志
func (s *Service) markFailed(ctx context.Context, docID string) {
	if err := s.docs.UpdateStatus(ctx, docID, entity.DocumentStatusFailed, 0); err != nil {
		logger.Warn(ctx, "failed to mark document as failed", "error", err.Error())
	}
}

// Get 查询文档
func (s *Service) Get(ctx context.Context, id string) (*entity.Document, error) {
	return s.docs.GetByID(ctx, id)
}

// List 分页列出文档
func (s *Service) List(ctx context.Context, page repository.Pagination) (*repository.PagedResult[*entity.Document], error) {
	return s.docs.List(ctx, page)
}
