package postgres

import (
	"context"

	"gorm.io/gorm"

	"rag-interview-api/internal/domain/entity"
	"rag-interview-api/internal/domain/repository"
	"rag-interview-api/pkg/errors"
)

// ChunkRepo 文档片段仓储实现
type ChunkRepo struct {
	db *gorm.DB
}

var _ repository.ChunkRepository = (*ChunkRepo)(nil)

// NewChunkRepo 创建片段仓储
func NewChunkRepo(db *gorm.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// CreateBatch 批量保存片段
func (r *ChunkRepo) CreateBatch(ctx context.Context, chunks []*entity.Chunk) error {
	ctx, span := tracer.Start(ctx, "ChunkRepo.CreateBatch")
	defer span.End()

	if len(chunks) == 0 {
		return nil
	}
	if err := DBFromContext(ctx, r.db).CreateInBatches(chunks, 100).Error; err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to create chunks")
	}
	return nil
}

// ListByDocument 列出文档的全部片段
func (r *ChunkRepo) ListByDocument(ctx context.Context, documentID string) ([]*entity.Chunk, error) {
	ctx, span := tracer.Start(ctx, "ChunkRepo.ListByDocument")
	defer span.End()

	var chunks []*entity.Chunk
	err := DBFromContext(ctx, r.db).
		Where("document_id = ?", documentID).
		Order("chunk_index ASC").
		Find(&chunks).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to list chunks")
	}
	return chunks, nil
}
