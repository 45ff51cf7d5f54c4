package repository

import (
	"context"

	"rag-interview-api/internal/domain/entity"
)

// DocumentRepository 文档仓储接口
type DocumentRepository interface {
	// Create 保存文档
	Create(ctx context.Context, doc *entity.Document) error
	// GetByID 根据 ID 查询文档
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	// GetLatest 返回最近摄取的文档
	GetLatest(ctx context.Context) (*entity.Document, error)
	// UpdateStatus 更新文档状态和片段数
	UpdateStatus(ctx context.Context, id string, status entity.DocumentStatus, chunkCount int) error
	// List 分页列出文档，按创建时间倒序
	List(ctx context.Context, page Pagination) (*PagedResult[*entity.Document], error)
}

// ChunkRepository 文档片段仓储接口
type ChunkRepository interface {
	// CreateBatch 批量保存片段
	CreateBatch(ctx context.Context, chunks []*entity.Chunk) error
	// ListByDocument 列出文档的全部片段，按序号升序
	ListByDocument(ctx context.Context, documentID string) ([]*entity.Chunk, error)
}
