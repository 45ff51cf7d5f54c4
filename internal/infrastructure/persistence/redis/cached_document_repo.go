package redis

import (
	"context"
	"encoding/json"
	"time"

	"rag-interview-api/internal/domain/entity"
	"rag-interview-api/internal/domain/repository"
	"rag-interview-api/pkg/logger"
)

const (
	latestDocumentKey = "documents:latest"
	latestDocumentTTL = 5 * time.Minute
)

// CachedDocumentRepo 文档仓储的缓存装饰器。预约补全流程每次都读
// 最新简历，GetLatest 用 singleflight 缓存兜住；写操作使缓存失效。
type CachedDocumentRepo struct {
	inner repository.DocumentRepository
	cache *Cache
}

var _ repository.DocumentRepository = (*CachedDocumentRepo)(nil)

// NewCachedDocumentRepo 创建带缓存的文档仓储
func NewCachedDocumentRepo(inner repository.DocumentRepository, cache *Cache) *CachedDocumentRepo {
	return &CachedDocumentRepo{
		inner: inner,
		cache: cache,
	}
}

// Create 保存文档并使最新文档缓存失效
func (r *CachedDocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	if err := r.inner.Create(ctx, doc); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// GetByID 根据 ID 查询文档
func (r *CachedDocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	return r.inner.GetByID(ctx, id)
}

// GetLatest 查询最近上传的文档，读穿缓存
func (r *CachedDocumentRepo) GetLatest(ctx context.Context) (*entity.Document, error) {
	raw, err := r.cache.GetOrLoadSafe(ctx, latestDocumentKey, latestDocumentTTL, func() (interface{}, error) {
		doc, err := r.inner.GetLatest(ctx)
		if err != nil {
			return nil, err
		}
		// Content 带 json:"-"，缓存形态需单独建模才能携带正文
		return fromEntity(doc), nil
	})
	if err != nil {
		// 缓存路径失败时直接回源
		return r.inner.GetLatest(ctx)
	}

	var doc cachedDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return r.inner.GetLatest(ctx)
	}
	return doc.toEntity(), nil
}

// UpdateStatus 更新文档状态并使最新文档缓存失效
func (r *CachedDocumentRepo) UpdateStatus(ctx context.Context, id string, status entity.DocumentStatus, chunkCount int) error {
	if err := r.inner.UpdateStatus(ctx, id, status, chunkCount); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// List 分页列出文档
func (r *CachedDocumentRepo) List(ctx context.Context, page repository.Pagination) (*repository.PagedResult[*entity.Document], error) {
	return r.inner.List(ctx, page)
}

func (r *CachedDocumentRepo) invalidate(ctx context.Context) {
	if err := r.cache.Delete(ctx, latestDocumentKey); err != nil {
		logger.Warn(ctx, "failed to invalidate latest document cache", "error", err.Error())
	}
}

// cachedDocument 缓存中的文档形态，正文随缓存一起保存
type cachedDocument struct {
	ID          string                `json:"id"`
	Filename    string                `json:"filename"`
	ContentType string                `json:"content_type"`
	Content     string                `json:"content"`
	Strategy    entity.ChunkStrategy  `json:"strategy"`
	Status      entity.DocumentStatus `json:"status"`
	ChunkCount  int                   `json:"chunk_count"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

func fromEntity(doc *entity.Document) cachedDocument {
	return cachedDocument{
		ID:          doc.ID,
		Filename:    doc.Filename,
		ContentType: doc.ContentType,
		Content:     doc.Content,
		Strategy:    doc.Strategy,
		Status:      doc.Status,
		ChunkCount:  doc.ChunkCount,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

func (d cachedDocument) toEntity() *entity.Document {
	return &entity.Document{
		ID:          d.ID,
		Filename:    d.Filename,
		ContentType: d.ContentType,
		Content:     d.Content,
		Strategy:    d.Strategy,
		Status:      d.Status,
		ChunkCount:  d.ChunkCount,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
