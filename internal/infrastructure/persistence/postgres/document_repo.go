package postgres

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"rag-interview-api/internal/domain/entity"
	"rag-interview-api/internal/domain/repository"
	"rag-interview-api/pkg/errors"
)

// DocumentRepo 文档仓储实现
type DocumentRepo struct {
	db *gorm.DB
}

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// NewDocumentRepo 创建文档仓储
func NewDocumentRepo(db *gorm.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Create 保存文档
func (r *DocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	ctx, span := tracer.Start(ctx, "DocumentRepo.Create")
	defer span.End()

	if err := DBFromContext(ctx, r.db).Create(doc).Error; err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to create document")
	}
	return nil
}

// GetByID 根据 ID 查询文档
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentRepo.GetByID")
	defer span.End()

	var doc entity.Document
	err := DBFromContext(ctx, r.db).Where("id = ?", id).First(&doc).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrDocumentNotFound
		}
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to get document")
	}
	return &doc, nil
}

// GetLatest 返回最近摄取的文档
func (r *DocumentRepo) GetLatest(ctx context.Context) (*entity.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentRepo.GetLatest")
	defer span.End()

	var doc entity.Document
	err := DBFromContext(ctx, r.db).Order("created_at DESC").First(&doc).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrDocumentNotFound
		}
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to get latest document")
	}
	return &doc, nil
}

// UpdateStatus 更新文档状态和片段数
func (r *DocumentRepo) UpdateStatus(ctx context.Context, id string, status entity.DocumentStatus, chunkCount int) error {
	ctx, span := tracer.Start(ctx, "DocumentRepo.UpdateStatus")
	defer span.End()

	result := DBFromContext(ctx, r.db).Model(&entity.Document{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      status,
			"chunk_count": chunkCount,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.CodeDatabaseError, "failed to update document status")
	}
	if result.RowsAffected == 0 {
		return errors.ErrDocumentNotFound
	}
	return nil
}

// List 分页列出文档
func (r *DocumentRepo) List(ctx context.Context, page repository.Pagination) (*repository.PagedResult[*entity.Document], error) {
	ctx, span := tracer.Start(ctx, "DocumentRepo.List")
	defer span.End()

	db := DBFromContext(ctx, r.db).Model(&entity.Document{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to count documents")
	}

	var docs []*entity.Document
	err := db.Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&docs).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to list documents")
	}

	return &repository.PagedResult[*entity.Document]{
		Items:    docs,
		Total:    total,
		Page:     page.Page,
		PageSize: page.Limit(),
	}, nil
}
