// Package milvus 提供 Milvus 向量数据库访问层实现
package milvus

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"rag-interview-api/pkg/logger"
)

// Repository 向量检索仓储
type Repository struct {
	client *Client
}

// NewRepository 创建向量检索仓储
func NewRepository(client *Client) *Repository {
	return &Repository{client: client}
}

// SearchParams 检索参数
type SearchParams struct {
	QueryVector []float32
	TopK        int
	DocumentID  string
}

// SearchResult 检索结果
type SearchResult struct {
	ID          string
	Score       float32
	DocumentID  string
	ChunkIndex  int64
	Filename    string
	TextContent string
}

// CreateCollection 创建集合
func (r *Repository) CreateCollection(ctx context.Context, schema *entity.Schema) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.CreateCollection",
		trace.WithAttributes(attribute.String("collection", schema.CollectionName)))
	defer span.End()

	collName := r.client.CollectionName(schema.CollectionName)
	schema.CollectionName = collName

	err := r.client.milvus.CreateCollection(ctx, schema, entity.DefaultShardNumber)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// CreateIndex 创建 HNSW 索引
func (r *Repository) CreateIndex(ctx context.Context, collection string) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.CreateIndex",
		trace.WithAttributes(attribute.String("collection", collection)))
	defer span.End()

	collName := r.client.CollectionName(collection)

	idx, err := entity.NewIndexHNSW(
		entity.COSINE,
		r.client.config.HNSWM,
		r.client.config.HNSWEfConstruction,
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create index: %w", err)
	}

	err = r.client.milvus.CreateIndex(ctx, collName, "vector", idx, false)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

// InsertChunks 插入文档片段
func (r *Repository) InsertChunks(ctx context.Context, records []*ChunkRecord) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.InsertChunks",
		trace.WithAttributes(attribute.Int("count", len(records))))
	defer span.End()

	if len(records) == 0 {
		return nil
	}

	collName := r.client.CollectionName(CollectionDocumentChunks)

	// 准备数据
	ids := make([]string, len(records))
	vectors := make([][]float32, len(records))
	documentIDs := make([]string, len(records))
	chunkIndexes := make([]int64, len(records))
	filenames := make([]string, len(records))
	textContents := make([]string, len(records))

	for i, rec := range records {
		ids[i] = rec.ID
		vectors[i] = rec.Vector
		documentIDs[i] = rec.DocumentID
		chunkIndexes[i] = rec.ChunkIndex
		filenames[i] = rec.Filename
		textContents[i] = rec.TextContent
	}

	// 构建列
	idCol := entity.NewColumnVarChar("id", ids)
	vectorCol := entity.NewColumnFloatVector("vector", VectorDimension, vectors)
	docCol := entity.NewColumnVarChar("document_id", documentIDs)
	indexCol := entity.NewColumnInt64("chunk_index", chunkIndexes)
	fileCol := entity.NewColumnVarChar("filename", filenames)
	textCol := entity.NewColumnVarChar("text_content", textContents)

	// 插入
	_, err := r.client.milvus.Insert(ctx, collName, "",
		idCol, vectorCol, docCol, indexCol, fileCol, textCol)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to insert chunks: %w", err)
	}

	return nil
}

// SearchChunks 检索文档片段
func (r *Repository) SearchChunks(ctx context.Context, params *SearchParams) ([]*SearchResult, error) {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return nil, fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.SearchChunks",
		trace.WithAttributes(attribute.Int("top_k", params.TopK)))
	defer span.End()

	collName := r.client.CollectionName(CollectionDocumentChunks)

	// 构建过滤表达式
	filter := ""
	if params.DocumentID != "" {
		filter = fmt.Sprintf(`document_id == "%s"`, params.DocumentID)
	}

	// 搜索参数
	sp, err := entity.NewIndexHNSWSearchParam(128)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create search param: %w", err)
	}

	// 执行搜索
	results, err := r.client.milvus.Search(ctx,
		collName,
		nil,
		filter,
		[]string{"id", "document_id", "chunk_index", "filename", "text_content"},
		[]entity.Vector{entity.FloatVector(params.QueryVector)},
		"vector",
		entity.COSINE,
		params.TopK,
		sp,
	)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	// 解析结果
	var searchResults []*SearchResult
	for _, result := range results {
		for i := 0; i < result.ResultCount; i++ {
			sr := &SearchResult{
				Score: result.Scores[i],
			}

			// 提取字段值
			if idCol, ok := result.Fields.GetColumn("id").(*entity.ColumnVarChar); ok {
				sr.ID = idCol.Data()[i]
			}
			if docCol, ok := result.Fields.GetColumn("document_id").(*entity.ColumnVarChar); ok {
				sr.DocumentID = docCol.Data()[i]
			}
			if indexCol, ok := result.Fields.GetColumn("chunk_index").(*entity.ColumnInt64); ok {
				sr.ChunkIndex = indexCol.Data()[i]
			}
			if fileCol, ok := result.Fields.GetColumn("filename").(*entity.ColumnVarChar); ok {
				sr.Filename = fileCol.Data()[i]
			}
			if textCol, ok := result.Fields.GetColumn("text_content").(*entity.ColumnVarChar); ok {
				sr.TextContent = textCol.Data()[i]
			}

			searchResults = append(searchResults, sr)
		}
	}

	span.SetAttributes(attribute.Int("result_count", len(searchResults)))
	return searchResults, nil
}

// DeleteByDocument 删除文档的所有片段
func (r *Repository) DeleteByDocument(ctx context.Context, documentID string) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.DeleteByDocument",
		trace.WithAttributes(attribute.String("document_id", documentID)))
	defer span.End()

	collName := r.client.CollectionName(CollectionDocumentChunks)
	filter := fmt.Sprintf(`document_id == "%s"`, documentID)

	err := r.client.milvus.Delete(ctx, collName, "", filter)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete chunks: %w", err)
	}

	return nil
}

// EnsureDocumentChunksCollection 确保 document_chunks 集合与索引可用（不存在则创建）。
// 约束：不会做 drop/rebuild 等破坏性操作。
func (r *Repository) EnsureDocumentChunksCollection(ctx context.Context) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}

	exists, err := r.client.HasCollection(ctx, CollectionDocumentChunks)
	if err != nil {
		return err
	}
	if !exists {
		if err := r.CreateCollection(ctx, DocumentChunksSchema()); err != nil {
			return err
		}
		// 新建集合时创建索引；失败不致命，允许后续由运维介入
		if err := r.CreateIndex(ctx, CollectionDocumentChunks); err != nil {
			logger.Warn(ctx, "failed to create vector index, collection left unindexed",
				"collection", CollectionDocumentChunks,
				"error", err.Error(),
			)
		}
	}

	// 尝试确保集合已加载（若已加载，Milvus 会返回成功）
	return r.client.LoadCollection(ctx, CollectionDocumentChunks)
}
