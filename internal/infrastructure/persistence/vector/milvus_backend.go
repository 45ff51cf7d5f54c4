package vector

import (
	"context"

	"rag-interview-api/internal/infrastructure/persistence/milvus"
)

// MilvusBackend 将 Milvus 仓储适配为向量存储后端
type MilvusBackend struct {
	repo *milvus.Repository
}

var _ Backend = (*MilvusBackend)(nil)

// NewMilvusBackend 创建 Milvus 后端
func NewMilvusBackend(repo *milvus.Repository) *MilvusBackend {
	return &MilvusBackend{repo: repo}
}

// Upsert 写入记录
func (b *MilvusBackend) Upsert(ctx context.Context, records []Record) error {
	chunkRecords := make([]*milvus.ChunkRecord, len(records))
	for i, rec := range records {
		chunkRecords[i] = &milvus.ChunkRecord{
			ID:          rec.ID,
			Vector:      rec.Embedding,
			DocumentID:  rec.DocumentID,
			ChunkIndex:  int64(rec.ChunkIndex),
			Filename:    rec.Filename,
			TextContent: rec.Text,
		}
	}
	return b.repo.InsertChunks(ctx, chunkRecords)
}

// Search 检索记录
func (b *MilvusBackend) Search(ctx context.Context, query []float32, topK int, documentID string) ([]Match, error) {
	results, err := b.repo.SearchChunks(ctx, &milvus.SearchParams{
		QueryVector: query,
		TopK:        topK,
		DocumentID:  documentID,
	})
	if err != nil {
		return nil, err
	}

	matches := make([]Match, len(results))
	for i, res := range results {
		matches[i] = Match{
			Record: Record{
				ID:         res.ID,
				DocumentID: res.DocumentID,
				ChunkIndex: int(res.ChunkIndex),
				Filename:   res.Filename,
				Text:       res.TextContent,
			},
			Score: res.Score,
		}
	}
	return matches, nil
}

// DeleteByDocument 删除文档的所有记录
func (b *MilvusBackend) DeleteByDocument(ctx context.Context, documentID string) error {
	return b.repo.DeleteByDocument(ctx, documentID)
}
