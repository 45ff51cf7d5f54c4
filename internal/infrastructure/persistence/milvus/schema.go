// Package milvus 提供 Milvus 向量数据库访问层实现
package milvus

import (
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	// CollectionDocumentChunks 文档片段集合
	CollectionDocumentChunks = "document_chunks"

	// VectorDimension 向量维度
	VectorDimension = 768
)

// DocumentChunksSchema 文档片段 Collection Schema
func DocumentChunksSchema() *entity.Schema {
	return &entity.Schema{
		CollectionName: CollectionDocumentChunks,
		Description:    "Document chunks for semantic retrieval",
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "vector",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": "768",
				},
			},
			{
				Name:     "document_id",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "chunk_index",
				DataType: entity.FieldTypeInt64,
			},
			{
				Name:     "filename",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "512",
				},
			},
			{
				Name:     "text_content",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "65535",
				},
			},
		},
	}
}

// ChunkRecord 向量库中的片段数据结构
type ChunkRecord struct {
	ID          string    `json:"id"`
	Vector      []float32 `json:"vector"`
	DocumentID  string    `json:"document_id"`
	ChunkIndex  int64     `json:"chunk_index"`
	Filename    string    `json:"filename"`
	TextContent string    `json:"text_content"`
}
