// Package entity 定义领域实体
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChunkStrategy 文档切分策略
type ChunkStrategy string

const (
	// ChunkStrategyFixedSize 固定大小切分，带句子边界吸附和重叠
	ChunkStrategyFixedSize ChunkStrategy = "fixed_size"
	// ChunkStrategySemantic 语义切分，按段落累积
	ChunkStrategySemantic ChunkStrategy = "semantic"
)

// DocumentStatus 文档处理状态
type DocumentStatus string

const (
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusIndexed    DocumentStatus = "indexed"
	DocumentStatusFailed     DocumentStatus = "failed"
)

// Document 已摄取的文档
type Document struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	Filename    string         `gorm:"type:varchar(512);not null" json:"filename"`
	ContentType string         `gorm:"type:varchar(128);not null" json:"content_type"`
	Content     string         `gorm:"type:text;not null" json:"-"`
	Strategy    ChunkStrategy  `gorm:"type:varchar(32);not null" json:"strategy"`
	Status      DocumentStatus `gorm:"type:varchar(32);not null;default:'processing'" json:"status"`
	ChunkCount  int            `gorm:"not null;default:0" json:"chunk_count"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (Document) TableName() string {
	return "documents"
}

// NewDocument 创建新文档
func NewDocument(filename, contentType, content string, strategy ChunkStrategy) *Document {
	return &Document{
		ID:          uuid.New().String(),
		Filename:    filename,
		ContentType: contentType,
		Content:     content,
		Strategy:    strategy,
		Status:      DocumentStatusProcessing,
	}
}

// Chunk 文档切分后的片段
type Chunk struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID string    `gorm:"type:uuid;not null;index" json:"document_id"`
	Index      int       `gorm:"column:chunk_index;not null" json:"index"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	CharStart  int       `gorm:"not null" json:"char_start"`
	CharEnd    int       `gorm:"not null" json:"char_end"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (Chunk) TableName() string {
	return "document_chunks"
}

// NewChunk 创建新片段
func NewChunk(documentID string, index int, text string, charStart, charEnd int) *Chunk {
	return &Chunk{
		ID:         uuid.New().String(),
		DocumentID: documentID,
		Index:      index,
		Text:       text,
		CharStart:  charStart,
		CharEnd:    charEnd,
	}
}
