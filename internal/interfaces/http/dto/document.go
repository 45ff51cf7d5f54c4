package dto

import (
	"time"

	"rag-interview-api/internal/application/booking"
	"rag-interview-api/internal/domain/entity"
)

// UploadResponse 文档上传响应
type UploadResponse struct {
	DocumentID          string                `json:"document_id"`
	ChunksCreated       int                   `json:"chunks_created"`
	ExtractedInterviews []*booking.Resolution `json:"extracted_interviews"`
}

// DocumentResponse 文档详情响应
type DocumentResponse struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Strategy    string    `json:"strategy"`
	Status      string    `json:"status"`
	ChunkCount  int       `json:"chunk_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewDocumentResponse 从实体构建文档响应
func NewDocumentResponse(doc *entity.Document) DocumentResponse {
	return DocumentResponse{
		ID:          doc.ID,
		Filename:    doc.Filename,
		ContentType: doc.ContentType,
		Strategy:    string(doc.Strategy),
		Status:      string(doc.Status),
		ChunkCount:  doc.ChunkCount,
		CreatedAt:   doc.CreatedAt,
	}
}

// NewDocumentListResponse 从实体列表构建文档响应列表
func NewDocumentListResponse(docs []*entity.Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, NewDocumentResponse(doc))
	}
	return out
}
