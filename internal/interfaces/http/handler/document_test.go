package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"rag-interview-api/internal/application/booking"
	"rag-interview-api/internal/application/document"
	"rag-interview-api/internal/domain/entity"
	"rag-interview-api/internal/domain/repository"
	"rag-interview-api/internal/infrastructure/persistence/vector"
	apperrors "rag-interview-api/pkg/errors"
)

type memDocRepo struct {
	docs []*entity.Document
}

func (m *memDocRepo) Create(_ context.Context, doc *entity.Document) error {
	m.docs = append(m.docs, doc)
	return nil
}

func (m *memDocRepo) GetByID(_ context.Context, id string) (*entity.Document, error) {
	for _, doc := range m.docs {
		if doc.ID == id {
			return doc, nil
		}
	}
	return nil, apperrors.ErrDocumentNotFound
}

func (m *memDocRepo) GetLatest(_ context.Context) (*entity.Document, error) {
	if len(m.docs) == 0 {
		return nil, apperrors.ErrDocumentNotFound
	}
	return m.docs[len(m.docs)-1], nil
}

func (m *memDocRepo) UpdateStatus(_ context.Context, id string, status entity.DocumentStatus, chunkCount int) error {
	for _, doc := range m.docs {
		if doc.ID == id {
			doc.Status = status
			doc.ChunkCount = chunkCount
		}
	}
	return nil
}

func (m *memDocRepo) List(_ context.Context, _ repository.Pagination) (*repository.PagedResult[*entity.Document], error) {
	return &repository.PagedResult[*entity.Document]{Items: m.docs, Total: int64(len(m.docs))}, nil
}

type memChunkRepo struct{}

func (memChunkRepo) CreateBatch(_ context.Context, _ []*entity.Chunk) error { return nil }
func (memChunkRepo) ListByDocument(_ context.Context, _ string) ([]*entity.Chunk, error) {
	return nil, nil
}

type stubDocEmbedder struct{}

func (stubDocEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

type stubUpserter struct{}

func (stubUpserter) Upsert(_ context.Context, _ []vector.Record) error { return nil }

type stubExtractor struct{}

func (stubExtractor) ExtractFromDocument(_ context.Context, _, _ string) []*booking.Resolution {
	return nil
}

func newDocumentRouter(maxBytes int64) (*gin.Engine, *memDocRepo) {
	gin.SetMode(gin.TestMode)
	docs := &memDocRepo{}
	svc := document.NewService(docs, memChunkRepo{}, stubDocEmbedder{}, stubUpserter{}, stubExtractor{})
	h := NewDocumentHandler(svc, maxBytes)

	r := gin.New()
	r.POST("/v1/documents", h.Upload)
	r.GET("/v1/documents", h.List)
	r.GET("/v1/documents/:id", h.Get)
	return r, docs
}

func uploadFile(t *testing.T, r *gin.Engine, filename, contentType, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadIngestsTextDocument(t *testing.T) {
	r, docs := newDocumentRouter(10 << 20)

	w := uploadFile(t, r, "cv.txt", "text/plain", "John Smith is a software engineer with ten years of experience.")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			DocumentID    string `json:"document_id"`
			ChunksCreated int    `json:"chunks_created"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Data.DocumentID == "" || resp.Data.ChunksCreated != 1 {
		t.Errorf("unexpected upload response: %+v", resp.Data)
	}
	if len(docs.docs) != 1 || docs.docs[0].Status != entity.DocumentStatusIndexed {
		t.Errorf("expected indexed document, got %+v", docs.docs)
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	r, _ := newDocumentRouter(10 << 20)

	w := uploadFile(t, r, "cv.pdf", "application/pdf", "%PDF-1.4")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported type, got %d", w.Code)
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	r, _ := newDocumentRouter(64)

	w := uploadFile(t, r, "big.txt", "text/plain", strings.Repeat("a", 128))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 for oversized file, got %d", w.Code)
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	r, _ := newDocumentRouter(10 << 20)

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
