package document

import (
	"context"
	"errors"
	"strings"
	"testing"

	"rag-interview-api/internal/application/booking"
	"rag-interview-api/internal/domain/entity"
	"rag-interview-api/internal/domain/repository"
	"rag-interview-api/internal/infrastructure/persistence/vector"
	apperrors "rag-interview-api/pkg/errors"
)

type fakeDocRepo struct {
	created   []*entity.Document
	statuses  map[string]entity.DocumentStatus
	createErr error
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{statuses: make(map[string]entity.DocumentStatus)}
}

func (f *fakeDocRepo) Create(_ context.Context, doc *entity.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, doc)
	return nil
}

func (f *fakeDocRepo) GetByID(_ context.Context, id string) (*entity.Document, error) {
	for _, doc := range f.created {
		if doc.ID == id {
			return doc, nil
		}
	}
	return nil, apperrors.ErrDocumentNotFound
}

func (f *fakeDocRepo) GetLatest(_ context.Context) (*entity.Document, error) {
	if len(f.created) == 0 {
		return nil, apperrors.ErrDocumentNotFound
	}
	return f.created[len(f.created)-1], nil
}

func (f *fakeDocRepo) UpdateStatus(_ context.Context, id string, status entity.DocumentStatus, _ int) error {
	f.statuses[id] = status
	return nil
}

func (f *fakeDocRepo) List(_ context.Context, _ repository.Pagination) (*repository.PagedResult[*entity.Document], error) {
	return &repository.PagedResult[*entity.Document]{Items: f.created, Total: int64(len(f.created))}, nil
}

type fakeChunkRepo struct {
	batches [][]*entity.Chunk
	err     error
}

func (f *fakeChunkRepo) CreateBatch(_ context.Context, chunks []*entity.Chunk) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, chunks)
	return nil
}

func (f *fakeChunkRepo) ListByDocument(_ context.Context, _ string) ([]*entity.Chunk, error) {
	return nil, nil
}

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

type fakeUpserter struct {
	records []vector.Record
	err     error
}

func (f *fakeUpserter) Upsert(_ context.Context, records []vector.Record) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, records...)
	return nil
}

type fakeExtractor struct {
	resolutions []*booking.Resolution
	lastText    string
}

func (f *fakeExtractor) ExtractFromDocument(_ context.Context, textContent, _ string) []*booking.Resolution {
	f.lastText = textContent
	return f.resolutions
}

func newTestService() (*Service, *fakeDocRepo, *fakeChunkRepo, *fakeUpserter, *fakeExtractor) {
	docs := newFakeDocRepo()
	chunks := &fakeChunkRepo{}
	store := &fakeUpserter{}
	extractor := &fakeExtractor{}
	svc := NewService(docs, chunks, &fakeEmbedder{}, store, extractor)
	return svc, docs, chunks, store, extractor
}

func TestIngestIndexesDocument(t *testing.T) {
	svc, docs, chunks, store, extractor := newTestService()
	extractor.resolutions = []*booking.Resolution{
		{BookingID: "b-1", Status: entity.BookingStatusNewlyBooked},
	}

	result, err := svc.Ingest(context.Background(), "cv.txt", "text/plain",
		"John Smith is a software engineer.", entity.ChunkStrategyFixedSize)
	if err != nil {
		t.Fatalf("ingest returned error: %v", err)
	}
	if result.DocumentID == "" {
		t.Error("expected document ID")
	}
	if result.ChunksCreated != 1 {
		t.Errorf("expected 1 chunk, got %d", result.ChunksCreated)
	}
	if len(result.ExtractedBookings) != 1 {
		t.Errorf("expected extracted booking to be returned, got %d", len(result.ExtractedBookings))
	}
	if docs.statuses[result.DocumentID] != entity.DocumentStatusIndexed {
		t.Errorf("expected indexed status, got %s", docs.statuses[result.DocumentID])
	}
	if len(store.records) != 1 || store.records[0].Filename != "cv.txt" {
		t.Errorf("unexpected vector records: %+v", store.records)
	}
	if len(chunks.batches) != 1 || len(chunks.batches[0]) != 1 {
		t.Fatalf("unexpected chunk batches: %+v", chunks.batches)
	}
	if chunks.batches[0][0].ID != store.records[0].ID {
		t.Error("chunk row and vector record should share IDs")
	}
}

func TestIngestRejectsUnsupportedContentType(t *testing.T) {
	svc, docs, _, _, _ := newTestService()

	_, err := svc.Ingest(context.Background(), "cv.pdf", "application/pdf", "content", entity.ChunkStrategyFixedSize)
	if err == nil {
		t.Fatal("expected error for unsupported content type")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeUnsupportedInput {
		t.Errorf("expected unsupported input error, got %v", err)
	}
	if len(docs.created) != 0 {
		t.Error("document should not be created for rejected upload")
	}
}

func TestIngestAcceptsContentTypeWithCharset(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	if _, err := svc.Ingest(context.Background(), "notes.md", "text/markdown; charset=utf-8",
		"# Notes", entity.ChunkStrategySemantic); err != nil {
		t.Fatalf("expected charset parameter to be ignored, got %v", err)
	}
}

func TestIngestMarksFailedOnEmbeddingError(t *testing.T) {
	docs := newFakeDocRepo()
	svc := NewService(docs, &fakeChunkRepo{}, &fakeEmbedder{err: errors.New("provider down")},
		&fakeUpserter{}, &fakeExtractor{})

	_, err := svc.Ingest(context.Background(), "cv.txt", "text/plain", "some content", entity.ChunkStrategyFixedSize)
	if err == nil {
		t.Fatal("expected error when embedding fails")
	}
	if len(docs.created) != 1 {
		t.Fatalf("expected document row to exist, got %d", len(docs.created))
	}
	if docs.statuses[docs.created[0].ID] != entity.DocumentStatusFailed {
		t.Errorf("expected failed status, got %s", docs.statuses[docs.created[0].ID])
	}
}

func TestIngestMarksFailedOnUpsertError(t *testing.T) {
	docs := newFakeDocRepo()
	svc := NewService(docs, &fakeChunkRepo{}, &fakeEmbedder{},
		&fakeUpserter{err: errors.New("index down")}, &fakeExtractor{})

	if _, err := svc.Ingest(context.Background(), "cv.txt", "text/plain", "some content", entity.ChunkStrategyFixedSize); err == nil {
		t.Fatal("expected error when vector upsert fails")
	}
	if docs.statuses[docs.created[0].ID] != entity.DocumentStatusFailed {
		t.Errorf("expected failed status, got %s", docs.statuses[docs.created[0].ID])
	}
}

func TestIngestRejectsUnknownStrategy(t *testing.T) {
	svc, docs, _, _, _ := newTestService()

	_, err := svc.Ingest(context.Background(), "cv.txt", "text/plain", "content", entity.ChunkStrategy("clever"))
	if err == nil {
		t.Fatal("expected error for unknown strategy")
	}
	if docs.statuses[docs.created[0].ID] != entity.DocumentStatusFailed {
		t.Errorf("expected failed status, got %s", docs.statuses[docs.created[0].ID])
	}
}

func TestIngestPassesFullContentToExtractor(t *testing.T) {
	svc, _, _, _, extractor := newTestService()

	content := strings.Repeat("a", 1200) + ". tail paragraph"
	if _, err := svc.Ingest(context.Background(), "cv.txt", "text/plain", content, entity.ChunkStrategyFixedSize); err != nil {
		t.Fatalf("ingest returned error: %v", err)
	}
	if extractor.lastText != content {
		t.Error("extractor should receive the full document text, not chunks")
	}
}

func TestIngestNilExtractionResultBecomesEmptySlice(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	result, err := svc.Ingest(context.Background(), "cv.txt", "text/plain", "plain text", entity.ChunkStrategyFixedSize)
	if err != nil {
		t.Fatalf("ingest returned error: %v", err)
	}
	if result.ExtractedBookings == nil {
		t.Error("expected empty slice, not nil")
	}
}
