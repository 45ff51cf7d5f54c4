package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"rag-interview-api/internal/domain/entity"
	"rag-interview-api/internal/infrastructure/persistence/vector"
)

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	return f.vector, f.err
}

type fakeSearcher struct {
	matches []vector.Match
	err     error
}

func (f *fakeSearcher) Search(_ context.Context, _ []float32, _ int, _ string) ([]vector.Match, error) {
	return f.matches, f.err
}

type fakeGenerator struct {
	answer     string
	err        error
	lastPrompt string
}

func (f *fakeGenerator) Generate(_ context.Context, _, user string) (string, error) {
	f.lastPrompt = user
	return f.answer, f.err
}

func sampleMatches() []vector.Match {
	return []vector.Match{
		{Record: vector.Record{Text: "Go experience", Filename: "cv.txt", DocumentID: "d1"}, Score: 0.9},
		{Record: vector.Record{Text: "Python projects", Filename: "cv.txt", DocumentID: "d1"}, Score: 0.8},
		{Record: vector.Record{Text: "Team lead role", Filename: "notes.md", DocumentID: "d2"}, Score: 0.7},
	}
}

func TestPipelineAnswer(t *testing.T) {
	gen := &fakeGenerator{answer: "The candidate knows Go."}
	p := NewPipeline(
		&fakeEmbedder{vector: []float32{1, 0}},
		&fakeSearcher{matches: sampleMatches()},
		gen,
		5,
	)

	result, err := p.Answer(context.Background(), "What languages?", "")
	if err != nil {
		t.Fatalf("answer returned error: %v", err)
	}
	if result.Answer != "The candidate knows Go." {
		t.Errorf("unexpected answer: %q", result.Answer)
	}
	if len(result.Sources) != 2 {
		t.Fatalf("expected 2 unique sources, got %d: %v", len(result.Sources), result.Sources)
	}
	if result.Sources[0] != "cv.txt" || result.Sources[1] != "notes.md" {
		t.Errorf("unexpected sources: %v", result.Sources)
	}
	if !strings.Contains(gen.lastPrompt, "Document 1:\nGo experience") {
		t.Errorf("prompt missing numbered document context:\n%s", gen.lastPrompt)
	}
	if !strings.Contains(gen.lastPrompt, "User Query: What languages?") {
		t.Errorf("prompt missing user query:\n%s", gen.lastPrompt)
	}
}

func TestPipelineGenerationFailureReturnsApology(t *testing.T) {
	p := NewPipeline(
		&fakeEmbedder{vector: []float32{1, 0}},
		&fakeSearcher{matches: sampleMatches()},
		&fakeGenerator{err: errors.New("model timeout")},
		5,
	)

	result, err := p.Answer(context.Background(), "anything", "")
	if err != nil {
		t.Fatalf("answer returned error: %v", err)
	}
	if !strings.Contains(result.Answer, "I apologize") {
		t.Errorf("expected apology answer, got %q", result.Answer)
	}
	if !strings.Contains(result.Answer, "model timeout") {
		t.Errorf("expected underlying error in answer, got %q", result.Answer)
	}
}

func TestPipelineEmbeddingFailure(t *testing.T) {
	p := NewPipeline(
		&fakeEmbedder{err: errors.New("embedding down")},
		&fakeSearcher{},
		&fakeGenerator{},
		5,
	)

	if _, err := p.Answer(context.Background(), "anything", ""); err == nil {
		t.Fatal("expected error when embedding fails")
	}
}

func TestPipelineSearchFailure(t *testing.T) {
	p := NewPipeline(
		&fakeEmbedder{vector: []float32{1, 0}},
		&fakeSearcher{err: errors.New("index down")},
		&fakeGenerator{},
		5,
	)

	if _, err := p.Answer(context.Background(), "anything", ""); err == nil {
		t.Fatal("expected error when search fails")
	}
}

func TestFormatHistoryChronological(t *testing.T) {
	now := time.Now()
	// 最新在前的输入
	turns := []entity.SessionTurn{
		{Question: "second q", Answer: "second a", CreatedAt: now},
		{Question: "first q", Answer: "first a", CreatedAt: now.Add(-time.Minute)},
	}

	history := FormatHistory(turns)

	firstIdx := strings.Index(history, "first q")
	secondIdx := strings.Index(history, "second q")
	if firstIdx == -1 || secondIdx == -1 {
		t.Fatalf("history missing turns:\n%s", history)
	}
	if firstIdx > secondIdx {
		t.Errorf("expected chronological order, got:\n%s", history)
	}
	if !strings.Contains(history, "User: first q\nAssistant: first a\n\n") {
		t.Errorf("unexpected history format:\n%s", history)
	}
}

func TestFormatHistoryEmpty(t *testing.T) {
	if got := FormatHistory(nil); got != "" {
		t.Errorf("expected empty history, got %q", got)
	}
}
