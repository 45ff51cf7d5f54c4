package chunking

import (
	"strings"
	"testing"

	"rag-interview-api/internal/domain/entity"
)

func TestChunkUnknownStrategy(t *testing.T) {
	_, err := Chunk("hello", entity.ChunkStrategy("bogus"))
	if err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestFixedSizeShortText(t *testing.T) {
	pieces, err := Chunk("short text", entity.ChunkStrategyFixedSize)
	if err != nil {
		t.Fatalf("chunk returned error: %v", err)
	}
	if len(pieces) != 1 {
		t.Fatalf("expected 1 piece, got %d", len(pieces))
	}
	if pieces[0].Text != "short text" {
		t.Errorf("unexpected piece text: %q", pieces[0].Text)
	}
}

func TestFixedSizeEmptyText(t *testing.T) {
	pieces, err := Chunk("", entity.ChunkStrategyFixedSize)
	if err != nil {
		t.Fatalf("chunk returned error: %v", err)
	}
	if len(pieces) != 0 {
		t.Fatalf("expected no pieces for empty text, got %d", len(pieces))
	}
}

func TestFixedSizeBreaksAtSentenceBoundary(t *testing.T) {
	// 句号位于 600..950 之间：窗口内最后一个句号在中点之后，应在那里截断
	sentence := strings.Repeat("a", 899) + ". "
	text := sentence + strings.Repeat("b", 1200)

	pieces, err := Chunk(text, entity.ChunkStrategyFixedSize)
	if err != nil {
		t.Fatalf("chunk returned error: %v", err)
	}
	if len(pieces) < 2 {
		t.Fatalf("expected at least 2 pieces, got %d", len(pieces))
	}
	if !strings.HasSuffix(pieces[0].Text, ".") {
		t.Errorf("expected first piece to end at sentence boundary, got suffix %q",
			pieces[0].Text[len(pieces[0].Text)-10:])
	}
}

func TestFixedSizeIgnoresEarlyPeriod(t *testing.T) {
	// 唯一句号在中点之前，不应作为截断点
	text := strings.Repeat("a", 100) + "." + strings.Repeat("b", 1500)

	pieces, err := Chunk(text, entity.ChunkStrategyFixedSize)
	if err != nil {
		t.Fatalf("chunk returned error: %v", err)
	}
	if len([]rune(pieces[0].Text)) != 1000 {
		t.Errorf("expected full-size first piece, got %d runes", len([]rune(pieces[0].Text)))
	}
}

func TestFixedSizeAdvancement(t *testing.T) {
	// 无句号文本：窗口走满 1000 字符，下一片段从窗口终点继续
	text := strings.Repeat("x", 2000)

	pieces, err := Chunk(text, entity.ChunkStrategyFixedSize)
	if err != nil {
		t.Fatalf("chunk returned error: %v", err)
	}
	if len(pieces) != 2 {
		t.Fatalf("expected 2 pieces, got %d", len(pieces))
	}
	if pieces[1].Start != 1000 {
		t.Errorf("expected second piece to start at 1000, got %d", pieces[1].Start)
	}
}

func TestFixedSizeMinimumStep(t *testing.T) {
	// 句号紧跟中点时窗口被截得很短，但下一起点仍至少前进 800 字符
	text := strings.Repeat("a", 550) + "." + strings.Repeat("b", 1500)

	pieces, err := Chunk(text, entity.ChunkStrategyFixedSize)
	if err != nil {
		t.Fatalf("chunk returned error: %v", err)
	}
	if len(pieces) < 2 {
		t.Fatalf("expected at least 2 pieces, got %d", len(pieces))
	}
	if pieces[0].End != 551 {
		t.Errorf("expected first piece to end after the period at 551, got %d", pieces[0].End)
	}
	if pieces[1].Start != 800 {
		t.Errorf("expected second piece to start at 800, got %d", pieces[1].Start)
	}
}

func TestSemanticGroupsParagraphs(t *testing.T) {
	text := "First paragraph.\n\nSecond paragraph.\n\nThird paragraph."

	pieces, err := Chunk(text, entity.ChunkStrategySemantic)
	if err != nil {
		t.Fatalf("chunk returned error: %v", err)
	}
	if len(pieces) != 1 {
		t.Fatalf("expected small paragraphs to merge into 1 piece, got %d", len(pieces))
	}
	if !strings.Contains(pieces[0].Text, "First paragraph.") ||
		!strings.Contains(pieces[0].Text, "Third paragraph.") {
		t.Errorf("merged piece missing paragraphs: %q", pieces[0].Text)
	}
}

func TestSemanticSplitsLargeParagraphs(t *testing.T) {
	para1 := strings.Repeat("a", 1000)
	para2 := strings.Repeat("b", 1000)
	text := para1 + "\n\n" + para2

	pieces, err := Chunk(text, entity.ChunkStrategySemantic)
	if err != nil {
		t.Fatalf("chunk returned error: %v", err)
	}
	if len(pieces) != 2 {
		t.Fatalf("expected 2 pieces, got %d", len(pieces))
	}
	if !strings.HasPrefix(pieces[0].Text, "a") || !strings.HasPrefix(pieces[1].Text, "b") {
		t.Errorf("pieces not split on paragraph boundary")
	}
}

func TestSemanticSkipsBlankParagraphs(t *testing.T) {
	text := "Alpha.\n\n   \n\nBeta."

	pieces, err := Chunk(text, entity.ChunkStrategySemantic)
	if err != nil {
		t.Fatalf("chunk returned error: %v", err)
	}
	if len(pieces) != 1 {
		t.Fatalf("expected 1 piece, got %d", len(pieces))
	}
	if strings.Contains(pieces[0].Text, "   ") {
		t.Errorf("blank paragraph leaked into piece: %q", pieces[0].Text)
	}
}

func TestSemanticWhitespaceOnlyFallsBack(t *testing.T) {
	// 全空白文本没有可用段落，走固定切分回退，结果仍为空
	pieces, err := Chunk("   \n\n   ", entity.ChunkStrategySemantic)
	if err != nil {
		t.Fatalf("chunk returned error: %v", err)
	}
	if len(pieces) != 0 {
		t.Fatalf("expected no pieces for whitespace-only text, got %d", len(pieces))
	}
}
