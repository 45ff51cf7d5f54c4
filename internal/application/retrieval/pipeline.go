// Package retrieval 提供检索增强生成（RAG）流水线
package retrieval

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"rag-interview-api/internal/infrastructure/persistence/vector"
)

var tracer = otel.Tracer("retrieval")

// RetrievedChunk 检索命中的文档片段
type RetrievedChunk struct {
	Text       string  `json:"text"`
	Filename   string  `json:"filename"`
	DocumentID string  `json:"document_id"`
	Score      float32 `json:"score"`
}

// QueryEmbedder 查询向量化接口
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Searcher 向量检索接口
type Searcher interface {
	Search(ctx context.Context, query []float32, topK int, documentID string) ([]vector.Match, error)
}

// Generator 文本生成接口
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Pipeline RAG 流水线：向量化查询、检索片段、生成回答
type Pipeline struct {
	embedder  QueryEmbedder
	searcher  Searcher
	generator Generator
	topK      int
}

// NewPipeline 创建 RAG 流水线
func NewPipeline(embedder QueryEmbedder, searcher Searcher, generator Generator, topK int) *Pipeline {
	if topK <= 0 {
		topK = 5
	}
	return &Pipeline{
		embedder:  embedder,
		searcher:  searcher,
		generator: generator,
		topK:      topK,
	}
}

// Result 流水线执行结果
type Result struct {
	Answer  string
	Sources []string
	Chunks  []RetrievedChunk
}

// Answer 执行完整的 RAG 流程
func (p *Pipeline) Answer(ctx context.Context, query, chatHistory string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "retrieval.Answer",
		trace.WithAttributes(attribute.Int("top_k", p.topK)))
	defer span.End()

	chunks, err := p.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}

	prompt := BuildPrompt(query, chunks, chatHistory)

	answer, err := p.generator.Generate(ctx, "", prompt)
	if err != nil {
		// 生成失败时返回道歉文案而不是错误，保持会话可继续
		span.RecordError(err)
		answer = fmt.Sprintf("I apologize, but I encountered an error while generating a response: %v", err)
	}

	return &Result{
		Answer:  answer,
		Sources: uniqueSources(chunks),
		Chunks:  chunks,
	}, nil
}

// Retrieve 向量化查询并检索最相关的片段
func (p *Pipeline) Retrieve(ctx context.Context, query string) ([]RetrievedChunk, error) {
	ctx, span := tracer.Start(ctx, "retrieval.Retrieve")
	defer span.End()

	queryVector, err := p.embedder.EmbedQuery(ctx, query)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	matches, err := p.searcher.Search(ctx, queryVector, p.topK, "")
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	chunks := make([]RetrievedChunk, len(matches))
	for i, m := range matches {
		chunks[i] = RetrievedChunk{
			Text:       m.Text,
			Filename:   m.Filename,
			DocumentID: m.DocumentID,
			Score:      m.Score,
		}
	}

	span.SetAttributes(attribute.Int("chunk_count", len(chunks)))
	return chunks, nil
}

// uniqueSources 提取去重后的来源文件名
func uniqueSources(chunks []RetrievedChunk) []string {
	seen := make(map[string]struct{})
	var sources []string
	for _, c := range chunks {
		if c.Filename == "" {
			continue
		}
		if _, ok := seen[c.Filename]; ok {
			continue
		}
		seen[c.Filename] = struct{}{}
		sources = append(sources, c.Filename)
	}
	return sources
}
