// Package embedding 提供文本向量化能力
package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino/components/embedding"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"rag-interview-api/internal/config"
	"rag-interview-api/pkg/errors"
	"rag-interview-api/pkg/metrics"
)

var tracer = otel.Tracer("embedding")

// 向量化角色，用于指标区分
const (
	RoleDocument = "document"
	RoleQuery    = "query"
)

// NewEinoEmbedder 创建基于 Eino 的 Embedder
func NewEinoEmbedder(ctx context.Context, cfg *config.EmbeddingConfig) (embedding.Embedder, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("embedding endpoint is required")
	}

	// 使用 Eino 的 OpenAI 适配器
	embedder, err := openai.NewEmbedder(ctx, &openai.EmbeddingConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.Endpoint,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create eino embedder: %w", err)
	}

	return embedder, nil
}

// Client 向量化客户端，封装维度校验和指标采集
type Client struct {
	embedder  embedding.Embedder
	dimension int
	batchSize int
}

// NewClient 创建向量化客户端
func NewClient(embedder embedding.Embedder, cfg *config.EmbeddingConfig) *Client {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 16
	}
	return &Client{
		embedder:  embedder,
		dimension: cfg.Dimension,
		batchSize: batchSize,
	}
}

// Dimension 返回向量维度
func (c *Client) Dimension() int {
	return c.dimension
}

// EmbedDocuments 批量向量化文档片段
func (c *Client) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return c.embed(ctx, texts, RoleDocument)
}

// EmbedQuery 向量化查询文本
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.embed(ctx, []string{text}, RoleQuery)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// embed 分批向量化并校验维度
func (c *Client) embed(ctx context.Context, texts []string, role string) ([][]float32, error) {
	ctx, span := tracer.Start(ctx, "embedding.Embed",
		trace.WithAttributes(
			attribute.String("role", role),
			attribute.Int("text_count", len(texts)),
		))
	defer span.End()

	if len(texts) == 0 {
		return nil, nil
	}

	start := time.Now()
	vectors := make([][]float32, 0, len(texts))

	for i := 0; i < len(texts); i += c.batchSize {
		end := i + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := c.embedder.EmbedStrings(ctx, texts[i:end])
		if err != nil {
			span.RecordError(err)
			metrics.EmbeddingCallTotal.WithLabelValues(role, "error").Inc()
			return nil, errors.Wrap(err, errors.CodeEmbeddingFailed, "failed to embed texts")
		}

		for _, vec := range batch {
			converted := make([]float32, len(vec))
			for j, v := range vec {
				converted[j] = float32(v)
			}
			if c.dimension > 0 && len(converted) != c.dimension {
				metrics.EmbeddingCallTotal.WithLabelValues(role, "error").Inc()
				return nil, errors.New(errors.CodeEmbeddingFailed,
					fmt.Sprintf("unexpected embedding dimension: got %d, want %d", len(converted), c.dimension))
			}
			vectors = append(vectors, converted)
		}
	}

	metrics.EmbeddingCallTotal.WithLabelValues(role, "success").Inc()
	metrics.EmbeddingCallDuration.WithLabelValues(role).Observe(time.Since(start).Seconds())
	return vectors, nil
}
