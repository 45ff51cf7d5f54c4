// Package llm 提供大语言模型访问能力
package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"rag-interview-api/internal/config"
	"rag-interview-api/pkg/errors"
	"rag-interview-api/pkg/metrics"
)

var tracer = otel.Tracer("llm")

// Factory 管理多个 Eino ChatModel 客户端实例
type Factory struct {
	config *config.LLMConfig
	models map[string]model.BaseChatModel
	mu     sync.RWMutex
}

// NewFactory 创建 LLM 工厂
func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		config: &cfg.LLM,
		models: make(map[string]model.BaseChatModel),
	}
}

// Get 获取指定名称的 ChatModel，如果未指定则返回默认客户端
func (f *Factory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	if name == "" {
		name = f.config.DefaultProvider
	}

	f.mu.RLock()
	m, ok := f.models[name]
	f.mu.RUnlock()
	if ok {
		return m, nil
	}

	// 惰性加载
	f.mu.Lock()
	defer f.mu.Unlock()

	// 再次检查防止竞态
	if m, ok = f.models[name]; ok {
		return m, nil
	}

	providerCfg, ok := f.config.Providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %s not found in LLM config", name)
	}

	// 使用 Eino 的 OpenAI 适配器
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      providerCfg.APIKey,
		BaseURL:     providerCfg.BaseURL,
		Model:       providerCfg.Model,
		MaxTokens:   &providerCfg.MaxTokens,
		Temperature: ptrFloat32(float32(providerCfg.Temperature)),
		Timeout:     providerCfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model for %s: %w", name, err)
	}

	f.models[name] = chatModel
	return chatModel, nil
}

// Default 返回默认 ChatModel
func (f *Factory) Default(ctx context.Context) (model.BaseChatModel, error) {
	return f.Get(ctx, "")
}

// Generator 文本生成接口
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Client 基于工厂的文本生成客户端
type Client struct {
	factory  *Factory
	provider string
	model    string
}

var _ Generator = (*Client)(nil)

// NewClient 创建文本生成客户端
func NewClient(factory *Factory) *Client {
	provider := factory.config.DefaultProvider
	modelName := ""
	if cfg, ok := factory.config.Providers[provider]; ok {
		modelName = cfg.Model
	}
	return &Client{
		factory:  factory,
		provider: provider,
		model:    modelName,
	}
}

// Generate 生成文本
func (c *Client) Generate(ctx context.Context, system, user string) (string, error) {
	ctx, span := tracer.Start(ctx, "llm.Generate",
		trace.WithAttributes(
			attribute.String("provider", c.provider),
			attribute.String("model", c.model),
		))
	defer span.End()

	chatModel, err := c.factory.Default(ctx)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeLLMProviderError, "failed to get chat model")
	}

	messages := make([]*schema.Message, 0, 2)
	if system != "" {
		messages = append(messages, schema.SystemMessage(system))
	}
	messages = append(messages, schema.UserMessage(user))

	start := time.Now()
	resp, err := chatModel.Generate(ctx, messages)
	duration := time.Since(start)

	metrics.LLMCallDuration.WithLabelValues(c.provider, c.model).Observe(duration.Seconds())

	if err != nil {
		span.RecordError(err)
		metrics.LLMCallTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		return "", errors.Wrap(err, errors.CodeGenerationFailed, "llm generation failed")
	}

	metrics.LLMCallTotal.WithLabelValues(c.provider, c.model, "success").Inc()
	span.SetAttributes(attribute.Int("response_length", len(resp.Content)))
	return resp.Content, nil
}

func ptrFloat32(f float32) *float32 {
	return &f
}
