// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"gorm.io/gorm"

	"rag-interview-api/internal/application/booking"
	"rag-interview-api/internal/application/chat"
	"rag-interview-api/internal/application/document"
	"rag-interview-api/internal/application/extraction"
	"rag-interview-api/internal/application/retrieval"
	"rag-interview-api/internal/config"
	"rag-interview-api/internal/domain/repository"
	"rag-interview-api/internal/infrastructure/embedding"
	"rag-interview-api/internal/infrastructure/llm"
	"rag-interview-api/internal/infrastructure/persistence/milvus"
	"rag-interview-api/internal/infrastructure/persistence/postgres"
	"rag-interview-api/internal/infrastructure/persistence/redis"
	"rag-interview-api/internal/infrastructure/persistence/vector"
	"rag-interview-api/internal/interfaces/http/handler"
	"rag-interview-api/internal/interfaces/http/middleware"
	"rag-interview-api/internal/interfaces/http/router"
	"rag-interview-api/pkg/logger"
)

// Container 应用依赖容器
type Container struct {
	Config *config.Config

	DB          *gorm.DB
	RedisClient *redis.Client
	Milvus      *milvus.Client
	VectorStore *vector.Store

	DocumentRepo repository.DocumentRepository
	ChunkRepo    repository.ChunkRepository
	BookingRepo  repository.BookingRepository
	SessionLog   repository.SessionLog

	Embedder  *embedding.Client
	LLM       *llm.Client
	Retrieval *retrieval.Pipeline
	Booking   *booking.Service
	Extractor *extraction.Engine
	Chat      *chat.Service
	Documents *document.Service

	Router *router.Router
}

// Build 组装应用依赖。Postgres 为硬依赖；Milvus 和 Redis 连接
// 失败时分别回退到内存向量索引和内存会话日志。
func Build(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	// 数据层
	db, err := postgres.NewClient(ctx, cfg.Database.Postgres)
	if err != nil {
		return nil, err
	}
	if err := postgres.AutoMigrate(db); err != nil {
		return nil, err
	}
	c.DB = db

	txManager := postgres.NewTxManager(db)
	c.DocumentRepo = postgres.NewDocumentRepo(db)
	c.ChunkRepo = postgres.NewChunkRepo(db)
	c.BookingRepo = postgres.NewBookingRepo(db)

	// 向量索引：Milvus 不可用时回退到内存索引
	var backend vector.Backend
	milvusClient, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		logger.Warn(ctx, "milvus unavailable, using in-memory vector index", "error", err.Error())
	} else {
		repo := milvus.NewRepository(milvusClient)
		if err := repo.EnsureDocumentChunksCollection(ctx); err != nil {
			logger.Warn(ctx, "milvus collection setup failed, using in-memory vector index", "error", err.Error())
			_ = milvusClient.Close()
		} else {
			c.Milvus = milvusClient
			backend = vector.NewMilvusBackend(repo)
		}
	}
	c.VectorStore = vector.NewStore(backend)

	// 会话日志：Redis 不可用时回退到内存实现
	var rateLimiter middleware.RateLimiter
	redisClient, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Warn(ctx, "redis unavailable, using in-memory session log", "error", err.Error())
		c.SessionLog = redis.NewMemorySessionLog(cfg.Chat.SessionTTL, cfg.Chat.SessionMaxTurns)
	} else {
		c.RedisClient = redisClient
		c.SessionLog = redis.NewSessionLog(redisClient, cfg.Chat.SessionTTL, cfg.Chat.SessionMaxTurns)
		rateLimiter = redis.NewRateLimiter(redisClient)
		// 简历补全每次都要最新文档，读穿缓存挡住热点查询
		c.DocumentRepo = redis.NewCachedDocumentRepo(c.DocumentRepo, redis.NewCache(redisClient))
	}

	// 模型层
	embedder, err := embedding.NewEinoEmbedder(ctx, &cfg.Embedding)
	if err != nil {
		return nil, err
	}
	c.Embedder = embedding.NewClient(embedder, &cfg.Embedding)
	c.LLM = llm.NewClient(llm.NewFactory(cfg))

	// 应用层
	c.Retrieval = retrieval.NewPipeline(c.Embedder, c.VectorStore, c.LLM, cfg.Chat.TopK)
	c.Booking = booking.NewService(c.BookingRepo, txManager)
	c.Extractor = extraction.NewEngine(c.LLM, c.DocumentRepo, c.Booking, cfg.Documents.CVPrefixChars)
	c.Chat = chat.NewService(c.Retrieval, c.Extractor, c.SessionLog, cfg.Chat.HistoryLimit)
	c.Documents = document.NewService(c.DocumentRepo, c.ChunkRepo, c.Embedder, c.VectorStore, c.Extractor)

	// 接口层
	handlers := router.Handlers{
		Health:   handler.NewHealthHandler(db, c.RedisClient, c.Milvus, c.VectorStore),
		Document: handler.NewDocumentHandler(c.Documents, cfg.Documents.MaxUploadBytes),
		Chat:     handler.NewChatHandler(c.Chat),
		Booking:  handler.NewBookingHandler(c.Extractor, c.BookingRepo),
	}
	c.Router = router.New(cfg, handlers, rateLimiter)

	return c, nil
}

// Close 释放容器持有的连接
func (c *Container) Close(ctx context.Context) {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn(ctx, "failed to close redis client", "error", err.Error())
		}
	}
	if c.Milvus != nil {
		if err := c.Milvus.Close(); err != nil {
			logger.Warn(ctx, "failed to close milvus client", "error", err.Error())
		}
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warn(ctx, "failed to close postgres pool", "error", err.Error())
			}
		}
	}
}
