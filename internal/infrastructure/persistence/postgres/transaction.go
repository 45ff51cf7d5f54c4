package postgres

import (
	"context"

	"gorm.io/gorm"

	"rag-interview-api/internal/domain/repository"
)

// txKey 事务在 context 中的键类型
type txKey struct{}

// TxManager 基于 gorm 的事务管理器
type TxManager struct {
	db *gorm.DB
}

var _ repository.Transactor = (*TxManager)(nil)

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// WithTransaction 在事务中执行 fn
func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey{}, tx)
		return fn(txCtx)
	})
}

// DBFromContext 从 context 获取事务句柄，不存在时返回默认连接
func DBFromContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
