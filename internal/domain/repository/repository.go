// Package repository 定义领域仓储接口
package repository

import "context"

// Transactor 事务管理器接口
type Transactor interface {
	// WithTransaction 在事务中执行 fn，fn 返回错误时回滚
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Pagination 分页参数
type Pagination struct {
	Page     int
	PageSize int
}

// Offset 计算偏移量
func (p Pagination) Offset() int {
	if p.Page <= 0 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Limit 返回每页大小
func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// PagedResult 分页结果
type PagedResult[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}
