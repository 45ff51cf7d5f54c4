package repository

import (
	"context"

	"rag-interview-api/internal/domain/entity"
)

// BookingRepository 预约仓储接口
type BookingRepository interface {
	// Create 保存预约
	Create(ctx context.Context, booking *entity.Booking) error
	// GetByID 根据 ID 查询预约
	GetByID(ctx context.Context, id string) (*entity.Booking, error)
	// FindByEmailAndDate 根据邮箱和日期查询预约，未找到时返回 nil
	FindByEmailAndDate(ctx context.Context, email, date string) (*entity.Booking, error)
	// List 分页列出预约，按创建时间倒序
	List(ctx context.Context, page Pagination) (*PagedResult[*entity.Booking], error)
}
