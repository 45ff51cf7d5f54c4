package postgres

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"rag-interview-api/internal/domain/entity"
	"rag-interview-api/internal/domain/repository"
	"rag-interview-api/pkg/errors"
)

// BookingRepo 预约仓储实现
type BookingRepo struct {
	db *gorm.DB
}

var _ repository.BookingRepository = (*BookingRepo)(nil)

// NewBookingRepo 创建预约仓储
func NewBookingRepo(db *gorm.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// Create 保存预约
func (r *BookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	ctx, span := tracer.Start(ctx, "BookingRepo.Create")
	defer span.End()

	if err := DBFromContext(ctx, r.db).Create(booking).Error; err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.ErrConflict
		}
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to create booking")
	}
	return nil
}

// GetByID 根据 ID 查询预约
func (r *BookingRepo) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	ctx, span := tracer.Start(ctx, "BookingRepo.GetByID")
	defer span.End()

	var booking entity.Booking
	err := DBFromContext(ctx, r.db).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrBookingNotFound
		}
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to get booking")
	}
	return &booking, nil
}

// FindByEmailAndDate 根据邮箱和日期查询预约
func (r *BookingRepo) FindByEmailAndDate(ctx context.Context, email, date string) (*entity.Booking, error) {
	ctx, span := tracer.Start(ctx, "BookingRepo.FindByEmailAndDate")
	defer span.End()

	var booking entity.Booking
	err := DBFromContext(ctx, r.db).
		Where("email = ? AND date = ?", email, date).
		First(&booking).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to find booking")
	}
	return &booking, nil
}

// List 分页列出预约
func (r *BookingRepo) List(ctx context.Context, page repository.Pagination) (*repository.PagedResult[*entity.Booking], error) {
	ctx, span := tracer.Start(ctx, "BookingRepo.List")
	defer span.End()

	db := DBFromContext(ctx, r.db).Model(&entity.Booking{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to count bookings")
	}

	var bookings []*entity.Booking
	err := db.Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&bookings).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to list bookings")
	}

	return &repository.PagedResult[*entity.Booking]{
		Items:    bookings,
		Total:    total,
		Page:     page.Page,
		PageSize: page.Limit(),
	}, nil
}
