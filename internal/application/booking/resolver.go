// Package booking 提供面试预约的解析与去重
package booking

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"rag-interview-api/internal/domain/entity"
	"rag-interview-api/internal/domain/repository"
	"rag-interview-api/pkg/logger"
	"rag-interview-api/pkg/metrics"
)

var tracer = otel.Tracer("booking")

// Request 预约请求
type Request struct {
	Name     string
	Email    string
	Date     string
	Time     string
	Source   entity.BookingSource
	Filename string
	Context  string
}

// Details 预约详情
type Details struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Source    string `json:"source"`
	Filename  string `json:"filename,omitempty"`
	Context   string `json:"context,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Resolution 预约解析结果
type Resolution struct {
	BookingID string               `json:"booking_id"`
	Status    entity.BookingStatus `json:"status"`
	Details   Details              `json:"details"`
}

// Resolver 预约解析接口
type Resolver interface {
	Resolve(ctx context.Context, req Request) (*Resolution, error)
}

// Service 预约解析实现。同一邮箱同一日期最多一条预约：
// 已存在时返回 already_exists 和原记录，否则创建并返回 newly_booked。
type Service struct {
	repo       repository.BookingRepository
	transactor repository.Transactor
}

var _ Resolver = (*Service)(nil)

// NewService 创建预约解析服务
func NewService(repo repository.BookingRepository, transactor repository.Transactor) *Service {
	return &Service{
		repo:       repo,
		transactor: transactor,
	}
}

// Resolve 解析预约请求
func (s *Service) Resolve(ctx context.Context, req Request) (*Resolution, error) {
	ctx, span := tracer.Start(ctx, "booking.Resolve",
		trace.WithAttributes(
			attribute.String("source", string(req.Source)),
			attribute.String("date", req.Date),
		))
	defer span.End()

	var resolution *Resolution

	// 查重和创建放在同一事务，配合 (email, date) 唯一索引防止并发重复
	err := s.transactor.WithTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByEmailAndDate(txCtx, req.Email, req.Date)
		if err != nil {
			return err
		}

		if existing != nil {
			resolution = &Resolution{
				BookingID: existing.ID,
				Status:    entity.BookingStatusAlreadyExists,
				Details: Details{
					Name:      existing.Name,
					Email:     existing.Email,
					Date:      existing.Date,
					Time:      existing.Time,
					Source:    string(req.Source),
					Filename:  req.Filename,
					CreatedAt: existing.CreatedAt.Format(time.RFC3339),
				},
			}
			return nil
		}

		created := entity.NewBooking(req.Name, req.Email, req.Date, req.Time, req.Source)
		if err := s.repo.Create(txCtx, created); err != nil {
			return err
		}

		resolution = &Resolution{
			BookingID: created.ID,
			Status:    entity.BookingStatusNewlyBooked,
			Details: Details{
				Name:      created.Name,
				Email:     created.Email,
				Date:      created.Date,
				Time:      created.Time,
				Source:    string(req.Source),
				Filename:  req.Filename,
				Context:   req.Context,
				CreatedAt: created.CreatedAt.Format(time.RFC3339),
			},
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		metrics.BookingResolutionTotal.WithLabelValues(string(req.Source), "error").Inc()
		return nil, err
	}

	metrics.BookingResolutionTotal.WithLabelValues(string(req.Source), string(resolution.Status)).Inc()
	logger.Info(ctx, "booking resolved",
		"status", resolution.Status,
		"source", req.Source,
		"date", req.Date,
	)
	return resolution, nil
}
