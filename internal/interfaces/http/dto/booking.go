package dto

import (
	"time"

	"rag-interview-api/internal/domain/entity"
)

// BookingRequest 直接预约请求，字段均可缺省，
// 缺失的姓名和邮箱会尝试用最近上传的简历补全
type BookingRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

// BookingResponse 预约详情响应
type BookingResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBookingResponse 从实体构建预约响应
func NewBookingResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		Name:      b.Name,
		Email:     b.Email,
		Date:      b.Date,
		Time:      b.Time,
		Source:    string(b.Source),
		CreatedAt: b.CreatedAt,
	}
}

// NewBookingListResponse 从实体列表构建预约响应列表
func NewBookingListResponse(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, NewBookingResponse(b))
	}
	return out
}
