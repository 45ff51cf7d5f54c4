package entity

import (
	"time"

	"github.com/google/uuid"
)

// BookingSource 预约来源
type BookingSource string

const (
	// BookingSourceChat 对话式预约意图抽取
	BookingSourceChat BookingSource = "chat_booking"
	// BookingSourceDocument 简历文档抽取
	BookingSourceDocument BookingSource = "document_extraction"
)

// BookingStatus 预约解析结果状态
type BookingStatus string

const (
	// BookingStatusNewlyBooked 新创建的预约
	BookingStatusNewlyBooked BookingStatus = "newly_booked"
	// BookingStatusAlreadyExists 同一邮箱同一日期已存在预约
	BookingStatusAlreadyExists BookingStatus = "already_exists"
)

// Booking 面试预约记录，(email, date) 唯一
type Booking struct {
	ID        string        `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string        `gorm:"type:varchar(256);not null" json:"name"`
	Email     string        `gorm:"type:varchar(320);not null;uniqueIndex:uq_bookings_email_date" json:"email"`
	Date      string        `gorm:"type:varchar(10);not null;uniqueIndex:uq_bookings_email_date" json:"date"`
	Time      string        `gorm:"type:varchar(5);not null" json:"time"`
	Source    BookingSource `gorm:"type:varchar(32);not null" json:"source"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (Booking) TableName() string {
	return "interview_bookings"
}

// NewBooking 创建新预约
func NewBooking(name, email, date, timeOfDay string, source BookingSource) *Booking {
	return &Booking{
		ID:     uuid.New().String(),
		Name:   name,
		Email:  email,
		Date:   date,
		Time:   timeOfDay,
		Source: source,
	}
}
