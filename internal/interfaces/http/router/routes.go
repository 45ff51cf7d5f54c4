package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h Handlers) {
	// 文档管理
	documents := v1.Group("/documents")
	{
		documents.POST("", h.Document.Upload)
		documents.GET("", h.Document.List)
		documents.GET("/:id", h.Document.Get)
	}

	// 会话问答
	v1.POST("/chat", h.Chat.Chat)

	// 预约管理
	bookings := v1.Group("/bookings")
	{
		bookings.POST("", h.Booking.Create)
		bookings.GET("", h.Booking.List)
		bookings.GET("/:id", h.Booking.Get)
	}
}
