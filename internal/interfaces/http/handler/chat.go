package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"rag-interview-api/internal/application/chat"
	"rag-interview-api/internal/interfaces/http/dto"
)

// ChatHandler 会话处理器
type ChatHandler struct {
	svc *chat.Service
}

// NewChatHandler 创建会话处理器
func NewChatHandler(svc *chat.Service) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// Chat 处理用户消息
// @Summary 会话问答
// @Description 处理用户消息：预约意图走预约流程，其余走 RAG 问答
// @Tags Chat
// @Accept json
// @Produce json
// @Param body body dto.ChatRequest true "会话请求"
// @Success 200 {object} dto.Response[dto.ChatResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		dto.BadRequest(c, "message cannot be empty")
		return
	}

	result, err := h.svc.ProcessQuery(c.Request.Context(), req.Message, req.SessionID)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	dto.Success(c, dto.ChatResponse{
		Response:      result.Response,
		SessionID:     result.SessionID,
		Sources:       result.Sources,
		BookingResult: result.BookingResult,
	})
}
