// Package chat 提供会话问答编排
package chat

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"rag-interview-api/internal/application/booking"
	"rag-interview-api/internal/application/extraction"
	"rag-interview-api/internal/application/retrieval"
	"rag-interview-api/internal/domain/entity"
	"rag-interview-api/internal/domain/repository"
	"rag-interview-api/pkg/logger"
)

var tracer = otel.Tracer("chat")

// BookingProcessor 预约意图处理接口
type BookingProcessor interface {
	ProcessBookingRequest(ctx context.Context, message string) (bool, string, *booking.Resolution)
}

// Answerer RAG 问答接口
type Answerer interface {
	Answer(ctx context.Context, query, chatHistory string) (*retrieval.Result, error)
}

// Result 会话处理结果
type Result struct {
	Response      string              `json:"response"`
	SessionID     string              `json:"session_id"`
	Sources       []string            `json:"sources"`
	BookingResult *booking.Resolution `json:"booking_result,omitempty"`
}

// Service 会话服务：预约意图优先，其余消息走 RAG 问答
type Service struct {
	answerer     Answerer
	bookings     BookingProcessor
	sessions     repository.SessionLog
	historyLimit int
}

// NewService 创建会话服务
func NewService(answerer Answerer, bookings BookingProcessor, sessions repository.SessionLog, historyLimit int) *Service {
	if historyLimit <= 0 {
		historyLimit = 5
	}
	return &Service{
		answerer:     answerer,
		bookings:     bookings,
		sessions:     sessions,
		historyLimit: historyLimit,
	}
}

// ProcessQuery 处理一条用户消息
func (s *Service) ProcessQuery(ctx context.Context, query, sessionID string) (*Result, error) {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	ctx = logger.WithContext(ctx, logger.SessionIDKey, sessionID)

	ctx, span := tracer.Start(ctx, "chat.ProcessQuery",
		trace.WithAttributes(attribute.String("session_id", sessionID)))
	defer span.End()

	// 预约请求优先于 RAG 问答
	isBooking, bookingResponse, bookingResult := s.bookings.ProcessBookingRequest(ctx, query)
	if isBooking {
		s.appendTurn(ctx, sessionID, query, bookingResponse)
		return &Result{
			Response:      bookingResponse,
			SessionID:     sessionID,
			Sources:       []string{},
			BookingResult: bookingResult,
		}, nil
	}

	turns, err := s.sessions.Recent(ctx, sessionID, s.historyLimit)
	if err != nil {
		// 历史不可用时继续无上下文回答
		logger.Warn(ctx, "failed to load session history", "error", err.Error())
		turns = nil
	}

	answer, err := s.answerer.Answer(ctx, query, retrieval.FormatHistory(turns))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.appendTurn(ctx, sessionID, query, answer.Answer)

	sources := answer.Sources
	if sources == nil {
		sources = []string{}
	}
	return &Result{
		Response:  answer.Answer,
		SessionID: sessionID,
		Sources:   sources,
	}, nil
}

// appendTurn 追加会话记录，失败只记日志
func (s *Service) appendTurn(ctx context.Context, sessionID, question, answer string) {
	if err := s.sessions.Append(ctx, sessionID, entity.NewSessionTurn(question, answer)); err != nil {
		logger.Warn(ctx, "failed to store session turn", "error", err.Error())
	}
}

// 确保默认实现满足接口
var _ BookingProcessor = (*extraction.Engine)(nil)
var _ Answerer = (*retrieval.Pipeline)(nil)
