package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"rag-interview-api/internal/application/booking"
	"rag-interview-api/internal/domain/entity"
	"rag-interview-api/internal/domain/repository"
	"rag-interview-api/pkg/logger"
	"rag-interview-api/pkg/metrics"
)

var tracer = otel.Tracer("extraction")

// 意图处理结果，用于指标
const (
	outcomeNotABooking = "not_a_booking"
	outcomeIncomplete  = "incomplete"
	outcomeComplete    = "complete"
)

// bookingInfoPrompt 从消息中抽取预约信息的提示词
const bookingInfoPrompt = `Analyze this message for interview booking information. Extract any available details.
Return ONLY a JSON object with these fields (use null for missing information):

{
    "name": "full name of person or null",
    "email": "email address or null",
    "date": "date in YYYY-MM-DD format or null",
    "time": "time in HH:MM format or null",
    "intent": "booking/inquiry/other"
}

Message: "%s"

JSON:`

// cvInfoPrompt 从简历中抽取个人信息的提示词
const cvInfoPrompt = `Extract personal information from this CV/resume document.
Return ONLY a JSON object with these fields (use null for missing information):

{
    "name": "full name or null",
    "email": "email address or null"
}

Document text: "%s..."

JSON:`

// documentExtractPrompt 从文档中抽取预约请求列表的提示词
const documentExtractPrompt = `Analyze the following document text and extract any interview booking requests or scheduling information.
Look for:
1. Names of people requesting interviews
2. Email addresses
3. Dates (in various formats)
4. Times
5. Interview requests or scheduling language

Return ONLY valid JSON array format. If no interview information found, return empty array [].

Example format:
[
    {
        "name": "John Doe",
        "email": "john@example.com",
        "date": "2024-01-25",
        "time": "14:30",
        "context": "brief context from document"
    }
]

Document text:
%s

JSON Response:`

// Generator 文本生成接口
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Engine 预约信息抽取引擎：关键词意图识别、AI 信息抽取、
// 简历数据补全和正则回退挖掘的组合
type Engine struct {
	generator     Generator
	documents     repository.DocumentRepository
	resolver      booking.Resolver
	cvPrefixChars int
	now           func() time.Time
}

// NewEngine 创建抽取引擎
func NewEngine(generator Generator, documents repository.DocumentRepository, resolver booking.Resolver, cvPrefixChars int) *Engine {
	if cvPrefixChars <= 0 {
		cvPrefixChars = 2000
	}
	return &Engine{
		generator:     generator,
		documents:     documents,
		resolver:      resolver,
		cvPrefixChars: cvPrefixChars,
		now:           time.Now,
	}
}

// ProcessBookingRequest 处理可能含预约意图的聊天消息。
// 返回 (是否为预约请求, 回复文本, 预约结果)。
func (e *Engine) ProcessBookingRequest(ctx context.Context, message string) (bool, string, *booking.Resolution) {
	ctx, span := tracer.Start(ctx, "extraction.ProcessBookingRequest")
	defer span.End()

	if !IsBookingRequest(message) {
		metrics.BookingIntentTotal.WithLabelValues(outcomeNotABooking).Inc()
		return false, "", nil
	}

	info := e.extractBookingInfo(ctx, message)
	if info == nil {
		metrics.BookingIntentTotal.WithLabelValues(outcomeIncomplete).Inc()
		return true, InfoRequestResponse(), nil
	}

	enhanced := e.enhanceWithCVData(ctx, *info)

	if missing := enhanced.Missing(); len(missing) > 0 {
		span.SetAttributes(attribute.StringSlice("missing_fields", missing))
		metrics.BookingIntentTotal.WithLabelValues(outcomeIncomplete).Inc()
		return true, MissingInfoResponse(missing), nil
	}

	res, err := e.resolver.Resolve(ctx, booking.Request{
		Name:   enhanced.Name,
		Email:  enhanced.Email,
		Date:   enhanced.Date,
		Time:   enhanced.Time,
		Source: entity.BookingSourceChat,
	})
	if err != nil {
		span.RecordError(err)
		metrics.BookingIntentTotal.WithLabelValues(outcomeComplete).Inc()
		return true, BookingErrorResponse(err), nil
	}

	metrics.BookingIntentTotal.WithLabelValues(outcomeComplete).Inc()
	return true, ConfirmationResponse(res), res
}

// BookInterview 直接预约入口。缺失的姓名和邮箱先用最近上传的
// 简历补全，仍不完整时返回缺失字段列表而不是错误。
func (e *Engine) BookInterview(ctx context.Context, info BookingInfo) (*booking.Resolution, []string, error) {
	ctx, span := tracer.Start(ctx, "extraction.BookInterview")
	defer span.End()

	enhanced := e.enhanceWithCVData(ctx, info)

	if missing := enhanced.Missing(); len(missing) > 0 {
		span.SetAttributes(attribute.StringSlice("missing_fields", missing))
		return nil, missing, nil
	}

	res, err := e.resolver.Resolve(ctx, booking.Request{
		Name:   enhanced.Name,
		Email:  enhanced.Email,
		Date:   enhanced.Date,
		Time:   enhanced.Time,
		Source: entity.BookingSourceChat,
	})
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}
	return res, nil, nil
}

// extractBookingInfo 用 AI 从消息中抽取预约信息，失败时返回 nil
func (e *Engine) extractBookingInfo(ctx context.Context, message string) *BookingInfo {
	ctx, span := tracer.Start(ctx, "extraction.extractBookingInfo")
	defer span.End()

	response, err := e.generator.Generate(ctx, "", fmt.Sprintf(bookingInfoPrompt, message))
	if err != nil {
		span.RecordError(err)
		logger.Warn(ctx, "booking info extraction failed", "error", err.Error())
		return nil
	}

	jsonText := ExtractJSONObject(response)
	if jsonText == "" {
		return nil
	}

	var info BookingInfo
	if err := json.Unmarshal([]byte(jsonText), &info); err != nil {
		span.RecordError(err)
		logger.Warn(ctx, "booking info parse failed", "error", err.Error())
		return nil
	}
	return &info
}

// enhanceWithCVData 用最近上传的简历补全缺失的姓名和邮箱。
// 只填充空字段，消息中已有的信息优先。
func (e *Engine) enhanceWithCVData(ctx context.Context, info BookingInfo) BookingInfo {
	if info.Name != "" && info.Email != "" {
		return info
	}

	ctx, span := tracer.Start(ctx, "extraction.enhanceWithCVData")
	defer span.End()

	doc, err := e.documents.GetLatest(ctx)
	if err != nil || doc == nil {
		return info
	}

	cvData := e.extractCVInfo(ctx, doc.Content)

	if info.Name == "" && cvData.Name != "" {
		info.Name = cvData.Name
	}
	if info.Email == "" && cvData.Email != "" {
		info.Email = cvData.Email
	}
	return info
}

// extractCVInfo 用 AI 从简历文本前缀中抽取姓名和邮箱
func (e *Engine) extractCVInfo(ctx context.Context, documentText string) BookingInfo {
	ctx, span := tracer.Start(ctx, "extraction.extractCVInfo")
	defer span.End()

	runes := []rune(documentText)
	if len(runes) > e.cvPrefixChars {
		runes = runes[:e.cvPrefixChars]
	}

	response, err := e.generator.Generate(ctx, "", fmt.Sprintf(cvInfoPrompt, string(runes)))
	if err != nil {
		span.RecordError(err)
		logger.Warn(ctx, "cv info extraction failed", "error", err.Error())
		return BookingInfo{}
	}

	jsonText := ExtractJSONObject(response)
	if jsonText == "" {
		return BookingInfo{}
	}

	var info BookingInfo
	if err := json.Unmarshal([]byte(jsonText), &info); err != nil {
		span.RecordError(err)
		return BookingInfo{}
	}
	return info
}

// ExtractFromDocument 从上传的文档中抽取并落库预约请求。
// AI 抽取优先，完全失败时走正则回退；每条合法候选逐一解析。
func (e *Engine) ExtractFromDocument(ctx context.Context, textContent, filename string) []*booking.Resolution {
	ctx, span := tracer.Start(ctx, "extraction.ExtractFromDocument",
		trace.WithAttributes(attribute.String("filename", filename)))
	defer span.End()

	candidates := e.extractWithAI(ctx, textContent)
	if len(candidates) == 0 {
		candidates = MineBookingCandidates(textContent, e.now())
	}

	var resolutions []*booking.Resolution
	for _, candidate := range candidates {
		if !candidate.Valid() {
			continue
		}

		res, err := e.resolver.Resolve(ctx, booking.Request{
			Name:     candidate.Name,
			Email:    candidate.Email,
			Date:     candidate.Date,
			Time:     candidate.Time,
			Source:   entity.BookingSourceDocument,
			Filename: filename,
			Context:  candidate.Context,
		})
		if err != nil {
			span.RecordError(err)
			logger.Warn(ctx, "failed to book extracted interview", "error", err.Error())
			continue
		}
		resolutions = append(resolutions, res)
	}

	span.SetAttributes(attribute.Int("booked_count", len(resolutions)))
	return resolutions
}

// extractWithAI 用 AI 从文档中抽取预约请求列表，失败时返回空
func (e *Engine) extractWithAI(ctx context.Context, textContent string) []BookingInfo {
	ctx, span := tracer.Start(ctx, "extraction.extractWithAI")
	defer span.End()

	response, err := e.generator.Generate(ctx, "", fmt.Sprintf(documentExtractPrompt, textContent))
	if err != nil {
		span.RecordError(err)
		logger.Warn(ctx, "document extraction failed", "error", err.Error())
		return nil
	}

	jsonText := ExtractJSONArray(response)
	if jsonText == "" {
		return nil
	}

	var candidates []BookingInfo
	if err := json.Unmarshal([]byte(jsonText), &candidates); err != nil {
		span.RecordError(err)
		logger.Warn(ctx, "document extraction parse failed", "error", err.Error())
		return nil
	}
	return candidates
}
