package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"rag-interview-api/internal/application/extraction"
	"rag-interview-api/internal/domain/repository"
	"rag-interview-api/internal/interfaces/http/dto"
	"rag-interview-api/pkg/errors"
)

// BookingHandler 预约处理器
type BookingHandler struct {
	engine *extraction.Engine
	repo   repository.BookingRepository
}

// NewBookingHandler 创建预约处理器
func NewBookingHandler(engine *extraction.Engine, repo repository.BookingRepository) *BookingHandler {
	return &BookingHandler{
		engine: engine,
		repo:   repo,
	}
}

// Create 创建预约
// @Summary 预约面试
// @Description 直接预约面试，缺失的姓名和邮箱用最近上传的简历补全
// @Tags Bookings
// @Accept json
// @Produce json
// @Param body body dto.BookingRequest true "预约请求"
// @Success 201 {object} dto.Response[booking.Resolution]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req dto.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body")
		return
	}

	res, missing, err := h.engine.BookInterview(c.Request.Context(), extraction.BookingInfo{
		Name:  req.Name,
		Email: req.Email,
		Date:  req.Date,
		Time:  req.Time,
	})
	if err != nil {
		dto.FromError(c, err)
		return
	}
	if len(missing) > 0 {
		dto.ErrorWithDetail(c, 400, "Please provide: "+strings.Join(missing, ", "), &dto.ErrorDetail{
			ErrorCode:     string(errors.CodeValidationFailed),
			MissingFields: missing,
		})
		return
	}

	dto.Created(c, res)
}

// Get 查询预约详情
// @Summary 查询预约
// @Tags Bookings
// @Produce json
// @Param id path string true "预约 ID"
// @Success 200 {object} dto.Response[dto.BookingResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	b, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.NewBookingResponse(b))
}

// List 分页列出预约
// @Summary 列出预约
// @Tags Bookings
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.Response[[]dto.BookingResponse]
// @Router /v1/bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	page := parsePagination(c)

	result, err := h.repo.List(c.Request.Context(), page)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	dto.SuccessWithPage(c, dto.NewBookingListResponse(result.Items),
		dto.NewPageMeta(page.Page, page.Limit(), int(result.Total)))
}
